package scan

import (
	"errors"
	"testing"
)

func TestNewMatcherLiteral(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		line    string
		want    bool
	}{
		{"case insensitive", "error", "An ERROR occurred", true},
		{"mixed case pattern", "ErRoR", "an error occurred", true},
		{"substring", "eta err", "BETA error", true},
		{"absent", "error", "all systems nominal", false},
		{"empty line", "error", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.pattern, false)
			if err != nil {
				t.Fatalf("NewMatcher() error = %v", err)
			}
			if got := m.Match(tt.line); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestNewMatcherRegex(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		line    string
		want    bool
	}{
		{"anchored timestamp", `^\d{4}-\d{2}-\d{2}`, "2024-01-15 10:00:00 started", true},
		{"anchor rejects offset", `^\d{4}-\d{2}-\d{2}`, "at 2024-01-15 the run began", false},
		{"search anywhere", `\d{3}`, "status code 404 returned", true},
		{"case sensitive", "ERROR", "an error occurred", false},
		{"alternation", "(GET|POST)", "GET /health", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.pattern, true)
			if err != nil {
				t.Fatalf("NewMatcher() error = %v", err)
			}
			if got := m.Match(tt.line); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestNewMatcherInvalidRegex(t *testing.T) {
	_, err := NewMatcher("[unclosed", true)
	if err == nil {
		t.Fatal("NewMatcher() accepted an unclosed character class")
	}
	var patErr *InvalidPatternError
	if !errors.As(err, &patErr) {
		t.Fatalf("NewMatcher() error = %T, want *InvalidPatternError", err)
	}
	if patErr.Pattern != "[unclosed" {
		t.Errorf("Pattern = %q, want %q", patErr.Pattern, "[unclosed")
	}
	if patErr.Unwrap() == nil {
		t.Error("Unwrap() = nil, want the compile error")
	}
}

func TestNewMatcherLiteralNeverFails(t *testing.T) {
	m, err := NewMatcher("[unclosed", false)
	if err != nil {
		t.Fatalf("NewMatcher() error = %v, literal patterns must always build", err)
	}
	if !m.Match("found [unclosed bracket") {
		t.Error("Match() = false, want the bracket text found literally")
	}
}

func TestPresetsCompile(t *testing.T) {
	for _, p := range Presets {
		if _, err := NewMatcher(p.Pattern, p.Regex); err != nil {
			t.Errorf("preset %q does not compile: %v", p.Name, err)
		}
	}
}

func TestPresetMatches(t *testing.T) {
	tests := []struct {
		preset string
		line   string
		want   bool
	}{
		{"Error Messages", "an Error here", true},
		{"Error Messages", "erroneous but fine", false},
		{"Warning Messages", "WARN low disk", true},
		{"HTTP Requests", "GET /api/v1/jobs HTTP/1.1", true},
		{"IP Addresses", "peer 192.168.0.12 connected", true},
		{"Timestamps", "2024-01-15 10:30:00 done", true},
		{"Timestamps", "2024-01-15 no clock", false},
	}

	for _, tt := range tests {
		t.Run(tt.preset+"/"+tt.line, func(t *testing.T) {
			p, ok := PresetByName(tt.preset)
			if !ok {
				t.Fatalf("PresetByName(%q) found nothing", tt.preset)
			}
			m, err := NewMatcher(p.Pattern, p.Regex)
			if err != nil {
				t.Fatalf("NewMatcher() error = %v", err)
			}
			if got := m.Match(tt.line); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
