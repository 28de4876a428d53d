package xmltool

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateSample(t *testing.T) {
	rep, err := Validate(SampleDocument())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rep.Root != "data" {
		t.Errorf("Root = %q, want data", rep.Root)
	}
	if len(rep.RootAttrs) != 0 {
		t.Errorf("RootAttrs = %v, want empty", rep.RootAttrs)
	}
	want := map[string]int{"data": 1, "item": 1, "name": 1, "value": 1}
	for tag, count := range want {
		if rep.TagCounts[tag] != count {
			t.Errorf("TagCounts[%q] = %d, want %d", tag, rep.TagCounts[tag], count)
		}
	}
}

func TestValidateRootAttributes(t *testing.T) {
	rep, err := Validate(`<data version="2" source="demo"><item/><item/></data>`)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rep.RootAttrs["version"] != "2" || rep.RootAttrs["source"] != "demo" {
		t.Errorf("RootAttrs = %v, want version=2 source=demo", rep.RootAttrs)
	}
	if rep.TagCounts["item"] != 2 {
		t.Errorf("TagCounts[item] = %d, want 2", rep.TagCounts["item"])
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		wantNoContent bool
	}{
		{name: "empty", src: "", wantNoContent: true},
		{name: "whitespace only", src: "  \n\t", wantNoContent: true},
		{name: "unclosed root", src: "<a><b></b>"},
		{name: "mismatched tags", src: "<a><b></a>"},
		{name: "unquoted attribute", src: `<a id=1></a>`},
		{name: "no element", src: "just text"},
		{name: "second root", src: "<a></a><b></b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.src)
			if err == nil {
				t.Fatalf("Validate(%q) succeeded, want error", tt.src)
			}
			if tt.wantNoContent != errors.Is(err, ErrNoContent) {
				t.Errorf("Validate(%q) error = %v, wantNoContent %v", tt.src, err, tt.wantNoContent)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	rep, err := Validate(`<data><b/><a/><a/></data>`)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := "✓ XML is well-formed and valid\n\n" +
		"Root element: data\n" +
		"Root attributes: map[]\n\n" +
		"Tag statistics:\n" +
		"  a: 2\n" +
		"  b: 1\n" +
		"  data: 1\n"
	if got := rep.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestExplainError(t *testing.T) {
	_, err := Validate("<a><b></a>")
	if err == nil {
		t.Fatal("Validate() succeeded, want error")
	}

	out := ExplainError(err)
	if !strings.HasPrefix(out, "✗ XML Parse Error:\n\n") {
		t.Errorf("ExplainError() = %q, want parse error banner", out)
	}
	if !strings.Contains(out, "- Unclosed tags\n") || !strings.Contains(out, "- Mismatched opening/closing tags\n") {
		t.Errorf("ExplainError() missing hint lines: %q", out)
	}
}

func TestFormatSample(t *testing.T) {
	got, err := Format(SampleDocument())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := `<?xml version="1.0" encoding="UTF-8"?>
<data>
  <item id="1">
    <name>Sample Item</name>
    <value>100</value>
  </item>
</data>`
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatIdempotent(t *testing.T) {
	once, err := Format(SampleDocument())
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	twice, err := Format(once)
	if err != nil {
		t.Fatalf("Format() second pass error = %v", err)
	}
	if once != twice {
		t.Errorf("Format() is not stable:\nfirst  %q\nsecond %q", once, twice)
	}
}

func TestFormatRejects(t *testing.T) {
	if _, err := Format("   "); !errors.Is(err, ErrNoContent) {
		t.Errorf("Format(blank) error = %v, want ErrNoContent", err)
	}
	if _, err := Format("<a><b></a>"); err == nil {
		t.Error("Format(mismatched) succeeded, want error")
	}
}

func TestChanges(t *testing.T) {
	out := Changes("a\nb\nc\n", "a\nx\nc\n")
	if !strings.Contains(out, "- b\n") || !strings.Contains(out, "+ x\n") {
		t.Errorf("Changes() = %q, want -b and +x lines", out)
	}
	if !strings.Contains(out, "  a\n") {
		t.Errorf("Changes() = %q, want unchanged context line", out)
	}
}

func TestChangesCollapsesLongEqualRuns(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("same\n")
	}
	before := b.String() + "foo\n"
	after := b.String() + "bar\n"

	out := Changes(before, after)
	if !strings.Contains(out, "  ...\n") {
		t.Errorf("Changes() = %q, want collapsed context", out)
	}
	if !strings.Contains(out, "- foo\n") || !strings.Contains(out, "+ bar\n") {
		t.Errorf("Changes() = %q, want the trailing change", out)
	}
}

func TestChangesIdentical(t *testing.T) {
	out := Changes("x\ny\n", "x\ny\n")
	if strings.Contains(out, "+ ") || strings.Contains(out, "- ") {
		t.Errorf("Changes() = %q, want context lines only", out)
	}
}
