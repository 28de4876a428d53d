package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCreatesSessionLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := New(dir, "INFO")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer l.Close()

	if !strings.HasPrefix(filepath.Base(l.Path()), "run-") {
		t.Errorf("session log %q, want a run-*.log name", l.Path())
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Errorf("session log missing: %v", err)
	}

	target, err := os.Readlink(filepath.Join(dir, "latest.log"))
	if err != nil {
		t.Fatalf("latest.log is not a symlink: %v", err)
	}
	if target != filepath.Base(l.Path()) {
		t.Errorf("latest.log points at %q, want %q", target, filepath.Base(l.Path()))
	}
}

func TestLatestSymlinkRepointed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	first, err := New(dir, "INFO")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	first.Close()

	second, err := New(dir, "INFO")
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer second.Close()

	target, err := os.Readlink(filepath.Join(dir, "latest.log"))
	if err != nil {
		t.Fatalf("latest.log is not a symlink: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, target)); err != nil {
		t.Errorf("latest.log points at a missing file: %v", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := New(dir, "ERROR")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Debug("debug dropped")
	l.Info("info dropped")
	l.Warn("warn dropped")
	l.Error("error kept")
	l.Close()

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Contains(content, "dropped") {
		t.Errorf("log contains filtered messages:\n%s", content)
	}
	if !strings.Contains(content, "[ERROR] error kept") {
		t.Errorf("log missing the error line:\n%s", content)
	}
}

func TestWarningAlias(t *testing.T) {
	if got := levelFromName("WARNING"); got != levelWarn {
		t.Errorf("levelFromName(WARNING) = %d, want levelWarn", got)
	}
	if got := levelFromName("bogus"); got != levelInfo {
		t.Errorf("levelFromName(bogus) = %d, want levelInfo default", got)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("nowhere")
	l.Error("nowhere")
	if err := l.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestCloseTwice(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := New(dir, "INFO")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
