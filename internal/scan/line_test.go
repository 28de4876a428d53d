package scan

import (
	"strings"
	"testing"
)

func feedInChunks(content string, size int) []Line {
	asm := NewLineAssembler()
	var lines []Line
	for i := 0; i < len(content); i += size {
		end := i + size
		if end > len(content) {
			end = len(content)
		}
		lines = append(lines, asm.Feed(content[i:end])...)
	}
	if line, ok := asm.Flush(); ok {
		lines = append(lines, line)
	}
	return lines
}

func TestLineAssemblerReconstruction(t *testing.T) {
	content := "alpha\nbeta gamma\n\ncarriage\r\nlast line without newline"
	sizes := []int{1, 2, 3, 7, 16, 64, len(content), len(content) + 100}

	for _, size := range sizes {
		lines := feedInChunks(content, size)
		texts := make([]string, len(lines))
		for i, l := range lines {
			texts[i] = l.Text
		}
		if got := strings.Join(texts, "\n"); got != content {
			t.Errorf("chunk size %d: reassembled %q, want %q", size, got, content)
		}
	}
}

func TestLineAssemblerTrailingNewline(t *testing.T) {
	content := "one\ntwo\n"
	for _, size := range []int{1, 3, len(content)} {
		lines := feedInChunks(content, size)
		if len(lines) != 2 {
			t.Fatalf("chunk size %d: got %d lines, want 2", size, len(lines))
		}
		if lines[0].Text != "one" || lines[1].Text != "two" {
			t.Errorf("chunk size %d: got %q and %q, want \"one\" and \"two\"",
				size, lines[0].Text, lines[1].Text)
		}
	}
}

func TestLineAssemblerNumbering(t *testing.T) {
	content := "a\nb\nc\nd\ne"
	lines := feedInChunks(content, 2)
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	for i, l := range lines {
		if l.Number != i+1 {
			t.Errorf("line %d numbered %d, want %d", i, l.Number, i+1)
		}
	}
}

func TestLineAssemblerFlush(t *testing.T) {
	asm := NewLineAssembler()
	asm.Feed("complete\n")
	if line, ok := asm.Flush(); ok {
		t.Errorf("Flush() after terminated input returned %q, want nothing", line.Text)
	}

	asm = NewLineAssembler()
	asm.Feed("no newline here")
	line, ok := asm.Flush()
	if !ok {
		t.Fatal("Flush() returned nothing, want the unterminated tail")
	}
	if line.Text != "no newline here" || line.Number != 1 {
		t.Errorf("Flush() = %d: %q, want 1: \"no newline here\"", line.Number, line.Text)
	}
	if _, ok := asm.Flush(); ok {
		t.Error("second Flush() returned a line, want nothing")
	}
}

func TestLineString(t *testing.T) {
	l := Line{Number: 42, Text: "BETA error"}
	if got := l.String(); got != "42: BETA error" {
		t.Errorf("String() = %q, want %q", got, "42: BETA error")
	}
}
