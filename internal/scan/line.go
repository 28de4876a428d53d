package scan

import (
	"fmt"
	"strings"
)

// Line is one logical line of a scanned file, numbered from 1.
type Line struct {
	Number int
	Text   string
}

// String renders the line in the form surfaced to result views.
func (l Line) String() string {
	return fmt.Sprintf("%d: %s", l.Number, l.Text)
}

// LineAssembler turns a stream of arbitrary text chunks back into
// complete lines. A chunk may end mid-line; the unterminated tail is
// carried and prepended to the next chunk, so the emitted lines are
// identical no matter how the input was chunked.
type LineAssembler struct {
	carry string
	next  int
}

func NewLineAssembler() *LineAssembler {
	return &LineAssembler{next: 1}
}

// Feed appends chunk to the carried tail and emits every line that is
// now complete. Only "\n" terminates a line; a "\r" before it stays
// part of the line text.
func (a *LineAssembler) Feed(chunk string) []Line {
	if chunk == "" {
		return nil
	}
	parts := strings.Split(a.carry+chunk, "\n")
	a.carry = parts[len(parts)-1]
	parts = parts[:len(parts)-1]
	if len(parts) == 0 {
		return nil
	}
	lines := make([]Line, len(parts))
	for i, text := range parts {
		lines[i] = Line{Number: a.next, Text: text}
		a.next++
	}
	return lines
}

// Flush emits the carried tail as a final line when the input did not
// end with a newline. It reports false when there is nothing pending.
func (a *LineAssembler) Flush() (Line, bool) {
	if a.carry == "" {
		return Line{}, false
	}
	line := Line{Number: a.next, Text: a.carry}
	a.next++
	a.carry = ""
	return line, true
}
