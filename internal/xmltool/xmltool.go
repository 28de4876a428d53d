// Package xmltool validates, formats, and diffs XML documents for the
// XML helper screen.
package xmltool

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

var ErrNoContent = errors.New("no XML content")

// Report describes a well-formed document.
type Report struct {
	Root      string
	RootAttrs map[string]string
	TagCounts map[string]int
}

// Validate checks src for well-formedness and collects the root
// element, its attributes, and per-tag occurrence counts.
func Validate(src string) (*Report, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrNoContent
	}

	dec := xml.NewDecoder(strings.NewReader(src))
	rep := &Report{TagCounts: make(map[string]int)}
	depth := 0
	rootClosed := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && rootClosed {
				return nil, errors.New("junk after document element")
			}
			if depth == 0 && rep.Root == "" {
				rep.Root = t.Name.Local
				rep.RootAttrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					rep.RootAttrs[a.Name.Local] = a.Value
				}
			}
			rep.TagCounts[t.Name.Local]++
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				rootClosed = true
			}
		}
	}
	if rep.Root == "" {
		return nil, errors.New("no root element found")
	}
	return rep, nil
}

// Summary renders the block shown when validation succeeds.
func (r *Report) Summary() string {
	var b strings.Builder
	b.WriteString("✓ XML is well-formed and valid\n\n")
	fmt.Fprintf(&b, "Root element: %s\n", r.Root)
	fmt.Fprintf(&b, "Root attributes: %v\n\n", r.RootAttrs)
	b.WriteString("Tag statistics:\n")

	tags := make([]string, 0, len(r.TagCounts))
	for tag := range r.TagCounts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Fprintf(&b, "  %s: %d\n", tag, r.TagCounts[tag])
	}
	return b.String()
}

// ExplainError renders the failure block with the usual suspects.
func ExplainError(err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ XML Parse Error:\n\n%v\n\n", err)
	b.WriteString("Common issues:\n")
	b.WriteString("- Unclosed tags\n")
	b.WriteString("- Missing quotes around attributes\n")
	b.WriteString("- Invalid characters in tag names\n")
	b.WriteString("- Mismatched opening/closing tags\n")
	return b.String()
}

// Format pretty-prints src with two-space indentation. The output
// always opens with an XML declaration and whitespace-only text nodes
// are dropped, so reformatting is stable.
func Format(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", ErrNoContent
	}

	dec := xml.NewDecoder(strings.NewReader(src))
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.ProcInst:
			// the header above replaces any input declaration
			continue
		case xml.CharData:
			trimmed := strings.TrimSpace(string(t))
			if trimmed == "" {
				continue
			}
			tok = xml.CharData(trimmed)
		}
		if err := enc.EncodeToken(tok); err != nil {
			return "", err
		}
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// contextLines is the number of unchanged lines kept around changes;
// longer equal runs collapse to "...".
const contextLines = 3

// Changes renders a unified-style diff of two documents, as shown
// after a reformat.
func Changes(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := 0; i < contextLines; i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// SampleDocument is preloaded into the input pane so Validate and
// Format have something to chew on.
func SampleDocument() string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<data>
    <item id="1">
        <name>Sample Item</name>
        <value>100</value>
    </item>
</data>`
}
