package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Logger receives scan-time error reports. The zero value of scanner
// works without one.
type Logger interface {
	Error(message string)
}

// scanExts are the filename suffixes considered in directory mode.
var scanExts = []string{".log", ".txt"}

type scanner struct {
	matcher   Matcher
	chunkSize int
	encoding  string
	log       Logger
}

// scanFile streams one file and returns its matching lines. The
// returned error is nil on a clean pass, the context error when the
// scan was stopped, or the I/O error that interrupted reading. Matches
// gathered before an interruption are always returned.
func (s *scanner) scanFile(ctx context.Context, path string) ([]Line, error) {
	cr, err := OpenChunkReader(path, s.chunkSize, s.encoding)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	asm := NewLineAssembler()
	var matches []Line
	for {
		if err := ctx.Err(); err != nil {
			return matches, err
		}
		chunk, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return matches, err
		}
		for _, line := range asm.Feed(chunk) {
			if s.matcher.Match(line.Text) {
				matches = append(matches, line)
			}
		}
	}
	if line, ok := asm.Flush(); ok && s.matcher.Match(line.Text) {
		matches = append(matches, line)
	}
	return matches, nil
}

// scanDir scans the immediate *.log and *.txt files of dir in lexical
// order. Per-file failures become diagnostics and the walk continues;
// only a stop request or an unreadable dir itself ends it early. Line
// numbers restart at 1 for each file.
func (s *scanner) scanDir(ctx context.Context, dir string, onFile func(name string)) ([]Line, []Diagnostic, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	var (
		all   []Line
		diags []Diagnostic
	)
	for _, ent := range entries {
		if err := ctx.Err(); err != nil {
			return all, diags, err
		}
		if ent.IsDir() || !wantFile(ent.Name()) {
			continue
		}
		if onFile != nil {
			onFile(ent.Name())
		}
		path := filepath.Join(dir, ent.Name())
		matches, err := s.scanFile(ctx, path)
		all = append(all, matches...)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return all, diags, err
			}
			diags = append(diags, Diagnostic{Path: path, Err: err})
			s.errorf("error reading file %s: %v", path, err)
		}
	}
	return all, diags, nil
}

func (s *scanner) errorf(format string, args ...any) {
	if s.log != nil {
		s.log.Error(fmt.Sprintf(format, args...))
	}
}

func wantFile(name string) bool {
	for _, ext := range scanExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
