package scan

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by Start when the pattern or path is empty.
	ErrEmptyInput = errors.New("pattern and path are required")

	// ErrPathNotFound is returned by Start when the path does not exist.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrAlreadyStarted is returned by Start on a job that is not idle.
	// Jobs are single-use; a new scan requires a new job.
	ErrAlreadyStarted = errors.New("scan job already started")
)

// InvalidPatternError reports a regex pattern that failed to compile.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// Diagnostic records a non-fatal per-file error encountered during a scan.
// Diagnostics never change the job's terminal state.
type Diagnostic struct {
	Path string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Path, d.Err)
}
