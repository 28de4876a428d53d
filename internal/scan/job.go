// Package scan streams large log files in fixed-size chunks and surfaces
// the lines matching a literal or regex pattern. A Job runs one scan in
// the background, reports progress per file, and can be stopped
// cooperatively at chunk granularity.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// DefaultDisplayCap bounds how many matches a finished job surfaces.
// Matching beyond the cap still counts toward the total.
const DefaultDisplayCap = 1000

// State is the lifecycle position of a Job.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	case StateCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event is a notification from a running job: a stream of Progress
// values followed by exactly one Done, after which the channel closes.
type Event interface{ isEvent() }

// Progress is an advisory per-file notice. It carries no completion
// percentage; jobs do not know the file count in advance.
type Progress struct {
	Message string
}

// Done is the single terminal event of a job.
type Done struct {
	State       State
	Status      string
	Results     []Line
	Total       int
	Diagnostics []Diagnostic
	Err         error
}

func (Progress) isEvent() {}
func (Done) isEvent()     {}

// Config describes one scan.
type Config struct {
	// Path is the file or directory to scan.
	Path string
	// Pattern is the literal text or regular expression to look for.
	Pattern string
	// Regex selects regular-expression matching over case-insensitive
	// literal matching.
	Regex bool
	// Dir forces directory mode. A path that stats as a directory is
	// scanned as one regardless.
	Dir bool
	// ChunkSize overrides DefaultChunkSize when positive.
	ChunkSize int
	// DisplayCap overrides DefaultDisplayCap when positive.
	DisplayCap int
	// Encoding names the text encoding of the scanned files. Empty
	// means UTF-8.
	Encoding string
	// Logger, when set, receives per-file error reports.
	Logger Logger
}

// Job is a single-use background scan. Construct with NewJob, call
// Start once, then drain Events until it closes.
type Job struct {
	cfg     Config
	matcher Matcher

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc

	events chan Event
	done   chan struct{}
}

func NewJob(cfg Config) *Job {
	return &Job{
		cfg:    cfg,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
}

// State returns the job's current lifecycle state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Events returns the job's notification channel. It emits zero or more
// Progress values, then exactly one Done, then closes. Nothing is sent
// before Start succeeds.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Start validates the configuration and launches the scan. Validation
// failures return ErrEmptyInput, ErrPathNotFound, or an
// *InvalidPatternError and leave the job idle, so the caller can fix
// the input and build a fresh job. A second Start returns
// ErrAlreadyStarted.
func (j *Job) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state != StateIdle {
		return ErrAlreadyStarted
	}
	if j.cfg.Path == "" || j.cfg.Pattern == "" {
		return ErrEmptyInput
	}
	info, err := os.Stat(j.cfg.Path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPathNotFound, j.cfg.Path)
	}
	m, err := NewMatcher(j.cfg.Pattern, j.cfg.Regex)
	if err != nil {
		return err
	}

	j.matcher = m
	j.state = StateRunning
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	go j.run(ctx, cancel, j.cfg.Dir || info.IsDir())
	return nil
}

// RequestStop asks a running scan to stop at the next chunk boundary.
// It returns immediately; use Wait or the Done event to observe the
// Cancelled state. Calling it on a finished or idle job is a no-op.
func (j *Job) RequestStop() {
	j.mu.Lock()
	cancel := j.cancel
	j.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the job has reached a terminal state. It returns
// immediately for a job that never started.
func (j *Job) Wait() {
	j.mu.Lock()
	started := j.cancel != nil
	j.mu.Unlock()
	if !started {
		return
	}
	<-j.done
}

func (j *Job) run(ctx context.Context, cancel context.CancelFunc, dir bool) {
	defer cancel()

	sc := &scanner{
		matcher:   j.matcher,
		chunkSize: j.cfg.ChunkSize,
		encoding:  j.cfg.Encoding,
		log:       j.cfg.Logger,
	}

	var (
		matches []Line
		diags   []Diagnostic
		err     error
	)
	if dir {
		matches, diags, err = sc.scanDir(ctx, j.cfg.Path, func(name string) {
			j.emit(Progress{Message: fmt.Sprintf("Processing %s...", name)})
		})
	} else {
		j.emit(Progress{Message: "Processing file..."})
		var ferr error
		matches, ferr = sc.scanFile(ctx, j.cfg.Path)
		switch {
		case ferr == nil:
		case errors.Is(ferr, context.Canceled), errors.Is(ferr, fs.ErrNotExist):
			// A path that vanished after validation means the scan
			// root itself is gone, not a skippable file.
			err = ferr
		default:
			diags = append(diags, Diagnostic{Path: j.cfg.Path, Err: ferr})
			sc.errorf("error reading file %s: %v", j.cfg.Path, ferr)
		}
	}

	done := Done{
		Total:       len(matches),
		Diagnostics: diags,
	}
	switch {
	case errors.Is(err, context.Canceled):
		done.State = StateCancelled
		done.Status = "Analysis cancelled"
	case err != nil:
		done.State = StateFailed
		done.Status = fmt.Sprintf("Error: %v", err)
		done.Err = err
	case len(matches) > 0:
		done.State = StateCompleted
		done.Status = fmt.Sprintf("Analysis complete: %d matches found", len(matches))
	default:
		done.State = StateCompleted
		done.Status = "No matches found"
	}
	limit := j.cfg.DisplayCap
	if limit <= 0 {
		limit = DefaultDisplayCap
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	done.Results = matches

	j.mu.Lock()
	j.state = done.State
	j.mu.Unlock()

	// Discard any progress the consumer has not taken so the terminal
	// send cannot block a worker whose consumer stopped reading.
drain:
	for {
		select {
		case <-j.events:
		default:
			break drain
		}
	}
	// The terminal event is delivered last and exactly once; the
	// channel closes right behind it.
	j.events <- done
	close(j.events)
	close(j.done)
}

// emit sends a progress event without blocking. Progress is advisory;
// when the consumer lags, newer notices are dropped rather than stalling
// the scan. The terminal event never goes through here.
func (j *Job) emit(ev Event) {
	select {
	case j.events <- ev:
	default:
	}
}
