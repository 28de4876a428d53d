package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/convdesk/convdesk/internal/scan"
	"github.com/convdesk/convdesk/internal/store"
)

type Scope string

const (
	ScopeAll      Scope = "All"
	ScopeDatabase Scope = "Database Records"
	ScopePayments Scope = "Payments"
	ScopeJobs     Scope = "Conversion Jobs"
	ScopeLogs     Scope = "Log Files"
)

// Scopes in selector order.
var Scopes = []Scope{ScopeAll, ScopeDatabase, ScopePayments, ScopeJobs, ScopeLogs}

// Result is one row of the global search table.
type Result struct {
	Type     string
	ID       string
	Title    string
	Content  string
	Location string
}

var ErrEmptyTerm = errors.New("search term is required")

// maxPerScope caps each scope so one noisy log file cannot drown the
// rest of the table.
const maxPerScope = 50

type Engine struct {
	store  *store.Store
	logDir string
}

func New(st *store.Store, logDir string) *Engine {
	return &Engine{store: st, logDir: logDir}
}

// SetLogDir points the Log Files scope at a new directory.
func (e *Engine) SetLogDir(dir string) {
	e.logDir = dir
}

// Search runs the term against every store scope the selection covers,
// plus the log directory, in parallel. Results come back grouped in
// fixed scope order so repeated searches render identically.
func (e *Engine) Search(ctx context.Context, term string, scope Scope) ([]Result, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrEmptyTerm
	}

	want := func(s Scope) bool { return scope == ScopeAll || scope == s }

	var customers, payments, jobs, logs []Result
	g, ctx := errgroup.WithContext(ctx)

	if want(ScopeDatabase) {
		g.Go(func() error {
			var err error
			customers, err = e.searchCustomers(ctx, term)
			return err
		})
	}
	if want(ScopePayments) {
		g.Go(func() error {
			var err error
			payments, err = e.searchPayments(ctx, term)
			return err
		})
	}
	if want(ScopeJobs) {
		g.Go(func() error {
			var err error
			jobs, err = e.searchJobs(ctx, term)
			return err
		})
	}
	if want(ScopeLogs) {
		g.Go(func() error {
			var err error
			logs, err = e.searchLogs(ctx, term)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Result, 0, len(customers)+len(payments)+len(jobs)+len(logs))
	out = append(out, customers...)
	out = append(out, payments...)
	out = append(out, jobs...)
	out = append(out, logs...)
	return out, nil
}

func (e *Engine) searchCustomers(ctx context.Context, term string) ([]Result, error) {
	customers, err := e.store.SearchCustomers(ctx, term)
	if err != nil {
		return nil, err
	}
	var out []Result
	for _, c := range customers {
		if len(out) >= maxPerScope {
			break
		}
		status := "Active"
		if !c.Active {
			status = "Inactive"
		}
		out = append(out, Result{
			Type:     "Customer",
			ID:       c.ID,
			Title:    c.Name,
			Content:  fmt.Sprintf("%s (%s)", c.Email, status),
			Location: "Database",
		})
	}
	return out, nil
}

func (e *Engine) searchPayments(ctx context.Context, term string) ([]Result, error) {
	payments, err := e.store.SearchPayments(ctx, term)
	if err != nil {
		return nil, err
	}
	var out []Result
	for _, p := range payments {
		if len(out) >= maxPerScope {
			break
		}
		out = append(out, Result{
			Type:     "Payment",
			ID:       p.ID,
			Title:    p.CustomerName,
			Content:  fmt.Sprintf("%s %s", p.FormattedAmount(), p.Status),
			Location: "Payments",
		})
	}
	return out, nil
}

func (e *Engine) searchJobs(ctx context.Context, term string) ([]Result, error) {
	jobs, err := e.store.SearchJobs(ctx, term)
	if err != nil {
		return nil, err
	}
	var out []Result
	for _, j := range jobs {
		if len(out) >= maxPerScope {
			break
		}
		out = append(out, Result{
			Type:     "Job",
			ID:       j.ID,
			Title:    j.Name,
			Content:  fmt.Sprintf("%s to %s (%s)", j.SourceFile, j.TargetFile, j.Status),
			Location: "Jobs",
		})
	}
	return out, nil
}

// searchLogs streams every .log/.txt file in the log directory through
// the scan matcher. A missing directory is simply an empty scope and
// unreadable files are skipped, matching the directory scan behavior.
func (e *Engine) searchLogs(ctx context.Context, term string) ([]Result, error) {
	if e.logDir == "" {
		return nil, nil
	}
	matcher, err := scan.NewMatcher(term, false)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(e.logDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []Result
	for _, entry := range entries {
		if len(out) >= maxPerScope {
			break
		}
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".log") && !strings.HasSuffix(name, ".txt")) {
			continue
		}
		lines, err := e.scanLogFile(ctx, filepath.Join(e.logDir, name), matcher, maxPerScope-len(out))
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}
		for _, line := range lines {
			out = append(out, Result{
				Type:     "Log",
				ID:       name,
				Title:    name,
				Content:  truncate(line.String(), 120),
				Location: "Logs",
			})
		}
	}
	return out, nil
}

func (e *Engine) scanLogFile(ctx context.Context, path string, matcher scan.Matcher, budget int) ([]scan.Line, error) {
	cr, err := scan.OpenChunkReader(path, 0, "")
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	asm := scan.NewLineAssembler()
	var out []scan.Line
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunk, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		for _, line := range asm.Feed(chunk) {
			if matcher.Match(line.Text) {
				out = append(out, line)
				if len(out) >= budget {
					return out, nil
				}
			}
		}
	}
	if tail, ok := asm.Flush(); ok && matcher.Match(tail.Text) && len(out) < budget {
		out = append(out, tail)
	}
	return out, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
