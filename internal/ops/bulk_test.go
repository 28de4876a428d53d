package ops

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/store"
)

func TestFilterJobs(t *testing.T) {
	now := time.Now()
	jobs := []model.ConversionJob{
		{ID: "JOB001", Name: "Payment File Conversion", Status: model.JobStatusCompleted, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "JOB002", Name: "Customer Data Import", Status: model.JobStatusRunning, CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "JOB003", Name: "Legacy System Migration", Status: model.JobStatusFailed, CreatedAt: now.Add(-72 * time.Hour)},
	}

	tests := []struct {
		name   string
		filter JobFilter
		want   int
	}{
		{
			name:   "by status",
			filter: JobFilter{Status: "failed"},
			want:   1,
		},
		{
			name:   "by status exact case",
			filter: JobFilter{Status: "Running"},
			want:   1,
		},
		{
			name:   "by name",
			filter: JobFilter{NameContains: "import"},
			want:   1,
		},
		{
			name:   "by age",
			filter: JobFilter{OlderThan: 24 * time.Hour},
			want:   2,
		},
		{
			name:   "combined",
			filter: JobFilter{Status: "Completed", NameContains: "payment"},
			want:   1,
		},
		{
			name:   "no match",
			filter: JobFilter{NameContains: "nonexistent"},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterJobs(jobs, tt.filter)
			if len(got) != tt.want {
				t.Errorf("FilterJobs() returned %d jobs, want %d", len(got), tt.want)
			}
		})
	}
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "ops.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := s.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return s
}

func TestRetryFailed(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var calls [][2]int
	res, err := RetryFailed(ctx, s, []string{"JOB003", "JOB001", "JOB404"}, func(completed, total int) {
		calls = append(calls, [2]int{completed, total})
	})
	if err != nil {
		t.Fatalf("RetryFailed() error = %v", err)
	}
	if res.Completed != 1 || res.Failed != 2 {
		t.Errorf("RetryFailed() = %d completed, %d failed, want 1 and 2", res.Completed, res.Failed)
	}
	if len(res.Errors) != 2 {
		t.Errorf("RetryFailed() collected %d errors, want 2", len(res.Errors))
	}
	if len(calls) != 3 || calls[2] != [2]int{3, 3} {
		t.Errorf("onProgress calls = %v, want 3 calls ending at 3/3", calls)
	}

	j, err := s.JobByID(ctx, "JOB003")
	if err != nil {
		t.Fatalf("JobByID() error = %v", err)
	}
	if j.Status != model.JobStatusPending {
		t.Errorf("retried job status = %s, want %s", j.Status, model.JobStatusPending)
	}
	if j.Progress != 0 || !j.StartedAt.IsZero() || !j.CompletedAt.IsZero() {
		t.Errorf("retried job not reset: progress %.1f, started %v, completed %v", j.Progress, j.StartedAt, j.CompletedAt)
	}
	if j.HasErrors() {
		t.Errorf("retried job kept %d errors, want none", len(j.Errors))
	}

	entries, err := s.RecentActivity(ctx, 1)
	if err != nil {
		t.Fatalf("RecentActivity() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Description != "Legacy System Migration queued for retry" {
		t.Errorf("activity = %v, want retry entry first", entries)
	}
}

func TestRetryFailedHonorsCallerContext(t *testing.T) {
	s := newStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res, err := RetryFailed(ctx, s, []string{"JOB003"}, nil)
	if err != nil {
		t.Fatalf("RetryFailed() with live context error = %v", err)
	}
	if res.Completed != 1 || res.Failed != 0 {
		t.Errorf("RetryFailed() = %d completed, %d failed, want 1 and 0", res.Completed, res.Failed)
	}

	cancel()
	if _, err := RetryFailed(ctx, s, []string{"JOB003"}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("RetryFailed() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestRetryFailedRejectsNonFailed(t *testing.T) {
	s := newStore(t)

	res, err := RetryFailed(context.Background(), s, []string{"JOB002"}, nil)
	if err != nil {
		t.Fatalf("RetryFailed() error = %v", err)
	}
	if res.Completed != 0 || res.Failed != 1 {
		t.Errorf("RetryFailed() = %d completed, %d failed, want 0 and 1", res.Completed, res.Failed)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Error(), "only failed jobs") {
		t.Errorf("errors = %v, want one status complaint", res.Errors)
	}
}

func TestAdvanceRunningTick(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	advanced, err := AdvanceRunning(ctx, s)
	if err != nil {
		t.Fatalf("AdvanceRunning() error = %v", err)
	}
	if advanced != 1 {
		t.Errorf("AdvanceRunning() = %d, want 1 (only the running job moves)", advanced)
	}

	j, err := s.JobByID(ctx, "JOB002")
	if err != nil {
		t.Fatalf("JobByID() error = %v", err)
	}
	if j.Progress != 70.0 {
		t.Errorf("progress = %.1f, want 70.0", j.Progress)
	}
	if got := j.Batches[0].ProcessedItems; got != 350 {
		t.Errorf("batch processed = %d, want 350", got)
	}

	done, err := s.JobByID(ctx, "JOB001")
	if err != nil {
		t.Fatalf("JobByID() error = %v", err)
	}
	if done.Progress != 100.0 || done.Status != model.JobStatusCompleted {
		t.Errorf("completed job was touched: %.1f %s", done.Progress, done.Status)
	}
}

func TestAdvanceRunningCompletes(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := AdvanceRunning(ctx, s); err != nil {
			t.Fatalf("AdvanceRunning() tick %d error = %v", i, err)
		}
	}

	j, err := s.JobByID(ctx, "JOB002")
	if err != nil {
		t.Fatalf("JobByID() error = %v", err)
	}
	if j.Status != model.JobStatusCompleted {
		t.Fatalf("status = %s, want %s", j.Status, model.JobStatusCompleted)
	}
	if j.Progress != 100.0 || j.CompletedAt.IsZero() {
		t.Errorf("completion not recorded: progress %.1f, completed %v", j.Progress, j.CompletedAt)
	}
	b := j.Batches[0]
	if b.ProcessedItems != b.TotalItems || b.EndTime.IsZero() {
		t.Errorf("batch not closed: %d/%d, end %v", b.ProcessedItems, b.TotalItems, b.EndTime)
	}

	entries, err := s.RecentActivity(ctx, 1)
	if err != nil {
		t.Fatalf("RecentActivity() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Description != "Customer Data Import completed" {
		t.Errorf("activity = %v, want completion entry first", entries)
	}
}

func TestAdvanceRunningStartsPending(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	demo := NewDemoJob("Ad-hoc Conversion", "input.csv", "output.xml", 2)
	if err := s.SaveJob(ctx, demo); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	advanced, err := AdvanceRunning(ctx, s)
	if err != nil {
		t.Fatalf("AdvanceRunning() error = %v", err)
	}
	if advanced != 2 {
		t.Errorf("AdvanceRunning() = %d, want 2 (pending demo plus running import)", advanced)
	}

	j, err := s.JobByID(ctx, demo.ID)
	if err != nil {
		t.Fatalf("JobByID() error = %v", err)
	}
	if j.Status != model.JobStatusRunning || j.StartedAt.IsZero() {
		t.Errorf("demo job = %s started %v, want running with start time", j.Status, j.StartedAt)
	}
}

func TestNewDemoJob(t *testing.T) {
	a := NewDemoJob("A", "a.csv", "a.xml", 1)
	b := NewDemoJob("B", "b.csv", "b.xml", 4)

	if !strings.HasPrefix(a.ID, "JOB-") || len(a.ID) != len("JOB-")+8 {
		t.Errorf("ID = %q, want JOB- prefix with 8 hex chars", a.ID)
	}
	if a.ID == b.ID {
		t.Errorf("consecutive IDs collide: %q", a.ID)
	}
	if a.Status != model.JobStatusPending || len(a.Batches) != 1 {
		t.Errorf("demo job = %s with %d batches, want pending with one batch", a.Status, len(a.Batches))
	}
}
