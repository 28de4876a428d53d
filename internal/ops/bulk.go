package ops

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/store"
)

type JobFilter struct {
	Status       string
	NameContains string
	OlderThan    time.Duration
}

func FilterJobs(jobs []model.ConversionJob, filter JobFilter) []model.ConversionJob {
	var matched []model.ConversionJob
	now := time.Now()

	for _, j := range jobs {
		if filter.Status != "" && !strings.EqualFold(string(j.Status), filter.Status) {
			continue
		}
		if filter.NameContains != "" && !strings.Contains(strings.ToLower(j.Name), strings.ToLower(filter.NameContains)) {
			continue
		}
		if filter.OlderThan > 0 && now.Sub(j.CreatedAt) < filter.OlderThan {
			continue
		}
		matched = append(matched, j)
	}
	return matched
}

type RetryResult struct {
	Completed int
	Failed    int
	Errors    []error
}

// retryWorkers bounds concurrent writers; sqlite serializes them anyway.
const retryWorkers = 4

// RetryFailed resets failed jobs to Pending with errors cleared and
// batch progress zeroed. Non-failed jobs are reported, not skipped.
func RetryFailed(ctx context.Context, st *store.Store, ids []string, onProgress func(completed, total int)) (*RetryResult, error) {
	result := &RetryResult{}
	total := len(ids)

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(retryWorkers)

	for _, id := range ids {
		g.Go(func() error {
			err := retryJob(gctx, st, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Errorf("job %s: %w", id, err))
			} else {
				result.Completed++
			}
			done++
			if onProgress != nil {
				onProgress(done, total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	// gctx is canceled once Wait returns; only the caller's context
	// says whether the batch was interrupted.
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func retryJob(ctx context.Context, st *store.Store, id string) error {
	j, err := st.JobByID(ctx, id)
	if err != nil {
		return err
	}
	if j.Status != model.JobStatusFailed {
		return fmt.Errorf("status is %s, only failed jobs can be retried", j.Status)
	}

	j.Status = model.JobStatusPending
	j.Progress = 0
	j.StartedAt = time.Time{}
	j.CompletedAt = time.Time{}
	j.Errors = nil
	for i := range j.Batches {
		j.Batches[i].ProcessedItems = 0
		j.Batches[i].FailedItems = 0
		j.Batches[i].StartTime = time.Time{}
		j.Batches[i].EndTime = time.Time{}
	}

	if err := st.SaveJob(ctx, *j); err != nil {
		return err
	}
	return st.AddActivity(ctx, model.Activity{
		Type:        "Job",
		Description: fmt.Sprintf("%s queued for retry", j.Name),
		Status:      "Pending",
	})
}
