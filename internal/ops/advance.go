package ops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/store"
)

// advanceStep is the percent of progress a running job gains per tick.
const advanceStep = 5.0

// AdvanceRunning drives the demo pipeline one tick: pending jobs start,
// running jobs gain progress, jobs reaching 100% complete. Returns the
// number of jobs that changed.
func AdvanceRunning(ctx context.Context, st *store.Store) (int, error) {
	jobs, err := st.ListJobs(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	advanced := 0
	for _, j := range jobs {
		switch j.Status {
		case model.JobStatusPending:
			j.Status = model.JobStatusRunning
			j.StartedAt = now
			if err := startBatch(ctx, st, j, now); err != nil {
				return advanced, err
			}
			if err := st.AddActivity(ctx, model.Activity{
				Type:        "Job",
				Description: fmt.Sprintf("%s started", j.Name),
				Status:      "Running",
			}); err != nil {
				return advanced, err
			}
			advanced++

		case model.JobStatusRunning:
			j.Progress += advanceStep
			if j.Progress >= 100 {
				j.Progress = 100
				j.Status = model.JobStatusCompleted
				j.CompletedAt = now
			}
			fillBatches(&j, now)
			if err := st.SaveJob(ctx, j); err != nil {
				return advanced, err
			}
			if j.Status == model.JobStatusCompleted {
				if err := st.AddActivity(ctx, model.Activity{
					Type:        "Job",
					Description: fmt.Sprintf("%s completed", j.Name),
					Status:      "Success",
				}); err != nil {
					return advanced, err
				}
			}
			advanced++
		}
	}
	return advanced, nil
}

func startBatch(ctx context.Context, st *store.Store, j model.ConversionJob, now time.Time) error {
	if len(j.Batches) > 0 && j.Batches[0].StartTime.IsZero() {
		j.Batches[0].StartTime = now
	}
	return st.SaveJob(ctx, j)
}

// fillBatches distributes overall progress across batches in order, so
// earlier batches fill and close before later ones open.
func fillBatches(j *model.ConversionJob, now time.Time) {
	grand := 0
	for _, b := range j.Batches {
		grand += b.TotalItems
	}
	if grand == 0 {
		return
	}

	remaining := int(j.Progress * float64(grand) / 100)
	for i := range j.Batches {
		b := &j.Batches[i]
		take := min(remaining, b.TotalItems)
		if take > 0 && b.StartTime.IsZero() {
			b.StartTime = now
		}
		b.ProcessedItems = take
		if take == b.TotalItems && b.EndTime.IsZero() {
			b.EndTime = now
		}
		remaining -= take
	}
}

// NewDemoJob builds a pending job with a fresh ID and a single batch,
// ready for the simulation to pick up.
func NewDemoJob(name, source, target string, threads int) model.ConversionJob {
	return model.ConversionJob{
		ID:         "JOB-" + strings.ToUpper(uuid.NewString()[:8]),
		Name:       name,
		Status:     model.JobStatusPending,
		CreatedAt:  time.Now(),
		Threads:    threads,
		SourceFile: source,
		TargetFile: target,
		Batches:    []model.BatchInfo{{ID: "BATCH1", TotalItems: 1000}},
	}
}
