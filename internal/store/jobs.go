package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/convdesk/convdesk/internal/model"
)

const jobColumns = `id, name, status, created_at, started_at, completed_at, progress, threads, source_file, target_file`

// ListJobs returns every conversion job with its errors and batches,
// ordered by ID.
func (s *Store) ListJobs(ctx context.Context) ([]model.ConversionJob, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.ConversionJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachJobChildren(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// JobByID returns one job with its errors and batches.
func (s *Store) JobByID(ctx context.Context, id string) (*model.ConversionJob, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", id, err)
	}
	jobs := []model.ConversionJob{j}
	if err := s.attachJobChildren(ctx, jobs); err != nil {
		return nil, err
	}
	return &jobs[0], nil
}

// SaveJob inserts or updates a job together with its errors and
// batches.
func (s *Store) SaveJob(ctx context.Context, j model.ConversionJob) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		return saveJob(ctx, tx, j)
	})
}

// SearchJobs finds jobs whose ID, name, or file names contain term.
// Children are not loaded; search results only need the summary row.
func (s *Store) SearchJobs(ctx context.Context, term string) ([]model.ConversionJob, error) {
	pattern := "%" + escapeLike(term) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE id LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\'
		    OR source_file LIKE ? ESCAPE '\' OR target_file LIKE ? ESCAPE '\'
		 ORDER BY id`,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.ConversionJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func scanJob(sc scanner) (model.ConversionJob, error) {
	var (
		j                  model.ConversionJob
		status             string
		created            int64
		started, completed sql.NullInt64
	)
	err := sc.Scan(&j.ID, &j.Name, &status, &created, &started, &completed,
		&j.Progress, &j.Threads, &j.SourceFile, &j.TargetFile)
	if err != nil {
		return j, err
	}
	j.Status = model.JobStatus(status)
	j.CreatedAt = time.Unix(created, 0).UTC()
	j.StartedAt = timeFrom(started)
	j.CompletedAt = timeFrom(completed)
	return j, nil
}

// attachJobChildren loads errors and batches for the given jobs in two
// grouped queries instead of one pair per job.
func (s *Store) attachJobChildren(ctx context.Context, jobs []model.ConversionJob) error {
	if len(jobs) == 0 {
		return nil
	}
	byID := make(map[string]*model.ConversionJob, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}

	errRows, err := s.db.QueryContext(ctx,
		`SELECT job_id, ts, message, details, stack_trace FROM job_errors ORDER BY job_id, id`)
	if err != nil {
		return fmt.Errorf("load job errors: %w", err)
	}
	defer errRows.Close()
	for errRows.Next() {
		var (
			jobID string
			ts    int64
			e     model.JobError
		)
		if err := errRows.Scan(&jobID, &ts, &e.Message, &e.Details, &e.StackTrace); err != nil {
			return fmt.Errorf("scan job error: %w", err)
		}
		e.Timestamp = time.Unix(ts, 0).UTC()
		if j, ok := byID[jobID]; ok {
			j.Errors = append(j.Errors, e)
		}
	}
	if err := errRows.Err(); err != nil {
		return err
	}

	batchRows, err := s.db.QueryContext(ctx,
		`SELECT job_id, batch_id, total_items, processed_items, failed_items, start_time, end_time
		 FROM job_batches ORDER BY job_id, batch_id`)
	if err != nil {
		return fmt.Errorf("load job batches: %w", err)
	}
	defer batchRows.Close()
	for batchRows.Next() {
		var (
			jobID      string
			b          model.BatchInfo
			start, end sql.NullInt64
		)
		if err := batchRows.Scan(&jobID, &b.ID, &b.TotalItems, &b.ProcessedItems, &b.FailedItems, &start, &end); err != nil {
			return fmt.Errorf("scan job batch: %w", err)
		}
		b.StartTime = timeFrom(start)
		b.EndTime = timeFrom(end)
		if j, ok := byID[jobID]; ok {
			j.Batches = append(j.Batches, b)
		}
	}
	return batchRows.Err()
}

// saveJob upserts the job row and replaces its children. Runs inside a
// transaction so a half-written job is never visible.
func saveJob(ctx context.Context, tx *sql.Tx, j model.ConversionJob) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			created_at = excluded.created_at,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at,
			progress = excluded.progress,
			threads = excluded.threads,
			source_file = excluded.source_file,
			target_file = excluded.target_file`,
		j.ID, j.Name, string(j.Status), j.CreatedAt.Unix(),
		nilIfZero(j.StartedAt), nilIfZero(j.CompletedAt),
		j.Progress, j.Threads, j.SourceFile, j.TargetFile)
	if err != nil {
		return fmt.Errorf("save job %s: %w", j.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM job_errors WHERE job_id = ?`, j.ID); err != nil {
		return fmt.Errorf("clear job errors: %w", err)
	}
	for _, e := range j.Errors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO job_errors (job_id, ts, message, details, stack_trace) VALUES (?, ?, ?, ?, ?)`,
			j.ID, e.Timestamp.Unix(), e.Message, e.Details, e.StackTrace,
		); err != nil {
			return fmt.Errorf("save job error: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM job_batches WHERE job_id = ?`, j.ID); err != nil {
		return fmt.Errorf("clear job batches: %w", err)
	}
	for _, b := range j.Batches {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO job_batches (job_id, batch_id, total_items, processed_items, failed_items, start_time, end_time)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			j.ID, b.ID, b.TotalItems, b.ProcessedItems, b.FailedItems,
			nilIfZero(b.StartTime), nilIfZero(b.EndTime),
		); err != nil {
			return fmt.Errorf("save job batch: %w", err)
		}
	}
	return nil
}
