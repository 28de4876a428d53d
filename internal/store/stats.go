package store

import (
	"context"
	"fmt"
	"time"

	"github.com/convdesk/convdesk/internal/model"
)

// DashboardStats aggregates the numbers the dashboard cards and charts
// show.
type DashboardStats struct {
	JobsByStatus     map[model.JobStatus]int
	PaymentsByStatus map[model.PaymentStatus]int
	PaymentsToday    int
	PaymentsTotal    float64
	ErrorCount       int
	RecordCount      int
}

// ActiveJobs counts jobs that are pending or running.
func (d *DashboardStats) ActiveJobs() int {
	return d.JobsByStatus[model.JobStatusPending] + d.JobsByStatus[model.JobStatusRunning]
}

// Dashboard computes the aggregate view in a handful of grouped
// queries.
func (s *Store) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		JobsByStatus:     make(map[model.JobStatus]int),
		PaymentsByStatus: make(map[model.PaymentStatus]int),
	}

	err := s.groupCount(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`, func(key string, n int) {
		stats.JobsByStatus[model.JobStatus(key)] = n
	})
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}

	err = s.groupCount(ctx, `SELECT status, COUNT(*) FROM payments GROUP BY status`, func(key string, n int) {
		stats.PaymentsByStatus[model.PaymentStatus(key)] = n
	})
	if err != nil {
		return nil, fmt.Errorf("payment stats: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = ?`,
		string(model.PaymentStatusCompleted)).Scan(&stats.PaymentsTotal); err != nil {
		return nil, fmt.Errorf("payment total: %w", err)
	}
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments WHERE created_at >= ?`,
		midnight.Unix()).Scan(&stats.PaymentsToday); err != nil {
		return nil, fmt.Errorf("payments today: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_errors`).Scan(&stats.ErrorCount); err != nil {
		return nil, fmt.Errorf("error count: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM customers) + (SELECT COUNT(*) FROM payments) + (SELECT COUNT(*) FROM jobs)`,
	).Scan(&stats.RecordCount); err != nil {
		return nil, fmt.Errorf("record count: %w", err)
	}
	return stats, nil
}

// groupCount runs a two-column (key, COUNT) query and hands each pair
// to put.
func (s *Store) groupCount(ctx context.Context, query string, put func(key string, n int)) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		put(key, n)
	}
	return rows.Err()
}
