package store

import (
	"context"
	"fmt"
	"time"

	"github.com/convdesk/convdesk/internal/model"
)

// RecentActivity returns the newest activity entries, newest first.
func (s *Store) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, type, description, status FROM activity ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var entries []model.Activity
	for rows.Next() {
		var (
			a  model.Activity
			ts int64
		)
		if err := rows.Scan(&a.ID, &ts, &a.Type, &a.Description, &a.Status); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Timestamp = time.Unix(ts, 0).UTC()
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// AddActivity appends one entry to the activity feed.
func (s *Store) AddActivity(ctx context.Context, a model.Activity) error {
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (ts, type, description, status) VALUES (?, ?, ?, ?)`,
		ts.Unix(), a.Type, a.Description, a.Status)
	if err != nil {
		return fmt.Errorf("add activity: %w", err)
	}
	return nil
}
