// Package store persists ConvDesk's working data (customers, payments,
// conversion jobs, activity) in a single SQLite database file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps the SQLite handle. Open one per process and Close it on
// exit.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the pragmas
// the app relies on. WAL keeps readers unblocked during writes; the
// busy timeout rides out short lock contention instead of failing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
		`PRAGMA synchronous=NORMAL`,
		`PRAGMA foreign_keys=ON`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return &Store{db: db}, nil
}

// Init creates the schema. Safe to call on an existing database.
func (s *Store) Init() error {
	return migrate(s.db)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for the generic table browser.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Tx runs fn inside a transaction, committing on nil and rolling back
// on error or panic.
func (s *Store) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// scanner covers sql.Row and sql.Rows so one scan helper serves both.
type scanner interface {
	Scan(dest ...any) error
}

// Timestamps are stored as unix seconds; zero times become NULL.

func nilIfZero(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}

func timeFrom(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0).UTC()
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
