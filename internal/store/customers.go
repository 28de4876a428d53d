package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/convdesk/convdesk/internal/model"
)

// ListCustomers returns all customers ordered by ID.
func (s *Store) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, active, created_at FROM customers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// SearchCustomers finds customers whose ID, name, or email contains
// term.
func (s *Store) SearchCustomers(ctx context.Context, term string) ([]model.Customer, error) {
	pattern := "%" + escapeLike(term) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, active, created_at FROM customers
		 WHERE id LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\'
		 ORDER BY id`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func scanCustomers(rows *sql.Rows) ([]model.Customer, error) {
	var customers []model.Customer
	for rows.Next() {
		var (
			c       model.Customer
			active  int
			created int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &active, &created); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		c.Active = active != 0
		c.CreatedAt = time.Unix(created, 0).UTC()
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
