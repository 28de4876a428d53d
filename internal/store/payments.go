package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/convdesk/convdesk/internal/model"
)

const paymentColumns = `id, amount, currency, status, method, created_at, processed_at, customer_id, customer_name, transaction_id, description`

// ListPayments returns all payments ordered by ID.
func (s *Store) ListPayments(ctx context.Context) ([]model.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

// PaymentByID returns one payment.
func (s *Store) PaymentByID(ctx context.Context, id string) (*model.Payment, error) {
	p, err := scanPayment(s.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("payment %s: %w", id, err)
	}
	return &p, nil
}

// SavePayment inserts or updates a payment.
func (s *Store) SavePayment(ctx context.Context, p model.Payment) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		return insertPayment(ctx, tx, p)
	})
}

// SetPaymentStatus moves a payment to status, recording processedAt
// when it is non-zero. Unknown IDs return ErrNotFound.
func (s *Store) SetPaymentStatus(ctx context.Context, id string, status model.PaymentStatus, processedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET status = ?, processed_at = ? WHERE id = ?`,
		string(status), nilIfZero(processedAt), id)
	if err != nil {
		return fmt.Errorf("update payment %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchPayments finds payments whose ID, customer, transaction, or
// description contains term.
func (s *Store) SearchPayments(ctx context.Context, term string) ([]model.Payment, error) {
	pattern := "%" + escapeLike(term) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		 WHERE id LIKE ? ESCAPE '\' OR customer_name LIKE ? ESCAPE '\'
		    OR COALESCE(transaction_id, '') LIKE ? ESCAPE '\'
		    OR COALESCE(description, '') LIKE ? ESCAPE '\'
		 ORDER BY id`,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayment(sc scanner) (model.Payment, error) {
	var (
		p              model.Payment
		status, method string
		created        int64
		processed      sql.NullInt64
		custID, txID   sql.NullString
		desc           sql.NullString
	)
	err := sc.Scan(&p.ID, &p.Amount, &p.Currency, &status, &method, &created,
		&processed, &custID, &p.CustomerName, &txID, &desc)
	if err != nil {
		return p, err
	}
	p.Status = model.PaymentStatus(status)
	p.Method = model.PaymentMethod(method)
	p.CreatedAt = time.Unix(created, 0).UTC()
	p.ProcessedAt = timeFrom(processed)
	p.CustomerID = custID.String
	p.TransactionID = txID.String
	p.Description = desc.String
	return p, nil
}

func scanPayments(rows *sql.Rows) ([]model.Payment, error) {
	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func insertPayment(ctx context.Context, tx *sql.Tx, p model.Payment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			currency = excluded.currency,
			status = excluded.status,
			method = excluded.method,
			created_at = excluded.created_at,
			processed_at = excluded.processed_at,
			customer_id = excluded.customer_id,
			customer_name = excluded.customer_name,
			transaction_id = excluded.transaction_id,
			description = excluded.description`,
		p.ID, p.Amount, p.Currency, string(p.Status), string(p.Method),
		p.CreatedAt.Unix(), nilIfZero(p.ProcessedAt),
		nilIfEmpty(p.CustomerID), p.CustomerName,
		nilIfEmpty(p.TransactionID), nilIfEmpty(p.Description))
	if err != nil {
		return fmt.Errorf("save payment %s: %w", p.ID, err)
	}
	return nil
}
