package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/convdesk/convdesk/internal/model"
)

// Seed populates an empty database with the demo dataset so a fresh
// install has something to browse. A database that already holds
// customers is left untouched.
func (s *Store) Seed(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return fmt.Errorf("checking seed state: %w", err)
	}
	if n > 0 {
		return nil
	}

	return s.Tx(ctx, func(tx *sql.Tx) error {
		for _, c := range seedCustomers() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO customers (id, name, email, active, created_at) VALUES (?, ?, ?, ?, ?)`,
				c.ID, c.Name, c.Email, boolToInt(c.Active), c.CreatedAt.Unix(),
			); err != nil {
				return fmt.Errorf("seed customer %s: %w", c.ID, err)
			}
		}
		for _, p := range seedPayments() {
			if err := insertPayment(ctx, tx, p); err != nil {
				return err
			}
		}
		for _, j := range seedJobs() {
			if err := saveJob(ctx, tx, j); err != nil {
				return err
			}
		}
		for _, a := range seedActivity() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO activity (ts, type, description, status) VALUES (?, ?, ?, ?)`,
				a.Timestamp.Unix(), a.Type, a.Description, a.Status,
			); err != nil {
				return fmt.Errorf("seed activity: %w", err)
			}
		}
		return nil
	})
}

func seedCustomers() []model.Customer {
	return []model.Customer{
		{ID: "1", Name: "John Doe", Email: "john@example.com", Active: true, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Active: true, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "3", Name: "Bob Johnson", Email: "bob@example.com", Active: false, CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "4", Name: "Alice Williams", Email: "alice@example.com", Active: true, CreatedAt: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)},
		{ID: "5", Name: "Charlie Brown", Email: "charlie@example.com", Active: true, CreatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
}

func seedPayments() []model.Payment {
	return []model.Payment{
		{
			ID: "PAY001", Amount: 100.50, Currency: "USD",
			Status: model.PaymentStatusCompleted, Method: model.PaymentMethodCreditCard,
			CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			CustomerID: "1", CustomerName: "John Doe",
		},
		{
			ID: "PAY002", Amount: 250.00, Currency: "USD",
			Status: model.PaymentStatusCompleted, Method: model.PaymentMethodBankTransfer,
			CreatedAt: time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC),
			CustomerID: "2", CustomerName: "Jane Smith",
		},
		{
			ID: "PAY003", Amount: 75.25, Currency: "USD",
			Status: model.PaymentStatusPending, Method: model.PaymentMethodPayPal,
			CreatedAt: time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
			CustomerID: "3", CustomerName: "Bob Johnson",
		},
	}
}

func seedJobs() []model.ConversionJob {
	return []model.ConversionJob{
		{
			ID: "JOB001", Name: "Payment File Conversion", Status: model.JobStatusCompleted,
			CreatedAt:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
			StartedAt:   time.Date(2024, 1, 1, 10, 1, 0, 0, time.UTC),
			CompletedAt: time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
			Progress:    100.0, Threads: 4,
			SourceFile: "payments_2024.csv", TargetFile: "payments_2024.xml",
			Batches: []model.BatchInfo{
				{ID: "BATCH1", TotalItems: 1000, ProcessedItems: 1000, FailedItems: 0,
					StartTime: time.Date(2024, 1, 1, 10, 1, 0, 0, time.UTC),
					EndTime:   time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC)},
				{ID: "BATCH2", TotalItems: 1000, ProcessedItems: 1000, FailedItems: 0,
					StartTime: time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC),
					EndTime:   time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)},
			},
		},
		{
			ID: "JOB002", Name: "Customer Data Import", Status: model.JobStatusRunning,
			CreatedAt: time.Date(2024, 1, 2, 11, 0, 0, 0, time.UTC),
			StartedAt: time.Date(2024, 1, 2, 11, 1, 0, 0, time.UTC),
			Progress:  65.0, Threads: 2,
			SourceFile: "customers.json", TargetFile: "customers.db",
			Batches: []model.BatchInfo{
				{ID: "BATCH1", TotalItems: 500, ProcessedItems: 325, FailedItems: 5,
					StartTime: time.Date(2024, 1, 2, 11, 1, 0, 0, time.UTC)},
			},
		},
		{
			ID: "JOB003", Name: "Legacy System Migration", Status: model.JobStatusFailed,
			CreatedAt:   time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
			StartedAt:   time.Date(2024, 1, 3, 12, 1, 0, 0, time.UTC),
			CompletedAt: time.Date(2024, 1, 3, 12, 5, 0, 0, time.UTC),
			Progress:    25.0, Threads: 1,
			SourceFile: "legacy_data.txt", TargetFile: "new_system.db",
			Errors: []model.JobError{
				{
					Timestamp:  time.Date(2024, 1, 3, 12, 5, 0, 0, time.UTC),
					Message:    "Database connection failed",
					Details:    "Unable to connect to target database",
					StackTrace: "Connection timeout after 30 seconds",
				},
			},
		},
	}
}

func seedActivity() []model.Activity {
	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	return []model.Activity{
		{Timestamp: at(10, 30), Type: "Job", Description: "Payment File Conversion completed", Status: "Success"},
		{Timestamp: at(10, 15), Type: "Payment", Description: "Payment PAY001 processed", Status: "Success"},
		{Timestamp: at(10, 0), Type: "Job", Description: "Customer Data Import started", Status: "Running"},
		{Timestamp: at(9, 45), Type: "Log", Description: "Error detected in log file", Status: "Warning"},
		{Timestamp: at(9, 30), Type: "XML", Description: "XML validation completed", Status: "Success"},
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
