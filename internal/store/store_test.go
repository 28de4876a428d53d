package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/store"
)

// setupStore opens a seeded throwaway database.
func setupStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Init())
	require.NoError(t, s.Seed(context.Background()))
	return s
}

func TestSeedIdempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))
	customers, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 5, "re-seeding must not duplicate rows")
}

func TestListCustomers(t *testing.T) {
	s := setupStore(t)

	customers, err := s.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 5)

	assert.Equal(t, "John Doe", customers[0].Name)
	assert.Equal(t, "john@example.com", customers[0].Email)
	assert.True(t, customers[0].Active)
	assert.False(t, customers[2].Active, "Bob Johnson is inactive")
}

func TestListPayments(t *testing.T) {
	s := setupStore(t)

	payments, err := s.ListPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, payments, 3)

	p := payments[0]
	assert.Equal(t, "PAY001", p.ID)
	assert.Equal(t, "USD 100.50", p.FormattedAmount())
	assert.Equal(t, model.PaymentStatusCompleted, p.Status)
	assert.Equal(t, model.PaymentMethodCreditCard, p.Method)
	assert.Equal(t, "John Doe", p.CustomerName)
	assert.True(t, p.ProcessedAt.IsZero())
}

func TestPaymentByID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	p, err := s.PaymentByID(ctx, "PAY002")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", p.CustomerName)
	assert.Equal(t, model.PaymentMethodBankTransfer, p.Method)

	_, err = s.PaymentByID(ctx, "PAY999")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetPaymentStatus(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	processed := time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.SetPaymentStatus(ctx, "PAY003", model.PaymentStatusCompleted, processed))

	p, err := s.PaymentByID(ctx, "PAY003")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, p.Status)
	assert.Equal(t, processed, p.ProcessedAt)

	assert.ErrorIs(t, s.SetPaymentStatus(ctx, "PAY999", model.PaymentStatusFailed, time.Time{}), store.ErrNotFound)
}

func TestListJobs(t *testing.T) {
	s := setupStore(t)

	jobs, err := s.ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	first := jobs[0]
	assert.Equal(t, "JOB001", first.ID)
	assert.Equal(t, model.JobStatusCompleted, first.Status)
	assert.Equal(t, 29*time.Minute, first.Duration())
	require.Len(t, first.Batches, 2)
	assert.Equal(t, 2, first.CompletedBatches())
	assert.Equal(t, 100.0, first.Batches[0].ProgressPercent())

	running := jobs[1]
	assert.Equal(t, model.JobStatusRunning, running.Status)
	require.Len(t, running.Batches, 1)
	assert.True(t, running.Batches[0].EndTime.IsZero())
	assert.Equal(t, 65.0, running.Batches[0].ProgressPercent())

	failed := jobs[2]
	require.Len(t, failed.Errors, 1)
	assert.Equal(t, "Database connection failed", failed.Errors[0].Message)
	assert.Equal(t, "Connection timeout after 30 seconds", failed.Errors[0].StackTrace)
}

func TestJobByID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	j, err := s.JobByID(ctx, "JOB002")
	require.NoError(t, err)
	assert.Equal(t, "Customer Data Import", j.Name)
	assert.Len(t, j.Batches, 1)

	_, err = s.JobByID(ctx, "JOB999")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveJobRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	j, err := s.JobByID(ctx, "JOB002")
	require.NoError(t, err)

	j.Progress = 80.0
	j.Batches[0].ProcessedItems = 400
	j.Errors = append(j.Errors, model.JobError{
		Timestamp: time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
		Message:   "slow source",
		Details:   "read stalled for 30s",
	})
	require.NoError(t, s.SaveJob(ctx, *j))

	got, err := s.JobByID(ctx, "JOB002")
	require.NoError(t, err)
	assert.Equal(t, j, got, "children are replaced, not appended")
}

func TestSaveJobInsertsNew(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	j := model.ConversionJob{
		ID: "JOB004", Name: "Archive Sweep", Status: model.JobStatusPending,
		CreatedAt: time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
		Threads:   2, SourceFile: "archive.csv", TargetFile: "archive.xml",
	}
	require.NoError(t, s.SaveJob(ctx, j))

	jobs, err := s.ListJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 4)
}

func TestSearch(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	jobs, err := s.SearchJobs(ctx, "Legacy")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "JOB003", jobs[0].ID)

	payments, err := s.SearchPayments(ctx, "Jane")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "PAY002", payments[0].ID)

	customers, err := s.SearchCustomers(ctx, "example.com")
	require.NoError(t, err)
	assert.Len(t, customers, 5)

	none, err := s.SearchJobs(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, none, "LIKE wildcards in the term match literally")
}

func TestBrowse(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	tables, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Subset(t, tables, []string{"activity", "customers", "job_batches", "job_errors", "jobs", "payments"})

	cols, err := s.Columns(ctx, "jobs")
	require.NoError(t, err)
	assert.Equal(t, "id", cols[0])

	headers, rows, err := s.BrowseRows(ctx, "customers", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email", "active", "created_at"}, headers)
	assert.Len(t, rows, 5)
	assert.Equal(t, "John Doe", rows[0][1])
}

func TestBrowseFilters(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter store.Filter
		want   int
	}{
		{"contains", store.Filter{Column: "name", Op: store.OpContains, Value: "o"}, 3},
		{"equals", store.Filter{Column: "id", Op: store.OpEquals, Value: "3"}, 1},
		{"starts with", store.Filter{Column: "name", Op: store.OpStartsWith, Value: "J"}, 2},
		{"ends with", store.Filter{Column: "email", Op: store.OpEndsWith, Value: "example.com"}, 5},
		{"quick search", store.Filter{Column: "*", Op: store.OpContains, Value: "alice"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rows, err := s.BrowseRows(ctx, "customers", &tt.filter, 0)
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestBrowseRejectsUnknownNames(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, _, err := s.BrowseRows(ctx, "secrets", nil, 0)
	assert.Error(t, err)

	_, _, err = s.BrowseRows(ctx, "customers", &store.Filter{Column: "password", Op: store.OpContains, Value: "x"}, 0)
	assert.Error(t, err)
}

func TestRecentActivity(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	entries, err := s.RecentActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Equal(t, "Payment File Conversion completed", entries[0].Description)
	assert.Equal(t, "Job", entries[0].Type)

	require.NoError(t, s.AddActivity(ctx, model.Activity{
		Timestamp:   time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Type:        "Payment",
		Description: "Payment PAY003 processed",
		Status:      "Success",
	}))

	entries, err = s.RecentActivity(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Payment PAY003 processed", entries[0].Description)
}

func TestDashboard(t *testing.T) {
	s := setupStore(t)

	stats, err := s.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.JobsByStatus[model.JobStatusCompleted])
	assert.Equal(t, 1, stats.JobsByStatus[model.JobStatusRunning])
	assert.Equal(t, 1, stats.JobsByStatus[model.JobStatusFailed])
	assert.Equal(t, 1, stats.ActiveJobs())
	assert.Equal(t, 2, stats.PaymentsByStatus[model.PaymentStatusCompleted])
	assert.Equal(t, 1, stats.PaymentsByStatus[model.PaymentStatusPending])
	assert.Equal(t, 350.50, stats.PaymentsTotal)
	assert.Equal(t, 0, stats.PaymentsToday, "seed data is dated 2024")
	assert.Equal(t, 1, stats.ErrorCount)
	assert.Equal(t, 11, stats.RecordCount)
}
