package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/convdesk/convdesk/internal/model"
	"github.com/convdesk/convdesk/internal/store"
)

// CancelJob moves a pending or running job to Cancelled. Batches that
// were opened but not filled are closed at the cancellation time.
func CancelJob(ctx context.Context, st *store.Store, id string) error {
	j, err := st.JobByID(ctx, id)
	if err != nil {
		return err
	}
	if j.IsTerminal() {
		return fmt.Errorf("status is %s, job is already finished", j.Status)
	}

	now := time.Now()
	j.Status = model.JobStatusCancelled
	j.CompletedAt = now
	for i := range j.Batches {
		b := &j.Batches[i]
		if !b.StartTime.IsZero() && b.EndTime.IsZero() {
			b.EndTime = now
		}
	}

	if err := st.SaveJob(ctx, *j); err != nil {
		return err
	}
	return st.AddActivity(ctx, model.Activity{
		Type:        "Job",
		Description: fmt.Sprintf("%s cancelled", j.Name),
		Status:      "Warning",
	})
}

// CompletePayment marks a payment as completed and stamps its
// processing time.
func CompletePayment(ctx context.Context, st *store.Store, id string) error {
	p, err := st.PaymentByID(ctx, id)
	if err != nil {
		return err
	}
	if p.IsCompleted() {
		return fmt.Errorf("payment %s is already completed", id)
	}

	if err := st.SetPaymentStatus(ctx, id, model.PaymentStatusCompleted, time.Now()); err != nil {
		return err
	}
	return st.AddActivity(ctx, model.Activity{
		Type:        "Payment",
		Description: fmt.Sprintf("Payment %s completed", id),
		Status:      "Success",
	})
}
