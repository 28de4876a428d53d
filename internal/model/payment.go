package model

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusProcessing PaymentStatus = "Processing"
	PaymentStatusCompleted  PaymentStatus = "Completed"
	PaymentStatusFailed     PaymentStatus = "Failed"
	PaymentStatusRefunded   PaymentStatus = "Refunded"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "Credit Card"
	PaymentMethodDebitCard    PaymentMethod = "Debit Card"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodPayPal       PaymentMethod = "PayPal"
	PaymentMethodOther        PaymentMethod = "Other"
)

// Payment is one payment record of the conversion backlog.
type Payment struct {
	ID            string
	Amount        float64
	Currency      string
	Status        PaymentStatus
	Method        PaymentMethod
	CreatedAt     time.Time
	ProcessedAt   time.Time
	CustomerID    string
	CustomerName  string
	TransactionID string
	Description   string
}

func (p Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

func (p Payment) IsPending() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusProcessing
}

// FormattedAmount renders the amount with its currency code, e.g.
// "USD 1234.56".
func (p Payment) FormattedAmount() string {
	return fmt.Sprintf("%s %.2f", p.Currency, p.Amount)
}
