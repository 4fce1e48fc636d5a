package ports

import (
	"context"
	"time"
)

// PaymentDetails is the processor's authoritative view of one payment,
// fetched after a webhook notification. Webhook bodies carry only the payment
// id; every field that drives a decision comes from this fetch.
type PaymentDetails struct {
	// ID is the processor's payment id.
	ID string

	// Status is the raw processor status string (approved, rejected, ...).
	Status string

	// ExternalReference carries the order id the merchant attached at
	// checkout. Empty when the payment was created without one.
	ExternalReference string

	// TransactionAmountCents is the charged amount in cents.
	TransactionAmountCents int64

	// DateCreated is when the processor created the payment.
	DateCreated time.Time
}

// PaymentGateway fetches payment state from the external processor.
type PaymentGateway interface {
	// GetPaymentDetails fetches the current state of one payment by the
	// processor's payment id.
	GetPaymentDetails(ctx context.Context, paymentID string) (PaymentDetails, error)
}
