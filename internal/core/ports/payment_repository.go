package ports

import (
	"context"

	"backoffice/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payment records.
// Records are keyed by the processor's payment id; the webhook flow upserts
// through GetByExternalID plus Add or Update, never by blind insert.
type PaymentRepository interface {
	// Add persists the record for a payment seen for the first time.
	Add(ctx context.Context, record *payment.Record) error

	// Update persists changes to an existing payment record.
	Update(ctx context.Context, record *payment.Record) error

	// GetByExternalID retrieves the record for the processor's payment id.
	// Returns errs.ObjectNotFoundError when the payment was never seen.
	GetByExternalID(ctx context.Context, externalID string) (*payment.Record, error)
}
