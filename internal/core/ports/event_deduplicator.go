package ports

import (
	"context"
)

// EventDeduplicator short-circuits re-delivered webhook events before any
// processing work happens. It is an optimization in front of the payment
// record upsert, not the correctness mechanism: a dedup miss on a re-delivery
// is still absorbed by the upsert.
type EventDeduplicator interface {
	// AlreadyProcessed reports whether the event id was seen recently.
	AlreadyProcessed(ctx context.Context, eventID string) (bool, error)

	// MarkProcessed remembers the event id for the dedup window.
	MarkProcessed(ctx context.Context, eventID string) error
}
