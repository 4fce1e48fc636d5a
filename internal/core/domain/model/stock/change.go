package stock

import (
	"time"

	"backoffice/internal/core/domain/model/kernel"
)

// ChangeType classifies an audit entry by the direction of the movement.
type ChangeType int

const (
	// ChangeTypeUnknown catches uninitialized values.
	ChangeTypeUnknown ChangeType = 0

	// Income: the counter increased.
	Income ChangeType = 1

	// Outcome: the counter decreased.
	Outcome ChangeType = 2
)

// String returns the human-readable name of the change type.
func (t ChangeType) String() string {
	switch t {
	case Income:
		return "Income"
	case Outcome:
		return "Outcome"
	default:
		return "Unknown"
	}
}

// Field identifies which stock counter an audit entry touched.
type Field string

const (
	FieldAvailable Field = "available"
	FieldReserved  Field = "reserved"
	FieldOrdered   Field = "ordered"
)

// Change is one immutable audit entry of the stock ledger: which counter of
// which product moved, from what value to what value, and why. Exactly one
// Change is written per counter touched by an adjustment, in the same
// transaction as the numeric update.
type Change struct {
	id         kernel.UUID
	productID  kernel.UUID
	changeType ChangeType
	field      Field
	previous   int
	current    int
	reason     string
	occurredAt time.Time
}

// RestoreChange reconstructs an audit entry from persistence.
func RestoreChange(
	id kernel.UUID,
	productID kernel.UUID,
	changeType ChangeType,
	field Field,
	previous, current int,
	reason string,
	occurredAt time.Time,
) Change {
	return Change{
		id:         id,
		productID:  productID,
		changeType: changeType,
		field:      field,
		previous:   previous,
		current:    current,
		reason:     reason,
		occurredAt: occurredAt,
	}
}

func newChange(productID kernel.UUID, field Field, previous, current int, reason string) Change {
	changeType := Income
	if current < previous {
		changeType = Outcome
	}
	return Change{
		id:         kernel.NewUUID(),
		productID:  productID,
		changeType: changeType,
		field:      field,
		previous:   previous,
		current:    current,
		reason:     reason,
		occurredAt: time.Now().UTC(),
	}
}

// ID returns the entry's unique identifier.
func (c Change) ID() kernel.UUID { return c.id }

// ProductID returns the product whose counter moved.
func (c Change) ProductID() kernel.UUID { return c.productID }

// Type returns Income or Outcome.
func (c Change) Type() ChangeType { return c.changeType }

// Field returns the counter the entry touched.
func (c Change) Field() Field { return c.field }

// Previous returns the counter value before the adjustment.
func (c Change) Previous() int { return c.previous }

// Current returns the counter value after the adjustment.
func (c Change) Current() int { return c.current }

// Reason returns the caller-supplied audit reason.
func (c Change) Reason() string { return c.reason }

// OccurredAt returns when the adjustment happened.
func (c Change) OccurredAt() time.Time { return c.occurredAt }
