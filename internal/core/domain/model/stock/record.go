package stock

import (
	"errors"
	"fmt"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// ErrRecordIsNotConstructed is returned when a Record was not created through
// NewRecord or RestoreRecord.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord or RestoreRecord constructor")

// ErrInsufficientStock is the unwrap target for InsufficientStockError.
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStockError indicates that an adjustment would drive a counter
// negative. It aborts the whole order-level operation that requested it.
type InsufficientStockError struct {
	ProductID kernel.UUID
	Field     Field
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %s has %d %s, requested %d",
		ErrInsufficientStock, e.ProductID, e.Available, e.Field, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Delta describes a single ledger adjustment. Zero fields leave the
// corresponding counter untouched.
type Delta struct {
	Available int
	Reserved  int
	Ordered   int
}

// Record is the stock ledger aggregate for one product: three non-negative
// counters plus the audit entries produced by uncommitted adjustments.
//
// Invariants:
//   - available, reserved, and ordered never go negative; an adjustment that
//     would violate this fails with InsufficientStockError and leaves the
//     record untouched
//   - every counter movement appends exactly one Change per field touched;
//     the repository persists counters and entries in one transaction
//
// Records are created once per product and mutated only through Adjust and
// the named movements built on it.
type Record struct {
	productID kernel.UUID
	available int
	reserved  int
	ordered   int

	uncommittedChanges []Change

	isConstructed bool
}

// NewRecord creates the ledger record for a new product with the given
// initial availability.
func NewRecord(productID kernel.UUID, available int) (*Record, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if available < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("available",
			fmt.Errorf("%d is negative", available))
	}

	return &Record{
		productID:     productID,
		available:     available,
		isConstructed: true,
	}, nil
}

// RestoreRecord reconstructs a ledger record from persistence.
func RestoreRecord(productID kernel.UUID, available, reserved, ordered int) (*Record, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if available < 0 || reserved < 0 || ordered < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("stock counters",
			fmt.Errorf("available=%d reserved=%d ordered=%d", available, reserved, ordered))
	}

	return &Record{
		productID:     productID,
		available:     available,
		reserved:      reserved,
		ordered:       ordered,
		isConstructed: true,
	}, nil
}

// Validate ensures the Record was created through a constructor.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// ProductID returns the product this record belongs to.
func (r *Record) ProductID() kernel.UUID { return r.productID }

// Available returns units on hand and unreserved.
func (r *Record) Available() int { return r.available }

// Reserved returns units held for pending orders.
func (r *Record) Reserved() int { return r.reserved }

// Ordered returns units expected from suppliers.
func (r *Record) Ordered() int { return r.ordered }

// UncommittedChanges returns the audit entries produced since the record was
// loaded. The repository persists and clears them on save.
func (r *Record) UncommittedChanges() []Change {
	changes := make([]Change, len(r.uncommittedChanges))
	copy(changes, r.uncommittedChanges)
	return changes
}

// ClearUncommittedChanges drops the collected audit entries after they have
// been persisted.
func (r *Record) ClearUncommittedChanges() {
	r.uncommittedChanges = nil
}

// Adjust applies a delta to the counters, appending one audit entry per field
// touched. The whole delta is rejected with InsufficientStockError if any
// resulting counter would be negative; the record is left untouched in that
// case.
func (r *Record) Adjust(delta Delta, reason string) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	newAvailable := r.available + delta.Available
	newReserved := r.reserved + delta.Reserved
	newOrdered := r.ordered + delta.Ordered

	if newAvailable < 0 {
		return &InsufficientStockError{
			ProductID: r.productID, Field: FieldAvailable,
			Requested: -delta.Available, Available: r.available,
		}
	}
	if newReserved < 0 {
		return &InsufficientStockError{
			ProductID: r.productID, Field: FieldReserved,
			Requested: -delta.Reserved, Available: r.reserved,
		}
	}
	if newOrdered < 0 {
		return &InsufficientStockError{
			ProductID: r.productID, Field: FieldOrdered,
			Requested: -delta.Ordered, Available: r.ordered,
		}
	}

	if delta.Available != 0 {
		r.uncommittedChanges = append(r.uncommittedChanges,
			newChange(r.productID, FieldAvailable, r.available, newAvailable, reason))
	}
	if delta.Reserved != 0 {
		r.uncommittedChanges = append(r.uncommittedChanges,
			newChange(r.productID, FieldReserved, r.reserved, newReserved, reason))
	}
	if delta.Ordered != 0 {
		r.uncommittedChanges = append(r.uncommittedChanges,
			newChange(r.productID, FieldOrdered, r.ordered, newOrdered, reason))
	}

	r.available = newAvailable
	r.reserved = newReserved
	r.ordered = newOrdered
	return nil
}

// Reserve moves qty units from available to reserved.
func (r *Record) Reserve(qty int, reason string) error {
	return r.Adjust(Delta{Available: -qty, Reserved: qty}, reason)
}

// Release returns qty reserved units to availability.
func (r *Record) Release(qty int, reason string) error {
	return r.Adjust(Delta{Available: qty, Reserved: -qty}, reason)
}

// Consume drops qty reserved units without restoring them; used on terminal
// fulfillment.
func (r *Record) Consume(qty int, reason string) error {
	return r.Adjust(Delta{Reserved: -qty}, reason)
}

// MarkOrdered records qty units ordered from a supplier.
func (r *Record) MarkOrdered(qty int, reason string) error {
	return r.Adjust(Delta{Ordered: qty}, reason)
}

// Receive books an inbound supplier delivery: qty units leave ordered and
// become available.
func (r *Record) Receive(qty int, reason string) error {
	return r.Adjust(Delta{Available: qty, Ordered: -qty}, reason)
}
