package commands

import (
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/core/domain/model/kernel"
)

// ErrMissingOrderReference is returned when a payment fetched from the
// processor carries no order reference. The webhook cannot be matched to an
// order and retrying will not help.
var ErrMissingOrderReference = errors.New("payment has no order reference")

// ErrPreconditionFailed is the unwrap target for PreconditionError.
var ErrPreconditionFailed = errors.New("precondition failed")

// PreconditionError reports a violated business precondition by name, such as
// "order X is not pending". The request is well-formed but the system state
// does not allow it.
type PreconditionError struct {
	Rule string
}

// NewPreconditionError creates a PreconditionError naming the violated rule.
func NewPreconditionError(format string, args ...any) *PreconditionError {
	return &PreconditionError{Rule: fmt.Sprintf(format, args...)}
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPreconditionFailed, e.Rule)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPreconditionFailed
}

// ErrOrderSetMismatch is the unwrap target for OrderSetMismatchError.
var ErrOrderSetMismatch = errors.New("order set does not match the shipment")

// OrderSetMismatchError reports that a finish-shipment request did not address
// exactly the orders the shipment carries. Missing lists shipment orders the
// request omitted; Extra lists request orders the shipment does not carry.
type OrderSetMismatchError struct {
	Missing []kernel.UUID
	Extra   []kernel.UUID
}

func (e *OrderSetMismatchError) Error() string {
	return fmt.Sprintf("%s: missing [%s], extra [%s]",
		ErrOrderSetMismatch, joinIDs(e.Missing), joinIDs(e.Extra))
}

func (e *OrderSetMismatchError) Unwrap() error {
	return ErrOrderSetMismatch
}

func joinIDs(ids []kernel.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
