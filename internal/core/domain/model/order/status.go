package order

import (
	"errors"
	"fmt"

	"backoffice/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. The integer values are
// stable identifiers shared with the persistence layer and external clients;
// never renumber them.
//
// State transitions form a fixed directed graph (see transitions). Every
// status change in the system is validated against this graph through
// CanTransitionTo; no component may change an order's status by other means.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = 0

	// StatusPending: paid (or payment-exempt) home-delivery order holding a
	// stock reservation, waiting to be picked into a shipment.
	StatusPending Status = 1

	// StatusInPreparation: order accepted into the warehouse picking flow.
	StatusInPreparation Status = 2

	// StatusShipped: order left the warehouse on a dispatched shipment.
	StatusShipped Status = 3

	// StatusFinished: terminal, order delivered or handed over. Consumes the
	// stock reservation.
	StatusFinished Status = 4

	// StatusCancelled: terminal, order abandoned. Releases the stock
	// reservation back to availability.
	StatusCancelled Status = 5

	// StatusPrepared: picking complete, order packed and ready for dispatch.
	StatusPrepared Status = 6

	// StatusPaymentPending: initial status, awaiting the payment processor's
	// verdict.
	StatusPaymentPending Status = 7

	// StatusPaymentRejected: payment failed or was cancelled; the order can
	// be retried or cancelled.
	StatusPaymentRejected Status = 8
)

// ErrInvalidTransition is the unwrap target for InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid status transition")

// InvalidTransitionError indicates an attempt to move an order along an edge
// that does not exist in the transition graph. It is fatal to the caller and
// is never coerced into a partial success.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given
// illegal edge.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// transitions is the authoritative adjacency map of legal status edges.
// Terminal states (Finished, Cancelled) have empty edge sets.
//
// Prepared -> Pending is the shipment-return edge: an order that could not be
// delivered is reverted to the pool by the finish-shipment flow. The stock
// reservation survives that revert untouched.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		StatusPaymentPending:  {StatusPending, StatusInPreparation, StatusCancelled, StatusPaymentRejected},
		StatusPaymentRejected: {StatusCancelled, StatusPaymentPending},
		StatusPending:         {StatusInPreparation, StatusCancelled},
		StatusInPreparation:   {StatusPrepared, StatusCancelled},
		StatusPrepared:        {StatusShipped, StatusFinished, StatusPending},
		StatusShipped:         {StatusFinished},
		StatusFinished:        {},
		StatusCancelled:       {},
	}
}

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:         "Unknown",
		StatusPending:         "Pending",
		StatusInPreparation:   "InPreparation",
		StatusShipped:         "Shipped",
		StatusFinished:        "Finished",
		StatusCancelled:       "Cancelled",
		StatusPrepared:        "Prepared",
		StatusPaymentPending:  "PaymentPending",
		StatusPaymentRejected: "PaymentRejected",
	}
}

// Validate checks that the Status is a member of the enum.
// StatusUnknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := transitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

// CanTransitionTo reports whether the edge s -> target exists in the
// transition graph. Unknown source statuses have no edges.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions()[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing edges.
func (s Status) IsTerminal() bool {
	edges, ok := transitions()[s]
	return ok && len(edges) == 0
}

// String returns the human-readable name of the status, or "Unknown" for
// values outside the enum. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ParseStatus resolves a status by its human-readable name, as supplied by
// API clients. "Unknown" and unrecognized names are rejected.
func ParseStatus(name string) (Status, error) {
	for status, str := range statusStrings() {
		if str == name && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", name))
}
