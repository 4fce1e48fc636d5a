package shipment

import (
	"fmt"

	"backoffice/internal/pkg/errs"
)

// Status represents the lifecycle state of a shipment. The integer values are
// stable identifiers shared with persistence.
//
// Shipments move strictly Pending -> Shipped -> Finished; Finished is
// terminal.
type Status int

const (
	// StatusUnknown catches uninitialized values.
	StatusUnknown Status = 0

	// StatusPending: shipment formed, orders being prepared.
	StatusPending Status = 1

	// StatusShipped: vehicle dispatched, route fixed.
	StatusShipped Status = 2

	// StatusFinished: vehicle returned, every order settled.
	StatusFinished Status = 3
)

// Validate checks that the Status is a member of the enum.
func (s Status) Validate() error {
	if s != StatusPending && s != StatusShipped && s != StatusFinished {
		return errs.NewValueIsInvalidErrorWithCause("shipment status",
			fmt.Errorf("%d is not a valid shipment status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusShipped:
		return "Shipped"
	case StatusFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}
