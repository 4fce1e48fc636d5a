package order

import (
	"fmt"

	"backoffice/internal/pkg/errs"
)

// DeliveryMethod distinguishes how a finished order reaches the customer.
// The integer values are stable identifiers shared with persistence and
// external clients.
type DeliveryMethod int

const (
	// DeliveryMethodUnknown catches uninitialized values.
	DeliveryMethodUnknown DeliveryMethod = 0

	// PickUpAtStore: the customer collects the order; such orders go straight
	// to preparation on payment approval and never ride a shipment.
	PickUpAtStore DeliveryMethod = 1

	// HomeDelivery: the order is delivered by a shipment vehicle.
	HomeDelivery DeliveryMethod = 2
)

// Validate checks that the DeliveryMethod is a member of the enum.
func (m DeliveryMethod) Validate() error {
	if m != PickUpAtStore && m != HomeDelivery {
		return errs.NewValueIsInvalidErrorWithCause("deliveryMethod",
			fmt.Errorf("%d is not a valid delivery method", m))
	}
	return nil
}

// String returns the human-readable name of the delivery method.
func (m DeliveryMethod) String() string {
	switch m {
	case PickUpAtStore:
		return "PickUpAtStore"
	case HomeDelivery:
		return "HomeDelivery"
	default:
		return "Unknown"
	}
}
