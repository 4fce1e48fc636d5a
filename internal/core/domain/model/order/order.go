package order

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder. This ensures all orders are validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// StockEffect describes the ledger consequence of a status transition.
// It is computed by the aggregate so the ledger policy cannot drift from the
// reservation flag it depends on.
type StockEffect int

const (
	// StockEffectNone: the transition does not touch the ledger.
	StockEffectNone StockEffect = iota

	// StockEffectReserve: move each item's quantity from available to
	// reserved (entering Pending without a held reservation).
	StockEffectReserve

	// StockEffectRelease: return each item's reserved quantity to available
	// (cancellation of a reserving order).
	StockEffectRelease

	// StockEffectConsume: drop each item's reserved quantity without
	// restoring it (terminal fulfillment).
	StockEffectConsume
)

// Order is the aggregate root for a customer order. It owns the ordered
// lines, the captured total, and the lifecycle status.
//
// Invariants:
//   - status moves only along edges of the transition graph (status.go)
//   - totalAmount equals the sum of item subtotals at creation and is
//     immutable afterward
//   - stockReserved is true exactly while the order holds a stock
//     reservation (set on entering Pending, cleared on release/consume)
//   - orders are never deleted; cancellation is a status
//
// Orders are mutated only through the lifecycle service and the shipment
// flows; direct status writes are impossible from outside the package.
type Order struct {
	id              kernel.UUID
	status          Status
	items           []Item
	deliveryMethod  DeliveryMethod
	deliveryAddress string
	totalAmount     kernel.Money
	shipmentID      *kernel.UUID
	stockReserved   bool

	isConstructed bool
}

// NewOrder creates an order in PaymentPending status from its lines.
// The total amount is computed from the item subtotals and fixed for the
// order's lifetime. At least one item is required; home-delivery orders
// require a delivery address.
func NewOrder(id kernel.UUID, items []Item, deliveryMethod DeliveryMethod, deliveryAddress string) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := deliveryMethod.Validate(); err != nil {
		return nil, err
	}
	if deliveryMethod == HomeDelivery && deliveryAddress == "" {
		return nil, errs.NewValueIsRequiredError("deliveryAddress")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	total := kernel.Zero()
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		total = total.Add(item.Subtotal())
	}

	return &Order{
		id:              id,
		status:          StatusPaymentPending,
		items:           items,
		deliveryMethod:  deliveryMethod,
		deliveryAddress: deliveryAddress,
		totalAmount:     total,
		isConstructed:   true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running the
// creation rules. The stored status, total, reservation flag, and shipment
// reference are taken as-is.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	items []Item,
	deliveryMethod DeliveryMethod,
	deliveryAddress string,
	totalAmount kernel.Money,
	shipmentID *kernel.UUID,
	stockReserved bool,
) (*Order, error) {
	if err := errors.Join(id.Validate(), status.Validate(), deliveryMethod.Validate()); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:              id,
		status:          status,
		items:           items,
		deliveryMethod:  deliveryMethod,
		deliveryAddress: deliveryAddress,
		totalAmount:     totalAmount,
		shipmentID:      shipmentID,
		stockReserved:   stockReserved,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Items returns a copy of the ordered lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// DeliveryMethod returns how the order reaches the customer.
func (o *Order) DeliveryMethod() DeliveryMethod {
	return o.deliveryMethod
}

// DeliveryAddress returns the destination for home-delivery orders; empty for
// pickup orders.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// TotalAmount returns the total captured at order placement.
func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

// Shipment returns the assigned shipment's ID, or nil if unassigned.
func (o *Order) Shipment() *kernel.UUID {
	return o.shipmentID
}

// StockReserved reports whether the order currently holds a stock
// reservation.
func (o *Order) StockReserved() bool {
	return o.stockReserved
}

// TransitionTo moves the order to target along a legal edge and reports the
// ledger effect the caller must apply for each item.
//
// Rules:
//   - target == current status: idempotent no-op, changed=false
//   - edge absent from the transition graph: InvalidTransitionError, order
//     unchanged
//   - entering Pending reserves stock unless a reservation is already held
//     (a shipment return keeps its reservation)
//   - entering Cancelled releases a held reservation; entering Finished
//     consumes it; both clear the flag
//   - every other edge has no ledger effect
func (o *Order) TransitionTo(target Status) (changed bool, effect StockEffect, err error) {
	if err := target.Validate(); err != nil {
		return false, StockEffectNone, err
	}

	if target == o.status {
		return false, StockEffectNone, nil
	}

	if !o.status.CanTransitionTo(target) {
		return false, StockEffectNone, NewInvalidTransitionError(o.status, target)
	}

	effect = StockEffectNone
	switch target {
	case StatusPending:
		if !o.stockReserved {
			effect = StockEffectReserve
			o.stockReserved = true
		}
	case StatusCancelled:
		if o.stockReserved {
			effect = StockEffectRelease
			o.stockReserved = false
		}
	case StatusFinished:
		if o.stockReserved {
			effect = StockEffectConsume
			o.stockReserved = false
		}
	}

	o.status = target
	return true, effect, nil
}

// AssignToShipment records the shipment carrying this order.
func (o *Order) AssignToShipment(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}
	o.shipmentID = &shipmentID
	return nil
}

// ClearShipment detaches the order from its shipment, used when a finish
// reverts the order to Pending.
func (o *Order) ClearShipment() {
	o.shipmentID = nil
}
