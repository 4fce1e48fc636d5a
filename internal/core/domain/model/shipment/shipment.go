// Package shipment contains the Shipment aggregate: a vehicle, an ordered set
// of orders, an optional computed route, and a Pending -> Shipped -> Finished
// lifecycle. Order statuses and the shipment status are kept compatible by
// the shipment command handlers; the aggregate enforces its own edges.
package shipment

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

var (
	// ErrShipmentIsNotConstructed is returned when a Shipment was not created
	// through NewShipment or RestoreShipment.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment constructor")

	// ErrShipmentNotPending: dispatch requires a Pending shipment.
	ErrShipmentNotPending = errors.New("shipment is not pending")

	// ErrShipmentNotShipped: finishing requires a Shipped shipment.
	ErrShipmentNotShipped = errors.New("shipment is not shipped")

	// ErrRouteNotComputed: a shipment cannot be dispatched before its route
	// has been computed and cached.
	ErrRouteNotComputed = errors.New("shipment route has not been computed")
)

// Route is the cached result of the routing collaborator: a shareable link
// and the estimated distance in kilometers.
type Route struct {
	Link        string
	EstimatedKm float64
}

// Shipment is the aggregate root for a delivery run: one vehicle, the orders
// it carries, and the route it drives.
//
// Invariants:
//   - at least one order, no duplicates
//   - status moves Pending -> Shipped -> Finished only
//   - a shipment is dispatched only after its route is cached
//   - effectiveKm and finishedAt are set exactly once, at Finish
type Shipment struct {
	id          kernel.UUID
	status      Status
	vehicleID   kernel.UUID
	orderIDs    []kernel.UUID
	route       *Route
	effectiveKm float64
	finishedAt  *time.Time

	isConstructed bool
}

// NewShipment forms a Pending shipment from a vehicle and a non-empty,
// duplicate-free set of orders.
func NewShipment(id, vehicleID kernel.UUID, orderIDs []kernel.UUID) (*Shipment, error) {
	if err := errors.Join(id.Validate(), vehicleID.Validate()); err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, errs.NewValueIsRequiredError("orderIds")
	}

	seen := make(map[kernel.UUID]struct{}, len(orderIDs))
	for _, orderID := range orderIDs {
		if err := orderID.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[orderID]; dup {
			return nil, errs.NewValueIsInvalidError("orderIds contain duplicate " + orderID.String())
		}
		seen[orderID] = struct{}{}
	}

	return &Shipment{
		id:            id,
		status:        StatusPending,
		vehicleID:     vehicleID,
		orderIDs:      orderIDs,
		isConstructed: true,
	}, nil
}

// RestoreShipment reconstructs a shipment from persistence.
func RestoreShipment(
	id, vehicleID kernel.UUID,
	status Status,
	orderIDs []kernel.UUID,
	route *Route,
	effectiveKm float64,
	finishedAt *time.Time,
) (*Shipment, error) {
	if err := errors.Join(id.Validate(), vehicleID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Shipment{
		id:            id,
		status:        status,
		vehicleID:     vehicleID,
		orderIDs:      orderIDs,
		route:         route,
		effectiveKm:   effectiveKm,
		finishedAt:    finishedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Shipment was created through a constructor.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// ID returns the shipment's unique identifier.
func (s *Shipment) ID() kernel.UUID { return s.id }

// Status returns the current lifecycle status.
func (s *Shipment) Status() Status { return s.status }

// VehicleID returns the assigned vehicle.
func (s *Shipment) VehicleID() kernel.UUID { return s.vehicleID }

// OrderIDs returns a copy of the carried order ids, in formation order.
func (s *Shipment) OrderIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(s.orderIDs))
	copy(ids, s.orderIDs)
	return ids
}

// Route returns the cached route, or nil before SetRoute.
func (s *Shipment) Route() *Route { return s.route }

// EffectiveKm returns the odometer distance actually driven, set at Finish.
func (s *Shipment) EffectiveKm() float64 { return s.effectiveKm }

// FinishedAt returns when the shipment finished, or nil while underway.
func (s *Shipment) FinishedAt() *time.Time { return s.finishedAt }

// Carries reports whether the shipment references the given order.
func (s *Shipment) Carries(orderID kernel.UUID) bool {
	for _, id := range s.orderIDs {
		if id.IsEqual(orderID) {
			return true
		}
	}
	return false
}

// SetRoute caches the routing collaborator's result. Only a Pending shipment
// may (re)compute its route.
func (s *Shipment) SetRoute(link string, estimatedKm float64) error {
	if s.status != StatusPending {
		return ErrShipmentNotPending
	}
	s.route = &Route{Link: link, EstimatedKm: estimatedKm}
	return nil
}

// Dispatch marks a Pending shipment as Shipped. Requires a cached route.
// Order statuses are not touched here: they stay governed by the finish step.
func (s *Shipment) Dispatch() error {
	if s.status != StatusPending {
		return ErrShipmentNotPending
	}
	if s.route == nil {
		return ErrRouteNotComputed
	}
	s.status = StatusShipped
	return nil
}

// Finish marks a Shipped shipment as Finished, recording the effective
// distance driven and the completion time.
func (s *Shipment) Finish(effectiveKm float64, finishedAt time.Time) error {
	if s.status != StatusShipped {
		return ErrShipmentNotShipped
	}
	if effectiveKm < 0 {
		return errs.NewValueIsInvalidError("effectiveKm is negative")
	}
	s.status = StatusFinished
	s.effectiveKm = effectiveKm
	s.finishedAt = &finishedAt
	return nil
}
