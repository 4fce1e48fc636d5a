// Package shipmentrepo provides data transfer objects and mapping functions
// for shipment persistence. The carried order set is stored in a join table
// with an explicit position so formation order survives reloads.
package shipmentrepo

import (
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO represents the database structure for persisting shipment
// aggregates. Route fields are nullable: they stay NULL until the route has
// been computed.
type ShipmentDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status           int       `gorm:"index"`
	VehicleID        uuid.UUID `gorm:"type:uuid;index"`
	RouteLink        *string
	RouteEstimatedKm *float64
	EffectiveKm      float64
	FinishedAt       *time.Time
	Orders           []ShipmentOrderDTO `gorm:"foreignKey:ShipmentID;references:ID"`
}

// TableName specifies the database table name for shipment entities.
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// ShipmentOrderDTO links a shipment to one carried order. The set is written
// once at formation and never changed.
type ShipmentOrderDTO struct {
	ShipmentID uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int
}

// TableName specifies the database table name for the shipment order set.
func (ShipmentOrderDTO) TableName() string {
	return "shipment_orders"
}

// fromDomain converts a shipment domain aggregate to its database
// representation.
func fromDomain(aggregate *shipment.Shipment) ShipmentDTO {
	var routeLink *string
	var routeEstimatedKm *float64
	if route := aggregate.Route(); route != nil {
		link := route.Link
		estimatedKm := route.EstimatedKm
		routeLink = &link
		routeEstimatedKm = &estimatedKm
	}

	orderIDs := aggregate.OrderIDs()
	orders := make([]ShipmentOrderDTO, 0, len(orderIDs))
	for position, orderID := range orderIDs {
		orders = append(orders, ShipmentOrderDTO{
			ShipmentID: aggregate.ID().Bytes(),
			OrderID:    orderID.Bytes(),
			Position:   position,
		})
	}

	return ShipmentDTO{
		ID:               aggregate.ID().Bytes(),
		Status:           int(aggregate.Status()),
		VehicleID:        aggregate.VehicleID().Bytes(),
		RouteLink:        routeLink,
		RouteEstimatedKm: routeEstimatedKm,
		EffectiveKm:      aggregate.EffectiveKm(),
		FinishedAt:       aggregate.FinishedAt(),
		Orders:           orders,
	}
}

// toDomain converts a database DTO to a shipment domain aggregate using
// RestoreShipment. Carried orders are restored in position order.
func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	vehicleID, err := kernel.UUIDFromBytes(dto.VehicleID[:])
	if err != nil {
		return nil, err
	}

	orderIDs := make([]kernel.UUID, 0, len(dto.Orders))
	for _, orderDTO := range dto.Orders {
		orderID, orderErr := kernel.UUIDFromBytes(orderDTO.OrderID[:])
		if orderErr != nil {
			return nil, orderErr
		}
		orderIDs = append(orderIDs, orderID)
	}

	var route *shipment.Route
	if dto.RouteLink != nil && dto.RouteEstimatedKm != nil {
		route = &shipment.Route{Link: *dto.RouteLink, EstimatedKm: *dto.RouteEstimatedKm}
	}

	return shipment.RestoreShipment(
		id,
		vehicleID,
		shipment.Status(dto.Status),
		orderIDs,
		route,
		dto.EffectiveKm,
		dto.FinishedAt,
	)
}
