package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand represents a request to form a shipment: a vehicle
// plus the set of pending orders it will carry.
//
// Example:
//
//	cmd, err := NewCreateShipmentCommand(kernel.NewUUID(), vehicleID, orderIDs)
//	if err != nil {
//	    return fmt.Errorf("invalid shipment request: %w", err)
//	}
//
//	handler := NewCreateShipmentCommandHandler(uowFactory, lifecycle, notifier, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create shipment: %w", err)
//	}
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	vehicleID  kernel.UUID
	orderIDs   []kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateShipmentCommand creates a command to form a shipment. Requires a
// valid shipment id, a valid vehicle id, and a non-empty duplicate-free order
// set.
func NewCreateShipmentCommand(shipmentID, vehicleID kernel.UUID, orderIDs []kernel.UUID) (CreateShipmentCommand, error) {
	cmd := CreateShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setVehicleID(vehicleID),
		cmd.setOrderIDs(orderIDs),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

// ShipmentID returns the id the new shipment will carry.
func (c CreateShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

// VehicleID returns the vehicle assigned to the shipment.
func (c CreateShipmentCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// OrderIDs returns the orders the shipment will carry.
func (c CreateShipmentCommand) OrderIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.orderIDs))
	copy(ids, c.orderIDs)
	return ids
}

func (c *CreateShipmentCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}

	c.shipmentID = shipmentID
	return nil
}

func (c *CreateShipmentCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	c.vehicleID = vehicleID
	return nil
}

func (c *CreateShipmentCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return errs.NewValueIsRequiredError("orderIds")
	}

	seen := make(map[kernel.UUID]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return errs.NewValueIsInvalidError("orderIds contain duplicate " + id.String())
		}
		seen[id] = struct{}{}
	}

	c.orderIDs = orderIDs
	return nil
}
