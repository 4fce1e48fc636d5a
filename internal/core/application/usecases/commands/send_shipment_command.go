package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/guard"
)

var ErrSendShipmentCommandIsNotConstructed = errors.New(
	"SendShipmentCommand must be created via NewSendShipmentCommand constructor",
)

// SendShipmentCommand represents a request to dispatch a formed shipment onto
// the road.
type SendShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSendShipmentCommand creates a command to dispatch a shipment.
func NewSendShipmentCommand(shipmentID kernel.UUID) (SendShipmentCommand, error) {
	cmd := SendShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setShipmentID(shipmentID); err != nil {
		return SendShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SendShipmentCommand) Validate() error {
	return c.guard.Validate(ErrSendShipmentCommandIsNotConstructed)
}

// ShipmentID returns the shipment to dispatch.
func (c SendShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

func (c *SendShipmentCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}

	c.shipmentID = shipmentID
	return nil
}
