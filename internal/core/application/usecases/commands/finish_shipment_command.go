package commands

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var ErrFinishShipmentCommandIsNotConstructed = errors.New(
	"FinishShipmentCommand must be created via NewFinishShipmentCommand constructor",
)

// FinishShipmentCommand represents a returning shipment: the vehicle's
// odometer reading, the completion time, and the per-order outcome. Each
// carried order either reached the customer (Finished) or comes back to the
// warehouse (Pending).
//
// Example:
//
//	targets := map[kernel.UUID]order.Status{
//	    deliveredID: order.StatusFinished,
//	    returnedID:  order.StatusPending,
//	}
//	cmd, err := NewFinishShipmentCommand(shipmentID, 120350.5, time.Now(), targets)
//	if err != nil {
//	    return fmt.Errorf("invalid finish request: %w", err)
//	}
type FinishShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	odometerKm float64
	finishedAt time.Time
	targets    map[kernel.UUID]order.Status

	guard guard.ConstructorGuard
}

// NewFinishShipmentCommand creates a command to complete a shipment. Targets
// must be non-empty and every target status must be Pending or Finished; any
// other outcome is rejected here, before the shipment is even loaded.
func NewFinishShipmentCommand(
	shipmentID kernel.UUID,
	odometerKm float64,
	finishedAt time.Time,
	targets map[kernel.UUID]order.Status,
) (FinishShipmentCommand, error) {
	cmd := FinishShipmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setOdometerKm(odometerKm),
		cmd.setFinishedAt(finishedAt),
		cmd.setTargets(targets),
	); err != nil {
		return FinishShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FinishShipmentCommand) Validate() error {
	return c.guard.Validate(ErrFinishShipmentCommandIsNotConstructed)
}

// ShipmentID returns the shipment to finish.
func (c FinishShipmentCommand) ShipmentID() kernel.UUID {
	return c.shipmentID
}

// OdometerKm returns the vehicle's odometer reading on return.
func (c FinishShipmentCommand) OdometerKm() float64 {
	return c.odometerKm
}

// FinishedAt returns when the shipment completed.
func (c FinishShipmentCommand) FinishedAt() time.Time {
	return c.finishedAt
}

// Targets returns the requested outcome per carried order.
func (c FinishShipmentCommand) Targets() map[kernel.UUID]order.Status {
	targets := make(map[kernel.UUID]order.Status, len(c.targets))
	for id, status := range c.targets {
		targets[id] = status
	}
	return targets
}

func (c *FinishShipmentCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}

	c.shipmentID = shipmentID
	return nil
}

func (c *FinishShipmentCommand) setOdometerKm(odometerKm float64) error {
	if odometerKm < 0 {
		return errs.NewValueIsInvalidError("odometerKm is negative")
	}

	c.odometerKm = odometerKm
	return nil
}

func (c *FinishShipmentCommand) setFinishedAt(finishedAt time.Time) error {
	if finishedAt.IsZero() {
		return errs.NewValueIsRequiredError("finishedAt")
	}

	c.finishedAt = finishedAt
	return nil
}

func (c *FinishShipmentCommand) setTargets(targets map[kernel.UUID]order.Status) error {
	if len(targets) == 0 {
		return errs.NewValueIsRequiredError("targets")
	}

	for id, status := range targets {
		if err := id.Validate(); err != nil {
			return err
		}
		if status != order.StatusPending && status != order.StatusFinished {
			return errs.NewValueIsInvalidError(
				"target for order " + id.String() + " must be Pending or Finished, got " + status.String())
		}
	}

	c.targets = targets
	return nil
}
