package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand represents a request to move one order to a target
// status. Whether the move is legal is decided by the transition table at
// handling time, not here.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.StatusCancelled)
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, lifecycle, hook)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to transition order: %w", err)
//	}
type TransitionOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand creates a command to transition a single order.
// Validates that the order ID is valid and the target status is known.
func NewTransitionOrderCommand(orderID kernel.UUID, target order.Status) (TransitionOrderCommand, error) {
	cmd := TransitionOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested target status.
func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

func (c *TransitionOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
