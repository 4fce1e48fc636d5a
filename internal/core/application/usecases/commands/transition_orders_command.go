package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var ErrTransitionOrdersCommandIsNotConstructed = errors.New(
	"TransitionOrdersCommand must be created via NewTransitionOrdersCommand constructor",
)

// TransitionOrdersCommand represents a request to move a batch of orders to
// the same target status, all-or-nothing. Used by back-office bulk actions
// such as marking a picking wave as prepared.
type TransitionOrdersCommand struct { //nolint:recvcheck //using for validation
	orderIDs []kernel.UUID
	target   order.Status

	guard guard.ConstructorGuard
}

// NewTransitionOrdersCommand creates a command to transition a batch of
// orders. Requires at least one order id, no duplicates, and a known target
// status.
func NewTransitionOrdersCommand(orderIDs []kernel.UUID, target order.Status) (TransitionOrdersCommand, error) {
	cmd := TransitionOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderIDs(orderIDs),
		cmd.setTarget(target),
	); err != nil {
		return TransitionOrdersCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrdersCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrdersCommandIsNotConstructed)
}

// OrderIDs returns the orders to transition.
func (c TransitionOrdersCommand) OrderIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.orderIDs))
	copy(ids, c.orderIDs)
	return ids
}

// Target returns the requested target status.
func (c TransitionOrdersCommand) Target() order.Status {
	return c.target
}

func (c *TransitionOrdersCommand) setOrderIDs(orderIDs []kernel.UUID) error {
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

func (c *TransitionOrdersCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
