package commands

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
	"backoffice/internal/pkg/guard"
)

var ErrReceiveStockCommandIsNotConstructed = errors.New(
	"ReceiveStockCommand must be created via NewReceiveStockCommand constructor",
)

// ReceiveStockCommand represents an inbound supplier delivery for one product:
// the received units become available and settle the outstanding ordered
// quantity.
type ReceiveStockCommand struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	quantity  int

	guard guard.ConstructorGuard
}

// NewReceiveStockCommand creates a command to book an inbound delivery.
// Quantity must be positive.
func NewReceiveStockCommand(productID kernel.UUID, quantity int) (ReceiveStockCommand, error) {
	cmd := ReceiveStockCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setProductID(productID),
		cmd.setQuantity(quantity),
	); err != nil {
		return ReceiveStockCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReceiveStockCommand) Validate() error {
	return c.guard.Validate(ErrReceiveStockCommandIsNotConstructed)
}

// ProductID returns the delivered product.
func (c ReceiveStockCommand) ProductID() kernel.UUID {
	return c.productID
}

// Quantity returns the number of delivered units.
func (c ReceiveStockCommand) Quantity() int {
	return c.quantity
}

func (c *ReceiveStockCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	c.productID = productID
	return nil
}

func (c *ReceiveStockCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity must be greater than 0")
	}

	c.quantity = quantity
	return nil
}
