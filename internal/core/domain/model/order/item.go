package order

import (
	"errors"
	"fmt"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"
)

// ErrItemIsNotConstructed is returned when an Item was not created through
// the NewItem factory function.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is an ordered line: a product, the quantity ordered, and the unit
// price captured at order placement. The subtotal is derived, never stored.
//
// Item is a value object owned by an Order; quantities and prices are
// immutable after construction.
type Item struct {
	productID kernel.UUID
	quantity  int
	unitPrice kernel.Money

	isConstructed bool
}

// NewItem creates a validated order line. Quantity must be positive.
func NewItem(productID kernel.UUID, quantity int, unitPrice kernel.Money) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}

	return Item{
		productID:     productID,
		quantity:      quantity,
		unitPrice:     unitPrice,
		isConstructed: true,
	}, nil
}

// Validate ensures the Item was created via NewItem.
func (i Item) Validate() error {
	if !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// ProductID returns the ordered product's identifier.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Quantity returns the number of units ordered.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the per-unit price captured at order placement.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal returns quantity x unit price.
func (i Item) Subtotal() kernel.Money {
	subtotal, _ := i.unitPrice.MultiplyBy(i.quantity)
	return subtotal
}
