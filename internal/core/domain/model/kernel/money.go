package kernel

import (
	"fmt"

	"backoffice/internal/pkg/errs"
)

// Money is a value object representing a monetary amount in the smallest
// currency unit (cents). Amounts are never negative: order totals, item
// prices, and bill lines are all non-negative by construction.
//
// Money is immutable; arithmetic returns new values.
type Money struct {
	cents int64
}

// NewMoney creates a Money value from an amount in cents.
// Returns an error for negative amounts.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d cents is negative", cents))
	}
	return Money{cents: cents}, nil
}

// Zero returns the zero monetary amount.
func Zero() Money {
	return Money{}
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// MultiplyBy returns the amount multiplied by a non-negative quantity.
func (m Money) MultiplyBy(qty int) (Money, error) {
	if qty < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is negative", qty))
	}
	return Money{cents: m.cents * int64(qty)}, nil
}

// IsEqual compares two amounts by value.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String formats the amount as a decimal, e.g. "12.50".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
