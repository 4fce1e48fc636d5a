// Package queries contains the read side of the CQRS split. Query handlers
// go straight to the database and return flat response structs; they never
// load aggregates or take locks.
package queries

import (
	"errors"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/guard"
)

var ErrGetShippableOrdersQueryIsNotConstructed = errors.New(
	"GetShippableOrdersQuery must be created via NewGetShippableOrdersQuery constructor",
)

// GetShippableOrdersQuery retrieves the orders eligible for shipment
// formation: paid home deliveries waiting in Pending that no shipment has
// claimed yet.
//
// Example:
//
//	query := NewGetShippableOrdersQuery()
//	handler := NewGetShippableOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get shippable orders: %w", err)
//	}
//	fmt.Printf("%d orders ready to ship\n", len(orders))
type GetShippableOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetShippableOrdersQuery creates a query for shippable orders.
func NewGetShippableOrdersQuery() GetShippableOrdersQuery {
	return GetShippableOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetShippableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetShippableOrdersQueryIsNotConstructed)
}

// GetShippableOrdersQueryResponse is one shipment candidate.
type GetShippableOrdersQueryResponse struct {
	ID               kernel.UUID
	DeliveryAddress  string
	TotalAmountCents int64
}
