package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Reads performed inside a transaction take row-level locks so concurrent
// transitions of the same order serialize instead of interleaving.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByIDs retrieves the orders with the given identifiers, in no
	// particular ordering. Missing ids are simply absent from the result;
	// callers that need the full set must compare counts themselves.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error)

	// GetAllInStatus retrieves every order currently in the given status.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
