// Package ports defines the driven-side contracts of the application core:
// repository interfaces, the unit of work, and the external collaborators
// (routing, payment gateway, notification, webhook dedup). Infrastructure
// adapters implement these; the core never imports an adapter.
package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/stock"
)

// StockRepository defines the persistence contract for the stock ledger.
// Updating a record persists its counters and every uncommitted audit entry
// in the same transaction, then clears the entries from the aggregate.
type StockRepository interface {
	// Add persists the ledger record for a new product.
	Add(ctx context.Context, record *stock.Record) error

	// Update persists counter changes and the collected audit entries.
	Update(ctx context.Context, record *stock.Record) error

	// GetByProduct retrieves one product's ledger record, locked for update
	// when running inside a transaction.
	// Returns errs.ObjectNotFoundError when the product has no record.
	GetByProduct(ctx context.Context, productID kernel.UUID) (*stock.Record, error)

	// GetByProducts retrieves the ledger records for a set of products, keyed
	// by product id. Missing products are absent from the map.
	GetByProducts(ctx context.Context, productIDs []kernel.UUID) (map[kernel.UUID]*stock.Record, error)
}
