package ports

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates.
type ShipmentRepository interface {
	// Add persists a new shipment aggregate to storage.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists changes to an existing shipment aggregate.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get retrieves a shipment aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such shipment exists.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)
}
