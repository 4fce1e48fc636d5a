package queries

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetShippableOrdersQueryHandler reads shipment candidates straight from the
// orders table.
type GetShippableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetShippableOrdersQueryHandler creates a handler for shippable-order
// queries. Requires a GORM database connection for query execution.
func NewGetShippableOrdersQueryHandler(db *gorm.DB) GetShippableOrdersQueryHandler {
	return GetShippableOrdersQueryHandler{db: db}
}

// Handle returns every Pending, unassigned home-delivery order, sorted by id
// for consistent output.
func (h GetShippableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetShippableOrdersQuery,
) ([]GetShippableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	responses := make([]GetShippableOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			delivery_address,
			total_amount_cents
		FROM orders
		WHERE status = ?
		  AND delivery_method = ?
		  AND shipment_id IS NULL
		ORDER BY id
	`, order.StatusPending, order.HomeDelivery).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var resp GetShippableOrdersQueryResponse

		if err = rows.Scan(&id, &resp.DeliveryAddress, &resp.TotalAmountCents); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		responses = append(responses, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
