package queries

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/stock"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetStockChangesQueryHandler reads a product's audit trail straight from the
// stock_changes table.
type GetStockChangesQueryHandler struct {
	db *gorm.DB
}

// NewGetStockChangesQueryHandler creates a handler for audit trail queries.
// Requires a GORM database connection for query execution.
func NewGetStockChangesQueryHandler(db *gorm.DB) GetStockChangesQueryHandler {
	return GetStockChangesQueryHandler{db: db}
}

// Handle returns the product's ledger movements, newest first.
func (h GetStockChangesQueryHandler) Handle(
	ctx context.Context,
	query GetStockChangesQuery,
) ([]GetStockChangesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	responses := make([]GetStockChangesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			change_type,
			field,
			previous_value,
			current_value,
			reason,
			occurred_at
		FROM stock_changes
		WHERE product_id = ?
		ORDER BY occurred_at DESC, id DESC
	`, query.ProductID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var changeType int
		var resp GetStockChangesQueryResponse

		err = rows.Scan(
			&id,
			&changeType,
			&resp.Field,
			&resp.Previous,
			&resp.Current,
			&resp.Reason,
			&resp.OccurredAt,
		)
		if err != nil {
			return nil, err
		}

		changeID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = changeID
		resp.ChangeType = stock.ChangeType(changeType).String()

		responses = append(responses, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}
