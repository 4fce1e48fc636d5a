package queries

import (
	"errors"
	"time"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/guard"
)

var ErrGetStockChangesQueryIsNotConstructed = errors.New(
	"GetStockChangesQuery must be created via NewGetStockChangesQuery constructor",
)

// GetStockChangesQuery retrieves the audit trail of one product's ledger,
// newest first.
type GetStockChangesQuery struct { //nolint:recvcheck //using for validation
	productID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetStockChangesQuery creates a query for a product's stock audit trail.
func NewGetStockChangesQuery(productID kernel.UUID) (GetStockChangesQuery, error) {
	query := GetStockChangesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setProductID(productID); err != nil {
		return GetStockChangesQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStockChangesQuery) Validate() error {
	return q.guard.Validate(ErrGetStockChangesQueryIsNotConstructed)
}

// ProductID returns the product whose trail is requested.
func (q GetStockChangesQuery) ProductID() kernel.UUID {
	return q.productID
}

func (q *GetStockChangesQuery) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	q.productID = productID
	return nil
}

// GetStockChangesQueryResponse is one audit entry.
type GetStockChangesQueryResponse struct {
	ID         kernel.UUID
	ChangeType string
	Field      string
	Previous   int
	Current    int
	Reason     string
	OccurredAt time.Time
}
