package commands

import (
	"context"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/stock"
	"backoffice/internal/core/ports"
)

// loadStocksForOrders fetches the ledger records for every product the given
// orders reference, deduplicated. The records come back locked when the
// repository runs inside a transaction.
func loadStocksForOrders(
	ctx context.Context,
	repo ports.StockRepository,
	orders []*order.Order,
) (map[kernel.UUID]*stock.Record, error) {
	seen := make(map[kernel.UUID]struct{})
	var productIDs []kernel.UUID

	for _, o := range orders {
		for _, item := range o.Items() {
			if _, ok := seen[item.ProductID()]; ok {
				continue
			}
			seen[item.ProductID()] = struct{}{}
			productIDs = append(productIDs, item.ProductID())
		}
	}

	if len(productIDs) == 0 {
		return map[kernel.UUID]*stock.Record{}, nil
	}

	return repo.GetByProducts(ctx, productIDs)
}

// persistAdjustedStocks writes back every record that collected audit entries.
// Untouched records are skipped.
func persistAdjustedStocks(
	ctx context.Context,
	repo ports.StockRepository,
	stocks map[kernel.UUID]*stock.Record,
) error {
	for _, record := range stocks {
		if len(record.UncommittedChanges()) == 0 {
			continue
		}
		if err := repo.Update(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
