package commands_test

import (
	"testing"

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/stock"

	"github.com/stretchr/testify/require"
)

// restoreTestOrder rebuilds an order in an arbitrary lifecycle state, the way
// a repository would return it.
func restoreTestOrder(
	t *testing.T,
	productID kernel.UUID,
	qty int,
	method order.DeliveryMethod,
	status order.Status,
	reserved bool,
	shipmentID *kernel.UUID,
) *order.Order {
	t.Helper()

	price, err := kernel.NewMoney(1000)
	require.NoError(t, err)
	item, err := order.NewItem(productID, qty, price)
	require.NoError(t, err)

	address := "123 Main St"
	if method == order.PickUpAtStore {
		address = ""
	}

	total, err := price.MultiplyBy(qty)
	require.NoError(t, err)
	o, err := order.RestoreOrder(kernel.NewUUID(), status, []order.Item{item}, method, address, total, shipmentID, reserved)
	require.NoError(t, err)
	return o
}

// restoreTestStock rebuilds a ledger record with the given counters.
func restoreTestStock(t *testing.T, productID kernel.UUID, available, reserved, ordered int) *stock.Record {
	t.Helper()

	record, err := stock.RestoreRecord(productID, available, reserved, ordered)
	require.NoError(t, err)
	return record
}

func stockMap(records ...*stock.Record) map[kernel.UUID]*stock.Record {
	m := make(map[kernel.UUID]*stock.Record, len(records))
	for _, r := range records {
		m[r.ProductID()] = r
	}
	return m
}
