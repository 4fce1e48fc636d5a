// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. Orders map to two tables: the order row itself and its
// immutable lines in order_items.
package orderrepo

import (
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by status and shipment assignment to serve the shippable-orders
// read path.
type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status           int        `gorm:"index"`
	DeliveryMethod   int
	DeliveryAddress  string
	TotalAmountCents int64
	ShipmentID       *uuid.UUID `gorm:"type:uuid;index"`
	StockReserved    bool
	Items            []ItemDTO  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one ordered line. Lines are written once at order
// creation and never updated.
type ItemDTO struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	ProductID      uuid.UUID `gorm:"type:uuid"`
	Quantity       int
	UnitPriceCents int64
}

// TableName specifies the database table name for order lines.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var shipmentID *uuid.UUID
	if id := aggregate.Shipment(); id != nil {
		raw := id.Bytes()
		shipmentID = &raw
	}

	items := aggregate.Items()
	itemDTOs := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		itemDTOs = append(itemDTOs, ItemDTO{
			OrderID:        aggregate.ID().Bytes(),
			ProductID:      item.ProductID().Bytes(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().Cents(),
		})
	}

	return OrderDTO{
		ID:               aggregate.ID().Bytes(),
		Status:           int(aggregate.Status()),
		DeliveryMethod:   int(aggregate.DeliveryMethod()),
		DeliveryAddress:  aggregate.DeliveryAddress(),
		TotalAmountCents: aggregate.TotalAmount().Cents(),
		ShipmentID:       shipmentID,
		StockReserved:    aggregate.StockReserved(),
		Items:            itemDTOs,
	}
}

// toDomain converts a database DTO to an order domain aggregate using
// RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var shipmentID *kernel.UUID
	if dto.ShipmentID != nil {
		sID, shipmentErr := kernel.UUIDFromBytes((*dto.ShipmentID)[:])
		if shipmentErr != nil {
			return nil, shipmentErr
		}

		shipmentID = &sID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	totalAmount, err := kernel.NewMoney(dto.TotalAmountCents)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		order.Status(dto.Status),
		items,
		order.DeliveryMethod(dto.DeliveryMethod),
		dto.DeliveryAddress,
		totalAmount,
		shipmentID,
		dto.StockReserved,
	)
}

func itemToDomain(dto ItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}

	unitPrice, err := kernel.NewMoney(dto.UnitPriceCents)
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(productID, dto.Quantity, unitPrice)
}
