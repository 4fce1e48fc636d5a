// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"backoffice/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest composition it actually needs, so the
// compiler documents which aggregates a command can touch.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// StockRepoFactory provides access to the stock repository within a transaction.
	StockRepoFactory interface {
		StockRepository() ports.StockRepository
	}

	// ShipmentRepoFactory provides access to the shipment repository within a transaction.
	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	// VehicleRepoFactory provides access to the vehicle repository within a transaction.
	VehicleRepoFactory interface {
		VehicleRepository() ports.VehicleRepository
	}

	// PaymentRepoFactory provides access to the payment repository within a transaction.
	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	// StockUoW manages transactions for ledger-only operations such as
	// booking an inbound supplier delivery.
	StockUoW interface {
		TxManager
		StockRepoFactory
	}

	// StockUoWFactory creates new stock unit of work instances.
	StockUoWFactory interface {
		Create() StockUoW
	}

	// OrderStockUoW manages transactions for status transitions: the order
	// aggregate and the stock records it adjusts always commit together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   stockRepo := uow.StockRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	OrderStockUoW interface {
		TxManager
		OrderRepoFactory
		StockRepoFactory
	}

	// OrderStockUoWFactory creates new order/stock unit of work instances.
	OrderStockUoWFactory interface {
		Create() OrderStockUoW
	}

	// ShipmentUoW manages transactions for the shipment workflow, which
	// coordinates orders, stock, the shipment itself, and its vehicle.
	ShipmentUoW interface {
		TxManager
		OrderRepoFactory
		StockRepoFactory
		ShipmentRepoFactory
		VehicleRepoFactory
	}

	// ShipmentUoWFactory creates new shipment unit of work instances.
	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// WebhookUoW manages transactions for payment webhook processing: the
	// payment record upsert and the resulting order transition commit
	// atomically.
	WebhookUoW interface {
		TxManager
		OrderRepoFactory
		StockRepoFactory
		PaymentRepoFactory
	}

	// WebhookUoWFactory creates new webhook unit of work instances.
	WebhookUoWFactory interface {
		Create() WebhookUoW
	}
)
