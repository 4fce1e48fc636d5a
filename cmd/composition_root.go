package cmd

import (
	"log/slog"

	"backoffice/internal/adapters/out/dedup"
	"backoffice/internal/adapters/out/notify"
	"backoffice/internal/adapters/out/payments"
	"backoffice/internal/adapters/out/postgres"
	"backoffice/internal/adapters/out/routing"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/application/workflows"
	"backoffice/internal/core/domain/services"
	"backoffice/internal/core/ports"
	"backoffice/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. All dependency
// decisions live here; nothing below this layer knows a concrete adapter.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	lifecycle  services.OrderLifecycleService
	gateway    ports.PaymentGateway
	routing    ports.RoutingService
	notifier   *notify.KafkaNotifier
	dedup      ports.EventDeduplicator
	hook       commands.StatusChangeHook
	logger     *slog.Logger
}

// NewCompositionRoot builds the object graph from the loaded configuration
// and the shared infrastructure clients.
func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) CompositionRoot {
	root := CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		lifecycle:  services.NewOrderLifecycleService(),
		gateway:    payments.NewRestPaymentGateway(config.PaymentAPIBaseURL, config.PaymentAPIToken),
		routing:    routing.NewRestRoutingService(config.RoutingAPIBaseURL, config.RoutingAPIKey),
		notifier:   notify.NewKafkaNotifier([]string{config.KafkaHost}, config.NotificationsTopic),
		dedup:      dedup.NewRedisEventDeduplicator(redisClient, config.WebhookDedupTTL),
		logger:     logger,
	}

	root.hook = workflows.NewStatusChangeWorkflow(
		FuncWorkflowOrderUoWFactory(func() workflows.OrderUoW {
			return root.uowFactory.Create()
		}),
		root.notifier,
		logger,
		config.WorkflowRetryDelay,
	)

	return root
}

// Close releases the resources owned by the composition root.
func (c *CompositionRoot) Close() error {
	return c.notifier.Close()
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.OrderStockUoWFactory = FuncOrderStockUoWFactory(func() commands.OrderStockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.lifecycle, c.hook)
}

func (c *CompositionRoot) CreateTransitionOrdersCommandHandler() commands.TransitionOrdersCommandHandler {
	var f commands.OrderStockUoWFactory = FuncOrderStockUoWFactory(func() commands.OrderStockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrdersCommandHandler(f, c.lifecycle, c.hook)
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateShipmentCommandHandler(f, c.lifecycle, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateSendShipmentCommandHandler() commands.SendShipmentCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSendShipmentCommandHandler(f, c.routing, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateFinishShipmentCommandHandler() commands.FinishShipmentCommandHandler {
	var f commands.ShipmentUoWFactory = FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
	return commands.NewFinishShipmentCommandHandler(f, c.lifecycle, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateReceiveStockCommandHandler() commands.ReceiveStockCommandHandler {
	var f commands.StockUoWFactory = FuncStockUoWFactory(func() commands.StockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReceiveStockCommandHandler(f)
}

func (c *CompositionRoot) CreateProcessPaymentWebhookCommandHandler() commands.ProcessPaymentWebhookCommandHandler {
	var f commands.WebhookUoWFactory = FuncWebhookUoWFactory(func() commands.WebhookUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessPaymentWebhookCommandHandler(f, c.gateway, c.dedup, c.lifecycle, c.hook, c.logger)
}

func (c *CompositionRoot) CreateGetShippableOrdersQueryHandler() queries.GetShippableOrdersQueryHandler {
	return queries.NewGetShippableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStockChangesQueryHandler() queries.GetStockChangesQueryHandler {
	return queries.NewGetStockChangesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.gormDB,
		c.CreateProcessPaymentWebhookCommandHandler(),
		c.config.ReconcileThreshold,
		c.logger,
	)
}

type FuncStockUoWFactory func() commands.StockUoW

func (f FuncStockUoWFactory) Create() commands.StockUoW {
	return f()
}

type FuncOrderStockUoWFactory func() commands.OrderStockUoW

func (f FuncOrderStockUoWFactory) Create() commands.OrderStockUoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncWebhookUoWFactory func() commands.WebhookUoW

func (f FuncWebhookUoWFactory) Create() commands.WebhookUoW {
	return f()
}

type FuncWorkflowOrderUoWFactory func() workflows.OrderUoW

func (f FuncWorkflowOrderUoWFactory) Create() workflows.OrderUoW {
	return f()
}
