package cmd

import (
	"log/slog"

	httpin "pedidos/internal/adapters/in/http"
	"pedidos/internal/adapters/out/postgres"
	"pedidos/internal/adapters/out/postgres/orderrepo"
	"pedidos/internal/adapters/out/postgres/userrepo"
	"pedidos/internal/adapters/out/redisfeed"
	"pedidos/internal/core/application/ordersync"
	"pedidos/internal/core/application/usecases/commands"
	"pedidos/internal/core/application/usecases/queries"
	"pedidos/internal/core/ports"
	"pedidos/internal/jobs"
	"pedidos/internal/notifications"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	feed       *redisfeed.Feed
	collection *ordersync.Collection
	dispatcher *notifications.Dispatcher
	logger     *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, feed *redisfeed.Feed, logger *slog.Logger) CompositionRoot {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)

	// The collection only reads, so it needs no change tracking.
	orderRepo := orderrepo.NewGormOrderRepository(gormDB, noopTracker{})
	collection := ordersync.New(orderRepo, feed, logger)

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *uowFactory,
		feed:       feed,
		collection: collection,
		dispatcher: notifications.NewDispatcher(feed, logger),
		logger:     logger,
	}
}

// Collection returns the live order collection backing the stream endpoint
// and the resync job.
func (c *CompositionRoot) Collection() *ordersync.Collection {
	return c.collection
}

// Dispatcher returns the notification dispatcher feeding per-viewer alert
// streams.
func (c *CompositionRoot) Dispatcher() *notifications.Dispatcher {
	return c.dispatcher
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.WorkflowUoWFactory = FuncWorkflowUoWFactory(func() commands.WorkflowUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.feed)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderCommandHandler(f, c.feed)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.WorkflowUoWFactory = FuncWorkflowUoWFactory(func() commands.WorkflowUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.feed)
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDeliveryCommandHandler(f, c.feed)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmDeliveryCommandHandler(f, c.feed)
}

func (c *CompositionRoot) CreateAddCommentCommandHandler() commands.AddCommentCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAddCommentCommandHandler(f)
}

func (c *CompositionRoot) CreateRemoveCatalogEntryCommandHandler() commands.RemoveCatalogEntryCommandHandler {
	var f commands.CatalogUoWFactory = FuncCatalogUoWFactory(func() commands.CatalogUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRemoveCatalogEntryCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrdersPageQueryHandler() queries.GetOrdersPageQueryHandler {
	return queries.NewGetOrdersPageQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetConsolidatedItemsQueryHandler() queries.GetConsolidatedItemsQueryHandler {
	return queries.NewGetConsolidatedItemsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateAssignDeliveryCommandHandler(),
		c.CreateConfirmDeliveryCommandHandler(),
		c.CreateAddCommentCommandHandler(),
		c.CreateRemoveCatalogEntryCommandHandler(),
		c.CreateGetOrdersPageQueryHandler(),
		c.CreateGetConsolidatedItemsQueryHandler(),
		c.collection,
		c.dispatcher,
		userrepo.NewGormUserRepository(c.gormDB),
	)
}

func (c *CompositionRoot) CreateJobManager(config Config) *jobs.JobManager {
	return jobs.NewJobManager(c.collection, config.ResyncSpec, c.logger)
}

var _ ports.ChangeFeedPublisher = (*redisfeed.Feed)(nil)

type noopTracker struct{}

func (noopTracker) TrackAggregate(string, any) {}

type FuncWorkflowUoWFactory func() commands.WorkflowUoW

func (f FuncWorkflowUoWFactory) Create() commands.WorkflowUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCatalogUoWFactory func() commands.CatalogUoW

func (f FuncCatalogUoWFactory) Create() commands.CatalogUoW {
	return f()
}
