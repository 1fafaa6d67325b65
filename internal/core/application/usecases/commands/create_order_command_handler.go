package commands

import (
	"context"
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/ports"
)

// CreateOrderCommandHandler handles order registration. Allocates the next
// display identifier from the store-side sequence, denormalizes the seller's
// name and city, and writes the header, items and the opening log entry in
// one transaction.
type CreateOrderCommandHandler struct {
	uowFactory WorkflowUoWFactory
	feed       ports.ChangeFeedPublisher
}

// NewCreateOrderCommandHandler creates a handler for order registration.
// feed may be nil when no change feed is wired.
func NewCreateOrderCommandHandler(uowFactory WorkflowUoWFactory, feed ports.ChangeFeedPublisher) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		feed:       feed,
	}
}

// Handle processes the order creation command and returns the identifier
// assigned to the new order. The change feed event is published only after
// the transaction commits; a failed publish does not fail the command.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.OrderID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.OrderID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.OrderID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	seller, err := uow.UserRepository().Get(ctx, cmd.SellerID())
	if err != nil {
		return kernel.OrderID{}, err
	}

	originCityName, err := h.resolveOriginCity(ctx, uow, seller.AssignedCityIDs(), cmd.Header().CityName)
	if err != nil {
		return kernel.OrderID{}, err
	}

	orderRepo := uow.OrderRepository()
	orderID, err := orderRepo.NextID(ctx)
	if err != nil {
		return kernel.OrderID{}, err
	}

	initial := order.Sent
	if cmd.AsDraft() {
		initial = order.Draft
	}

	aggregate, err := order.NewOrder(orderID, seller.ID(), seller.Name(), originCityName, cmd.Header(), cmd.Items(), initial)
	if err != nil {
		return kernel.OrderID{}, err
	}

	entry, err := order.NewLogEntry("Pedido creado", seller.Name())
	if err != nil {
		return kernel.OrderID{}, err
	}
	aggregate.AppendLog(entry)

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return kernel.OrderID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.OrderID{}, err
	}

	if h.feed != nil {
		_ = h.feed.Publish(ctx, ports.OrderChange{
			Kind:       ports.OrderInserted,
			OrderID:    aggregate.ID(),
			SellerID:   aggregate.SellerID(),
			CityID:     aggregate.Header().CityID,
			ClientName: aggregate.Header().ClientName,
			NewStatus:  aggregate.Status(),
			OccurredAt: time.Now(),
		})
	}

	return aggregate.ID(), nil
}

// resolveOriginCity maps the seller's first assigned city to its display
// name. Sellers without a city assignment fall back to the city chosen on
// the order form.
func (h CreateOrderCommandHandler) resolveOriginCity(
	ctx context.Context,
	uow WorkflowUoW,
	assignedCityIDs []string,
	fallback string,
) (string, error) {
	if len(assignedCityIDs) == 0 {
		return fallback, nil
	}

	cities, err := uow.CityRepository().GetAll(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range cities {
		if c.ID == assignedCityIDs[0] {
			return c.Name, nil
		}
	}
	return fallback, nil
}
