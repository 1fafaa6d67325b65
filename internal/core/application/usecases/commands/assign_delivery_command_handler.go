package commands

import (
	"context"
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/domain/services"
	"pedidos/internal/core/ports"
)

// AssignDeliveryCommandHandler handles delivery assignments. The candidate
// is checked against the assignment guard (active Repartidor, available on
// the assignment date) before the order is updated.
type AssignDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	assignment services.AssignmentGuard
	feed       ports.ChangeFeedPublisher
}

// NewAssignDeliveryCommandHandler creates a handler for delivery assignments.
func NewAssignDeliveryCommandHandler(uowFactory OrderUoWFactory, feed ports.ChangeFeedPublisher) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		uowFactory: uowFactory,
		assignment: services.NewAssignmentGuard(),
		feed:       feed,
	}
}

// Handle processes the assignment command. The guard uses the current date;
// a driver listed as unavailable today is refused with DriverUnavailableError.
func (h AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	userRepo := uow.UserRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	actor, err := userRepo.Get(ctx, cmd.ActorID())
	if err != nil {
		return err
	}

	driver, err := userRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = h.assignment.Check(driver, kernel.Today()); err != nil {
		return err
	}

	if err = aggregate.AssignDelivery(driver.ID()); err != nil {
		return err
	}

	entry, err := order.NewLogEntry("Repartidor asignado", actor.Name())
	if err != nil {
		return err
	}
	aggregate.AppendLog(entry)

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if h.feed != nil {
		_ = h.feed.Publish(ctx, ports.OrderChange{
			Kind:       ports.OrderUpdated,
			OrderID:    aggregate.ID(),
			SellerID:   aggregate.SellerID(),
			CityID:     aggregate.Header().CityID,
			ClientName: aggregate.Header().ClientName,
			PrevStatus: aggregate.Status(),
			NewStatus:  aggregate.Status(),
			DeliveryID: aggregate.DeliveryID(),
			OccurredAt: time.Now(),
		})
	}

	return nil
}
