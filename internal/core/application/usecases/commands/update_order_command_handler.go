package commands

import (
	"context"
	"time"

	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/domain/services"
	"pedidos/internal/core/ports"
)

// UpdateOrderCommandHandler handles order edits. The editing gate is
// enforced through the transition policy: only Borrador and En Revisión
// orders accept changes.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.TransitionPolicy
	feed       ports.ChangeFeedPublisher
}

// NewUpdateOrderCommandHandler creates a handler for order edits.
func NewUpdateOrderCommandHandler(uowFactory OrderUoWFactory, feed ports.ChangeFeedPublisher) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewTransitionPolicy(),
		feed:       feed,
	}
}

// Handle processes the order edit command. Header and items are replaced
// wholesale and the edit is recorded in the order log.
func (h UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) error {
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
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	actor, err := uow.UserRepository().Get(ctx, cmd.ActorID())
	if err != nil {
		return err
	}

	if err = h.policy.ValidateEdit(aggregate); err != nil {
		return err
	}

	if err = aggregate.ApplyEdit(cmd.Header(), cmd.Items()); err != nil {
		return err
	}

	entry, err := order.NewLogEntry("Pedido actualizado", actor.Name())
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
