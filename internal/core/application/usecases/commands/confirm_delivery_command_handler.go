package commands

import (
	"context"
	"time"

	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/domain/services"
	"pedidos/internal/core/ports"
)

// ConfirmDeliveryCommandHandler handles delivery confirmations. Only the
// assigned driver of a dispatched order may confirm; the transition policy
// enforces that rule.
type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     services.TransitionPolicy
	feed       ports.ChangeFeedPublisher
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmations.
func NewConfirmDeliveryCommandHandler(uowFactory OrderUoWFactory, feed ports.ChangeFeedPublisher) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewTransitionPolicy(),
		feed:       feed,
	}
}

// Handle processes the confirmation command. Confirming an order that is
// already Entregado is a no-op.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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

	decision, err := h.policy.ConfirmDelivery(aggregate, actor)
	if err != nil {
		return err
	}
	if decision.NoOp {
		return nil
	}

	prev := aggregate.Status()
	if err = aggregate.ChangeStatus(decision.Target); err != nil {
		return err
	}

	entry, err := order.NewLogEntry(decision.LogMessage, actor.Name())
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
			PrevStatus: prev,
			NewStatus:  aggregate.Status(),
			DeliveryID: aggregate.DeliveryID(),
			OccurredAt: time.Now(),
		})
	}

	return nil
}
