package commands

import (
	"context"
	"time"

	"pedidos/internal/core/domain/model/city"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/domain/services"
	"pedidos/internal/core/ports"
)

// ChangeOrderStatusCommandHandler handles workflow moves. The actor's
// access level is derived from their role and city assignments, the
// transition policy decides whether the move is allowed, and the status
// change plus its log entry are written in one transaction.
//
// Example:
//
//	handler := NewChangeOrderStatusCommandHandler(uowFactory, feed)
//	cmd, _ := NewChangeOrderStatusCommand(orderID, actorID, order.Cancelled, "cliente canceló")
//	err := handler.Handle(ctx, cmd)
//	var denied *errs.TransitionDeniedError
//	if errors.As(err, &denied) {
//	    // surface denied.Detail to the user
//	}
type ChangeOrderStatusCommandHandler struct {
	uowFactory WorkflowUoWFactory
	policy     services.TransitionPolicy
	feed       ports.ChangeFeedPublisher
}

// NewChangeOrderStatusCommandHandler creates a handler for status changes.
func NewChangeOrderStatusCommandHandler(uowFactory WorkflowUoWFactory, feed ports.ChangeFeedPublisher) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewTransitionPolicy(),
		feed:       feed,
	}
}

// Handle processes the status change command. Requesting the status the
// order already has is a no-op: nothing is written and no event published.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
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

	cities, err := uow.CityRepository().GetAll(ctx)
	if err != nil {
		return err
	}

	level := services.AccessFor(actor, city.PrincipalIDs(cities))
	decision, err := h.policy.Decide(aggregate, level, cmd.Target(), cmd.Reason())
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
