package commands

import (
	"context"

	"pedidos/internal/core/domain/model/order"
)

// AddCommentCommandHandler handles order comments. Comments do not alter
// the workflow state, so no change feed event is published.
type AddCommentCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAddCommentCommandHandler creates a handler for order comments.
func NewAddCommentCommandHandler(uowFactory OrderUoWFactory) AddCommentCommandHandler {
	return AddCommentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the comment command.
func (h AddCommentCommandHandler) Handle(ctx context.Context, cmd AddCommentCommand) error {
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

	author, err := uow.UserRepository().Get(ctx, cmd.AuthorID())
	if err != nil {
		return err
	}

	comment, err := order.NewComment(aggregate.ID(), author.ID(), author.Name(), cmd.Content())
	if err != nil {
		return err
	}
	aggregate.AddComment(comment)

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
