package commands

import (
	"context"

	"pedidos/internal/pkg/errs"
)

// RemoveCatalogEntryCommandHandler handles catalog deletions. An entry
// referenced by any stored order is refused with ReferentialConflictError
// so administrators delete or rework the orders first.
type RemoveCatalogEntryCommandHandler struct {
	uowFactory CatalogUoWFactory
}

// NewRemoveCatalogEntryCommandHandler creates a handler for catalog deletions.
func NewRemoveCatalogEntryCommandHandler(uowFactory CatalogUoWFactory) RemoveCatalogEntryCommandHandler {
	return RemoveCatalogEntryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the catalog deletion command.
func (h RemoveCatalogEntryCommandHandler) Handle(ctx context.Context, cmd RemoveCatalogEntryCommand) error {
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

	catalogRepo := uow.CatalogRepository()

	exists, err := catalogRepo.Exists(ctx, cmd.Kind(), cmd.EntryID())
	if err != nil {
		return err
	}
	if !exists {
		return errs.NewObjectNotFoundError(cmd.Kind().String(), cmd.EntryID())
	}

	referenced, err := catalogRepo.HasOrderReferences(ctx, cmd.Kind(), cmd.EntryID())
	if err != nil {
		return err
	}
	if referenced {
		return errs.NewReferentialConflictError(cmd.Kind().String(), cmd.EntryID())
	}

	if err = catalogRepo.Remove(ctx, cmd.Kind(), cmd.EntryID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
