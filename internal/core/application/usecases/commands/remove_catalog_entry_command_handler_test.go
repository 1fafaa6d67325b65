package commands_test

import (
	"testing"

	"pedidos/internal/core/application/usecases/commands"
	"pedidos/internal/core/domain/model/catalog"
	"pedidos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRemoveCatalogEntryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewRemoveCatalogEntryCommand(catalog.KindProduct, "p1")
	require.NoError(t, err)

	catalogRepo := new(MockCatalogRepository)
	uow := new(MockCatalogUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CatalogRepository").Return(catalogRepo).Once(),
		catalogRepo.On("Exists", ctx, catalog.KindProduct, "p1").Return(true, nil).Once(),
		catalogRepo.On("HasOrderReferences", ctx, catalog.KindProduct, "p1").Return(false, nil).Once(),
		catalogRepo.On("Remove", ctx, catalog.KindProduct, "p1").Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCatalogUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRemoveCatalogEntryCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	catalogRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRemoveCatalogEntryCommandHandler_Handle_Referenced(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewRemoveCatalogEntryCommand(catalog.KindPresentation, "pr1")
	require.NoError(t, err)

	catalogRepo := new(MockCatalogRepository)
	uow := new(MockCatalogUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CatalogRepository").Return(catalogRepo).Once(),
		catalogRepo.On("Exists", ctx, catalog.KindPresentation, "pr1").Return(true, nil).Once(),
		catalogRepo.On("HasOrderReferences", ctx, catalog.KindPresentation, "pr1").Return(true, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCatalogUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRemoveCatalogEntryCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrReferentialConflict)
	catalogRepo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveCatalogEntryCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewRemoveCatalogEntryCommand(catalog.KindDestination, "d9")
	require.NoError(t, err)

	catalogRepo := new(MockCatalogRepository)
	uow := new(MockCatalogUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CatalogRepository").Return(catalogRepo).Once(),
		catalogRepo.On("Exists", ctx, catalog.KindDestination, "d9").Return(false, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCatalogUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRemoveCatalogEntryCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestNewRemoveCatalogEntryCommand_EmptyID(t *testing.T) {
	_, err := commands.NewRemoveCatalogEntryCommand(catalog.KindProduct, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrEntryIDIsRequired)
}
