package commands_test

import (
	"testing"

	"pedidos/internal/core/application/usecases/commands"
	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/domain/model/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddCommentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	stored := storedOrder(t, order.Production, nil)
	author := testUser(t, user.Warehouse, "c1")
	cmd, err := commands.NewAddCommentCommand(stored.ID(), author.ID(), "Faltan dos cajas")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	uow := new(MockOrderUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, stored.ID()).Return(stored, nil).Once(),
		uow.On("UserRepository").Return(userRepo).Once(),
		userRepo.On("Get", ctx, author.ID()).Return(author, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAddCommentCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, stored.Comments(), 1)
	assert.Equal(t, "Faltan dos cajas", stored.Comments()[0].Content)
	assert.Equal(t, "Carlos", stored.Comments()[0].UserName)
}

func TestNewAddCommentCommand_BlankContent(t *testing.T) {
	_, err := commands.NewAddCommentCommand(mustOrderID(t), kernel.NewUUID(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCommentContentIsRequired)
}

func mustOrderID(t *testing.T) kernel.OrderID {
	t.Helper()
	id, err := kernel.NewOrderID(1)
	require.NoError(t, err)
	return id
}
