package commands_test

import (
	"errors"
	"testing"

	"pedidos/internal/core/application/usecases/commands"
	"pedidos/internal/core/domain/model/city"
	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/domain/model/user"
	"pedidos/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	seller, err := user.NewUser(kernel.NewUUID(), "Carlos", "carlos", user.Seller, []string{"c1"}, nil, true)
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(seller.ID(), testHeader(), testItems(t), false)
	require.NoError(t, err)

	nextID, err := kernel.NewOrderID(7)
	require.NoError(t, err)

	cities := []city.City{
		{ID: "c1", Name: "San Pedro Sula"},
		{ID: "c4", Name: "Tegucigalpa", IsPrincipal: true},
	}

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	cityRepo := new(MockCityRepository)
	uow := new(MockWorkflowUoW)
	feed := new(MockChangeFeed)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(userRepo).Once(),
		userRepo.On("Get", ctx, seller.ID()).Return(seller, nil).Once(),
		uow.On("CityRepository").Return(cityRepo).Once(),
		cityRepo.On("GetAll", ctx).Return(cities, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("NextID", ctx).Return(nextID, nil).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		feed.On("Publish", ctx, mock.AnythingOfType("ports.OrderChange")).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, feed)
	orderID, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "ORD-007", orderID.String())

	added := orderRepo.Calls[1].Arguments[1].(*order.Order)
	assert.Equal(t, order.Sent, added.Status())
	assert.Equal(t, "Carlos", added.SellerName())
	assert.Equal(t, "San Pedro Sula", added.OriginCityName())
	require.Len(t, added.Logs(), 1)
	assert.Equal(t, "Pedido creado", added.Logs()[0].Message)

	published := feed.Calls[0].Arguments[1].(ports.OrderChange)
	assert.Equal(t, ports.OrderInserted, published.Kind)
	assert.Equal(t, order.Sent, published.NewStatus)
	assert.Equal(t, "La Colonia", published.ClientName)

	orderRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
	cityRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	feed.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AsDraft(t *testing.T) {
	ctx := t.Context()

	// No city assignment: origin falls back to the header city.
	seller, err := user.NewUser(kernel.NewUUID(), "Carlos", "carlos", user.Seller, nil, nil, true)
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(seller.ID(), testHeader(), testItems(t), true)
	require.NoError(t, err)

	nextID, err := kernel.NewOrderID(8)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	uow := new(MockWorkflowUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(userRepo).Once(),
		userRepo.On("Get", ctx, seller.ID()).Return(seller, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("NextID", ctx).Return(nextID, nil).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, nil)
	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	added := orderRepo.Calls[1].Arguments[1].(*order.Order)
	assert.Equal(t, order.Draft, added.Status())
	assert.Equal(t, "San Pedro Sula", added.OriginCityName())
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly

	factory := new(MockWorkflowUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, nil)
	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_NextIDError(t *testing.T) {
	ctx := t.Context()

	seller, err := user.NewUser(kernel.NewUUID(), "Carlos", "carlos", user.Seller, nil, nil, true)
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(seller.ID(), testHeader(), testItems(t), false)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	uow := new(MockWorkflowUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(userRepo).Once(),
		userRepo.On("Get", ctx, seller.ID()).Return(seller, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("NextID", ctx).Return(kernel.OrderID{}, errors.New("sequence error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, nil)
	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "sequence error")
	orderRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_PublishFailureDoesNotFail(t *testing.T) {
	ctx := t.Context()

	seller, err := user.NewUser(kernel.NewUUID(), "Carlos", "carlos", user.Seller, nil, nil, true)
	require.NoError(t, err)
	cmd, err := commands.NewCreateOrderCommand(seller.ID(), testHeader(), testItems(t), false)
	require.NoError(t, err)

	nextID, err := kernel.NewOrderID(9)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	uow := new(MockWorkflowUoW)
	feed := new(MockChangeFeed)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(userRepo).Once(),
		userRepo.On("Get", ctx, seller.ID()).Return(seller, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("NextID", ctx).Return(nextID, nil).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		feed.On("Publish", ctx, mock.AnythingOfType("ports.OrderChange")).
			Return(errors.New("feed down")).
			Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockWorkflowUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, feed)
	_, err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	feed.AssertExpectations(t)
}
