package commands_test

import (
	"context"
	"testing"
	"time"

	"pedidos/internal/core/application/usecases/commands"
	"pedidos/internal/core/domain/model/catalog"
	"pedidos/internal/core/domain/model/city"
	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/domain/model/user"
	"pedidos/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Shared testify mocks for the command handler tests. All handlers run
// against the same repository surface, so the mocks live in one place.

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.OrderID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetPage(ctx context.Context, page, pageSize int) ([]*order.Order, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) NextID(ctx context.Context) (kernel.OrderID, error) {
	args := m.Called(ctx)
	return args.Get(0).(kernel.OrderID), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetAllActiveDelivery(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

type MockCityRepository struct{ mock.Mock }

func (m *MockCityRepository) GetAll(ctx context.Context) ([]city.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]city.City), args.Error(1)
}

type MockCatalogRepository struct{ mock.Mock }

func (m *MockCatalogRepository) Exists(ctx context.Context, kind catalog.Kind, id string) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) HasOrderReferences(ctx context.Context, kind catalog.Kind, id string) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogRepository) Remove(ctx context.Context, kind catalog.Kind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

type MockWorkflowUoW struct{ mock.Mock }

func (m *MockWorkflowUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkflowUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkflowUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkflowUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockWorkflowUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

func (m *MockWorkflowUoW) CityRepository() ports.CityRepository {
	args := m.Called()
	return args.Get(0).(ports.CityRepository)
}

type MockWorkflowUoWFactory struct{ mock.Mock }

func (m *MockWorkflowUoWFactory) Create() commands.WorkflowUoW {
	args := m.Called()
	return args.Get(0).(commands.WorkflowUoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCatalogUoW struct{ mock.Mock }

func (m *MockCatalogUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogUoW) CatalogRepository() ports.CatalogRepository {
	args := m.Called()
	return args.Get(0).(ports.CatalogRepository)
}

type MockCatalogUoWFactory struct{ mock.Mock }

func (m *MockCatalogUoWFactory) Create() commands.CatalogUoW {
	args := m.Called()
	return args.Get(0).(commands.CatalogUoW)
}

type MockChangeFeed struct{ mock.Mock }

func (m *MockChangeFeed) Publish(ctx context.Context, change ports.OrderChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

// Test data builders.

func testHeader() order.Header {
	return order.Header{
		ClientName:      "La Colonia",
		ClientTaxID:     "0501-1990-12345",
		ClientPhone:     "9999-0000",
		OrderTypeName:   "Venta",
		DestinationName: "Tegucigalpa",
		CityID:          "c1",
		CityName:        "San Pedro Sula",
		WarehouseID:     "w1",
		WarehouseName:   "Bodega Central",
	}
}

func testItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem("p1", "Fresa", "pr1", "Libra", 3)
	require.NoError(t, err)
	return []order.Item{item}
}

func testUser(t *testing.T, role user.Role, cities ...string) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), "Carlos", "carlos", role, cities, nil, true)
	require.NoError(t, err)
	return u
}

func storedOrder(t *testing.T, status order.Status, deliveryID *kernel.UUID) *order.Order {
	t.Helper()
	id, err := kernel.NewOrderID(42)
	require.NoError(t, err)
	o, err := order.RestoreOrder(
		id, kernel.NewUUID(), "Carlos", "San Pedro Sula",
		testHeader(), status, deliveryID, testItems(t), nil, nil,
		time.Now(), time.Now(),
	)
	require.NoError(t, err)
	return o
}
