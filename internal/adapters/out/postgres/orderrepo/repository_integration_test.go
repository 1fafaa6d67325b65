package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"pedidos/internal/adapters/out/postgres/orderrepo"
	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id string, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite exercises GormOrderRepository against
// a real PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderLogDTO{},
		&orderrepo.OrderCommentDTO{},
	))
	suite.Require().NoError(db.Exec("CREATE SEQUENCE IF NOT EXISTS order_number_seq").Error)
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_logs, order_comments").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(number int) *order.Order {
	id, err := kernel.NewOrderID(number)
	suite.Require().NoError(err)

	item, err := order.NewItem("p1", "Fresa", "pr1", "Libra", 3)
	suite.Require().NoError(err)

	header := order.Header{
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

	o, err := order.NewOrder(id, kernel.NewUUID(), "Carlos", "San Pedro Sula", header, []order.Item{item}, order.Sent)
	suite.Require().NoError(err)

	entry, err := order.NewLogEntry("Pedido creado", "Carlos")
	suite.Require().NoError(err)
	o.AppendLog(entry)

	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(1)

	comment, err := order.NewComment(testOrder.ID(), kernel.NewUUID(), "Ana", "revisar cantidades")
	suite.Require().NoError(err)
	testOrder.AddComment(comment)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(loaded.ID().IsEqual(testOrder.ID()))
	suite.Equal(order.Sent, loaded.Status())
	suite.Equal("La Colonia", loaded.Header().ClientName)
	suite.Equal("Carlos", loaded.SellerName())
	suite.Require().Len(loaded.Items(), 1)
	suite.Equal("Fresa", loaded.Items()[0].ProductName)
	suite.Require().Len(loaded.Logs(), 1)
	suite.Equal("Pedido creado", loaded.Logs()[0].Message)
	suite.Require().Len(loaded.Comments(), 1)
	suite.Equal("revisar cantidades", loaded.Comments()[0].Content)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	id, err := kernel.NewOrderID(999)
	suite.Require().NoError(err)

	_, err = suite.repository.Get(ctx, id)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ReplacesItemsWholesale() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(2)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	newItem, err := order.NewItem("p2", "Mora", "pr2", "Caja", 5)
	suite.Require().NoError(err)
	header := testOrder.Header()
	header.ClientName = "Supermercado Paiz"
	suite.Require().NoError(testOrder.ApplyEdit(header, []order.Item{newItem}))

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal("Supermercado Paiz", loaded.Header().ClientName)
	suite.Require().Len(loaded.Items(), 1)
	suite.Equal("Mora", loaded.Items()[0].ProductName)

	var itemCount int64
	suite.Require().NoError(suite.db.Table("order_items").Count(&itemCount).Error)
	suite.EqualValues(1, itemCount, "no residual lines from the previous item set")
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsStatusAndAssignment() {
	ctx := context.Background()
	testOrder := suite.createTestOrder(3)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	driverID := kernel.NewUUID()
	suite.Require().NoError(testOrder.ChangeStatus(order.Review))
	suite.Require().NoError(testOrder.AssignDelivery(driverID))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	loaded, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Review, loaded.Status())
	suite.Require().True(loaded.HasDelivery())
	suite.True(loaded.DeliveryID().IsEqual(driverID))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()
	missing := suite.createTestOrder(404)

	err := suite.repository.Update(ctx, missing)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestNextID_Monotonic() {
	ctx := context.Background()

	first, err := suite.repository.NextID(ctx)
	suite.Require().NoError(err)
	second, err := suite.repository.NextID(ctx)
	suite.Require().NoError(err)

	suite.Equal(first.Number()+1, second.Number())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetPage_NewestFirst() {
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder(i)))
	}

	page, err := suite.repository.GetPage(ctx, 0, 2)
	suite.Require().NoError(err)
	suite.Require().Len(page, 2)
	suite.Equal(3, page[0].ID().Number())
	suite.Equal(2, page[1].ID().Number())

	rest, err := suite.repository.GetPage(ctx, 1, 2)
	suite.Require().NoError(err)
	suite.Require().Len(rest, 1)
	suite.Equal(1, rest[0].ID().Number())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
