package ordersync_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pedidos/internal/core/application/ordersync"
	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/ports"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
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

type fakeFeed struct {
	changes chan ports.OrderChange
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{changes: make(chan ports.OrderChange, 8)}
}

func (f *fakeFeed) Subscribe(_ context.Context) (<-chan ports.OrderChange, error) {
	return f.changes, nil
}

func storedOrder(t *testing.T, number int, status order.Status) *order.Order {
	t.Helper()

	id, err := kernel.NewOrderID(number)
	require.NoError(t, err)
	sellerID := kernel.NewUUID()

	header := order.Header{
		ClientName:    "La Colonia",
		OrderTypeName: "Contado",
		CityID:        "c1",
		CityName:      "San Pedro Sula",
		WarehouseID:   "w1",
		WarehouseName: "Bodega Central",
	}
	item, err := order.NewItem("p1", "Fresa", "pr1", "Libra", 3)
	require.NoError(t, err)

	aggregate, err := order.RestoreOrder(
		id, sellerID, "Carlos", "San Pedro Sula", header, status, nil,
		[]order.Item{item}, nil, nil,
		time.Now().Add(-time.Duration(number)*time.Minute), time.Now(),
	)
	require.NoError(t, err)
	return aggregate
}

func startCollection(t *testing.T, repo *MockOrderRepository, feed *fakeFeed) *ordersync.Collection {
	t.Helper()

	collection := ordersync.New(repo, feed, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = collection.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return collection
}

func Test_Collection_InitialLoad(t *testing.T) {
	repo := &MockOrderRepository{}
	repo.On("GetPage", mock.Anything, 0, 50).
		Return([]*order.Order{storedOrder(t, 3, order.Sent), storedOrder(t, 2, order.Review)}, nil).Once()

	collection := startCollection(t, repo, newFakeFeed())

	views, hasMore := collection.Snapshot()
	require.Len(t, views, 2)
	assert.Equal(t, "ORD-003", views[0].ID.String())
	assert.Equal(t, "ORD-002", views[1].ID.String())
	assert.Equal(t, "La Colonia", views[0].ClientName)
	assert.False(t, hasMore)
	repo.AssertExpectations(t)
}

func Test_Collection_InsertPrependsFullOrder(t *testing.T) {
	repo := &MockOrderRepository{}
	repo.On("GetPage", mock.Anything, 0, 50).
		Return([]*order.Order{storedOrder(t, 2, order.Sent)}, nil).Once()

	inserted := storedOrder(t, 9, order.Sent)
	repo.On("Get", mock.Anything, inserted.ID()).Return(inserted, nil).Once()

	feed := newFakeFeed()
	collection := startCollection(t, repo, feed)

	events, unsubscribe := collection.Subscribe()
	defer unsubscribe()

	feed.changes <- ports.OrderChange{
		Kind:       ports.OrderInserted,
		OrderID:    inserted.ID(),
		SellerID:   inserted.SellerID(),
		CityID:     "c1",
		ClientName: "La Colonia",
		NewStatus:  order.Sent,
		OccurredAt: time.Now(),
	}

	event := waitForEvent(t, events)
	assert.Equal(t, ordersync.EventInserted, event.Kind)
	assert.Equal(t, "ORD-009", event.Order.ID.String())

	views, _ := collection.Snapshot()
	require.Len(t, views, 2)
	assert.Equal(t, "ORD-009", views[0].ID.String())
	assert.Equal(t, "ORD-002", views[1].ID.String())
	repo.AssertExpectations(t)
}

func Test_Collection_InsertIgnoresKnownOrder(t *testing.T) {
	existing := storedOrder(t, 2, order.Sent)

	repo := &MockOrderRepository{}
	repo.On("GetPage", mock.Anything, 0, 50).
		Return([]*order.Order{existing}, nil).Once()

	feed := newFakeFeed()
	collection := startCollection(t, repo, feed)

	feed.changes <- ports.OrderChange{
		Kind:       ports.OrderInserted,
		OrderID:    existing.ID(),
		NewStatus:  order.Sent,
		OccurredAt: time.Now(),
	}

	assert.Eventually(t, func() bool {
		views, _ := collection.Snapshot()
		return len(views) == 1
	}, time.Second, 10*time.Millisecond)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func Test_Collection_UpdateMergesInPlace(t *testing.T) {
	existing := storedOrder(t, 2, order.Sent)
	other := storedOrder(t, 3, order.Sent)

	repo := &MockOrderRepository{}
	repo.On("GetPage", mock.Anything, 0, 50).
		Return([]*order.Order{other, existing}, nil).Once()

	feed := newFakeFeed()
	collection := startCollection(t, repo, feed)

	events, unsubscribe := collection.Subscribe()
	defer unsubscribe()

	deliveryID := kernel.NewUUID()
	occurredAt := time.Now()

	feed.changes <- ports.OrderChange{
		Kind:       ports.OrderUpdated,
		OrderID:    existing.ID(),
		PrevStatus: order.Sent,
		NewStatus:  order.Dispatch,
		DeliveryID: &deliveryID,
		OccurredAt: occurredAt,
	}

	event := waitForEvent(t, events)
	assert.Equal(t, ordersync.EventUpdated, event.Kind)

	views, _ := collection.Snapshot()
	require.Len(t, views, 2)
	assert.Equal(t, "ORD-002", views[1].ID.String())
	assert.Equal(t, order.Dispatch, views[1].Status)
	require.NotNil(t, views[1].DeliveryID)
	assert.True(t, views[1].DeliveryID.IsEqual(deliveryID))
	assert.Equal(t, order.Sent, views[0].Status)
	repo.AssertExpectations(t)
}

func Test_Collection_UpdateForUnloadedOrderIsIgnored(t *testing.T) {
	repo := &MockOrderRepository{}
	repo.On("GetPage", mock.Anything, 0, 50).
		Return([]*order.Order{storedOrder(t, 2, order.Sent)}, nil).Once()

	feed := newFakeFeed()
	collection := startCollection(t, repo, feed)

	unknownID, err := kernel.NewOrderID(77)
	require.NoError(t, err)
	feed.changes <- ports.OrderChange{
		Kind:       ports.OrderUpdated,
		OrderID:    unknownID,
		NewStatus:  order.Cancelled,
		OccurredAt: time.Now(),
	}

	assert.Eventually(t, func() bool {
		views, _ := collection.Snapshot()
		return len(views) == 1 && views[0].Status == order.Sent
	}, time.Second, 10*time.Millisecond)
}

func Test_Collection_LoadMoreFiltersDuplicates(t *testing.T) {
	firstPage := make([]*order.Order, 0, 50)
	for number := 100; number > 50; number-- {
		firstPage = append(firstPage, storedOrder(t, number, order.Sent))
	}
	// The second page overlaps the first by one order, as happens when an
	// insert shifted pagination between the two fetches.
	secondPage := []*order.Order{storedOrder(t, 51, order.Sent), storedOrder(t, 50, order.Sent)}

	repo := &MockOrderRepository{}
	repo.On("GetPage", mock.Anything, 0, 50).Return(firstPage, nil).Once()
	repo.On("GetPage", mock.Anything, 1, 50).Return(secondPage, nil).Once()

	collection := startCollection(t, repo, newFakeFeed())

	_, hasMore := collection.Snapshot()
	require.True(t, hasMore)

	require.NoError(t, collection.LoadMore(context.Background()))

	views, hasMore := collection.Snapshot()
	assert.Len(t, views, 51)
	assert.Equal(t, "ORD-050", views[50].ID.String())
	assert.False(t, hasMore)
	repo.AssertExpectations(t)
}

func Test_Collection_RefetchReloadsLoadedPages(t *testing.T) {
	repo := &MockOrderRepository{}
	repo.On("GetPage", mock.Anything, 0, 50).
		Return([]*order.Order{storedOrder(t, 2, order.Sent)}, nil).Once()
	repo.On("GetPage", mock.Anything, 0, 50).
		Return([]*order.Order{storedOrder(t, 3, order.Sent), storedOrder(t, 2, order.Production)}, nil).Once()

	collection := startCollection(t, repo, newFakeFeed())

	views, _ := collection.Snapshot()
	require.Len(t, views, 1)

	require.NoError(t, collection.Refetch(context.Background()))

	views, _ = collection.Snapshot()
	require.Len(t, views, 2)
	assert.Equal(t, "ORD-003", views[0].ID.String())
	assert.Equal(t, order.Production, views[1].Status)
	repo.AssertExpectations(t)
}

func Test_Collection_OperationsFailFastAfterStop(t *testing.T) {
	repo := &MockOrderRepository{}
	repo.On("GetPage", mock.Anything, 0, 50).
		Return([]*order.Order{storedOrder(t, 2, order.Sent)}, nil).Once()

	feed := newFakeFeed()
	collection := ordersync.New(repo, feed, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = collection.Run(ctx)
	}()

	// An SSE handler may still hold a subscription when Run exits.
	events, unsubscribe := collection.Subscribe()

	cancel()
	<-done

	// None of these may block once the loop has exited; shutdown would
	// hang on any in-flight HTTP handler or cron tick otherwise.
	finished := make(chan struct{})
	go func() {
		defer close(finished)

		views, hasMore := collection.Snapshot()
		assert.Empty(t, views)
		assert.False(t, hasMore)

		assert.ErrorIs(t, collection.LoadMore(context.Background()), ordersync.ErrStopped)
		assert.ErrorIs(t, collection.Refetch(context.Background()), ordersync.ErrStopped)

		lateEvents, lateCancel := collection.Subscribe()
		_, open := <-lateEvents
		assert.False(t, open)
		lateCancel()

		_, open = <-events
		assert.False(t, open)
		unsubscribe()
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("collection operation blocked after Run exited")
	}
}

func Test_Collection_StopsWhenFeedCloses(t *testing.T) {
	repo := &MockOrderRepository{}
	repo.On("GetPage", mock.Anything, 0, 50).
		Return([]*order.Order{}, nil).Once()

	feed := newFakeFeed()
	collection := ordersync.New(repo, feed, slog.Default())

	done := make(chan error, 1)
	go func() { done <- collection.Run(context.Background()) }()

	// Pull a snapshot first so the loop is known to be running.
	views, _ := collection.Snapshot()
	assert.Empty(t, views)

	close(feed.changes)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the feed closed")
	}

	assert.ErrorIs(t, collection.Refetch(context.Background()), ordersync.ErrStopped)
}

func waitForEvent(t *testing.T, events <-chan ordersync.Event) ordersync.Event {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for collection event")
		return ordersync.Event{}
	}
}
