// Package ordersync maintains a live, ordered mirror of the order list.
// One goroutine owns the state and applies page loads and feed changes in
// arrival order, so every subscriber observes the same sequence and no
// interleaving can drop an update.
package ordersync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/core/ports"
)

// pageSize is the number of orders loaded per page.
const pageSize = 50

// ErrStopped is returned by collection operations after Run has exited.
var ErrStopped = errors.New("order collection is stopped")

// OrderView is one entry of the mirrored list: the display projection of
// an order, cheap to copy into snapshots.
type OrderView struct {
	ID             kernel.OrderID
	ClientName     string
	SellerID       kernel.UUID
	SellerName     string
	OriginCityName string
	CityID         string
	CityName       string
	WarehouseName  string
	Status         order.Status
	DeliveryID     *kernel.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EventKind classifies collection events delivered to subscribers.
type EventKind int

const (
	// EventInserted signals a new order prepended to the list.
	EventInserted EventKind = iota + 1

	// EventUpdated signals an in-place merge of status or assignment.
	EventUpdated

	// EventReset signals a full reload; subscribers re-read the snapshot.
	EventReset
)

// Event is delivered to subscribers after the collection state changed.
// For EventInserted and EventUpdated the originating change rides along so
// listeners can decide whether the viewer should be alerted.
type Event struct {
	Kind   EventKind
	Order  OrderView
	Change ports.OrderChange
}

// Collection mirrors the order list. Create with New, then call Run once;
// all other methods are safe from any goroutine.
type Collection struct {
	repo   ports.OrderRepository
	feed   ports.ChangeFeedSubscriber
	logger *slog.Logger

	ops  chan func()
	done chan struct{}

	// Owned by the Run goroutine.
	views       []OrderView
	page        int
	hasMore     bool
	subscribers map[uint64]chan Event
	nextSubID   uint64
}

// New creates a Collection over the given repository and change feed.
func New(repo ports.OrderRepository, feed ports.ChangeFeedSubscriber, logger *slog.Logger) *Collection {
	return &Collection{
		repo:        repo,
		feed:        feed,
		logger:      logger.With("component", "ordersync"),
		ops:         make(chan func()),
		done:        make(chan struct{}),
		subscribers: make(map[uint64]chan Event),
	}
}

// Run loads the first page, subscribes to the change feed and processes
// changes and operations until ctx is cancelled. Run must be called
// exactly once. After it returns, every pending and future operation
// fails fast with ErrStopped instead of blocking.
func (c *Collection) Run(ctx context.Context) error {
	defer close(c.done)

	changes, err := c.feed.Subscribe(ctx)
	if err != nil {
		return err
	}

	if err := c.reload(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			c.closeSubscribers()
			return ctx.Err()
		case op := <-c.ops:
			op()
		case change, ok := <-changes:
			if !ok {
				c.closeSubscribers()
				return nil
			}
			c.apply(ctx, change)
		}
	}
}

// Snapshot returns a copy of the current list and whether a further page
// exists. After Run has exited it returns an empty list.
func (c *Collection) Snapshot() ([]OrderView, bool) {
	type snapshot struct {
		views   []OrderView
		hasMore bool
	}
	reply := make(chan snapshot, 1)
	op := func() {
		views := make([]OrderView, len(c.views))
		copy(views, c.views)
		reply <- snapshot{views: views, hasMore: c.hasMore}
	}

	select {
	case c.ops <- op:
		s := <-reply
		return s.views, s.hasMore
	case <-c.done:
		return nil, false
	}
}

// LoadMore fetches the next page and appends it, dropping any order whose
// identifier is already present: a feed insert racing the page fetch must
// not produce a duplicate row.
func (c *Collection) LoadMore(ctx context.Context) error {
	reply := make(chan error, 1)
	op := func() {
		if !c.hasMore {
			reply <- nil
			return
		}

		orders, err := c.repo.GetPage(ctx, c.page+1, pageSize)
		if err != nil {
			reply <- err
			return
		}
		c.page++
		c.hasMore = len(orders) == pageSize

		seen := make(map[string]struct{}, len(c.views))
		for _, v := range c.views {
			seen[v.ID.String()] = struct{}{}
		}
		for _, o := range orders {
			if _, dup := seen[o.ID().String()]; dup {
				continue
			}
			c.views = append(c.views, viewFromOrder(o))
		}

		c.notify(Event{Kind: EventReset})
		reply <- nil
	}

	select {
	case c.ops <- op:
		return <-reply
	case <-c.done:
		return ErrStopped
	}
}

// Refetch reloads every loaded page from scratch. Used by the periodic
// resync job to bound drift from missed feed messages.
func (c *Collection) Refetch(ctx context.Context) error {
	reply := make(chan error, 1)
	op := func() {
		reply <- c.reload(ctx)
	}

	select {
	case c.ops <- op:
		return <-reply
	case <-c.done:
		return ErrStopped
	}
}

// Subscribe registers a listener. The returned cancel function must be
// called to release it. Events are dropped for listeners that fall behind
// rather than blocking the collection. After Run has exited, Subscribe
// returns an already-closed channel.
func (c *Collection) Subscribe() (<-chan Event, func()) {
	type registration struct {
		id uint64
		ch chan Event
	}
	reply := make(chan registration, 1)
	op := func() {
		id := c.nextSubID
		c.nextSubID++
		ch := make(chan Event, 16)
		c.subscribers[id] = ch
		reply <- registration{id: id, ch: ch}
	}

	var reg registration
	select {
	case c.ops <- op:
		reg = <-reply
	case <-c.done:
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	cancel := func() {
		unregister := func() {
			if ch, ok := c.subscribers[reg.id]; ok {
				delete(c.subscribers, reg.id)
				close(ch)
			}
		}
		select {
		case c.ops <- unregister:
		case <-c.done:
			// Run already closed every subscriber channel on exit.
		}
	}
	return reg.ch, cancel
}

// reload fetches pages 0..page again and replaces the list wholesale.
func (c *Collection) reload(ctx context.Context) error {
	total := (c.page + 1) * pageSize
	orders, err := c.repo.GetPage(ctx, 0, total)
	if err != nil {
		return err
	}

	c.views = make([]OrderView, 0, len(orders))
	for _, o := range orders {
		c.views = append(c.views, viewFromOrder(o))
	}
	c.hasMore = len(orders) == total

	c.notify(Event{Kind: EventReset})
	return nil
}

// apply merges one feed change. Inserts fetch the full order and prepend
// it; updates merge status, assignment and timestamp into the existing
// entry in place, keeping its position.
func (c *Collection) apply(ctx context.Context, change ports.OrderChange) {
	switch change.Kind {
	case ports.OrderInserted:
		if c.indexOf(change.OrderID) >= 0 {
			return
		}
		full, err := c.repo.Get(ctx, change.OrderID)
		if err != nil {
			c.logger.Warn("failed to fetch inserted order, forcing reload",
				"orderId", change.OrderID.String(), "error", err)
			if rErr := c.reload(ctx); rErr != nil {
				c.logger.Error("reload after failed insert fetch", "error", rErr)
			}
			return
		}
		view := viewFromOrder(full)
		c.views = append([]OrderView{view}, c.views...)
		c.notify(Event{Kind: EventInserted, Order: view, Change: change})

	case ports.OrderUpdated:
		i := c.indexOf(change.OrderID)
		if i < 0 {
			// Order lives on a page that is not loaded; nothing to merge.
			return
		}
		c.views[i].Status = change.NewStatus
		c.views[i].DeliveryID = change.DeliveryID
		c.views[i].UpdatedAt = change.OccurredAt
		c.notify(Event{Kind: EventUpdated, Order: c.views[i], Change: change})

	default:
		c.logger.Warn("unknown change kind", "kind", string(change.Kind))
	}
}

func (c *Collection) indexOf(id kernel.OrderID) int {
	for i, v := range c.views {
		if v.ID.IsEqual(id) {
			return i
		}
	}
	return -1
}

func (c *Collection) notify(event Event) {
	for id, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
			c.logger.Warn("subscriber lagging, dropping event", "subscriber", id)
		}
	}
}

func (c *Collection) closeSubscribers() {
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}

func viewFromOrder(o *order.Order) OrderView {
	header := o.Header()
	return OrderView{
		ID:             o.ID(),
		ClientName:     header.ClientName,
		SellerID:       o.SellerID(),
		SellerName:     o.SellerName(),
		OriginCityName: o.OriginCityName(),
		CityID:         header.CityID,
		CityName:       header.CityName,
		WarehouseName:  header.WarehouseName,
		Status:         o.Status(),
		DeliveryID:     o.DeliveryID(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}
}
