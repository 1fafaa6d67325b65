package ports

import (
	"context"
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
)

// OrderChangeKind distinguishes a newly created order from a change to an
// existing one.
type OrderChangeKind string

const (
	OrderInserted OrderChangeKind = "insert"
	OrderUpdated  OrderChangeKind = "update"
)

// OrderChange is the event published after an order write commits. It
// carries enough state for listeners to merge the change into their local
// view and to decide which users should be alerted, without another read.
type OrderChange struct {
	Kind       OrderChangeKind
	OrderID    kernel.OrderID
	SellerID   kernel.UUID
	CityID     string
	ClientName string
	PrevStatus order.Status
	NewStatus  order.Status
	DeliveryID *kernel.UUID
	OccurredAt time.Time
}

// ChangeFeedPublisher publishes order changes after the owning transaction
// has committed. Publishing is best effort; a failed publish never rolls
// back the write.
type ChangeFeedPublisher interface {
	Publish(ctx context.Context, change OrderChange) error
}

// ChangeFeedSubscriber delivers the stream of order changes to a consumer.
type ChangeFeedSubscriber interface {
	// Subscribe returns a channel of changes. The channel closes when
	// ctx is cancelled or the underlying feed shuts down.
	Subscribe(ctx context.Context) (<-chan OrderChange, error)
}
