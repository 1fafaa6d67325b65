// Package ports defines the contracts between the application core and
// infrastructure. Repository interfaces cover persistence of the order,
// user, city and catalog models; the change feed interfaces cover the
// propagation of order changes to listening sessions.
package ports

import (
	"context"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate, writing the header, items and
	// log entries in the same transaction.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. Items,
	// logs and comments are replaced wholesale so the stored state
	// always mirrors the aggregate.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its display identifier.
	// Returns the complete order with items, logs and comments.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// GetPage retrieves a page of orders, newest first. page is
	// zero-based; the caller detects a further page by requesting one
	// row beyond pageSize.
	GetPage(ctx context.Context, page, pageSize int) ([]*order.Order, error)

	// NextID allocates the next order identifier from the store-side
	// sequence. Allocation is atomic across concurrent callers.
	NextID(ctx context.Context) (kernel.OrderID, error)
}
