// Package queries contains read-only operations over the order store.
// Query handlers read through GORM directly instead of the repository
// ports: responses are flat projections for display, not aggregates.
package queries

import (
	"errors"
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/pkg/guard"
)

// DefaultPageSize is the number of orders fetched per page. The handler
// requests one extra row to detect whether a further page exists.
const DefaultPageSize = 50

var (
	ErrGetOrdersPageQueryIsNotConstructed = errors.New(
		"GetOrdersPageQuery must be created via NewGetOrdersPageQuery constructor",
	)
	ErrPageIsInvalid = errors.New("page must not be negative")
)

// GetOrdersPageQuery retrieves a page of orders, newest first.
//
// Example:
//
//	query, _ := NewGetOrdersPageQuery(0)
//	handler := NewGetOrdersPageQueryHandler(db)
//	page, err := handler.Handle(ctx, query)
//	if page.HasMore {
//	    // offer a "load more" action
//	}
type GetOrdersPageQuery struct {
	page     int
	pageSize int

	guard guard.ConstructorGuard
}

// NewGetOrdersPageQuery creates a query for the given zero-based page.
func NewGetOrdersPageQuery(page int) (GetOrdersPageQuery, error) {
	if page < 0 {
		return GetOrdersPageQuery{}, ErrPageIsInvalid
	}

	return GetOrdersPageQuery{
		page:     page,
		pageSize: DefaultPageSize,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersPageQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersPageQueryIsNotConstructed)
}

// Page returns the zero-based page index.
func (q GetOrdersPageQuery) Page() int {
	return q.page
}

// PageSize returns the page size.
func (q GetOrdersPageQuery) PageSize() int {
	return q.pageSize
}

// OrderSummary is one row of the order list projection.
type OrderSummary struct {
	ID             kernel.OrderID
	ClientName     string
	Status         order.Status
	StatusLabel    string
	SellerName     string
	OriginCityName string
	CityName       string
	WarehouseName  string
	DeliveryID     *kernel.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GetOrdersPageQueryResponse carries one page of summaries plus the
// indicator for a further page.
type GetOrdersPageQueryResponse struct {
	Orders  []OrderSummary
	HasMore bool
}
