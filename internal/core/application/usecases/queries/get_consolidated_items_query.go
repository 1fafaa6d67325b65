package queries

import (
	"errors"

	"pedidos/internal/pkg/guard"
)

var ErrGetConsolidatedItemsQueryIsNotConstructed = errors.New(
	"GetConsolidatedItemsQuery must be created via NewGetConsolidatedItemsQuery constructor",
)

// GetConsolidatedItemsQuery aggregates item quantities across every order
// still moving through the pipeline, so production can plan totals per
// product and presentation instead of reading orders one by one.
type GetConsolidatedItemsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetConsolidatedItemsQuery creates a parameterless consolidation query.
func NewGetConsolidatedItemsQuery() GetConsolidatedItemsQuery {
	return GetConsolidatedItemsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetConsolidatedItemsQuery) Validate() error {
	return q.guard.Validate(ErrGetConsolidatedItemsQueryIsNotConstructed)
}

// ConsolidatedItem is one aggregated row: total quantity of a product
// presentation across the orders counted.
type ConsolidatedItem struct {
	ProductID        string
	ProductName      string
	PresentationID   string
	PresentationName string
	TotalQuantity    int
	OrderCount       int
}
