package queries

import (
	"context"

	"pedidos/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GetConsolidatedItemsQueryHandler computes the production consolidation
// view. Borrador orders are not yet submitted and Entregado, Cancelado and
// Rechazado orders no longer need production, so all four are excluded.
type GetConsolidatedItemsQueryHandler struct {
	db *gorm.DB
}

// NewGetConsolidatedItemsQueryHandler creates a handler for consolidation queries.
func NewGetConsolidatedItemsQueryHandler(db *gorm.DB) GetConsolidatedItemsQueryHandler {
	return GetConsolidatedItemsQueryHandler{db: db}
}

// Handle executes the consolidation query. Rows are sorted by product and
// presentation name for stable display.
func (h GetConsolidatedItemsQueryHandler) Handle(
	ctx context.Context,
	query GetConsolidatedItemsQuery,
) ([]ConsolidatedItem, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	items := make([]ConsolidatedItem, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.product_id,
			i.product_name,
			i.presentation_id,
			i.presentation_name,
			SUM(i.quantity) AS total_quantity,
			COUNT(DISTINCT i.order_id) AS order_count
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.status NOT IN (?, ?, ?, ?)
		GROUP BY i.product_id, i.product_name, i.presentation_id, i.presentation_name
		ORDER BY i.product_name, i.presentation_name
	`, order.Draft, order.Delivered, order.Cancelled, order.Rejected).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item ConsolidatedItem
		err = rows.Scan(
			&item.ProductID,
			&item.ProductName,
			&item.PresentationID,
			&item.PresentationName,
			&item.TotalQuantity,
			&item.OrderCount,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
