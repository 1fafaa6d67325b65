package queries

import (
	"context"
	"database/sql"
	"time"

	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersPageQueryHandler retrieves order list pages from the database.
// The handler fetches one row beyond the page size; the presence of that
// extra row is the HasMore signal and the row itself is dropped.
type GetOrdersPageQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersPageQueryHandler creates a handler for order list queries.
func NewGetOrdersPageQueryHandler(db *gorm.DB) GetOrdersPageQueryHandler {
	return GetOrdersPageQueryHandler{db: db}
}

// Handle executes the query. Orders are sorted newest first by creation
// time, with the numeric suffix as tiebreaker so same-instant orders keep
// a stable position.
func (h GetOrdersPageQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersPageQuery,
) (GetOrdersPageQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrdersPageQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			client_name,
			status,
			seller_name,
			origin_city_name,
			city_name,
			warehouse_name,
			delivery_id,
			created_at,
			updated_at
		FROM orders
		ORDER BY created_at DESC, number DESC
		LIMIT ? OFFSET ?
	`, query.PageSize()+1, query.Page()*query.PageSize()).Rows()
	if err != nil {
		return GetOrdersPageQueryResponse{}, err
	}
	defer rows.Close()

	summaries := make([]OrderSummary, 0, query.PageSize())
	for rows.Next() {
		var (
			rawID      string
			summary    OrderSummary
			status     int
			deliveryID sql.Null[uuid.UUID]
			createdAt  time.Time
			updatedAt  time.Time
		)

		err = rows.Scan(
			&rawID,
			&summary.ClientName,
			&status,
			&summary.SellerName,
			&summary.OriginCityName,
			&summary.CityName,
			&summary.WarehouseName,
			&deliveryID,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return GetOrdersPageQueryResponse{}, err
		}

		orderID, idErr := kernel.ParseOrderID(rawID)
		if idErr != nil {
			return GetOrdersPageQueryResponse{}, idErr
		}
		summary.ID = orderID
		summary.Status = order.Status(status)
		summary.StatusLabel = summary.Status.String()
		summary.CreatedAt = createdAt
		summary.UpdatedAt = updatedAt

		if deliveryID.Valid {
			id, idErr := kernel.UUIDFromString(deliveryID.V.String())
			if idErr != nil {
				return GetOrdersPageQueryResponse{}, idErr
			}
			summary.DeliveryID = &id
		}

		summaries = append(summaries, summary)
	}
	if err = rows.Err(); err != nil {
		return GetOrdersPageQueryResponse{}, err
	}

	hasMore := len(summaries) > query.PageSize()
	if hasMore {
		summaries = summaries[:query.PageSize()]
	}

	return GetOrdersPageQueryResponse{Orders: summaries, HasMore: hasMore}, nil
}
