package http

import (
	"fmt"
	"time"

	"pedidos/internal/core/application/ordersync"
	"pedidos/internal/core/application/usecases/queries"
	"pedidos/internal/core/domain/model/catalog"
	"pedidos/internal/core/domain/model/order"
	"pedidos/internal/notifications"
)

// Error is the JSON error body returned for every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderItemRequest is one product line of a create or update request.
type OrderItemRequest struct {
	ProductID        string `json:"productId"`
	ProductName      string `json:"productName"`
	PresentationID   string `json:"presentationId"`
	PresentationName string `json:"presentationName"`
	Quantity         int    `json:"quantity"`
}

// OrderRequest is the body of order creation and edit requests. ActorID
// identifies the requesting user; for creation it is the seller.
type OrderRequest struct {
	ActorID         string             `json:"actorId"`
	ClientName      string             `json:"clientName"`
	ClientTaxID     string             `json:"clientTaxId"`
	ClientPhone     string             `json:"clientPhone"`
	OrderTypeName   string             `json:"orderTypeName"`
	DestinationName string             `json:"destinationName"`
	CityID          string             `json:"cityId"`
	CityName        string             `json:"cityName"`
	WarehouseID     string             `json:"warehouseId"`
	WarehouseName   string             `json:"warehouseName"`
	Items           []OrderItemRequest `json:"items"`
	AsDraft         bool               `json:"asDraft"`
}

// StatusRequest asks for a transition to the named status. Status accepts
// the Spanish display label ("En Producción") exactly as shown to users.
type StatusRequest struct {
	ActorID string `json:"actorId"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
}

// AssignRequest assigns a driver to a dispatched order.
type AssignRequest struct {
	ActorID    string `json:"actorId"`
	DeliveryID string `json:"deliveryId"`
}

// ConfirmRequest is the delivery confirmation body.
type ConfirmRequest struct {
	ActorID string `json:"actorId"`
}

// CommentRequest adds a free-text comment to an order.
type CommentRequest struct {
	AuthorID string `json:"authorId"`
	Content  string `json:"content"`
}

// CreatedResponse returns the identifier of a newly created order.
type CreatedResponse struct {
	OrderID string `json:"orderId"`
}

// OrderSummaryResponse is one row of the paged order list.
type OrderSummaryResponse struct {
	ID             string    `json:"id"`
	ClientName     string    `json:"clientName"`
	Status         int       `json:"status"`
	StatusLabel    string    `json:"statusLabel"`
	SellerName     string    `json:"sellerName"`
	OriginCityName string    `json:"originCityName"`
	CityName       string    `json:"cityName"`
	WarehouseName  string    `json:"warehouseName"`
	DeliveryID     *string   `json:"deliveryId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// OrdersPageResponse is one page of summaries plus the pagination flag.
type OrdersPageResponse struct {
	Orders  []OrderSummaryResponse `json:"orders"`
	HasMore bool                   `json:"hasMore"`
}

// DeliveryUserResponse is one driver offered for assignment.
type DeliveryUserResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	AvailableToday bool   `json:"availableToday"`
}

// ConsolidatedItemResponse is one aggregated production row.
type ConsolidatedItemResponse struct {
	ProductID        string `json:"productId"`
	ProductName      string `json:"productName"`
	PresentationID   string `json:"presentationId"`
	PresentationName string `json:"presentationName"`
	TotalQuantity    int    `json:"totalQuantity"`
	OrderCount       int    `json:"orderCount"`
}

// AlertResponse is one notification pushed over the alerts stream. The cue
// rides along as its tone program so clients synthesize it locally.
type AlertResponse struct {
	Message  string                  `json:"message"`
	Severity string                  `json:"severity"`
	Cue      *notifications.SoundCue `json:"cue,omitempty"`
}

func alertResponse(alert notifications.Alert) AlertResponse {
	return AlertResponse{
		Message:  alert.Message,
		Severity: string(alert.Severity),
		Cue:      alert.Cue,
	}
}

func summaryResponse(summary queries.OrderSummary) OrderSummaryResponse {
	response := OrderSummaryResponse{
		ID:             summary.ID.String(),
		ClientName:     summary.ClientName,
		Status:         int(summary.Status),
		StatusLabel:    summary.StatusLabel,
		SellerName:     summary.SellerName,
		OriginCityName: summary.OriginCityName,
		CityName:       summary.CityName,
		WarehouseName:  summary.WarehouseName,
		CreatedAt:      summary.CreatedAt,
		UpdatedAt:      summary.UpdatedAt,
	}
	if summary.DeliveryID != nil {
		id := summary.DeliveryID.String()
		response.DeliveryID = &id
	}
	return response
}

func viewResponse(view ordersync.OrderView) OrderSummaryResponse {
	response := OrderSummaryResponse{
		ID:             view.ID.String(),
		ClientName:     view.ClientName,
		Status:         int(view.Status),
		StatusLabel:    view.Status.String(),
		SellerName:     view.SellerName,
		OriginCityName: view.OriginCityName,
		CityName:       view.CityName,
		WarehouseName:  view.WarehouseName,
		CreatedAt:      view.CreatedAt,
		UpdatedAt:      view.UpdatedAt,
	}
	if view.DeliveryID != nil {
		id := view.DeliveryID.String()
		response.DeliveryID = &id
	}
	return response
}

func (r OrderRequest) header() order.Header {
	return order.Header{
		ClientName:      r.ClientName,
		ClientTaxID:     r.ClientTaxID,
		ClientPhone:     r.ClientPhone,
		OrderTypeName:   r.OrderTypeName,
		DestinationName: r.DestinationName,
		CityID:          r.CityID,
		CityName:        r.CityName,
		WarehouseID:     r.WarehouseID,
		WarehouseName:   r.WarehouseName,
	}
}

func (r OrderRequest) domainItems() ([]order.Item, error) {
	items := make([]order.Item, 0, len(r.Items))
	for _, line := range r.Items {
		item, err := order.NewItem(
			line.ProductID, line.ProductName,
			line.PresentationID, line.PresentationName,
			line.Quantity,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// statusFromLabel resolves a Spanish status label to its Status value.
func statusFromLabel(label string) (order.Status, error) {
	for status := order.Draft; status <= order.Rejected; status++ {
		if status.String() == label {
			return status, nil
		}
	}
	return order.Unknown, fmt.Errorf("%q is not a recognized status", label)
}

// catalogKinds maps the URL path segment of the catalog delete endpoint to
// the protected entity kind.
var catalogKinds = map[string]catalog.Kind{
	"products":      catalog.KindProduct,
	"presentations": catalog.KindPresentation,
	"warehouses":    catalog.KindWarehouse,
	"categories":    catalog.KindCategory,
	"destinations":  catalog.KindDestination,
	"order-types":   catalog.KindOrderType,
}
