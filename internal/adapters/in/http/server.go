// Package http exposes the order workflow over an Echo REST surface plus a
// server-sent-events stream of the live order collection.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pedidos/internal/core/application/ordersync"
	"pedidos/internal/core/application/usecases/commands"
	"pedidos/internal/core/application/usecases/queries"
	"pedidos/internal/core/domain/model/kernel"
	"pedidos/internal/core/ports"
	"pedidos/internal/notifications"
	"pedidos/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler        commands.CreateOrderCommandHandler
	updateOrderHandler        commands.UpdateOrderCommandHandler
	changeStatusHandler       commands.ChangeOrderStatusCommandHandler
	assignDeliveryHandler     commands.AssignDeliveryCommandHandler
	confirmDeliveryHandler    commands.ConfirmDeliveryCommandHandler
	addCommentHandler         commands.AddCommentCommandHandler
	removeCatalogEntryHandler commands.RemoveCatalogEntryCommandHandler

	// Query handlers
	getOrdersPageHandler        queries.GetOrdersPageQueryHandler
	getConsolidatedItemsHandler queries.GetConsolidatedItemsQueryHandler

	collection *ordersync.Collection
	dispatcher *notifications.Dispatcher
	users      ports.UserRepository
}

// NewServer creates the HTTP server with the required command and query
// handlers and the live collection backing the stream endpoint.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderHandler commands.UpdateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	assignDeliveryHandler commands.AssignDeliveryCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	addCommentHandler commands.AddCommentCommandHandler,
	removeCatalogEntryHandler commands.RemoveCatalogEntryCommandHandler,
	getOrdersPageHandler queries.GetOrdersPageQueryHandler,
	getConsolidatedItemsHandler queries.GetConsolidatedItemsQueryHandler,
	collection *ordersync.Collection,
	dispatcher *notifications.Dispatcher,
	users ports.UserRepository,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		updateOrderHandler:          updateOrderHandler,
		changeStatusHandler:         changeStatusHandler,
		assignDeliveryHandler:       assignDeliveryHandler,
		confirmDeliveryHandler:      confirmDeliveryHandler,
		addCommentHandler:           addCommentHandler,
		removeCatalogEntryHandler:   removeCatalogEntryHandler,
		getOrdersPageHandler:        getOrdersPageHandler,
		getConsolidatedItemsHandler: getConsolidatedItemsHandler,
		collection:                  collection,
		dispatcher:                  dispatcher,
		users:                       users,
	}
}

// RegisterRoutes mounts every endpoint on the given Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/consolidated", s.GetConsolidatedItems)
	api.GET("/orders/stream", s.StreamOrders)
	api.PUT("/orders/:orderId", s.UpdateOrder)
	api.POST("/orders/:orderId/status", s.ChangeOrderStatus)
	api.POST("/orders/:orderId/delivery", s.AssignDelivery)
	api.POST("/orders/:orderId/delivery/confirm", s.ConfirmDelivery)
	api.POST("/orders/:orderId/comments", s.AddComment)
	api.DELETE("/catalog/:kind/:entryId", s.RemoveCatalogEntry)
	api.GET("/users/delivery", s.GetDeliveryUsers)
	api.GET("/users/:userId/alerts/stream", s.StreamAlerts)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request OrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Cuerpo de la solicitud inválido")
	}

	sellerID, err := kernel.UUIDFromString(request.ActorID)
	if err != nil {
		return badRequest(ctx, "Identificador de vendedor inválido")
	}
	items, err := request.domainItems()
	if err != nil {
		return badRequest(ctx, "Datos del pedido inválidos: "+err.Error())
	}

	cmd, err := commands.NewCreateOrderCommand(sellerID, request.header(), items, request.AsDraft)
	if err != nil {
		return badRequest(ctx, "Datos del pedido inválidos: "+err.Error())
	}

	orderID, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{OrderID: orderID.String()})
}

// UpdateOrder handles PUT /api/v1/orders/:orderId.
func (s *Server) UpdateOrder(ctx echo.Context) error {
	orderID, err := kernel.ParseOrderID(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Identificador de pedido inválido")
	}

	var request OrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Cuerpo de la solicitud inválido")
	}
	actorID, err := kernel.UUIDFromString(request.ActorID)
	if err != nil {
		return badRequest(ctx, "Identificador de usuario inválido")
	}
	items, err := request.domainItems()
	if err != nil {
		return badRequest(ctx, "Datos del pedido inválidos: "+err.Error())
	}

	cmd, err := commands.NewUpdateOrderCommand(orderID, actorID, request.header(), items)
	if err != nil {
		return badRequest(ctx, "Datos del pedido inválidos: "+err.Error())
	}

	if err := s.updateOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ChangeOrderStatus handles POST /api/v1/orders/:orderId/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.ParseOrderID(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Identificador de pedido inválido")
	}

	var request StatusRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Cuerpo de la solicitud inválido")
	}
	actorID, err := kernel.UUIDFromString(request.ActorID)
	if err != nil {
		return badRequest(ctx, "Identificador de usuario inválido")
	}
	target, err := statusFromLabel(request.Status)
	if err != nil {
		return badRequest(ctx, "Estado inválido: "+request.Status)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actorID, target, request.Reason)
	if err != nil {
		return badRequest(ctx, "Solicitud de cambio de estado inválida: "+err.Error())
	}

	if err := s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AssignDelivery handles POST /api/v1/orders/:orderId/delivery.
func (s *Server) AssignDelivery(ctx echo.Context) error {
	orderID, err := kernel.ParseOrderID(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Identificador de pedido inválido")
	}

	var request AssignRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Cuerpo de la solicitud inválido")
	}
	actorID, err := kernel.UUIDFromString(request.ActorID)
	if err != nil {
		return badRequest(ctx, "Identificador de usuario inválido")
	}
	driverID, err := kernel.UUIDFromString(request.DeliveryID)
	if err != nil {
		return badRequest(ctx, "Identificador de repartidor inválido")
	}

	cmd, err := commands.NewAssignDeliveryCommand(orderID, actorID, driverID)
	if err != nil {
		return badRequest(ctx, "Solicitud de asignación inválida: "+err.Error())
	}

	if err := s.assignDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmDelivery handles POST /api/v1/orders/:orderId/delivery/confirm.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	orderID, err := kernel.ParseOrderID(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Identificador de pedido inválido")
	}

	var request ConfirmRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Cuerpo de la solicitud inválido")
	}
	actorID, err := kernel.UUIDFromString(request.ActorID)
	if err != nil {
		return badRequest(ctx, "Identificador de usuario inválido")
	}

	cmd, err := commands.NewConfirmDeliveryCommand(orderID, actorID)
	if err != nil {
		return badRequest(ctx, "Solicitud de confirmación inválida: "+err.Error())
	}

	if err := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AddComment handles POST /api/v1/orders/:orderId/comments.
func (s *Server) AddComment(ctx echo.Context) error {
	orderID, err := kernel.ParseOrderID(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Identificador de pedido inválido")
	}

	var request CommentRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Cuerpo de la solicitud inválido")
	}
	authorID, err := kernel.UUIDFromString(request.AuthorID)
	if err != nil {
		return badRequest(ctx, "Identificador de usuario inválido")
	}

	cmd, err := commands.NewAddCommentCommand(orderID, authorID, request.Content)
	if err != nil {
		return badRequest(ctx, "Comentario inválido: "+err.Error())
	}

	if err := s.addCommentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusCreated)
}

// GetOrders handles GET /api/v1/orders?page=N.
func (s *Server) GetOrders(ctx echo.Context) error {
	page := 0
	if raw := ctx.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "Número de página inválido")
		}
		page = parsed
	}

	query, err := queries.NewGetOrdersPageQuery(page)
	if err != nil {
		return badRequest(ctx, "Número de página inválido")
	}

	result, err := s.getOrdersPageHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := OrdersPageResponse{
		Orders:  make([]OrderSummaryResponse, len(result.Orders)),
		HasMore: result.HasMore,
	}
	for i, summary := range result.Orders {
		response.Orders[i] = summaryResponse(summary)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetConsolidatedItems handles GET /api/v1/orders/consolidated.
func (s *Server) GetConsolidatedItems(ctx echo.Context) error {
	query := queries.NewGetConsolidatedItemsQuery()

	items, err := s.getConsolidatedItemsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]ConsolidatedItemResponse, len(items))
	for i, item := range items {
		response[i] = ConsolidatedItemResponse{
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			PresentationID:   item.PresentationID,
			PresentationName: item.PresentationName,
			TotalQuantity:    item.TotalQuantity,
			OrderCount:       item.OrderCount,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// RemoveCatalogEntry handles DELETE /api/v1/catalog/:kind/:entryId.
func (s *Server) RemoveCatalogEntry(ctx echo.Context) error {
	kind, ok := catalogKinds[ctx.Param("kind")]
	if !ok {
		return badRequest(ctx, "Tipo de entidad desconocido: "+ctx.Param("kind"))
	}

	cmd, err := commands.NewRemoveCatalogEntryCommand(kind, ctx.Param("entryId"))
	if err != nil {
		return badRequest(ctx, "Solicitud de eliminación inválida: "+err.Error())
	}

	if err := s.removeCatalogEntryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// StreamOrders handles GET /api/v1/orders/stream: a server-sent-events
// feed that opens with a full snapshot and then pushes every collection
// event until the client disconnects.
func (s *Server) StreamOrders(ctx echo.Context) error {
	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set(echo.HeaderCacheControl, "no-cache")
	response.Header().Set(echo.HeaderConnection, "keep-alive")
	response.WriteHeader(http.StatusOK)

	events, unsubscribe := s.collection.Subscribe()
	defer unsubscribe()

	if err := s.writeSnapshot(ctx); err != nil {
		return err
	}

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.writeEvent(ctx, event); err != nil {
				return err
			}
		}
	}
}

func (s *Server) writeSnapshot(ctx echo.Context) error {
	views, hasMore := s.collection.Snapshot()

	payload := OrdersPageResponse{
		Orders:  make([]OrderSummaryResponse, len(views)),
		HasMore: hasMore,
	}
	for i, view := range views {
		payload.Orders[i] = viewResponse(view)
	}
	return writeSSE(ctx, "snapshot", payload)
}

func (s *Server) writeEvent(ctx echo.Context, event ordersync.Event) error {
	switch event.Kind {
	case ordersync.EventInserted:
		return writeSSE(ctx, "inserted", viewResponse(event.Order))
	case ordersync.EventUpdated:
		return writeSSE(ctx, "updated", viewResponse(event.Order))
	default:
		// A reset invalidates the client's list; resend the snapshot.
		return s.writeSnapshot(ctx)
	}
}

// GetDeliveryUsers handles GET /api/v1/users/delivery: the active drivers
// offered for assignment, with today's availability precomputed so the
// selection list can gray out absent drivers.
func (s *Server) GetDeliveryUsers(ctx echo.Context) error {
	drivers, err := s.users.GetAllActiveDelivery(ctx.Request().Context())
	if err != nil {
		return writeError(ctx, err)
	}

	today := kernel.Today()
	response := make([]DeliveryUserResponse, len(drivers))
	for i, driver := range drivers {
		response[i] = DeliveryUserResponse{
			ID:             driver.ID().String(),
			Name:           driver.Name(),
			Username:       driver.Username(),
			AvailableToday: !driver.IsUnavailableOn(today),
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// StreamAlerts handles GET /api/v1/users/:userId/alerts/stream: the
// role-targeted notification feed for one connected viewer. An SSE client
// has no autoplay gate, so the sink is unlocked on connect; embedding
// clients that do gate audio drive Unlock from their first user gesture.
func (s *Server) StreamAlerts(ctx echo.Context) error {
	userID, err := kernel.UUIDFromString(ctx.Param("userId"))
	if err != nil {
		return badRequest(ctx, "Identificador de usuario inválido")
	}
	viewer, err := s.users.Get(ctx.Request().Context(), userID)
	if err != nil {
		return writeError(ctx, err)
	}

	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set(echo.HeaderCacheControl, "no-cache")
	response.Header().Set(echo.HeaderConnection, "keep-alive")
	response.WriteHeader(http.StatusOK)

	sink, cancel := s.dispatcher.Register(viewer)
	defer cancel()
	sink.Unlock()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case alert, ok := <-sink.Alerts():
			if !ok {
				return nil
			}
			if err := writeSSE(ctx, "alert", alertResponse(alert)); err != nil {
				return err
			}
		case cue, ok := <-sink.Cues():
			if !ok {
				return nil
			}
			if err := writeSSE(ctx, "cue", cue); err != nil {
				return err
			}
		}
	}
}

func writeSSE(ctx echo.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(ctx.Response(), "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	ctx.Response().Flush()
	return nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError translates an application error into the HTTP status the
// workflow contract promises: missing reasons are unprocessable, refused
// transitions and referential conflicts are conflicts, unknown objects are
// not found, bad values are bad requests, and everything else is an opaque
// internal failure.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "Error interno del servidor"

	switch {
	case errors.Is(err, errs.ErrReasonRequired):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, errs.ErrTransitionDenied),
		errors.Is(err, errs.ErrDriverUnavailable),
		errors.Is(err, errs.ErrReferentialConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		status = http.StatusBadRequest
		message = err.Error()
	}

	return ctx.JSON(status, Error{Code: status, Message: message})
}
