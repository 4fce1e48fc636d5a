// Package http is the inbound HTTP adapter: echo handlers that parse
// requests, build commands and queries, and map domain errors to status
// codes. No business rules live here.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/order"
	"backoffice/internal/core/domain/model/stock"
	"backoffice/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	transitionOrderHandler  commands.TransitionOrderCommandHandler
	transitionOrdersHandler commands.TransitionOrdersCommandHandler
	createShipmentHandler   commands.CreateShipmentCommandHandler
	sendShipmentHandler     commands.SendShipmentCommandHandler
	finishShipmentHandler   commands.FinishShipmentCommandHandler
	receiveStockHandler     commands.ReceiveStockCommandHandler
	paymentWebhookHandler   commands.ProcessPaymentWebhookCommandHandler

	// Query handlers
	shippableOrdersHandler queries.GetShippableOrdersQueryHandler
	stockChangesHandler    queries.GetStockChangesQueryHandler
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	transitionOrdersHandler commands.TransitionOrdersCommandHandler,
	createShipmentHandler commands.CreateShipmentCommandHandler,
	sendShipmentHandler commands.SendShipmentCommandHandler,
	finishShipmentHandler commands.FinishShipmentCommandHandler,
	receiveStockHandler commands.ReceiveStockCommandHandler,
	paymentWebhookHandler commands.ProcessPaymentWebhookCommandHandler,
	shippableOrdersHandler queries.GetShippableOrdersQueryHandler,
	stockChangesHandler queries.GetStockChangesQueryHandler,
) *Server {
	return &Server{
		transitionOrderHandler:  transitionOrderHandler,
		transitionOrdersHandler: transitionOrdersHandler,
		createShipmentHandler:   createShipmentHandler,
		sendShipmentHandler:     sendShipmentHandler,
		finishShipmentHandler:   finishShipmentHandler,
		receiveStockHandler:     receiveStockHandler,
		paymentWebhookHandler:   paymentWebhookHandler,
		shippableOrdersHandler:  shippableOrdersHandler,
		stockChangesHandler:     stockChangesHandler,
	}
}

// RegisterRoutes mounts every endpoint on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders/:id/status", s.TransitionOrder)
	api.POST("/orders/status", s.TransitionOrders)
	api.GET("/orders/shippable", s.GetShippableOrders)

	api.POST("/shipments", s.CreateShipment)
	api.POST("/shipments/:id/send", s.SendShipment)
	api.POST("/shipments/:id/finish", s.FinishShipment)

	api.POST("/payments/webhook", s.HandlePaymentWebhook)

	api.POST("/stock/:productId/receive", s.ReceiveStock)
	api.GET("/stock/:productId/changes", s.GetStockChanges)

	e.GET("/health", s.Health)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError maps application and domain errors to HTTP status codes:
// missing aggregates are 404, business rule conflicts 409, malformed input
// 400, everything else 500.
func domainError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, stock.ErrInsufficientStock),
		errors.Is(err, commands.ErrPreconditionFailed),
		errors.Is(err, commands.ErrOrderSetMismatch):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrMissingOrderReference):
		code = http.StatusBadRequest
	}

	return ctx.JSON(code, errorResponse{Code: code, Message: err.Error()})
}

type transitionOrderRequest struct {
	Status string `json:"status"`
}

// TransitionOrder handles POST /api/v1/orders/:id/status - moves one order
// along the lifecycle graph.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var req transitionOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target)
	if err != nil {
		return badRequest(ctx, "Invalid transition request: "+err.Error())
	}

	if handleErr := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

type transitionOrdersRequest struct {
	OrderIDs []string `json:"orderIds"`
	Status   string   `json:"status"`
}

// TransitionOrders handles POST /api/v1/orders/status - moves a batch of
// orders to one target status atomically.
func (s *Server) TransitionOrders(ctx echo.Context) error {
	var req transitionOrdersRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderIDs, err := parseUUIDs(req.OrderIDs)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}

	cmd, err := commands.NewTransitionOrdersCommand(orderIDs, target)
	if err != nil {
		return badRequest(ctx, "Invalid transition request: "+err.Error())
	}

	if handleErr := s.transitionOrdersHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

type createShipmentRequest struct {
	VehicleID string   `json:"vehicleId"`
	OrderIDs  []string `json:"orderIds"`
}

type createShipmentResponse struct {
	ID string `json:"id"`
}

// CreateShipment handles POST /api/v1/shipments - forms a shipment from
// pending home-delivery orders.
func (s *Server) CreateShipment(ctx echo.Context) error {
	var req createShipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	vehicleID, err := kernel.UUIDFromString(req.VehicleID)
	if err != nil {
		return badRequest(ctx, "Invalid vehicle id: "+err.Error())
	}

	orderIDs, err := parseUUIDs(req.OrderIDs)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	shipmentID := kernel.NewUUID()
	cmd, err := commands.NewCreateShipmentCommand(shipmentID, vehicleID, orderIDs)
	if err != nil {
		return badRequest(ctx, "Invalid shipment data: "+err.Error())
	}

	if handleErr := s.createShipmentHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, createShipmentResponse{ID: shipmentID.String()})
}

// SendShipment handles POST /api/v1/shipments/:id/send - computes the route
// and dispatches the shipment.
func (s *Server) SendShipment(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid shipment id: "+err.Error())
	}

	cmd, err := commands.NewSendShipmentCommand(shipmentID)
	if err != nil {
		return badRequest(ctx, "Invalid send request: "+err.Error())
	}

	if handleErr := s.sendShipmentHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

type finishShipmentRequest struct {
	OdometerKm float64                     `json:"odometerKm"`
	FinishedAt time.Time                   `json:"finishedAt"`
	Orders     []finishShipmentOrderResult `json:"orders"`
}

type finishShipmentOrderResult struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// FinishShipment handles POST /api/v1/shipments/:id/finish - settles every
// carried order and records the vehicle usage.
func (s *Server) FinishShipment(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid shipment id: "+err.Error())
	}

	var req finishShipmentRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	targets := make(map[kernel.UUID]order.Status, len(req.Orders))
	for _, result := range req.Orders {
		orderID, idErr := kernel.UUIDFromString(result.OrderID)
		if idErr != nil {
			return badRequest(ctx, "Invalid order id: "+idErr.Error())
		}

		target, statusErr := order.ParseStatus(result.Status)
		if statusErr != nil {
			return badRequest(ctx, "Invalid status: "+statusErr.Error())
		}

		targets[orderID] = target
	}

	finishedAt := req.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}

	cmd, err := commands.NewFinishShipmentCommand(shipmentID, req.OdometerKm, finishedAt, targets)
	if err != nil {
		return badRequest(ctx, "Invalid finish request: "+err.Error())
	}

	if handleErr := s.finishShipmentHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

// webhookRequest is the payment processor's notification payload. Only the
// event id, the action, and the payment id are used; the payment state itself
// is re-fetched from the processor.
type webhookRequest struct {
	ID          int64  `json:"id"`
	LiveMode    bool   `json:"live_mode"`
	Type        string `json:"type"`
	DateCreated string `json:"date_created"`
	UserID      int64  `json:"user_id"`
	APIVersion  string `json:"api_version"`
	Action      string `json:"action"`
	Data        struct {
		ID string `json:"id"`
	} `json:"data"`
}

// HandlePaymentWebhook handles POST /api/v1/payments/webhook - ingests a
// payment processor notification. Anything but 200 makes the processor
// retry, so only genuine processing failures are reported as errors.
func (s *Server) HandlePaymentWebhook(ctx echo.Context) error {
	var req webhookRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewProcessPaymentWebhookCommand(
		strconv.FormatInt(req.ID, 10), req.Action, req.Data.ID)
	if err != nil {
		return badRequest(ctx, "Invalid webhook payload: "+err.Error())
	}

	if handleErr := s.paymentWebhookHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

type receiveStockRequest struct {
	Quantity int `json:"quantity"`
}

// ReceiveStock handles POST /api/v1/stock/:productId/receive - books an
// inbound supplier delivery.
func (s *Server) ReceiveStock(ctx echo.Context) error {
	productID, err := kernel.UUIDFromString(ctx.Param("productId"))
	if err != nil {
		return badRequest(ctx, "Invalid product id: "+err.Error())
	}

	var req receiveStockRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewReceiveStockCommand(productID, req.Quantity)
	if err != nil {
		return badRequest(ctx, "Invalid receive request: "+err.Error())
	}

	if handleErr := s.receiveStockHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusOK)
}

type shippableOrderResponse struct {
	ID               string `json:"id"`
	DeliveryAddress  string `json:"deliveryAddress"`
	TotalAmountCents int64  `json:"totalAmountCents"`
}

// GetShippableOrders handles GET /api/v1/orders/shippable - lists orders
// eligible for shipment formation.
func (s *Server) GetShippableOrders(ctx echo.Context) error {
	query := queries.NewGetShippableOrdersQuery()

	orders, err := s.shippableOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve shippable orders",
		})
	}

	response := make([]shippableOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = shippableOrderResponse{
			ID:               o.ID.String(),
			DeliveryAddress:  o.DeliveryAddress,
			TotalAmountCents: o.TotalAmountCents,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type stockChangeResponse struct {
	ID         string    `json:"id"`
	ChangeType string    `json:"changeType"`
	Field      string    `json:"field"`
	Previous   int       `json:"previous"`
	Current    int       `json:"current"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurredAt"`
}

// GetStockChanges handles GET /api/v1/stock/:productId/changes - returns the
// product's ledger audit trail, newest first.
func (s *Server) GetStockChanges(ctx echo.Context) error {
	productID, err := kernel.UUIDFromString(ctx.Param("productId"))
	if err != nil {
		return badRequest(ctx, "Invalid product id: "+err.Error())
	}

	query, err := queries.NewGetStockChangesQuery(productID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	changes, err := s.stockChangesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve stock changes",
		})
	}

	response := make([]stockChangeResponse, len(changes))
	for i, change := range changes {
		response[i] = stockChangeResponse{
			ID:         change.ID.String(),
			ChangeType: change.ChangeType,
			Field:      change.Field,
			Previous:   change.Previous,
			Current:    change.Current,
			Reason:     change.Reason,
			OccurredAt: change.OccurredAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func parseUUIDs(raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromString(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
