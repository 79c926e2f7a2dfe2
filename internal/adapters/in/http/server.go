package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/realtime"

	"github.com/labstack/echo/v4"
)

// Server implements ServerInterface for the order endpoints.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler
	cancelOrderHandler       commands.CancelOrderCommandHandler

	// Query handlers
	getMyOrdersHandler queries.GetMyOrdersQueryHandler
	getOrderHandler    queries.GetOrderQueryHandler

	broadcaster *realtime.Broadcaster
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getMyOrdersHandler queries.GetMyOrdersQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	broadcaster *realtime.Broadcaster,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		changeOrderStatusHandler: changeOrderStatusHandler,
		cancelOrderHandler:       cancelOrderHandler,
		getMyOrdersHandler:       getMyOrdersHandler,
		getOrderHandler:          getOrderHandler,
		broadcaster:              broadcaster,
		logger:                   logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/orders - places an order for the caller.
func (s *Server) CreateOrder(ctx echo.Context) error {
	userID, _ := callerID(ctx)

	var body CreateOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return fail(ctx, http.StatusBadRequest, msgInvalidBody)
	}
	if err := ctx.Validate(&body); err != nil {
		return s.errorResponse(ctx, err, "Failed to place order")
	}

	addressID, err := kernel.UUIDFromString(body.addressText())
	if err != nil {
		return fail(ctx, http.StatusBadRequest, msgAddressUUID)
	}

	lines := make([]services.RequestedLine, len(body.Items))
	for i := range body.Items {
		productID, err := kernel.UUIDFromString(body.productText(i))
		if err != nil {
			return fail(ctx, http.StatusBadRequest, fmt.Sprintf("items[%d].product_id must be a valid UUID", i))
		}
		lines[i] = services.RequestedLine{ProductID: productID, Qty: body.qtyAt(i)}
	}

	cmd, err := commands.NewCreateOrderCommand(userID, addressID, lines)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to place order")
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to place order")
	}

	return ok(ctx, http.StatusCreated, queries.NewOrderView(created), "Order placed successfully")
}

// GetMyOrders handles GET /api/orders/my - lists the caller's orders, newest first.
func (s *Server) GetMyOrders(ctx echo.Context) error {
	userID, _ := callerID(ctx)

	query, err := queries.NewGetMyOrdersQuery(userID)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to fetch orders")
	}

	views, err := s.getMyOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to fetch orders")
	}

	return ok(ctx, http.StatusOK, views, "")
}

// GetOrder handles GET /api/orders/:id - returns one of the caller's orders.
// Orders of other users are reported as missing.
func (s *Server) GetOrder(ctx echo.Context, id kernel.UUID) error {
	userID, _ := callerID(ctx)

	query, err := queries.NewGetOrderQuery(id, userID)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to fetch order")
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to fetch order")
	}

	return ok(ctx, http.StatusOK, view, "")
}

// UpdateOrderStatus handles PATCH /api/orders/:id/status - advances the order
// one step along the lifecycle or cancels it.
func (s *Server) UpdateOrderStatus(ctx echo.Context, id kernel.UUID) error {
	var body UpdateStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return fail(ctx, http.StatusBadRequest, msgInvalidBody)
	}
	if err := ctx.Validate(&body); err != nil {
		return s.errorResponse(ctx, err, "Failed to update order status")
	}

	next, err := order.ParseStatus(body.OrderStatus)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to update order status")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(id, next)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to update order status")
	}

	updated, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to update order status")
	}

	return ok(ctx, http.StatusOK, queries.NewOrderView(updated), "Order status updated to "+updated.Status().String())
}

// CancelOrder handles PATCH /api/orders/:id/cancel - cancels one of the
// caller's active orders.
func (s *Server) CancelOrder(ctx echo.Context, id kernel.UUID) error {
	userID, _ := callerID(ctx)

	cmd, err := commands.NewCancelOrderCommand(id, userID)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to cancel order")
	}

	cancelled, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err, "Failed to cancel order")
	}

	return ok(ctx, http.StatusOK, queries.NewOrderView(cancelled), "Order cancelled successfully")
}

// StreamOrders handles GET /api/orders/stream - keeps a Server-Sent Events
// stream open and pushes the caller's order status changes until the client
// disconnects.
func (s *Server) StreamOrders(ctx echo.Context) error {
	userID, _ := callerID(ctx)
	reqCtx := ctx.Request().Context()

	conn, err := realtime.NewSSEConnection(ctx.Response(), reqCtx.Done())
	if err != nil {
		if errors.Is(err, realtime.ErrStreamingUnsupported) {
			return fail(ctx, http.StatusInternalServerError, "Streaming is not supported")
		}
		return err
	}

	greeting, err := json.Marshal(realtime.ConnectedGreeting)
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err := conn.Send(realtime.EventConnected, greeting); err != nil {
		_ = conn.Close()
		return nil
	}

	remove := s.broadcaster.AddConnection(userID, conn)
	defer remove()

	<-conn.Done()
	return nil
}
