package http

import (
	"net/http"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the order endpoints described by openapi.yaml.
type ServerInterface interface {
	// (POST /api/orders)
	CreateOrder(ctx echo.Context) error
	// (GET /api/orders/my)
	GetMyOrders(ctx echo.Context) error
	// (GET /api/orders/stream)
	StreamOrders(ctx echo.Context) error
	// (GET /api/orders/{id})
	GetOrder(ctx echo.Context, id kernel.UUID) error
	// (PATCH /api/orders/{id}/status)
	UpdateOrderStatus(ctx echo.Context, id kernel.UUID) error
	// (PATCH /api/orders/{id}/cancel)
	CancelOrder(ctx echo.Context, id kernel.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to typed parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetMyOrders(ctx echo.Context) error {
	return w.Handler.GetMyOrders(ctx)
}

func (w *ServerInterfaceWrapper) StreamOrders(ctx echo.Context) error {
	return w.Handler.StreamOrders(ctx)
}

// GetOrder reports an unparsable id as a missing order.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return fail(ctx, http.StatusNotFound, msgOrderNotFound)
	}
	return w.Handler.GetOrder(ctx, id)
}

func (w *ServerInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, msgInvalidOrderID)
	}
	return w.Handler.UpdateOrderStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	id, err := bindOrderID(ctx)
	if err != nil {
		return fail(ctx, http.StatusBadRequest, msgInvalidOrderID)
	}
	return w.Handler.CancelOrder(ctx, id)
}

func bindOrderID(ctx echo.Context) (kernel.UUID, error) {
	var raw uuid.UUID
	if err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true},
	); err != nil {
		return kernel.UUID{}, &paramError{name: "id", err: err}
	}

	id, err := kernel.UUIDFromGoogle(raw)
	if err != nil {
		return kernel.UUID{}, &paramError{name: "id", err: err}
	}
	return id, nil
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlersWithBaseURL adds every order route under baseURL.
// Static paths are registered before /:id so "my" and "stream" never bind as ids.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string, m ...echo.MiddlewareFunc) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL, wrapper.CreateOrder, m...)
	router.GET(baseURL+"/my", wrapper.GetMyOrders, m...)
	router.GET(baseURL+"/stream", wrapper.StreamOrders, m...)
	router.GET(baseURL+"/:id", wrapper.GetOrder, m...)
	router.PATCH(baseURL+"/:id/status", wrapper.UpdateOrderStatus, m...)
	router.PATCH(baseURL+"/:id/cancel", wrapper.CancelOrder, m...)
}
