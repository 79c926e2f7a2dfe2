package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func ok(ctx echo.Context, status int, data any, message string) error {
	return ctx.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func fail(ctx echo.Context, status int, messages ...string) error {
	return ctx.JSON(status, Envelope{Success: false, Errors: messages})
}

const (
	msgInvalidAddress = "Invalid delivery address"
	msgOrderNotFound  = "Order not found"
	msgInvalidOrderID = "Invalid order ID"
	msgInvalidBody    = "Invalid request body"
	msgConflict       = "Order was updated concurrently, please retry"
)

// requestValidationError carries every message produced for one request body.
type requestValidationError struct {
	messages []string
}

func (e *requestValidationError) Error() string {
	return "request validation failed"
}

// paramError reports a path parameter that could not be bound.
type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string {
	return "invalid format for parameter " + e.name + ": " + e.err.Error()
}

func (e *paramError) Unwrap() error {
	return e.err
}

// errorResponse maps a use case error to its HTTP reply. Errors that do not
// map to a client mistake are logged and answered with fallback.
func (s *Server) errorResponse(ctx echo.Context, err error, fallback string) error {
	var (
		validation *requestValidationError
		param      *paramError
		transition *order.TransitionError
		noProduct  *services.ProductNotFoundError
		invalid    *errs.ValueIsInvalidError
		required   *errs.ValueIsRequiredError
		outOfRange *errs.ValueIsOutOfRangeError
	)

	switch {
	case errors.As(err, &validation):
		return fail(ctx, http.StatusBadRequest, validation.messages...)
	case errors.As(err, &param):
		return fail(ctx, http.StatusBadRequest, msgInvalidOrderID)
	case errors.As(err, &transition):
		return fail(ctx, http.StatusBadRequest, transition.Error())
	case errors.As(err, &noProduct):
		return fail(ctx, http.StatusBadRequest, noProduct.Error())
	case errors.Is(err, services.ErrAddressNotFound), errors.Is(err, services.ErrAddressNotOwned):
		return fail(ctx, http.StatusBadRequest, msgInvalidAddress)
	case errors.Is(err, services.ErrInvalidQuantity):
		return fail(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrCheckoutIsEmpty):
		return fail(ctx, http.StatusBadRequest, msgItemsNonEmpty)
	case errors.Is(err, order.ErrCheckoutExceedsLimits):
		return fail(ctx, http.StatusBadRequest, order.ErrCheckoutExceedsLimits.Error())
	case errors.Is(err, errs.ErrObjectNotFound):
		return fail(ctx, http.StatusNotFound, msgOrderNotFound)
	case errors.As(err, &invalid), errors.As(err, &required), errors.As(err, &outOfRange):
		return fail(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrConflict):
		s.logger.WarnContext(ctx.Request().Context(), "order write kept losing races", "error", err)
		return fail(ctx, http.StatusInternalServerError, msgConflict)
	default:
		s.logger.ErrorContext(ctx.Request().Context(), fallback,
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		return fail(ctx, http.StatusInternalServerError, fallback)
	}
}

// HTTPErrorHandler renders framework errors (unknown route, wrong method,
// malformed body) in the API envelope.
func HTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, isString := he.Message.(string); isString {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			logger.ErrorContext(ctx.Request().Context(), "unhandled error", "error", err)
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(status)
		} else {
			writeErr = fail(ctx, status, message)
		}
		if writeErr != nil {
			logger.ErrorContext(ctx.Request().Context(), "failed to write error response", "error", writeErr)
		}
	}
}
