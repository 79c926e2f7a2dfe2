package http

import (
	"context"
	"log/slog"
	"net/http"

	"fooddelivery/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// APIBaseURL prefixes every order route.
const APIBaseURL = "/api/orders"

// RouterConfig collects what NewRouter needs besides the handlers.
type RouterConfig struct {
	Verifier    *TokenVerifier
	Metrics     *metrics.Registry
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter builds the echo instance with middleware, operational endpoints
// and the authenticated order routes.
func NewRouter(ctx context.Context, server ServerInterface, cfg RouterConfig) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler(cfg.Logger)

	validator, err := NewRequestValidator()
	if err != nil {
		return nil, err
	}
	e.Validator = validator

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(cfg.Logger))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowCredentials: true,
		}))
	}
	if cfg.Metrics != nil {
		e.Use(cfg.Metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerAPIDocs(e, doc); err != nil {
		return nil, err
	}

	RegisterHandlersWithBaseURL(e, server, APIBaseURL, Authenticate(cfg.Verifier))
	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURIPath:   true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
