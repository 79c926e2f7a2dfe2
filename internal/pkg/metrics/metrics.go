// Package metrics exposes the Prometheus instruments of the order service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orders"

// Registry owns every collector of the service. Each Registry is independent,
// so tests can build as many as they like.
type Registry struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	streams  prometheus.Gauge
	events   *prometheus.CounterVec
}

// NewRegistry creates and registers the HTTP, stream and runtime collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_connections",
			Help:      "Open order update streams.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_total",
			Help:      "Events written to order update streams.",
		}, []string{"event", "result"}),
	}

	r.reg.MustRegister(
		r.requests,
		r.latency,
		r.streams,
		r.events,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Middleware records request count and latency labelled by route pattern,
// never by raw path, to keep label cardinality bounded.
func (r *Registry) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed { //nolint:errorlint // echo returns it unwrapped
				status = he.Code
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			r.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			r.latency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ConnectionOpened implements realtime.Metrics.
func (r *Registry) ConnectionOpened() { r.streams.Inc() }

// ConnectionClosed implements realtime.Metrics.
func (r *Registry) ConnectionClosed() { r.streams.Dec() }

// EventDelivered implements realtime.Metrics.
func (r *Registry) EventDelivered(event string) {
	r.events.WithLabelValues(event, "delivered").Inc()
}

// EventFailed implements realtime.Metrics.
func (r *Registry) EventFailed(event string) {
	r.events.WithLabelValues(event, "failed").Inc()
}
