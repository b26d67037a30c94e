package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "casemap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "casemap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "casemap",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Map-session metrics
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "casemap",
		Subsystem: "session",
		Name:      "active",
		Help:      "Current number of live map sessions",
	})

	OverlaysAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "casemap",
		Subsystem: "overlay",
		Name:      "added_total",
		Help:      "Total overlays added, by kind",
	}, []string{"kind"})

	ClicksForwarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casemap",
		Subsystem: "session",
		Name:      "clicks_forwarded_total",
		Help:      "Total map clicks forwarded to host listeners",
	})

	DrawEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "casemap",
		Subsystem: "draw",
		Name:      "events_total",
		Help:      "Total drawing-tools events, by outcome",
	}, []string{"outcome"})

	RenderCommands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "casemap",
		Subsystem: "render",
		Name:      "commands_total",
		Help:      "Total render commands published to map widgets",
	}, []string{"op"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "casemap",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casemap",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total snapshot cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "casemap",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total snapshot cache misses",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
