package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"casemap/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 240 requests per minute per IP. Hosts replaying a
	// case batch many overlay calls, so the ceiling is generous.
	app.Use(limiter.New(limiter.Config{
		Max:        240,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	const reqTimeout = 15 * time.Second
	wrap := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, reqTimeout)
	}

	// Geometry helpers (stateless)
	geo := app.Group("/v1/geo")
	geo.Get("/bearing", wrap(BearingHandler()))
	geo.Get("/midpoint", wrap(MidpointHandler()))
	geo.Get("/distance", wrap(DistanceHandler()))

	// Session lifecycle
	v1 := app.Group("/v1")
	v1.Post("/sessions", wrap(CreateSessionHandler(deps)))
	v1.Get("/sessions", wrap(ListSessionsHandler(deps)))
	v1.Get("/sessions/:id", wrap(GetSessionHandler(deps)))
	v1.Delete("/sessions/:id", wrap(CloseSessionHandler(deps)))

	// Overlays
	s := v1.Group("/sessions/:id")
	s.Post("/markers", wrap(AddMarkerHandler(deps)))
	s.Post("/circles", wrap(AddCircleHandler(deps)))
	s.Post("/polygons", wrap(AddPolygonHandler(deps)))
	s.Post("/polylines", wrap(AddPolylineHandler(deps)))
	s.Post("/geojson", wrap(AddGeoJSONHandler(deps)))
	s.Delete("/layers/:layer", wrap(RemoveLayerHandler(deps)))
	s.Post("/clear", wrap(ClearMapHandler(deps)))

	// View control
	s.Post("/view", wrap(SetViewHandler(deps)))
	s.Post("/pan", wrap(PanHandler(deps)))
	s.Post("/fit-bounds", wrap(FitBoundsHandler(deps)))
	s.Post("/fit-around", wrap(FitAroundHandler(deps)))

	// Widget callbacks over HTTP (the WebSocket carries the same)
	s.Post("/clicks", wrap(ClickHandler(deps)))

	// Drawing tools
	s.Post("/draw/init", wrap(InitDrawHandler(deps)))
	s.Post("/draw/enable", wrap(EnableDrawHandler(deps)))
	s.Post("/draw/disable", wrap(DisableDrawHandler(deps)))
	s.Delete("/draw/items", wrap(ClearDrawnHandler(deps)))
	s.Post("/draw/events", wrap(DrawEventHandler(deps)))
	s.Get("/draw/geojson", wrap(ExportDrawnHandler(deps)))
	s.Post("/draw/geojson", wrap(ImportDrawnHandler(deps)))

	// Direction arrows and paths
	s.Post("/arrows", wrap(AddArrowHandler(deps)))
	s.Post("/paths", wrap(AddPathHandler(deps)))

	// Investigation markers
	s.Post("/investigation/markers", wrap(AddInvestigationMarkerHandler(deps)))
	s.Get("/investigation/markers", wrap(ListInvestigationHandler(deps)))
	s.Delete("/investigation/markers", wrap(ClearInvestigationHandler(deps)))
	s.Get("/investigation/geojson", wrap(ExportInvestigationHandler(deps)))
	s.Post("/investigation/geojson", wrap(ImportInvestigationHandler(deps)))

	// Timeline animation
	s.Post("/timeline/start", wrap(StartTimelineHandler(deps)))
	s.Post("/timeline/stop", wrap(StopTimelineHandler(deps)))
	s.Post("/timeline/reset", wrap(ResetTimelineHandler(deps)))
	s.Get("/timeline", wrap(GetTimelineHandler(deps)))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// WebSocket: one socket per session widget
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/:id", websocket.New(WebSocketHandler(deps.NATS, deps.Sessions)))
}
