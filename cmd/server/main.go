package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"casemap/internal/adapters/http"
	natsadapter "casemap/internal/adapters/nats"
	"casemap/internal/adapters/valkey"
	"casemap/internal/core/domain"
	"casemap/internal/core/ports"
	"casemap/internal/core/usecases"
	"casemap/internal/pkg/config"
	"casemap/internal/pkg/logging"
	"casemap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("casemap")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS: event publisher plus a raw connection for the render relay
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer publisher.Close()

	relayConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats relay conn unavailable", "error", err)
	}

	// Sessions
	sessionCfg := usecases.SessionConfig{
		Map: ports.MapConfig{
			Center:          domain.GeoPoint{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon},
			Zoom:            cfg.Map.Zoom,
			TileURL:         cfg.Map.TileURL,
			TileAttribution: cfg.Map.TileAttribution,
			MiniMap:         cfg.Map.MiniMap,
		},
		DefaultZoom:  cfg.Map.DefaultZoom,
		FallbackZoom: cfg.Map.FallbackZoom,
		DrawStyle: domain.StyleOptions{
			Color:  cfg.Draw.Color,
			Weight: domain.Float(cfg.Draw.Weight),
		},
		ArrowSizePx: cfg.Draw.ArrowSizePx,
	}

	sessions := usecases.NewSessionManager(
		func(sessionID string) ports.MapRenderer {
			return natsadapter.NewRenderer(publisher.Conn(), sessionID)
		},
		publisher,
		sessionCfg,
	)

	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	snapshots := usecases.NewSnapshotService(sessions, cacheSvc, cfg.Snapshot.TTLSeconds)

	deps := &http.Dependencies{
		Sessions:     sessions,
		Snapshots:    snapshots,
		NATS:         relayConn,
		Cache:        cache,
		TimelineStep: time.Duration(cfg.Timeline.StepSeconds) * time.Second,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    4 * 1024 * 1024, // GeoJSON imports can be chunky
		AppName:      "CaseMap API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	// Dispose every live session so widgets get their destroy commands
	sessions.CloseAll(context.Background())

	slog.Info("server stopped")
}
