package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		// Only set on GET requests
		if c.Method() != "GET" {
			return err
		}

		// Don't override if already set
		if existing := c.Get("Cache-Control"); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		// Session state mutates constantly; only geometry helpers and
		// snapshot exports are worth caching at the HTTP layer.
		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10" // Very short for system checks

		case path == "/metrics":
			ttl = "no-cache" // Metrics are real-time

		case path == "/graphql":
			ttl = "private, max-age=0" // GraphQL varies wildly

		case strings.HasPrefix(path, "/v1/geo/"):
			ttl = "public, max-age=3600" // Pure functions of the query

		case strings.HasSuffix(path, "/geojson"):
			ttl = "private, max-age=30" // Snapshot exports

		case strings.HasPrefix(path, "/v1/"):
			ttl = "private, no-cache" // Live session state
		}

		if ttl != "" {
			c.Set("Cache-Control", ttl)
		}

		return err
	}
}
