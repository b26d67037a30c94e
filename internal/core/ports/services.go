package ports

import "context"

// EventPublisher forwards session events to the host side. The click
// contract is strict: exactly one publication per map click.
type EventPublisher interface {
	PublishClick(ctx context.Context, sessionID string, lat, lon float64) error
	PublishDrawCreated(ctx context.Context, sessionID string, feature []byte) error
	PublishSessionClosed(ctx context.Context, sessionID string) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
