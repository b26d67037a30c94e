package http

import (
	"time"

	"github.com/nats-io/nats.go"

	"casemap/internal/adapters/valkey"
	"casemap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Sessions  *usecases.SessionManager
	Snapshots *usecases.SnapshotService
	NATS      *nats.Conn
	Cache     *valkey.Cache

	// TimelineStep is the default marker animation interval when the
	// request does not specify one.
	TimelineStep time.Duration
}
