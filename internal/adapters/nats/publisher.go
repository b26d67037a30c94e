package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subject layout. Render commands are ephemeral fan-out; clicks and
// draw events go through JetStream so the audit trail survives slow
// consumers.
const (
	SubjectRenderPrefix = "map.render." // + session id
	SubjectClickPrefix  = "map.click."  // + session id
	SubjectDrawPrefix   = "map.draw."   // + session id
	SubjectClosedPrefix = "map.closed." // + session id
)

// ClickEvent is the payload forwarded to the host click handler.
type ClickEvent struct {
	SessionID string    `json:"session_id"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	At        time.Time `json:"at"`
}

// Publisher implements ports.EventPublisher over NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the event streams exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	streams := []nats.StreamConfig{
		{
			Name:      "MAP_CLICKS",
			Subjects:  []string{"map.click.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "MAP_DRAWINGS",
			Subjects:  []string{"map.draw.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishClick forwards one map click to the host handler channel.
// One click, one publication.
func (p *Publisher) PublishClick(ctx context.Context, sessionID string, lat, lon float64) error {
	data, err := json.Marshal(ClickEvent{
		SessionID: sessionID,
		Lat:       lat,
		Lon:       lon,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectClickPrefix+sessionID, data)
	return err
}

// PublishDrawCreated forwards a completed drawing as a GeoJSON feature.
func (p *Publisher) PublishDrawCreated(ctx context.Context, sessionID string, feature []byte) error {
	_, err := p.js.Publish(SubjectDrawPrefix+sessionID, feature)
	return err
}

// PublishSessionClosed notifies host listeners that a session is gone.
func (p *Publisher) PublishSessionClosed(ctx context.Context, sessionID string) error {
	return p.conn.Publish(SubjectClosedPrefix+sessionID, []byte(sessionID))
}

// Conn exposes the underlying connection for the renderer and the
// WebSocket relay.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. the
// WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
