package http

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"
	"github.com/paulmach/orb/geojson"

	natsadapter "casemap/internal/adapters/nats"
	"casemap/internal/core/domain"
	"casemap/internal/core/usecases"
	"casemap/internal/pkg/logging"
	"casemap/internal/pkg/metrics"
)

// wsInbound is a widget callback sent over the socket: a map click or
// a completed drawing.
type wsInbound struct {
	Event      string           `json:"event"` // "click" | "draw_created"
	Lat        float64          `json:"lat,omitempty"`
	Lon        float64          `json:"lon,omitempty"`
	Generation int              `json:"generation,omitempty"`
	Layer      string           `json:"layer,omitempty"`
	Feature    *geojson.Feature `json:"feature,omitempty"`
}

// WebSocketHandler bridges one session's widget to the server. Render
// commands published on the session's NATS subject are relayed down
// the socket; click and draw callbacks coming up the socket are fed
// into the session. The session id is taken from the route.
func WebSocketHandler(nc *nats.Conn, sessions *usecases.SessionManager) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		sessionID := c.Params("id")
		session, err := sessions.Get(sessionID)
		if err != nil {
			_ = c.WriteJSON(map[string]string{"error": "session not found"})
			return
		}

		log := logging.For("ws").With("session_id", sessionID)
		log.Info("ws widget connected", "remote", c.RemoteAddr().String())
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		writeRaw := func(data []byte) error {
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		// Relay render commands for this session to the widget
		sub, err := nc.Subscribe(natsadapter.SubjectRenderPrefix+sessionID, func(msg *nats.Msg) {
			_ = writeRaw(msg.Data)
		})
		if err != nil {
			log.Error("render relay subscribe failed", "error", err)
			return
		}
		defer func() { _ = sub.Unsubscribe() }()

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Widget callbacks: clicks and completed drawings
		ctx := context.Background()
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var in wsInbound
			if err := json.Unmarshal(msg, &in); err != nil {
				_ = writeRaw([]byte(`{"error":"invalid JSON"}`))
				continue
			}

			switch in.Event {
			case "click":
				session.HandleClick(ctx, in.Lat, in.Lon)
				metrics.ClicksForwarded.Inc()
			case "draw_created":
				session.HandleDrawCreated(ctx, in.Generation, domain.LayerID(in.Layer), in.Feature)
				metrics.DrawEvents.WithLabelValues("received").Inc()
			default:
				_ = writeRaw([]byte(`{"error":"unknown event: ` + in.Event + `"}`))
			}
		}

		log.Info("ws widget disconnected")
	}
}
