package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/paulmach/orb/geojson"

	"casemap/internal/core/domain"
	"casemap/internal/core/ports"
	"casemap/internal/pkg/metrics"
)

// RenderCommand is the wire form of one widget instruction. The host
// page subscribes to its session's render subject and replays commands
// against the actual map widget.
type RenderCommand struct {
	Op    string         `json:"op"`
	Layer domain.LayerID `json:"layer,omitempty"`

	Config *ports.MapConfig `json:"config,omitempty"`

	Point  *domain.GeoPoint  `json:"point,omitempty"`
	Points []domain.GeoPoint `json:"points,omitempty"`
	Bounds *domain.Bounds    `json:"bounds,omitempty"`
	Zoom   int               `json:"zoom,omitempty"`

	RadiusMeters float64               `json:"radius_meters,omitempty"`
	Style        *domain.StyleOptions  `json:"style,omitempty"`
	Marker       *domain.MarkerOptions `json:"marker,omitempty"`

	GeoJSON *geojson.FeatureCollection `json:"geojson,omitempty"`
	// Popups carries pre-rendered popup text per feature, aligned with
	// GeoJSON.Features.
	Popups []string `json:"popups,omitempty"`

	Visible    bool `json:"visible,omitempty"`
	Generation int  `json:"generation,omitempty"`
}

// Renderer implements ports.MapRenderer by publishing render commands
// on the session's NATS subject. Commands are fire-and-forget: layer
// handles are assigned here and echoed to the widget, which binds them
// to the objects it creates.
type Renderer struct {
	conn      *nats.Conn
	sessionID string
	subject   string
}

// NewRenderer builds a remote renderer for one session.
func NewRenderer(conn *nats.Conn, sessionID string) *Renderer {
	return &Renderer{
		conn:      conn,
		sessionID: sessionID,
		subject:   SubjectRenderPrefix + sessionID,
	}
}

func (r *Renderer) publish(cmd RenderCommand) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal render command: %w", err)
	}
	if err := r.conn.Publish(r.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", cmd.Op, err)
	}
	metrics.RenderCommands.WithLabelValues(cmd.Op).Inc()
	return nil
}

func newLayerID() domain.LayerID {
	return domain.LayerID(uuid.NewString())
}

func (r *Renderer) Init(ctx context.Context, cfg ports.MapConfig) error {
	return r.publish(RenderCommand{Op: "init", Config: &cfg})
}

func (r *Renderer) AddMarker(ctx context.Context, p domain.GeoPoint, opts domain.MarkerOptions) (domain.LayerID, error) {
	id := newLayerID()
	err := r.publish(RenderCommand{Op: "add_marker", Layer: id, Point: &p, Marker: &opts})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Renderer) AddCircle(ctx context.Context, center domain.GeoPoint, radiusMeters float64, style domain.StyleOptions) (domain.LayerID, error) {
	id := newLayerID()
	err := r.publish(RenderCommand{Op: "add_circle", Layer: id, Point: &center, RadiusMeters: radiusMeters, Style: &style})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Renderer) AddPolygon(ctx context.Context, points []domain.GeoPoint, style domain.StyleOptions) (domain.LayerID, error) {
	id := newLayerID()
	err := r.publish(RenderCommand{Op: "add_polygon", Layer: id, Points: points, Style: &style})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Renderer) AddPolyline(ctx context.Context, points []domain.GeoPoint, style domain.StyleOptions) (domain.LayerID, error) {
	id := newLayerID()
	err := r.publish(RenderCommand{Op: "add_polyline", Layer: id, Points: points, Style: &style})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Renderer) AddGeoJSON(ctx context.Context, fc *geojson.FeatureCollection, style domain.StyleOptions, popup func(geojson.Properties) string) (domain.LayerID, error) {
	id := newLayerID()
	cmd := RenderCommand{Op: "add_geojson", Layer: id, GeoJSON: fc, Style: &style}
	if popup != nil {
		cmd.Popups = make([]string, len(fc.Features))
		for i, f := range fc.Features {
			cmd.Popups[i] = popup(f.Properties)
		}
	}
	if err := r.publish(cmd); err != nil {
		return "", err
	}
	return id, nil
}

func (r *Renderer) MoveMarker(ctx context.Context, id domain.LayerID, p domain.GeoPoint) error {
	return r.publish(RenderCommand{Op: "move_marker", Layer: id, Point: &p})
}

func (r *Renderer) RemoveLayer(ctx context.Context, id domain.LayerID) error {
	return r.publish(RenderCommand{Op: "remove_layer", Layer: id})
}

func (r *Renderer) SetView(ctx context.Context, center domain.GeoPoint, zoom int) error {
	return r.publish(RenderCommand{Op: "set_view", Point: &center, Zoom: zoom})
}

func (r *Renderer) PanTo(ctx context.Context, center domain.GeoPoint) error {
	return r.publish(RenderCommand{Op: "pan_to", Point: &center})
}

func (r *Renderer) FitBounds(ctx context.Context, b domain.Bounds) error {
	return r.publish(RenderCommand{Op: "fit_bounds", Bounds: &b})
}

func (r *Renderer) ShowDrawControl(ctx context.Context, visible bool, generation int, style domain.StyleOptions) error {
	return r.publish(RenderCommand{Op: "draw_control", Visible: visible, Generation: generation, Style: &style})
}

func (r *Renderer) Destroy(ctx context.Context) error {
	return r.publish(RenderCommand{Op: "destroy"})
}
