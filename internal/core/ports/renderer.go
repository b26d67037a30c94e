package ports

import (
	"context"

	"github.com/paulmach/orb/geojson"

	"casemap/internal/core/domain"
)

// MapConfig describes the base map a renderer should create: tile
// layer, initial view and optional mini-map control. Tile fetching and
// projection are entirely the renderer's business.
type MapConfig struct {
	Center          domain.GeoPoint `json:"center"`
	Zoom            int             `json:"zoom"`
	TileURL         string          `json:"tile_url"`
	TileAttribution string          `json:"tile_attribution"`
	MiniMap         bool            `json:"mini_map"`
}

// MapRenderer is the capability interface over the interactive-map
// widget. Implementations own all geometry rendering, tiling and
// projection; this module never reimplements any of it. Every Add*
// call returns the opaque handle of the created overlay.
type MapRenderer interface {
	// Init creates the map instance with its base tile layer.
	Init(ctx context.Context, cfg MapConfig) error

	AddMarker(ctx context.Context, p domain.GeoPoint, opts domain.MarkerOptions) (domain.LayerID, error)
	AddCircle(ctx context.Context, center domain.GeoPoint, radiusMeters float64, style domain.StyleOptions) (domain.LayerID, error)
	AddPolygon(ctx context.Context, points []domain.GeoPoint, style domain.StyleOptions) (domain.LayerID, error)
	AddPolyline(ctx context.Context, points []domain.GeoPoint, style domain.StyleOptions) (domain.LayerID, error)

	// AddGeoJSON renders a feature collection as one layer. popup, when
	// non-nil, builds per-feature popup text from feature properties.
	AddGeoJSON(ctx context.Context, fc *geojson.FeatureCollection, style domain.StyleOptions, popup func(props geojson.Properties) string) (domain.LayerID, error)

	// MoveMarker repositions an existing marker.
	MoveMarker(ctx context.Context, id domain.LayerID, p domain.GeoPoint) error

	// RemoveLayer detaches one overlay. Removing an already-removed
	// layer is a widget-level no-op, not an error.
	RemoveLayer(ctx context.Context, id domain.LayerID) error

	SetView(ctx context.Context, center domain.GeoPoint, zoom int) error
	PanTo(ctx context.Context, center domain.GeoPoint) error
	FitBounds(ctx context.Context, b domain.Bounds) error

	// ShowDrawControl toggles the drawing-tool UI. generation tags the
	// control instance so stale draw events can be told apart after a
	// re-init.
	ShowDrawControl(ctx context.Context, visible bool, generation int, style domain.StyleOptions) error

	// Destroy tears down the map instance. Must be safe to call once;
	// the session guarantees it is never called twice.
	Destroy(ctx context.Context) error
}
