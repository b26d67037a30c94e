package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/paulmach/orb/geojson"

	"casemap/internal/core/domain"
	"casemap/internal/core/ports"
	"casemap/internal/pkg/geospatial"
	"casemap/internal/pkg/logging"
)

// SessionConfig carries the per-session map defaults.
type SessionConfig struct {
	Map ports.MapConfig

	// DefaultZoom is used when recentering on degenerate single-point
	// bounds. FallbackZoom is the reduced zoom used when the renderer
	// rejects a fit-bounds request.
	DefaultZoom  int
	FallbackZoom int

	// DrawStyle is the default styling for user-drawn shapes.
	DrawStyle domain.StyleOptions

	// ArrowSizePx is the base arrowhead glyph size.
	ArrowSizePx int
}

// MapSession owns one map widget instance and every overlay rendered
// onto it. All operations are fail-soft: called before the map exists
// or after Dispose they no-op (logging at debug level) instead of
// surfacing an error the host cannot recover from. Invalid input is
// logged and ignored without mutating state.
//
// Operations are serialised by an internal mutex, which preserves the
// invocation-order guarantee for add/remove calls.
type MapSession struct {
	id       string
	renderer ports.MapRenderer
	events   ports.EventPublisher
	log      *slog.Logger
	cfg      SessionConfig

	mu       sync.Mutex
	ready    bool
	disposed bool
	revision uint64

	markers   []domain.LayerID
	circles   []domain.LayerID
	polygons  []domain.LayerID
	polylines []domain.LayerID
	geoLayers []domain.LayerID
	arrows    []domain.LayerID
	records   []domain.InvestigationRecord

	draw     drawTools
	timeline timeline
}

// NewMapSession builds a session around a renderer. events may be nil
// when no host bridge is attached (tests, batch import tools).
func NewMapSession(id string, renderer ports.MapRenderer, events ports.EventPublisher, cfg SessionConfig) *MapSession {
	if cfg.DefaultZoom == 0 {
		cfg.DefaultZoom = 15
	}
	if cfg.FallbackZoom == 0 {
		cfg.FallbackZoom = 10
	}
	if cfg.ArrowSizePx == 0 {
		cfg.ArrowSizePx = 16
	}
	return &MapSession{
		id:       id,
		renderer: renderer,
		events:   events,
		log:      logging.ForSession(id),
		cfg:      cfg,
	}
}

// CreateMap initialises the map widget. Unlike the overlay operations
// this reports failure: a session without a map is useless and the
// caller should not hand it out.
func (s *MapSession) CreateMap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return errDisposed
	}
	if s.ready {
		return nil
	}
	if err := s.renderer.Init(ctx, s.cfg.Map); err != nil {
		return err
	}
	s.ready = true
	return nil
}

// ID returns the session identifier.
func (s *MapSession) ID() string { return s.id }

// Ready reports whether the map widget has been created.
func (s *MapSession) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready && !s.disposed
}

// Revision increments on every mutation; export caches key on it.
func (s *MapSession) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Counts returns the tracked overlay totals per group.
func (s *MapSession) Counts() domain.OverlayCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.OverlayCounts{
		Markers:        len(s.markers),
		Circles:        len(s.circles),
		Polygons:       len(s.polygons),
		Polylines:      len(s.polylines),
		GeoJSONLayers:  len(s.geoLayers),
		Drawn:          len(s.draw.items),
		ArrowLayers:    len(s.arrows),
		Investigations: len(s.records),
	}
}

// guard reports whether an operation may proceed. Callers hold the
// lock. A false return means the call must silently no-op.
func (s *MapSession) guard(op string) bool {
	if s.disposed {
		s.log.Debug("ignoring call on disposed session", "op", op)
		return false
	}
	if !s.ready {
		s.log.Debug("ignoring call before map creation", "op", op)
		return false
	}
	return true
}

func (s *MapSession) bump() { s.revision++ }

// AddMarker creates a point marker, optionally with a popup opened on
// creation, and tracks its handle.
func (s *MapSession) AddMarker(ctx context.Context, p domain.GeoPoint, popupText string) domain.LayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("add_marker") {
		return ""
	}

	id, err := s.renderer.AddMarker(ctx, p, domain.MarkerOptions{
		PopupText: popupText,
		OpenPopup: popupText != "",
	})
	if err != nil {
		s.log.Warn("add marker failed", "error", err)
		return ""
	}
	s.markers = append(s.markers, id)
	s.bump()
	return id
}

// AddCircle renders a circle with the caller's style merged over the
// circle defaults.
func (s *MapSession) AddCircle(ctx context.Context, center domain.GeoPoint, radiusMeters float64, style domain.StyleOptions) domain.LayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("add_circle") {
		return ""
	}

	id, err := s.renderer.AddCircle(ctx, center, radiusMeters, style.WithDefaults(domain.CircleDefaults()))
	if err != nil {
		s.log.Warn("add circle failed", "error", err)
		return ""
	}
	s.circles = append(s.circles, id)
	s.bump()
	return id
}

// AddPolygon renders a polygon with the polygon default styling.
func (s *MapSession) AddPolygon(ctx context.Context, points []domain.GeoPoint, style domain.StyleOptions) domain.LayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("add_polygon") {
		return ""
	}
	if len(points) < 3 {
		s.log.Warn("polygon needs at least 3 points", "got", len(points))
		return ""
	}

	id, err := s.renderer.AddPolygon(ctx, points, style.WithDefaults(domain.PolygonDefaults()))
	if err != nil {
		s.log.Warn("add polygon failed", "error", err)
		return ""
	}
	s.polygons = append(s.polygons, id)
	s.bump()
	return id
}

// AddPolyline renders a line through points with the polyline defaults.
func (s *MapSession) AddPolyline(ctx context.Context, points []domain.GeoPoint, style domain.StyleOptions) domain.LayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("add_polyline") {
		return ""
	}
	if len(points) < 2 {
		s.log.Warn("polyline needs at least 2 points", "got", len(points))
		return ""
	}

	id, err := s.renderer.AddPolyline(ctx, points, style.WithDefaults(domain.PolylineDefaults()))
	if err != nil {
		s.log.Warn("add polyline failed", "error", err)
		return ""
	}
	s.polylines = append(s.polylines, id)
	s.bump()
	return id
}

// AddGeoJSON renders a feature collection as a single styled layer.
func (s *MapSession) AddGeoJSON(ctx context.Context, fc *geojson.FeatureCollection, style domain.StyleOptions) domain.LayerID {
	return s.addGeoJSON(ctx, fc, style, nil)
}

// AddGeoJSONWithPopup renders a feature collection with per-feature
// popups built by substituting {property} placeholders from each
// feature's properties. Placeholders without a matching property are
// left verbatim.
func (s *MapSession) AddGeoJSONWithPopup(ctx context.Context, fc *geojson.FeatureCollection, popupTemplate string) domain.LayerID {
	return s.addGeoJSON(ctx, fc, domain.StyleOptions{}, func(props geojson.Properties) string {
		return RenderPopup(popupTemplate, props)
	})
}

// AddGeoJSONAutoPopup renders a feature collection with popups listing
// every feature property as "key: value" lines.
func (s *MapSession) AddGeoJSONAutoPopup(ctx context.Context, fc *geojson.FeatureCollection) domain.LayerID {
	return s.addGeoJSON(ctx, fc, domain.StyleOptions{}, PropertiesPopup)
}

func (s *MapSession) addGeoJSON(ctx context.Context, fc *geojson.FeatureCollection, style domain.StyleOptions, popup func(geojson.Properties) string) domain.LayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("add_geojson") {
		return ""
	}
	if fc == nil {
		s.log.Warn("nil feature collection ignored")
		return ""
	}

	id, err := s.renderer.AddGeoJSON(ctx, fc, style, popup)
	if err != nil {
		s.log.Warn("add geojson failed", "error", err)
		return ""
	}
	s.geoLayers = append(s.geoLayers, id)
	s.bump()
	return id
}

// RemoveLayer detaches one tracked overlay. Unknown or already-removed
// handles are a no-op.
func (s *MapSession) RemoveLayer(ctx context.Context, id domain.LayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("remove_layer") {
		return
	}

	if err := s.renderer.RemoveLayer(ctx, id); err != nil {
		s.log.Warn("remove layer failed", "layer", id, "error", err)
	}
	s.markers = dropLayer(s.markers, id)
	s.circles = dropLayer(s.circles, id)
	s.polygons = dropLayer(s.polygons, id)
	s.polylines = dropLayer(s.polylines, id)
	s.geoLayers = dropLayer(s.geoLayers, id)
	s.arrows = dropLayer(s.arrows, id)
	s.draw.drop(id)
	s.records = dropRecord(s.records, id)
	s.bump()
}

// ClearMap removes every tracked overlay and empties all tracking
// lists. Base tile layers are never touched: only handles this
// registry issued are removed.
func (s *MapSession) ClearMap(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("clear_map") {
		return
	}
	s.removeAllLocked(ctx)
	s.bump()
}

func (s *MapSession) removeAllLocked(ctx context.Context) {
	for _, group := range [][]domain.LayerID{
		s.markers, s.circles, s.polygons, s.polylines, s.geoLayers, s.arrows,
	} {
		for _, id := range group {
			if err := s.renderer.RemoveLayer(ctx, id); err != nil {
				s.log.Warn("remove layer failed", "layer", id, "error", err)
			}
		}
	}
	for _, item := range s.draw.items {
		if err := s.renderer.RemoveLayer(ctx, item.layer); err != nil {
			s.log.Warn("remove drawn layer failed", "layer", item.layer, "error", err)
		}
	}
	for _, rec := range s.records {
		if err := s.renderer.RemoveLayer(ctx, rec.Layer); err != nil {
			s.log.Warn("remove investigation marker failed", "layer", rec.Layer, "error", err)
		}
	}
	s.markers = nil
	s.circles = nil
	s.polygons = nil
	s.polylines = nil
	s.geoLayers = nil
	s.arrows = nil
	s.records = nil
	s.draw.items = nil
	s.timeline.stop(ctx, s.renderer, s.log)
}

// Dispose tears the session down: removes all tracked overlays and
// controls, destroys the map instance and flips the disposed flag.
// Idempotent; every operation after it is a silent no-op.
func (s *MapSession) Dispose(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	if s.ready {
		s.removeAllLocked(ctx)
		if err := s.renderer.Destroy(ctx); err != nil {
			s.log.Warn("destroy map failed", "error", err)
		}
	}
	s.disposed = true
	s.ready = false

	if s.events != nil {
		if err := s.events.PublishSessionClosed(ctx, s.id); err != nil {
			s.log.Warn("publish session closed failed", "error", err)
		}
	}
}

// SetView recenters the map at the given zoom.
func (s *MapSession) SetView(ctx context.Context, center domain.GeoPoint, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("set_view") {
		return
	}
	if err := geospatial.ValidateCoords(center.Lat, center.Lon); err != nil {
		s.log.Error("set view rejected", "error", err)
		return
	}
	if err := s.renderer.SetView(ctx, center, zoom); err != nil {
		s.log.Warn("set view failed", "error", err)
	}
}

// PanTo pans the map without changing zoom.
func (s *MapSession) PanTo(ctx context.Context, center domain.GeoPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("pan_to") {
		return
	}
	if err := geospatial.ValidateCoords(center.Lat, center.Lon); err != nil {
		s.log.Error("pan rejected", "error", err)
		return
	}
	if err := s.renderer.PanTo(ctx, center); err != nil {
		s.log.Warn("pan failed", "error", err)
	}
}

// FitBounds fits the view to raw bounds input, a pair of [lat, lon]
// pairs (south-west, north-east). Malformed input is logged and leaves
// the map untouched. A degenerate single-point bound recenters at the
// default zoom. If the renderer rejects the fit, the session recovers
// by centering on the bounds midpoint at a reduced zoom.
func (s *MapSession) FitBounds(ctx context.Context, corners [][]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("fit_bounds") {
		return
	}

	b, err := geospatial.ParseBounds(corners)
	if err != nil {
		s.log.Error("fit bounds rejected", "error", err)
		return
	}

	if b.IsDegenerate() {
		if err := s.renderer.SetView(ctx, b.Center(), s.cfg.DefaultZoom); err != nil {
			s.log.Warn("recenter on degenerate bounds failed", "error", err)
		}
		return
	}

	if err := s.renderer.FitBounds(ctx, b); err != nil {
		s.log.Warn("fit bounds failed, falling back to midpoint", "error", err)
		if err := s.renderer.SetView(ctx, b.Center(), s.cfg.FallbackZoom); err != nil {
			s.log.Warn("fallback recenter failed", "error", err)
		}
	}
}

// FitAround fits the view to a box of the given radius in meters
// around a point, so a circle or cluster at that spot fills the
// viewport. Invalid input is logged and leaves the map untouched; a
// rejected fit recovers the same way FitBounds does.
func (s *MapSession) FitAround(ctx context.Context, center domain.GeoPoint, radiusMeters float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("fit_around") {
		return
	}
	if err := geospatial.ValidateCoords(center.Lat, center.Lon); err != nil || radiusMeters <= 0 {
		s.log.Error("invalid fit-around input", "lat", center.Lat, "lon", center.Lon, "radius_m", radiusMeters)
		return
	}

	b := geospatial.BoundingBox(center, radiusMeters)
	if err := s.renderer.FitBounds(ctx, b); err != nil {
		s.log.Warn("fit around failed, falling back to center", "error", err)
		if err := s.renderer.SetView(ctx, center, s.cfg.FallbackZoom); err != nil {
			s.log.Warn("fallback recenter failed", "error", err)
		}
	}
}

// HandleClick forwards one map click to the host bridge. This is the
// only call the session ever makes toward the host proactively.
func (s *MapSession) HandleClick(ctx context.Context, lat, lon float64) {
	s.mu.Lock()
	if !s.guard("click") {
		s.mu.Unlock()
		return
	}
	events := s.events
	s.mu.Unlock()

	if events == nil {
		return
	}
	if err := events.PublishClick(ctx, s.id, lat, lon); err != nil {
		s.log.Warn("forward click failed", "error", err)
	}
}

func dropLayer(list []domain.LayerID, id domain.LayerID) []domain.LayerID {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func dropRecord(list []domain.InvestigationRecord, id domain.LayerID) []domain.InvestigationRecord {
	for i, r := range list {
		if r.Layer == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
