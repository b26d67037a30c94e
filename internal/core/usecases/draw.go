package usecases

import (
	"context"
	"encoding/json"

	"github.com/paulmach/orb/geojson"

	"casemap/internal/core/domain"
)

// Drawing-tools controller states.
const (
	DrawUninitialized = "uninitialized"
	DrawEnabled       = "enabled"
	DrawDisabled      = "disabled"
)

type drawnItem struct {
	layer   domain.LayerID
	feature *geojson.Feature
}

// drawTools holds the drawn-items group and the drawing-control state
// machine. It is guarded by the owning session's mutex. generation
// tags the current control instance: draw events from a control that
// was since replaced carry an older generation and are dropped, so
// exactly one subscription is ever live.
type drawTools struct {
	state      string
	generation int
	style      domain.StyleOptions
	items      []drawnItem
}

func (d *drawTools) drop(id domain.LayerID) {
	for i, item := range d.items {
		if item.layer == id {
			d.items = append(d.items[:i], d.items[i+1:]...)
			return
		}
	}
}

// InitDrawTools creates a fresh drawn-items group and drawing control,
// replacing any prior instance. Previously drawn items are discarded;
// that mirrors the observed widget behaviour where a style change
// forces a full re-init.
func (s *MapSession) InitDrawTools(ctx context.Context, style domain.StyleOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("init_draw_tools") {
		return
	}

	for _, item := range s.draw.items {
		if err := s.renderer.RemoveLayer(ctx, item.layer); err != nil {
			s.log.Warn("discard drawn layer failed", "layer", item.layer, "error", err)
		}
	}
	s.draw.items = nil
	s.draw.generation++
	s.draw.state = DrawEnabled
	s.draw.style = style.WithDefaults(s.cfg.DrawStyle)

	if err := s.renderer.ShowDrawControl(ctx, true, s.draw.generation, s.draw.style); err != nil {
		s.log.Warn("show draw control failed", "error", err)
	}
	s.bump()
}

// EnableDrawing shows the drawing control. Enabling twice is a no-op;
// drawn items are untouched.
func (s *MapSession) EnableDrawing(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("enable_drawing") {
		return
	}
	switch s.draw.state {
	case DrawUninitialized, "":
		s.log.Debug("enable drawing before init ignored")
	case DrawEnabled:
		// already visible
	default:
		s.draw.state = DrawEnabled
		if err := s.renderer.ShowDrawControl(ctx, true, s.draw.generation, s.draw.style); err != nil {
			s.log.Warn("show draw control failed", "error", err)
		}
	}
}

// DisableDrawing hides the drawing control without discarding drawn
// items. Idempotent.
func (s *MapSession) DisableDrawing(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("disable_drawing") {
		return
	}
	switch s.draw.state {
	case DrawUninitialized, "":
		s.log.Debug("disable drawing before init ignored")
	case DrawDisabled:
		// already hidden
	default:
		s.draw.state = DrawDisabled
		if err := s.renderer.ShowDrawControl(ctx, false, s.draw.generation, s.draw.style); err != nil {
			s.log.Warn("hide draw control failed", "error", err)
		}
	}
}

// DrawState returns the controller state for introspection.
func (s *MapSession) DrawState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draw.state == "" {
		return DrawUninitialized
	}
	return s.draw.state
}

// HandleDrawCreated records a user-completed drawing. generation must
// match the current control instance; events from a control replaced
// by a later InitDrawTools are stale and dropped.
func (s *MapSession) HandleDrawCreated(ctx context.Context, generation int, layer domain.LayerID, feature *geojson.Feature) {
	s.mu.Lock()
	if !s.guard("draw_created") {
		s.mu.Unlock()
		return
	}
	if s.draw.state == DrawUninitialized || s.draw.state == "" {
		s.log.Debug("draw event before init dropped")
		s.mu.Unlock()
		return
	}
	if generation != s.draw.generation {
		s.log.Debug("stale draw event dropped", "got", generation, "want", s.draw.generation)
		s.mu.Unlock()
		return
	}
	if feature == nil {
		s.log.Warn("draw event without feature dropped")
		s.mu.Unlock()
		return
	}

	s.draw.items = append(s.draw.items, drawnItem{layer: layer, feature: feature})
	s.bump()
	events := s.events
	s.mu.Unlock()

	if events == nil {
		return
	}
	data, err := json.Marshal(feature)
	if err != nil {
		s.log.Warn("marshal drawn feature failed", "error", err)
		return
	}
	if err := events.PublishDrawCreated(ctx, s.id, data); err != nil {
		s.log.Warn("publish draw event failed", "error", err)
	}
}

// DrawnGeoJSON serialises the drawn-items group to a feature
// collection. Returns an empty collection when nothing was drawn and
// nil when the session is not usable.
func (s *MapSession) DrawnGeoJSON() *geojson.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("drawn_geojson") {
		return nil
	}

	fc := geojson.NewFeatureCollection()
	for _, item := range s.draw.items {
		fc.Append(item.feature)
	}
	return fc
}

// AddDrawnFromGeoJSON deserialises features into the drawn-items
// group, merging with whatever is already there.
func (s *MapSession) AddDrawnFromGeoJSON(ctx context.Context, fc *geojson.FeatureCollection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("add_drawn_from_geojson") {
		return
	}
	if s.draw.state == DrawUninitialized || s.draw.state == "" {
		s.log.Debug("drawn import before init ignored")
		return
	}
	if fc == nil {
		s.log.Warn("nil feature collection ignored")
		return
	}

	for _, f := range fc.Features {
		single := geojson.NewFeatureCollection()
		single.Append(f)
		layer, err := s.renderer.AddGeoJSON(ctx, single, s.draw.style, nil)
		if err != nil {
			s.log.Warn("render imported drawing failed", "error", err)
			continue
		}
		s.draw.items = append(s.draw.items, drawnItem{layer: layer, feature: f})
	}
	s.bump()
}

// ClearAllDrawn empties the drawn-items group in place. The control
// and its subscription remain valid.
func (s *MapSession) ClearAllDrawn(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("clear_all_drawn") {
		return
	}

	for _, item := range s.draw.items {
		if err := s.renderer.RemoveLayer(ctx, item.layer); err != nil {
			s.log.Warn("remove drawn layer failed", "layer", item.layer, "error", err)
		}
	}
	s.draw.items = nil
	s.bump()
}

// DrawGeneration returns the current control generation, used by the
// bridge to tag outgoing draw controls.
func (s *MapSession) DrawGeneration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draw.generation
}
