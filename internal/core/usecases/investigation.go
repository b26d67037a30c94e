package usecases

import (
	"context"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"casemap/internal/core/domain"
)

// AddInvestigationMarker places a typed case marker and records its
// metadata. Unknown types fall back to the crime-scene icon.
func (s *MapSession) AddInvestigationMarker(ctx context.Context, p domain.GeoPoint, title, description, markerType string) *domain.InvestigationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("add_investigation_marker") {
		return nil
	}
	return s.addInvestigationLocked(ctx, p, title, description, markerType, time.Now().UTC())
}

func (s *MapSession) addInvestigationLocked(ctx context.Context, p domain.GeoPoint, title, description, markerType string, createdAt time.Time) *domain.InvestigationRecord {
	typ := domain.ParseMarkerType(markerType)

	popup := title
	if description != "" {
		popup = title + "\n" + description
	}

	layer, err := s.renderer.AddMarker(ctx, p, domain.MarkerOptions{
		Icon:      string(typ),
		PopupText: popup,
	})
	if err != nil {
		s.log.Warn("investigation marker failed", "error", err)
		return nil
	}

	rec := domain.InvestigationRecord{
		Layer:       layer,
		Location:    p,
		Title:       title,
		Description: description,
		Type:        typ,
		CreatedAt:   createdAt,
	}
	s.records = append(s.records, rec)
	s.bump()
	return &rec
}

// InvestigationRecords returns a copy of the tracked records.
func (s *MapSession) InvestigationRecords() []domain.InvestigationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.InvestigationRecord, len(s.records))
	copy(out, s.records)
	return out
}

// InvestigationGeoJSON exports all investigation markers as a feature
// collection with their metadata carried in feature properties.
func (s *MapSession) InvestigationGeoJSON() *geojson.FeatureCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("investigation_geojson") {
		return nil
	}

	fc := geojson.NewFeatureCollection()
	for _, rec := range s.records {
		f := geojson.NewFeature(orb.Point{rec.Location.Lon, rec.Location.Lat})
		f.Properties = geojson.Properties{
			"title":       rec.Title,
			"description": rec.Description,
			"type":        string(rec.Type),
			"created_at":  rec.CreatedAt.Format(time.RFC3339),
		}
		fc.Append(f)
	}
	return fc
}

// LoadInvestigationGeoJSON imports point features as investigation
// markers, merging with existing records. Non-point features are
// skipped with a log entry.
func (s *MapSession) LoadInvestigationGeoJSON(ctx context.Context, fc *geojson.FeatureCollection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("load_investigation_geojson") {
		return
	}
	if fc == nil {
		s.log.Warn("nil feature collection ignored")
		return
	}

	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			s.log.Warn("skipping non-point investigation feature", "type", f.Geometry.GeoJSONType())
			continue
		}

		createdAt := time.Now().UTC()
		if raw := f.Properties.MustString("created_at", ""); raw != "" {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				createdAt = t
			}
		}

		s.addInvestigationLocked(ctx,
			domain.GeoPoint{Lat: pt.Lat(), Lon: pt.Lon()},
			f.Properties.MustString("title", ""),
			f.Properties.MustString("description", ""),
			f.Properties.MustString("type", ""),
			createdAt,
		)
	}
}

// ClearInvestigation removes all investigation markers and records.
func (s *MapSession) ClearInvestigation(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("clear_investigation") {
		return
	}
	for _, rec := range s.records {
		if err := s.renderer.RemoveLayer(ctx, rec.Layer); err != nil {
			s.log.Warn("remove investigation marker failed", "layer", rec.Layer, "error", err)
		}
	}
	s.records = nil
	s.bump()
}
