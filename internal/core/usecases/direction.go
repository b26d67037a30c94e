package usecases

import (
	"context"

	"casemap/internal/core/domain"
	"casemap/internal/pkg/geospatial"
)

// ArrowOptions tunes direction-arrow rendering. Zero values fall back
// to the session defaults.
type ArrowOptions struct {
	SizePx    int     `json:"size_px,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`
	DashArray string  `json:"dash_array,omitempty"`
}

func (o ArrowOptions) withDefaults(baseSize int) ArrowOptions {
	if o.SizePx == 0 {
		o.SizePx = baseSize
	}
	if o.Weight == 0 {
		o.Weight = 3
	}
	if o.Opacity == 0 {
		o.Opacity = 0.9
	}
	return o
}

// AddDirectionArrow renders a styled line between two points with a
// rotated triangular arrowhead at the destination, oriented by the
// computed bearing, plus an optional label at the midpoint. All
// renderables join the shared direction-arrows group.
func (s *MapSession) AddDirectionArrow(ctx context.Context, from, to domain.GeoPoint, label, color string, opts ArrowOptions) domain.DirectionArrow {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("add_direction_arrow") {
		return domain.DirectionArrow{}
	}
	return s.addDirectionArrowLocked(ctx, from, to, label, color, opts.withDefaults(s.cfg.ArrowSizePx))
}

func (s *MapSession) addDirectionArrowLocked(ctx context.Context, from, to domain.GeoPoint, label, color string, opts ArrowOptions) domain.DirectionArrow {
	if color == "" {
		color = "#d33"
	}

	line, err := s.renderer.AddPolyline(ctx, []domain.GeoPoint{from, to}, domain.StyleOptions{
		Color:     color,
		Weight:    domain.Float(opts.Weight),
		Opacity:   domain.Float(opts.Opacity),
		DashArray: opts.DashArray,
	})
	if err != nil {
		s.log.Warn("arrow line failed", "error", err)
		return domain.DirectionArrow{}
	}
	s.arrows = append(s.arrows, line)

	brg := geospatial.Bearing(from, to)

	arrow := domain.DirectionArrow{Line: line, Bearing: brg}

	head, err := s.renderer.AddMarker(ctx, to, domain.MarkerOptions{
		Icon:        "arrowhead",
		SizePx:      opts.SizePx,
		Color:       color,
		Opacity:     opts.Opacity,
		RotationDeg: brg,
	})
	if err != nil {
		s.log.Warn("arrowhead failed", "error", err)
	} else {
		s.arrows = append(s.arrows, head)
		arrow.Arrowhead = head
	}

	if label != "" {
		lbl, err := s.renderer.AddMarker(ctx, geospatial.Midpoint(from, to), domain.MarkerOptions{
			Icon:    "label",
			Label:   label,
			Color:   color,
			Opacity: opts.Opacity,
		})
		if err != nil {
			s.log.Warn("arrow label failed", "error", err)
		} else {
			s.arrows = append(s.arrows, lbl)
			arrow.Label = lbl
		}
	}

	s.bump()
	return arrow
}

// AddInvestigationPath renders one continuous line through all points,
// then a direction arrow for every consecutive pair to indicate travel
// direction: smaller arrowheads, reduced opacity, and the label only
// on the first segment. Returns the handle of the continuous line.
func (s *MapSession) AddInvestigationPath(ctx context.Context, points []domain.GeoPoint, label, color string, opts ArrowOptions) domain.LayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard("add_investigation_path") {
		return ""
	}
	if len(points) < 2 {
		s.log.Warn("investigation path needs at least 2 points", "got", len(points))
		return ""
	}
	if color == "" {
		color = "#d33"
	}
	opts = opts.withDefaults(s.cfg.ArrowSizePx)

	line, err := s.renderer.AddPolyline(ctx, points, domain.StyleOptions{
		Color:     color,
		Weight:    domain.Float(opts.Weight),
		Opacity:   domain.Float(opts.Opacity),
		DashArray: opts.DashArray,
	})
	if err != nil {
		s.log.Warn("investigation path line failed", "error", err)
		return ""
	}
	s.arrows = append(s.arrows, line)

	segOpts := opts
	segOpts.SizePx = opts.SizePx * 3 / 4
	segOpts.Opacity = opts.Opacity * 0.6

	for i := 0; i < len(points)-1; i++ {
		segLabel := ""
		if i == 0 {
			segLabel = label
		}
		s.addDirectionArrowLocked(ctx, points[i], points[i+1], segLabel, color, segOpts)
	}

	s.bump()
	return line
}
