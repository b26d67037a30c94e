package domain

// StyleOptions enumerates every recognised style attribute for shapes
// and lines. Pointer fields distinguish "not set" from an explicit
// zero, so caller overrides merge field-by-field against the
// per-primitive defaults below.
type StyleOptions struct {
	Color       string   `json:"color,omitempty"`
	FillColor   string   `json:"fill_color,omitempty"`
	FillOpacity *float64 `json:"fill_opacity,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	DashArray   string   `json:"dash_array,omitempty"`
}

// WithDefaults fills unset attributes from d and returns the merged
// style. s always wins where it is set.
func (s StyleOptions) WithDefaults(d StyleOptions) StyleOptions {
	out := s
	if out.Color == "" {
		out.Color = d.Color
	}
	if out.FillColor == "" {
		out.FillColor = d.FillColor
	}
	if out.FillOpacity == nil {
		out.FillOpacity = d.FillOpacity
	}
	if out.Opacity == nil {
		out.Opacity = d.Opacity
	}
	if out.Weight == nil {
		out.Weight = d.Weight
	}
	if out.DashArray == "" {
		out.DashArray = d.DashArray
	}
	return out
}

// Float returns a pointer to v, for building style literals.
func Float(v float64) *float64 { return &v }

// CircleDefaults is the documented default circle styling.
func CircleDefaults() StyleOptions {
	return StyleOptions{
		Color:       "red",
		FillColor:   "#f03",
		FillOpacity: Float(0.5),
		Opacity:     Float(1),
		Weight:      Float(3),
	}
}

// PolygonDefaults is the documented default polygon styling.
func PolygonDefaults() StyleOptions {
	return StyleOptions{
		Color:       "blue",
		FillColor:   "blue",
		FillOpacity: Float(0.2),
		Opacity:     Float(1),
		Weight:      Float(3),
	}
}

// PolylineDefaults is the documented default polyline styling.
func PolylineDefaults() StyleOptions {
	return StyleOptions{
		Color:   "green",
		Opacity: Float(1),
		Weight:  Float(3),
	}
}
