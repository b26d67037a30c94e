package domain

// LayerID is the opaque handle assigned to a rendered overlay. It is
// only meaningful to the renderer that issued it; the registry keeps it
// for later targeted removal.
type LayerID string

// OverlayKind classifies a tracked overlay.
type OverlayKind string

const (
	KindMarker   OverlayKind = "marker"
	KindCircle   OverlayKind = "circle"
	KindPolygon  OverlayKind = "polygon"
	KindPolyline OverlayKind = "polyline"
	KindGeoJSON  OverlayKind = "geojson"
)

// MarkerOptions configures a point marker. Icon selects a renderer-side
// glyph; RotationDeg orients it clockwise from north.
type MarkerOptions struct {
	PopupText   string  `json:"popup_text,omitempty"`
	OpenPopup   bool    `json:"open_popup,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	SizePx      int     `json:"size_px,omitempty"`
	Color       string  `json:"color,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	RotationDeg float64 `json:"rotation_deg,omitempty"`
	Label       string  `json:"label,omitempty"`
}

// DirectionArrow is the result of rendering a directional indicator
// between two points: the connecting line, the rotated arrowhead at the
// destination, an optional midpoint label, and the computed bearing.
type DirectionArrow struct {
	Line      LayerID `json:"line"`
	Arrowhead LayerID `json:"arrowhead"`
	Label     LayerID `json:"label,omitempty"`
	Bearing   float64 `json:"bearing"`
}

// OverlayCounts summarises the tracked overlays of one session.
type OverlayCounts struct {
	Markers        int `json:"markers"`
	Circles        int `json:"circles"`
	Polygons       int `json:"polygons"`
	Polylines      int `json:"polylines"`
	GeoJSONLayers  int `json:"geojson_layers"`
	Drawn          int `json:"drawn"`
	ArrowLayers    int `json:"arrow_layers"`
	Investigations int `json:"investigations"`
}

// Total returns the number of tracked overlays across all groups.
func (c OverlayCounts) Total() int {
	return c.Markers + c.Circles + c.Polygons + c.Polylines +
		c.GeoJSONLayers + c.Drawn + c.ArrowLayers + c.Investigations
}
