package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb/geojson"

	"casemap/internal/core/domain"
	"casemap/internal/core/usecases"
	"casemap/internal/pkg/geospatial"
	"casemap/internal/pkg/metrics"
)

// sessionView is the JSON shape of one session in API responses.
type sessionView struct {
	ID              string               `json:"id"`
	Ready           bool                 `json:"ready"`
	Revision        uint64               `json:"revision"`
	DrawState       string               `json:"draw_state"`
	TimelineRunning bool                 `json:"timeline_running"`
	Counts          domain.OverlayCounts `json:"counts"`
}

func viewOf(s *usecases.MapSession) sessionView {
	return sessionView{
		ID:              s.ID(),
		Ready:           s.Ready(),
		Revision:        s.Revision(),
		DrawState:       s.DrawState(),
		TimelineRunning: s.TimelineRunning(),
		Counts:          s.Counts(),
	}
}

// sessionFromParams resolves the :id route param to a live session.
// The returned error, when non-nil, is already a rendered response.
func sessionFromParams(c *fiber.Ctx, deps *Dependencies) (*usecases.MapSession, error) {
	id := c.Params("id")
	if id == "" {
		return nil, errBadRequest(c, "session id is required")
	}
	s, err := deps.Sessions.Get(id)
	if err != nil {
		return nil, errNotFound(c, "session not found")
	}
	return s, nil
}

// CreateSessionHandler builds a new map session with a fresh widget.
func CreateSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Sessions.Create(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.ActiveSessions.Set(float64(deps.Sessions.Count()))
		return c.Status(201).JSON(viewOf(s))
	}
}

// ListSessionsHandler lists live sessions with pagination.
func ListSessionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessions := deps.Sessions.List()
		views := make([]sessionView, 0, len(sessions))
		for _, s := range sessions {
			views = append(views, viewOf(s))
		}

		page, pg := Page(views, ParsePagination(c))
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetSessionHandler returns one session's state summary.
func GetSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		return c.JSON(viewOf(s))
	}
}

// CloseSessionHandler disposes a session and removes it.
func CloseSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "session id is required")
		}
		if err := deps.Sessions.Close(c.Context(), id); err != nil {
			return errNotFound(c, "session not found")
		}
		metrics.ActiveSessions.Set(float64(deps.Sessions.Count()))
		return c.SendStatus(204)
	}
}

type pointRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p pointRequest) geoPoint() domain.GeoPoint {
	return domain.GeoPoint{Lat: p.Lat, Lon: p.Lon}
}

// AddMarkerHandler places a marker, optionally with a popup that opens
// on creation.
func AddMarkerHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		pointRequest
		PopupText string `json:"popup_text"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := geospatial.ValidateCoords(req.Lat, req.Lon); err != nil {
			return errBadRequest(c, err.Error())
		}

		layer := s.AddMarker(c.Context(), req.geoPoint(), req.PopupText)
		metrics.OverlaysAdded.WithLabelValues("marker").Inc()
		return c.Status(201).JSON(fiber.Map{"layer": layer})
	}
}

// AddCircleHandler renders a circle with merged styling.
func AddCircleHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		pointRequest
		RadiusMeters float64             `json:"radius_meters"`
		Style        domain.StyleOptions `json:"style"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := geospatial.ValidateCoords(req.Lat, req.Lon); err != nil {
			return errBadRequest(c, err.Error())
		}
		if req.RadiusMeters <= 0 {
			return errBadRequest(c, "radius_meters must be positive")
		}

		layer := s.AddCircle(c.Context(), req.geoPoint(), req.RadiusMeters, req.Style)
		metrics.OverlaysAdded.WithLabelValues("circle").Inc()
		return c.Status(201).JSON(fiber.Map{"layer": layer})
	}
}

type shapeRequest struct {
	Points []pointRequest      `json:"points"`
	Style  domain.StyleOptions `json:"style"`
}

func (r shapeRequest) geoPoints() []domain.GeoPoint {
	out := make([]domain.GeoPoint, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.geoPoint()
	}
	return out
}

// AddPolygonHandler renders a polygon through at least three points.
func AddPolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req shapeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Points) < 3 {
			return errBadRequest(c, "polygon needs at least 3 points")
		}

		layer := s.AddPolygon(c.Context(), req.geoPoints(), req.Style)
		metrics.OverlaysAdded.WithLabelValues("polygon").Inc()
		return c.Status(201).JSON(fiber.Map{"layer": layer})
	}
}

// AddPolylineHandler renders a line through at least two points.
func AddPolylineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req shapeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Points) < 2 {
			return errBadRequest(c, "polyline needs at least 2 points")
		}

		layer := s.AddPolyline(c.Context(), req.geoPoints(), req.Style)
		metrics.OverlaysAdded.WithLabelValues("polyline").Inc()
		return c.Status(201).JSON(fiber.Map{"layer": layer})
	}
}

// AddGeoJSONHandler renders a feature collection as one layer. The
// popup mode is exclusive: popup_template substitutes {property}
// placeholders per feature, auto_popup lists every property.
func AddGeoJSONHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		FeatureCollection *geojson.FeatureCollection `json:"feature_collection"`
		Style             domain.StyleOptions        `json:"style"`
		PopupTemplate     string                     `json:"popup_template"`
		AutoPopup         bool                       `json:"auto_popup"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.FeatureCollection == nil {
			return errBadRequest(c, "feature_collection is required")
		}
		if req.PopupTemplate != "" && req.AutoPopup {
			return errBadRequest(c, "popup_template and auto_popup are mutually exclusive")
		}

		var layer domain.LayerID
		switch {
		case req.PopupTemplate != "":
			layer = s.AddGeoJSONWithPopup(c.Context(), req.FeatureCollection, req.PopupTemplate)
		case req.AutoPopup:
			layer = s.AddGeoJSONAutoPopup(c.Context(), req.FeatureCollection)
		default:
			layer = s.AddGeoJSON(c.Context(), req.FeatureCollection, req.Style)
		}
		metrics.OverlaysAdded.WithLabelValues("geojson").Inc()
		return c.Status(201).JSON(fiber.Map{"layer": layer})
	}
}

// RemoveLayerHandler detaches one tracked overlay by handle.
func RemoveLayerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		layer := c.Params("layer")
		if layer == "" {
			return errBadRequest(c, "layer id is required")
		}
		s.RemoveLayer(c.Context(), domain.LayerID(layer))
		return c.SendStatus(204)
	}
}

// ClearMapHandler removes every tracked overlay from a session.
func ClearMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		s.ClearMap(c.Context())
		return c.SendStatus(204)
	}
}

// SetViewHandler recenters the map at a zoom level.
func SetViewHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		pointRequest
		Zoom int `json:"zoom"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := geospatial.ValidateCoords(req.Lat, req.Lon); err != nil {
			return errBadRequest(c, err.Error())
		}
		s.SetView(c.Context(), req.geoPoint(), req.Zoom)
		return c.SendStatus(204)
	}
}

// PanHandler pans the map without changing zoom.
func PanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req pointRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := geospatial.ValidateCoords(req.Lat, req.Lon); err != nil {
			return errBadRequest(c, err.Error())
		}
		s.PanTo(c.Context(), req.geoPoint())
		return c.SendStatus(204)
	}
}

// FitBoundsHandler fits the view to a south-west/north-east corner
// pair. Malformed bounds are rejected here; the session additionally
// guards against them.
func FitBoundsHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Bounds [][]float64 `json:"bounds"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if _, err := geospatial.ParseBounds(req.Bounds); err != nil {
			return errBadRequest(c, err.Error())
		}
		s.FitBounds(c.Context(), req.Bounds)
		return c.SendStatus(204)
	}
}

// FitAroundHandler fits the view to a radius around a point.
func FitAroundHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		pointRequest
		RadiusMeters float64 `json:"radius_meters"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := geospatial.ValidateCoords(req.Lat, req.Lon); err != nil {
			return errBadRequest(c, err.Error())
		}
		if req.RadiusMeters <= 0 {
			return errBadRequest(c, "radius_meters must be positive")
		}
		s.FitAround(c.Context(), req.geoPoint(), req.RadiusMeters)
		return c.SendStatus(204)
	}
}

// ClickHandler ingests a widget click callback and forwards it to the
// host listeners. One click, one event.
func ClickHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req pointRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		s.HandleClick(c.Context(), req.Lat, req.Lon)
		metrics.ClicksForwarded.Inc()
		return c.SendStatus(202)
	}
}

// InitDrawHandler (re)creates the drawing tools with the given style.
// Prior drawn items are discarded.
func InitDrawHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Style domain.StyleOptions `json:"style"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return errBadRequest(c, "invalid request body")
		}
		s.InitDrawTools(c.Context(), req.Style)
		return c.JSON(fiber.Map{
			"state":      s.DrawState(),
			"generation": s.DrawGeneration(),
		})
	}
}

// EnableDrawHandler shows the drawing control.
func EnableDrawHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		s.EnableDrawing(c.Context())
		return c.JSON(fiber.Map{"state": s.DrawState()})
	}
}

// DisableDrawHandler hides the drawing control, keeping drawn items.
func DisableDrawHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		s.DisableDrawing(c.Context())
		return c.JSON(fiber.Map{"state": s.DrawState()})
	}
}

// ClearDrawnHandler empties the drawn-items group in place.
func ClearDrawnHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		s.ClearAllDrawn(c.Context())
		return c.SendStatus(204)
	}
}

// DrawEventHandler ingests a draw-created callback from the widget.
// Events carrying a stale control generation are silently dropped.
func DrawEventHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Generation int              `json:"generation"`
		Layer      string           `json:"layer"`
		Feature    *geojson.Feature `json:"feature"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		s.HandleDrawCreated(c.Context(), req.Generation, domain.LayerID(req.Layer), req.Feature)
		metrics.DrawEvents.WithLabelValues("received").Inc()
		return c.SendStatus(202)
	}
}

// ExportDrawnHandler serialises the drawn-items group to GeoJSON.
func ExportDrawnHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		data, err := deps.Snapshots.DrawnGeoJSON(c.Context(), id)
		if err != nil {
			return errNotFound(c, "session not found or not ready")
		}
		c.Set("Content-Type", "application/geo+json")
		return c.Send(data)
	}
}

// ImportDrawnHandler merges a GeoJSON feature collection into the
// drawn-items group. The drawing tools must be initialised first.
func ImportDrawnHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		fc, err := geojson.UnmarshalFeatureCollection(c.Body())
		if err != nil {
			return errBadRequest(c, "invalid GeoJSON: "+err.Error())
		}
		s.AddDrawnFromGeoJSON(c.Context(), fc)
		return c.Status(201).JSON(fiber.Map{"imported": len(fc.Features)})
	}
}

// AddArrowHandler renders a direction arrow between two points.
func AddArrowHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		From  pointRequest          `json:"from"`
		To    pointRequest          `json:"to"`
		Label string                `json:"label"`
		Color string                `json:"color"`
		Opts  usecases.ArrowOptions `json:"options"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := geospatial.ValidateCoords(req.From.Lat, req.From.Lon); err != nil {
			return errBadRequest(c, "from: "+err.Error())
		}
		if err := geospatial.ValidateCoords(req.To.Lat, req.To.Lon); err != nil {
			return errBadRequest(c, "to: "+err.Error())
		}

		arrow := s.AddDirectionArrow(c.Context(), req.From.geoPoint(), req.To.geoPoint(), req.Label, req.Color, req.Opts)
		metrics.OverlaysAdded.WithLabelValues("arrow").Inc()
		return c.Status(201).JSON(arrow)
	}
}

// AddPathHandler renders an investigation path: a continuous line with
// per-segment direction arrows.
func AddPathHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Points []pointRequest        `json:"points"`
		Label  string                `json:"label"`
		Color  string                `json:"color"`
		Opts   usecases.ArrowOptions `json:"options"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Points) < 2 {
			return errBadRequest(c, "path needs at least 2 points")
		}

		points := make([]domain.GeoPoint, len(req.Points))
		for i, p := range req.Points {
			points[i] = p.geoPoint()
		}
		layer := s.AddInvestigationPath(c.Context(), points, req.Label, req.Color, req.Opts)
		metrics.OverlaysAdded.WithLabelValues("path").Inc()
		return c.Status(201).JSON(fiber.Map{"layer": layer})
	}
}

// AddInvestigationMarkerHandler places a typed case marker.
func AddInvestigationMarkerHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		pointRequest
		Title       string `json:"title"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := geospatial.ValidateCoords(req.Lat, req.Lon); err != nil {
			return errBadRequest(c, err.Error())
		}
		if req.Title == "" {
			return errBadRequest(c, "title is required")
		}

		rec := s.AddInvestigationMarker(c.Context(), req.geoPoint(), req.Title, req.Description, req.Type)
		if rec == nil {
			return errGone(c, "session is not accepting markers")
		}
		metrics.OverlaysAdded.WithLabelValues("investigation").Inc()
		return c.Status(201).JSON(rec)
	}
}

// ListInvestigationHandler lists case records with pagination.
func ListInvestigationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		page, pg := Page(s.InvestigationRecords(), ParsePagination(c))
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// ExportInvestigationHandler serialises case markers to GeoJSON.
func ExportInvestigationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		data, err := deps.Snapshots.InvestigationGeoJSON(c.Context(), id)
		if err != nil {
			return errNotFound(c, "session not found or not ready")
		}
		c.Set("Content-Type", "application/geo+json")
		return c.Send(data)
	}
}

// ImportInvestigationHandler merges point features as case markers.
func ImportInvestigationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		fc, err := geojson.UnmarshalFeatureCollection(c.Body())
		if err != nil {
			return errBadRequest(c, "invalid GeoJSON: "+err.Error())
		}
		s.LoadInvestigationGeoJSON(c.Context(), fc)
		return c.Status(201).JSON(fiber.Map{"records": len(s.InvestigationRecords())})
	}
}

// ClearInvestigationHandler removes all case markers and records.
func ClearInvestigationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		s.ClearInvestigation(c.Context())
		return c.SendStatus(204)
	}
}

// StartTimelineHandler begins animating a marker through points.
func StartTimelineHandler(deps *Dependencies) fiber.Handler {
	type request struct {
		Points      []pointRequest `json:"points"`
		StepSeconds int            `json:"step_seconds"`
	}
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Points) == 0 {
			return errBadRequest(c, "points are required")
		}

		step := deps.TimelineStep
		if req.StepSeconds > 0 {
			step = time.Duration(req.StepSeconds) * time.Second
		}
		points := make([]domain.GeoPoint, len(req.Points))
		for i, p := range req.Points {
			points[i] = p.geoPoint()
		}
		s.StartTimeline(c.Context(), points, step)
		return c.Status(202).JSON(fiber.Map{"running": s.TimelineRunning()})
	}
}

// StopTimelineHandler halts the animation and removes its marker.
func StopTimelineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		s.StopTimeline(c.Context())
		return c.JSON(fiber.Map{"running": s.TimelineRunning()})
	}
}

// ResetTimelineHandler rewinds a running animation to its first point.
func ResetTimelineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		s.ResetTimeline(c.Context())
		return c.JSON(fiber.Map{"running": s.TimelineRunning()})
	}
}

// GetTimelineHandler reports whether an animation is in progress.
func GetTimelineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, errResp := sessionFromParams(c, deps)
		if errResp != nil {
			return errResp
		}
		return c.JSON(fiber.Map{"running": s.TimelineRunning()})
	}
}

// geoPairFromQuery reads from_/to_ coordinate query params.
func geoPairFromQuery(c *fiber.Ctx) (domain.GeoPoint, domain.GeoPoint, error) {
	from := domain.GeoPoint{Lat: c.QueryFloat("from_lat"), Lon: c.QueryFloat("from_lon")}
	to := domain.GeoPoint{Lat: c.QueryFloat("to_lat"), Lon: c.QueryFloat("to_lon")}
	if err := geospatial.ValidateCoords(from.Lat, from.Lon); err != nil {
		return from, to, err
	}
	if err := geospatial.ValidateCoords(to.Lat, to.Lon); err != nil {
		return from, to, err
	}
	return from, to, nil
}

// BearingHandler computes the initial great-circle bearing between two
// points, degrees clockwise from north.
func BearingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := geoPairFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(fiber.Map{"bearing_deg": geospatial.Bearing(from, to)})
	}
}

// MidpointHandler computes the planar midpoint between two points.
func MidpointHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := geoPairFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(geospatial.Midpoint(from, to))
	}
}

// DistanceHandler computes the great-circle distance in meters.
func DistanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := geoPairFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(fiber.Map{"meters": geospatial.Haversine(from, to)})
	}
}
