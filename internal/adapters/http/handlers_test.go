package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	handler "casemap/internal/adapters/http"
	"casemap/internal/core/domain"
	"casemap/internal/core/ports"
	"casemap/internal/core/usecases"
)

// ---- Fake renderer ----

// stubRenderer records layer handles without any real widget behind it.
type stubRenderer struct {
	mu   sync.Mutex
	next int
	live map[domain.LayerID]bool
}

func newStubRenderer() *stubRenderer {
	return &stubRenderer{live: make(map[domain.LayerID]bool)}
}

func (r *stubRenderer) issue() domain.LayerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := domain.LayerID(fmt.Sprintf("layer-%d", r.next))
	r.live[id] = true
	return id
}

func (r *stubRenderer) Init(ctx context.Context, cfg ports.MapConfig) error { return nil }
func (r *stubRenderer) AddMarker(ctx context.Context, p domain.GeoPoint, opts domain.MarkerOptions) (domain.LayerID, error) {
	return r.issue(), nil
}
func (r *stubRenderer) AddCircle(ctx context.Context, c domain.GeoPoint, rad float64, s domain.StyleOptions) (domain.LayerID, error) {
	return r.issue(), nil
}
func (r *stubRenderer) AddPolygon(ctx context.Context, pts []domain.GeoPoint, s domain.StyleOptions) (domain.LayerID, error) {
	return r.issue(), nil
}
func (r *stubRenderer) AddPolyline(ctx context.Context, pts []domain.GeoPoint, s domain.StyleOptions) (domain.LayerID, error) {
	return r.issue(), nil
}
func (r *stubRenderer) AddGeoJSON(ctx context.Context, fc *geojson.FeatureCollection, s domain.StyleOptions, popup func(geojson.Properties) string) (domain.LayerID, error) {
	return r.issue(), nil
}
func (r *stubRenderer) MoveMarker(ctx context.Context, id domain.LayerID, p domain.GeoPoint) error {
	return nil
}
func (r *stubRenderer) RemoveLayer(ctx context.Context, id domain.LayerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, id)
	return nil
}
func (r *stubRenderer) SetView(ctx context.Context, c domain.GeoPoint, zoom int) error { return nil }
func (r *stubRenderer) PanTo(ctx context.Context, c domain.GeoPoint) error             { return nil }
func (r *stubRenderer) FitBounds(ctx context.Context, b domain.Bounds) error           { return nil }
func (r *stubRenderer) ShowDrawControl(ctx context.Context, v bool, gen int, s domain.StyleOptions) error {
	return nil
}
func (r *stubRenderer) Destroy(ctx context.Context) error { return nil }

// ---- Test helpers ----

func makeDeps() *handler.Dependencies {
	mgr := usecases.NewSessionManager(
		func(sessionID string) ports.MapRenderer { return newStubRenderer() },
		nil,
		usecases.SessionConfig{DefaultZoom: 15, FallbackZoom: 10},
	)
	return &handler.Dependencies{
		Sessions:     mgr,
		Snapshots:    usecases.NewSnapshotService(mgr, nil, 0),
		TimelineStep: 10 * time.Millisecond,
	}
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func orbPoint(lon, lat float64) orb.Point {
	return orb.Point{lon, lat}
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp.StatusCode, out.Bytes()
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	code, body := doJSON(t, app, "POST", "/v1/sessions", nil)
	if code != 201 {
		t.Fatalf("create session: expected 201, got %d: %s", code, body)
	}
	var view struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatal(err)
	}
	if view.ID == "" {
		t.Fatal("session id missing")
	}
	return view.ID
}

// ---- Session lifecycle ----

func TestCreateSession_ReturnsReadySession(t *testing.T) {
	app := setupApp(makeDeps())

	code, body := doJSON(t, app, "POST", "/v1/sessions", nil)
	if code != 201 {
		t.Fatalf("expected 201, got %d", code)
	}
	var view struct {
		ID    string `json:"id"`
		Ready bool   `json:"ready"`
	}
	json.Unmarshal(body, &view)
	if view.ID == "" || !view.Ready {
		t.Errorf("expected a ready session with an id, got %+v", view)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	code, _ := doJSON(t, app, "GET", "/v1/sessions/nope", nil)
	if code != 404 {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestListSessions_Pagination(t *testing.T) {
	app := setupApp(makeDeps())
	for i := 0; i < 5; i++ {
		createSession(t, app)
	}

	code, body := doJSON(t, app, "GET", "/v1/sessions?offset=2&limit=2", nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}

	var result struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.Unmarshal(body, &result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 sessions in page, got %d", len(result.Data))
	}
	if result.Pagination.Offset != 2 {
		t.Errorf("expected offset 2, got %d", result.Pagination.Offset)
	}
}

func TestCloseSession_ThenGone(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, _ := doJSON(t, app, "DELETE", "/v1/sessions/"+id, nil)
	if code != 204 {
		t.Fatalf("expected 204, got %d", code)
	}
	code, _ = doJSON(t, app, "GET", "/v1/sessions/"+id, nil)
	if code != 404 {
		t.Fatalf("closed session should be gone, got %d", code)
	}
	code, _ = doJSON(t, app, "DELETE", "/v1/sessions/"+id, nil)
	if code != 404 {
		t.Fatalf("double close should 404, got %d", code)
	}
}

// ---- Overlays ----

func TestAddMarker_Success(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, body := doJSON(t, app, "POST", "/v1/sessions/"+id+"/markers", fiber.Map{
		"lat": 43.263, "lon": -2.935, "popup_text": "Abando",
	})
	if code != 201 {
		t.Fatalf("expected 201, got %d: %s", code, body)
	}
	var out struct {
		Layer string `json:"layer"`
	}
	json.Unmarshal(body, &out)
	if out.Layer == "" {
		t.Error("expected a layer handle")
	}
}

func TestAddMarker_InvalidLatitude(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, body := doJSON(t, app, "POST", "/v1/sessions/"+id+"/markers", fiber.Map{
		"lat": 95.0, "lon": 0.0,
	})
	if code != 400 {
		t.Fatalf("expected 400, got %d", code)
	}
	var apiErr struct {
		Code string `json:"code"`
	}
	json.Unmarshal(body, &apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request, got %s", apiErr.Code)
	}
}

func TestAddPolygon_TooFewPoints(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, _ := doJSON(t, app, "POST", "/v1/sessions/"+id+"/polygons", fiber.Map{
		"points": []fiber.Map{{"lat": 1, "lon": 1}, {"lat": 2, "lon": 2}},
	})
	if code != 400 {
		t.Fatalf("expected 400 for 2-point polygon, got %d", code)
	}
}

func TestAddCircle_CountsTracked(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, _ := doJSON(t, app, "POST", "/v1/sessions/"+id+"/circles", fiber.Map{
		"lat": 43.0, "lon": -2.9, "radius_meters": 250,
	})
	if code != 201 {
		t.Fatalf("expected 201, got %d", code)
	}

	_, body := doJSON(t, app, "GET", "/v1/sessions/"+id, nil)
	var view struct {
		Counts domain.OverlayCounts `json:"counts"`
	}
	json.Unmarshal(body, &view)
	if view.Counts.Circles != 1 {
		t.Errorf("expected 1 circle tracked, got %d", view.Counts.Circles)
	}
}

func TestRemoveLayer_Idempotent(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	_, body := doJSON(t, app, "POST", "/v1/sessions/"+id+"/markers", fiber.Map{
		"lat": 1.0, "lon": 1.0,
	})
	var out struct {
		Layer string `json:"layer"`
	}
	json.Unmarshal(body, &out)

	code, _ := doJSON(t, app, "DELETE", "/v1/sessions/"+id+"/layers/"+out.Layer, nil)
	if code != 204 {
		t.Fatalf("expected 204, got %d", code)
	}
	// Removing again is a widget-level no-op
	code, _ = doJSON(t, app, "DELETE", "/v1/sessions/"+id+"/layers/"+out.Layer, nil)
	if code != 204 {
		t.Fatalf("second remove should still 204, got %d", code)
	}
}

func TestClearMap_EmptiesCounts(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	doJSON(t, app, "POST", "/v1/sessions/"+id+"/markers", fiber.Map{"lat": 1.0, "lon": 1.0})
	doJSON(t, app, "POST", "/v1/sessions/"+id+"/circles", fiber.Map{"lat": 1.0, "lon": 1.0, "radius_meters": 10})

	code, _ := doJSON(t, app, "POST", "/v1/sessions/"+id+"/clear", nil)
	if code != 204 {
		t.Fatalf("expected 204, got %d", code)
	}

	_, body := doJSON(t, app, "GET", "/v1/sessions/"+id, nil)
	var view struct {
		Counts domain.OverlayCounts `json:"counts"`
	}
	json.Unmarshal(body, &view)
	if view.Counts.Total() != 0 {
		t.Errorf("expected empty counts after clear, got %+v", view.Counts)
	}
}

// ---- View control ----

func TestFitBounds_MalformedRejected(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, _ := doJSON(t, app, "POST", "/v1/sessions/"+id+"/fit-bounds", fiber.Map{
		"bounds": [][]float64{{1, 1}, {2}},
	})
	if code != 400 {
		t.Fatalf("expected 400 for ragged bounds, got %d", code)
	}
}

func TestFitAround(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, _ := doJSON(t, app, "POST", "/v1/sessions/"+id+"/fit-around", fiber.Map{
		"lat": 43.263, "lon": -2.935, "radius_meters": 500,
	})
	if code != 204 {
		t.Fatalf("expected 204, got %d", code)
	}

	code, _ = doJSON(t, app, "POST", "/v1/sessions/"+id+"/fit-around", fiber.Map{
		"lat": 43.263, "lon": -2.935, "radius_meters": 0,
	})
	if code != 400 {
		t.Fatalf("expected 400 for non-positive radius, got %d", code)
	}
}

func TestSetView_InvalidCoords(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, _ := doJSON(t, app, "POST", "/v1/sessions/"+id+"/view", fiber.Map{
		"lat": -91.0, "lon": 0.0, "zoom": 12,
	})
	if code != 400 {
		t.Fatalf("expected 400, got %d", code)
	}
}

// ---- Drawing tools ----

func TestDrawLifecycle(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	base := "/v1/sessions/" + id

	code, body := doJSON(t, app, "POST", base+"/draw/init", fiber.Map{})
	if code != 200 {
		t.Fatalf("init: expected 200, got %d", code)
	}
	var state struct {
		State      string `json:"state"`
		Generation int    `json:"generation"`
	}
	json.Unmarshal(body, &state)
	if state.State != usecases.DrawEnabled || state.Generation != 1 {
		t.Fatalf("unexpected init state: %+v", state)
	}

	code, body = doJSON(t, app, "POST", base+"/draw/disable", nil)
	json.Unmarshal(body, &state)
	if code != 200 || state.State != usecases.DrawDisabled {
		t.Errorf("disable: got %d %+v", code, state)
	}

	code, body = doJSON(t, app, "POST", base+"/draw/enable", nil)
	json.Unmarshal(body, &state)
	if code != 200 || state.State != usecases.DrawEnabled {
		t.Errorf("enable: got %d %+v", code, state)
	}
}

func TestDrawEvent_RecordedAndExported(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	base := "/v1/sessions/" + id

	doJSON(t, app, "POST", base+"/draw/init", fiber.Map{})

	feature := map[string]interface{}{
		"type":       "Feature",
		"geometry":   map[string]interface{}{"type": "Point", "coordinates": []float64{-2.9, 43.2}},
		"properties": map[string]interface{}{},
	}
	code, _ := doJSON(t, app, "POST", base+"/draw/events", fiber.Map{
		"generation": 1, "layer": "widget-1", "feature": feature,
	})
	if code != 202 {
		t.Fatalf("draw event: expected 202, got %d", code)
	}

	code, body := doJSON(t, app, "GET", base+"/draw/geojson", nil)
	if code != 200 {
		t.Fatalf("export: expected 200, got %d", code)
	}
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		t.Fatalf("invalid geojson export: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Errorf("expected 1 drawn feature, got %d", len(fc.Features))
	}
}

func TestDrawEvent_StaleGenerationDropped(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	base := "/v1/sessions/" + id

	doJSON(t, app, "POST", base+"/draw/init", fiber.Map{})
	doJSON(t, app, "POST", base+"/draw/init", fiber.Map{}) // generation is now 2

	feature := map[string]interface{}{
		"type":       "Feature",
		"geometry":   map[string]interface{}{"type": "Point", "coordinates": []float64{0, 0}},
		"properties": map[string]interface{}{},
	}
	doJSON(t, app, "POST", base+"/draw/events", fiber.Map{
		"generation": 1, "layer": "stale", "feature": feature,
	})

	_, body := doJSON(t, app, "GET", base+"/draw/geojson", nil)
	fc, _ := geojson.UnmarshalFeatureCollection(body)
	if len(fc.Features) != 0 {
		t.Errorf("stale event must be dropped, got %d features", len(fc.Features))
	}
}

func TestImportDrawn_Roundtrip(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	base := "/v1/sessions/" + id

	doJSON(t, app, "POST", base+"/draw/init", fiber.Map{})

	fc := geojson.NewFeatureCollection()
	for i := 0; i < 3; i++ {
		fc.Append(geojson.NewFeature(orbPoint(float64(i), float64(i))))
	}
	raw, _ := fc.MarshalJSON()

	req := httptest.NewRequest("POST", base+"/draw/geojson", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/geo+json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("import: expected 201, got %d", resp.StatusCode)
	}

	_, body := doJSON(t, app, "GET", base+"/draw/geojson", nil)
	got, _ := geojson.UnmarshalFeatureCollection(body)
	if len(got.Features) != 3 {
		t.Errorf("expected 3 features after import, got %d", len(got.Features))
	}
}

// ---- Arrows and investigation ----

func TestAddArrow_ReturnsBearing(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, body := doJSON(t, app, "POST", "/v1/sessions/"+id+"/arrows", fiber.Map{
		"from": fiber.Map{"lat": 0.0, "lon": 0.0},
		"to":   fiber.Map{"lat": 0.0, "lon": 10.0},
	})
	if code != 201 {
		t.Fatalf("expected 201, got %d: %s", code, body)
	}
	var arrow domain.DirectionArrow
	json.Unmarshal(body, &arrow)
	if arrow.Bearing < 89.9 || arrow.Bearing > 90.1 {
		t.Errorf("due-east bearing should be ~90, got %g", arrow.Bearing)
	}
	if arrow.Line == "" || arrow.Arrowhead == "" {
		t.Errorf("expected line and arrowhead handles, got %+v", arrow)
	}
}

func TestInvestigationMarker_ExportRoundtrip(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	base := "/v1/sessions/" + id

	code, body := doJSON(t, app, "POST", base+"/investigation/markers", fiber.Map{
		"lat": 43.2, "lon": -2.9, "title": "Broken window", "type": "evidence",
	})
	if code != 201 {
		t.Fatalf("expected 201, got %d: %s", code, body)
	}
	var rec domain.InvestigationRecord
	json.Unmarshal(body, &rec)
	if rec.Type != domain.TypeEvidence {
		t.Errorf("expected evidence type, got %s", rec.Type)
	}

	code, body = doJSON(t, app, "GET", base+"/investigation/geojson", nil)
	if code != 200 {
		t.Fatalf("export: expected 200, got %d", code)
	}
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		t.Fatalf("invalid export: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	if got := fc.Features[0].Properties.MustString("title", ""); got != "Broken window" {
		t.Errorf("title not exported, got %q", got)
	}
}

func TestInvestigationMarker_MissingTitle(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	code, _ := doJSON(t, app, "POST", "/v1/sessions/"+id+"/investigation/markers", fiber.Map{
		"lat": 1.0, "lon": 1.0,
	})
	if code != 400 {
		t.Fatalf("expected 400 without title, got %d", code)
	}
}

// ---- Timeline ----

func TestTimeline_StartAndStop(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)
	base := "/v1/sessions/" + id

	code, body := doJSON(t, app, "POST", base+"/timeline/start", fiber.Map{
		"points": []fiber.Map{{"lat": 1, "lon": 1}, {"lat": 2, "lon": 2}},
	})
	if code != 202 {
		t.Fatalf("start: expected 202, got %d", code)
	}
	var state struct {
		Running bool `json:"running"`
	}
	json.Unmarshal(body, &state)
	if !state.Running {
		t.Error("timeline should be running after start")
	}

	_, body = doJSON(t, app, "POST", base+"/timeline/stop", nil)
	json.Unmarshal(body, &state)
	if state.Running {
		t.Error("timeline should stop")
	}
}

// ---- Geometry helpers ----

func TestGeoBearing(t *testing.T) {
	app := setupApp(makeDeps())

	code, body := doJSON(t, app, "GET", "/v1/geo/bearing?from_lat=0&from_lon=0&to_lat=10&to_lon=0", nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var out struct {
		BearingDeg float64 `json:"bearing_deg"`
	}
	json.Unmarshal(body, &out)
	if out.BearingDeg != 0 {
		t.Errorf("due north should be 0, got %g", out.BearingDeg)
	}
}

func TestGeoMidpoint(t *testing.T) {
	app := setupApp(makeDeps())

	code, body := doJSON(t, app, "GET", "/v1/geo/midpoint?from_lat=0&from_lon=0&to_lat=10&to_lon=10", nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var mid domain.GeoPoint
	json.Unmarshal(body, &mid)
	if mid.Lat != 5 || mid.Lon != 5 {
		t.Errorf("expected (5,5), got %+v", mid)
	}
}

func TestGeoBearing_InvalidCoords(t *testing.T) {
	app := setupApp(makeDeps())

	code, _ := doJSON(t, app, "GET", "/v1/geo/bearing?from_lat=99&from_lon=0&to_lat=0&to_lon=0", nil)
	if code != 400 {
		t.Fatalf("expected 400, got %d", code)
	}
}

// ---- Health and headers ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	code, body := doJSON(t, app, "GET", "/v1/health", nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var result map[string]interface{}
	json.Unmarshal(body, &result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
}

func TestReady_NoNATS(t *testing.T) {
	app := setupApp(makeDeps())

	code, _ := doJSON(t, app, "GET", "/v1/ready", nil)
	if code != 503 {
		t.Fatalf("expected 503 without NATS, got %d", code)
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if v := resp.Header.Get("X-API-Version"); v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

func TestListSessions_LinkHeader(t *testing.T) {
	app := setupApp(makeDeps())
	for i := 0; i < 10; i++ {
		createSession(t, app)
	}

	req := httptest.NewRequest("GET", "/v1/sessions?offset=0&limit=3", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	link := resp.Header.Get("Link")
	if link == "" {
		t.Fatal("expected Link header, got empty")
	}
	if !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected next link, got %s", link)
	}
}

// ---- GraphQL ----

func TestGraphQL_SessionQuery(t *testing.T) {
	app := setupApp(makeDeps())
	id := createSession(t, app)

	query := fmt.Sprintf(`{ session(id: %q) { id ready draw_state } }`, id)
	code, body := doJSON(t, app, "POST", "/graphql", fiber.Map{"query": query})
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}

	var result struct {
		Data struct {
			Session struct {
				ID        string `json:"id"`
				Ready     bool   `json:"ready"`
				DrawState string `json:"draw_state"`
			} `json:"session"`
		} `json:"data"`
	}
	json.Unmarshal(body, &result)
	if result.Data.Session.ID != id || !result.Data.Session.Ready {
		t.Errorf("unexpected session payload: %+v", result.Data.Session)
	}
	if result.Data.Session.DrawState != usecases.DrawUninitialized {
		t.Errorf("fresh session draw state should be uninitialized, got %s", result.Data.Session.DrawState)
	}
}

func TestGraphQL_Bearing(t *testing.T) {
	app := setupApp(makeDeps())

	query := `{ bearing(from_lat: 0, from_lon: 0, to_lat: 0, to_lon: 10) }`
	code, body := doJSON(t, app, "POST", "/graphql", fiber.Map{"query": query})
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	var result struct {
		Data struct {
			Bearing float64 `json:"bearing"`
		} `json:"data"`
	}
	json.Unmarshal(body, &result)
	if result.Data.Bearing < 89.9 || result.Data.Bearing > 90.1 {
		t.Errorf("due-east bearing should be ~90, got %g", result.Data.Bearing)
	}
}
