package usecases_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb/geojson"

	"casemap/internal/core/domain"
	"casemap/internal/core/ports"
)

// fakeRenderer is a recording MapRenderer. Optional function fields
// override individual operations, everything else succeeds and hands
// out sequential layer ids.
type fakeRenderer struct {
	mu     sync.Mutex
	nextID int

	live    map[domain.LayerID]domain.OverlayKind
	styles  map[domain.LayerID]domain.StyleOptions
	markers map[domain.LayerID]domain.MarkerOptions

	views        []viewCall
	fits         []domain.Bounds
	pans         []domain.GeoPoint
	moves        []moveCall
	drawControls []drawControlCall
	destroyCount int

	addMarkerFn func(p domain.GeoPoint, opts domain.MarkerOptions) (domain.LayerID, error)
	fitBoundsFn func(b domain.Bounds) error
	initFn      func(cfg ports.MapConfig) error
}

type viewCall struct {
	center domain.GeoPoint
	zoom   int
}

type moveCall struct {
	id domain.LayerID
	p  domain.GeoPoint
}

type drawControlCall struct {
	visible    bool
	generation int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		live:    make(map[domain.LayerID]domain.OverlayKind),
		styles:  make(map[domain.LayerID]domain.StyleOptions),
		markers: make(map[domain.LayerID]domain.MarkerOptions),
	}
}

func (f *fakeRenderer) issue(kind domain.OverlayKind) domain.LayerID {
	f.nextID++
	id := domain.LayerID(fmt.Sprintf("layer-%d", f.nextID))
	f.live[id] = kind
	return id
}

func (f *fakeRenderer) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *fakeRenderer) Init(ctx context.Context, cfg ports.MapConfig) error {
	if f.initFn != nil {
		return f.initFn(cfg)
	}
	return nil
}

func (f *fakeRenderer) AddMarker(ctx context.Context, p domain.GeoPoint, opts domain.MarkerOptions) (domain.LayerID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addMarkerFn != nil {
		return f.addMarkerFn(p, opts)
	}
	id := f.issue(domain.KindMarker)
	f.markers[id] = opts
	return id, nil
}

func (f *fakeRenderer) AddCircle(ctx context.Context, center domain.GeoPoint, radiusMeters float64, style domain.StyleOptions) (domain.LayerID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.issue(domain.KindCircle)
	f.styles[id] = style
	return id, nil
}

func (f *fakeRenderer) AddPolygon(ctx context.Context, points []domain.GeoPoint, style domain.StyleOptions) (domain.LayerID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.issue(domain.KindPolygon)
	f.styles[id] = style
	return id, nil
}

func (f *fakeRenderer) AddPolyline(ctx context.Context, points []domain.GeoPoint, style domain.StyleOptions) (domain.LayerID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.issue(domain.KindPolyline)
	f.styles[id] = style
	return id, nil
}

func (f *fakeRenderer) AddGeoJSON(ctx context.Context, fc *geojson.FeatureCollection, style domain.StyleOptions, popup func(geojson.Properties) string) (domain.LayerID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.issue(domain.KindGeoJSON)
	f.styles[id] = style
	return id, nil
}

func (f *fakeRenderer) MoveMarker(ctx context.Context, id domain.LayerID, p domain.GeoPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moves = append(f.moves, moveCall{id: id, p: p})
	return nil
}

func (f *fakeRenderer) RemoveLayer(ctx context.Context, id domain.LayerID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.live, id)
	return nil
}

func (f *fakeRenderer) SetView(ctx context.Context, center domain.GeoPoint, zoom int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, viewCall{center: center, zoom: zoom})
	return nil
}

func (f *fakeRenderer) PanTo(ctx context.Context, center domain.GeoPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pans = append(f.pans, center)
	return nil
}

func (f *fakeRenderer) FitBounds(ctx context.Context, b domain.Bounds) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fitBoundsFn != nil {
		return f.fitBoundsFn(b)
	}
	f.fits = append(f.fits, b)
	return nil
}

func (f *fakeRenderer) ShowDrawControl(ctx context.Context, visible bool, generation int, style domain.StyleOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drawControls = append(f.drawControls, drawControlCall{visible: visible, generation: generation})
	return nil
}

func (f *fakeRenderer) Destroy(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyCount++
	return nil
}

// mockEvents records published host-bridge events.
type mockEvents struct {
	mu            sync.Mutex
	clicks        []click
	drawCreated   [][]byte
	closedSession []string

	publishClickFn func(sessionID string, lat, lon float64) error
}

type click struct {
	sessionID string
	lat, lon  float64
}

func (m *mockEvents) PublishClick(ctx context.Context, sessionID string, lat, lon float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishClickFn != nil {
		return m.publishClickFn(sessionID, lat, lon)
	}
	m.clicks = append(m.clicks, click{sessionID: sessionID, lat: lat, lon: lon})
	return nil
}

func (m *mockEvents) PublishDrawCreated(ctx context.Context, sessionID string, feature []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drawCreated = append(m.drawCreated, feature)
	return nil
}

func (m *mockEvents) PublishSessionClosed(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closedSession = append(m.closedSession, sessionID)
	return nil
}

// mockCache is an in-memory ports.CacheService.
type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	hits    int
	sets    int
	lastTTL int
	errGet  error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errGet != nil {
		return nil, m.errGet
	}
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("miss")
	}
	m.hits++
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.lastTTL = ttlSeconds
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
