package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"casemap/internal/core/ports"
)

// SnapshotService serves GeoJSON exports with read-through caching.
// Cache keys include the session revision, so any mutation naturally
// invalidates stale snapshots without explicit eviction.
type SnapshotService struct {
	sessions   *SessionManager
	cache      ports.CacheService
	ttlSeconds int
}

// NewSnapshotService creates a SnapshotService. cache may be nil.
// ttlSeconds bounds how long a cached snapshot lives; zero or negative
// falls back to 300.
func NewSnapshotService(sessions *SessionManager, cache ports.CacheService, ttlSeconds int) *SnapshotService {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &SnapshotService{sessions: sessions, cache: cache, ttlSeconds: ttlSeconds}
}

// DrawnGeoJSON returns the serialised drawn-items group of a session.
func (s *SnapshotService) DrawnGeoJSON(ctx context.Context, sessionID string) ([]byte, error) {
	return s.export(ctx, sessionID, "drawn", func(session *MapSession) (json.Marshaler, bool) {
		fc := session.DrawnGeoJSON()
		return fc, fc != nil
	})
}

// InvestigationGeoJSON returns the serialised investigation markers of
// a session.
func (s *SnapshotService) InvestigationGeoJSON(ctx context.Context, sessionID string) ([]byte, error) {
	return s.export(ctx, sessionID, "investigation", func(session *MapSession) (json.Marshaler, bool) {
		fc := session.InvestigationGeoJSON()
		return fc, fc != nil
	})
}

func (s *SnapshotService) export(ctx context.Context, sessionID, kind string, collect func(*MapSession) (json.Marshaler, bool)) ([]byte, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("casemap:session:%s:%s:%d", sessionID, kind, session.Revision())
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			return data, nil
		}
	}

	fc, ok := collect(session)
	if !ok {
		return nil, fmt.Errorf("session %s not ready", sessionID)
	}
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("marshal %s snapshot: %w", kind, err)
	}

	// Snapshots are immutable per revision; short TTL just bounds memory
	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, data, s.ttlSeconds)
	}
	return data, nil
}
