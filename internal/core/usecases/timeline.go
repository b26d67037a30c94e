package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"casemap/internal/core/domain"
	"casemap/internal/core/ports"
)

// timeline animates a marker along a point sequence on a fixed delay.
// It has its own mutex so ticker steps never contend with session
// operations. Start, stop and reset are all safe to call repeatedly:
// stop before start is a no-op, and reset after stop is a no-op.
type timeline struct {
	mu      sync.Mutex
	running bool
	done    chan struct{}
	points  []domain.GeoPoint
	idx     int
	marker  domain.LayerID
}

// StartTimeline begins animating a marker through points, advancing
// one point per step interval. A running animation is restarted.
func (s *MapSession) StartTimeline(ctx context.Context, points []domain.GeoPoint, step time.Duration) {
	s.mu.Lock()
	if !s.guard("start_timeline") {
		s.mu.Unlock()
		return
	}
	renderer, log := s.renderer, s.log
	s.mu.Unlock()

	if len(points) == 0 {
		log.Warn("timeline needs at least one point")
		return
	}
	if step <= 0 {
		step = time.Second
	}
	s.timeline.start(ctx, renderer, log, points, step)
}

// StopTimeline halts the animation and removes the moving marker.
func (s *MapSession) StopTimeline(ctx context.Context) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	renderer, log := s.renderer, s.log
	s.mu.Unlock()
	s.timeline.stop(ctx, renderer, log)
}

// ResetTimeline moves a running animation back to its first point.
// After stop it is a no-op.
func (s *MapSession) ResetTimeline(ctx context.Context) {
	s.mu.Lock()
	if !s.guard("reset_timeline") {
		s.mu.Unlock()
		return
	}
	renderer, log := s.renderer, s.log
	s.mu.Unlock()
	s.timeline.reset(ctx, renderer, log)
}

// TimelineRunning reports whether an animation is in progress.
func (s *MapSession) TimelineRunning() bool {
	s.timeline.mu.Lock()
	defer s.timeline.mu.Unlock()
	return s.timeline.running
}

func (t *timeline) start(ctx context.Context, r ports.MapRenderer, log *slog.Logger, points []domain.GeoPoint, step time.Duration) {
	t.stop(ctx, r, log)

	t.mu.Lock()
	marker, err := r.AddMarker(ctx, points[0], domain.MarkerOptions{Icon: "timeline"})
	if err != nil {
		log.Warn("timeline marker failed", "error", err)
		t.mu.Unlock()
		return
	}
	t.running = true
	t.done = make(chan struct{})
	t.points = points
	t.idx = 0
	t.marker = marker
	done := t.done
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(step)
		defer ticker.Stop()
		// Detached from the caller's request context: the animation
		// outlives the call that started it.
		bg := context.Background()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if !t.advance(bg, r, log) {
					return
				}
			}
		}
	}()
}

// advance moves the marker to the next point. Returns false when the
// sequence is exhausted.
func (t *timeline) advance(ctx context.Context, r ports.MapRenderer, log *slog.Logger) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return false
	}
	if t.idx+1 >= len(t.points) {
		t.running = false
		return false
	}
	t.idx++
	if err := r.MoveMarker(ctx, t.marker, t.points[t.idx]); err != nil {
		log.Warn("timeline step failed", "error", err)
	}
	return true
}

func (t *timeline) stop(ctx context.Context, r ports.MapRenderer, log *slog.Logger) {
	t.mu.Lock()
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
	wasRunning := t.running || t.marker != ""
	marker := t.marker
	t.running = false
	t.marker = ""
	t.points = nil
	t.idx = 0
	t.mu.Unlock()

	if wasRunning && marker != "" {
		if err := r.RemoveLayer(ctx, marker); err != nil {
			log.Warn("remove timeline marker failed", "error", err)
		}
	}
}

func (t *timeline) reset(ctx context.Context, r ports.MapRenderer, log *slog.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		// reset after stop is a no-op
		return
	}
	t.idx = 0
	if err := r.MoveMarker(ctx, t.marker, t.points[0]); err != nil {
		log.Warn("timeline reset failed", "error", err)
	}
}
