package usecases_test

import (
	"context"
	"testing"
	"time"

	"casemap/internal/core/domain"
)

func timelinePoints() []domain.GeoPoint {
	return []domain.GeoPoint{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 0, Lon: 2},
	}
}

func TestTimelineAdvances(t *testing.T) {
	r := newFakeRenderer()
	s := newTestSession(t, r, nil)
	ctx := context.Background()

	s.StartTimeline(ctx, timelinePoints(), 5*time.Millisecond)
	if !s.TimelineRunning() {
		t.Fatal("timeline should be running")
	}

	deadline := time.After(time.Second)
	for s.TimelineRunning() {
		select {
		case <-deadline:
			t.Fatal("timeline did not finish")
		case <-time.After(5 * time.Millisecond):
		}
	}

	r.mu.Lock()
	moves := len(r.moves)
	r.mu.Unlock()
	if moves != 2 {
		t.Errorf("expected 2 advance steps for 3 points, got %d", moves)
	}
}

func TestStopBeforeStartIsNoOp(t *testing.T) {
	r := newFakeRenderer()
	s := newTestSession(t, r, nil)

	s.StopTimeline(context.Background())
	if s.TimelineRunning() {
		t.Error("nothing should be running")
	}
}

func TestResetAfterStopIsNoOp(t *testing.T) {
	r := newFakeRenderer()
	s := newTestSession(t, r, nil)
	ctx := context.Background()

	s.StartTimeline(ctx, timelinePoints(), time.Hour)
	s.StopTimeline(ctx)
	movesBefore := len(r.moves)

	s.ResetTimeline(ctx)

	r.mu.Lock()
	movesAfter := len(r.moves)
	r.mu.Unlock()
	if movesAfter != movesBefore {
		t.Error("reset after stop must not move the marker")
	}
}

func TestResetWhileRunningRewinds(t *testing.T) {
	r := newFakeRenderer()
	s := newTestSession(t, r, nil)
	ctx := context.Background()

	s.StartTimeline(ctx, timelinePoints(), time.Hour)
	s.ResetTimeline(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.moves) != 1 {
		t.Fatalf("expected one rewind move, got %d", len(r.moves))
	}
	if p := r.moves[0].p; p != timelinePoints()[0] {
		t.Errorf("reset should move to the first point, got %+v", p)
	}
}

func TestStopRemovesMovingMarker(t *testing.T) {
	r := newFakeRenderer()
	s := newTestSession(t, r, nil)
	ctx := context.Background()

	s.StartTimeline(ctx, timelinePoints(), time.Hour)
	if r.liveCount() != 1 {
		t.Fatalf("expected the moving marker, got %d overlays", r.liveCount())
	}
	s.StopTimeline(ctx)
	if r.liveCount() != 0 {
		t.Errorf("marker should be removed on stop, %d left", r.liveCount())
	}

	// Stop twice is safe
	s.StopTimeline(ctx)
}

func TestRestartWhileRunning(t *testing.T) {
	r := newFakeRenderer()
	s := newTestSession(t, r, nil)
	ctx := context.Background()

	s.StartTimeline(ctx, timelinePoints(), time.Hour)
	s.StartTimeline(ctx, timelinePoints(), time.Hour)

	if r.liveCount() != 1 {
		t.Errorf("restart should leave exactly one marker, got %d", r.liveCount())
	}
	s.StopTimeline(ctx)
}
