package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"casemap/internal/core/ports"
)

var (
	errDisposed = errors.New("session disposed")

	// ErrSessionNotFound is returned when a session id is unknown.
	ErrSessionNotFound = errors.New("session not found")
)

// RendererFactory builds a renderer bound to one session, typically a
// remote renderer publishing commands on the session's channel.
type RendererFactory func(sessionID string) ports.MapRenderer

// SessionManager owns every live map session. Sessions are created
// with server-assigned IDs and disposed on Close; nothing survives the
// process (the registry is in-memory by contract).
type SessionManager struct {
	mu        sync.Mutex
	sessions  map[string]*MapSession
	renderers RendererFactory
	events    ports.EventPublisher
	cfg       SessionConfig
}

// NewSessionManager creates a manager producing sessions from the
// given renderer factory and session defaults.
func NewSessionManager(renderers RendererFactory, events ports.EventPublisher, cfg SessionConfig) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*MapSession),
		renderers: renderers,
		events:    events,
		cfg:       cfg,
	}
}

// Create builds a new session, initialises its map and registers it.
func (m *SessionManager) Create(ctx context.Context) (*MapSession, error) {
	id := uuid.NewString()
	session := NewMapSession(id, m.renderers(id), m.events, m.cfg)
	if err := session.CreateMap(ctx); err != nil {
		return nil, fmt.Errorf("create map: %w", err)
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()
	return session, nil
}

// Get returns a session by id.
func (m *SessionManager) Get(id string) (*MapSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// List returns all live sessions ordered by id.
func (m *SessionManager) List() []*MapSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*MapSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close disposes a session and drops it from the registry.
func (m *SessionManager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Dispose(ctx)
	return nil
}

// CloseAll disposes every live session, for shutdown.
func (m *SessionManager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	sessions := make([]*MapSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*MapSession)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Dispose(ctx)
	}
}
