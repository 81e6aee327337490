package api

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/ludoengine/pkg/ai"
	"github.com/yourusername/ludoengine/pkg/engine"
)

// ErrSessionNotFound is returned for unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// eventBuffer is the per-subscriber channel depth. A subscriber that falls
// this far behind starts losing events rather than blocking the game.
const eventBuffer = 64

// Session binds one game, its AI manager, and the subscribers watching it.
// The engine itself is single-threaded; the session mutex serializes all
// access from HTTP handlers, WebSocket clients, and SSE streams.
type Session struct {
	ID      string
	Created time.Time

	mu   sync.Mutex
	game *engine.Game
	ai   *ai.Manager

	subMu       sync.Mutex
	subscribers map[chan EventEnvelope]struct{}
}

// newSession creates a game session. Events emitted by the game fan out to
// every subscriber.
func newSession(opts ...engine.Option) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		Created:     time.Now(),
		subscribers: make(map[chan EventEnvelope]struct{}),
	}
	s.game = engine.NewGame(opts...)
	s.game.AddListener(s.broadcast)
	s.ai = ai.NewManager(s.game)
	return s
}

// restoredSession wraps an already-built game, used when a session is
// created from a position ID.
func restoredSession(g *engine.Game) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		Created:     time.Now(),
		subscribers: make(map[chan EventEnvelope]struct{}),
		game:        g,
	}
	g.AddListener(s.broadcast)
	s.ai = ai.NewManager(g)
	return s
}

// Do runs fn with exclusive access to the session's game and AI manager.
func (s *Session) Do(fn func(g *engine.Game, mgr *ai.Manager) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.game, s.ai)
}

// State returns a snapshot of the session's game.
func (s *Session) State() *engine.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Subscribe registers an event channel. The returned cancel function must
// be called exactly once when the subscriber is done.
func (s *Session) Subscribe() (<-chan EventEnvelope, func()) {
	ch := make(chan EventEnvelope, eventBuffer)
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// broadcast delivers one event to every subscriber without blocking the
// engine. Slow subscribers lose events.
func (s *Session) broadcast(e engine.Event) {
	envelope := EventEnvelope{Type: e.Kind(), Data: e}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- envelope:
		default:
		}
	}
}

// closeSubscribers tears down all subscriptions when a session is deleted.
func (s *Session) closeSubscribers() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// SessionManager is the registry of live game sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty registry.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Create registers a new game session.
func (m *SessionManager) Create(opts ...engine.Option) *Session {
	s := newSession(opts...)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// CreateFromGame registers a session around an existing game.
func (m *SessionManager) CreateFromGame(g *engine.Game) *Session {
	s := restoredSession(g)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get looks up a session by ID.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session and closes its event subscriptions.
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.closeSubscribers()
	return nil
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
