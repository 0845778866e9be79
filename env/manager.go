package env

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Session is one environment owned by the Manager. Access the env only
// through Do so that steps on the same session are serialised.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	env       *Env
	updatedAt time.Time
}

// Do runs fn with exclusive access to the session's env.
func (s *Session) Do(fn func(e *Env) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.env)
	s.updatedAt = time.Now()
	return err
}

// UpdatedAt returns the time of the last Do call.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Manager keeps one Env per session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	defaults Config
}

// NewManager returns a manager whose sessions start from defaults unless
// Create overrides the fields.
func NewManager(defaults Config) *Manager {
	return &Manager{sessions: make(map[string]*Session), defaults: defaults}
}

// Defaults returns the configuration new sessions start from.
func (m *Manager) Defaults() Config { return m.defaults }

// Create starts a new session. An empty Backend or FEN falls back to the
// manager's defaults. MaxSteps is used as given, since 0 already means
// unlimited; start from Defaults to inherit the bound.
func (m *Manager) Create(cfg Config) (*Session, error) {
	if cfg.Backend == "" {
		cfg.Backend = m.defaults.Backend
	}
	if cfg.FEN == "" {
		cfg.FEN = m.defaults.FEN
	}
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &Session{ID: uuid.NewString(), CreatedAt: now, env: e, updatedAt: now}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// IDs lists the live session ids, oldest first.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	return ids
}

// Expire removes sessions idle for longer than ttl and returns how many were
// removed.
func (m *Manager) Expire(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
