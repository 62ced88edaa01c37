/*
Package session implements the server-side session provider.

Each browser gets a session bag stored in process memory and keyed by an
opaque UUID. The bag holds the logged-in username and one-shot flash
messages; nothing in the bag ever leaves the server. The cookie only
carries the session ID, wrapped in a signed token (see token.go).

Expired bags are removed by a background sweep.
*/
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"voyago/internal/pkg/logx"
)

// sweepInterval controls how often expired sessions are collected.
const sweepInterval = 5 * time.Minute

// Session is one browser's server-side state bag.
type Session struct {
	id uuid.UUID

	mu     sync.Mutex
	expire time.Time

	// username is set on login and empty while logged out.
	username string

	// flash holds one-shot messages, read once and cleared via PopFlash.
	flash map[string]string
}

// ID returns the opaque session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// SetUser marks the session as logged in under the given username.
func (s *Session) SetUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
}

// User returns the logged-in username and whether the session has one.
func (s *Session) User() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username, s.username != ""
}

// SetFlash stores a one-shot message under key, replacing any previous one.
func (s *Session) SetFlash(key, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flash == nil {
		s.flash = make(map[string]string, 1)
	}
	s.flash[key] = message
}

// PopFlash returns the flash message under key and clears it.
// Reading an absent flash returns the empty string.
func (s *Session) PopFlash(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	message := s.flash[key]
	delete(s.flash, key)
	return message
}

// expired reports whether the session passed its idle deadline at now.
func (s *Session) expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.expire)
}

// touch pushes the idle deadline forward by ttl.
func (s *Session) touch(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire = time.Now().Add(ttl)
}

// Manager owns every live session bag and the signing key for cookie tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager creates a session manager with the given cookie signing secret
// and idle TTL, and starts the background expiry sweep.
func NewManager(secret string, ttl time.Duration) *Manager {
	m := &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Session),
	}

	go m.sweepExpired()

	return m
}

// create registers a fresh session bag.
func (m *Manager) create() *Session {
	s := &Session{
		id:     uuid.New(),
		expire: time.Now().Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	return s
}

// lookup returns the live session for id, refreshing its idle deadline.
// Expired or unknown IDs return nil.
func (m *Manager) lookup(id uuid.UUID) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil
	}

	if s.expired(time.Now()) {
		m.remove(id)
		return nil
	}

	s.touch(m.ttl)
	return s
}

// remove drops the session bag for id, if present.
func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// sweepExpired periodically drops sessions that passed their idle deadline.
func (m *Manager) sweepExpired() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		m.mu.Lock()
		count := 0
		for id, s := range m.sessions {
			if s.expired(now) {
				delete(m.sessions, id)
				count++
			}
		}
		remaining := len(m.sessions)
		m.mu.Unlock()

		if count > 0 {
			logx.Info("Session sweep removed expired sessions", "removed", count, "remaining", remaining)
		}
	}
}
