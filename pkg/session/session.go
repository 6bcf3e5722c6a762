package session

import (
	"sync"
	"time"
)

// Session is the server-side state of one browser.
type Session struct {
	// ID is the value of the session cookie.
	ID string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// dispatch serialises event handling for the session.
	dispatch sync.Mutex

	mu         sync.RWMutex
	lastActive time.Time
	values     map[string]any
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		lastActive: now,
		values:     make(map[string]any),
	}
}

// LastActive returns when the session was last resolved.
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastActive = now
	s.mu.Unlock()
}

// Get returns the value stored under key, or nil.
func (s *Session) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Set stores a value under key. A nil value deletes the key.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == nil {
		delete(s.values, key)
		return
	}
	s.values[key] = value
}

// GetOrCreate returns the value under key, calling create to store one
// if the key is unset. create runs at most once per key.
func (s *Session) GetOrCreate(key string, create func() any) any {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	v = create()
	s.values[key] = v
	return v
}

// Keys returns the keys currently stored in the session.
func (s *Session) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Do runs fn while holding the session's dispatch lock.
func (s *Session) Do(fn func()) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()
	fn()
}
