package session

import (
	"container/list"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "recipes_session"

var (
	// ErrNotFound is returned when a request carries no live session.
	ErrNotFound = errors.New("session: not found")

	// ErrManagerStopped is returned after Shutdown.
	ErrManagerStopped = errors.New("session: manager stopped")
)

// ManagerConfig configures the session manager.
type ManagerConfig struct {
	// IdleTimeout is how long a session may go unresolved before it is
	// removed. Default: 30 minutes.
	IdleTimeout time.Duration

	// MaxSessions caps the number of live sessions. When the cap is reached
	// the least recently active session is evicted. Default: 10000.
	MaxSessions int

	// CleanupInterval is how often idle sessions are swept.
	// Default: 1 minute.
	CleanupInterval time.Duration

	// CookieSecure sets the Secure flag on the session cookie.
	CookieSecure bool
}

// DefaultManagerConfig returns a ManagerConfig with sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		IdleTimeout:     30 * time.Minute,
		MaxSessions:     10000,
		CleanupInterval: time.Minute,
	}
}

// Manager owns all live sessions.
type Manager struct {
	mu sync.Mutex

	sessions map[string]*list.Element

	// LRU order (front = most recently active)
	lru *list.List

	config    ManagerConfig
	logger    *slog.Logger
	onDestroy []func(*Session)

	// now is overrideable for tests.
	now func() time.Time

	done    chan struct{}
	stopped bool
}

// NewManager creates a Manager and starts its cleanup loop.
func NewManager(config ManagerConfig, logger *slog.Logger) *Manager {
	defaults := DefaultManagerConfig()
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = defaults.IdleTimeout
	}
	if config.MaxSessions <= 0 {
		config.MaxSessions = defaults.MaxSessions
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		sessions: make(map[string]*list.Element),
		lru:      list.New(),
		config:   config,
		logger:   logger.With("component", "session_manager"),
		now:      time.Now,
		done:     make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// OnDestroy registers a hook that runs after a session is removed,
// whether by expiry, eviction, Remove or Shutdown.
func (m *Manager) OnDestroy(fn func(*Session)) {
	m.mu.Lock()
	m.onDestroy = append(m.onDestroy, fn)
	m.mu.Unlock()
}

// Resolve returns the session named by the request's cookie, creating a
// new session (and setting the cookie on w) if there is none.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) (*Session, error) {
	var id string
	if c, err := r.Cookie(CookieName); err == nil {
		id = c.Value
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil, ErrManagerStopped
	}

	now := m.now()
	if elem, ok := m.sessions[id]; ok {
		sess := elem.Value.(*Session)
		sess.touch(now)
		m.lru.MoveToFront(elem)
		m.mu.Unlock()
		return sess, nil
	}

	sess := newSession(uuid.NewString(), now)
	m.sessions[sess.ID] = m.lru.PushFront(sess)

	var evicted []*Session
	for m.lru.Len() > m.config.MaxSessions {
		evicted = append(evicted, m.removeLocked(m.lru.Back()))
	}
	hooks := m.onDestroy
	count := len(m.sessions)
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	m.logger.Debug("session created", "session_id", sess.ID, "count", count)
	for _, old := range evicted {
		m.logger.Debug("evicted session",
			"session_id", old.ID,
			"reason", "max_sessions_exceeded")
	}
	m.destroy(hooks, evicted)

	return sess, nil
}

// FromRequest returns the session named by the request's cookie without
// creating one.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNotFound
	}
	return m.Get(c.Value)
}

// Get returns the live session with the given ID and marks it active.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess := elem.Value.(*Session)
	sess.touch(m.now())
	m.lru.MoveToFront(elem)
	return sess, nil
}

// Remove destroys a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	elem, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	sess := m.removeLocked(elem)
	hooks := m.onDestroy
	m.mu.Unlock()

	m.destroy(hooks, []*Session{sess})
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// removeLocked removes a session (must be called with lock held).
func (m *Manager) removeLocked(elem *list.Element) *Session {
	sess := m.lru.Remove(elem).(*Session)
	delete(m.sessions, sess.ID)
	return sess
}

func (m *Manager) destroy(hooks []func(*Session), sessions []*Session) {
	for _, sess := range sessions {
		for _, fn := range hooks {
			fn(sess)
		}
	}
}

// cleanupLoop periodically removes idle sessions.
func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupExpired()
		case <-m.done:
			return
		}
	}
}

// cleanupExpired removes sessions idle longer than IdleTimeout.
func (m *Manager) cleanupExpired() int {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return 0
	}

	cutoff := m.now().Add(-m.config.IdleTimeout)
	var expired []*Session

	// Walk from the least recently active end; stop at the first live one.
	for elem := m.lru.Back(); elem != nil; {
		sess := elem.Value.(*Session)
		if !sess.LastActive().Before(cutoff) {
			break
		}
		prev := elem.Prev()
		expired = append(expired, m.removeLocked(elem))
		elem = prev
	}
	hooks := m.onDestroy
	remaining := len(m.sessions)
	m.mu.Unlock()

	if len(expired) > 0 {
		m.logger.Debug("cleaned up idle sessions",
			"count", len(expired),
			"remaining", remaining)
	}
	m.destroy(hooks, expired)

	return len(expired)
}

// Shutdown stops the cleanup loop and destroys every live session.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	close(m.done)

	all := make([]*Session, 0, len(m.sessions))
	for elem := m.lru.Front(); elem != nil; elem = elem.Next() {
		all = append(all, elem.Value.(*Session))
	}
	m.sessions = make(map[string]*list.Element)
	m.lru.Init()
	hooks := m.onDestroy
	m.mu.Unlock()

	for _, sess := range all {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.destroy(hooks, []*Session{sess})
	}

	m.logger.Info("session manager stopped", "destroyed", len(all))
	return nil
}
