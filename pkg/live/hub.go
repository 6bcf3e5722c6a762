package live

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	pingPeriod         = (pongWait * 9) / 10
	maxMessageSize     = 4 * 1024
	maxSendChannelSize = 64
)

// TypeAppend asks the client to append HTML to a container.
const TypeAppend = "append"

// ErrHubClosed is returned by Serve after Close.
var ErrHubClosed = errors.New("live: hub closed")

// Message is one server push.
type Message struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	HTML   string `json:"html"`
}

// HubOptions configures a Hub.
type HubOptions struct {
	// CheckOrigin validates the upgrade request. Default: SameOrigin.
	CheckOrigin func(r *http.Request) bool

	// MaxConnsPerSession limits open sockets per session (e.g. browser
	// tabs). The oldest is closed when exceeded. Default: 8.
	MaxConnsPerSession int

	// Logger. Default: slog.Default().
	Logger *slog.Logger
}

// Hub tracks WebSocket connections by session ID.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string][]*client
	closed   bool

	upgrader websocket.Upgrader
	maxConns int
	logger   *slog.Logger
}

// NewHub creates a Hub.
func NewHub(opts HubOptions) *Hub {
	if opts.CheckOrigin == nil {
		opts.CheckOrigin = SameOrigin
	}
	if opts.MaxConnsPerSession <= 0 {
		opts.MaxConnsPerSession = 8
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Hub{
		sessions: make(map[string][]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     opts.CheckOrigin,
		},
		maxConns: opts.MaxConnsPerSession,
		logger:   opts.Logger.With("component", "live_hub"),
	}
}

// SameOrigin accepts requests without an Origin header and requests whose
// Origin host matches the request host.
func SameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}

// Serve upgrades the request and registers the connection under
// sessionID. It blocks until the connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID string) error {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return ErrHubClosed
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		return err
	}

	c := newClient(ws)
	if !h.register(sessionID, c) {
		c.close()
		ws.Close()
		return ErrHubClosed
	}
	h.logger.Debug("live connection opened", "session_id", sessionID)

	go c.writePump()
	c.readPump()

	h.unregister(sessionID, c)
	h.logger.Debug("live connection closed", "session_id", sessionID)
	return nil
}

func (h *Hub) register(sessionID string, c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}

	conns := append(h.sessions[sessionID], c)
	for len(conns) > h.maxConns {
		conns[0].close()
		conns = conns[1:]
	}
	h.sessions[sessionID] = conns
	return true
}

func (h *Hub) unregister(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.sessions[sessionID]
	for i, other := range conns {
		if other == c {
			conns = append(conns[:i:i], conns[i+1:]...)
			break
		}
	}
	if len(conns) == 0 {
		delete(h.sessions, sessionID)
	} else {
		h.sessions[sessionID] = conns
	}
	c.close()
}

// Push sends msg to every connection of the session and returns how many
// accepted it. Slow connections whose buffer is full miss the message.
func (h *Hub) Push(sessionID string, msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal live message", "error", err)
		return 0
	}

	h.mu.RLock()
	conns := append([]*client(nil), h.sessions[sessionID]...)
	h.mu.RUnlock()

	sent := 0
	for _, c := range conns {
		if c.send(data) {
			sent++
		} else {
			h.logger.Warn("live message dropped", "session_id", sessionID)
		}
	}
	return sent
}

// Append pushes an append message for target.
func (h *Hub) Append(sessionID, target, html string) int {
	return h.Push(sessionID, Message{Type: TypeAppend, Target: target, HTML: html})
}

// Count returns the number of open connections for the session.
func (h *Hub) Count(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// CloseSession closes every connection of the session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	conns := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	h.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}

// Close closes all connections and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := h.sessions
	h.sessions = make(map[string][]*client)
	h.mu.Unlock()

	for _, conns := range all {
		for _, c := range conns {
			c.close()
		}
	}
}
