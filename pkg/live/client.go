package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// client is one WebSocket connection.
type client struct {
	ws *websocket.Conn

	mu       sync.RWMutex
	outbox   chan []byte
	isClosed bool
}

func newClient(ws *websocket.Conn) *client {
	return &client{
		ws:     ws,
		outbox: make(chan []byte, maxSendChannelSize),
	}
}

// readPump discards client frames and keeps the read deadline alive
// through pongs. It returns when the connection fails or is closed.
func (c *client) readPump() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.NextReader(); err != nil {
			return
		}
	}
}

// writePump drains the outbox and sends pings. It owns closing the socket.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.outbox:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) send(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.isClosed {
		return false
	}

	select {
	case c.outbox <- data:
		return true
	default:
		return false
	}
}

// close stops the write pump, which sends a close frame and closes the
// socket. Safe to call more than once.
func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed {
		return
	}
	c.isClosed = true
	close(c.outbox)
}
