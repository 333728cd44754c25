package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound queue depth per connection.
	sendBuffer = 32
)

// Client is one live WebSocket connection bound to a session.
type Client struct {
	ID   string
	Code model.SessionCode

	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	onFrame func(Frame)
	onClose func()
}

// NewClient wraps an upgraded connection. onFrame receives each parsed
// inbound frame; onClose fires once when the connection is torn down.
func NewClient(
	hub *Hub,
	conn *websocket.Conn,
	code model.SessionCode,
	id string,
	logger *slog.Logger,
	onFrame func(Frame),
	onClose func(),
) *Client {
	return &Client{
		ID:      id,
		Code:    code,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		logger:  logger.With(slog.String("conn", id), slog.String("session", string(code))),
		onFrame: onFrame,
		onClose: onClose,
	}
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Send queues one frame for this connection only.
func (c *Client) Send(event string, payload any) {
	frame, err := NewFrame(event, payload)
	if err != nil {
		c.logger.Error("failed to marshal frame",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}
	raw, err := json.Marshal(frame)
	if err != nil {
		c.logger.Error("failed to marshal frame",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}
	select {
	case c.send <- raw:
	default:
		c.logger.Warn("outbound queue full, dropping frame",
			slog.String("event", event),
		)
	}
}

// readPump parses inbound frames until the connection drops, then
// unregisters from the hub and reports the close.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		if c.onClose != nil {
			c.onClose()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("read failed", slog.String("error", err.Error()))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logger.Warn("discarding malformed frame", slog.String("error", err.Error()))
			continue
		}
		if c.onFrame != nil {
			c.onFrame(frame)
		}
	}
}

// writePump drains the outbound queue to the connection and keeps the
// peer alive with pings. It exits when the hub closes the queue or a
// write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
