// Package ws is the realtime transport: a gorilla/websocket gateway
// that binds connections to sessions and a hub that fans session
// broadcasts out to every bound connection.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// Frame is the wire envelope for every message in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewFrame marshals payload into a Frame. Marshal failures are
// programming errors in payload types and surface as an error.
func NewFrame(event string, payload any) (Frame, error) {
	f := Frame{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Frame{}, err
		}
		f.Data = data
	}
	return f, nil
}

// Hub tracks the live connections bound to each session and fans
// broadcasts out to them. It satisfies the session Broadcaster
// interface.
type Hub struct {
	mu      sync.Mutex
	clients map[model.SessionCode]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.SessionCode]map[*Client]struct{}),
		logger:  logger.With(slog.String("component", "ws-hub")),
	}
}

// Register adds a connection to its session's broadcast set.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.Code]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.Code] = set
	}
	set[c] = struct{}{}
}

// Unregister removes a connection from its session's broadcast set and
// closes its outbound queue. It is idempotent; the read pump calls it
// on every exit path.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *Client) {
	set, ok := h.clients[c.Code]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.Code)
	}
}

// Broadcast sends one frame to every connection bound to the session.
// A connection whose outbound queue is full is dropped rather than
// allowed to stall the session.
func (h *Hub) Broadcast(code model.SessionCode, event string, payload any) {
	frame, err := NewFrame(event, payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast frame",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}
	raw, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("failed to marshal broadcast frame",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[code] {
		select {
		case c.send <- raw:
		default:
			h.logger.Warn("dropping slow connection",
				slog.String("session", string(code)),
				slog.String("conn", c.ID),
			)
			h.dropLocked(c)
		}
	}
}

// SessionClients reports how many connections are bound to a session.
func (h *Hub) SessionClients(code model.SessionCode) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[code])
}
