package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
	"github.com/auradevelopment5m/aura-tictactoe/internal/services/bot"
	"github.com/auradevelopment5m/aura-tictactoe/internal/services/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients are served from a separate origin.
		return true
	},
}

// Gateway upgrades HTTP requests to WebSocket connections and binds
// each one to a session for its lifetime. Admission parameters travel
// in the query string: session, player, join, bot.
type Gateway struct {
	hub        *Hub
	controller *session.Controller
	logger     *slog.Logger
}

// NewGateway creates a Gateway over the given hub and controller.
func NewGateway(hub *Hub, controller *session.Controller, logger *slog.Logger) *Gateway {
	return &Gateway{
		hub:        hub,
		controller: controller,
		logger:     logger.With(slog.String("component", "ws-gateway")),
	}
}

// Handle is the HTTP handler for the realtime endpoint.
func (g *Gateway) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	q := r.URL.Query()
	code := model.SessionCode(strings.ToUpper(strings.TrimSpace(q.Get("session"))))
	name := strings.TrimSpace(q.Get("player"))
	join := q.Get("join") == "true"

	var difficulty bot.Difficulty
	if raw := q.Get("bot"); raw != "" {
		difficulty, err = bot.ParseDifficulty(raw)
		if err != nil {
			g.reject(conn, err)
			return
		}
	}

	connID := uuid.NewString()
	adm, err := g.controller.Admit(code, name, join, connID, difficulty)
	if err != nil {
		g.reject(conn, err)
		return
	}

	var client *Client
	client = NewClient(g.hub, conn, code, connID, g.logger,
		func(f Frame) { g.handleFrame(client, adm, f) },
		func() { g.controller.Disconnect(code, adm.Symbol, connID) },
	)
	g.hub.Register(client)
	client.Start()

	client.Send(model.EventSessionCreated, model.SessionCreatedPayload{
		SessionID:  adm.Code,
		Symbol:     adm.Symbol,
		PlayerName: adm.Name,
		Scores:     adm.Scores,
	})
	g.controller.StartIfReady(code)
}

// handleFrame dispatches one inbound frame from a bound connection.
// Gameplay errors go back to the sender only; the connection stays
// open.
func (g *Gateway) handleFrame(c *Client, adm *session.Admission, f Frame) {
	switch f.Event {
	case model.EventMove:
		var data struct {
			Position *int `json:"position"`
		}
		if err := json.Unmarshal(f.Data, &data); err != nil || data.Position == nil {
			c.Send(model.EventErrorMessage, model.ErrorMessagePayload{Message: "Invalid move payload"})
			return
		}
		if err := g.controller.Move(c.Code, adm.Symbol, *data.Position); err != nil {
			c.Send(model.EventErrorMessage, model.ErrorMessagePayload{Message: gameplayMessage(err)})
		}

	case model.EventRematch:
		if err := g.controller.Rematch(c.Code); err != nil {
			c.Send(model.EventErrorMessage, model.ErrorMessagePayload{Message: gameplayMessage(err)})
		}

	default:
		g.logger.Debug("unknown inbound event", slog.String("event", f.Event))
	}
}

// reject sends a coded session_error frame and closes the connection.
// Admission failures are fatal to the connection but never to the
// session.
func (g *Gateway) reject(conn *websocket.Conn, err error) {
	code, message := admissionError(err)
	frame, ferr := NewFrame(model.EventSessionError, model.SessionErrorPayload{
		Code:    code,
		Message: message,
	})
	if ferr == nil {
		conn.WriteJSON(frame)
	}
	conn.Close()
}

func admissionError(err error) (code, message string) {
	switch {
	case errors.Is(err, model.ErrMissingParams):
		return model.ErrorCodeMissingParams, "Session ID and player name are required"
	case errors.Is(err, model.ErrSessionNotFound):
		return model.ErrorCodeNotFound, "Session not found"
	case errors.Is(err, model.ErrSessionFull):
		return model.ErrorCodeFull, "Session is full"
	case errors.Is(err, model.ErrUnknownDifficulty):
		return model.ErrorCodeInvalidDifficulty, "Unknown bot difficulty"
	}
	return "internal", "Internal error"
}

func gameplayMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, model.ErrGameNotActive):
		return "Game is not active"
	case errors.Is(err, model.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, model.ErrInvalidPosition):
		return "Invalid position"
	case errors.Is(err, model.ErrCellOccupied):
		return "Cell already occupied"
	}
	return "Internal error"
}
