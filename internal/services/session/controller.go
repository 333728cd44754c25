// Package session implements the session lifecycle state machine:
// admission, turn-taking, termination, rematch and disconnects. Every
// transition is validated here before the registry entry is mutated,
// and every broadcast happens only after the mutation completes.
package session

import (
	"log/slog"
	"time"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/clock"
	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/random"
	"github.com/auradevelopment5m/aura-tictactoe/internal/engine"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
	"github.com/auradevelopment5m/aura-tictactoe/internal/persist"
	"github.com/auradevelopment5m/aura-tictactoe/internal/registry"
	"github.com/auradevelopment5m/aura-tictactoe/internal/services/bot"
)

// botConnIDAlphabet is the character set for generated bot connection
// identities.
const botConnIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Broadcaster fans a state delta out to every connection bound to a
// session.
type Broadcaster interface {
	Broadcast(code model.SessionCode, event string, payload any)
}

// Controller manages the session state machine over the registry.
type Controller struct {
	registry    registry.Registry
	broadcaster Broadcaster
	writer      *persist.Writer
	bots        *bot.Selector
	clock       clock.Clock
	random      random.Random
	logger      *slog.Logger
}

// NewController creates a new session Controller.
func NewController(
	reg registry.Registry,
	broadcaster Broadcaster,
	writer *persist.Writer,
	bots *bot.Selector,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		registry:    reg,
		broadcaster: broadcaster,
		writer:      writer,
		bots:        bots,
		clock:       clk,
		random:      rnd,
		logger:      logger.With(slog.String("component", "session-controller")),
	}
}

// Admission is the result of binding a connection to a session. It is
// a value copy; callers never touch live session state.
type Admission struct {
	Code    model.SessionCode
	Symbol  model.Symbol
	Name    string
	Scores  model.Scores
	Created bool
}

// Admit binds a connection to a (session, symbol) pair for its
// lifetime. With joinIntent the session must already exist and have a
// free slot; without it a missing session is created with the caller
// as X. Creating against an existing session falls back to joining a
// free slot, matching the established client behavior.
func (c *Controller) Admit(code model.SessionCode, name string, joinIntent bool, connID string, difficulty bot.Difficulty) (*Admission, error) {
	if code == "" || name == "" {
		return nil, model.ErrMissingParams
	}

	if joinIntent {
		sess, ok := c.registry.Get(code)
		if !ok {
			return nil, model.ErrSessionNotFound
		}
		return c.bindSlot(sess, name, connID, false)
	}

	sess, created := c.registry.GetOrCreate(code, func() *model.Session {
		return model.NewSession(code, c.clock.Now())
	})
	adm, err := c.bindSlot(sess, name, connID, created)
	if err != nil {
		return nil, err
	}

	if created {
		c.logger.Info("session created",
			slog.String("code", string(code)),
			slog.String("player", name),
		)
		if difficulty != "" {
			c.seatBot(sess, difficulty)
		}
	}
	return adm, nil
}

// bindSlot places the participant in a free slot, preferring X. The
// first occupant of a fresh session always takes X; a later occupant
// takes whichever slot is open.
func (c *Controller) bindSlot(sess *model.Session, name, connID string, created bool) (*Admission, error) {
	sess.Lock()
	defer sess.Unlock()

	sym, ok := sess.FreeSymbol()
	if !ok {
		return nil, model.ErrSessionFull
	}
	*sess.Slot(sym) = model.Slot{Name: name, ConnID: connID}
	sess.EmptySince = time.Time{}

	if sess.Status == model.StatusWaiting && sess.BothOccupied() {
		sess.Status = model.StatusActive
	}

	return &Admission{
		Code:    sess.Code,
		Symbol:  sym,
		Name:    name,
		Scores:  sess.Scores,
		Created: created,
	}, nil
}

// seatBot binds the automated opponent to the O slot and activates the
// session immediately.
func (c *Controller) seatBot(sess *model.Session, difficulty bot.Difficulty) {
	sess.Lock()
	defer sess.Unlock()

	sess.SlotO = model.Slot{
		Name:       "Computer",
		ConnID:     "bot-" + c.random.String(8, botConnIDAlphabet),
		Bot:        true,
		Difficulty: string(difficulty),
	}
	if sess.Status == model.StatusWaiting {
		sess.Status = model.StatusActive
	}
}

// StartIfReady broadcasts game_start when both slots are bound and the
// session is active. The gateway calls it after the connection has
// registered for broadcasts, so the joiner sees its own start event.
func (c *Controller) StartIfReady(code model.SessionCode) {
	sess, ok := c.registry.Get(code)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	if sess.Status != model.StatusActive || !sess.BothOccupied() {
		return
	}
	c.broadcaster.Broadcast(code, model.EventGameStart, model.GameStartPayload{
		Players:       model.PlayerNames{X: sess.SlotX.Name, O: sess.SlotO.Name},
		Board:         sess.Board,
		CurrentPlayer: sess.Turn,
		Scores:        sess.Scores,
	})
}

// Move validates and applies one move for the given symbol. Errors are
// local to the offending caller; session state is unchanged on any
// validation failure. When the opposing slot is the automated opponent
// its reply is applied within the same event, so observers see a
// consistent, monotonically advancing sequence of states.
func (c *Controller) Move(code model.SessionCode, symbol model.Symbol, position int) error {
	sess, ok := c.registry.Get(code)
	if !ok {
		return model.ErrSessionNotFound
	}
	sess.Lock()
	defer sess.Unlock()

	if err := c.applyMove(sess, symbol, position); err != nil {
		return err
	}

	for sess.Status == model.StatusActive {
		slot := sess.Slot(sess.Turn)
		if !slot.Bot {
			break
		}
		mv, err := c.bots.ChooseMove(sess.Board, sess.Turn, bot.Difficulty(slot.Difficulty))
		if err != nil || mv < 0 {
			c.logger.Error("bot move selection failed",
				slog.String("code", string(code)),
				slog.String("difficulty", slot.Difficulty),
			)
			break
		}
		if err := c.applyMove(sess, sess.Turn, mv); err != nil {
			c.logger.Error("bot move rejected",
				slog.String("code", string(code)),
				slog.Int("position", mv),
				slog.String("error", err.Error()),
			)
			break
		}
	}
	return nil
}

// applyMove performs a single validated move with the session lock
// held, broadcasting the resulting delta.
func (c *Controller) applyMove(sess *model.Session, symbol model.Symbol, position int) error {
	if sess.Status != model.StatusActive {
		return model.ErrGameNotActive
	}
	if sess.Turn != symbol {
		return model.ErrNotYourTurn
	}
	if position < 0 || position >= model.BoardSize {
		return model.ErrInvalidPosition
	}
	if !sess.Board.Empty(position) {
		return model.ErrCellOccupied
	}

	sess.Board[position] = symbol

	if winner, line, ok := engine.CheckOutcome(sess.Board); ok {
		c.finish(sess, model.Outcome(winner), []int{line[0], line[1], line[2]})
		return nil
	}
	if sess.Board.Full() {
		c.finish(sess, model.OutcomeDraw, nil)
		return nil
	}

	sess.Turn = symbol.Other()
	c.broadcaster.Broadcast(sess.Code, model.EventMoveMade, model.MoveMadePayload{
		Board:         sess.Board,
		CurrentPlayer: sess.Turn,
		LastMove:      model.LastMove{Position: position, Symbol: symbol},
		Scores:        sess.Scores,
	})
	return nil
}

// finish performs the terminal transition: outcome and scores are
// settled, game_over is broadcast, and the completed game is handed to
// the write-behind persistence writer.
func (c *Controller) finish(sess *model.Session, outcome model.Outcome, line []int) {
	sess.Status = model.StatusCompleted
	sess.Outcome = outcome
	sess.WinningLine = line
	if outcome != model.OutcomeDraw {
		sess.Scores.Add(model.Symbol(outcome))
	}

	c.broadcaster.Broadcast(sess.Code, model.EventGameOver, model.GameOverPayload{
		Board:       sess.Board,
		Winner:      outcome,
		WinningLine: line,
		IsDraw:      outcome == model.OutcomeDraw,
		Scores:      sess.Scores,
	})

	snap := persist.GameSnapshot{
		PlayerX: sess.SlotX.Name,
		PlayerO: sess.SlotO.Name,
		Board:   sess.Board,
		Turn:    sess.Turn,
		Outcome: outcome,
	}
	if sess.SlotO.Bot {
		snap.BotGame = true
		snap.Difficulty = sess.SlotO.Difficulty
	}
	c.writer.Record(snap)

	c.logger.Info("game completed",
		slog.String("code", string(sess.Code)),
		slog.String("outcome", string(outcome)),
	)
}

// Rematch resets the board and turn while preserving scores. The
// session returns to active when both slots are bound, waiting
// otherwise.
func (c *Controller) Rematch(code model.SessionCode) error {
	sess, ok := c.registry.Get(code)
	if !ok {
		return model.ErrSessionNotFound
	}
	sess.Lock()
	defer sess.Unlock()

	sess.Board = model.Board{}
	sess.Turn = model.StartingSymbol
	sess.Outcome = model.OutcomeNone
	sess.WinningLine = nil
	if sess.BothOccupied() {
		sess.Status = model.StatusActive
	} else {
		sess.Status = model.StatusWaiting
	}

	c.broadcaster.Broadcast(code, model.EventRematchStart, model.RematchStartPayload{
		Board:         sess.Board,
		CurrentPlayer: sess.Turn,
		Scores:        sess.Scores,
	})
	return nil
}

// Disconnect clears the departing connection's slot if it still owns
// it; a reconnection may already have replaced the binding, in which
// case the stale disconnect is ignored. The session entity outlives
// the departing connection until the reaper evicts it.
func (c *Controller) Disconnect(code model.SessionCode, symbol model.Symbol, connID string) {
	sess, ok := c.registry.Get(code)
	if !ok {
		return
	}
	sess.Lock()
	defer sess.Unlock()

	slot := sess.Slot(symbol)
	if slot.ConnID != connID {
		return
	}
	name := slot.Name
	*slot = model.Slot{}

	// The automated opponent has no connection of its own; it leaves
	// with its human.
	if other := sess.Slot(symbol.Other()); other.Bot {
		*other = model.Slot{}
	}

	c.broadcaster.Broadcast(code, model.EventPlayerDisconnected, model.PlayerDisconnectedPayload{
		Player: name,
		Symbol: symbol,
	})

	if sess.Status != model.StatusCompleted {
		sess.Status = model.StatusWaiting
	}
	if sess.BothEmpty() {
		sess.EmptySince = c.clock.Now()
	}
}
