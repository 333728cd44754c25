package model

import (
	"sync"
	"time"
)

// SessionCode is the human-shareable identifier naming one live session.
// Codes are upper-cased at the gateway and unique among live sessions only.
type SessionCode string

const (
	// SessionCodeLength is the length of session codes and game record ids.
	SessionCodeLength = 6
	// SessionCodeAlphabet is the character set for generated identifiers.
	SessionCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Status is the lifecycle phase of a session.
type Status string

const (
	StatusWaiting   Status = "waiting"   // fewer than two participants bound
	StatusActive    Status = "active"    // both slots bound, moves accepted
	StatusCompleted Status = "completed" // outcome decided, awaiting rematch or eviction
)

// Outcome is the decided result of a completed game.
type Outcome string

const (
	OutcomeNone Outcome = ""
	OutcomeX    Outcome = "X"
	OutcomeO    Outcome = "O"
	OutcomeDraw Outcome = "D"
)

// Slot is a participant binding. A zero Slot is empty; an occupied slot
// carries the display name and the identity of the owning connection.
type Slot struct {
	Name       string
	ConnID     string
	Bot        bool
	Difficulty string // bot difficulty tier, empty for humans
}

// Occupied reports whether the slot is bound to a participant.
func (s Slot) Occupied() bool {
	return s.ConnID != ""
}

// Scores holds per-symbol cumulative win counters. They persist across
// rematches within the same session.
type Scores struct {
	X int `json:"X"`
	O int `json:"O"`
}

// Add increments the counter for the given symbol.
func (s *Scores) Add(sym Symbol) {
	switch sym {
	case SymbolX:
		s.X++
	case SymbolO:
		s.O++
	}
}

// Session is one live game, owned exclusively by the registry. All field
// access after creation must happen with the session lock held; the lock
// serializes every event touching this session without blocking others.
type Session struct {
	mu sync.Mutex

	Code        SessionCode
	SlotX       Slot
	SlotO       Slot
	Board       Board
	Turn        Symbol
	Status      Status
	Outcome     Outcome
	WinningLine []int
	Scores      Scores
	CreatedAt   time.Time

	// EmptySince is set when the last occupant leaves and cleared when a
	// slot is rebound. The reaper's grace period counts from it.
	EmptySince time.Time
}

// NewSession creates a waiting session with an empty board.
func NewSession(code SessionCode, now time.Time) *Session {
	return &Session{
		Code:      code,
		Turn:      StartingSymbol,
		Status:    StatusWaiting,
		CreatedAt: now,
	}
}

// Lock acquires the session's exclusive lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's exclusive lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Slot returns a pointer to the slot for the given symbol.
func (s *Session) Slot(sym Symbol) *Slot {
	if sym == SymbolX {
		return &s.SlotX
	}
	return &s.SlotO
}

// BothOccupied reports whether both participant slots are bound.
func (s *Session) BothOccupied() bool {
	return s.SlotX.Occupied() && s.SlotO.Occupied()
}

// BothEmpty reports whether neither slot is bound.
func (s *Session) BothEmpty() bool {
	return !s.SlotX.Occupied() && !s.SlotO.Occupied()
}

// FreeSymbol returns the symbol of a free slot, preferring X, and false
// if the session is full. The first occupant is always assigned X; a
// later occupant takes whichever slot is open.
func (s *Session) FreeSymbol() (Symbol, bool) {
	if !s.SlotX.Occupied() {
		return SymbolX, true
	}
	if !s.SlotO.Occupied() {
		return SymbolO, true
	}
	return "", false
}

// HasBot reports whether either slot is occupied by the automated opponent.
func (s *Session) HasBot() bool {
	return s.SlotX.Bot || s.SlotO.Bot
}
