package bot

import (
	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/random"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// mediumRandomPercent is the chance a medium-tier bot plays a random
// move instead of the optimal one.
const mediumRandomPercent = 30

// Selector picks moves according to a difficulty tier.
type Selector struct {
	random   random.Random
	optimal  Strategy
	fallback Strategy
}

// NewSelector creates a Selector with the standard strategies.
func NewSelector(rnd random.Random) *Selector {
	return &Selector{
		random:   rnd,
		optimal:  NewMinimaxStrategy(),
		fallback: NewRandomStrategy(rnd),
	}
}

// ChooseMove selects a move for self at the given difficulty. Easy is
// uniform random, hard is always optimal, medium is random 30% of the
// time and optimal otherwise.
func (s *Selector) ChooseMove(b model.Board, self model.Symbol, difficulty Difficulty) (int, error) {
	switch difficulty {
	case DifficultyEasy:
		return s.fallback.ChooseMove(b, self), nil
	case DifficultyMedium:
		if s.random.Intn(100) < mediumRandomPercent {
			return s.fallback.ChooseMove(b, self), nil
		}
		return s.optimal.ChooseMove(b, self), nil
	case DifficultyHard:
		return s.optimal.ChooseMove(b, self), nil
	}
	return -1, model.ErrUnknownDifficulty
}
