// Package bot selects moves for the automated opponent. The optimal
// strategy is exhaustive adversarial search; difficulty tiers blend in
// randomized fallback.
package bot

import (
	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/random"
	"github.com/auradevelopment5m/aura-tictactoe/internal/engine"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// Difficulty is the automated opponent's skill tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty validates a difficulty string from the wire.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", model.ErrUnknownDifficulty
}

// Strategy defines how a move is chosen for the given symbol.
// Implementations return -1 when the board has no legal moves.
type Strategy interface {
	ChooseMove(b model.Board, self model.Symbol) int
}

// RandomStrategy picks uniformly among legal moves.
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy.
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseMove returns a random empty cell index.
func (s *RandomStrategy) ChooseMove(b model.Board, self model.Symbol) int {
	moves := engine.LegalMoves(b)
	if len(moves) == 0 {
		return -1
	}
	return moves[s.random.Intn(len(moves))]
}
