package bot

import (
	"math"

	"github.com/auradevelopment5m/aura-tictactoe/internal/engine"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// maxScore is the undiscounted value of a won game. Terminal scores are
// depth-adjusted so the search prefers the fastest forced win and the
// slowest forced loss among equally-ranked lines.
const maxScore = 10

// MinimaxStrategy plays the optimal move via exhaustive adversarial
// search with alpha-beta pruning. With this strategy the automated
// opponent never loses.
type MinimaxStrategy struct{}

// NewMinimaxStrategy creates a new MinimaxStrategy.
func NewMinimaxStrategy() *MinimaxStrategy {
	return &MinimaxStrategy{}
}

// ChooseMove evaluates every legal move and returns the highest-scoring
// one. The board parameter is a value copy, so hypothetical placements
// never escape a call.
func (s *MinimaxStrategy) ChooseMove(b model.Board, self model.Symbol) int {
	moves := engine.LegalMoves(b)
	if len(moves) == 0 {
		return -1
	}

	best := moves[0]
	bestScore := math.MinInt
	for _, mv := range moves {
		b[mv] = self
		score := s.search(&b, self, 0, false, math.MinInt, math.MaxInt)
		b[mv] = ""
		if score > bestScore {
			bestScore = score
			best = mv
		}
	}
	return best
}

// search recursively scores the position after a hypothetical move.
// Each placement is retracted before returning, so the board is
// unchanged when a call completes.
func (s *MinimaxStrategy) search(b *model.Board, self model.Symbol, depth int, maximizing bool, alpha, beta int) int {
	if winner, _, ok := engine.CheckOutcome(*b); ok {
		if winner == self {
			return maxScore - depth
		}
		return depth - maxScore
	}

	moves := engine.LegalMoves(*b)
	if len(moves) == 0 {
		return 0
	}

	if maximizing {
		best := math.MinInt
		for _, mv := range moves {
			b[mv] = self
			score := s.search(b, self, depth+1, false, alpha, beta)
			b[mv] = ""
			if score > best {
				best = score
			}
			if score > alpha {
				alpha = score
			}
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := math.MaxInt
	opponent := self.Other()
	for _, mv := range moves {
		b[mv] = opponent
		score := s.search(b, self, depth+1, true, alpha, beta)
		b[mv] = ""
		if score < best {
			best = score
		}
		if score < beta {
			beta = score
		}
		if beta <= alpha {
			break
		}
	}
	return best
}
