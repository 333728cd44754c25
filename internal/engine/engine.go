// Package engine holds the pure game rules: win detection, draw
// detection and legal-move enumeration. It knows nothing about
// sessions or connections; the session coordinator and the search
// engine both evaluate boards through it.
package engine

import (
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// winningLines are the 8 triples that decide a game, tested in a fixed
// order: rows, then columns, then diagonals. Under strict turn
// alternation a move completes at most one new triple, so the order has
// no observable effect.
var winningLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// CheckOutcome tests the board for a completed triple. It returns the
// winning symbol and line on the first match, or ok=false when no line
// is uniformly marked.
func CheckOutcome(b model.Board) (winner model.Symbol, line [3]int, ok bool) {
	for _, l := range winningLines {
		if b[l[0]] != "" && b[l[0]] == b[l[1]] && b[l[0]] == b[l[2]] {
			return b[l[0]], l, true
		}
	}
	return "", [3]int{}, false
}

// IsDraw reports whether the board is full with no winner.
func IsDraw(b model.Board) bool {
	if _, _, won := CheckOutcome(b); won {
		return false
	}
	return b.Full()
}

// LegalMoves returns the indices of all empty cells.
func LegalMoves(b model.Board) []int {
	var moves []int
	for i := range b {
		if b.Empty(i) {
			moves = append(moves, i)
		}
	}
	return moves
}
