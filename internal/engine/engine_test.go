package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// boardFrom builds a board from a 9-character string with '-' for empty.
func boardFrom(t *testing.T, s string) model.Board {
	t.Helper()
	require.Len(t, s, model.BoardSize)
	var b model.Board
	for i, c := range s {
		if c != '-' {
			b[i] = model.Symbol(c)
		}
	}
	return b
}

func TestCheckOutcomeDetectsEveryLine(t *testing.T) {
	tests := []struct {
		name  string
		board string
		line  [3]int
	}{
		{"top row", "XXX------", [3]int{0, 1, 2}},
		{"middle row", "---XXX---", [3]int{3, 4, 5}},
		{"bottom row", "------XXX", [3]int{6, 7, 8}},
		{"left column", "X--X--X--", [3]int{0, 3, 6}},
		{"middle column", "-X--X--X-", [3]int{1, 4, 7}},
		{"right column", "--X--X--X", [3]int{2, 5, 8}},
		{"main diagonal", "X---X---X", [3]int{0, 4, 8}},
		{"anti diagonal", "--X-X-X--", [3]int{2, 4, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner, line, ok := CheckOutcome(boardFrom(t, tt.board))
			require.True(t, ok)
			assert.Equal(t, model.SymbolX, winner)
			assert.Equal(t, tt.line, line)
		})
	}
}

func TestCheckOutcomeReturnsOWinner(t *testing.T) {
	winner, line, ok := CheckOutcome(boardFrom(t, "XX-OOOX--"))
	require.True(t, ok)
	assert.Equal(t, model.SymbolO, winner)
	assert.Equal(t, [3]int{3, 4, 5}, line)
}

func TestCheckOutcomeNoWinner(t *testing.T) {
	boards := []string{
		"---------",
		"X--------",
		"XOX------",
		"XOXOXOOXO", // full board, no line
	}
	for _, s := range boards {
		_, _, ok := CheckOutcome(boardFrom(t, s))
		assert.False(t, ok, "board %q should have no winner", s)
	}
}

func TestCheckOutcomeIgnoresEmptyTriples(t *testing.T) {
	// Three empty cells in a row must not count as a line.
	_, _, ok := CheckOutcome(model.Board{})
	assert.False(t, ok)
}

func TestIsDraw(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  bool
	}{
		{"empty board", "---------", false},
		{"in progress", "XOX------", false},
		{"full with winner", "XXXOOXOXO", false},
		{"full no winner", "XOXOXOOXO", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDraw(boardFrom(t, tt.board)))
		})
	}
}

func TestLegalMoves(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, LegalMoves(model.Board{}))
	assert.Equal(t, []int{1, 3, 8}, LegalMoves(boardFrom(t, "X-O-XOXX-")))
	assert.Nil(t, LegalMoves(boardFrom(t, "XOXOXOOXO")))
}
