package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/mocks"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

func TestParseDifficulty(t *testing.T) {
	for _, s := range []string{"easy", "medium", "hard"} {
		d, err := ParseDifficulty(s)
		require.NoError(t, err)
		assert.Equal(t, Difficulty(s), d)
	}

	_, err := ParseDifficulty("impossible")
	assert.ErrorIs(t, err, model.ErrUnknownDifficulty)
}

func TestSelectorEasyIsRandom(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(2) // third legal move
	selector := NewSelector(rnd)

	b := boardFrom(t, "X--------")
	mv, err := selector.ChooseMove(b, model.SymbolO, DifficultyEasy)
	require.NoError(t, err)
	assert.Equal(t, 3, mv) // legal moves are 1..8, index 2 is position 3
}

func TestSelectorHardIsOptimal(t *testing.T) {
	selector := NewSelector(mocks.NewMockRandom())

	b := boardFrom(t, "X--------")
	mv, err := selector.ChooseMove(b, model.SymbolO, DifficultyHard)
	require.NoError(t, err)
	assert.Equal(t, 4, mv)
}

func TestSelectorMediumRandomBranch(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(29) // below the 30% threshold: random path
	rnd.QueueIntn(0)  // first legal move
	selector := NewSelector(rnd)

	b := boardFrom(t, "X--------")
	mv, err := selector.ChooseMove(b, model.SymbolO, DifficultyMedium)
	require.NoError(t, err)
	assert.Equal(t, 1, mv)
}

func TestSelectorMediumOptimalBranch(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(30) // at the threshold: optimal path
	selector := NewSelector(rnd)

	b := boardFrom(t, "X--------")
	mv, err := selector.ChooseMove(b, model.SymbolO, DifficultyMedium)
	require.NoError(t, err)
	assert.Equal(t, 4, mv)
}

func TestSelectorRejectsUnknownDifficulty(t *testing.T) {
	selector := NewSelector(mocks.NewMockRandom())
	_, err := selector.ChooseMove(model.Board{}, model.SymbolO, Difficulty("nightmare"))
	assert.ErrorIs(t, err, model.ErrUnknownDifficulty)
}
