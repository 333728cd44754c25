package persist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/mocks"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
	"github.com/auradevelopment5m/aura-tictactoe/internal/testutil"
)

type WriterSuite struct {
	suite.Suite
	store  *MemoryStore
	clock  *mocks.MockClock
	random *mocks.MockRandom
	writer *Writer
	ctx    context.Context
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterSuite))
}

func (s *WriterSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.store = NewMemoryStore(s.clock)
	s.writer = NewWriter(s.store, s.random, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *WriterSuite) snapshot(outcome model.Outcome) GameSnapshot {
	var b model.Board
	b[0], b[1], b[2] = model.SymbolX, model.SymbolX, model.SymbolX
	b[4], b[5] = model.SymbolO, model.SymbolO
	return GameSnapshot{
		PlayerX: "alice",
		PlayerO: "bob",
		Board:   b,
		Turn:    model.SymbolX,
		Outcome: outcome,
	}
}

func (s *WriterSuite) TestWriteCreatesPlayersAndRecord() {
	s.random.QueueString("GAMEID")

	err := s.writer.Write(s.ctx, s.snapshot(model.OutcomeX))
	s.Require().NoError(err)

	games := s.store.Games()
	s.Require().Len(games, 1)
	rec := games[0]
	s.Equal("GAMEID", *rec.SessionID)
	s.Equal(ModeMultiplayer, rec.Mode)
	s.Equal("XXX-OO---", rec.BoardState)
	s.Equal("X", rec.Winner)
	s.Equal("completed", rec.Status)
	s.Require().NotNil(rec.PlayerOID)

	alice, err := s.store.PlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, alice.Wins)
	s.Equal(0, alice.Losses)
	s.Equal(1, alice.TotalGames)

	bob, err := s.store.PlayerByUsername(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(0, bob.Wins)
	s.Equal(1, bob.Losses)
	s.Equal(1, bob.TotalGames)
}

func (s *WriterSuite) TestWriteDrawIncrementsBothDraws() {
	s.random.QueueString("GAMEID")

	err := s.writer.Write(s.ctx, s.snapshot(model.OutcomeDraw))
	s.Require().NoError(err)

	for _, name := range []string{"alice", "bob"} {
		p, err := s.store.PlayerByUsername(s.ctx, name)
		s.Require().NoError(err)
		s.Equal(1, p.Draws)
		s.Equal(0, p.Wins)
		s.Equal(0, p.Losses)
	}
}

func (s *WriterSuite) TestWriteRetriesOnIDCollision() {
	for _, id := range []string{"DUP001", "DUP002", "DUP003", "DUP004"} {
		s.store.SeedGameID(id)
	}
	s.random.QueueString("DUP001", "DUP002", "DUP003", "DUP004", "FRESH1")

	err := s.writer.Write(s.ctx, s.snapshot(model.OutcomeO))
	s.Require().NoError(err)

	games := s.store.Games()
	s.Require().Len(games, 1)
	s.Equal("FRESH1", *games[0].SessionID)
}

func (s *WriterSuite) TestWriteFailsAfterFiveCollisions() {
	ids := []string{"DUP001", "DUP002", "DUP003", "DUP004", "DUP005"}
	for _, id := range ids {
		s.store.SeedGameID(id)
	}
	s.random.QueueString(ids...)

	err := s.writer.Write(s.ctx, s.snapshot(model.OutcomeO))
	s.Require().ErrorIs(err, model.ErrPersistenceFailed)

	// No record was written and no stats were touched.
	s.Empty(s.store.Games())
	alice, err := s.store.PlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, alice.TotalGames)
}

func (s *WriterSuite) TestBotGameRecordsSingleModeWithoutOpponentRow() {
	s.random.QueueString("GAMEID")
	snap := s.snapshot(model.OutcomeO)
	snap.PlayerO = "Computer"
	snap.BotGame = true
	snap.Difficulty = "hard"

	err := s.writer.Write(s.ctx, snap)
	s.Require().NoError(err)

	games := s.store.Games()
	s.Require().Len(games, 1)
	s.Equal(ModeSingle, games[0].Mode)
	s.Nil(games[0].PlayerOID)
	s.Require().NotNil(games[0].Difficulty)
	s.Equal("hard", *games[0].Difficulty)

	// Only the human participant has stats.
	_, err = s.store.PlayerByUsername(s.ctx, "Computer")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	alice, err := s.store.PlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, alice.Losses)
}

func (s *WriterSuite) TestProvidedIDSkipsRetry() {
	snap := s.snapshot(model.OutcomeX)
	snap.ProvidedID = "CLIENT"

	err := s.writer.Write(s.ctx, snap)
	s.Require().NoError(err)

	games := s.store.Games()
	s.Require().Len(games, 1)
	s.Equal("CLIENT", *games[0].SessionID)
}

func (s *WriterSuite) TestRecordIsFireAndForget() {
	s.random.QueueString("GAMEID")

	s.writer.Record(s.snapshot(model.OutcomeX))
	s.writer.Wait()

	s.Len(s.store.Games(), 1)
}

func (s *WriterSuite) TestDisabledWriterIsNoop() {
	w := NewWriter(nil, s.random, s.clock, testutil.NopLogger())
	s.False(w.Enabled())
	w.Record(s.snapshot(model.OutcomeX))
	w.Wait()
	s.NoError(w.Write(s.ctx, s.snapshot(model.OutcomeX)))
}
