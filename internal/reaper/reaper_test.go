package reaper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/mocks"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
	"github.com/auradevelopment5m/aura-tictactoe/internal/registry/memory"
	"github.com/auradevelopment5m/aura-tictactoe/internal/testutil"
)

type ReaperSuite struct {
	suite.Suite
	registry *memory.Registry
	clock    *mocks.MockClock
	reaper   *Reaper
}

func TestReaperSuite(t *testing.T) {
	suite.Run(t, new(ReaperSuite))
}

func (s *ReaperSuite) SetupTest() {
	s.registry = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.reaper = New(s.registry, s.clock, testutil.NopLogger(), Config{})
}

func (s *ReaperSuite) addSession(code model.SessionCode, occupied bool) *model.Session {
	sess, created := s.registry.GetOrCreate(code, func() *model.Session {
		return model.NewSession(code, s.clock.Now())
	})
	s.Require().True(created)
	if occupied {
		sess.SlotX = model.Slot{Name: "alice", ConnID: "conn-x"}
	}
	return sess
}

func (s *ReaperSuite) TestEvictsAbandonedSessionAfterGrace() {
	sess := s.addSession("ABC123", false)
	sess.EmptySince = s.clock.Now()

	s.clock.Advance(DefaultGrace)
	s.reaper.Sweep()

	_, ok := s.registry.Get("ABC123")
	s.False(ok)
}

func (s *ReaperSuite) TestKeepsEmptySessionWithinGrace() {
	sess := s.addSession("ABC123", false)
	sess.EmptySince = s.clock.Now()

	s.clock.Advance(DefaultGrace - time.Second)
	s.reaper.Sweep()

	_, ok := s.registry.Get("ABC123")
	s.True(ok)
}

func (s *ReaperSuite) TestNeverEvictsOccupiedSessionBeforeMaxAge() {
	s.addSession("ABC123", true)

	s.clock.Advance(DefaultMaxAge - time.Minute)
	s.reaper.Sweep()

	_, ok := s.registry.Get("ABC123")
	s.True(ok)
}

func (s *ReaperSuite) TestEvictsAnySessionPastMaxAge() {
	s.addSession("ABC123", true)

	s.clock.Advance(DefaultMaxAge)
	s.reaper.Sweep()

	_, ok := s.registry.Get("ABC123")
	s.False(ok)
}

func (s *ReaperSuite) TestKeepsCompletedEmptySessionUntilMaxAge() {
	sess := s.addSession("ABC123", false)
	sess.Status = model.StatusCompleted
	sess.EmptySince = s.clock.Now()

	s.clock.Advance(DefaultGrace * 2)
	s.reaper.Sweep()
	_, ok := s.registry.Get("ABC123")
	s.True(ok)

	s.clock.Advance(DefaultMaxAge)
	s.reaper.Sweep()
	_, ok = s.registry.Get("ABC123")
	s.False(ok)
}

func (s *ReaperSuite) TestReboundSlotCancelsEviction() {
	sess := s.addSession("ABC123", false)
	sess.EmptySince = s.clock.Now()

	// A reconnection rebinds a slot and clears the empty marker before
	// the sweep fires.
	sess.SlotX = model.Slot{Name: "alice", ConnID: "conn-x2"}
	sess.EmptySince = time.Time{}

	s.clock.Advance(DefaultGrace * 2)
	s.reaper.Sweep()

	_, ok := s.registry.Get("ABC123")
	s.True(ok)
}
