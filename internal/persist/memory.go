package persist

import (
	"context"
	"sync"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/clock"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// MemoryStore is an in-memory Store used in tests and as a stand-in
// when no database is configured. It enforces the same uniqueness
// rules as the relational schema.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	nextID  uint
	players map[string]*PlayerRecord
	byID    map[uint]*PlayerRecord
	games   []*GameRecord
	gameIDs map[string]bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clk,
		nextID:  1,
		players: make(map[string]*PlayerRecord),
		byID:    make(map[uint]*PlayerRecord),
		gameIDs: make(map[string]bool),
	}
}

func (s *MemoryStore) GetOrCreatePlayer(ctx context.Context, username string) (*PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[username]; ok {
		return p, nil
	}
	now := s.clock.Now()
	p := &PlayerRecord{
		ID:         s.nextID,
		Username:   username,
		CreatedAt:  now,
		LastActive: now,
	}
	s.nextID++
	s.players[username] = p
	s.byID[p.ID] = p
	return p, nil
}

func (s *MemoryStore) InsertGame(ctx context.Context, rec *GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.SessionID != nil {
		if s.gameIDs[*rec.SessionID] {
			return model.ErrDuplicateGameID
		}
		s.gameIDs[*rec.SessionID] = true
	}
	rec.ID = s.nextID
	s.nextID++
	now := s.clock.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.games = append(s.games, rec)
	return nil
}

// SeedGameID marks an identifier as already used, for collision tests.
func (s *MemoryStore) SeedGameID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameIDs[id] = true
}

// Games returns the inserted game records.
func (s *MemoryStore) Games() []*GameRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*GameRecord, len(s.games))
	copy(out, s.games)
	return out
}

func (s *MemoryStore) ApplyResult(ctx context.Context, playerID uint, winner model.Outcome, symbol model.Symbol) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[playerID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	wins, losses, draws := resultCounts(winner, symbol)
	p.TotalGames++
	p.Wins += wins
	p.Losses += losses
	p.Draws += draws
	p.LastActive = s.clock.Now()
	return nil
}

func (s *MemoryStore) TopPlayers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var players []PlayerRecord
	for _, p := range s.players {
		if p.TotalGames > 0 {
			players = append(players, *p)
		}
	}
	return rankEntries(players, limit), nil
}

func (s *MemoryStore) TopPlayersForMode(ctx context.Context, mode string, limit int) ([]LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var games []GameRecord
	for _, g := range s.games {
		if g.Mode == mode {
			games = append(games, *g)
		}
	}
	names := make(map[uint]string, len(s.byID))
	for id, p := range s.byID {
		names[id] = p.Username
	}
	return rankEntries(aggregateGames(games, names), limit), nil
}

func (s *MemoryStore) PlayerByUsername(ctx context.Context, username string) (*PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *MemoryStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.players[username]
	return ok, nil
}
