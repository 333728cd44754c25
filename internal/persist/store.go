// Package persist records completed games and cumulative participant
// statistics in the external relational store. Everything here is
// best-effort from the coordinator's point of view: failures are
// logged and never touch live gameplay.
package persist

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// PlayerRecord is one row in the players table, keyed by unique
// display name with mutable cumulative counters.
type PlayerRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	TotalGames int       `gorm:"not null;default:0" json:"total_games"`
	Wins       int       `gorm:"not null;default:0" json:"wins"`
	Losses     int       `gorm:"not null;default:0" json:"losses"`
	Draws      int       `gorm:"not null;default:0" json:"draws"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// TableName implements the gorm naming override.
func (PlayerRecord) TableName() string { return "players" }

// GameRecord is one immutable row per completed game. SessionID is a
// fresh 6-character identifier per record (codes are reused per
// rematch, so live session codes cannot key this table); it is nil for
// client-reported games that carry no code.
type GameRecord struct {
	ID          uint    `gorm:"primaryKey"`
	SessionID   *string `gorm:"uniqueIndex;size:6"`
	PlayerXID   uint    `gorm:"not null"`
	PlayerOID   *uint
	Mode        string  `gorm:"size:16;not null"`
	Difficulty  *string `gorm:"size:8"`
	BoardState  string  `gorm:"size:9;not null"`
	CurrentTurn string  `gorm:"size:1"`
	Winner      string  `gorm:"size:1"`
	Status      string  `gorm:"size:16;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt time.Time
}

// TableName implements the gorm naming override.
func (GameRecord) TableName() string { return "games" }

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerName string  `json:"playerName"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	Draws      int     `json:"draws"`
	TotalGames int     `json:"totalGames"`
	WinRate    float64 `json:"winRate"`
}

// Store is the contract against the relational store. The core
// consumes it; the statistics query service reads the same tables.
type Store interface {
	// GetOrCreatePlayer looks a player up by unique display name,
	// inserting a row with zeroed counters if absent.
	GetOrCreatePlayer(ctx context.Context, username string) (*PlayerRecord, error)

	// InsertGame inserts one game record, returning
	// model.ErrDuplicateGameID on an identifier uniqueness violation.
	InsertGame(ctx context.Context, rec *GameRecord) error

	// ApplyResult folds one game outcome into a player's cumulative
	// counters and refreshes last_active.
	ApplyResult(ctx context.Context, playerID uint, winner model.Outcome, symbol model.Symbol) error

	// TopPlayers returns up to limit leaderboard entries, ranked over
	// the cumulative player counters.
	TopPlayers(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	// TopPlayersForMode ranks players over completed game records of a
	// single mode instead of the cumulative counters.
	TopPlayersForMode(ctx context.Context, mode string, limit int) ([]LeaderboardEntry, error)

	// PlayerByUsername returns a player's record, or
	// model.ErrPlayerNotFound.
	PlayerByUsername(ctx context.Context, username string) (*PlayerRecord, error)

	// UsernameTaken reports whether a display name is already claimed.
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

// resultCounts maps a game outcome to counter increments for the
// participant playing the given symbol: a draw increments draws for
// both sides, otherwise the matching symbol wins and the other loses.
func resultCounts(winner model.Outcome, symbol model.Symbol) (wins, losses, draws int) {
	switch {
	case winner == model.OutcomeDraw:
		draws = 1
	case winner == model.OutcomeNone:
	case model.Symbol(winner) == symbol:
		wins = 1
	default:
		losses = 1
	}
	return wins, losses, draws
}

// aggregateGames folds completed game records into per-player counters,
// resolving display names through the names map.
func aggregateGames(games []GameRecord, names map[uint]string) []PlayerRecord {
	counters := make(map[uint]*PlayerRecord)
	touch := func(id uint) *PlayerRecord {
		p, ok := counters[id]
		if !ok {
			p = &PlayerRecord{ID: id, Username: names[id]}
			counters[id] = p
		}
		return p
	}

	for _, g := range games {
		if g.Status != "completed" {
			continue
		}
		x := touch(g.PlayerXID)
		wins, losses, draws := resultCounts(model.Outcome(g.Winner), model.SymbolX)
		x.TotalGames++
		x.Wins += wins
		x.Losses += losses
		x.Draws += draws

		if g.PlayerOID != nil {
			o := touch(*g.PlayerOID)
			wins, losses, draws = resultCounts(model.Outcome(g.Winner), model.SymbolO)
			o.TotalGames++
			o.Wins += wins
			o.Losses += losses
			o.Draws += draws
		}
	}

	players := make([]PlayerRecord, 0, len(counters))
	for _, p := range counters {
		if p.TotalGames > 0 {
			players = append(players, *p)
		}
	}
	return players
}

// rankEntries orders players by wins, then win rate, then games
// played, then name, assigns ranks and applies the limit.
func rankEntries(players []PlayerRecord, limit int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		var rate float64
		if p.TotalGames > 0 {
			rate = math.Round(float64(p.Wins)*1000/float64(p.TotalGames)) / 10
		}
		entries = append(entries, LeaderboardEntry{
			PlayerName: p.Username,
			Wins:       p.Wins,
			Losses:     p.Losses,
			Draws:      p.Draws,
			TotalGames: p.TotalGames,
			WinRate:    rate,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		return a.PlayerName < b.PlayerName
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
