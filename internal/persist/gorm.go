package persist

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/clock"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// GormStore implements Store against PostgreSQL via gorm.
type GormStore struct {
	db    *gorm.DB
	clock clock.Clock
}

var _ Store = (*GormStore)(nil)

// Open connects to the database, migrates the players and games
// tables, and returns a ready store. TranslateError turns driver
// uniqueness violations into gorm.ErrDuplicatedKey, which the
// identifier-collision retry relies on.
func Open(dsn string, clk clock.Clock) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := db.AutoMigrate(&PlayerRecord{}, &GameRecord{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &GormStore{db: db, clock: clk}, nil
}

func (s *GormStore) GetOrCreatePlayer(ctx context.Context, username string) (*PlayerRecord, error) {
	var player PlayerRecord
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&player).Error
	if err == nil {
		return &player, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	player = PlayerRecord{Username: username, LastActive: s.clock.Now()}
	if err := s.db.WithContext(ctx).Create(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent insert; the row exists now.
			if err := s.db.WithContext(ctx).Where("username = ?", username).First(&player).Error; err != nil {
				return nil, err
			}
			return &player, nil
		}
		return nil, err
	}
	return &player, nil
}

func (s *GormStore) InsertGame(ctx context.Context, rec *GameRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.ErrDuplicateGameID
		}
		return err
	}
	return nil
}

func (s *GormStore) ApplyResult(ctx context.Context, playerID uint, winner model.Outcome, symbol model.Symbol) error {
	wins, losses, draws := resultCounts(winner, symbol)
	return s.db.WithContext(ctx).
		Model(&PlayerRecord{}).
		Where("id = ?", playerID).
		Updates(map[string]any{
			"total_games": gorm.Expr("total_games + 1"),
			"wins":        gorm.Expr("wins + ?", wins),
			"losses":      gorm.Expr("losses + ?", losses),
			"draws":       gorm.Expr("draws + ?", draws),
			"last_active": s.clock.Now(),
		}).Error
}

func (s *GormStore) TopPlayers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var players []PlayerRecord
	if err := s.db.WithContext(ctx).Where("total_games > 0").Find(&players).Error; err != nil {
		return nil, err
	}
	return rankEntries(players, limit), nil
}

func (s *GormStore) TopPlayersForMode(ctx context.Context, mode string, limit int) ([]LeaderboardEntry, error) {
	var games []GameRecord
	err := s.db.WithContext(ctx).
		Where("mode = ? AND status = ?", mode, "completed").
		Find(&games).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(games)*2)
	seen := make(map[uint]bool)
	add := func(id uint) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, g := range games {
		add(g.PlayerXID)
		if g.PlayerOID != nil {
			add(*g.PlayerOID)
		}
	}
	if len(ids) == 0 {
		return []LeaderboardEntry{}, nil
	}

	var players []PlayerRecord
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&players).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Username
	}
	return rankEntries(aggregateGames(games, names), limit), nil
}

func (s *GormStore) PlayerByUsername(ctx context.Context, username string) (*PlayerRecord, error) {
	var player PlayerRecord
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *GormStore) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&PlayerRecord{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
