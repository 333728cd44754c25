// Package factory wires the application components together.
package factory

import (
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/clock"
	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/random"
	"github.com/auradevelopment5m/aura-tictactoe/internal/persist"
	"github.com/auradevelopment5m/aura-tictactoe/internal/reaper"
	"github.com/auradevelopment5m/aura-tictactoe/internal/registry"
	"github.com/auradevelopment5m/aura-tictactoe/internal/registry/memory"
	"github.com/auradevelopment5m/aura-tictactoe/internal/services/bot"
	"github.com/auradevelopment5m/aura-tictactoe/internal/services/session"
	"github.com/auradevelopment5m/aura-tictactoe/internal/ws"
)

// App contains all wired application components
type App struct {
	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Core
	Registry   registry.Registry
	Store      persist.Store
	Writer     *persist.Writer
	Hub        *ws.Hub
	Controller *session.Controller
	Gateway    *ws.Gateway
	Reaper     *reaper.Reaper

	// Cache is nil when no Redis is configured.
	Cache *redis.Client
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// DatabaseURL is the PostgreSQL DSN (optional)
	// If empty, stats are kept in process memory only
	DatabaseURL string
	// RedisURL is the Redis address for leaderboard caching (optional)
	RedisURL string
	// ReaperConfig tunes the session sweep; zero fields take defaults
	ReaperConfig reaper.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := clock.New()
	rnd := random.New()

	var store persist.Store
	if cfg.DatabaseURL != "" {
		gormStore, err := persist.Open(cfg.DatabaseURL, clk)
		if err != nil {
			return nil, err
		}
		store = gormStore
	} else {
		logger.Warn("no database configured, stats are process-local")
		store = persist.NewMemoryStore(clk)
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		cache = redis.NewClient(opts)
	}

	reg := memory.New()
	writer := persist.NewWriter(store, rnd, clk, logger)
	hub := ws.NewHub(logger)
	controller := session.NewController(reg, hub, writer, bot.NewSelector(rnd), clk, rnd, logger)
	gateway := ws.NewGateway(hub, controller, logger)
	sweeper := reaper.New(reg, clk, logger, cfg.ReaperConfig)

	return &App{
		Clock:      clk,
		Random:     rnd,
		Registry:   reg,
		Store:      store,
		Writer:     writer,
		Hub:        hub,
		Controller: controller,
		Gateway:    gateway,
		Reaper:     sweeper,
		Cache:      cache,
	}, nil
}
