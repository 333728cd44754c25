// Package reaper evicts abandoned and expired sessions from the
// registry on a fixed schedule.
package reaper

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/clock"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
	"github.com/auradevelopment5m/aura-tictactoe/internal/registry"
)

// Defaults for the sweep policy.
const (
	DefaultInterval = 15 * time.Second
	DefaultGrace    = 60 * time.Second
	DefaultMaxAge   = time.Hour
)

// Config tunes the sweep policy. Zero fields take the defaults.
type Config struct {
	// Interval between sweeps.
	Interval time.Duration
	// Grace is how long a non-completed session may sit with both
	// slots empty before eviction. Reconnection within the grace
	// period keeps the session addressable by the same code.
	Grace time.Duration
	// MaxAge evicts any session regardless of state.
	MaxAge time.Duration
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Grace <= 0 {
		c.Grace = DefaultGrace
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultMaxAge
	}
	return c
}

// Reaper periodically removes sessions nobody will come back to.
// Eviction is a pure registry removal; it broadcasts nothing and
// persists nothing.
type Reaper struct {
	registry  registry.Registry
	clock     clock.Clock
	logger    *slog.Logger
	cfg       Config
	scheduler gocron.Scheduler
}

// New creates a Reaper. Call Start to begin sweeping.
func New(reg registry.Registry, clk clock.Clock, logger *slog.Logger, cfg Config) *Reaper {
	return &Reaper{
		registry: reg,
		clock:    clk,
		logger:   logger.With(slog.String("component", "reaper")),
		cfg:      cfg.withDefaults(),
	}
}

// Start schedules the sweep at the configured interval.
func (r *Reaper) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(r.cfg.Interval),
		gocron.NewTask(r.Sweep),
	); err != nil {
		return err
	}
	scheduler.Start()
	r.scheduler = scheduler
	return nil
}

// Stop shuts the schedule down. In-flight sweeps finish first.
func (r *Reaper) Stop() {
	if r.scheduler != nil {
		if err := r.scheduler.Shutdown(); err != nil {
			r.logger.Warn("scheduler shutdown failed", slog.String("error", err.Error()))
		}
	}
}

// Sweep applies both eviction rules once: a non-completed session with
// both slots empty past the grace period is removed, and any session
// past max age is removed regardless of state. An occupied session is
// never evicted before max age.
func (r *Reaper) Sweep() {
	now := r.clock.Now()
	for _, sess := range r.registry.All() {
		sess.Lock()
		code := sess.Code
		expired := now.Sub(sess.CreatedAt) >= r.cfg.MaxAge
		abandoned := sess.Status != model.StatusCompleted &&
			!sess.EmptySince.IsZero() &&
			now.Sub(sess.EmptySince) >= r.cfg.Grace
		sess.Unlock()

		if !expired && !abandoned {
			continue
		}
		r.registry.Remove(code)
		reason := "abandoned"
		if expired {
			reason = "expired"
		}
		r.logger.Info("session evicted",
			slog.String("code", string(code)),
			slog.String("reason", reason),
		)
	}
}
