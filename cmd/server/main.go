package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/auradevelopment5m/aura-tictactoe/internal/api"
	"github.com/auradevelopment5m/aura-tictactoe/internal/factory"
	"github.com/auradevelopment5m/aura-tictactoe/internal/reaper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "aura-tictactoe",
		Short: "Realtime tic-tac-toe session coordinator",
		Long: `aura-tictactoe serves two-player tic-tac-toe sessions over WebSocket,
with an optional automated opponent, plus a statistics API backed by
PostgreSQL with Redis-cached leaderboards.

Configuration comes from the environment (a .env file is honored):
PORT, DATABASE_URL, REDIS_URL, LOG_LEVEL, REAPER_INTERVAL,
REAPER_GRACE, REAPER_MAX_AGE.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP listen port (env: PORT)")
	return cmd
}

func run(port int) error {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}

	app, err := factory.New(factory.Config{
		Logger:      logger,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		ReaperConfig: reaper.Config{
			Interval: envDuration("REAPER_INTERVAL"),
			Grace:    envDuration("REAPER_GRACE"),
			MaxAge:   envDuration("REAPER_MAX_AGE"),
		},
	})
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}

	if err := app.Reaper.Start(); err != nil {
		logger.Error("failed to start reaper", slog.String("error", err.Error()))
		return err
	}
	defer app.Reaper.Stop()

	router := api.NewRouter(api.RouterConfig{
		Logger:  logger,
		Store:   app.Store,
		Writer:  app.Writer,
		Cache:   app.Cache,
		Gateway: app.Gateway,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = port
	server := api.NewServer(router, serverConfig, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	// Drain in-flight game records before exiting.
	app.Writer.Wait()

	logger.Info("server stopped")
	return nil
}

func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envDuration(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default",
			slog.String("key", key),
			slog.String("value", v),
		)
		return 0
	}
	return d
}
