// Package api assembles the HTTP surface: the statistics endpoints,
// the health check and the realtime gateway mount.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/auradevelopment5m/aura-tictactoe/internal/api/handler"
	apimiddleware "github.com/auradevelopment5m/aura-tictactoe/internal/api/middleware"
	"github.com/auradevelopment5m/aura-tictactoe/internal/middleware"
	"github.com/auradevelopment5m/aura-tictactoe/internal/persist"
	"github.com/auradevelopment5m/aura-tictactoe/internal/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger  *slog.Logger
	Store   persist.Store
	Writer  *persist.Writer
	Cache   *redis.Client // nil disables leaderboard caching
	Gateway *ws.Gateway
}

// NewRouter creates the router with all routes configured. The
// realtime endpoint is mounted outside the middleware chain so the
// upgrade handshake keeps a hijackable ResponseWriter.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	statsHandler := handler.NewStatsHandler(cfg.Store, cfg.Writer, cfg.Cache, cfg.Logger)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	r.HandleFunc("/ws", cfg.Gateway.Handle)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/leaderboard", statsHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/check-username", statsHandler.CheckUsername).Methods(http.MethodPost)
	api.HandleFunc("/games", statsHandler.SaveGame).Methods(http.MethodPost)
	api.HandleFunc("/players/{username}", statsHandler.Player).Methods(http.MethodGet)

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
