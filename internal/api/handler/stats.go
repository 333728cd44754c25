// Package handler holds the HTTP handlers for the statistics API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/auradevelopment5m/aura-tictactoe/internal/api/apierr"
	"github.com/auradevelopment5m/aura-tictactoe/internal/api/response"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
	"github.com/auradevelopment5m/aura-tictactoe/internal/persist"
)

const (
	leaderboardLimit    = 50
	leaderboardCacheTTL = 30 * time.Second
)

// StatsHandler serves the leaderboard and player statistics endpoints
// backed by the same store the persistence writer mutates.
type StatsHandler struct {
	store  persist.Store
	writer *persist.Writer
	cache  *redis.Client // nil disables caching
	logger *slog.Logger
}

// NewStatsHandler creates a StatsHandler. cache may be nil.
func NewStatsHandler(store persist.Store, writer *persist.Writer, cache *redis.Client, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		store:  store,
		writer: writer,
		cache:  cache,
		logger: logger.With(slog.String("component", "stats-handler")),
	}
}

type leaderboardResponse struct {
	Leaderboard []persist.LeaderboardEntry `json:"leaderboard"`
	Mode        string                     `json:"mode"`
}

// Leaderboard serves GET /api/leaderboard?mode=all|single|multiplayer.
// The "all" mode ranks over cumulative player counters; the others rank
// over completed game records of that mode only.
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "all"
	}

	if entries, ok := h.cachedLeaderboard(r, mode); ok {
		response.JSON(w, http.StatusOK, leaderboardResponse{Leaderboard: entries, Mode: mode})
		return
	}

	var entries []persist.LeaderboardEntry
	var err error
	switch mode {
	case "all":
		entries, err = h.store.TopPlayers(ctx, leaderboardLimit)
	case persist.ModeSingle, persist.ModeMultiplayer:
		entries, err = h.store.TopPlayersForMode(ctx, mode, leaderboardLimit)
	default:
		apierr.WriteError(w, apierr.NewInvalidRequestError("unknown leaderboard mode"))
		return
	}
	if err != nil {
		h.logger.Error("failed to build leaderboard",
			slog.String("mode", mode),
			slog.String("error", err.Error()),
		)
		apierr.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []persist.LeaderboardEntry{}
	}

	h.storeLeaderboard(r, mode, entries)
	response.JSON(w, http.StatusOK, leaderboardResponse{Leaderboard: entries, Mode: mode})
}

func leaderboardKey(mode string) string {
	return "leaderboard:" + mode
}

func (h *StatsHandler) cachedLeaderboard(r *http.Request, mode string) ([]persist.LeaderboardEntry, bool) {
	if h.cache == nil {
		return nil, false
	}
	raw, err := h.cache.Get(r.Context(), leaderboardKey(mode)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			h.logger.Warn("leaderboard cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	var entries []persist.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (h *StatsHandler) storeLeaderboard(r *http.Request, mode string, entries []persist.LeaderboardEntry) {
	if h.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := h.cache.Set(r.Context(), leaderboardKey(mode), raw, leaderboardCacheTTL).Err(); err != nil {
		h.logger.Warn("leaderboard cache write failed", slog.String("error", err.Error()))
	}
}

// CheckUsername serves POST /api/check-username.
func (h *StatsHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username is required"))
		return
	}

	taken, err := h.store.UsernameTaken(r.Context(), username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"available": !taken})
}

// Player serves GET /api/players/{username}.
func (h *StatsHandler) Player(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	player, err := h.store.PlayerByUsername(r.Context(), username)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, player)
}

type saveGameRequest struct {
	PlayerName  string `json:"playerName"`
	Result      string `json:"result"`
	Mode        string `json:"mode"`
	Difficulty  string `json:"difficulty"`
	SessionID   string `json:"sessionId"`
	Winner      string `json:"winner"`
	BoardState  string `json:"boardState"`
	CurrentTurn string `json:"currentTurn"`
}

// SaveGame serves POST /api/games, recording a client-reported game.
// Single-player results arrive as win/loss/draw from the reporting
// player's perspective and are translated to a winning symbol.
func (h *StatsHandler) SaveGame(w http.ResponseWriter, r *http.Request) {
	var req saveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("playerName is required"))
		return
	}

	winner := model.Outcome(req.Winner)
	if req.Mode == persist.ModeSingle {
		switch req.Result {
		case "win":
			winner = model.OutcomeX
		case "loss":
			winner = model.OutcomeO
		case "draw":
			winner = model.OutcomeDraw
		}
	}

	board := model.Board{}
	if req.BoardState != "" {
		var err error
		board, err = model.DecodeBoard(req.BoardState)
		if err != nil {
			apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
			return
		}
	}
	turn := model.Symbol(req.CurrentTurn)
	if !turn.Valid() {
		turn = model.StartingSymbol
	}

	snap := persist.GameSnapshot{
		PlayerX:    req.PlayerName,
		BotGame:    req.Mode == persist.ModeSingle,
		Difficulty: req.Difficulty,
		Board:      board,
		Turn:       turn,
		Outcome:    winner,
		ProvidedID: req.SessionID,
	}
	if err := h.writer.Write(r.Context(), snap); err != nil {
		h.logger.Error("failed to save reported game",
			slog.String("player", req.PlayerName),
			slog.String("error", err.Error()),
		)
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
