package model

import "errors"

// Common errors used across the application
var (
	// Admission errors
	ErrMissingParams     = errors.New("session code and player name are required")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionFull       = errors.New("session is full")
	ErrUnknownDifficulty = errors.New("unknown bot difficulty")

	// Move errors
	ErrGameNotActive   = errors.New("game is not active")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidPosition = errors.New("invalid board position")
	ErrCellOccupied    = errors.New("cell is already taken")

	// Persistence errors
	ErrDuplicateGameID   = errors.New("game record id already exists")
	ErrPersistenceFailed = errors.New("failed to persist game record")
	ErrPlayerNotFound    = errors.New("player not found")
)
