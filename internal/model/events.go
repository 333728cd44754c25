package model

// Outbound event names on the realtime connection.
const (
	EventSessionCreated     = "session_created"
	EventGameStart          = "game_start"
	EventMoveMade           = "move_made"
	EventGameOver           = "game_over"
	EventRematchStart       = "rematch_start"
	EventPlayerDisconnected = "player_disconnected"
	EventSessionError       = "session_error" // fatal, connection closes after
	EventErrorMessage       = "error_message" // non-fatal, connection stays open
)

// Inbound event names.
const (
	EventMove    = "move"
	EventRematch = "rematch"
)

// Coded reasons carried by session_error frames.
const (
	ErrorCodeMissingParams     = "missing_params"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeFull              = "full"
	ErrorCodeInvalidDifficulty = "invalid_difficulty"
)

// PlayerNames maps each symbol to its occupant's display name.
type PlayerNames struct {
	X string `json:"X"`
	O string `json:"O"`
}

// LastMove describes the most recently accepted move.
type LastMove struct {
	Position int    `json:"position"`
	Symbol   Symbol `json:"symbol"`
}

// SessionCreatedPayload is sent to the admitted connection only.
type SessionCreatedPayload struct {
	SessionID  SessionCode `json:"sessionId"`
	Symbol     Symbol      `json:"symbol"`
	PlayerName string      `json:"playerName"`
	Scores     Scores      `json:"scores"`
}

// GameStartPayload is broadcast when both slots become bound.
type GameStartPayload struct {
	Players       PlayerNames `json:"players"`
	Board         Board       `json:"board"`
	CurrentPlayer Symbol      `json:"currentPlayer"`
	Scores        Scores      `json:"scores"`
}

// MoveMadePayload is broadcast after each accepted non-terminal move.
type MoveMadePayload struct {
	Board         Board    `json:"board"`
	CurrentPlayer Symbol   `json:"currentPlayer"`
	LastMove      LastMove `json:"lastMove"`
	Scores        Scores   `json:"scores"`
}

// GameOverPayload is broadcast on the terminal transition.
type GameOverPayload struct {
	Board       Board   `json:"board"`
	Winner      Outcome `json:"winner"`
	WinningLine []int   `json:"winningLine"`
	IsDraw      bool    `json:"isDraw"`
	Scores      Scores  `json:"scores"`
}

// RematchStartPayload is broadcast after a session reset.
type RematchStartPayload struct {
	Board         Board  `json:"board"`
	CurrentPlayer Symbol `json:"currentPlayer"`
	Scores        Scores `json:"scores"`
}

// PlayerDisconnectedPayload is broadcast when an occupant's connection drops.
type PlayerDisconnectedPayload struct {
	Player string `json:"player"`
	Symbol Symbol `json:"symbol"`
}

// SessionErrorPayload carries a coded fatal error to one connection.
type SessionErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorMessagePayload carries a non-fatal error to one connection.
type ErrorMessagePayload struct {
	Message string `json:"message"`
}
