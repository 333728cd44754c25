package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/clock"
	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/random"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
)

// maxInsertAttempts bounds the identifier-collision retry loop. Game
// record ids share a 6-character namespace with every previously
// recorded game, so collisions are rare but expected.
const maxInsertAttempts = 5

// Modes stored on game records.
const (
	ModeMultiplayer = "multiplayer"
	ModeSingle      = "single"
)

// GameSnapshot is the value copy of a completed session handed to the
// writer. It is taken under the session lock; the writer never touches
// live session state.
type GameSnapshot struct {
	PlayerX    string
	PlayerO    string // empty for single-player records with no opponent row
	BotGame    bool
	Difficulty string
	Board      model.Board
	Turn       model.Symbol
	Outcome    model.Outcome

	// ProvidedID carries a caller-supplied record id (client-reported
	// games). When empty the writer allocates fresh ids with retry.
	ProvidedID string
}

// Writer is the write-behind recorder of completed games. Record is
// fire-and-forget; failures are logged and never revert or block the
// already-broadcast in-memory outcome.
type Writer struct {
	store  Store
	random random.Random
	clock  clock.Clock
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewWriter creates a Writer. A nil store disables recording.
func NewWriter(store Store, rnd random.Random, clk clock.Clock, logger *slog.Logger) *Writer {
	return &Writer{
		store:  store,
		random: rnd,
		clock:  clk,
		logger: logger.With(slog.String("component", "persist-writer")),
	}
}

// Enabled reports whether a backing store is configured.
func (w *Writer) Enabled() bool {
	return w != nil && w.store != nil
}

// Record persists the snapshot asynchronously. It returns immediately;
// the gameplay path never awaits the store.
func (w *Writer) Record(snap GameSnapshot) {
	if !w.Enabled() {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.Write(context.Background(), snap); err != nil {
			w.logger.Error("failed to record completed game",
				slog.String("player_x", snap.PlayerX),
				slog.String("player_o", snap.PlayerO),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// Wait blocks until all in-flight records have settled. Used at
// shutdown.
func (w *Writer) Wait() {
	w.wg.Wait()
}

// Write synchronously resolves participants, inserts the game record
// and folds the outcome into each participant's counters.
func (w *Writer) Write(ctx context.Context, snap GameSnapshot) error {
	if !w.Enabled() {
		return nil
	}

	playerX, err := w.store.GetOrCreatePlayer(ctx, snap.PlayerX)
	if err != nil {
		return fmt.Errorf("resolving player %q: %w", snap.PlayerX, err)
	}

	var playerO *PlayerRecord
	if snap.PlayerO != "" && !snap.BotGame {
		playerO, err = w.store.GetOrCreatePlayer(ctx, snap.PlayerO)
		if err != nil {
			return fmt.Errorf("resolving player %q: %w", snap.PlayerO, err)
		}
	}

	rec := w.buildRecord(snap, playerX, playerO)
	if err := w.insertWithRetry(ctx, rec, snap.ProvidedID); err != nil {
		return err
	}

	if err := w.store.ApplyResult(ctx, playerX.ID, snap.Outcome, model.SymbolX); err != nil {
		return fmt.Errorf("updating stats for %q: %w", snap.PlayerX, err)
	}
	if playerO != nil {
		if err := w.store.ApplyResult(ctx, playerO.ID, snap.Outcome, model.SymbolO); err != nil {
			return fmt.Errorf("updating stats for %q: %w", snap.PlayerO, err)
		}
	}

	w.logger.Info("game recorded",
		slog.String("mode", rec.Mode),
		slog.String("winner", rec.Winner),
	)
	return nil
}

func (w *Writer) buildRecord(snap GameSnapshot, playerX, playerO *PlayerRecord) *GameRecord {
	rec := &GameRecord{
		PlayerXID:   playerX.ID,
		Mode:        ModeMultiplayer,
		BoardState:  snap.Board.Encode(),
		CurrentTurn: string(snap.Turn),
		Winner:      string(snap.Outcome),
		Status:      "completed",
		CompletedAt: w.clock.Now(),
	}
	if playerO != nil {
		rec.PlayerOID = &playerO.ID
	}
	if snap.BotGame {
		rec.Mode = ModeSingle
	}
	if snap.Difficulty != "" {
		d := snap.Difficulty
		rec.Difficulty = &d
	}
	return rec
}

// insertWithRetry allocates a fresh record id per attempt. Rematches
// reuse the live session code, so records never key on it; each saved
// game gets its own identifier, regenerated on the rare collision.
func (w *Writer) insertWithRetry(ctx context.Context, rec *GameRecord, providedID string) error {
	if providedID != "" {
		rec.SessionID = &providedID
		return w.store.InsertGame(ctx, rec)
	}

	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		id := w.random.String(model.SessionCodeLength, model.SessionCodeAlphabet)
		rec.SessionID = &id
		err := w.store.InsertGame(ctx, rec)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrDuplicateGameID) {
			return fmt.Errorf("inserting game record: %w", err)
		}
	}
	return fmt.Errorf("exhausted %d id attempts: %w", maxInsertAttempts, model.ErrPersistenceFailed)
}
