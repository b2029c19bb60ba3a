package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

type resultRecorder interface {
	RecordResult(ctx context.Context, winnerID, loserID string) error
}

// session is the at-most-one association a connection identity holds:
// a room, or a game seat, or nothing. Zero ids mean no association.
type session struct {
	roomID int
	gameID int
	seat   int
}

// Engine owns the room registry, the game registry and the per-connection
// sessions. Every mutating operation holds the engine mutex for its full
// validate-then-mutate span, so events are applied one at a time and no
// partial mutation is ever observable.
type Engine struct {
	logger  *slog.Logger
	results resultRecorder

	mu         sync.Mutex
	rooms      map[int]*entity.Room
	games      map[int]*entity.Game
	sessions   map[string]*session
	waiting    []string
	nextRoomID int
	nextGameID int
	rng        *rand.Rand
}

func New(logger *slog.Logger, results resultRecorder) *Engine {
	return &Engine{
		logger:     logger,
		results:    results,
		rooms:      make(map[int]*entity.Room),
		games:      make(map[int]*entity.Game),
		sessions:   make(map[string]*session),
		nextRoomID: 1,
		nextGameID: 1,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // board placement is not security sensitive
	}
}

// Connect registers a fresh connection identity and hands it the current
// lobby snapshot.
func (that *Engine) Connect(playerID string) []Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[playerID] = &session{seat: entity.SeatNone}

	that.logger.Info("player connected", "playerID", playerID)

	return []Event{to(playerID, ActionRoomList, RoomListing{Rooms: that.listRoomsLocked()})}
}

// Disconnect unwinds whatever the identity was associated with: an
// unfinished game is forfeited first, then room membership is released.
// Both steps run to completion even when one is a no-op.
func (that *Engine) Disconnect(ctx context.Context, playerID string) []Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Disconnect", "playerID", playerID)

	sess, ok := that.sessions[playerID]
	if !ok {
		return nil
	}

	var events []Event

	if sess.gameID != 0 {
		events = append(events, that.leaveGameLocked(ctx, playerID, sess, false)...)
	}

	if sess.roomID != 0 {
		roomEvents, err := that.leaveRoomLocked(sess.roomID, playerID, sess)
		if err != nil {
			log.Error("failed to leave room on disconnect", "error", err)
		}
		events = append(events, roomEvents...)
	}

	that.removeFromWaiting(playerID)
	delete(that.sessions, playerID)

	log.Info("player disconnected")

	return events
}

func (that *Engine) removeFromWaiting(playerID string) {
	for i, id := range that.waiting {
		if id == playerID {
			that.waiting = append(that.waiting[:i], that.waiting[i+1:]...)
			return
		}
	}
}

// recordResult is best effort: a storage failure must not fail the match.
func (that *Engine) recordResult(ctx context.Context, game *entity.Game) {
	if that.results == nil {
		return
	}

	if err := that.results.RecordResult(ctx, game.WinnerID(), game.LoserID()); err != nil {
		that.logger.Error("failed to record game result", "gameID", game.ID, "error", err)
	}
}
