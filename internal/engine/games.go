package engine

import (
	"context"
	"fmt"
	"html"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

// Shoot applies a shot from the caller's seat. A non-zero gameID must match
// the caller's current game; zero targets it implicitly. On success both
// seats get a fresh masked view; a game-ending shot additionally emits the
// per-seat gameover flags and records the result.
func (that *Engine) Shoot(ctx context.Context, playerID string, gameID, row, col int) (bool, []Event, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[playerID]
	if !ok || sess.gameID == 0 {
		return false, nil, apperror.ErrNotInGame
	}

	if gameID != 0 && gameID != sess.gameID {
		return false, nil, apperror.ErrGameNotFound
	}

	game, ok := that.games[sess.gameID]
	if !ok {
		return false, nil, apperror.ErrGameNotFound
	}

	hit, err := game.Shoot(sess.seat, row, col)
	if err != nil {
		return false, nil, err
	}

	events := gameUpdates(game)

	if game.IsFinished() {
		events = append(events,
			to(game.WinnerID(), ActionGameOver, true),
			to(game.LoserID(), ActionGameOver, false),
		)
		that.recordResult(ctx, game)

		that.logger.Info("game finished", "gameID", game.ID, "winnerID", game.WinnerID())
	}

	return hit, events, nil
}

// Chat relays a message to the opponent. Content is HTML-escaped before it
// leaves the engine; an empty message is dropped.
func (that *Engine) Chat(playerID, message string) ([]Event, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[playerID]
	if !ok || sess.gameID == 0 {
		return nil, apperror.ErrNotInGame
	}

	game, ok := that.games[sess.gameID]
	if !ok {
		return nil, apperror.ErrGameNotFound
	}

	if message == "" {
		return nil, nil
	}

	escaped := html.EscapeString(message)

	return []Event{
		to(playerID, ActionChat, ChatMessage{Name: "Me", Message: escaped}),
		to(game.Players[game.OpponentOf(sess.seat)], ActionChat, ChatMessage{Name: "Opponent", Message: escaped}),
	}, nil
}

// LeaveGame handles an explicit in-game leave: the match is forfeited if
// still running and the identity is re-enrolled into the waiting pool for
// rematching.
func (that *Engine) LeaveGame(ctx context.Context, playerID string) []Event {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[playerID]
	if !ok || sess.gameID == 0 {
		return nil
	}

	events := that.leaveGameLocked(ctx, playerID, sess, true)

	that.waiting = append(that.waiting, playerID)

	matchEvents, err := that.matchWaitingLocked()
	if err != nil {
		that.logger.Error("failed to match waiting players", "error", err)
	}

	return append(events, matchEvents...)
}

// leaveGameLocked unwinds one identity's game association. The opponent is
// notified; an unfinished game is aborted in their favor. notifySelf is
// false on disconnect, when there is nobody left to ack.
func (that *Engine) leaveGameLocked(ctx context.Context, playerID string, sess *session, notifySelf bool) []Event {
	game, ok := that.games[sess.gameID]
	if !ok {
		sess.gameID = 0
		sess.seat = entity.SeatNone

		return nil
	}

	opponentID := game.Players[game.OpponentOf(sess.seat)]

	events := []Event{to(opponentID, ActionNotification, Notification{Message: "Opponent has left the game"})}

	if !game.IsFinished() {
		game.Abort(sess.seat)
		events = append(events,
			to(game.WinnerID(), ActionGameOver, true),
			to(game.LoserID(), ActionGameOver, false),
		)
		that.recordResult(ctx, game)

		that.logger.Info("game aborted", "gameID", game.ID, "leftID", playerID)
	}

	sess.gameID = 0
	sess.seat = entity.SeatNone

	// free the game once nobody references it anymore
	if opponentSess, ok := that.sessions[opponentID]; !ok || opponentSess.gameID != game.ID {
		delete(that.games, game.ID)
	}

	if notifySelf {
		events = append(events, to(playerID, ActionLeave, nil))
	}

	return events
}

// matchWaitingLocked pairs up waiting players two at a time.
func (that *Engine) matchWaitingLocked() ([]Event, error) {
	var events []Event

	for len(that.waiting) >= 2 {
		first, second := that.waiting[0], that.waiting[1]
		that.waiting = that.waiting[2:]

		_, gameEvents, err := that.createGameLocked(first, second)
		if err != nil {
			return events, err
		}

		events = append(events, gameEvents...)
	}

	return events, nil
}

// createGameLocked builds both boards, registers the session and binds the
// two identities to seats 0 and 1. Board placement runs before any state is
// touched so a placement failure leaves nothing behind.
func (that *Engine) createGameLocked(playerA, playerB string) (*entity.Game, []Event, error) {
	boardA, boardB := entity.NewBoard(), entity.NewBoard()

	if err := battleship.PlaceFleet(boardA, that.rng); err != nil {
		return nil, nil, fmt.Errorf("failed to place fleet: %w", err)
	}

	if err := battleship.PlaceFleet(boardB, that.rng); err != nil {
		return nil, nil, fmt.Errorf("failed to place fleet: %w", err)
	}

	id := that.nextGameID
	that.nextGameID++

	game := entity.NewGame(id, playerA, playerB, boardA, boardB)
	that.games[id] = game

	for seat, memberID := range game.Players {
		if sess, ok := that.sessions[memberID]; ok {
			sess.roomID = 0
			sess.gameID = id
			sess.seat = seat
		}
	}

	that.logger.Info("game created", "gameID", id, "players", game.Players)

	events := []Event{
		to(playerA, ActionJoin, id),
		to(playerB, ActionJoin, id),
	}

	return game, append(events, gameUpdates(game)...), nil
}

// gameUpdates builds the per-seat filtered views; the two payloads differ
// because each seat sees the opponent's board masked.
func gameUpdates(game *entity.Game) []Event {
	return []Event{
		to(game.Players[0], ActionUpdate, game.ViewFor(0)),
		to(game.Players[1], ActionUpdate, game.ViewFor(1)),
	}
}
