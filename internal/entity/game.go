package entity

import (
	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

const SeatNone = -1

// Game is the authoritative state machine for one match: two seats, each
// bound to a player id and a board, plus turn and terminal state. The status
// only ever moves ongoing -> finished.
type Game struct {
	ID      int       `json:"id"`
	Players [2]string `json:"players"`
	Boards  [2]*Board `json:"-"`
	Turn    int       `json:"turn"`
	Status  string    `json:"status"`
	Winner  int       `json:"-"`
}

func NewGame(id int, playerA, playerB string, boardA, boardB *Board) *Game {
	return &Game{
		ID:      id,
		Players: [2]string{playerA, playerB},
		Boards:  [2]*Board{boardA, boardB},
		Turn:    0,
		Status:  StatusOngoing,
		Winner:  SeatNone,
	}
}

// Shoot applies a shot from the given seat to the opponent's board. An
// accepted shot always flips the turn unless it ends the game; a rejected
// shot leaves the game untouched.
func (that *Game) Shoot(seat, row, col int) (bool, error) {
	if that.IsFinished() {
		return false, apperror.ErrGameFinished
	}

	if seat != that.Turn {
		return false, apperror.ErrNotYourTurn
	}

	opponent := that.OpponentOf(seat)

	hit, err := that.Boards[opponent].ApplyShot(row, col)
	if err != nil {
		return false, err
	}

	if that.Boards[opponent].AllSunk() {
		that.Status = StatusFinished
		that.Winner = seat

		return hit, nil
	}

	that.Turn = opponent

	return hit, nil
}

// Abort ends the game in favor of the other seat. Used when a player
// disconnects or leaves mid-game; a no-op once the game is finished.
func (that *Game) Abort(seat int) {
	if that.IsFinished() {
		return
	}

	that.Status = StatusFinished
	that.Winner = that.OpponentOf(seat)
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) OpponentOf(seat int) int {
	return 1 - seat
}

func (that *Game) SeatOf(playerID string) int {
	for seat, id := range that.Players {
		if id == playerID {
			return seat
		}
	}

	return SeatNone
}

// WinnerID is meaningful only once the game is finished.
func (that *Game) WinnerID() string {
	if that.Winner == SeatNone {
		return ""
	}

	return that.Players[that.Winner]
}

// LoserID is meaningful only once the game is finished.
func (that *Game) LoserID() string {
	if that.Winner == SeatNone {
		return ""
	}

	return that.Players[that.OpponentOf(that.Winner)]
}

// GameState is the per-seat projection of a game: the own board in full, the
// opponent's board masked. Both seats receive a different payload built from
// the same game.
type GameState struct {
	ID            int    `json:"id"`
	Seat          int    `json:"seat"`
	OwnBoard      Grid   `json:"ownBoard"`
	OpponentBoard Grid   `json:"opponentBoard"`
	Turn          int    `json:"turn"`
	Status        string `json:"status"`
}

func (that *Game) ViewFor(seat int) GameState {
	return GameState{
		ID:            that.ID,
		Seat:          seat,
		OwnBoard:      that.Boards[seat].View(true),
		OpponentBoard: that.Boards[that.OpponentOf(seat)].View(false),
		Turn:          that.Turn,
		Status:        that.Status,
	}
}
