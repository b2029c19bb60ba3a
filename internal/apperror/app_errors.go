package apperror

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrNotHost             = errors.New("only host can start the game")
	ErrInsufficientPlayers = errors.New("not enough players to start")

	ErrGameNotFound      = errors.New("game not found")
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrAlreadyResolved   = errors.New("cell is already resolved")
	ErrInvalidCoordinate = errors.New("coordinate is out of bounds")
	ErrNotInGame         = errors.New("player is not in a game")
	ErrSessionNotFound   = errors.New("session not found")
)
