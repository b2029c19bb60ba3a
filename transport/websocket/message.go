package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

// Message is the wire envelope for both directions: an action name plus a
// raw payload decoded per action.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the ack payload sent back on the same action the client used.
type Response struct {
	Success  bool                 `json:"success"`
	Error    string               `json:"error,omitempty"`
	PlayerID string               `json:"playerId,omitempty"`
	Room     *entity.RoomSummary  `json:"room,omitempty"`
	Rooms    []entity.RoomSummary `json:"rooms,omitempty"`
	GameID   int                  `json:"gameId,omitempty"`
	Hit      *bool                `json:"hit,omitempty"`
}

type CreateRoomRequest struct {
	Name     string `json:"name,omitempty"`
	Capacity int    `json:"capacity,omitempty"`
	Public   *bool  `json:"isPublic,omitempty"`
}

type RoomRequest struct {
	RoomID int `json:"roomId"`
}

type ShootRequest struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	GameID int `json:"gameId,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message"`
}
