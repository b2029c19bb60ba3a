package engine

import "github.com/rocketscienceinc/battleship-backend/internal/entity"

// Server-pushed event actions.
const (
	ActionRoomList     = "roomList"
	ActionRoomUpdate   = "roomUpdate"
	ActionJoin         = "join"
	ActionUpdate       = "update"
	ActionGameOver     = "gameover"
	ActionNotification = "notification"
	ActionChat         = "chat"
	ActionLeave        = "leave"
)

// Event is an addressed outbound message produced by an engine operation.
// The engine never talks to connections itself; the sync layer is the only
// component that resolves recipients to live connections.
type Event struct {
	// To is the recipient player id. Empty means every connected client.
	To      string
	Action  string
	Payload any
}

// RoomDelta is the roomUpdate payload sent to the members of a single room.
type RoomDelta struct {
	Room entity.RoomSummary `json:"room"`
}

// RoomListing is the roomUpdate/roomList payload carrying the full lobby.
type RoomListing struct {
	Rooms []entity.RoomSummary `json:"rooms"`
}

type Notification struct {
	Message string `json:"message"`
}

type ChatMessage struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

func broadcast(action string, payload any) Event {
	return Event{Action: action, Payload: payload}
}

func to(playerID, action string, payload any) Event {
	return Event{To: playerID, Action: action, Payload: payload}
}
