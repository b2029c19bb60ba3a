package entity

const DefaultRoomCapacity = 2

// Room is a pre-game lobby. Members are kept in join order; the host is
// tracked separately and always points at a current member while the room
// is non-empty. The registry deletes a room the moment it empties.
type Room struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Capacity int      `json:"capacity"`
	Players  []string `json:"players"`
	HostID   string   `json:"hostId"`
	Public   bool     `json:"isPublic"`
}

func NewRoom(id int, name string, capacity int, hostID string, public bool) *Room {
	if capacity < DefaultRoomCapacity {
		capacity = DefaultRoomCapacity
	}

	return &Room{
		ID:       id,
		Name:     name,
		Capacity: capacity,
		Players:  []string{hostID},
		HostID:   hostID,
		Public:   public,
	}
}

func (that *Room) HasPlayer(playerID string) bool {
	for _, id := range that.Players {
		if id == playerID {
			return true
		}
	}

	return false
}

func (that *Room) IsFull() bool {
	return len(that.Players) >= that.Capacity
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

func (that *Room) AddPlayer(playerID string) {
	that.Players = append(that.Players, playerID)
}

// RemovePlayer drops the player from the member list. If the host leaves,
// the host role passes to the first remaining member in join order.
func (that *Room) RemovePlayer(playerID string) bool {
	for i, id := range that.Players {
		if id != playerID {
			continue
		}

		that.Players = append(that.Players[:i], that.Players[i+1:]...)

		if that.HostID == playerID && !that.IsEmpty() {
			that.HostID = that.Players[0]
		}

		return true
	}

	return false
}

// RoomSummary is the read-only projection used for lobby listings.
type RoomSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"playerCount"`
	Capacity    int    `json:"capacity"`
	HostID      string `json:"hostId"`
	Public      bool   `json:"isPublic"`
}

func (that *Room) Summary() RoomSummary {
	return RoomSummary{
		ID:          that.ID,
		Name:        that.Name,
		PlayerCount: len(that.Players),
		Capacity:    that.Capacity,
		HostID:      that.HostID,
		Public:      that.Public,
	}
}
