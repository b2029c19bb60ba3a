package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

// CreateRoom opens a new lobby with the caller as host and sole member. A
// caller already sitting in another room is moved out of it first, and an
// unfinished game is forfeited, so an identity never holds more than one
// association.
func (that *Engine) CreateRoom(ctx context.Context, playerID, name string, capacity int, public bool) (*entity.Room, []Event, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[playerID]
	if !ok {
		return nil, nil, apperror.ErrSessionNotFound
	}

	that.removeFromWaiting(playerID)

	var events []Event

	if sess.gameID != 0 {
		events = append(events, that.leaveGameLocked(ctx, playerID, sess, true)...)
	}

	if sess.roomID != 0 {
		leaveEvents, err := that.leaveRoomLocked(sess.roomID, playerID, sess)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to leave previous room: %w", err)
		}
		events = append(events, leaveEvents...)
	}

	id := that.nextRoomID
	that.nextRoomID++

	if name == "" {
		name = fmt.Sprintf("Room %d", id)
	}

	room := entity.NewRoom(id, name, capacity, playerID, public)
	that.rooms[id] = room
	sess.roomID = id

	events = append(events, broadcast(ActionRoomUpdate, RoomListing{Rooms: that.listRoomsLocked()}))

	that.logger.Info("room created", "roomID", id, "hostID", playerID)

	return room, events, nil
}

// JoinRoom appends the identity to the room. Joining a room you are already
// in is an idempotent success; an unfinished game is forfeited on entry.
// Filling the last slot auto-starts the match.
func (that *Engine) JoinRoom(ctx context.Context, roomID int, playerID string) (*entity.Room, []Event, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return nil, nil, apperror.ErrRoomNotFound
	}

	if room.HasPlayer(playerID) {
		return room, nil, nil
	}

	if room.IsFull() {
		return nil, nil, apperror.ErrRoomFull
	}

	sess, ok := that.sessions[playerID]
	if !ok {
		return nil, nil, apperror.ErrSessionNotFound
	}

	that.removeFromWaiting(playerID)

	var events []Event

	if sess.gameID != 0 {
		events = append(events, that.leaveGameLocked(ctx, playerID, sess, true)...)
	}

	if sess.roomID != 0 && sess.roomID != roomID {
		leaveEvents, err := that.leaveRoomLocked(sess.roomID, playerID, sess)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to leave previous room: %w", err)
		}
		events = append(events, leaveEvents...)
	}

	room.AddPlayer(playerID)
	sess.roomID = roomID

	events = append(events, that.roomUpdateLocked(room)...)

	if room.IsFull() {
		_, startEvents, err := that.promoteLocked(room)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to auto-start game: %w", err)
		}
		events = append(events, startEvents...)
	}

	return room, events, nil
}

// LeaveRoom removes the identity from the room; an emptied room is deleted
// on the spot.
func (that *Engine) LeaveRoom(roomID int, playerID string) ([]Event, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess, ok := that.sessions[playerID]
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return that.leaveRoomLocked(roomID, playerID, sess)
}

// StartGame promotes the room into a game session. Only the host may start
// a room; force is used internally for auto-start on capacity fill.
func (that *Engine) StartGame(roomID int, playerID string, force bool) (int, []Event, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return 0, nil, apperror.ErrRoomNotFound
	}

	if !force && room.HostID != playerID {
		return 0, nil, apperror.ErrNotHost
	}

	if len(room.Players) < 2 {
		return 0, nil, apperror.ErrInsufficientPlayers
	}

	return that.promoteLocked(room)
}

// ListRooms returns a lobby snapshot ordered by room id.
func (that *Engine) ListRooms() []entity.RoomSummary {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.listRoomsLocked()
}

func (that *Engine) listRoomsLocked() []entity.RoomSummary {
	summaries := make([]entity.RoomSummary, 0, len(that.rooms))
	for _, room := range that.rooms {
		summaries = append(summaries, room.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })

	return summaries
}

func (that *Engine) leaveRoomLocked(roomID int, playerID string, sess *session) ([]Event, error) {
	room, ok := that.rooms[roomID]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	room.RemovePlayer(playerID)
	sess.roomID = 0

	if room.IsEmpty() {
		delete(that.rooms, roomID)

		that.logger.Info("room deleted", "roomID", roomID)

		return []Event{broadcast(ActionRoomUpdate, RoomListing{Rooms: that.listRoomsLocked()})}, nil
	}

	return that.roomUpdateLocked(room), nil
}

// roomUpdateLocked emits the single-room delta to its members plus the full
// lobby snapshot to everyone, mirroring what lobby clients expect.
func (that *Engine) roomUpdateLocked(room *entity.Room) []Event {
	events := make([]Event, 0, len(room.Players)+1)
	for _, memberID := range room.Players {
		events = append(events, to(memberID, ActionRoomUpdate, RoomDelta{Room: room.Summary()}))
	}

	return append(events, broadcast(ActionRoomUpdate, RoomListing{Rooms: that.listRoomsLocked()}))
}

// promoteLocked consumes the room: the first two members become seats 0 and
// 1 of a fresh game session. Any further members are requeued into a new
// room carrying the old room's name and visibility so nobody is dropped.
func (that *Engine) promoteLocked(room *entity.Room) (int, []Event, error) {
	game, events, err := that.createGameLocked(room.Players[0], room.Players[1])
	if err != nil {
		return 0, nil, err
	}

	leftovers := append([]string(nil), room.Players[2:]...)
	delete(that.rooms, room.ID)

	if len(leftovers) > 0 {
		requeued := entity.NewRoom(that.nextRoomID, room.Name, room.Capacity, leftovers[0], room.Public)
		requeued.Players = leftovers
		that.nextRoomID++
		that.rooms[requeued.ID] = requeued

		for _, memberID := range leftovers {
			if sess, ok := that.sessions[memberID]; ok {
				sess.roomID = requeued.ID
			}
		}

		events = append(events, that.roomUpdateLocked(requeued)...)
	} else {
		events = append(events, broadcast(ActionRoomUpdate, RoomListing{Rooms: that.listRoomsLocked()}))
	}

	that.logger.Info("room promoted to game", "roomID", room.ID, "gameID", game.ID)

	return game.ID, events, nil
}
