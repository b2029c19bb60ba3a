package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleRoomCreate(ctx context.Context, client *Client, payload json.RawMessage) error {
	const action = "room:create"

	var req CreateRoomRequest
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return that.send(client, action, Response{Error: "malformed payload"})
		}
	}

	public := req.Public == nil || *req.Public

	room, events, err := that.engine.CreateRoom(ctx, client.playerID, req.Name, req.Capacity, public)
	if err != nil {
		return that.send(client, action, Response{Error: err.Error()})
	}

	that.dispatch(events)

	summary := room.Summary()

	return that.send(client, action, Response{Success: true, Room: &summary})
}

func (that *Server) handleRoomList(_ context.Context, client *Client, _ json.RawMessage) error {
	return that.send(client, "room:list", Response{Success: true, Rooms: that.engine.ListRooms()})
}

func (that *Server) handleRoomJoin(ctx context.Context, client *Client, payload json.RawMessage) error {
	const action = "room:join"

	var req RoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return that.send(client, action, Response{Error: "malformed payload"})
	}

	room, events, err := that.engine.JoinRoom(ctx, req.RoomID, client.playerID)
	if err != nil {
		return that.send(client, action, Response{Error: err.Error()})
	}

	that.dispatch(events)

	summary := room.Summary()

	return that.send(client, action, Response{Success: true, Room: &summary})
}

func (that *Server) handleRoomLeave(_ context.Context, client *Client, payload json.RawMessage) error {
	const action = "room:leave"

	var req RoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return that.send(client, action, Response{Error: "malformed payload"})
	}

	events, err := that.engine.LeaveRoom(req.RoomID, client.playerID)
	if err != nil {
		return that.send(client, action, Response{Error: err.Error()})
	}

	that.dispatch(events)

	return that.send(client, action, Response{Success: true})
}

func (that *Server) handleRoomStart(_ context.Context, client *Client, payload json.RawMessage) error {
	const action = "room:start"

	var req RoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return that.send(client, action, Response{Error: "malformed payload"})
	}

	gameID, events, err := that.engine.StartGame(req.RoomID, client.playerID, false)
	if err != nil {
		return that.send(client, action, Response{Error: err.Error()})
	}

	that.dispatch(events)

	return that.send(client, action, Response{Success: true, GameID: gameID})
}

func (that *Server) handleGameShoot(ctx context.Context, client *Client, payload json.RawMessage) error {
	const action = "game:shoot"

	var req ShootRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return that.send(client, action, Response{Error: "malformed payload"})
	}

	hit, events, err := that.engine.Shoot(ctx, client.playerID, req.GameID, req.Row, req.Col)
	if err != nil {
		return that.send(client, action, Response{Error: err.Error()})
	}

	that.dispatch(events)

	return that.send(client, action, Response{Success: true, Hit: &hit})
}

func (that *Server) handleGameLeave(ctx context.Context, client *Client, _ json.RawMessage) error {
	that.dispatch(that.engine.LeaveGame(ctx, client.playerID))

	return that.send(client, "game:leave", Response{Success: true})
}

func (that *Server) handleChat(_ context.Context, client *Client, payload json.RawMessage) error {
	var req ChatRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		that.sendError(client, "malformed payload")
		return nil
	}

	events, err := that.engine.Chat(client.playerID, req.Message)
	if err != nil {
		that.sendError(client, fmt.Sprintf("chat: %v", err))
		return nil
	}

	that.dispatch(events)

	return nil
}
