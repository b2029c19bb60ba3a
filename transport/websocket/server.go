package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/battleship-backend/internal/engine"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/rocketscienceinc/battleship-backend/internal/pkg"
)

const actionConnect = "connect"

type gameEngine interface {
	Connect(playerID string) []engine.Event
	Disconnect(ctx context.Context, playerID string) []engine.Event

	CreateRoom(ctx context.Context, playerID, name string, capacity int, public bool) (*entity.Room, []engine.Event, error)
	JoinRoom(ctx context.Context, roomID int, playerID string) (*entity.Room, []engine.Event, error)
	LeaveRoom(roomID int, playerID string) ([]engine.Event, error)
	StartGame(roomID int, playerID string, force bool) (int, []engine.Event, error)
	ListRooms() []entity.RoomSummary

	Shoot(ctx context.Context, playerID string, gameID, row, col int) (bool, []engine.Event, error)
	Chat(playerID, message string) ([]engine.Event, error)
	LeaveGame(ctx context.Context, playerID string) []engine.Event
}

type playerRegistry interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
}

// Server is the sync protocol layer: it owns the live connections and is
// the only component that turns engine events into socket writes.
type Server struct {
	logger   *slog.Logger
	engine   gameEngine
	players  playerRegistry
	upgrader websocket.Upgrader

	clientsMutex sync.RWMutex
	clients      map[string]*Client

	handlers map[string]func(ctx context.Context, client *Client, payload json.RawMessage) error
}

func New(logger *slog.Logger, gameEngine gameEngine, players playerRegistry) *Server {
	server := &Server{
		logger:  logger,
		engine:  gameEngine,
		players: players,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		clients:  make(map[string]*Client),
		handlers: make(map[string]func(context.Context, *Client, json.RawMessage) error),
	}

	server.handlers["room:create"] = server.handleRoomCreate
	server.handlers["room:list"] = server.handleRoomList
	server.handlers["room:join"] = server.handleRoomJoin
	server.handlers["room:leave"] = server.handleRoomLeave
	server.handlers["room:start"] = server.handleRoomStart
	server.handlers["game:shoot"] = server.handleGameShoot
	server.handlers["game:leave"] = server.handleGameLeave
	server.handlers["chat"] = server.handleChat

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.handleConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	playerID := pkg.GenerateSessionID()
	client := newClient(playerID, conn)

	// best effort, the connection is usable without a stored record
	if regErr := that.players.CreateOrUpdate(ctx, &entity.Player{ID: playerID}); regErr != nil {
		log.Error("failed to store player record", "playerID", playerID, "error", regErr)
	}

	that.clientsMutex.Lock()
	that.clients[playerID] = client
	that.clientsMutex.Unlock()

	go client.writePump()

	that.dispatch(that.engine.Connect(playerID))

	if err = that.send(client, actionConnect, Response{Success: true, PlayerID: playerID}); err != nil {
		log.Error("failed to send connect ack", "error", err)
	}

	client.readPump(ctx, that)

	that.clientsMutex.Lock()
	delete(that.clients, playerID)
	that.clientsMutex.Unlock()

	client.shutdown()

	that.dispatch(that.engine.Disconnect(ctx, playerID))
}

// route decodes one inbound frame and hands it to the action handler.
func (that *Server) route(ctx context.Context, client *Client, raw []byte) {
	log := that.logger.With("method", "route", "playerID", client.playerID)

	var message Message
	if err := json.Unmarshal(raw, &message); err != nil {
		log.Error("failed to unmarshal message", "error", err)
		that.sendError(client, "malformed message")

		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Error("unknown action", "action", message.Action)
		that.sendError(client, fmt.Sprintf("unknown action: %s", message.Action))

		return
	}

	if err := handler(ctx, client, message.Payload); err != nil {
		log.Error("failed to handle message", "action", message.Action, "error", err)
	}
}

// dispatch fans engine events out to their recipients. Events addressed to
// identities that are no longer connected are dropped, so nothing is ever
// written to a torn-down session.
func (that *Server) dispatch(events []engine.Event) {
	log := that.logger.With("method", "dispatch")

	for _, event := range events {
		raw, err := encodeMessage(event.Action, event.Payload)
		if err != nil {
			log.Error("failed to encode event", "action", event.Action, "error", err)
			continue
		}

		if event.To == "" {
			that.broadcast(raw)
			continue
		}

		that.clientsMutex.RLock()
		client, ok := that.clients[event.To]
		that.clientsMutex.RUnlock()

		if !ok {
			continue
		}

		if err = client.enqueue(raw); err != nil {
			log.Error("failed to enqueue event", "playerID", event.To, "error", err)
		}
	}
}

func (that *Server) broadcast(raw []byte) {
	that.clientsMutex.RLock()
	defer that.clientsMutex.RUnlock()

	for _, client := range that.clients {
		if err := client.enqueue(raw); err != nil {
			that.logger.Error("failed to enqueue broadcast", "playerID", client.playerID, "error", err)
		}
	}
}

func (that *Server) send(client *Client, action string, payload any) error {
	raw, err := encodeMessage(action, payload)
	if err != nil {
		return err
	}

	return client.enqueue(raw)
}

func (that *Server) sendError(client *Client, message string) {
	if err := that.send(client, "error", Notification{Message: message}); err != nil {
		that.logger.Error("failed to send error", "playerID", client.playerID, "error", err)
	}
}

// Notification mirrors the engine's free-text payload for transport-level
// validation failures.
type Notification struct {
	Message string `json:"message"`
}

func encodeMessage(action string, payload any) ([]byte, error) {
	var raw json.RawMessage

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		raw = encoded
	}

	encoded, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return encoded, nil
}
