package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBufferSize = 256
)

// Client is one live connection identity: the socket, its outbound queue
// and the ephemeral player id issued at upgrade time.
type Client struct {
	playerID string
	conn     *websocket.Conn

	sendMutex sync.Mutex
	closed    bool
	send      chan []byte
}

func newClient(playerID string, conn *websocket.Conn) *Client {
	return &Client{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
	}
}

// readPump reads inbound messages and routes them until the connection
// drops. It runs on the connection's goroutine and returns on close.
func (that *Client) readPump(ctx context.Context, server *Server) {
	log := server.logger.With("method", "readPump", "playerID", that.playerID)

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		server.route(ctx, that, raw)
	}
}

// writePump drains the outbound queue and keeps the connection alive with
// pings. Closing the send channel terminates it.
func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var (
	errSendBufferFull = errors.New("client send buffer is full")
	errClientClosed   = errors.New("client connection is closed")
)

// enqueue pushes an outbound frame without blocking the engine; a client
// that cannot keep up has its message dropped.
func (that *Client) enqueue(raw []byte) error {
	that.sendMutex.Lock()
	defer that.sendMutex.Unlock()

	if that.closed {
		return errClientClosed
	}

	select {
	case that.send <- raw:
		return nil
	default:
		return errSendBufferFull
	}
}

// shutdown closes the outbound queue exactly once, after which enqueue
// rejects instead of writing to a closed channel.
func (that *Client) shutdown() {
	that.sendMutex.Lock()
	defer that.sendMutex.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}
