package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/secrethitler/internal/platform"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection bound to one seat in one
// room. The binding is fixed at handshake time and never changes.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Frame
	roomID    string
	playerID  string
	logger    *log.Logger
	rooms     *RoomService
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a connection wrapper for an upgraded socket.
func NewConnection(conn *websocket.Conn, roomID, playerID string, logger *log.Logger, rooms *RoomService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:     conn,
		send:     make(chan *Frame, 256),
		roomID:   roomID,
		playerID: playerID,
		logger:   logger.WithPrefix("conn").With("room", roomID, "player", playerID),
		rooms:    rooms,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close announces a normal closure to the peer and closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		if c.conn != nil {
			deadline := time.Now().Add(writeWait)
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			err = c.conn.Close()
		}
	})
	return err
}

// Done is closed when the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// RoomID returns the room this connection is bound to.
func (c *Connection) RoomID() string {
	return c.roomID
}

// PlayerID returns the player this connection is bound to.
func (c *Connection) PlayerID() string {
	return c.playerID
}

// SendFrame queues a frame for the client.
func (c *Connection) SendFrame(frame *Frame) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown.
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- frame:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming frames from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var frame Frame
		err := c.conn.ReadJSON(&frame)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleFrame(&frame)
	}
}

// writePump handles outgoing frames to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteJSON(frame); err != nil {
				c.logger.Error("failed to write frame", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleFrame routes an incoming frame. A malformed frame earns an ERROR
// reply but keeps the connection open.
func (c *Connection) handleFrame(frame *Frame) {
	c.logger.Debug("received frame", "type", frame.Type)

	switch frame.Type {
	case FrameAction:
		var action platform.Action
		if err := json.Unmarshal(frame.Data, &action); err != nil {
			c.sendError("invalid_message", "failed to parse action")
			return
		}
		// The sender's identity comes from the handshake, never the payload.
		action.PlayerID = c.playerID
		action.ConnectedIDs = nil
		c.rooms.Dispatch(c.roomID, action)

	default:
		c.sendError("unknown_message_type", "unknown frame type: "+string(frame.Type))
	}
}

// sendError sends an error frame to the client
func (c *Connection) sendError(code, message string) {
	frame, err := NewFrame(FrameError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("failed to create error frame", "error", err)
		return
	}
	_ = c.SendFrame(frame)
}
