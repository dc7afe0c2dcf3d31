package server

import "encoding/json"

// FrameType identifies a WebSocket frame.
type FrameType string

const (
	// Client to server.
	FrameAction FrameType = "ACTION"

	// Server to client.
	FrameSession   FrameType = "SESSION"
	FrameStateSync FrameType = "STATE_SYNC"
	FrameGameEvent FrameType = "EVENT"
	FrameError     FrameType = "ERROR"
)

// Frame is the wire envelope in both directions.
type Frame struct {
	Type FrameType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewFrame marshals data into a frame of the given type.
func NewFrame(frameType FrameType, data any) (*Frame, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Frame{Type: frameType, Data: raw}, nil
}

// SessionData is sent once after the handshake so the client can resume.
type SessionData struct {
	Token    string `json:"token"`
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

// ErrorData is a structured error frame payload.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameEventData wraps an in-game event for delivery.
type GameEventData struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}
