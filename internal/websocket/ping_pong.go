package websocket

import "encoding/json"

// Sender writes one JSON message to the client.
type Sender interface {
	Send(msg interface{}) error
}

// PingHandler handles ping/pong messages for WebSocket connections.
type PingHandler struct {
	out Sender
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(out Sender) *PingHandler {
	return &PingHandler{out: out}
}

// Handle processes a message and returns true if it was a ping message.
func (h *PingHandler) Handle(message []byte) bool {
	if !IsPingMessage(message) {
		return false
	}

	_ = h.out.Send(map[string]interface{}{
		"type": TypePong,
	})

	return true
}

// IsPingMessage checks if a message is a ping message without processing it.
func IsPingMessage(message []byte) bool {
	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		return false
	}
	return env.Type == TypePing
}
