// Package model provides data models for the application.
package model

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kyiku/hackz-valentine-back/internal/evade"
)

// Stage constants for the page flow.
const (
	StageStart     = "start"
	StageQuestion  = "question"
	StageCelebrate = "celebrate"
	StageDate      = "date"
	StageFinal     = "final"
)

// WriteTimeout bounds a single socket write.
const WriteTimeout = 5 * time.Second

// ErrNoConnection is returned by Send when the visitor has no live socket.
var ErrNoConnection = errors.New("no websocket connection")

// WebSocketConn defines the interface for WebSocket connections.
type WebSocketConn interface {
	WriteMessage(messageType int, data []byte) error
	WriteJSON(v interface{}) error
	Close() error
}

// Visitor is one browser session walking through the proposal pages.
type Visitor struct {
	ID        string    // UUID
	SessionID string    // Session ID (Cookie)
	CreatedAt time.Time // When the session was created

	// Placer owns the "No" button cursor for this session.
	Placer *evade.Placer

	mu    sync.Mutex
	stage string
	conn  WebSocketConn

	// writeMu serializes socket writes apart from mu so a slow peer never
	// blocks stage reads.
	writeMu sync.Mutex
}

// writeDeadliner is implemented by gorilla's *websocket.Conn.
type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// NewVisitor creates a Visitor on the start page.
func NewVisitor() *Visitor {
	return &Visitor{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Placer:    evade.NewPlacer(),
		stage:     StageStart,
	}
}

// validTransitions defines allowed stage transitions. Returning to the start
// page is always allowed and handled separately.
var validTransitions = map[string][]string{
	StageStart:     {StageQuestion},
	StageQuestion:  {StageCelebrate},
	StageCelebrate: {StageDate},
	StageDate:      {StageFinal},
	StageFinal:     {StageDate},
}

// Stage returns the current stage.
func (v *Visitor) Stage() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stage
}

// SetStage sets the stage without validation.
func (v *Visitor) SetStage(stage string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stage = stage
}

// CanTransitionTo checks if the visitor can move to the given stage.
func (v *Visitor) CanTransitionTo(stage string) bool {
	current := v.Stage()
	if stage == StageStart || stage == current {
		return true
	}

	for _, allowed := range validTransitions[current] {
		if allowed == stage {
			return true
		}
	}
	return false
}

// ResetToStart sends the visitor back to the first page and clears the
// evading button state, as a page reload would.
func (v *Visitor) ResetToStart() {
	v.SetStage(StageStart)
	v.Placer.Reset()
}

// SetConn attaches (or with nil, detaches) the live socket.
func (v *Visitor) SetConn(conn WebSocketConn) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.conn = conn
}

// Conn returns the live socket, if any.
func (v *Visitor) Conn() WebSocketConn {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.conn
}

// Send writes a JSON message to the visitor's socket. Writes are serialized
// because a socket allows only one concurrent writer, and each write gets
// WriteTimeout when the socket supports deadlines.
func (v *Visitor) Send(msg interface{}) error {
	conn := v.Conn()
	if conn == nil {
		return ErrNoConnection
	}

	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	if d, ok := conn.(writeDeadliner); ok {
		if err := d.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
			return err
		}
	}
	return conn.WriteJSON(msg)
}

// DetachConn clears the socket only if it is still conn, so a late close of
// an old socket does not drop a newer one.
func (v *Visitor) DetachConn(conn WebSocketConn) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.conn != conn {
		return false
	}
	v.conn = nil
	return true
}
