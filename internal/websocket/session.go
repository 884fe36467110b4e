package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	gws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kyiku/hackz-valentine-back/internal/catalog"
	"github.com/kyiku/hackz-valentine-back/internal/decoration"
	"github.com/kyiku/hackz-valentine-back/internal/model"
)

// Conn is a socket the session can read from and write to.
type Conn interface {
	model.WebSocketConn
	ReadMessage() (messageType int, p []byte, err error)
}

// Session serves one socket for one visitor.
type Session struct {
	visitor *model.Visitor
	catalog *catalog.Holder
	logger  *zap.Logger
	ping    *PingHandler
	layer   *decoration.Layer

	mu   sync.Mutex
	ctx  context.Context
	conn Conn
}

// NewSession wires a visitor to its decoration layer. Extra layer options
// (random source, interval) are mainly for tests.
func NewSession(v *model.Visitor, cat *catalog.Holder, logger *zap.Logger, opts ...decoration.Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		visitor: v,
		catalog: cat,
		logger:  logger.With(zap.String("visitor_id", v.ID)),
		ping:    NewPingHandler(v),
	}

	opts = append([]decoration.Option{
		decoration.OnSpawn(func(h decoration.Heart) {
			s.send(HeartMessage{Type: TypeHeart, Heart: h})
		}),
		decoration.OnRemove(func(id string) {
			s.send(HeartRemoveMessage{Type: TypeHeartRemove, ID: id})
		}),
	}, opts...)
	s.layer = decoration.NewLayer(opts...)

	return s
}

// Layer exposes the session's decoration layer.
func (s *Session) Layer() *decoration.Layer {
	return s.layer
}

// Run attaches conn to the visitor and reads until the socket closes or ctx
// ends. The decoration layer runs while the page is visible.
func (s *Session) Run(ctx context.Context, conn Conn) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.ctx = ctx
	s.conn = conn
	s.mu.Unlock()

	s.visitor.SetConn(conn)
	defer func() {
		s.layer.Close()
		s.visitor.DetachConn(conn)
		_ = conn.Close()
	}()

	// Unblock ReadMessage when ctx ends.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	s.layer.Start(ctx)
	s.logger.Debug("websocket session started")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if isNormalClose(err) || ctx.Err() != nil {
				s.logger.Debug("websocket session closed")
				return nil
			}
			return err
		}
		s.Dispatch(data)
	}
}

func isNormalClose(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return gws.IsCloseError(err, gws.CloseNormalClosure, gws.CloseGoingAway, gws.CloseNoStatusReceived)
}

// Dispatch handles one inbound message.
func (s *Session) Dispatch(data []byte) {
	if s.ping.Handle(data) {
		return
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.reject("INVALID_REQUEST", "messaggio non valido")
		return
	}

	switch env.Type {
	case TypeEvade:
		s.handleEvade(data)
	case TypeVisibility:
		s.handleVisibility(data)
	default:
		s.logger.Debug("unknown message type", zap.String("type", env.Type))
		s.reject("UNKNOWN_TYPE", "tipo di messaggio sconosciuto")
	}
}

func (s *Session) handleEvade(data []byte) {
	var req EvadeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.reject("INVALID_REQUEST", "messaggio non valido")
		return
	}

	var cat *catalog.Catalog
	if s.catalog != nil {
		cat = s.catalog.Get()
	}

	resp, err := Evade(s.visitor, req, cat)
	if err != nil {
		s.logger.Debug("evade rejected", zap.Error(err))
		s.reject("INVALID_REQUEST", err.Error())
		return
	}
	s.send(resp)
}

func (s *Session) handleVisibility(data []byte) {
	var msg VisibilityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.reject("INVALID_REQUEST", "messaggio non valido")
		return
	}

	if msg.Hidden {
		s.layer.Stop()
		return
	}

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	s.layer.Start(ctx)
}

func (s *Session) reject(code, message string) {
	s.send(ErrorMessage{Type: TypeError, Code: code, Message: message})
}

// send writes to the visitor. A failed write means the peer is gone or not
// reading, so the session's socket is closed and Run returns.
func (s *Session) send(msg interface{}) {
	err := s.visitor.Send(msg)
	if err == nil || errors.Is(err, model.ErrNoConnection) {
		return
	}

	s.logger.Debug("websocket write failed, closing", zap.Error(err))
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}
