package handler

import (
	"net/http"

	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kyiku/hackz-valentine-back/internal/catalog"
	ws "github.com/kyiku/hackz-valentine-back/internal/websocket"
)

// WebSocketHandler upgrades /ws and runs the live session.
type WebSocketHandler struct {
	store    SessionStoreInterface
	catalog  *catalog.Holder
	upgrader gws.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler. checkOrigin may be nil
// to accept same-origin requests only.
func NewWebSocketHandler(store SessionStoreInterface, cat *catalog.Holder, checkOrigin func(r *http.Request) bool, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHandler{
		store:   store,
		catalog: cat,
		upgrader: gws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// Connect validates the session cookie, upgrades and blocks until the socket
// closes.
func (h *WebSocketHandler) Connect(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return nil
	}

	s := ws.NewSession(v, h.catalog, h.logger)
	if err := s.Run(c.Request().Context(), conn); err != nil {
		h.logger.Debug("websocket closed with error", zap.String("visitor_id", v.ID), zap.Error(err))
	}
	return nil
}
