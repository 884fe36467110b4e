package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/hackz-valentine-back/internal/catalog"
	"github.com/kyiku/hackz-valentine-back/internal/response"
	ws "github.com/kyiku/hackz-valentine-back/internal/websocket"
)

// EvadeHandler places the "No" button over plain HTTP, for pages without a
// live socket.
type EvadeHandler struct {
	store   SessionStoreInterface
	catalog *catalog.Holder
}

// NewEvadeHandler creates a new EvadeHandler.
func NewEvadeHandler(store SessionStoreInterface, cat *catalog.Holder) *EvadeHandler {
	return &EvadeHandler{store: store, catalog: cat}
}

// Place runs one placement for the caller's session.
func (h *EvadeHandler) Place(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	var req ws.EvadeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}

	resp, err := ws.Evade(v, req, h.catalog.Get())
	if err != nil {
		return response.ErrorWithCode(c, http.StatusBadRequest, response.CodeInvalidRequest, err.Error())
	}

	return response.Success(c, map[string]interface{}{
		"placement": resp,
	})
}
