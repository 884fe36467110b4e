package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kyiku/hackz-valentine-back/internal/response"
	"github.com/kyiku/hackz-valentine-back/internal/state"
)

// StateStoreInterface reads and patches a session's state blob.
type StateStoreInterface interface {
	Read(ctx context.Context, sessionID string) state.Mapping
	Write(ctx context.Context, sessionID string, patch state.Mapping) (state.Mapping, error)
}

// StateHandler exposes the raw state blob.
type StateHandler struct {
	store  SessionStoreInterface
	states StateStoreInterface
	logger *zap.Logger
}

// NewStateHandler creates a new StateHandler.
func NewStateHandler(store SessionStoreInterface, states StateStoreInterface, logger *zap.Logger) *StateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateHandler{store: store, states: states, logger: logger}
}

// Get returns the stored mapping.
func (h *StateHandler) Get(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	return response.Success(c, map[string]interface{}{
		"state": h.states.Read(c.Request().Context(), v.SessionID),
	})
}

// Patch merges the JSON object in the body into the stored mapping.
func (h *StateHandler) Patch(c echo.Context) error {
	v, ok := visitorFromCookie(c, h.store)
	if !ok {
		return noSession(c)
	}

	var patch state.Mapping
	if err := json.NewDecoder(c.Request().Body).Decode(&patch); err != nil || patch == nil {
		return response.ErrorWithCode(c, http.StatusBadRequest, response.CodeInvalidRequest, "Richiesta non valida")
	}

	next, err := h.states.Write(c.Request().Context(), v.SessionID, patch)
	if err != nil {
		h.logger.Error("state write failed", zap.String("session", v.SessionID), zap.Error(err))
		return response.ErrorWithCode(c, http.StatusInternalServerError, response.CodeStorage, "Impossibile salvare")
	}

	return response.Success(c, map[string]interface{}{
		"state": next,
	})
}
