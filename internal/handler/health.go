// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SessionCounter reports how many visitor sessions are live.
type SessionCounter interface {
	Count() int
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	sessions SessionCounter
}

// NewHealthHandler creates a new HealthHandler. sessions may be nil.
func NewHealthHandler(sessions SessionCounter) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

// Check returns the health status of the server.
func (h *HealthHandler) Check(c echo.Context) error {
	resp := map[string]interface{}{
		"status": "ok",
	}
	if h.sessions != nil {
		resp["sessions"] = h.sessions.Count()
	}
	return c.JSON(http.StatusOK, resp)
}
