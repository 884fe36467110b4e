package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kyiku/hackz-valentine-back/internal/model"
	"github.com/kyiku/hackz-valentine-back/internal/response"
	"github.com/kyiku/hackz-valentine-back/internal/session"
)

// SessionStoreInterface defines the interface for session storage.
type SessionStoreInterface interface {
	Create() (*model.Visitor, string)
	Get(sessionID string) (*model.Visitor, bool)
}

// SessionHandler issues visitor sessions.
type SessionHandler struct {
	store  SessionStoreInterface
	maxAge time.Duration
}

// NewSessionHandler creates a new SessionHandler. maxAge sets the cookie
// lifetime; zero makes it a browser-session cookie.
func NewSessionHandler(store SessionStoreInterface, maxAge time.Duration) *SessionHandler {
	return &SessionHandler{store: store, maxAge: maxAge}
}

// Create returns the caller's session, creating one when the cookie is
// missing or stale.
func (h *SessionHandler) Create(c echo.Context) error {
	v, created := ensureVisitor(c, h.store, h.maxAge)
	return response.Success(c, map[string]interface{}{
		"visitor_id": v.ID,
		"stage":      v.Stage(),
		"created":    created,
	})
}

// visitorFromCookie looks up the session named by the cookie.
func visitorFromCookie(c echo.Context, store SessionStoreInterface) (*model.Visitor, bool) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil || cookie == nil || cookie.Value == "" {
		return nil, false
	}
	return store.Get(cookie.Value)
}

// ensureVisitor returns the cookie's visitor or creates a new one and sets
// the cookie. The bool reports creation.
func ensureVisitor(c echo.Context, store SessionStoreInterface, maxAge time.Duration) (*model.Visitor, bool) {
	if v, ok := visitorFromCookie(c, store); ok {
		return v, false
	}

	v, sessionID := store.Create()
	cookie := &http.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
	}
	c.SetCookie(cookie)
	return v, true
}

// noSession answers 401 for a missing or stale session cookie.
func noSession(c echo.Context) error {
	return response.ErrorWithCode(c, http.StatusUnauthorized, response.CodeNoSession, "Sessione non valida")
}
