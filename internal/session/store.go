// Package session provides session management functionality.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kyiku/hackz-valentine-back/internal/model"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "session_id"

// sessionEntry holds a visitor and its last activity for expiry checking.
type sessionEntry struct {
	Visitor  *model.Visitor
	LastSeen time.Time
}

// SessionStore manages visitor sessions in memory.
type SessionStore struct {
	sessions map[string]*sessionEntry
	mu       sync.RWMutex
	expiry   time.Duration // 0 means no expiry
	now      func() time.Time
}

// NewSessionStore creates a new SessionStore with no expiry.
func NewSessionStore() *SessionStore {
	return NewSessionStoreWithExpiry(0)
}

// NewSessionStoreWithExpiry creates a new SessionStore whose sessions expire
// after the given idle duration.
func NewSessionStoreWithExpiry(expiry time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		expiry:   expiry,
		now:      time.Now,
	}
}

// Create creates a new session and returns the visitor and session ID.
func (s *SessionStore) Create() (*model.Visitor, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visitor := model.NewVisitor()
	sessionID := uuid.New().String()
	visitor.SessionID = sessionID

	s.sessions[sessionID] = &sessionEntry{
		Visitor:  visitor,
		LastSeen: s.now(),
	}

	return visitor, sessionID
}

// Get retrieves a visitor by session ID and refreshes its activity time.
// Returns nil and false if the session does not exist or has expired.
func (s *SessionStore) Get(sessionID string) (*model.Visitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}

	now := s.now()
	if s.expiry > 0 && now.Sub(entry.LastSeen) > s.expiry {
		delete(s.sessions, sessionID)
		return nil, false
	}

	entry.LastSeen = now
	return entry.Visitor, true
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep removes every expired session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	if s.expiry <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, entry := range s.sessions {
		if now.Sub(entry.LastSeen) > s.expiry {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of active sessions.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
