// Package state keeps the visitor's proposal state as a single JSON blob.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kyiku/hackz-valentine-back/internal/storage"
)

// StorageKey is the fixed slot every session's blob is stored under.
const StorageKey = "valentineApp:v1"

// UpdatedAtField is stamped on every write.
const UpdatedAtField = "updatedAt"

// isoMillis matches the browser's Date.toISOString output.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Mapping is the decoded state blob.
type Mapping map[string]any

// Backend persists raw blobs.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Store reads and merges state blobs.
type Store struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time

	// mu makes read-modify-write atomic within this process.
	mu sync.Mutex
}

// NewStore creates a Store over the given backend.
func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// Key returns the backend key for a session.
func Key(sessionID string) string {
	return sessionID + "/" + StorageKey
}

// Read returns the stored mapping. Missing or malformed blobs read as empty.
func (s *Store) Read(ctx context.Context, sessionID string) Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx, sessionID)
}

func (s *Store) read(ctx context.Context, sessionID string) Mapping {
	raw, err := s.backend.Load(ctx, Key(sessionID))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("state read failed, using empty state",
				zap.String("session", sessionID), zap.Error(err))
		}
		return Mapping{}
	}

	var m Mapping
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		s.logger.Debug("malformed state blob, using empty state",
			zap.String("session", sessionID), zap.Error(err))
		return Mapping{}
	}
	return m
}

// Write merges patch into the stored mapping, stamps the update time and
// persists the result.
func (s *Store) Write(ctx context.Context, sessionID string, patch Mapping) (Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.read(ctx, sessionID)
	for k, v := range patch {
		next[k] = v
	}
	next[UpdatedAtField] = s.now().UTC().Format(isoMillis)

	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}

	if err := s.backend.Save(ctx, Key(sessionID), data); err != nil {
		return nil, fmt.Errorf("failed to save state: %w", err)
	}

	return next, nil
}
