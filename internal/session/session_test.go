package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyiku/hackz-valentine-back/internal/model"
)

func TestSessionStore_Create(t *testing.T) {
	store := NewSessionStore()

	visitor, sessionID := store.Create()

	assert.NotEmpty(t, sessionID)
	require.NotNil(t, visitor)
	assert.Equal(t, sessionID, visitor.SessionID)
	assert.Equal(t, model.StageStart, visitor.Stage())
	assert.Equal(t, 1, store.Count())
}

func TestSessionStore_Get(t *testing.T) {
	tests := []struct {
		name        string
		createFirst bool
		wantFound   bool
	}{
		{name: "正常系: 存在するセッション", createFirst: true, wantFound: true},
		{name: "異常系: 存在しないセッション", createFirst: false, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewSessionStore()

			sessionID := "non-existent"
			if tt.createFirst {
				_, sessionID = store.Create()
			}

			visitor, found := store.Get(sessionID)

			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.NotNil(t, visitor)
			} else {
				assert.Nil(t, visitor)
			}
		})
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStoreWithExpiry(time.Minute)
	now := time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	_, sessionID := store.Create()

	// アクセスがあれば期限は延長される
	now = now.Add(50 * time.Second)
	_, found := store.Get(sessionID)
	require.True(t, found)

	now = now.Add(50 * time.Second)
	_, found = store.Get(sessionID)
	require.True(t, found)

	now = now.Add(2 * time.Minute)
	_, found = store.Get(sessionID)
	assert.False(t, found)
	assert.Equal(t, 0, store.Count())
}

func TestSessionStore_Sweep(t *testing.T) {
	store := NewSessionStoreWithExpiry(time.Minute)
	now := time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Create()
	store.Create()
	now = now.Add(30 * time.Second)
	_, fresh := store.Create()

	now = now.Add(45 * time.Second)

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 1, store.Count())
	_, found := store.Get(fresh)
	assert.True(t, found)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	_, sessionID := store.Create()

	store.Delete(sessionID)

	_, found := store.Get(sessionID)
	assert.False(t, found)
}

func TestSessionStore_Concurrent(t *testing.T) {
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, id := store.Create()
			store.Get(id)
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, store.Count())
}
