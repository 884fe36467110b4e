package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	_, err := m.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	data := []byte(`{"name":"Giulia"}`)
	require.NoError(t, m.Save(ctx, "s1/valentineApp:v1", data))

	// 保存後に元のスライスを書き換えても影響しない
	data[2] = 'X'

	got, err := m.Load(ctx, "s1/valentineApp:v1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Giulia"}`, string(got))
	assert.Equal(t, 1, m.Len())
}
