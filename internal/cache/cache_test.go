package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sugurico/internal/config"
)

func TestMemory_Expiry(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))

	val, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", val)

	now = now.Add(time.Minute)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemory_IncrAndDel(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := m.Incr(ctx, "fails")
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	require.NoError(t, m.Del(ctx, "fails"))
	n, err := m.Incr(ctx, "fails")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemory_IncrNonInteger(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", "abc", 0))

	_, err := m.Incr(ctx, "k")
	assert.Error(t, err)
}

func TestNewRedisClient_Addr(t *testing.T) {
	client := NewRedisClient(config.Redis{Host: "redis", Port: "6380", DB: 2})
	defer client.Close()

	assert.Equal(t, "redis:6380", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)
}
