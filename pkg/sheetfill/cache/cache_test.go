package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsDeterministicAndSeparated(t *testing.T) {
	a := Key([]byte("model"), []byte("ab"), []byte("c"))
	b := Key([]byte("model"), []byte("ab"), []byte("c"))
	c := Key([]byte("model"), []byte("a"), []byte("bc"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "extract:")
}

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryClient()
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte(`{"a":1}`), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "forever", []byte("x"), 0))
	now = now.Add(1000 * time.Hour)
	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestRedisClient(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	c, err := NewRedisClient(ctx, RedisConfig{Addr: addr, Prefix: "sheetfill-test:"})
	require.NoError(t, err)
	defer c.Close()

	key := Key([]byte(t.Name()))
	require.NoError(t, c.Set(ctx, key, []byte("payload"), time.Minute))
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	_, err = c.Get(ctx, key+"-missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
