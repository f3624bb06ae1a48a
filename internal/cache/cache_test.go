package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmclub/screener/internal/cache"
)

func openTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetGet(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "users", []byte(`[{"id":"usr_aaaaaa"}]`), time.Hour))

	got, ok := c.Get(ctx, "users")
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"usr_aaaaaa"}]`, string(got))
}

func TestGet_Missing(t *testing.T) {
	c := openTestCache(t)
	_, ok := c.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestGet_Expired(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "users", []byte("x"), -time.Minute))

	_, ok := c.Get(ctx, "users")
	assert.False(t, ok)
}

func TestSet_Overwrites(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("old"), time.Hour))
	require.NoError(t, c.Set(ctx, "k", []byte("new"), time.Hour))

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "new", string(got))
}

func TestJSONRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, c.SetJSON(ctx, "p", payload{Name: "best picture", Count: 10}, time.Hour))

	var got payload
	require.True(t, c.GetJSON(ctx, "p", &got))
	assert.Equal(t, payload{Name: "best picture", Count: 10}, got)
}

func TestPrune(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "fresh", []byte("x"), time.Hour))
	require.NoError(t, c.Set(ctx, "stale", []byte("y"), -time.Minute))

	removed, err := c.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok := c.Get(ctx, "fresh")
	assert.True(t, ok)
}
