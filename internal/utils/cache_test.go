package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProduct struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var got cachedProduct
	found, err := c.Get(ctx, "product:4", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := cachedProduct{ID: 4, Title: "Vase", Price: 142.5}
	require.NoError(t, c.Set(ctx, "product:4", want, CacheTTL))
	assert.Equal(t, CacheTTL, mr.TTL("product:4"))

	found, err = c.Get(ctx, "product:4", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, c.Set(ctx, "bidcount:product:4", int64(3), CacheTTL))
	require.NoError(t, c.Delete(ctx, "product:4", "bidcount:product:4"))
	assert.False(t, mr.Exists("product:4"))
	assert.False(t, mr.Exists("bidcount:product:4"))
	assert.NoError(t, c.Delete(ctx))
}

func TestRedisCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "categories:all", []string{"Art"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got []string
	found, err := c.Get(ctx, "categories:all", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("product:4", "{not json"))

	var got cachedProduct
	found, err := c.Get(ctx, "product:4", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}
