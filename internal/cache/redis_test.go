package cache_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"blogsite/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *cache.Redis {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	r, err := cache.NewRedis(context.Background(), addr, fmt.Sprintf("blogsite-test-%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

type feedItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestRedis_SetGet(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()

	var got []feedItem
	hit, err := r.Get(ctx, "blogs:recent:6", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := []feedItem{{ID: "1", Title: "One"}, {ID: "2", Title: "Two"}}
	require.NoError(t, r.Set(ctx, "blogs:recent:6", want, time.Minute))

	hit, err = r.Get(ctx, "blogs:recent:6", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
}

func TestRedis_InvalidatePrefix(t *testing.T) {
	r := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "blogs:recent:3", []feedItem{{ID: "1"}}, time.Minute))
	require.NoError(t, r.Set(ctx, "blogs:recent:6", []feedItem{{ID: "1"}}, time.Minute))
	require.NoError(t, r.Set(ctx, "comments:top-rated", []feedItem{{ID: "c"}}, time.Minute))

	require.NoError(t, r.Invalidate(ctx, "blogs:recent:"))

	var got []feedItem
	hit, err := r.Get(ctx, "blogs:recent:3", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	hit, err = r.Get(ctx, "blogs:recent:6", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	hit, err = r.Get(ctx, "comments:top-rated", &got)
	require.NoError(t, err)
	assert.True(t, hit)
}
