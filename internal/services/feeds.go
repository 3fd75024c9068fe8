package services

import (
	"context"
	"time"
)

// Cache keys for the read-mostly feeds.
const (
	recentBlogsPrefix = "blogs:recent:"
	topRatedKey       = "comments:top-rated"
)

// FeedCache stores JSON-encodable feed results. *cache.Redis satisfies it.
type FeedCache interface {
	// Get decodes the cached value into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Invalidate removes every key starting with prefix.
	Invalidate(ctx context.Context, prefix string) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (nopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (nopCache) Invalidate(context.Context, string) error { return nil }

func cacheOrNop(c FeedCache) FeedCache {
	if c == nil {
		return nopCache{}
	}
	return c
}
