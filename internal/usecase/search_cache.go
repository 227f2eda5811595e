package usecase

import (
	"context"
	"time"
)

// BrowseCache is the Redis surface used by read-heavy listings.
type BrowseCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

const browseCachePattern = "users:browse:*"

// invalidateBrowse drops every cached browse page. Errors only mean stale
// pages live until their TTL.
func invalidateBrowse(ctx context.Context, cache BrowseCache) {
	if cache == nil {
		return
	}
	_ = cache.DeleteByPattern(ctx, browseCachePattern)
}
