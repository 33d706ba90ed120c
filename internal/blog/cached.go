package blog

import (
	"context"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/cache"
)

// CachedClient serves site info, categories and tags from the TTL cache
// and falls through to the API on a miss. Posts are never cached.
type CachedClient struct {
	*Client
	cache *cache.Cache
}

func NewCachedClient(c *Client, ch *cache.Cache) *CachedClient {
	return &CachedClient{Client: c, cache: ch}
}

func (c *CachedClient) SiteInfo(ctx context.Context) (*SiteInfo, error) {
	return cached(ctx, c.cache, cache.KeySiteInfo, cache.ThreeHours, c.Client.SiteInfo)
}

func (c *CachedClient) Categories(ctx context.Context) ([]Term, error) {
	return cached(ctx, c.cache, cache.KeyCategories, cache.Month, c.Client.Categories)
}

func (c *CachedClient) Tags(ctx context.Context) ([]Term, error) {
	return cached(ctx, c.cache, cache.KeyTags, cache.Week, c.Client.Tags)
}

// Refresh drops the cached listings so the next call hits the API.
func (c *CachedClient) Refresh(ctx context.Context) {
	for _, k := range []string{cache.KeySiteInfo, cache.KeyCategories, cache.KeyTags} {
		c.cache.Remove(ctx, k)
	}
}

func cached[T any](ctx context.Context, ch *cache.Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := cache.Get[T](ctx, ch, key); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	ch.Set(ctx, key, v, ttl)
	return v, nil
}
