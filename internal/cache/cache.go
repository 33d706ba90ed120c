// Package cache is a TTL cache over a kv.Repository. Expiry is lazy: an
// entry is only checked, and evicted, when it is read.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/clock"
	"github.com/dmitrijs2005/blogkeeper/internal/kv"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
)

const (
	Hour       = time.Hour
	ThreeHours = 3 * time.Hour
	Day        = 24 * time.Hour
	Week       = 7 * Day
	Month      = 30 * Day

	DefaultTTL = Day
)

// Well-known keys.
const (
	KeySiteInfo    = "site_info"
	KeyCategories  = "categories"
	KeyTags        = "tags"
	KeyPostsFilter = "posts_filter"
)

// entry is the persisted layout. Timestamp and ExpireTime are milliseconds.
type entry struct {
	Value      json.RawMessage `json:"value"`
	Timestamp  int64           `json:"timestamp"`
	ExpireTime int64           `json:"expireTime"`
}

type Cache struct {
	repo kv.Repository
	now  clock.Func
	log  logging.Logger
}

type Option func(*Cache)

func WithClock(now clock.Func) Option {
	return func(c *Cache) { c.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Cache) { c.log = l }
}

func New(repo kv.Repository, opts ...Option) *Cache {
	c := &Cache{repo: repo, now: clock.System, log: logging.Discard()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Set stores value under key for ttl (DefaultTTL when ttl <= 0). Failures
// are logged and otherwise ignored.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Error(ctx, "cache: failed to encode value", "key", key, "error", err)
		return
	}
	data, err := json.Marshal(entry{
		Value:      raw,
		Timestamp:  c.now().UnixMilli(),
		ExpireTime: ttl.Milliseconds(),
	})
	if err != nil {
		c.log.Error(ctx, "cache: failed to encode entry", "key", key, "error", err)
		return
	}

	if err := c.repo.Set(ctx, key, data); err != nil {
		c.log.Error(ctx, "cache: failed to write entry", "key", key, "error", err)
	}
}

// Lookup returns the raw JSON value stored under key. A cached null is
// reported as found; only a missing, unreadable or expired entry is not.
func (c *Cache) Lookup(ctx context.Context, key string) (json.RawMessage, bool) {
	e, ok := c.read(ctx, key)
	if !ok {
		return nil, false
	}
	if c.now().UnixMilli()-e.Timestamp > e.ExpireTime {
		c.Remove(ctx, key)
		return nil, false
	}
	return e.Value, true
}

// Get decodes the value under key into dst and reports whether a live
// entry was found. A value that does not fit dst counts as a miss.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	raw, ok := c.Lookup(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn(ctx, "cache: value does not match requested type", "key", key, "error", err)
		return false
	}
	return true
}

// Get is the typed form of Cache.Get.
//
//	cats, ok := cache.Get[[]string](ctx, c, cache.KeyCategories)
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var v T
	ok := c.Get(ctx, key, &v)
	return v, ok
}

func (c *Cache) Has(ctx context.Context, key string) bool {
	_, ok := c.Lookup(ctx, key)
	return ok
}

// RemainingTTL is how long the entry under key stays live; zero when it is
// absent or already expired. It never evicts.
func (c *Cache) RemainingTTL(ctx context.Context, key string) time.Duration {
	e, ok := c.read(ctx, key)
	if !ok {
		return 0
	}
	remain := e.ExpireTime - (c.now().UnixMilli() - e.Timestamp)
	if remain <= 0 {
		return 0
	}
	return time.Duration(remain) * time.Millisecond
}

func (c *Cache) Remove(ctx context.Context, key string) {
	if err := c.repo.Delete(ctx, key); err != nil {
		c.log.Error(ctx, "cache: failed to remove entry", "key", key, "error", err)
	}
}

// Clear drops everything in the backing repository, not just cache keys.
func (c *Cache) Clear(ctx context.Context) {
	if err := c.repo.Clear(ctx); err != nil {
		c.log.Error(ctx, "cache: failed to clear", "error", err)
	}
}

func (c *Cache) read(ctx context.Context, key string) (entry, bool) {
	data, err := c.repo.Get(ctx, key)
	if err != nil {
		c.log.Error(ctx, "cache: failed to read entry", "key", key, "error", err)
		return entry{}, false
	}
	if len(data) == 0 {
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.Warn(ctx, "cache: corrupt entry", "key", key, "error", err)
		return entry{}, false
	}
	if e.Value == nil {
		e.Value = json.RawMessage("null")
	}
	return e, true
}
