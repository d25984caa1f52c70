package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheKey holds the JSON-encoded settings snapshot in Redis.
const cacheKey = "settings:snapshot"

// Cache is a read-through cache for the settings table. The clock is a field
// so tests can drive staleness directly instead of sleeping. Staleness is
// double-checked against the payload's own timestamp: Redis TTL alone is not
// trusted, because a restored Redis snapshot can carry entries past their
// intended lifetime.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewCache creates a settings cache with the given TTL.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, now: time.Now}
}

// cachedSnapshot is the value stored under cacheKey.
type cachedSnapshot struct {
	Values   map[string]string `json:"values"`
	CachedAt time.Time         `json:"cached_at"`
}

// Get returns the cached settings map, or (nil, false) on a miss. Cache
// errors are logged and treated as misses; settings reads must never fail
// because Redis is down.
func (c *Cache) Get(ctx context.Context) (map[string]string, bool) {
	data, err := c.rdb.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("settings cache read failed", slog.Any("error", err))
		return nil, false
	}

	var snapshot cachedSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.Warn("settings cache payload corrupt", slog.Any("error", err))
		return nil, false
	}
	if c.now().Sub(snapshot.CachedAt) > c.ttl {
		return nil, false
	}
	return snapshot.Values, true
}

// Put stores a settings snapshot. Failures are logged, not returned; the
// caller already has the values it needs.
func (c *Cache) Put(ctx context.Context, values map[string]string) {
	data, err := json.Marshal(cachedSnapshot{Values: values, CachedAt: c.now()})
	if err != nil {
		slog.Warn("settings cache marshal failed", slog.Any("error", err))
		return
	}
	if err := c.rdb.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		slog.Warn("settings cache write failed", slog.Any("error", err))
	}
}

// Invalidate drops the cached snapshot. Called after every settings write.
func (c *Cache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, cacheKey).Err(); err != nil {
		slog.Warn("settings cache invalidation failed", slog.Any("error", err))
	}
}
