// Package cache provides an optional Redis-backed cache for published page
// documents and aggregate stats. A nil *Cache is valid and disables caching.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// defaultTTL bounds staleness of cached public content.
const defaultTTL = 5 * time.Minute

// Cache wraps a Redis client with JSON helpers.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis. An empty addr returns nil, which disables caching
// throughout the application.
func New(ctx context.Context, addr, password string, db int) *Cache {
	if strings.TrimSpace(addr) == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if errPing := rdb.Ping(pingCtx).Err(); errPing != nil {
		log.Warnf("redis unavailable, caching disabled: %v", errPing)
		_ = rdb.Close()
		return nil
	}
	return &Cache{rdb: rdb, ttl: defaultTTL}
}

// GetJSON loads a cached value into dst. A miss or any error returns false.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}
	raw, errGet := c.rdb.Get(ctx, key).Bytes()
	if errGet != nil {
		return false
	}
	if errUnmarshal := json.Unmarshal(raw, dst); errUnmarshal != nil {
		return false
	}
	return true
}

// SetJSON stores a value under key with the default TTL. Failures are
// logged and otherwise ignored.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	raw, errMarshal := json.Marshal(value)
	if errMarshal != nil {
		return
	}
	if errSet := c.rdb.Set(ctx, key, raw, c.ttl).Err(); errSet != nil {
		log.Warnf("cache set %s failed: %v", key, errSet)
	}
}

// Delete removes keys. Failures are logged and otherwise ignored.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if errDel := c.rdb.Del(ctx, keys...).Err(); errDel != nil {
		log.Warnf("cache delete failed: %v", errDel)
	}
}

// PageKey builds the cache key for a published page document.
func PageKey(schoolSlug, pageSlug string) string {
	return fmt.Sprintf("page:%s:%s", schoolSlug, pageSlug)
}

// SiteKey builds the cache key for a public school site document.
func SiteKey(schoolSlug string) string {
	return fmt.Sprintf("site:%s", schoolSlug)
}
