package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/eddie-greenwood/letool-bess-arbitrage-sub000/internal/model"
)

// CacheEntry holds one fetched trading day with its expiry.
type CacheEntry struct {
	Day       model.TradingDay
	ExpiresAt time.Time
}

// DayCache is an in-memory cache for price API responses. Dispatch prices
// for a settled day never change, so the TTL exists only to bound memory.
//
// The cache is opt-in via ENABLE_PRICE_CACHE=true and is disabled when
// APP_ENV=production; a hosted deployment should cache at the service
// instead.
type DayCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
}

var globalCache *DayCache
var cacheOnce sync.Once

// GetCache returns the global cache instance, or nil when caching is
// disabled.
func GetCache() *DayCache {
	if os.Getenv("ENABLE_PRICE_CACHE") != "true" {
		return nil
	}

	if os.Getenv("APP_ENV") == "production" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("PRICE_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}

		globalCache = &DayCache{
			store: make(map[string]*CacheEntry),
			ttl:   ttl,
		}

		go globalCache.cleanup()
	})

	return globalCache
}

// Get retrieves a cached day if present and not expired.
func (c *DayCache) Get(key string) (model.TradingDay, bool) {
	if c == nil {
		return model.TradingDay{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return model.TradingDay{}, false
	}

	if time.Now().After(entry.ExpiresAt) {
		return model.TradingDay{}, false
	}

	return entry.Day, true
}

// Set stores a day in the cache.
func (c *DayCache) Set(key string, day model.TradingDay) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Day:       day,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries from the cache.
func (c *DayCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// cleanup periodically removes expired entries.
func (c *DayCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// DayCacheKey builds a deterministic cache key for a region-day.
func DayCacheKey(region, date string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", region, date)))
	return hex.EncodeToString(hash[:])
}
