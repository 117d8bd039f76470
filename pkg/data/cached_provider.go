package data

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

type cacheEntry struct {
	data      []types.OHLCV
	fetchedAt time.Time
}

// MemoryCache implements HistoryCache with per-entry TTL expiry
type MemoryCache struct {
	cache map[string]cacheEntry
	ttl   time.Duration
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryCache creates an in-memory cache. A non-positive TTL means
// entries never expire.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves data from cache if present and not expired
func (c *MemoryCache) Get(key string) ([]types.OHLCV, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.fetchedAt) > c.ttl {
		return nil, false
	}

	// Return a copy to prevent external modifications
	result := make([]types.OHLCV, len(entry.data))
	copy(result, entry.data)
	return result, true
}

// Set stores data in cache
func (c *MemoryCache) Set(key string, data []types.OHLCV) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.OHLCV, len(data))
	copy(cached, data)
	c.cache[key] = cacheEntry{data: cached, fetchedAt: c.now()}
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]cacheEntry)
}

// Size returns the number of live cached entries
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	count := 0
	for _, entry := range c.cache {
		if c.ttl <= 0 || c.now().Sub(entry.fetchedAt) <= c.ttl {
			count++
		}
	}
	return count
}

// CachedProvider wraps another HistoryProvider with TTL caching so a
// scan of many positions hits the upstream API once per ticker.
type CachedProvider struct {
	provider HistoryProvider
	cache    HistoryCache
}

// NewCachedProvider creates a cached history provider with the given TTL
func NewCachedProvider(provider HistoryProvider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    NewMemoryCache(ttl),
	}
}

// NewCachedProviderWithCache creates a cached provider with a custom cache
func NewCachedProviderWithCache(provider HistoryProvider, cache HistoryCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
	}
}

// GetName returns the name of the underlying provider with cache indication
func (p *CachedProvider) GetName() string {
	return "Cached " + p.provider.GetName()
}

// FetchHistory fetches bars, serving repeats from the cache
func (p *CachedProvider) FetchHistory(ctx context.Context, symbol string, interval Interval, lookback int) ([]types.OHLCV, error) {
	key := fmt.Sprintf("%s|%s|%d", symbol, interval, lookback)
	if cached, exists := p.cache.Get(key); exists {
		return cached, nil
	}

	data, err := p.provider.FetchHistory(ctx, symbol, interval, lookback)
	if err != nil {
		log.Printf("❌ Failed to fetch %s history for %s: %v", interval, symbol, err)
		return nil, err
	}

	p.cache.Set(key, data)
	log.Printf("✅ Fetched and cached %s %s bars (%d records)", symbol, interval, len(data))
	return data, nil
}

// FetchCurrentPrice passes through to the underlying provider
func (p *CachedProvider) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	return p.provider.FetchCurrentPrice(ctx, symbol)
}

// ClearCache clears all cached data
func (p *CachedProvider) ClearCache() {
	p.cache.Clear()
}

// GetCacheSize returns the number of cached entries
func (p *CachedProvider) GetCacheSize() int {
	return p.cache.Size()
}
