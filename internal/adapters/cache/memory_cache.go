package cache

import (
	"context"
	"sync"

	"github.com/mikey/llm-mail-search/internal/core"
	"go.uber.org/zap"
)

// MemoryCache is an in-memory implementation of the CacheRepository interface.
// Entries live as long as the cache value itself.
type MemoryCache struct {
	entries map[string]*core.CacheEntry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(logger *zap.Logger) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*core.CacheEntry),
		logger:  logger,
	}
}

// Get retrieves a cached entry
func (c *MemoryCache) Get(ctx context.Context, key string) (*core.CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, core.ErrNotFound
	}

	clone := *entry
	return &clone, nil
}

// Set stores a cache entry
func (c *MemoryCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	clone := *entry
	c.entries[entry.Key] = &clone
	return nil
}

// Delete removes a cache entry
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Purge removes every entry
func (c *MemoryCache) Purge(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := len(c.entries)
	c.entries = make(map[string]*core.CacheEntry)

	c.logger.Debug("Purged memory cache", zap.Int("purged_count", count))
	return nil
}

// Len returns the number of cached entries
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
