package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

const minEntries = 16

// MemoryCache is an in-process LRU with per-entry expiry
type MemoryCache struct {
	cache *lru.LRU[string, *ProfileEntry]
}

// NewMemoryCache creates a cache holding at most size entries for ttl each
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size < minEntries {
		size = minEntries
	}
	return &MemoryCache{
		cache: lru.NewLRU[string, *ProfileEntry](size, nil, ttl),
	}
}

func (c *MemoryCache) Get(_ context.Context, userID string) (*ProfileEntry, bool) {
	return c.cache.Get(userID)
}

func (c *MemoryCache) Set(_ context.Context, userID string, entry *ProfileEntry) {
	if entry == nil {
		return
	}
	c.cache.Add(userID, entry)
}

func (c *MemoryCache) Invalidate(_ context.Context, userID string) {
	c.cache.Remove(userID)
}

// Len reports the number of live entries
func (c *MemoryCache) Len() int {
	return c.cache.Len()
}

func (c *MemoryCache) Close() error {
	c.cache.Purge()
	return nil
}
