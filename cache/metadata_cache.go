package cache

import (
	"context"
	"sync"
	"time"

	"tubemp3/logger"
	"tubemp3/model"
)

// ResolveFunc resolves a video identifier into metadata on a cache miss.
type ResolveFunc func(ctx context.Context, videoID string) (*model.VideoMetadata, error)

type entry struct {
	meta     *model.VideoMetadata
	storedAt time.Time
}

// MetadataCache is a bounded, time-expiring map from video identifier to
// resolved metadata, shared across concurrent requests. Eviction past the
// capacity bound removes the oldest-inserted entry (FIFO, not LRU), a
// deliberate throughput tradeoff kept for behavioral parity.
//
// Concurrent requests resolving the same cold identifier are not coalesced;
// each proceeds independently and the last writer's result is kept. Metadata
// is idempotent content, so this is an inefficiency rather than a bug.
type MetadataCache struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	order    []string // insertion order, for FIFO eviction
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

// NewMetadataCache creates a cache with the given TTL and capacity bound.
func NewMetadataCache(ttl time.Duration, capacity int) *MetadataCache {
	if capacity < 1 {
		capacity = 1
	}
	return &MetadataCache{
		entries:  make(map[string]*entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Lookup returns the cached metadata for videoID when present and fresh.
// Expired entries are treated as misses; they are replaced on the next store.
func (c *MetadataCache) Lookup(videoID string) (*model.VideoMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[videoID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.meta, true
}

// Store inserts or replaces the entry for videoID with the current timestamp.
// Replacement is atomic with respect to concurrent readers: an entry pointer
// is swapped in whole, never written field by field.
func (c *MetadataCache) Store(videoID string, meta *model.VideoMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[videoID]; exists {
		c.entries[videoID] = &entry{meta: meta, storedAt: c.now()}
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		logger.Debug("cache evicted oldest entry",
			logger.String("videoId", oldest),
			logger.Int("capacity", c.capacity))
	}

	c.entries[videoID] = &entry{meta: meta, storedAt: c.now()}
	c.order = append(c.order, videoID)
}

// GetOrResolve returns the cached metadata for videoID or, on a miss or
// expiry, invokes resolve and stores the result. cached reports whether the
// value was served from the cache without an external call.
func (c *MetadataCache) GetOrResolve(ctx context.Context, videoID string, resolve ResolveFunc) (meta *model.VideoMetadata, cached bool, err error) {
	if meta, ok := c.Lookup(videoID); ok {
		return meta, true, nil
	}

	meta, err = resolve(ctx, videoID)
	if err != nil {
		return nil, false, err
	}
	c.Store(videoID, meta)
	return meta, false, nil
}

// Size returns the current entry count.
func (c *MetadataCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Capacity returns the fixed capacity bound.
func (c *MetadataCache) Capacity() int { return c.capacity }

// TTL returns the fixed entry time-to-live.
func (c *MetadataCache) TTL() time.Duration { return c.ttl }

// Keys returns up to limit cached identifiers in insertion order, for
// diagnostics. Read-only; no mutation.
func (c *MetadataCache) Keys(limit int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if limit > len(c.order) {
		limit = len(c.order)
	}
	keys := make([]string, limit)
	copy(keys, c.order[:limit])
	return keys
}

// Clear drops all entries and returns how many were removed.
func (c *MetadataCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := len(c.entries)
	c.entries = make(map[string]*entry)
	c.order = nil
	return removed
}
