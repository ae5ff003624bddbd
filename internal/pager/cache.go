package pager

import (
	"sync"
	"sync/atomic"
)

// Cache holds rendered artifacts for a single document generation.
// Reads and writes carry the generation they were produced under;
// anything tagged with a superseded generation misses or is dropped,
// so a reader can never observe output from a prior incarnation of
// the file.
type Cache struct {
	mu      sync.RWMutex
	gen     uint64
	entries map[int]Artifact

	hits   atomic.Uint64
	misses atomic.Uint64
	drops  atomic.Uint64
}

// NewCache returns an empty cache bound to gen.
func NewCache(gen uint64) *Cache {
	return &Cache{gen: gen, entries: make(map[int]Artifact)}
}

// Get returns the artifact cached for index under gen. A generation
// mismatch is a miss.
func (c *Cache) Get(gen uint64, index int) (Artifact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if gen != c.gen {
		c.misses.Add(1)
		return Artifact{}, false
	}
	a, ok := c.entries[index]
	if !ok {
		c.misses.Add(1)
		return Artifact{}, false
	}
	c.hits.Add(1)
	return a, true
}

// Put stores an artifact rendered under gen. Artifacts from a
// superseded generation are silently dropped.
func (c *Cache) Put(gen uint64, a Artifact) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.drops.Add(1)
		return
	}
	c.entries[a.Index] = a
}

// Reset discards every entry and adopts gen as the live generation.
func (c *Cache) Reset(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen = gen
	c.entries = make(map[int]Artifact)
}

// Generation returns the generation the cache currently accepts.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Len returns the number of cached artifacts.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheStats is a point-in-time counter snapshot.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Drops  uint64
}

// Stats snapshots the hit, miss, and stale-drop counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Drops:  c.drops.Load(),
	}
}
