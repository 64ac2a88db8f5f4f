package lexer

import (
	"crypto/sha256"
	"sync"
)

// Cache remembers the last scan of each named source so that re-reading an
// unchanged file skips the lexer. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	stats   CacheStats
}

type cacheEntry struct {
	hash   [32]byte
	result *Result
}

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Tokenize returns the scan of source, reusing the previous result for name
// when the content hash is unchanged. The boolean reports a cache hit.
// Failed scans are not cached.
func (c *Cache) Tokenize(name, source string) (*Result, bool, error) {
	hash := sha256.Sum256([]byte(source))

	c.mu.RLock()
	entry, ok := c.entries[name]
	c.mu.RUnlock()

	if ok && entry.hash == hash {
		c.mu.Lock()
		c.stats.Hits++
		c.mu.Unlock()
		return entry.result, true, nil
	}

	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()

	result, err := Tokenize(source)
	if err != nil {
		c.Remove(name)
		return nil, false, err
	}

	c.mu.Lock()
	c.entries[name] = cacheEntry{hash: hash, result: result}
	c.mu.Unlock()
	return result, false, nil
}

// Remove drops the entry for name.
func (c *Cache) Remove(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}

// Stats returns a snapshot of the hit and miss counters.
func (c *Cache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}
