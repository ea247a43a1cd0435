package imaging

import (
	"fmt"
	"os"
	"sync"
)

// PageCache provides thread-safe caching of encoded page files to avoid
// redundant disk reads.
//
// The cache stores the raw file bytes keyed by path, not a decoded image:
// pages that fail the paper texture check are handed back byte-for-byte, so
// the original encoding has to survive.
//
// PageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached pages remain in memory until explicitly removed via Evict() or
// Clear(). Long-running servers handling many pages should evict after use.
type PageCache struct {
	mu    sync.RWMutex
	pages map[string][]byte
}

// NewPageCache creates and initializes a new empty page cache.
func NewPageCache() *PageCache {
	return &PageCache{
		pages: make(map[string][]byte),
	}
}

// Load returns the bytes of the file at path, reading it on first use.
//
// The returned slice is shared with the cache and must not be modified.
// Different spellings of the same path (relative vs absolute) are cached
// separately.
func (c *PageCache) Load(path string) ([]byte, error) {
	c.mu.RLock()
	if data, ok := c.pages[path]; ok {
		c.mu.RUnlock()
		return data, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to read page %s: %w", path, ErrEmptyImage)
	}

	c.mu.Lock()
	c.pages[path] = data
	c.mu.Unlock()

	return data, nil
}

// Clear removes all pages from the cache.
func (c *PageCache) Clear() {
	c.mu.Lock()
	c.pages = make(map[string][]byte)
	c.mu.Unlock()
}

// Evict removes a specific page from the cache by its path. Unknown paths are
// ignored.
func (c *PageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.pages, path)
	c.mu.Unlock()
}

// Len reports how many pages are cached.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}
