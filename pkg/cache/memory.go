package cache

import (
	"context"
	"image"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/traitforge/pkg/observability"
)

// MemoryCache keeps decoded images in memory.
// Concurrent misses for the same key share a single load.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]image.Image
	group   singleflight.Group
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() Cache {
	return &MemoryCache{entries: make(map[string]image.Image)}
}

// GetOrLoad returns the cached image for key or loads it once.
func (c *MemoryCache) GetOrLoad(ctx context.Context, key string, load Loader) (image.Image, bool, error) {
	c.mu.RLock()
	img, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		observability.Cache().OnCacheHit(ctx, key)
		return img, true, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		img, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return img, nil
		}
		img, err := load()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = img
		c.mu.Unlock()
		observability.Cache().OnCacheSet(ctx, key, pixelBytes(img))
		return img, nil
	})
	if err != nil {
		return nil, false, err
	}
	if !shared {
		observability.Cache().OnCacheMiss(ctx, key)
	}
	return v.(image.Image), shared, nil
}

// Delete removes key from the cache.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of cached images.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close drops all cached images.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

// pixelBytes estimates the in-memory size of an RGBA image.
func pixelBytes(img image.Image) int {
	b := img.Bounds()
	return b.Dx() * b.Dy() * 4
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
