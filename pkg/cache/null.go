package cache

import (
	"context"
	"image"

	"github.com/matzehuels/traitforge/pkg/observability"
)

// NullCache is a no-op cache that never stores anything.
// Useful for testing or when memory is tighter than CPU.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// GetOrLoad always calls load.
func (c *NullCache) GetOrLoad(ctx context.Context, key string, load Loader) (image.Image, bool, error) {
	observability.Cache().OnCacheMiss(ctx, key)
	img, err := load()
	return img, false, err
}

// Delete does nothing.
func (c *NullCache) Delete(key string) {}

// Len is always zero.
func (c *NullCache) Len() int { return 0 }

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
