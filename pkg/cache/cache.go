// Package cache provides caches for decoded layer assets.
//
// A collection of thousands of tokens is composited from a few dozen layer
// images. Decoding every PNG once per token dominates render time, so the
// renderer loads assets through a Cache keyed by file path.
//
// Two implementations are provided:
//   - [MemoryCache]: keeps decoded images for the lifetime of a run, loading
//     each key at most once even when many workers ask concurrently
//   - [NullCache]: never stores anything, every lookup loads from disk
//
// Load failures are never cached; the next lookup retries the loader.
package cache

import (
	"context"
	"image"
)

// Loader produces the value for a cache miss.
type Loader func() (image.Image, error)

// Cache stores decoded images keyed by asset path.
// Implementations are safe for concurrent use.
type Cache interface {
	// GetOrLoad returns the cached image for key, calling load on a miss.
	// The boolean reports whether the value came from the cache.
	GetOrLoad(ctx context.Context, key string, load Loader) (image.Image, bool, error)

	// Delete removes key from the cache.
	Delete(key string)

	// Len returns the number of cached entries.
	Len() int

	// Close releases all cached entries.
	Close() error
}
