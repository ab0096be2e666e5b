// Package cache stores raw bytes keyed by string, with optional expiry.
//
// The image loaders use it to keep fetched image data across runs so that
// repeated renders of the same graph do not download every overlay again.
// Backends:
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (preview servers)
//   - [NullCache]: stores nothing
//
// Keys are produced by a [Keyer]; [ScopedKeyer] prefixes them so several
// hosts can share one backend without colliding.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/nodeshapes/pkg/observability"
)

// DefaultImageTTL is how long fetched image bytes are kept.
const DefaultImageTTL = 7 * 24 * time.Hour

// Cache is a byte store.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ImageKey returns the key for the bytes behind an image URL.
	ImageKey(url string) string
}

// DefaultKeyer hashes URLs under the "image" prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ImageKey returns "image:<sha256(url)>".
func (DefaultKeyer) ImageKey(url string) string { return hashKey("image", url) }

// Fetch returns the value stored under key, or calls fill, stores its result
// with ttl and returns it. Read and write failures of the cache itself are
// ignored: the cache only ever saves work.
func Fetch(ctx context.Context, c Cache, key string, ttl time.Duration, fill func(context.Context) ([]byte, error)) ([]byte, error) {
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "image")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "image")

	data, err := fill(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "image", len(data))
	}
	return data, nil
}
