package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// NullCache is the store used when image caching is off (image_cache =
// "none" or --no-cache). Every image fetch goes to its source; fetched bytes
// are counted and dropped.
type NullCache struct {
	dropped atomic.Int64
}

// NewNullCache returns a store that keeps no image bytes.
func NewNullCache() Cache { return &NullCache{} }

// Get reports a miss for every key.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set drops data.
func (c *NullCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	c.dropped.Add(1)
	return nil
}

// Dropped returns how many payloads Set has discarded.
func (c *NullCache) Dropped() int64 { return c.dropped.Load() }

func (*NullCache) Delete(context.Context, string) error { return nil }
func (*NullCache) Close() error                         { return nil }

var _ Cache = (*NullCache)(nil)
