// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about node painting, image loading and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetImageHooks(&myImageHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Image().OnLoadStart(ctx, url)
//	// ... fetch and decode ...
//	observability.Image().OnLoadComplete(ctx, url, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the node renderers. Backend is "canvas"
// for immediate-mode paints and "svg" for retained-mode operations.
type RenderHooks interface {
	// OnPaint records one immediate-mode node paint.
	OnPaint(ctx context.Context, shape string, duration time.Duration)

	// OnCreate records the creation of a retained node group.
	OnCreate(ctx context.Context, shape string)

	// OnUpdate records an in-place update of a retained node group.
	OnUpdate(ctx context.Context, shape string)

	// OnUnknownShape records a request for a shape that is not registered.
	OnUnknownShape(ctx context.Context, backend, shape string)
}

// =============================================================================
// Image Hooks
// =============================================================================

// ImageHooks receives events from the overlay image cache.
type ImageHooks interface {
	// OnLoadStart records the start of an image load.
	OnLoadStart(ctx context.Context, url string)

	// OnLoadComplete records the end of an image load; err is nil on success.
	OnLoadComplete(ctx context.Context, url string, duration time.Duration, err error)

	// OnEvict records an entry removed by the eviction policy.
	OnEvict(ctx context.Context, url string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnPaint(context.Context, string, time.Duration) {}
func (NoopRenderHooks) OnCreate(context.Context, string)               {}
func (NoopRenderHooks) OnUpdate(context.Context, string)               {}
func (NoopRenderHooks) OnUnknownShape(context.Context, string, string) {}

// NoopImageHooks is a no-op implementation of ImageHooks.
type NoopImageHooks struct{}

func (NoopImageHooks) OnLoadStart(context.Context, string)                          {}
func (NoopImageHooks) OnLoadComplete(context.Context, string, time.Duration, error) {}
func (NoopImageHooks) OnEvict(context.Context, string)                              {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	renderHooks RenderHooks = NoopRenderHooks{}
	imageHooks  ImageHooks  = NoopImageHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any rendering.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetImageHooks registers custom image hooks.
// This should be called once at application startup before any image loads.
func SetImageHooks(h ImageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		imageHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Image returns the registered image hooks.
func Image() ImageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return imageHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	renderHooks = NoopRenderHooks{}
	imageHooks = NoopImageHooks{}
	cacheHooks = NoopCacheHooks{}
}
