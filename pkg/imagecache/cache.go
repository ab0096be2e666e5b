package imagecache

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodeshapes/pkg/errors"
	"github.com/matzehuels/nodeshapes/pkg/observability"
)

// Status is the load state of a cache entry.
type Status int

const (
	// StatusNone means the URL has no entry.
	StatusNone Status = iota
	StatusLoading
	StatusOK
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "none"
	}
}

type entry struct {
	img    image.Image
	status Status
	err    error
	cancel context.CancelFunc
}

// Option configures a Cache.
type Option func(*Cache)

// WithOnReady sets the callback run after an image finished loading
// successfully. It runs on the loading goroutine.
func WithOnReady(fn func(url string)) Option {
	return func(c *Cache) { c.onReady = fn }
}

// WithLogger sets the logger for load failures and readiness.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPolicy sets the eviction policy.
func WithPolicy(p Policy) Option {
	return func(c *Cache) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithMaxEntries bounds the cache with an LRU policy. n <= 0 keeps the cache
// unbounded.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.policy = NewLRU(n)
		}
	}
}

// WithContext sets the parent context of every load. Cancelling it cancels
// all in-flight loads.
func WithContext(ctx context.Context) Option {
	return func(c *Cache) { c.parent = ctx }
}

// Cache is a URL-keyed image cache. It is safe for concurrent use.
type Cache struct {
	loader  Loader
	onReady func(url string)
	logger  *log.Logger
	policy  Policy
	parent  context.Context

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entries map[string]*entry
	refs    map[string]int
	closed  bool

	wg sync.WaitGroup
}

// New creates a cache that loads images with loader.
func New(loader Loader, opts ...Option) *Cache {
	c := &Cache{
		loader:  loader,
		logger:  log.New(io.Discard),
		policy:  Unbounded{},
		parent:  context.Background(),
		entries: make(map[string]*entry),
		refs:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(c.parent)
	return c
}

// Request returns the image for url and its status. The first request for
// a URL starts its load and reports StatusLoading; the image is only
// non-nil with StatusOK.
func (c *Cache) Request(url string) (image.Image, Status) {
	c.mu.Lock()
	if e, ok := c.entries[url]; ok {
		c.admitLocked(url)
		img, status := e.img, e.status
		c.mu.Unlock()
		return img, status
	}
	if c.closed {
		c.mu.Unlock()
		return nil, StatusNone
	}

	ctx, cancel := context.WithCancel(c.ctx)
	e := &entry{status: StatusLoading, cancel: cancel}
	c.entries[url] = e
	c.admitLocked(url)
	c.wg.Add(1)
	c.mu.Unlock()

	go c.load(ctx, url, e)
	return nil, StatusLoading
}

// Prefetch starts loading every URL that has no entry yet.
func (c *Cache) Prefetch(urls ...string) {
	for _, url := range urls {
		c.Request(url)
	}
}

// Status reports the state of url without starting a load.
func (c *Cache) Status(url string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[url]; ok {
		return e.status
	}
	return StatusNone
}

// Err returns the stored failure for an entry in StatusError.
func (c *Cache) Err(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[url]; ok {
		return e.err
	}
	return nil
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Pending returns the number of entries still loading.
func (c *Cache) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if e.status == StatusLoading {
			n++
		}
	}
	return n
}

// Acquire records one more user of url.
func (c *Cache) Acquire(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refs[url]++
}

// Release drops one user of url. When the last user goes away while the
// image is still loading, the load is cancelled and the entry removed.
func (c *Cache) Release(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.refs[url]
	if !ok {
		return
	}
	if n > 1 {
		c.refs[url] = n - 1
		return
	}
	delete(c.refs, url)
	e, ok := c.entries[url]
	switch {
	case !ok:
	case e.status == StatusLoading:
		c.dropLocked(url)
		c.policy.Forget(url)
		c.logger.Debug("image load abandoned", "url", url)
	default:
		// The entry may have outgrown the bound while it was held.
		c.admitLocked(url)
	}
}

// Refs returns the reference count of url.
func (c *Cache) Refs(url string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs[url]
}

// Wait blocks until no load is in flight.
func (c *Cache) Wait() { c.wg.Wait() }

// Close cancels in-flight loads, drops every entry and waits for the
// loading goroutines to exit. Requests after Close start nothing.
func (c *Cache) Close() error {
	c.mu.Lock()
	c.closed = true
	c.cancel()
	for url := range c.entries {
		c.policy.Forget(url)
	}
	clear(c.entries)
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

// admitLocked records a use of url with the policy and drops what it evicts.
// Entries somebody still holds are never dropped: the policy stops tracking
// them and the cache runs over its bound until they are released.
func (c *Cache) admitLocked(url string) {
	for _, evicted := range c.policy.Admit(url) {
		if evicted == url {
			continue
		}
		if c.refs[evicted] > 0 {
			c.logger.Debug("keeping referenced image over the cache bound", "url", evicted)
			continue
		}
		c.dropLocked(evicted)
		observability.Image().OnEvict(c.ctx, evicted)
	}
}

func (c *Cache) dropLocked(url string) {
	if e, ok := c.entries[url]; ok {
		if e.cancel != nil {
			e.cancel()
		}
		delete(c.entries, url)
	}
}

func (c *Cache) load(ctx context.Context, url string, e *entry) {
	defer c.wg.Done()

	start := time.Now()
	observability.Image().OnLoadStart(ctx, url)
	img, err := c.loader.Load(ctx, url)
	observability.Image().OnLoadComplete(ctx, url, time.Since(start), err)

	c.mu.Lock()
	if c.entries[url] != e {
		// dropped while loading
		c.mu.Unlock()
		return
	}
	e.cancel()
	e.cancel = nil
	if err != nil {
		e.status = StatusError
		e.err = errors.Wrap(errors.ErrCodeImageLoad, err, "load %s", url)
		c.mu.Unlock()
		c.logger.Warn("error loading image", "url", url, "err", err)
		return
	}
	e.img = img
	e.status = StatusOK
	c.mu.Unlock()

	c.logger.Debug("image ready, requesting repaint", "url", url, "took", time.Since(start))
	if c.onReady != nil {
		c.onReady(url)
	}
}
