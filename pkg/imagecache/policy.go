package imagecache

import "github.com/golang/groupcache/lru"

// Policy decides which entries leave the cache. Methods are called with the
// cache lock held and need no locking of their own.
type Policy interface {
	// Admit records a use of url, new or existing, and returns the URLs
	// that must be evicted as a consequence.
	Admit(url string) []string

	// Forget removes url from the policy's bookkeeping.
	Forget(url string)
}

// Unbounded never evicts.
type Unbounded struct{}

func (Unbounded) Admit(string) []string { return nil }
func (Unbounded) Forget(string)         {}

// LRU evicts the least recently used URL once more than a fixed number of
// entries are cached.
type LRU struct {
	cache   *lru.Cache
	evicted []string
}

// NewLRU returns a policy keeping at most maxEntries URLs.
func NewLRU(maxEntries int) *LRU {
	p := &LRU{cache: lru.New(maxEntries)}
	p.cache.OnEvicted = func(key lru.Key, _ interface{}) {
		p.evicted = append(p.evicted, key.(string))
	}
	return p
}

func (p *LRU) Admit(url string) []string {
	p.cache.Add(url, nil)
	out := p.evicted
	p.evicted = nil
	return out
}

func (p *LRU) Forget(url string) {
	p.cache.Remove(url)
	p.evicted = nil
}

// Len returns the number of tracked URLs.
func (p *LRU) Len() int { return p.cache.Len() }
