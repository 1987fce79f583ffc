// Package cache memoizes compiled accessors keyed by fingerprint.
//
// The cache is an explicit object rather than a process-wide singleton:
// construct one per process (or per test) and inject it where evaluation
// happens. Entries live until InvalidateAll; there is no eviction, since a
// compiled accessor stays valid for as long as its fingerprint does.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/skimgo/fingerprint"
)

type entry struct {
	accessor Accessor
	sig      []InputSignature
}

// Cache maps fingerprint keys to compiled accessors with single-flight
// compilation: concurrent misses on the same key trigger exactly one
// compile, and no caller ever observes a partially built accessor.
type Cache struct {
	mu      sync.RWMutex
	entries map[fingerprint.Key]*entry
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[fingerprint.Key]*entry),
	}
}

// GetOrCompile returns the accessor for key, compiling it at most once per
// cache lifetime. Compilation failures are not cached: the error is
// returned to every caller of the failed flight and the key is retried on
// the next request.
//
// sig is the decoded-dtype signature the accessor is compiled against; it is
// stored with the entry and retrievable via Signature.
func (c *Cache) GetOrCompile(ctx context.Context, key fingerprint.Key, sig []InputSignature, compile func(ctx context.Context) (Accessor, error)) (Accessor, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return e.accessor, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		res, err := c.flight(ctx, key, sig, compile)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
	if err != nil {
		c.misses.Add(1)
		return nil, err
	}

	// Stats count what each caller was served, not what it raced for: a
	// caller whose flight found the entry already populated is a hit.
	res := v.(flightResult)
	if res.cached {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return res.accessor, nil
}

type flightResult struct {
	accessor Accessor
	cached   bool
}

// flight is the single-flight body of GetOrCompile. A previous flight may
// have populated the entry between the caller's fast-path read and joining
// the group, in which case the cached accessor is served and no compile runs.
func (c *Cache) flight(ctx context.Context, key fingerprint.Key, sig []InputSignature, compile func(ctx context.Context) (Accessor, error)) (flightResult, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return flightResult{accessor: e.accessor, cached: true}, nil
	}

	accessor, err := compile(ctx)
	if err != nil {
		return flightResult{}, err
	}

	c.mu.Lock()
	c.entries[key] = &entry{accessor: accessor, sig: sig}
	c.mu.Unlock()
	return flightResult{accessor: accessor}, nil
}

// Get returns the cached accessor for key without compiling.
func (c *Cache) Get(key fingerprint.Key) (Accessor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.accessor, true
}

// Signature returns the decoded-dtype signature the cached accessor for key
// was compiled against.
func (c *Cache) Signature(key fingerprint.Key) ([]InputSignature, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.sig, true
}

// InvalidateAll clears every entry. It is only called by explicit
// cache-reset operations, never automatically.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached accessors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
