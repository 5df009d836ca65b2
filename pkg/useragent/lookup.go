package useragent

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/uakit/pkg/cache"
)

// PopulateFunc computes the Match for a key that is not cached yet.
type PopulateFunc func(ctx context.Context, ua string) (Match, error)

// LookupStats is a snapshot of LookupCache counters.
type LookupStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Failures  uint64
	Size      int
	Capacity  int
}

// LookupCache maps exact user-agent strings to their Match.
//
// One instance is meant to be created at startup and shared by every engine
// in the process. Concurrent misses on the same key each run populate and the
// last insert wins, unless WithSingleFlight is set.
type LookupCache struct {
	entries *cache.LRUCache[string, Match]
	flight  *singleflight.Group

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	failures  atomic.Uint64
}

// LookupOption configures a LookupCache.
type LookupOption func(*LookupCache)

// WithSingleFlight deduplicates concurrent misses on the same key so that
// populate runs once and every waiter receives its result.
func WithSingleFlight() LookupOption {
	return func(c *LookupCache) {
		c.flight = &singleflight.Group{}
	}
}

// NewLookupCache returns an empty cache bounded to capacity entries.
func NewLookupCache(capacity int, opts ...LookupOption) (*LookupCache, error) {
	entries, err := cache.NewLRUCache[string, Match](capacity)
	if err != nil {
		return nil, errors.Join(ErrInvalidCapacity, err)
	}

	c := &LookupCache{entries: entries}
	for _, opt := range opts {
		opt(c)
	}

	entries.OnEvict(func(_ string, _ Match, reason cache.EvictReason) {
		if reason != cache.EvictCleared {
			c.evictions.Add(1)
		}
	})

	return c, nil
}

// GetOrPopulate returns the cached Match for ua, or calls populate, stores
// its result and returns it. A populate error is returned as is and nothing
// is stored.
func (c *LookupCache) GetOrPopulate(ctx context.Context, ua string, populate PopulateFunc) (Match, error) {
	if m, ok := c.entries.Get(ua); ok {
		c.hits.Add(1)
		return m, nil
	}
	c.misses.Add(1)

	if c.flight == nil {
		return c.populate(ctx, ua, populate)
	}

	v, err, _ := c.flight.Do(ua, func() (any, error) {
		// A concurrent flight may have finished between our miss and Do.
		if m, ok := c.entries.Peek(ua); ok {
			return m, nil
		}
		return c.populate(ctx, ua, populate)
	})
	if err != nil {
		return Match{}, err
	}
	return v.(Match), nil
}

func (c *LookupCache) populate(ctx context.Context, ua string, populate PopulateFunc) (Match, error) {
	m, err := populate(ctx, ua)
	if err != nil {
		c.failures.Add(1)
		return Match{}, err
	}
	c.entries.Put(ua, m)
	return m, nil
}

// Contains reports whether ua is cached without refreshing it.
func (c *LookupCache) Contains(ua string) bool { return c.entries.Contains(ua) }

// Len returns the number of cached entries.
func (c *LookupCache) Len() int { return c.entries.Len() }

// Capacity returns the current bound.
func (c *LookupCache) Capacity() int { return c.entries.Capacity() }

// Resize changes the bound for every holder of this cache. Shrinking evicts
// the least recently used entries immediately.
func (c *LookupCache) Resize(capacity int) error {
	if _, err := c.entries.Resize(capacity); err != nil {
		return errors.Join(ErrInvalidCapacity, err)
	}
	return nil
}

// Reset drops every cached entry. Counters are kept.
func (c *LookupCache) Reset() { c.entries.Clear() }

// Stats returns a snapshot of the cache counters.
func (c *LookupCache) Stats() LookupStats {
	return LookupStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Failures:  c.failures.Load(),
		Size:      c.entries.Len(),
		Capacity:  c.entries.Capacity(),
	}
}
