// Package cache provides a generic, thread-safe LRU (Least Recently Used) cache
// with a mutable capacity.
//
// The cache is the storage layer behind the user-agent lookup cache: one
// instance is created at startup and shared by every enrichment engine in the
// process, so its bound can be changed at runtime with Resize.
//
// # Key Features
//
//   - Generic over any comparable key and any value type
//   - A single mutex guards the table, every operation is O(1) except Resize and Keys
//   - Both Get and Put refresh recency; Peek and Contains do not
//   - Resize shrinks immediately, evicting least recently used entries first
//   - Eviction callbacks receive the reason an entry left the cache
//
// # Usage
//
//	c, err := cache.NewLRUCache[string, Result](10_000)
//	if err != nil {
//		return err
//	}
//
//	c.Put("key", result)
//	if v, ok := c.Get("key"); ok {
//		use(v)
//	}
//
//	// Shrink the shared instance; the 9_000 oldest entries go right away.
//	dropped, _ := c.Resize(1_000)
//
// # Eviction Callbacks
//
//	c.OnEvict(func(key string, _ Result, reason cache.EvictReason) {
//		evictions.WithLabelValues(reason.String()).Inc()
//	})
//
// The callback runs while the cache lock is held. It must be fast and must
// not call back into the cache. Explicit Remove calls are not reported.
//
// # Values
//
// Values are stored as given. Callers that hand cached values to untrusted
// code should store immutable values (plain structs without pointers or
// slices) so that a reader can never modify what the next reader sees.
package cache
