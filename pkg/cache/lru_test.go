package cache_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uakit/pkg/cache"
)

func TestNewLRUCache(t *testing.T) {
	t.Parallel()

	t.Run("positive capacity", func(t *testing.T) {
		c, err := cache.NewLRUCache[string, int](3)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Capacity())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("zero capacity", func(t *testing.T) {
		_, err := cache.NewLRUCache[string, int](0)
		assert.ErrorIs(t, err, cache.ErrInvalidCapacity)
	})

	t.Run("negative capacity", func(t *testing.T) {
		_, err := cache.NewLRUCache[string, int](-1)
		assert.ErrorIs(t, err, cache.ErrInvalidCapacity)
	})

	t.Run("must panics", func(t *testing.T) {
		assert.Panics(t, func() {
			cache.MustNewLRUCache[string, int](0)
		})
	})
}

func TestLRUCache_PutGet(t *testing.T) {
	t.Parallel()

	c := cache.MustNewLRUCache[string, int](3)

	_, replaced := c.Put("a", 1)
	assert.False(t, replaced)
	c.Put("b", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	prev, replaced := c.Put("a", 10)
	assert.True(t, replaced)
	assert.Equal(t, 1, prev)

	v, _ = c.Get("a")
	assert.Equal(t, 10, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	t.Parallel()

	t.Run("least recently inserted goes first", func(t *testing.T) {
		c := cache.MustNewLRUCache[string, int](2)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("c", 3)

		assert.False(t, c.Contains("a"))
		assert.True(t, c.Contains("b"))
		assert.True(t, c.Contains("c"))
		assert.Equal(t, 2, c.Len())
	})

	t.Run("get protects from eviction", func(t *testing.T) {
		c := cache.MustNewLRUCache[string, int](2)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Get("a")
		c.Put("c", 3)

		assert.True(t, c.Contains("a"))
		assert.False(t, c.Contains("b"))
	})

	t.Run("peek does not protect from eviction", func(t *testing.T) {
		c := cache.MustNewLRUCache[string, int](2)
		c.Put("a", 1)
		c.Put("b", 2)

		v, ok := c.Peek("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)

		c.Put("c", 3)
		assert.False(t, c.Contains("a"))
	})

	t.Run("update refreshes recency", func(t *testing.T) {
		c := cache.MustNewLRUCache[string, int](2)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("a", 11)
		c.Put("c", 3)

		assert.Equal(t, []string{"c", "a"}, c.Keys())
	})

	t.Run("capacity of one", func(t *testing.T) {
		c := cache.MustNewLRUCache[string, int](1)
		c.Put("a", 1)
		c.Put("b", 2)

		assert.Equal(t, []string{"b"}, c.Keys())
	})
}

func TestLRUCache_OnEvict(t *testing.T) {
	t.Parallel()

	type eviction struct {
		key    string
		reason cache.EvictReason
	}

	var got []eviction
	c := cache.MustNewLRUCache[string, int](2)
	c.OnEvict(func(key string, _ int, reason cache.EvictReason) {
		got = append(got, eviction{key, reason})
	})

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	_, err := c.Resize(1)
	require.NoError(t, err)
	c.Remove("c")
	c.Put("d", 4)
	c.Clear()

	assert.Equal(t, []eviction{
		{"a", cache.EvictCapacity},
		{"b", cache.EvictResize},
		{"d", cache.EvictCleared},
	}, got)
	assert.Equal(t, "resize", cache.EvictResize.String())
}

func TestLRUCache_Resize(t *testing.T) {
	t.Parallel()

	t.Run("shrink evicts immediately", func(t *testing.T) {
		c := cache.MustNewLRUCache[int, int](5)
		for i := range 5 {
			c.Put(i, i)
		}
		c.Get(0)

		dropped, err := c.Resize(2)
		require.NoError(t, err)
		assert.Equal(t, 3, dropped)
		assert.Equal(t, 2, c.Capacity())
		assert.Equal(t, []int{0, 4}, c.Keys())
	})

	t.Run("grow keeps entries", func(t *testing.T) {
		c := cache.MustNewLRUCache[int, int](2)
		c.Put(1, 1)
		c.Put(2, 2)

		dropped, err := c.Resize(4)
		require.NoError(t, err)
		assert.Zero(t, dropped)

		c.Put(3, 3)
		c.Put(4, 4)
		assert.Equal(t, 4, c.Len())
	})

	t.Run("invalid capacity leaves cache untouched", func(t *testing.T) {
		c := cache.MustNewLRUCache[int, int](2)
		c.Put(1, 1)

		_, err := c.Resize(0)
		assert.ErrorIs(t, err, cache.ErrInvalidCapacity)
		assert.Equal(t, 2, c.Capacity())
		assert.Equal(t, 1, c.Len())
	})
}

func TestLRUCache_RemoveAndClear(t *testing.T) {
	t.Parallel()

	c := cache.MustNewLRUCache[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Remove("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Remove("a")
	assert.False(t, ok)

	c.Clear()
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Keys())
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.MustNewLRUCache[string, int](64)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				key := fmt.Sprintf("k%d", (w*31+i)%128)
				c.Put(key, i)
				c.Get(key)
				if i%50 == 0 {
					_, _ = c.Resize(32 + i%64)
				}
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), c.Capacity())
}

func BenchmarkLRUCache_Get(b *testing.B) {
	c := cache.MustNewLRUCache[int, int](1000)
	for i := range 1000 {
		c.Put(i, i)
	}

	b.ResetTimer()
	for i := range b.N {
		c.Get(i % 1000)
	}
}

func BenchmarkLRUCache_Mixed(b *testing.B) {
	c := cache.MustNewLRUCache[int, int](1000)

	b.ResetTimer()
	for i := range b.N {
		if i%2 == 0 {
			c.Put(i%2000, i)
		} else {
			c.Get(i % 2000)
		}
	}
}
