package enrich_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uakit/pkg/enrich"
	"github.com/dmitrymomot/uakit/pkg/event"
	"github.com/dmitrymomot/uakit/pkg/logger"
	"github.com/dmitrymomot/uakit/pkg/useragent"
)

type countingMatcher struct {
	calls atomic.Int32
	fn    func(ua string) (useragent.Match, error)
}

func (m *countingMatcher) Parse(_ context.Context, ua string) (useragent.Match, error) {
	m.calls.Add(1)
	if m.fn != nil {
		return m.fn(ua)
	}
	return chromeMatch, nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []enrich.Outcome
}

func (r *fakeRecorder) ObserveClassify(o enrich.Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func newEngine(t *testing.T, cfg enrich.Config, m useragent.Matcher, opts ...enrich.Option) (*enrich.Engine, *useragent.LookupCache) {
	t.Helper()
	lookups, err := useragent.NewLookupCache(cfg.CacheSize)
	require.NoError(t, err)
	e, err := enrich.New(cfg, lookups, m, opts...)
	require.NoError(t, err)
	return e, lookups
}

func TestNew(t *testing.T) {
	t.Parallel()

	lookups, err := useragent.NewLookupCache(10)
	require.NoError(t, err)

	_, err = enrich.New(enrich.Config{}, lookups, &countingMatcher{})
	assert.ErrorIs(t, err, enrich.ErrInvalidConfig)

	_, err = enrich.New(enrich.DefaultConfig("agent"), nil, &countingMatcher{})
	assert.ErrorIs(t, err, enrich.ErrNilLookupCache)

	_, err = enrich.New(enrich.DefaultConfig("agent"), lookups, nil)
	assert.ErrorIs(t, err, enrich.ErrNilMatcher)
}

func TestNew_ResizesSharedCache(t *testing.T) {
	t.Parallel()

	lookups, err := useragent.NewLookupCache(10)
	require.NoError(t, err)

	m := &countingMatcher{}
	first, err := enrich.New(enrich.DefaultConfig("agent"), lookups, m)
	require.NoError(t, err)

	cfg := enrich.DefaultConfig("agent")
	cfg.CacheSize = 2
	_, err = enrich.New(cfg, lookups, m)
	require.NoError(t, err)

	assert.Equal(t, 2, lookups.Capacity())

	// The first engine sees the new bound too.
	for i := range 5 {
		first.Classify(context.Background(), fmt.Sprintf("ua-%d", i))
	}
	assert.Equal(t, 2, lookups.Len())
}

func TestEngine_Classify(t *testing.T) {
	t.Parallel()

	cfg := enrich.DefaultConfig("agent")
	cfg.CacheSize = 16

	t.Run("reconstructs fields", func(t *testing.T) {
		e, _ := newEngine(t, cfg, &countingMatcher{})

		f, ok := e.Classify(context.Background(), chromeUA)
		require.True(t, ok)

		v, _ := f.Get(enrich.KeyVersion)
		assert.Equal(t, "26.0.1410.63", v)
		v, _ = f.Get(enrich.KeyOSFull)
		assert.Equal(t, "Windows 8.1", v)
	})

	t.Run("empty and nil never touch the cache", func(t *testing.T) {
		m := &countingMatcher{}
		rec := &fakeRecorder{}
		e, lookups := newEngine(t, cfg, m, enrich.WithRecorder(rec))

		for _, src := range []any{nil, "", []any{}, []string{""}, 42} {
			_, ok := e.Classify(context.Background(), src)
			assert.False(t, ok)
		}

		stats := lookups.Stats()
		assert.Zero(t, stats.Hits)
		assert.Zero(t, stats.Misses)
		assert.Zero(t, lookups.Len())
		assert.Zero(t, m.calls.Load())
		assert.Equal(t, []enrich.Outcome{
			enrich.OutcomeEmpty, enrich.OutcomeEmpty, enrich.OutcomeEmpty, enrich.OutcomeEmpty, enrich.OutcomeEmpty,
		}, rec.outcomes)
	})

	t.Run("sequence uses first element", func(t *testing.T) {
		var seen []string
		m := &countingMatcher{fn: func(ua string) (useragent.Match, error) {
			seen = append(seen, ua)
			return chromeMatch, nil
		}}
		e, _ := newEngine(t, cfg, m)

		_, ok := e.Classify(context.Background(), []any{"first", "second"})
		assert.True(t, ok)
		_, ok = e.Classify(context.Background(), []string{"third", "fourth"})
		assert.True(t, ok)

		assert.Equal(t, []string{"first", "third"}, seen)
	})

	t.Run("hits do not call the matcher", func(t *testing.T) {
		m := &countingMatcher{}
		e, lookups := newEngine(t, cfg, m)

		for range 3 {
			_, ok := e.Classify(context.Background(), chromeUA)
			require.True(t, ok)
		}
		assert.Equal(t, int32(1), m.calls.Load())
		assert.Equal(t, uint64(2), lookups.Stats().Hits)
	})
}

func TestEngine_ClassifyFailure(t *testing.T) {
	t.Parallel()

	cfg := enrich.DefaultConfig("agent")
	cfg.CacheSize = 16

	t.Run("parse failure is logged once and not cached", func(t *testing.T) {
		buf := &bytes.Buffer{}
		m := &countingMatcher{fn: func(string) (useragent.Match, error) {
			return useragent.Match{}, errors.New("database corrupt")
		}}
		rec := &fakeRecorder{}
		e, lookups := newEngine(t, cfg, m,
			enrich.WithLogger(logger.New(logger.WithOutput(buf))),
			enrich.WithRecorder(rec),
		)

		f, ok := e.Classify(context.Background(), "weird/1.0")
		assert.False(t, ok)
		assert.True(t, f.IsZero())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], `"level":"ERROR"`)
		assert.Contains(t, lines[0], `"user_agent":"weird/1.0"`)
		assert.Contains(t, lines[0], "database corrupt")

		assert.False(t, lookups.Contains("weird/1.0"))
		assert.Zero(t, lookups.Len())
		assert.Equal(t, []enrich.Outcome{enrich.OutcomeFailed}, rec.outcomes)
	})

	t.Run("matcher panic is contained", func(t *testing.T) {
		m := &countingMatcher{fn: func(string) (useragent.Match, error) {
			panic("index out of range")
		}}
		e, lookups := newEngine(t, cfg, m)

		assert.NotPanics(t, func() {
			_, ok := e.Classify(context.Background(), "boom")
			assert.False(t, ok)
		})
		assert.Zero(t, lookups.Len())

		_, err := e.Lookup(context.Background(), "boom")
		assert.ErrorIs(t, err, useragent.ErrParseFailure)
	})

	t.Run("lookup returns typed errors", func(t *testing.T) {
		m := &countingMatcher{fn: func(string) (useragent.Match, error) {
			return useragent.Match{}, assert.AnError
		}}
		e, _ := newEngine(t, cfg, m)

		_, err := e.Lookup(context.Background(), "")
		assert.ErrorIs(t, err, useragent.ErrEmptyUserAgent)
		assert.Zero(t, m.calls.Load())

		_, err = e.Lookup(context.Background(), "x")
		var pe *useragent.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "x", pe.Input)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestEngine_Determinism(t *testing.T) {
	t.Parallel()

	cfg := enrich.DefaultConfig("agent")
	cfg.CacheSize = 16
	e, _ := newEngine(t, cfg, &countingMatcher{})

	first, ok := e.Classify(context.Background(), chromeUA)
	require.True(t, ok)

	// Mutating everything the caller can reach must not leak into later results.
	entries := first.Entries()
	for i := range entries {
		entries[i].Value = "tampered"
	}
	m := first.Map()
	for k := range m {
		m[k] = "tampered"
	}
	obj := first.Object()
	obj["name"] = "tampered"

	second, ok := e.Classify(context.Background(), chromeUA)
	require.True(t, ok)

	assert.Equal(t, first.Entries(), second.Entries())
	v, _ := second.Get(enrich.KeyName)
	assert.Equal(t, "Chrome", v)
	v, _ = first.Get(enrich.KeyName)
	assert.Equal(t, "Chrome", v)
}

func TestEngine_Apply(t *testing.T) {
	t.Parallel()

	t.Run("flat under target", func(t *testing.T) {
		cfg := enrich.DefaultConfig("agent")
		cfg.Target = "ua"
		cfg.Prefix = "b_"
		e, _ := newEngine(t, cfg, &countingMatcher{})

		ev := event.New(map[string]any{"agent": chromeUA})
		assert.True(t, e.Apply(context.Background(), ev))

		v, ok := ev.Get("[ua][b_version]")
		assert.True(t, ok)
		assert.Equal(t, "26.0.1410.63", v)

		v, ok = ev.Get("agent")
		assert.True(t, ok)
		assert.Equal(t, chromeUA, v)
	})

	t.Run("nested with default target", func(t *testing.T) {
		cfg := enrich.DefaultConfig("[user_agent][original]")
		cfg.Layout = enrich.ModeNested
		e, _ := newEngine(t, cfg, &countingMatcher{})

		ev := event.New(nil)
		require.NoError(t, ev.Set("[user_agent][original]", chromeUA))
		assert.True(t, e.Apply(context.Background(), ev))

		v, _ := ev.Get("[user_agent][os][full]")
		assert.Equal(t, "Windows 8.1", v)
		v, _ = ev.Get("[user_agent][original]")
		assert.Equal(t, chromeUA, v)
	})

	t.Run("target equal to source replaces it", func(t *testing.T) {
		cfg := enrich.DefaultConfig("agent")
		cfg.Target = "[agent]"
		e, _ := newEngine(t, cfg, &countingMatcher{})

		ev := event.New(map[string]any{"agent": chromeUA})
		assert.True(t, e.Apply(context.Background(), ev))

		v, ok := ev.Get("[agent][name]")
		assert.True(t, ok)
		assert.Equal(t, "Chrome", v)
	})

	t.Run("missing source leaves event untouched", func(t *testing.T) {
		e, _ := newEngine(t, enrich.DefaultConfig("agent"), &countingMatcher{})

		ev := event.New(map[string]any{"message": "hi"})
		assert.False(t, e.Apply(context.Background(), ev))
		assert.Equal(t, map[string]any{"message": "hi"}, ev.Fields())
	})
}

func TestEngine_Concurrent(t *testing.T) {
	t.Parallel()

	cfg := enrich.DefaultConfig("agent")
	cfg.CacheSize = 8
	e, lookups := newEngine(t, cfg, &countingMatcher{})

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				ua := fmt.Sprintf("%s #%d", chromeUA, (w+i)%20)
				f, ok := e.Classify(context.Background(), ua)
				assert.True(t, ok)
				v, _ := f.Get(enrich.KeyName)
				assert.Equal(t, "Chrome", v)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, lookups.Len(), 8)
}
