package useragent_test

import (
	"context"
	"testing"

	"github.com/dmitrymomot/uakit/pkg/useragent"
)

var (
	benchMatch useragent.Match
	benchRec   useragent.Reconstructed
)

func BenchmarkKeywordMatcher_Parse(b *testing.B) {
	m := useragent.NewKeywordMatcher()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchMatch, _ = m.Parse(ctx, chromeWindowsUA)
	}
}

func BenchmarkReconstruct(b *testing.B) {
	m, _ := useragent.NewKeywordMatcher().Parse(context.Background(), chromeWindowsUA)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchRec = useragent.Reconstruct(m, chromeWindowsUA)
	}
}

func BenchmarkLookupCache_Hit(b *testing.B) {
	c, _ := useragent.NewLookupCache(1024)
	m := useragent.NewKeywordMatcher()
	ctx := context.Background()
	_, _ = c.GetOrPopulate(ctx, chromeWindowsUA, m.Parse)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchMatch, _ = c.GetOrPopulate(ctx, chromeWindowsUA, m.Parse)
	}
}
