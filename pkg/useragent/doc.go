// Package useragent classifies HTTP User-Agent strings into browser, operating
// system and device identity, and caches the results.
//
// A Matcher turns a raw user-agent string into a Match: a browser family with
// up to four version segments, an OS family with up to four version segments
// and a device label. Every segment is an optional Field, so an absent value
// is never confused with an empty string.
//
// From a Match the package derives composite values with pure functions:
//
//   - Version joins the browser segments ("26.0.1410.63") and can recover a
//     build number from the source text when the matcher did not capture it
//   - OSVersion joins OS segments, using a space after a non-numeric major
//     ("8.1" but "Vista SP2")
//   - OSFull prefixes the OS version with the family ("Windows 8.1")
//
// # Architecture
//
//	┌───────────────┐ miss ┌──────────┐
//	│  LookupCache  │─────▶│ Matcher  │ (uaregex.Parser, KeywordMatcher, ...)
//	└───────────────┘      └──────────┘
//	        │ Match
//	        ▼
//	┌───────────────┐
//	│  Reconstruct  │──► Version, OSVersion, OSFull
//	└───────────────┘
//
// LookupCache is a bounded LRU map from exact user-agent strings to Match
// values, backed by pkg/cache. It is designed to be created once and shared by
// every consumer in the process. Match holds only strings and is stored by
// value, so no caller can modify what the cache holds.
//
// # Usage
//
//	lookups, err := useragent.NewLookupCache(100_000)
//	if err != nil {
//		return err
//	}
//
//	matcher := useragent.NewKeywordMatcher()
//
//	m, err := lookups.GetOrPopulate(ctx, r.UserAgent(), matcher.Parse)
//	if err != nil {
//		// errors.Is(err, useragent.ErrParseFailure)
//	}
//
//	rec := useragent.Reconstruct(m, r.UserAgent())
//	if v, ok := rec.Version.Get(); ok {
//		log.Printf("browser=%s/%s", m.UserAgent.Family, v)
//	}
//
// # Concurrency
//
// LookupCache protects only its own table. Concurrent misses on the same key
// each call populate and the last insert wins; pass WithSingleFlight to run
// populate once per key instead. Matchers that are not safe for concurrent use
// must be wrapped with Serialize.
//
// # Error Handling
//
// Matchers report failures as *ParseError, which carries the offending input
// and matches ErrParseFailure with errors.Is. LookupCache never stores a
// failed result. ErrInvalidCapacity is returned for non-positive capacities.
package useragent
