// Package enrich turns the user-agent string found in a log event into
// structured identity fields and writes them back into the event.
//
// An Engine combines three parts:
//
//   - a useragent.LookupCache shared by every engine in the process
//   - a useragent.Matcher that classifies cache misses
//   - a Layout chosen once from Config that maps logical keys to field references
//
// # Layouts
//
// ModeFlat writes every value as a sibling under the target, with an
// optional name prefix:
//
//	[ua][name] [ua][version] [ua][major] [ua][minor] [ua][patch] [ua][build]
//	[ua][os] [ua][os_name] [ua][os_version] [ua][os_full]
//	[ua][os_major] [ua][os_minor] [ua][os_patch] [ua][device]
//
// ModeNested groups values the ECS way under [user_agent] by default:
//
//	[user_agent][name] [user_agent][version] [user_agent][original]
//	[user_agent][os][name] [user_agent][os][version] [user_agent][os][full]
//	[user_agent][device][name]
//
// Values that the matcher did not produce are not written.
//
// # Usage
//
//	lookups, _ := useragent.NewLookupCache(enrich.DefaultCacheSize)
//	engine, err := enrich.New(enrich.DefaultConfig("agent"), lookups, matcher,
//		enrich.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	ev, _ := event.Parse(line)
//	engine.Apply(ctx, ev)
//
// # Failure Handling
//
// Classify and Apply never return errors and never panic because of the
// matcher: empty input is a silent no-op, parse failures and matcher panics
// are logged with the offending input and reported as "no result". Failed
// lookups are not cached. Lookup is the typed variant that returns
// useragent.ErrEmptyUserAgent or a *useragent.ParseError instead.
//
// Every returned value is a private copy, so callers may keep or mutate
// results without affecting later lookups.
package enrich
