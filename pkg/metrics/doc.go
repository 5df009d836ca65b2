// Package metrics exposes enrichment and lookup cache metrics in the
// Prometheus format.
//
// A Collector owns a private registry. It implements enrich.Recorder, so it
// can be passed to enrich.WithRecorder, and it can track a
// useragent.LookupCache whose counters are read on every scrape:
//
//	m, err := metrics.New(metrics.WithNamespace("uakit"))
//	if err != nil {
//		return err
//	}
//	if err := m.TrackLookups(lookups); err != nil {
//		return err
//	}
//	engine, _ := enrich.New(cfg, lookups, matcher, enrich.WithRecorder(m))
//	router.Handle("/metrics", m.Handler())
package metrics
