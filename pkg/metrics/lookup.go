package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/uakit/pkg/useragent"
)

// lookupCollector turns LookupStats snapshots into const metrics at scrape time.
type lookupCollector struct {
	stats func() useragent.LookupStats

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	failures  *prometheus.Desc
	size      *prometheus.Desc
	capacity  *prometheus.Desc
}

func newLookupCollector(ns string, stats func() useragent.LookupStats) *lookupCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(ns, "lookup_cache", name), help, nil, nil)
	}
	return &lookupCollector{
		stats:     stats,
		hits:      desc("hits_total", "Lookups answered from the cache."),
		misses:    desc("misses_total", "Lookups that ran the matcher."),
		evictions: desc("evictions_total", "Entries evicted by capacity or resize."),
		failures:  desc("failures_total", "Matcher failures; these are never cached."),
		size:      desc("entries", "Entries currently cached."),
		capacity:  desc("capacity", "Maximum number of cached entries."),
	}
}

func (c *lookupCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.failures
	ch <- c.size
	ch <- c.capacity
}

func (c *lookupCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.Failures))
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
}
