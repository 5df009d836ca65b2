package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/uakit/pkg/enrich"
	"github.com/dmitrymomot/uakit/pkg/useragent"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "uakit"

// Config holds metrics settings loadable from the environment.
type Config struct {
	Namespace      string `env:"METRICS_NAMESPACE" envDefault:"uakit"`
	RuntimeMetrics bool   `env:"METRICS_RUNTIME" envDefault:"true"`
}

// Option configures a Collector.
type Option func(*options)

type options struct {
	namespace string
	runtime   bool
	buckets   []float64
}

// WithNamespace sets the metric name prefix.
func WithNamespace(ns string) Option {
	return func(o *options) {
		if ns != "" {
			o.namespace = ns
		}
	}
}

// WithRuntimeMetrics also registers the Go runtime and process collectors.
func WithRuntimeMetrics() Option {
	return func(o *options) { o.runtime = true }
}

// WithBuckets overrides the classification latency histogram buckets, in seconds.
func WithBuckets(b ...float64) Option {
	return func(o *options) {
		if len(b) > 0 {
			o.buckets = b
		}
	}
}

// FromConfig converts cfg into options.
func FromConfig(cfg Config) []Option {
	opts := []Option{WithNamespace(cfg.Namespace)}
	if cfg.RuntimeMetrics {
		opts = append(opts, WithRuntimeMetrics())
	}
	return opts
}

// Collector records classification and sink metrics on a private registry.
type Collector struct {
	namespace string
	registry  *prometheus.Registry

	classifications *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	indexed         *prometheus.CounterVec
}

var _ enrich.Recorder = (*Collector)(nil)

// New creates a Collector and registers its metrics.
func New(opts ...Option) (*Collector, error) {
	o := &options{
		namespace: DefaultNamespace,
		buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
	}
	for _, opt := range opts {
		opt(o)
	}

	c := &Collector{
		namespace: o.namespace,
		registry:  prometheus.NewRegistry(),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "classifications_total",
			Help:      "User agent classifications by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "classification_duration_seconds",
			Help:      "Time spent classifying one user agent.",
			Buckets:   o.buckets,
		}, []string{"outcome"}),
		indexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "sink_documents_total",
			Help:      "Documents written to the event sink by result.",
		}, []string{"result"}),
	}

	toRegister := []prometheus.Collector{c.classifications, c.latency, c.indexed}
	if o.runtime {
		toRegister = append(toRegister,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	for _, col := range toRegister {
		if err := c.registry.Register(col); err != nil {
			return nil, errors.Join(ErrRegisterMetrics, err)
		}
	}

	// Pre-create series so dashboards see zeros before the first event.
	for _, out := range []enrich.Outcome{enrich.OutcomeMatched, enrich.OutcomeEmpty, enrich.OutcomeFailed} {
		c.classifications.WithLabelValues(string(out))
	}

	return c, nil
}

// ObserveClassify implements enrich.Recorder.
func (c *Collector) ObserveClassify(outcome enrich.Outcome, d time.Duration) {
	c.classifications.WithLabelValues(string(outcome)).Inc()
	c.latency.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

// ObserveSink records the result of one bulk write.
func (c *Collector) ObserveSink(indexed, failed int) {
	c.indexed.WithLabelValues("indexed").Add(float64(indexed))
	c.indexed.WithLabelValues("failed").Add(float64(failed))
}

// TrackLookups exports the counters of l, read on every scrape.
func (c *Collector) TrackLookups(l *useragent.LookupCache) error {
	if l == nil {
		return ErrNilLookupCache
	}
	if err := c.registry.Register(newLookupCollector(c.namespace, l.Stats)); err != nil {
		return errors.Join(ErrRegisterMetrics, err)
	}
	return nil
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
