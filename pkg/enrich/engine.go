package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/uakit/pkg/logger"
	"github.com/dmitrymomot/uakit/pkg/useragent"
)

// Outcome is the result class of one Classify call.
type Outcome string

const (
	OutcomeMatched Outcome = "matched"
	OutcomeEmpty   Outcome = "empty"
	OutcomeFailed  Outcome = "failed"
)

// Recorder observes classification outcomes, typically for metrics.
type Recorder interface {
	ObserveClassify(outcome Outcome, d time.Duration)
}

// Record is the event an Engine reads from and writes to.
// *event.Event implements it.
type Record interface {
	Get(ref string) (any, bool)
	Set(ref string, v any) error
	Remove(ref string) (any, bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger failures are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = logger.OrDiscard(l) }
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.rec = r
		}
	}
}

// Engine classifies user agents through a shared LookupCache and lays the
// result out as event fields. It is safe for concurrent use.
type Engine struct {
	cfg          Config
	lookups      *useragent.LookupCache
	matcher      useragent.Matcher
	layout       Layout
	removeSource bool
	log          *slog.Logger
	rec          Recorder
}

// New returns an Engine for cfg. lookups is the process-wide cache shared by
// every engine; when cfg.CacheSize differs from its capacity the shared
// cache is resized for all holders.
func New(cfg Config, lookups *useragent.LookupCache, matcher useragent.Matcher, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lookups == nil {
		return nil, ErrNilLookupCache
	}
	if matcher == nil {
		return nil, ErrNilMatcher
	}

	layout, err := NewLayout(cfg.Layout, cfg.Target, cfg.Prefix)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:          cfg,
		lookups:      lookups,
		matcher:      matcher,
		layout:       layout,
		removeSource: cfg.Target != "" && sameRef(cfg.Target, cfg.Source),
		log:          logger.Discard(),
		rec:          nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if capacity := lookups.Capacity(); capacity != cfg.CacheSize {
		if err := lookups.Resize(cfg.CacheSize); err != nil {
			return nil, err
		}
		e.log.Info("lookup cache resized",
			logger.Component("enrich"),
			slog.Int("previous_capacity", capacity),
			logger.CacheCapacity(cfg.CacheSize),
		)
	}

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Layout returns the layout the engine writes with.
func (e *Engine) Layout() Layout { return e.layout }

// Classify returns the fields for source, the value found in the source
// field. nil and "" give no result without touching the cache. For arrays
// only the first element is used; other non-string values are treated as
// absent. Parse failures are logged and reported as no result.
func (e *Engine) Classify(ctx context.Context, source any) (Fields, bool) {
	start := time.Now()

	ua, ok := sourceText(source)
	if !ok {
		e.rec.ObserveClassify(OutcomeEmpty, time.Since(start))
		return Fields{}, false
	}

	f, err := e.Lookup(ctx, ua)
	if err != nil {
		e.log.ErrorContext(ctx, "user agent classification failed",
			logger.Component("enrich"),
			logger.SourceField(e.cfg.Source),
			logger.UserAgent(ua),
			logger.Error(err),
		)
		e.rec.ObserveClassify(OutcomeFailed, time.Since(start))
		return Fields{}, false
	}

	e.rec.ObserveClassify(OutcomeMatched, time.Since(start))
	return f, true
}

// Lookup classifies ua and returns its fields, or useragent.ErrEmptyUserAgent
// for empty input and a *useragent.ParseError when the matcher fails.
// Nothing is logged.
func (e *Engine) Lookup(ctx context.Context, ua string) (Fields, error) {
	if ua == "" {
		return Fields{}, useragent.ErrEmptyUserAgent
	}
	m, err := e.lookups.GetOrPopulate(ctx, ua, e.parse)
	if err != nil {
		return Fields{}, err
	}
	return e.layout.Map(m, useragent.Reconstruct(m, ua), ua), nil
}

// Apply classifies the source field of rec and writes the result into it.
// When the target equals the source, the source field is replaced.
// It reports whether any field was written.
func (e *Engine) Apply(ctx context.Context, rec Record) bool {
	src, _ := rec.Get(e.cfg.Source)
	fields, ok := e.Classify(ctx, src)
	if !ok {
		return false
	}

	if e.removeSource {
		rec.Remove(e.cfg.Source)
	}

	written := false
	for _, en := range fields.entries {
		if err := rec.Set(en.Path, en.Value); err != nil {
			e.log.WarnContext(ctx, "cannot write user agent field",
				logger.Component("enrich"),
				slog.String("field", en.Path),
				logger.Error(err),
			)
			continue
		}
		written = true
	}
	return written
}

// parse calls the matcher, turning errors and panics into *useragent.ParseError.
func (e *Engine) parse(ctx context.Context, ua string) (m useragent.Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = useragent.Match{}, &useragent.ParseError{Input: ua, Err: fmt.Errorf("matcher panic: %v", r)}
		}
	}()

	m, err = e.matcher.Parse(ctx, ua)
	if err != nil {
		return useragent.Match{}, useragent.AsParseError(ua, err)
	}
	return m, nil
}

func sourceText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, s != ""
	case []string:
		if len(s) == 0 {
			return "", false
		}
		return s[0], s[0] != ""
	case []any:
		if len(s) == 0 {
			return "", false
		}
		str, ok := s[0].(string)
		return str, ok && str != ""
	}
	return "", false
}

type nopRecorder struct{}

func (nopRecorder) ObserveClassify(Outcome, time.Duration) {}
