package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/uakit/pkg/config"
	"github.com/dmitrymomot/uakit/pkg/enrich"
	"github.com/dmitrymomot/uakit/pkg/httpapi"
	"github.com/dmitrymomot/uakit/pkg/logger"
	"github.com/dmitrymomot/uakit/pkg/metrics"
	"github.com/dmitrymomot/uakit/pkg/opensearch"
	"github.com/dmitrymomot/uakit/pkg/redis"
	"github.com/dmitrymomot/uakit/pkg/uaregex"
	"github.com/dmitrymomot/uakit/pkg/useragent"
)

// envPrefix namespaces every environment variable read by the binary.
const envPrefix = "UA_"

const (
	matcherRegex   = "regex"
	matcherKeyword = "keyword"
)

// settings is the full process configuration. Environment variables are
// read first, then explicitly set flags override them.
type settings struct {
	Enrich enrich.Config

	Matcher          string `env:"MATCHER" envDefault:"regex"`
	Regexes          string `env:"REGEXES"`
	SkipInvalidRules bool   `env:"SKIP_INVALID_RULES" envDefault:"false"`
	Strict           bool   `env:"STRICT" envDefault:"false"`
	SingleFlight     bool   `env:"SINGLE_FLIGHT" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Workers   int `env:"WORKERS" envDefault:"4"`
	BatchSize int `env:"BATCH_SIZE" envDefault:"500"`

	RedisEnabled bool `env:"REDIS_ENABLED" envDefault:"false"`
	Redis        redis.Config
	OpenSearch   opensearch.Config
	HTTP         httpapi.Config
	Metrics      metrics.Config
	S3           uaregex.SourceConfig
}

// app holds what every command shares. lookups is the one cache of the
// process; every engine built by the app uses it.
type app struct {
	settings settings
	envFiles []string
	log      *slog.Logger
	lookups  *useragent.LookupCache
	closers  []func() error
}

func (a *app) load(cmd *cobra.Command) error {
	opts := []config.Option{config.WithPrefix(envPrefix)}
	if len(a.envFiles) > 0 {
		opts = append(opts, config.WithEnvFile(a.envFiles...))
	}
	if err := config.Load(&a.settings, opts...); err != nil {
		return err
	}
	if err := a.applyFlags(cmd); err != nil {
		return err
	}

	level, err := logger.ParseLevel(a.settings.LogLevel)
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(a.settings.LogFormat)
	if err != nil {
		return err
	}
	a.log = logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithService("uakit"),
		logger.WithContextExtractors(httpapi.RequestIDExtractor()),
	)

	var lookupOpts []useragent.LookupOption
	if a.settings.SingleFlight {
		lookupOpts = append(lookupOpts, useragent.WithSingleFlight())
	}
	a.lookups, err = useragent.NewLookupCache(a.settings.Enrich.CacheSize, lookupOpts...)
	return err
}

// applyFlags copies every flag the user set into the settings.
func (a *app) applyFlags(cmd *cobra.Command) error {
	fs := cmd.Flags()
	s := &a.settings

	strFlags := map[string]*string{
		"source":       &s.Enrich.Source,
		"target":       &s.Enrich.Target,
		"prefix":       &s.Enrich.Prefix,
		"regexes":      &s.Regexes,
		"matcher":      &s.Matcher,
		"log-level":    &s.LogLevel,
		"log-format":   &s.LogFormat,
		"addr":         &s.HTTP.Addr,
		"index":        &s.OpenSearch.Index,
		"redis-prefix": &s.Redis.KeyPrefix,
	}
	for name, dst := range strFlags {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			v, err := fs.GetString(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}

	boolFlags := map[string]*bool{
		"single-flight":      &s.SingleFlight,
		"strict":             &s.Strict,
		"skip-invalid-rules": &s.SkipInvalidRules,
	}
	for name, dst := range boolFlags {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			v, err := fs.GetBool(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}

	intFlags := map[string]*int{
		"cache-size": &s.Enrich.CacheSize,
		"workers":    &s.Workers,
		"batch-size": &s.BatchSize,
	}
	for name, dst := range intFlags {
		if fs.Lookup(name) != nil && fs.Changed(name) {
			v, err := fs.GetInt(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}

	if fs.Changed("layout") {
		v, _ := fs.GetString("layout")
		mode, err := enrich.ParseMode(v)
		if err != nil {
			return err
		}
		s.Enrich.Layout = mode
	}
	if fs.Changed("redis-url") {
		s.Redis.ConnectionURL, _ = fs.GetString("redis-url")
		s.RedisEnabled = s.Redis.ConnectionURL != ""
	}
	if fs.Lookup("opensearch") != nil && fs.Changed("opensearch") {
		s.OpenSearch.Addresses, _ = fs.GetStringSlice("opensearch")
	}

	if s.Workers < 1 || s.BatchSize < 1 {
		return fmt.Errorf("workers and batch size must be positive, got %d and %d", s.Workers, s.BatchSize)
	}
	return nil
}

// matcher builds the configured matcher, optionally backed by Redis.
// The returned checks report the readiness of external dependencies.
func (a *app) matcher(ctx context.Context) (useragent.Matcher, []httpapi.CheckFunc, error) {
	var (
		m   useragent.Matcher
		err error
	)

	switch strings.ToLower(a.settings.Matcher) {
	case matcherRegex, "":
		opts := []uaregex.Option{
			uaregex.WithLogger(a.log),
			uaregex.WithSourceConfig(a.settings.S3),
		}
		if a.settings.SkipInvalidRules {
			opts = append(opts, uaregex.WithSkipInvalid())
		}
		var p *uaregex.Parser
		if p, err = uaregex.Open(ctx, a.settings.Regexes, opts...); err != nil {
			return nil, nil, err
		}
		rules := p.Rules()
		a.log.Info("pattern database loaded",
			logger.Component("uaregex"),
			slog.String("source", orDefault(a.settings.Regexes, "embedded")),
			slog.Int("user_agent_rules", rules.UserAgent),
			slog.Int("os_rules", rules.OS),
			slog.Int("device_rules", rules.Device),
		)
		m = p
	case matcherKeyword:
		var opts []useragent.KeywordOption
		if a.settings.Strict {
			opts = append(opts, useragent.WithStrict())
		}
		m = useragent.NewKeywordMatcher(opts...)
	default:
		return nil, nil, fmt.Errorf("unknown matcher %q, want %q or %q", a.settings.Matcher, matcherRegex, matcherKeyword)
	}

	if !a.settings.RedisEnabled {
		return m, nil, nil
	}

	client, err := redis.Connect(ctx, a.settings.Redis)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, client.Close)

	store, err := redis.NewStore(client, m,
		redis.WithKeyPrefix(a.settings.Redis.KeyPrefix),
		redis.WithTTL(a.settings.Redis.TTL),
		redis.WithLogger(a.log),
	)
	if err != nil {
		return nil, nil, err
	}
	return store, []httpapi.CheckFunc{redis.Healthcheck(client)}, nil
}

// engine builds an engine on the shared lookup cache.
func (a *app) engine(ctx context.Context, opts ...enrich.Option) (*enrich.Engine, []httpapi.CheckFunc, error) {
	m, checks, err := a.matcher(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]enrich.Option{enrich.WithLogger(a.log)}, opts...)
	e, err := enrich.New(a.settings.Enrich, a.lookups, m, opts...)
	if err != nil {
		return nil, nil, err
	}
	return e, checks, nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
