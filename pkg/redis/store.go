package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/uakit/pkg/logger"
	"github.com/dmitrymomot/uakit/pkg/useragent"
)

// DefaultKeyPrefix and DefaultTTL apply when no option overrides them.
const (
	DefaultKeyPrefix = "uakit:match:"
	DefaultTTL       = 24 * time.Hour
)

// Client is the subset of the go-redis API a Store needs.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKeyPrefix sets the key prefix.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL sets how long stored matches live. Zero keeps them forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger Redis errors are reported to.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.log = logger.OrDiscard(l) }
}

// Store is a useragent.Matcher that keeps the results of another matcher in
// Redis. Matcher failures are never stored.
type Store struct {
	client Client
	next   useragent.Matcher
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

var _ useragent.Matcher = (*Store)(nil)

// NewStore wraps next with a Redis backed store.
func NewStore(client Client, next useragent.Matcher, opts ...StoreOption) (*Store, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if next == nil {
		return nil, ErrNilMatcher
	}
	s := &Store{
		client: client,
		next:   next,
		prefix: DefaultKeyPrefix,
		ttl:    DefaultTTL,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Key returns the Redis key for ua.
func (s *Store) Key(ua string) string {
	sum := sha256.Sum256([]byte(ua))
	return s.prefix + hex.EncodeToString(sum[:])
}

// Parse returns the stored match for ua, or classifies it with the wrapped
// matcher and stores the result.
func (s *Store) Parse(ctx context.Context, ua string) (useragent.Match, error) {
	key := s.Key(ua)

	if m, ok := s.load(ctx, key); ok {
		return m, nil
	}

	m, err := s.next.Parse(ctx, ua)
	if err != nil {
		return useragent.Match{}, err
	}

	data, err := json.Marshal(m)
	if err != nil {
		s.warn(ctx, "cannot encode match", key, err)
		return m, nil
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.warn(ctx, "cannot store match", key, err)
	}
	return m, nil
}

func (s *Store) load(ctx context.Context, key string) (useragent.Match, bool) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.warn(ctx, "cannot read stored match", key, err)
		}
		return useragent.Match{}, false
	}

	var m useragent.Match
	if err := json.Unmarshal(data, &m); err != nil {
		s.warn(ctx, "cannot decode stored match", key, err)
		return useragent.Match{}, false
	}
	return m, true
}

func (s *Store) warn(ctx context.Context, msg, key string, err error) {
	s.log.WarnContext(ctx, msg,
		logger.Component("redis"),
		slog.String("key", key),
		logger.Error(err),
	)
}
