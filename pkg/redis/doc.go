// Package redis connects to Redis and provides a second-level store for
// user-agent classification results.
//
// The in-process useragent.LookupCache is per instance. Store wraps a
// useragent.Matcher so that instances sharing a Redis server also share
// classification work:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store, err := redis.NewStore(client, parser,
//		redis.WithKeyPrefix(cfg.KeyPrefix),
//		redis.WithTTL(cfg.TTL),
//		redis.WithLogger(log),
//	)
//
// Keys are the prefix followed by the hex SHA-256 of the user-agent string,
// values are the JSON encoded useragent.Match. Redis is an optimisation only:
// read and write errors are logged and the wrapped matcher is used directly.
//
// Healthcheck returns a probe suitable for readiness endpoints.
package redis
