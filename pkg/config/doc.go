// Package config loads application configuration from environment variables
// into tagged Go structs.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - the optional `.env` file in the working directory is read once per process
//   - WithEnvFile reads additional dotenv files for a single call
//   - WithPrefix namespaces every key of a struct, so one struct type can be
//     loaded several times with different prefixes
//   - MustLoad panics on failure for configuration the process cannot start without
//
// # Usage
//
//	type Config struct {
//		Source    string `env:"SOURCE,required"`
//		CacheSize int    `env:"CACHE_SIZE" envDefault:"100000"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("UA_")); err != nil {
//		// errors.Is(err, config.ErrParsingConfig)
//	}
//
// Values already present in the process environment always take precedence
// over values from dotenv files.
package config
