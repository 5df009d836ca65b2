package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uakit/pkg/config"
)

type sampleConfig struct {
	Source    string        `env:"SOURCE,required"`
	CacheSize int           `env:"CACHE_SIZE" envDefault:"100000"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"5s"`
	Tags      []string      `env:"TAGS" envSeparator:","`
}

func TestLoad(t *testing.T) {
	t.Run("reads environment and defaults", func(t *testing.T) {
		t.Setenv("SOURCE", "agent")
		t.Setenv("TAGS", "a,b")

		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "agent", cfg.Source)
		assert.Equal(t, 100000, cfg.CacheSize)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, []string{"a", "b"}, cfg.Tags)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Setenv("UA_SOURCE", "[http][user_agent]")
		t.Setenv("UA_CACHE_SIZE", "10")

		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg, config.WithPrefix("UA_")))

		assert.Equal(t, "[http][user_agent]", cfg.Source)
		assert.Equal(t, 10, cfg.CacheSize)
	})

	t.Run("same type loaded twice with different prefixes", func(t *testing.T) {
		t.Setenv("A_SOURCE", "a")
		t.Setenv("B_SOURCE", "b")

		var a, b sampleConfig
		require.NoError(t, config.Load(&a, config.WithPrefix("A_")))
		require.NoError(t, config.Load(&b, config.WithPrefix("B_")))

		assert.Equal(t, "a", a.Source)
		assert.Equal(t, "b", b.Source)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg sampleConfig
		err := config.Load(&cfg, config.WithPrefix("NOPE_"))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("BAD_SOURCE", "x")
		t.Setenv("BAD_CACHE_SIZE", "lots")

		var cfg sampleConfig
		err := config.Load(&cfg, config.WithPrefix("BAD_"))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[sampleConfig](nil), config.ErrNilPointer)
	})
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FILE_SOURCE=from-file\nFILE_CACHE_SIZE=7\n"), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("FILE_SOURCE")
		os.Unsetenv("FILE_CACHE_SIZE")
	})
	t.Setenv("FILE_CACHE_SIZE", "3") // process env wins

	var cfg sampleConfig
	require.NoError(t, config.Load(&cfg, config.WithPrefix("FILE_"), config.WithEnvFile(path)))

	assert.Equal(t, "from-file", cfg.Source)
	assert.Equal(t, 3, cfg.CacheSize)

	err := config.Load(&cfg, config.WithEnvFile(filepath.Join(dir, "missing.env")))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestMustLoad(t *testing.T) {
	assert.Panics(t, func() {
		var cfg sampleConfig
		config.MustLoad(&cfg, config.WithPrefix("MISSING_"))
	})
}
