package enrich_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uakit/pkg/enrich"
	"github.com/dmitrymomot/uakit/pkg/useragent"
)

// chromeMatch is what a matcher returns for chromeUA when it captures only
// three version segments.
var chromeMatch = useragent.Match{
	UserAgent: useragent.Agent{
		Family: "Chrome",
		Major:  useragent.Some("26"),
		Minor:  useragent.Some("0"),
		Patch:  useragent.Some("1410"),
	},
	OS: useragent.OS{
		Family: useragent.Some("Windows"),
		Major:  useragent.Some("8"),
		Minor:  useragent.Some("1"),
	},
	Device: useragent.Some("Other"),
}

const chromeUA = "Mozilla/5.0 (Windows NT 6.3; WOW64) AppleWebKit/537.31 (KHTML, like Gecko) Chrome/26.0.1410.63 Safari/537.31"

func TestNewLayout(t *testing.T) {
	t.Parallel()

	t.Run("flat without target", func(t *testing.T) {
		l, err := enrich.NewLayout(enrich.ModeFlat, "", "")
		require.NoError(t, err)

		p, ok := l.Path(enrich.KeyOSName)
		assert.True(t, ok)
		assert.Equal(t, "[os_name]", p)

		_, ok = l.Path(enrich.KeyOriginal)
		assert.False(t, ok)
	})

	t.Run("flat with target and prefix", func(t *testing.T) {
		l, err := enrich.NewLayout(enrich.ModeFlat, "[http][ua]", "ua_")
		require.NoError(t, err)

		p, _ := l.Path(enrich.KeyName)
		assert.Equal(t, "[http][ua][ua_name]", p)
		p, _ = l.Path(enrich.KeyBuild)
		assert.Equal(t, "[http][ua][ua_build]", p)
	})

	t.Run("nested default target ignores prefix", func(t *testing.T) {
		l, err := enrich.NewLayout(enrich.ModeNested, "", "ignored_")
		require.NoError(t, err)

		p, _ := l.Path(enrich.KeyOSFull)
		assert.Equal(t, "[user_agent][os][full]", p)
		p, _ = l.Path(enrich.KeyDevice)
		assert.Equal(t, "[user_agent][device][name]", p)
		p, _ = l.Path(enrich.KeyOriginal)
		assert.Equal(t, "[user_agent][original]", p)

		_, ok := l.Path(enrich.KeyMajor)
		assert.False(t, ok)
	})

	t.Run("nested custom target", func(t *testing.T) {
		l, err := enrich.NewLayout(enrich.ModeNested, "client", "")
		require.NoError(t, err)
		p, _ := l.Path(enrich.KeyName)
		assert.Equal(t, "[client][name]", p)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := enrich.NewLayout(enrich.Mode("tree"), "", "")
		assert.ErrorIs(t, err, enrich.ErrInvalidLayout)

		_, err = enrich.NewLayout(enrich.ModeFlat, "[bad", "")
		assert.ErrorIs(t, err, enrich.ErrInvalidConfig)
	})
}

func TestLayout_Map(t *testing.T) {
	t.Parallel()

	rec := useragent.Reconstruct(chromeMatch, chromeUA)

	t.Run("flat", func(t *testing.T) {
		l, err := enrich.NewLayout(enrich.ModeFlat, "ua", "")
		require.NoError(t, err)

		f := l.Map(chromeMatch, rec, chromeUA)
		assert.Equal(t, map[string]string{
			"[ua][name]":       "Chrome",
			"[ua][version]":    "26.0.1410.63",
			"[ua][major]":      "26",
			"[ua][minor]":      "0",
			"[ua][patch]":      "1410",
			"[ua][os]":         "Windows",
			"[ua][os_name]":    "Windows",
			"[ua][os_version]": "8.1",
			"[ua][os_full]":    "Windows 8.1",
			"[ua][os_major]":   "8",
			"[ua][os_minor]":   "1",
			"[ua][device]":     "Other",
		}, f.Map())

		_, ok := f.Get(enrich.KeyBuild)
		assert.False(t, ok, "absent segments are not emitted")
	})

	t.Run("nested", func(t *testing.T) {
		l, err := enrich.NewLayout(enrich.ModeNested, "", "")
		require.NoError(t, err)

		f := l.Map(chromeMatch, rec, chromeUA)
		data, err := json.Marshal(f)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"user_agent": {
				"name": "Chrome",
				"version": "26.0.1410.63",
				"original": "`+chromeUA+`",
				"os": {"name": "Windows", "version": "8.1", "full": "Windows 8.1"},
				"device": {"name": "Other"}
			}
		}`, string(data))
	})

	t.Run("order follows layout", func(t *testing.T) {
		l, err := enrich.NewLayout(enrich.ModeFlat, "", "")
		require.NoError(t, err)

		f := l.Map(chromeMatch, rec, chromeUA)
		entries := f.Entries()
		require.NotEmpty(t, entries)
		assert.Equal(t, enrich.KeyName, entries[0].Key)
		assert.Equal(t, enrich.KeyDevice, entries[len(entries)-1].Key)

		v, ok := f.Lookup("[os_full]")
		assert.True(t, ok)
		assert.Equal(t, "Windows 8.1", v)
	})
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]enrich.Mode{
		"":       enrich.ModeFlat,
		"flat":   enrich.ModeFlat,
		"legacy": enrich.ModeFlat,
		"Nested": enrich.ModeNested,
		"ecs":    enrich.ModeNested,
	} {
		got, err := enrich.ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := enrich.ParseMode("tree")
	assert.ErrorIs(t, err, enrich.ErrInvalidLayout)

	var m enrich.Mode
	require.NoError(t, m.UnmarshalText([]byte("ecs")))
	assert.Equal(t, enrich.ModeNested, m)
}
