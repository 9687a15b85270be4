package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/config"
)

func TestLookups(t *testing.T) {
	cfg := config.New(map[string]any{
		"url_root": "/notes",
		"wait":     true,
		"count":    3,
		"tags":     []any{"a", "b"},
		"mixed":    []any{"a", 1},
		"defaults": map[string]any{"status": "draft"},
	})

	assert.Equal(t, "/notes", cfg.String("url_root", ""))
	assert.Equal(t, "fallback", cfg.String("count", "fallback"))
	assert.Equal(t, "fallback", cfg.String("missing", "fallback"))

	assert.True(t, cfg.Bool("wait", false))
	assert.True(t, cfg.Bool("url_root", true))

	assert.Equal(t, []string{"a", "b"}, cfg.StringSlice("tags", nil))
	assert.Equal(t, []string{"x"}, cfg.StringSlice("mixed", []string{"x"}))
	assert.Nil(t, cfg.StringSlice("missing", nil))

	assert.Equal(t, map[string]any{"status": "draft"}, cfg.Map("defaults"))
	assert.Nil(t, cfg.Map("url_root"))

	assert.Equal(t, 3, cfg.Value("count"))
	assert.True(t, cfg.Has("wait"))
	assert.False(t, cfg.Has("nope"))
	assert.Equal(t, []string{"count", "defaults", "mixed", "tags", "url_root", "wait"}, cfg.Keys())
}

func TestNewNil(t *testing.T) {
	cfg := config.New(nil)

	assert.Empty(t, cfg.Keys())
	assert.Equal(t, "d", cfg.String("k", "d"))
}

func TestDuration(t *testing.T) {
	cfg := config.New(map[string]any{
		"text":    "1m30s",
		"seconds": 5,
		"float":   0.5,
		"bad":     "soon",
		"other":   true,
	})

	tests := []struct {
		key      string
		expected time.Duration
	}{
		{"text", 90 * time.Second},
		{"seconds", 5 * time.Second},
		{"float", 500 * time.Millisecond},
		{"bad", time.Hour},
		{"other", time.Hour},
		{"missing", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, cfg.Duration(tt.key, time.Hour))
		})
	}
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte("url_root: /notes\ntimeout: 2s\nrequired: [title]\n"))
	require.NoError(t, err)
	assert.Equal(t, "/notes", cfg.String("url_root", ""))
	assert.Equal(t, 2*time.Second, cfg.Duration("timeout", 0))
	assert.Equal(t, []string{"title"}, cfg.StringSlice("required", nil))

	cfg, err = config.Parse([]byte(`{"pages": 2, "wait": true}`))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Value("pages"))
	assert.True(t, cfg.Bool("wait", false))

	cfg, err = config.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Keys())

	_, err = config.Parse([]byte("a: [unclosed"))
	assert.ErrorContains(t, err, "decode document")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	cfg, err := config.Load(write("a.yml", "k: v\n"))
	require.NoError(t, err)
	assert.Equal(t, "v", cfg.String("k", ""))

	cfg, err = config.Load(write("b.JSON", `{"k": "w"}`))
	require.NoError(t, err)
	assert.Equal(t, "w", cfg.String("k", ""))

	_, err = config.Load(write("c.toml", "k = 1"))
	assert.ErrorContains(t, err, `unsupported document type ".toml"`)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFixture(t *testing.T) {
	cfg, err := config.Parse([]byte(`
url_root: /notes
id_attribute: _id
required: [title]
wait: true
timeout: 3s
defaults:
  status: draft
attributes:
  title: hello
`))
	require.NoError(t, err)

	f := config.ParseFixture(cfg)

	assert.Equal(t, "/notes", f.URLRoot)
	assert.Equal(t, "_id", f.IDAttribute)
	assert.Equal(t, []string{"title"}, f.Required)
	assert.True(t, f.Wait)
	assert.Equal(t, 3*time.Second, f.Timeout)
	assert.Equal(t, map[string]any{"status": "draft"}, f.Defaults)
	assert.Equal(t, map[string]any{"title": "hello"}, f.Attributes)
}

func TestParseFixtureFlat(t *testing.T) {
	f := config.ParseFixture(config.New(map[string]any{
		"url_root": "/notes",
		"title":    "flat",
		"pages":    2,
	}))

	assert.Equal(t, "/notes", f.URLRoot)
	assert.Equal(t, config.DefaultIDAttribute, f.IDAttribute)
	assert.Equal(t, config.DefaultTimeout, f.Timeout)
	assert.Equal(t, map[string]any{"title": "flat", "pages": 2}, f.Attributes)
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"attributes": {"title": "x"}}`), 0o600))

	f, err := config.LoadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, "x", f.Attributes["title"])

	_, err = config.LoadFixture(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "load fixture")
}

func TestFixtureMissing(t *testing.T) {
	f := config.Fixture{Required: []string{"title", "body", "owner"}}

	missing := f.Missing(map[string]any{"title": "t", "body": ""})

	assert.Equal(t, []string{"body", "owner"}, missing)
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("RECORDPROXY_STORE", "")
	t.Setenv("RECORDPROXY_DB", "")
	t.Setenv("RECORDPROXY_URL_ROOT", "")
	t.Setenv("RECORDPROXY_LOG_LEVEL", "")
	os.Unsetenv("RECORDPROXY_STORE")
	os.Unsetenv("RECORDPROXY_DB")
	os.Unsetenv("RECORDPROXY_URL_ROOT")
	os.Unsetenv("RECORDPROXY_LOG_LEVEL")

	env, err := config.LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", env.Store)
	assert.Equal(t, "recordproxy.db", env.DB)
	assert.Equal(t, "/records", env.URLRoot)
	assert.Equal(t, "warn", env.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RECORDPROXY_STORE", "memory")
	t.Setenv("RECORDPROXY_URL_ROOT", "/notes")

	env, err := config.LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "memory", env.Store)
	assert.Equal(t, "/notes", env.URLRoot)
}

func TestParseEnvError(t *testing.T) {
	var target struct {
		Retries int `env:"RECORDPROXY_TEST_RETRIES"`
	}
	t.Setenv("RECORDPROXY_TEST_RETRIES", "many")

	err := config.ParseEnv(&target)
	assert.ErrorContains(t, err, "parse env:")
}
