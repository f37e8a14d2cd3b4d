package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_String(t *testing.T) {
	cfg := New(map[string]any{"name": "graph", "count": 3})

	assert.Equal(t, "graph", cfg.String("name", "fallback"))
	assert.Equal(t, "fallback", cfg.String("missing", "fallback"))
	assert.Equal(t, "fallback", cfg.String("count", "fallback"))
}

func TestConfig_Bool(t *testing.T) {
	cfg := New(map[string]any{"tracing": true, "name": "x"})

	assert.True(t, cfg.Bool("tracing", false))
	assert.False(t, cfg.Bool("missing", false))
	assert.True(t, cfg.Bool("missing", true))
	assert.False(t, cfg.Bool("name", false))
}

func TestConfig_Int(t *testing.T) {
	cfg := New(map[string]any{
		"int":     3,
		"int64":   int64(4),
		"float":   5.0,
		"invalid": "x",
	})

	assert.Equal(t, 3, cfg.Int("int", 0))
	assert.Equal(t, 4, cfg.Int("int64", 0))
	assert.Equal(t, 5, cfg.Int("float", 0))
	assert.Equal(t, 9, cfg.Int("missing", 9))
	assert.Equal(t, 9, cfg.Int("invalid", 9))
}

func TestConfig_Duration(t *testing.T) {
	cfg := New(map[string]any{
		"string":   "1m30s",
		"seconds":  30,
		"fraction": 0.5,
		"native":   2 * time.Second,
		"invalid":  "not a duration",
	})

	assert.Equal(t, 90*time.Second, cfg.Duration("string", 0))
	assert.Equal(t, 30*time.Second, cfg.Duration("seconds", 0))
	assert.Equal(t, 500*time.Millisecond, cfg.Duration("fraction", 0))
	assert.Equal(t, 2*time.Second, cfg.Duration("native", 0))
	assert.Equal(t, time.Minute, cfg.Duration("missing", time.Minute))
	assert.Equal(t, time.Minute, cfg.Duration("invalid", time.Minute))
}

func TestNew_NilMap(t *testing.T) {
	cfg := New(nil)
	assert.Equal(t, "d", cfg.String("anything", "d"))
}

func TestFromYAML(t *testing.T) {
	cfg, err := FromYAML([]byte("tracing: true\ntimings_store: ':memory:'\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Bool("tracing", false))
	assert.Equal(t, ":memory:", cfg.String("timings_store", ""))
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := FromYAML([]byte(":\n  - ]["))
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	cfg, err := FromJSON([]byte(`{"metrics": true, "workers": 4}`))
	require.NoError(t, err)

	assert.True(t, cfg.Bool("metrics", false))
	assert.Equal(t, 4, cfg.Int("workers", 0))
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "conf.yaml")
		require.NoError(t, os.WriteFile(path, []byte("tracing: true\n"), 0o644))

		cfg, err := FromFile(path)
		require.NoError(t, err)
		assert.True(t, cfg.Bool("tracing", false))
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "conf.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"metrics": true}`), 0o644))

		cfg, err := FromFile(path)
		require.NoError(t, err)
		assert.True(t, cfg.Bool("metrics", false))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "conf.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

		_, err := FromFile(path)
		assert.ErrorContains(t, err, "unsupported config file extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := FromFile(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})
}
