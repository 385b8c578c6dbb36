package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Taxonomy.Path = "/etc/txparse/taxonomy.yaml"
	cfg.Receipt.HeaderTokens = 20

	path := filepath.Join(t.TempDir(), "txparse.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Logging, got.Logging)
	assert.Equal(t, cfg.Server.Addr, got.Server.Addr)
	assert.Equal(t, "/etc/txparse/taxonomy.yaml", got.Taxonomy.Path)
	assert.InDelta(t, 0.3, got.Classifier.MatchThreshold, 0.001)
	assert.InDelta(t, 0.4, got.Classifier.AcceptThreshold, 0.001)
	assert.Equal(t, 20, got.Receipt.HeaderTokens)
	assert.InDelta(t, 200000, got.Receipt.MaxAmount, 0.001)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Taxonomy.Path)
	assert.InDelta(t, 0.3, cfg.Classifier.MatchThreshold, 0.001)
	assert.InDelta(t, 0.4, cfg.Classifier.AcceptThreshold, 0.001)
	assert.Equal(t, 15, cfg.Receipt.HeaderTokens)
	assert.InDelta(t, 20, cfg.Receipt.LineGap, 0.001)
	assert.InDelta(t, 0.6, cfg.Review.MinConfidence, 0.001)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15, cfg.Receipt.HeaderTokens)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TAXONOMY_DIR", "/data")
	path := filepath.Join(t.TempDir(), "txparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte("taxonomy:\n  path: ${TAXONOMY_DIR}/tx.yaml\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/tx.yaml", cfg.Taxonomy.Path)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault_EnvOverrides(t *testing.T) {
	t.Setenv("TXPARSE_LOG_LEVEL", "error")
	t.Setenv("TXPARSE_ADDR", "127.0.0.1:9999")
	t.Setenv("TXPARSE_MIN_CONFIDENCE", "0.75")

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	assert.InDelta(t, 0.75, cfg.Review.MinConfidence, 0.001)
}

func TestLoadOrDefault_BadEnvFloatIgnored(t *testing.T) {
	t.Setenv("TXPARSE_MIN_CONFIDENCE", "lots")

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, cfg.Review.MinConfidence, 0.001)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txparse.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "level: info")
	assert.Contains(t, contents, "match_threshold: 0.3")
	assert.Contains(t, contents, "header_tokens: 15")
	assert.NotContains(t, contents, "path:", "empty taxonomy path is omitted")
}
