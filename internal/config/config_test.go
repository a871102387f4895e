package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koron-go/gqlcost/v2"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gqlcost.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
listen: 127.0.0.1:9000
schema:
  - schema.graphql
maximumCost: 500
defaultCost: 1
complexityRange:
  min: 1
  max: 10
costMap:
  Query:
    users:
      complexity: 2
      useMultipliers: true
      multipliers: [first, filter.limit]
      defaults:
        first: 10
logFormat: json
documentCacheSize: 0
shutdownTimeout: 3s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, []string{"schema.graphql"}, cfg.Schema)
	assert.Equal(t, 500, cfg.MaximumCost)
	assert.Equal(t, 1, cfg.DefaultCost)
	assert.Equal(t, gqlcost.ComplexityRange{Min: 1, Max: 10}, cfg.ComplexityRange)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0, cfg.DocumentCacheSize)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)

	users := cfg.CostMap["Query"]["users"]
	assert.Equal(t, gqlcost.Int(2), users.Complexity)
	require.NotNil(t, users.UseMultipliers)
	assert.True(t, *users.UseMultipliers)
	assert.Equal(t, []string{"first", "filter.limit"}, users.Multipliers)
	assert.Equal(t, map[string]int{"first": 10}, users.Defaults)

	opts := cfg.AnalysisOptions(nil)
	assert.Equal(t, 500, opts.MaximumCost)
	assert.Equal(t, cfg.CostMap, opts.CostMap)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GQLCOST_LISTEN", ":9999")
	t.Setenv("GQLCOST_MAXIMUM_COST", "42")
	t.Setenv("GQLCOST_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "maximumCost: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, 42, cfg.MaximumCost)
	assert.Equal(t, "debug", cfg.LogLevel)

	t.Setenv("GQLCOST_MAXIMUM_COST", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "unknownKey: 1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "maximumCost: 0\n"))
	require.Error(t, err)
	assert.Equal(t, gqlcost.ErrInvalidMaximumCost, errors.Cause(err))

	_, err = Load(writeConfig(t, "complexityRange: {min: 5, max: 5}\n"))
	require.Error(t, err)
	assert.Equal(t, gqlcost.ErrInvalidComplexityRange, errors.Cause(err))

	_, err = Load(writeConfig(t, "documentCacheSize: -1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "shutdownTimeout: 0s\n"))
	assert.Error(t, err)
}
