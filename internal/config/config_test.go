package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2025-03-31", cfg.Reporting.Date)
	assert.Equal(t, "CCARD", cfg.Reporting.Product)
	assert.InDelta(t, 20_000_000, cfg.Reporting.ControlTotal, 0.001)
	assert.InDelta(t, 5, cfg.Reporting.TolerancePct, 0.001)
	assert.Empty(t, cfg.Resolver.SynonymsFile)
	assert.Equal(t, 8084, cfg.Server.Port)
	assert.InDelta(t, 5, cfg.Server.RateLimitRPS, 0.001)
	assert.Equal(t, 10, cfg.Server.RateLimitBurst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
reporting:
  date: 2025-06-30
  product: AUTO
  control_total: 5000000
  tolerance_pct: 2.5
resolver:
  synonyms_file: synonyms.yaml
server:
  port: 9090
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "2025-06-30", cfg.Reporting.Date)
	assert.Equal(t, "AUTO", cfg.Reporting.Product)
	assert.InDelta(t, 5_000_000, cfg.Reporting.ControlTotal, 0.001)
	assert.InDelta(t, 2.5, cfg.Reporting.TolerancePct, 0.001)
	assert.Equal(t, "synonyms.yaml", cfg.Resolver.SynonymsFile)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset values keep their defaults.
	assert.Equal(t, 10, cfg.Server.RateLimitBurst)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("Y14M_REPORTING_PRODUCT", "MORTGAGE")
	t.Setenv("Y14M_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "MORTGAGE", cfg.Reporting.Product)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
