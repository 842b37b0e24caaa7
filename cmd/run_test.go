package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-risk/y14m-cli/internal/config"
	"github.com/meridian-risk/y14m-cli/internal/dataset"
)

// testConfig installs a known config for command helpers.
func testConfig(t *testing.T) {
	t.Helper()
	orig := cfg
	cfg = &config.Config{
		Reporting: config.ReportingConfig{
			Date:         "2025-03-31",
			Product:      "CCARD",
			ControlTotal: 20_000_000,
			TolerancePct: 5,
		},
		Server: config.ServerConfig{
			Port:           8084,
			RateLimitRPS:   100,
			RateLimitBurst: 100,
		},
	}
	t.Cleanup(func() { cfg = orig })
}

func TestParseMappings(t *testing.T) {
	m, err := parseMappings([]string{"pay=MonthlyIncome", "ratio=RevolvingUtil"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"pay":   "MonthlyIncome",
		"ratio": "RevolvingUtil",
	}, m)
}

func TestParseMappings_Empty(t *testing.T) {
	m, err := parseMappings(nil)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestParseMappings_Invalid(t *testing.T) {
	for _, bad := range []string{"no-equals", "=Canonical", "raw="} {
		_, err := parseMappings([]string{bad})
		require.Error(t, err, "value %q", bad)
		assert.Contains(t, err.Error(), "invalid --map value")
	}
}

func TestBuildRunConfig_Defaults(t *testing.T) {
	testConfig(t)

	rc, err := buildRunConfig("", "", "", nil, false, "", "")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-31", rc.date.Format("2006-01-02"))
	assert.Equal(t, dataset.ProductCCard, rc.product)
	assert.Equal(t, "20000000", rc.control.String())
	assert.InDelta(t, 5, rc.tolerancePct, 0.001)
	assert.False(t, rc.clipUtil)
}

func TestBuildRunConfig_FlagsOverride(t *testing.T) {
	testConfig(t)

	rc, err := buildRunConfig("2025-06-30", "auto", "12985.50", []string{"pay=MonthlyIncome"}, true, "Q2", "")
	require.NoError(t, err)

	assert.Equal(t, "2025-06-30", rc.date.Format("2006-01-02"))
	assert.Equal(t, dataset.ProductAuto, rc.product)
	assert.Equal(t, "12985.5", rc.control.String())
	assert.Equal(t, map[string]string{"pay": "MonthlyIncome"}, rc.overrides)
	assert.True(t, rc.clipUtil)
	assert.Equal(t, "Q2", rc.xlsxSheet)
}

func TestBuildRunConfig_BadDate(t *testing.T) {
	testConfig(t)

	_, err := buildRunConfig("31/03/2025", "", "", nil, false, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse reporting date")
}

func TestBuildRunConfig_NegativeControl(t *testing.T) {
	testConfig(t)

	_, err := buildRunConfig("", "", "-5", nil, false, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "control total must be non-negative")
}

func TestBuildRunConfig_SynonymsFile(t *testing.T) {
	testConfig(t)

	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("synonyms:\n  MonthlyIncome:\n    - Gross Pay\n"), 0o644))

	rc, err := buildRunConfig("", "", "", nil, false, "", path)
	require.NoError(t, err)
	assert.Equal(t, "MonthlyIncome", rc.extraSynonyms["grosspay"])
}

func TestRunFile_EndToEnd(t *testing.T) {
	testConfig(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.csv")
	csv := "income,utilization,dpd\n5000,0.40,0\n6000,0.50,10\n7000,0.30,0\n5500,0.45,0\n6200,0.55,5\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	rc, err := buildRunConfig("", "", "12985", nil, false, "", "")
	require.NoError(t, err)

	res, err := runFile(path, rc)
	require.NoError(t, err)

	assert.Equal(t, 5, res.summary.AccountCount)
	assert.Equal(t, "12985.00", res.summary.TotalBalance.StringFixed(2))
	assert.Contains(t, res.narrative, "Variance within acceptable tolerance.")
	assert.True(t, res.processed.HasColumn(dataset.ColLineageHash))
}

func TestRunFile_MissingInput(t *testing.T) {
	testConfig(t)

	rc, err := buildRunConfig("", "", "", nil, false, "", "")
	require.NoError(t, err)

	_, err = runFile(filepath.Join(t.TempDir(), "missing.csv"), rc)
	assert.Error(t, err)
}
