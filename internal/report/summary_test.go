package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
	"github.com/meridian-risk/y14m-cli/internal/pipeline"
)

// processedSample runs the pipeline over the built-in demo portfolio.
func processedSample(t *testing.T) dataset.Dataset {
	t.Helper()

	out, err := pipeline.Process(dataset.Sample(), pipeline.Options{
		ReportingDate: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		ProductCode:   dataset.ProductCCard,
	})
	require.NoError(t, err)
	return out
}

func TestSummarize_SampleMatchingControl(t *testing.T) {
	ds := processedSample(t)

	// total = 2000 + 3000 + 2100 + 2475 + 3410 = 12985
	control := decimal.RequireFromString("12985")
	s, err := Summarize(ds, control, DefaultTolerancePct)
	require.NoError(t, err)

	assert.Equal(t, 5, s.AccountCount)
	assert.Equal(t, "12985.00", s.TotalBalance.StringFixed(2))
	// mean util = (0.40+0.50+0.30+0.45+0.55)/5 = 0.44
	assert.Equal(t, "0.44", s.MeanUtilization.StringFixed(2))
	// 2 of 5 rows have DPD > 0
	assert.Equal(t, "0.40", s.DelinquencyRate.StringFixed(2))
	assert.Equal(t, "0.00", s.VarianceAmount.StringFixed(2))
	assert.Equal(t, "0.00", s.VariancePct.StringFixed(2))
	assert.True(t, s.VariancePct.IsZero())
	assert.False(t, s.ExceedsTolerance)
	assert.Equal(t, "2025-03-31", s.ReportingDate)
	assert.Equal(t, dataset.ProductCCard, s.ProductCode)
}

func TestSummarize_LargeControlVariance(t *testing.T) {
	ds := processedSample(t)

	// variance = |10,000,000 - 12,985| = 9,987,015
	// pct = 9,987,015 / 10,000,000 * 100 = 99.87015
	control := decimal.NewFromInt(10_000_000)
	s, err := Summarize(ds, control, DefaultTolerancePct)
	require.NoError(t, err)

	assert.Equal(t, "9987015.00", s.VarianceAmount.StringFixed(2))
	assert.Equal(t, "99.87", s.VariancePct.StringFixed(2))
	assert.True(t, s.ExceedsTolerance)
}

func TestSummarize_ZeroControlGuard(t *testing.T) {
	ds := processedSample(t)

	s, err := Summarize(ds, decimal.Zero, DefaultTolerancePct)
	require.NoError(t, err)

	// Variance percentage is defined as 0 when the control total is 0.
	assert.True(t, s.VariancePct.IsZero())
	assert.False(t, s.ExceedsTolerance)
	assert.Equal(t, "12985.00", s.VarianceAmount.StringFixed(2))
}

func TestSummarize_VarianceNonNegative(t *testing.T) {
	ds := processedSample(t)

	// Control below the total: variance is still positive.
	s, err := Summarize(ds, decimal.NewFromInt(10_000), DefaultTolerancePct)
	require.NoError(t, err)

	assert.False(t, s.VarianceAmount.IsNegative())
	assert.False(t, s.VariancePct.IsNegative())
	// |10000 - 12985| / 10000 * 100 = 29.85
	assert.Equal(t, "29.85", s.VariancePct.StringFixed(2))
	assert.True(t, s.ExceedsTolerance)
}

func TestSummarize_ToleranceBoundary(t *testing.T) {
	// Exactly 5% variance does not exceed the threshold; the check is
	// strictly greater-than. Balance 95 against control 100 lands the
	// percentage exactly on 5.
	exact := dataset.Dataset{
		Columns: []string{dataset.ColRevolvingUtil, dataset.ColDPD3059, dataset.ColOutstandingBalance},
		Rows: []dataset.Row{
			{dataset.ColRevolvingUtil: "0.4", dataset.ColDPD3059: "0", dataset.ColOutstandingBalance: "95"},
		},
	}
	s, err := Summarize(exact, decimal.NewFromInt(100), DefaultTolerancePct)
	require.NoError(t, err)
	assert.Equal(t, "5.00", s.VariancePct.StringFixed(2))
	assert.False(t, s.ExceedsTolerance)

	// A hair over the threshold flips the flag: balance 94.99.
	exact.Rows[0][dataset.ColOutstandingBalance] = "94.99"
	s, err = Summarize(exact, decimal.NewFromInt(100), DefaultTolerancePct)
	require.NoError(t, err)
	assert.True(t, s.ExceedsTolerance)
}

func TestSummarize_MalformedBalance(t *testing.T) {
	ds := processedSample(t)
	ds.Rows[2][dataset.ColOutstandingBalance] = "oops"

	_, err := Summarize(ds, decimal.Zero, DefaultTolerancePct)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OutstandingBalance")
	assert.Contains(t, err.Error(), "row 3")
}

func TestSummarize_EmptyDataset(t *testing.T) {
	s, err := Summarize(dataset.Dataset{}, decimal.NewFromInt(100), DefaultTolerancePct)
	require.NoError(t, err)

	assert.Equal(t, 0, s.AccountCount)
	assert.True(t, s.TotalBalance.IsZero())
	assert.True(t, s.MeanUtilization.IsZero())
	// variance = |100 - 0| = 100, pct = 100%
	assert.Equal(t, "100.00", s.VariancePct.StringFixed(2))
	assert.True(t, s.ExceedsTolerance)
}
