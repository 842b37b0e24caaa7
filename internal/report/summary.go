// Package report derives aggregate metrics from a processed dataset
// and renders the reconciliation narrative. Pure functions; no I/O.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
	"github.com/meridian-risk/y14m-cli/internal/pipeline"
)

// DefaultTolerancePct is the variance threshold above which the
// narrative carries the management-review warning.
const DefaultTolerancePct = 5.0

// Summary holds the derived reconciliation figures for one processed
// dataset. Not persisted anywhere; recomputed per invocation.
type Summary struct {
	ReportingDate    string
	ProductCode      dataset.ProductCode
	AccountCount     int
	TotalBalance     decimal.Decimal
	MeanUtilization  decimal.Decimal // fraction, not percent
	DelinquencyRate  decimal.Decimal // fraction of rows with DPD30_59 > 0
	ControlTotal     decimal.Decimal
	VarianceAmount   decimal.Decimal // |control - total|
	VariancePct      decimal.Decimal // variance / control * 100; 0 when control is 0
	TolerancePct     float64
	ExceedsTolerance bool
}

// Summarize aggregates a processed dataset against the caller-supplied
// control total. A zero control total is not an error: the variance
// percentage is defined as 0 in that case.
func Summarize(ds dataset.Dataset, controlTotal decimal.Decimal, tolerancePct float64) (Summary, error) {
	s := Summary{
		AccountCount: len(ds.Rows),
		ControlTotal: controlTotal,
		TolerancePct: tolerancePct,
	}
	if len(ds.Rows) > 0 {
		s.ReportingDate = ds.Rows[0][dataset.ColReportingDate]
		s.ProductCode = dataset.ProductCode(ds.Rows[0][dataset.ColProductCode])
	}

	utilSum := decimal.Zero
	delinquent := 0
	for i, row := range ds.Rows {
		bal, err := decimal.NewFromString(row[dataset.ColOutstandingBalance])
		if err != nil {
			return Summary{}, &pipeline.MalformedValueError{
				Field: dataset.ColOutstandingBalance,
				Row:   i + 1,
				Value: row[dataset.ColOutstandingBalance],
			}
		}
		s.TotalBalance = s.TotalBalance.Add(bal)

		util, err := decimal.NewFromString(row[dataset.ColRevolvingUtil])
		if err != nil {
			return Summary{}, &pipeline.MalformedValueError{
				Field: dataset.ColRevolvingUtil,
				Row:   i + 1,
				Value: row[dataset.ColRevolvingUtil],
			}
		}
		utilSum = utilSum.Add(util)

		dpd, err := decimal.NewFromString(row[dataset.ColDPD3059])
		if err != nil {
			return Summary{}, &pipeline.MalformedValueError{
				Field: dataset.ColDPD3059,
				Row:   i + 1,
				Value: row[dataset.ColDPD3059],
			}
		}
		if dpd.IsPositive() {
			delinquent++
		}
	}

	if s.AccountCount > 0 {
		n := decimal.NewFromInt(int64(s.AccountCount))
		s.MeanUtilization = utilSum.Div(n)
		s.DelinquencyRate = decimal.NewFromInt(int64(delinquent)).Div(n)
	}

	s.VarianceAmount = controlTotal.Sub(s.TotalBalance).Abs()
	if !controlTotal.IsZero() {
		s.VariancePct = s.VarianceAmount.Div(controlTotal).Mul(decimal.NewFromInt(100))
	}
	s.ExceedsTolerance = s.VariancePct.GreaterThan(decimal.NewFromFloat(tolerancePct))

	return s, nil
}
