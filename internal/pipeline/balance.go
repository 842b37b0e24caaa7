package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
)

// CalculateBalances appends OutstandingBalance to every row. The branch
// is dataset-level and evaluated once: when a CurrentBalance column
// exists every row passes it through (rounded to 2 decimals); otherwise
// every row derives MonthlyIncome * RevolvingUtil rounded to 2
// decimals. There is deliberately no per-row fallback between the two.
//
// Callers run Canonicalize first, so the numeric cells are assumed
// parseable here.
func CalculateBalances(ds dataset.Dataset) dataset.Dataset {
	useReported := ds.HasColumn(dataset.ColCurrentBalance)

	return ds.AppendColumn(dataset.ColOutstandingBalance, func(i int, r dataset.Row) string {
		if useReported {
			v, _ := decimal.NewFromString(r[dataset.ColCurrentBalance])
			return v.Round(2).StringFixed(2)
		}
		income, _ := decimal.NewFromString(r[dataset.ColMonthlyIncome])
		util, _ := decimal.NewFromString(r[dataset.ColRevolvingUtil])
		return income.Mul(util).Round(2).StringFixed(2)
	})
}
