package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
)

// Canonicalize parses every canonical numeric cell and rewrites it in
// canonical decimal form ("0.40" -> "0.4", "5,000" stays malformed).
// After this stage two datasets with equal values have equal cell
// strings, which is what makes the lineage hash representation
// independent, and the remaining stages are total functions.
//
// MonthlyIncome, RevolvingUtil, and CurrentBalance (when present) must
// parse as decimals; DPD30_59 must parse as a non-negative integer.
func Canonicalize(ds dataset.Dataset) (dataset.Dataset, error) {
	columns := []string{dataset.ColMonthlyIncome, dataset.ColRevolvingUtil}
	if ds.HasColumn(dataset.ColCurrentBalance) {
		columns = append(columns, dataset.ColCurrentBalance)
	}

	out := ds.Clone()
	for i, row := range out.Rows {
		for _, c := range columns {
			v, err := decimal.NewFromString(row[c])
			if err != nil {
				return dataset.Dataset{}, &MalformedValueError{Field: c, Row: i + 1, Value: row[c]}
			}
			row[c] = v.String()
		}

		dpd, err := decimal.NewFromString(row[dataset.ColDPD3059])
		if err != nil || !dpd.IsInteger() || dpd.IsNegative() {
			return dataset.Dataset{}, &MalformedValueError{
				Field: dataset.ColDPD3059,
				Row:   i + 1,
				Value: row[dataset.ColDPD3059],
			}
		}
		row[dataset.ColDPD3059] = dpd.String()
	}
	return out, nil
}
