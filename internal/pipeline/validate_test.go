package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
)

func TestValidate_Complete(t *testing.T) {
	ds := dsWithColumns(dataset.ColMonthlyIncome, dataset.ColRevolvingUtil, dataset.ColDPD3059)
	assert.NoError(t, Validate(ds))
}

func TestValidate_BalanceNeverRequired(t *testing.T) {
	ds := dsWithColumns(dataset.ColMonthlyIncome, dataset.ColRevolvingUtil, dataset.ColDPD3059)
	require.NoError(t, Validate(ds))
	assert.False(t, ds.HasColumn(dataset.ColCurrentBalance))
}

func TestValidate_ReportsAllMissing(t *testing.T) {
	// Missing both MonthlyIncome and DPD30_59 reports both, not just
	// the first.
	ds := dsWithColumns(dataset.ColRevolvingUtil)

	err := Validate(ds)
	require.Error(t, err)

	var schemaErr *SchemaIncompleteError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{dataset.ColMonthlyIncome, dataset.ColDPD3059}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "MonthlyIncome")
	assert.Contains(t, err.Error(), "DPD30_59")
}

func TestValidate_AllMissing(t *testing.T) {
	ds := dsWithColumns("unrelated")

	err := Validate(ds)
	require.Error(t, err)

	var schemaErr *SchemaIncompleteError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, dataset.MandatoryColumns, schemaErr.Missing)
}

func TestValidate_SingleMissing(t *testing.T) {
	for _, missing := range dataset.MandatoryColumns {
		var cols []string
		for _, c := range dataset.MandatoryColumns {
			if c != missing {
				cols = append(cols, c)
			}
		}

		err := Validate(dsWithColumns(cols...))
		require.Error(t, err)

		var schemaErr *SchemaIncompleteError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, []string{missing}, schemaErr.Missing)
	}
}
