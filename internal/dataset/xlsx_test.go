package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeXLSX(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)

	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().Value = v
		}
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSXFile(t *testing.T) {
	path := writeXLSX(t, "Accounts", [][]string{
		{"MonthlyIncome", "RevolvingUtil", "DPD30_59"},
		{"5000", "0.40", "0"},
		{"6000", "0.50", "10"},
	})

	ds, err := ReadXLSXFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"MonthlyIncome", "RevolvingUtil", "DPD30_59"}, ds.Columns)
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "6000", ds.Rows[1]["MonthlyIncome"])
}

func TestReadXLSXFile_NamedSheet(t *testing.T) {
	path := writeXLSX(t, "Q1", [][]string{
		{"income"},
		{"5000"},
	})

	ds, err := ReadXLSXFile(path, "Q1")
	require.NoError(t, err)
	assert.Equal(t, "5000", ds.Rows[0]["income"])

	_, err = ReadXLSXFile(path, "Q2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sheet "Q2" not found`)
}

func TestReadXLSXFile_DuplicateColumn(t *testing.T) {
	path := writeXLSX(t, "Sheet1", [][]string{
		{"income", "income"},
		{"1", "2"},
	})

	_, err := ReadXLSXFile(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestReadXLSXFile_NoDataRows(t *testing.T) {
	path := writeXLSX(t, "Sheet1", [][]string{
		{"income"},
	})

	_, err := ReadXLSXFile(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestReadXLSXFile_ShortRow(t *testing.T) {
	path := writeXLSX(t, "Sheet1", [][]string{
		{"A", "B"},
		{"1"},
	})

	ds, err := ReadXLSXFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "1", ds.Rows[0]["A"])
	assert.Equal(t, "", ds.Rows[0]["B"])
}
