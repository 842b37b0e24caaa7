package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSXFile reads a dataset from an XLSX workbook. The sheet is
// selected by name, or the first sheet when name is empty. Same header
// rules as ReadCSV: first row is the header, duplicates rejected, at
// least one data row required.
func ReadXLSXFile(path, sheetName string) (Dataset, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return Dataset{}, eris.Wrapf(err, "xlsx: open %s", path)
	}

	sheet, err := getSheet(f, sheetName)
	if err != nil {
		return Dataset{}, err
	}
	if len(sheet.Rows) == 0 {
		return Dataset{}, eris.New("xlsx: empty sheet")
	}

	header := rowToStrings(sheet.Rows[0])
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if seen[h] {
			return Dataset{}, eris.Errorf("xlsx: duplicate column %q", h)
		}
		seen[h] = true
		columns[i] = h
	}

	ds := Dataset{Columns: columns}
	for _, xr := range sheet.Rows[1:] {
		cells := rowToStrings(xr)
		row := make(Row, len(columns))
		for i, c := range columns {
			if i < len(cells) {
				row[c] = strings.TrimSpace(cells[i])
			} else {
				row[c] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	if len(ds.Rows) == 0 {
		return Dataset{}, eris.New("xlsx: no data rows")
	}
	return ds, nil
}

func getSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
