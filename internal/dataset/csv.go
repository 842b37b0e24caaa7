package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadCSV parses a delimited text dataset. The first row is the header;
// duplicate headers and header-only input are ingest errors. Fields are
// whitespace-trimmed; short rows leave the trailing cells empty.
func ReadCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return Dataset{}, eris.New("csv: empty input")
	}
	if err != nil {
		return Dataset{}, eris.Wrap(err, "csv: read header")
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if seen[h] {
			return Dataset{}, eris.Errorf("csv: duplicate column %q", h)
		}
		seen[h] = true
		columns[i] = h
	}

	ds := Dataset{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, eris.Wrap(err, "csv: read row")
		}

		row := make(Row, len(columns))
		for i, c := range columns {
			if i < len(record) {
				row[c] = strings.TrimSpace(record[i])
			} else {
				row[c] = ""
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	if len(ds.Rows) == 0 {
		return Dataset{}, eris.New("csv: no data rows")
	}
	return ds, nil
}

// ReadCSVFile reads a dataset from a CSV file on disk.
func ReadCSVFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, eris.Wrapf(err, "csv: open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV exports the dataset, all columns in dataset order.
func WriteCSV(w io.Writer, ds Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.Columns); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, c := range ds.Columns {
			record[i] = row[c]
		}
		if err := writer.Write(record); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return eris.Wrap(err, "csv: flush")
	}
	return nil
}

// WriteCSVFile exports the dataset to a file, truncating any existing one.
func WriteCSVFile(path string, ds Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "csv: create %s", path)
	}
	if err := WriteCSV(f, ds); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "csv: close %s", path)
	}
	return nil
}
