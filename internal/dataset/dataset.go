// Package dataset holds the tabular account data model and its CSV/XLSX
// ingest and export surfaces. Cells stay strings end to end; numeric
// interpretation happens in the pipeline stages.
package dataset

// Canonical column names the pipeline operates on. MonthlyIncome,
// RevolvingUtil, and DPD30_59 are mandatory after resolution;
// CurrentBalance is optional.
const (
	ColMonthlyIncome  = "MonthlyIncome"
	ColRevolvingUtil  = "RevolvingUtil"
	ColDPD3059        = "DPD30_59"
	ColCurrentBalance = "CurrentBalance"
)

// Derived columns appended by the pipeline, in append order.
const (
	ColOutstandingBalance = "OutstandingBalance"
	ColReportingDate      = "ReportingDate"
	ColProductCode        = "ProductCode"
	ColLineageHash        = "LineageHash"
)

// MandatoryColumns lists the canonical fields the validator requires,
// in reporting order.
var MandatoryColumns = []string{ColMonthlyIncome, ColRevolvingUtil, ColDPD3059}

// CanonicalColumns lists every canonical input field, mandatory first.
var CanonicalColumns = []string{ColMonthlyIncome, ColRevolvingUtil, ColDPD3059, ColCurrentBalance}

// Row is one account record: column name to string cell. Column ordering
// lives on the Dataset, not the row.
type Row map[string]string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is an ordered sequence of rows sharing one column layout.
// Pipeline stages never mutate a dataset in place; each stage clones
// and returns a new one.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Clone deep-copies the dataset so a stage can rewrite cells freely.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Columns: append([]string(nil), d.Columns...),
		Rows:    make([]Row, len(d.Rows)),
	}
	for i, r := range d.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// HasColumn reports whether the dataset carries the named column.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Rename returns a new dataset with columns renamed per the mapping.
// Column order and unmapped names are preserved.
func (d Dataset) Rename(mapping map[string]string) Dataset {
	out := Dataset{
		Columns: make([]string, len(d.Columns)),
		Rows:    make([]Row, len(d.Rows)),
	}
	for i, c := range d.Columns {
		if to, ok := mapping[c]; ok {
			out.Columns[i] = to
		} else {
			out.Columns[i] = c
		}
	}
	for i, r := range d.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			if to, ok := mapping[k]; ok {
				nr[to] = v
			} else {
				nr[k] = v
			}
		}
		out.Rows[i] = nr
	}
	return out
}

// AppendColumn returns a new dataset with the column appended and each
// row's cell filled by value(i, row). Appending an existing column is a
// programmer error and overwrites the cells in the copy.
func (d Dataset) AppendColumn(name string, value func(i int, r Row) string) Dataset {
	out := d.Clone()
	if !out.HasColumn(name) {
		out.Columns = append(out.Columns, name)
	}
	for i, r := range out.Rows {
		r[name] = value(i, r)
	}
	return out
}
