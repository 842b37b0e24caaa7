package pipeline

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
)

// builtinSynonyms maps normalized header spellings onto canonical
// columns. Normalization: trim, drop inner spaces/hyphens/underscores,
// lowercase, then exact match. No reflection, no fuzzy matching.
var builtinSynonyms = map[string]string{
	"revolvingutil":                        dataset.ColRevolvingUtil,
	"utilizationrate":                      dataset.ColRevolvingUtil,
	"utilization":                          dataset.ColRevolvingUtil,
	"revolvingutilizationofunsecuredlines": dataset.ColRevolvingUtil,

	"monthlyincome":    dataset.ColMonthlyIncome,
	"income":           dataset.ColMonthlyIncome,
	"monthlyincomeamt": dataset.ColMonthlyIncome,

	"dpd3059":                              dataset.ColDPD3059,
	"dpd30_59":                             dataset.ColDPD3059,
	"dpd":                                  dataset.ColDPD3059,
	"dayspastdue30to59":                    dataset.ColDPD3059,
	"numberoftimes3059dayspastduenotworse": dataset.ColDPD3059,

	"curbalance":       dataset.ColCurrentBalance,
	"currentbalance":   dataset.ColCurrentBalance,
	"balance":          dataset.ColCurrentBalance,
	"statementbalance": dataset.ColCurrentBalance,
}

// normalizeHeader collapses a raw header into its synonym-lookup form.
func normalizeHeader(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
	return strings.ToLower(s)
}

// SynonymOverlay is the YAML shape for extending the built-in synonym
// groups. Overlays add spellings; they can never remove built-ins.
type SynonymOverlay struct {
	Synonyms map[string][]string `yaml:"synonyms"` // canonical -> extra spellings
}

// LoadSynonyms reads a synonym overlay file and returns extra
// normalized-spelling -> canonical entries.
func LoadSynonyms(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: read synonyms %s", path)
	}

	var overlay SynonymOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, eris.Wrapf(err, "resolve: parse synonyms %s", path)
	}

	extra := make(map[string]string)
	for canonical, spellings := range overlay.Synonyms {
		if !isCanonical(canonical) {
			return nil, eris.Errorf("resolve: unknown canonical column %q in %s", canonical, path)
		}
		for _, s := range spellings {
			extra[normalizeHeader(s)] = canonical
		}
	}
	return extra, nil
}

func isCanonical(name string) bool {
	for _, c := range dataset.CanonicalColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Resolve computes the raw -> canonical renaming for the dataset's
// columns. Synonym matching runs first; explicit overrides outrank it
// for both the overridden raw column and its canonical target. Extra
// synonyms come from a loaded overlay and extend the built-ins.
//
// When two or more columns resolve to one canonical target the whole
// resolution fails with an AmbiguousColumnError listing every
// collision. Unmatched columns pass through unrenamed.
func Resolve(ds dataset.Dataset, overrides map[string]string, extraSynonyms map[string]string) (map[string]string, error) {
	for raw, canonical := range overrides {
		if !ds.HasColumn(raw) {
			return nil, eris.Errorf("resolve: override column %q not in input", raw)
		}
		if !isCanonical(canonical) {
			return nil, eris.Errorf("resolve: override target %q is not a canonical column", canonical)
		}
	}

	// Overrides claim their targets first.
	claimed := make(map[string][]string) // canonical -> raw columns
	renames := make(map[string]string)
	for raw, canonical := range overrides {
		claimed[canonical] = append(claimed[canonical], raw)
		renames[raw] = canonical
	}

	overridden := func(canonical string) bool {
		_, ok := claimed[canonical]
		return ok
	}

	for _, raw := range ds.Columns {
		if _, ok := overrides[raw]; ok {
			continue
		}
		n := normalizeHeader(raw)
		canonical, ok := builtinSynonyms[n]
		if !ok {
			canonical, ok = extraSynonyms[n]
		}
		if !ok || overridden(canonical) {
			continue // pass through, or an explicit override outranks the alias
		}
		claimed[canonical] = append(claimed[canonical], raw)
		renames[raw] = canonical
	}

	collisions := make(map[string][]string)
	for canonical, raws := range claimed {
		if len(raws) > 1 {
			collisions[canonical] = raws
		}
	}
	if len(collisions) > 0 {
		return nil, &AmbiguousColumnError{Collisions: collisions}
	}

	return renames, nil
}

// NormalizeUtilization applies the dataset-wide percent-to-fraction
// rule: when any RevolvingUtil value exceeds 1, every value is divided
// by 100. The decision is made once for the whole dataset, never per
// row, and is idempotent on already-fractional data. Datasets without
// a RevolvingUtil column pass through untouched.
func NormalizeUtilization(ds dataset.Dataset) (dataset.Dataset, error) {
	if !ds.HasColumn(dataset.ColRevolvingUtil) {
		return ds, nil
	}

	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)

	exceeds := false
	for i, row := range ds.Rows {
		v, err := decimal.NewFromString(row[dataset.ColRevolvingUtil])
		if err != nil {
			return dataset.Dataset{}, &MalformedValueError{
				Field: dataset.ColRevolvingUtil,
				Row:   i + 1,
				Value: row[dataset.ColRevolvingUtil],
			}
		}
		if v.GreaterThan(one) {
			exceeds = true
			break
		}
	}
	if !exceeds {
		return ds, nil
	}

	out := ds.Clone()
	for i, row := range out.Rows {
		v, err := decimal.NewFromString(row[dataset.ColRevolvingUtil])
		if err != nil {
			return dataset.Dataset{}, &MalformedValueError{
				Field: dataset.ColRevolvingUtil,
				Row:   i + 1,
				Value: row[dataset.ColRevolvingUtil],
			}
		}
		row[dataset.ColRevolvingUtil] = v.Div(hundred).String()
	}
	return out, nil
}

// ClampUtilization clamps RevolvingUtil into [0, 1]. Off the main path;
// callers opt in explicitly (upload hygiene for dirty files).
func ClampUtilization(ds dataset.Dataset) (dataset.Dataset, error) {
	if !ds.HasColumn(dataset.ColRevolvingUtil) {
		return ds, nil
	}

	one := decimal.NewFromInt(1)
	out := ds.Clone()
	for i, row := range out.Rows {
		v, err := decimal.NewFromString(row[dataset.ColRevolvingUtil])
		if err != nil {
			return dataset.Dataset{}, &MalformedValueError{
				Field: dataset.ColRevolvingUtil,
				Row:   i + 1,
				Value: row[dataset.ColRevolvingUtil],
			}
		}
		switch {
		case v.IsNegative():
			row[dataset.ColRevolvingUtil] = "0"
		case v.GreaterThan(one):
			row[dataset.ColRevolvingUtil] = "1"
		}
	}
	return out, nil
}
