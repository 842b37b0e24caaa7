package pipeline

import "github.com/meridian-risk/y14m-cli/internal/dataset"

// Validate checks that every mandatory canonical column is present
// after resolution. It reports all missing columns in one error, never
// just the first. CurrentBalance is optional and never required. Pure
// precondition check; no side effects.
func Validate(ds dataset.Dataset) error {
	var missing []string
	for _, c := range dataset.MandatoryColumns {
		if !ds.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaIncompleteError{Missing: missing}
	}
	return nil
}
