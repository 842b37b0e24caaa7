package pipeline

import (
	"fmt"
	"sort"
	"strings"
)

// SchemaIncompleteError reports every mandatory canonical column still
// missing after alias resolution. Recoverable: the caller can re-map
// columns and retry.
type SchemaIncompleteError struct {
	Missing []string
}

func (e *SchemaIncompleteError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// MalformedValueError reports a cell that cannot be parsed as the type
// its canonical column requires. Row is 1-based over data rows.
type MalformedValueError struct {
	Field string
	Row   int
	Value string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed value %q in column %s, row %d", e.Value, e.Field, e.Row)
}

// AmbiguousColumnError reports raw columns competing for the same
// canonical target. Silent last-wins would drop data, so resolution
// fails instead.
type AmbiguousColumnError struct {
	Collisions map[string][]string // canonical -> competing raw headers
}

func (e *AmbiguousColumnError) Error() string {
	targets := make([]string, 0, len(e.Collisions))
	for canonical := range e.Collisions {
		targets = append(targets, canonical)
	}
	sort.Strings(targets)

	parts := make([]string, 0, len(targets))
	for _, canonical := range targets {
		parts = append(parts, fmt.Sprintf("%s <- [%s]", canonical, strings.Join(e.Collisions[canonical], ", ")))
	}
	return fmt.Sprintf("ambiguous columns: %s", strings.Join(parts, "; "))
}
