// Package lineage provides audit lookup of processed rows by their
// 8-character lineage hash.
package lineage

import (
	"github.com/meridian-risk/y14m-cli/internal/dataset"
)

// Index maps lineage hashes to row positions in one processed dataset.
// Built per invocation; never shared or retained across datasets.
type Index struct {
	ds        dataset.Dataset
	positions map[string][]int
}

// NewIndex builds a lookup index over the dataset's LineageHash column.
// Rows without a hash cell are skipped.
func NewIndex(ds dataset.Dataset) *Index {
	idx := &Index{
		ds:        ds,
		positions: make(map[string][]int),
	}
	for i, row := range ds.Rows {
		h := row[dataset.ColLineageHash]
		if h == "" {
			continue
		}
		idx.positions[h] = append(idx.positions[h], i)
	}
	return idx
}

// Match is one row found for a hash, with its 0-based dataset position.
type Match struct {
	Position int
	Row      dataset.Row
}

// Lookup returns every row carrying the hash, in dataset order. The
// hash is informational rather than unique, so zero and multiple
// matches are both ordinary outcomes: found is false only when no row
// matches.
func (x *Index) Lookup(hash string) (matches []Match, found bool) {
	positions, ok := x.positions[hash]
	if !ok {
		return nil, false
	}
	matches = make([]Match, 0, len(positions))
	for _, p := range positions {
		matches = append(matches, Match{Position: p, Row: x.ds.Rows[p]})
	}
	return matches, true
}
