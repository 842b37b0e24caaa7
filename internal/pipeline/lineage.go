package pipeline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
)

// Tag broadcasts the reporting date (ISO form) and product code to
// every row, then stamps each row with its lineage hash.
func Tag(ds dataset.Dataset, reportingDate string, product dataset.ProductCode) dataset.Dataset {
	out := ds.AppendColumn(dataset.ColReportingDate, func(int, dataset.Row) string {
		return reportingDate
	})
	out = out.AppendColumn(dataset.ColProductCode, func(int, dataset.Row) string {
		return string(product)
	})
	return out.AppendColumn(dataset.ColLineageHash, func(_ int, r dataset.Row) string {
		return LineageHash(r)
	})
}

// LineageHash fingerprints a row's complete field-to-value mapping at
// tagging time: JSON with lexically sorted keys, SHA-256, first 8 hex
// characters. Identical values yield identical hashes regardless of
// original column order. Informational, not a unique key; collisions
// are tolerated by lookup.
func LineageHash(r dataset.Row) string {
	fields := make(map[string]string, len(r))
	for k, v := range r {
		if k == dataset.ColLineageHash {
			continue
		}
		fields[k] = v
	}

	// encoding/json writes map keys in sorted order, which is the
	// determinism this hash depends on.
	data, err := json.Marshal(fields)
	if err != nil {
		// map[string]string cannot fail to marshal
		panic(err)
	}

	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)[:8]
}
