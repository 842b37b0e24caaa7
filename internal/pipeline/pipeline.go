// Package pipeline turns a raw tabular dataset into a processed one:
// alias resolution, schema validation, numeric canonicalization,
// balance calculation, and lineage tagging, in that order. Every stage
// returns a new dataset; nothing is mutated in place and nothing is
// cached between invocations.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
)

// Options carries the per-invocation configuration. RunID correlates
// logs and serve responses and is generated when empty.
type Options struct {
	ReportingDate time.Time
	ProductCode   dataset.ProductCode
	Overrides     map[string]string // raw -> canonical, outranks synonym matching
	ExtraSynonyms map[string]string // normalized spelling -> canonical, from LoadSynonyms
	ClipUtil      bool              // clamp RevolvingUtil into [0,1] after percent normalization
	RunID         string
}

// Process runs the full pipeline over one dataset. Fail-fast: the
// first stage error aborts the invocation and no partial dataset is
// ever returned. Domain errors (SchemaIncompleteError,
// MalformedValueError, AmbiguousColumnError) come back unwrapped so
// callers can match on them.
func Process(ds dataset.Dataset, opts Options) (dataset.Dataset, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := zap.L().With(
		zap.String("run_id", runID),
		zap.String("product", string(opts.ProductCode)),
		zap.Int("rows", len(ds.Rows)),
	)
	log.Debug("pipeline: start")

	renames, err := Resolve(ds, opts.Overrides, opts.ExtraSynonyms)
	if err != nil {
		return dataset.Dataset{}, err
	}
	resolved := ds.Rename(renames)

	resolved, err = NormalizeUtilization(resolved)
	if err != nil {
		return dataset.Dataset{}, err
	}
	if opts.ClipUtil {
		resolved, err = ClampUtilization(resolved)
		if err != nil {
			return dataset.Dataset{}, err
		}
	}

	if err := Validate(resolved); err != nil {
		return dataset.Dataset{}, err
	}

	canonical, err := Canonicalize(resolved)
	if err != nil {
		return dataset.Dataset{}, err
	}

	balanced := CalculateBalances(canonical)
	tagged := Tag(balanced, opts.ReportingDate.Format("2006-01-02"), opts.ProductCode)

	log.Debug("pipeline: complete")
	return tagged, nil
}
