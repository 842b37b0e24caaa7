package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
	"github.com/meridian-risk/y14m-cli/internal/pipeline"
	"github.com/meridian-risk/y14m-cli/internal/report"
)

// runConfig is the fully-parsed per-invocation configuration shared by
// the report and batch commands.
type runConfig struct {
	date          time.Time
	product       dataset.ProductCode
	control       decimal.Decimal
	tolerancePct  float64
	overrides     map[string]string
	extraSynonyms map[string]string
	clipUtil      bool
	xlsxSheet     string
}

// runResult bundles one invocation's outputs.
type runResult struct {
	processed dataset.Dataset
	summary   report.Summary
	narrative string
}

// buildRunConfig merges flag values over config defaults into a
// runConfig. Empty flag strings fall back to the configured defaults.
func buildRunConfig(dateFlag, productFlag, controlFlag string, mapFlags []string, clipUtil bool, xlsxSheet, synonymsFile string) (runConfig, error) {
	rc := runConfig{
		tolerancePct: cfg.Reporting.TolerancePct,
		clipUtil:     clipUtil,
		xlsxSheet:    xlsxSheet,
	}

	dateStr := dateFlag
	if dateStr == "" {
		dateStr = cfg.Reporting.Date
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return runConfig{}, eris.Wrapf(err, "parse reporting date %q", dateStr)
	}
	rc.date = date

	productStr := productFlag
	if productStr == "" {
		productStr = cfg.Reporting.Product
	}
	rc.product = dataset.ParseProduct(productStr)

	if controlFlag != "" {
		rc.control, err = decimal.NewFromString(controlFlag)
		if err != nil {
			return runConfig{}, eris.Wrapf(err, "parse control total %q", controlFlag)
		}
	} else {
		rc.control = decimal.NewFromFloat(cfg.Reporting.ControlTotal)
	}
	if rc.control.IsNegative() {
		return runConfig{}, eris.New("control total must be non-negative")
	}

	rc.overrides, err = parseMappings(mapFlags)
	if err != nil {
		return runConfig{}, err
	}

	synPath := synonymsFile
	if synPath == "" {
		synPath = cfg.Resolver.SynonymsFile
	}
	if synPath != "" {
		rc.extraSynonyms, err = pipeline.LoadSynonyms(synPath)
		if err != nil {
			return runConfig{}, err
		}
	}

	return rc, nil
}

// parseMappings turns repeated "raw=Canonical" flag values into a
// column override map.
func parseMappings(flags []string) (map[string]string, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(flags))
	for _, f := range flags {
		raw, canonical, ok := strings.Cut(f, "=")
		if !ok || raw == "" || canonical == "" {
			return nil, eris.Errorf("invalid --map value %q (want raw=Canonical)", f)
		}
		out[raw] = canonical
	}
	return out, nil
}

// loadInput reads a dataset from disk, dispatching on file extension.
func loadInput(path, xlsxSheet string) (dataset.Dataset, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return dataset.ReadXLSXFile(path, xlsxSheet)
	}
	return dataset.ReadCSVFile(path)
}

// runFile executes one stateless pipeline invocation over one input
// file and summarizes the result.
func runFile(path string, rc runConfig) (runResult, error) {
	ds, err := loadInput(path, rc.xlsxSheet)
	if err != nil {
		return runResult{}, err
	}
	return runDataset(ds, rc)
}

// runDataset executes the pipeline and narrative generation over an
// already-loaded dataset.
func runDataset(ds dataset.Dataset, rc runConfig) (runResult, error) {
	processed, err := pipeline.Process(ds, pipeline.Options{
		ReportingDate: rc.date,
		ProductCode:   rc.product,
		Overrides:     rc.overrides,
		ExtraSynonyms: rc.extraSynonyms,
		ClipUtil:      rc.clipUtil,
	})
	if err != nil {
		return runResult{}, err
	}

	summary, err := report.Summarize(processed, rc.control, rc.tolerancePct)
	if err != nil {
		return runResult{}, err
	}

	return runResult{
		processed: processed,
		summary:   summary,
		narrative: report.Narrative(summary),
	}, nil
}
