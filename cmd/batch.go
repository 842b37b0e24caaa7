package main

import (
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
)

var (
	batchInputs      []string
	batchConcurrency int
	batchDate        string
	batchProduct     string
	batchControl     string
	batchMaps        []string
	batchClipUtil    bool
	batchOutDir      string
	batchXLSXSheet   string
	batchSynonyms    string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run the report pipeline over multiple input files concurrently",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rc, err := buildRunConfig(batchDate, batchProduct, batchControl, batchMaps, batchClipUtil, batchXLSXSheet, batchSynonyms)
		if err != nil {
			return err
		}

		zap.L().Info("processing batch",
			zap.Int("files", len(batchInputs)),
			zap.Int("concurrency", batchConcurrency),
		)

		g := new(errgroup.Group)
		g.SetLimit(batchConcurrency)

		var succeeded, failed atomic.Int64

		for _, input := range batchInputs {
			input := input // per-iteration copy; go directive is below 1.22
			g.Go(func() error {
				log := zap.L().With(zap.String("input", input))

				res, err := runFile(input, rc)
				if err != nil {
					failed.Add(1)
					log.Error("report failed", zap.Error(err))
					return nil // don't abort the batch on individual failure
				}

				// One subdirectory per input keeps artifact names from
				// colliding when every file shares product and date.
				stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
				csvPath, txtPath, err := dataset.WriteArtifacts(filepath.Join(batchOutDir, stem), res.processed, rc.product, rc.date.Format("2006-01-02"), res.narrative)
				if err != nil {
					failed.Add(1)
					log.Error("export failed", zap.Error(err))
					return nil
				}

				succeeded.Add(1)
				log.Info("report complete",
					zap.Int("accounts", res.summary.AccountCount),
					zap.String("total", res.summary.TotalBalance.StringFixed(2)),
					zap.String("csv", csvPath),
					zap.String("narrative", txtPath),
				)
				return nil
			})
		}

		_ = g.Wait()

		zap.L().Info("batch complete",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringArrayVar(&batchInputs, "input", nil, "input file (repeatable, required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 3, "max files processed in parallel")
	batchCmd.Flags().StringVar(&batchDate, "date", "", "reporting date YYYY-MM-DD (default from config)")
	batchCmd.Flags().StringVar(&batchProduct, "product", "", "product code (default from config)")
	batchCmd.Flags().StringVar(&batchControl, "control", "", "GL control total (default from config)")
	batchCmd.Flags().StringArrayVar(&batchMaps, "map", nil, "column override raw=Canonical (repeatable)")
	batchCmd.Flags().BoolVar(&batchClipUtil, "clip-util", false, "clamp utilization into [0,1]")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", ".", "directory for exported artifacts")
	batchCmd.Flags().StringVar(&batchXLSXSheet, "xlsx-sheet", "", "XLSX sheet name (default first sheet)")
	batchCmd.Flags().StringVar(&batchSynonyms, "synonyms", "", "YAML synonym overlay file (default from config)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}
