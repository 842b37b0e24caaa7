package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
	"github.com/meridian-risk/y14m-cli/internal/report"
)

var (
	reportInput     string
	reportXLSXSheet string
	reportDate      string
	reportProduct   string
	reportControl   string
	reportMaps      []string
	reportClipUtil  bool
	reportOutDir    string
	reportStdout    bool
	reportSynonyms  string
	reportAttest    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the report pipeline over one input file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rc, err := buildRunConfig(reportDate, reportProduct, reportControl, reportMaps, reportClipUtil, reportXLSXSheet, reportSynonyms)
		if err != nil {
			return err
		}

		res, err := runFile(reportInput, rc)
		if err != nil {
			return eris.Wrapf(err, "report %s", reportInput)
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.narrative)
		if reportAttest {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), report.Attestation(res.summary))
		}

		if reportStdout {
			if err := dataset.WriteCSV(cmd.OutOrStdout(), res.processed); err != nil {
				return err
			}
			return nil
		}

		csvPath, txtPath, err := dataset.WriteArtifacts(reportOutDir, res.processed, rc.product, rc.date.Format("2006-01-02"), res.narrative)
		if err != nil {
			return err
		}
		zap.L().Info("report complete",
			zap.String("input", reportInput),
			zap.Int("accounts", res.summary.AccountCount),
			zap.String("total", res.summary.TotalBalance.StringFixed(2)),
			zap.String("variance_pct", res.summary.VariancePct.StringFixed(2)),
			zap.String("csv", csvPath),
			zap.String("narrative", txtPath),
		)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportInput, "input", "", "path to CSV or XLSX input (required)")
	reportCmd.Flags().StringVar(&reportXLSXSheet, "xlsx-sheet", "", "XLSX sheet name (default first sheet)")
	reportCmd.Flags().StringVar(&reportDate, "date", "", "reporting date YYYY-MM-DD (default from config)")
	reportCmd.Flags().StringVar(&reportProduct, "product", "", "product code: CCARD, AUTO, MORTGAGE, or OTHER (default from config)")
	reportCmd.Flags().StringVar(&reportControl, "control", "", "GL control total (default from config)")
	reportCmd.Flags().StringArrayVar(&reportMaps, "map", nil, "column override raw=Canonical (repeatable)")
	reportCmd.Flags().BoolVar(&reportClipUtil, "clip-util", false, "clamp utilization into [0,1]")
	reportCmd.Flags().StringVar(&reportOutDir, "out-dir", ".", "directory for exported artifacts")
	reportCmd.Flags().BoolVar(&reportStdout, "stdout", false, "write processed CSV to stdout instead of files")
	reportCmd.Flags().StringVar(&reportSynonyms, "synonyms", "", "YAML synonym overlay file (default from config)")
	reportCmd.Flags().BoolVar(&reportAttest, "attestation", false, "print the management attestation draft")
	_ = reportCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(reportCmd)
}
