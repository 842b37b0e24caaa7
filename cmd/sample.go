package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
	"github.com/meridian-risk/y14m-cli/internal/report"
)

var sampleControl string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Run the pipeline over the built-in 5-account demo portfolio",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rc, err := buildRunConfig("", "", sampleControl, nil, false, "", "")
		if err != nil {
			return err
		}

		res, err := runDataset(dataset.Sample(), rc)
		if err != nil {
			return err
		}

		// Demo mode auto-matches the control total to the computed
		// balance unless the caller supplied one.
		if sampleControl == "" {
			rc.control = res.summary.TotalBalance
			res.summary, err = report.Summarize(res.processed, rc.control, rc.tolerancePct)
			if err != nil {
				return err
			}
			res.narrative = report.Narrative(res.summary)
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.narrative)
		return nil
	},
}

func init() {
	sampleCmd.Flags().StringVar(&sampleControl, "control", "", "GL control total (default: match the computed balance)")
	rootCmd.AddCommand(sampleCmd)
}
