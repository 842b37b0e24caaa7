package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-risk/y14m-cli/internal/dataset"
	"github.com/meridian-risk/y14m-cli/internal/lineage"
)

var (
	lookupInput string
	lookupHash  string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Audit-lookup rows by lineage hash in a processed CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := dataset.ReadCSVFile(lookupInput)
		if err != nil {
			return err
		}

		matches, found := lineage.NewIndex(ds).Lookup(lookupHash)
		if !found {
			fmt.Fprintf(cmd.OutOrStdout(), "hash %s not found in %s\n", lookupHash, lookupInput)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "hash %s: %d match(es)\n", lookupHash, len(matches))
		for _, m := range matches {
			fmt.Fprintf(cmd.OutOrStdout(), "row %d:\n", m.Position+1)
			for _, c := range ds.Columns {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", c, m.Row[c])
			}
		}
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupInput, "input", "", "path to processed CSV (required)")
	lookupCmd.Flags().StringVar(&lookupHash, "hash", "", "8-character lineage hash (required)")
	_ = lookupCmd.MarkFlagRequired("input")
	_ = lookupCmd.MarkFlagRequired("hash")
	rootCmd.AddCommand(lookupCmd)
}
