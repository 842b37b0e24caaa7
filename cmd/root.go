package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-risk/y14m-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "y14m",
	Short: "Y-14M credit portfolio report pipeline",
	Long:  "Ingests tabular credit-account data, normalizes column naming, derives regulatory balances, tags rows with lineage hashes, and reconciles totals against a GL control figure.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // optional .env, before viper reads the environment

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
