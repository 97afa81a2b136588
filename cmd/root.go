package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atlas-insights/nightlights-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "nightlights",
	Short: "Zonal statistics for night-light rasters",
	Long:  "Overlays county boundary polygons on geocoded night-light rasters and computes per-region summary statistics (min/max/mean/stddev).",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
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
