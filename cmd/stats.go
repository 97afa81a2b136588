package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/atlas-insights/nightlights-cli/internal/zonal"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute statistics for one region",
	Long:  "Resolves a county boundary, masks the raster pixels it encloses, and prints min/max/mean/stddev over the masked region.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		state, _ := cmd.Flags().GetString("state")
		county, _ := cmd.Flags().GetString("county")

		states, err := loadStateTable(cmd)
		if err != nil {
			return err
		}
		fips, err := resolveStateFIPS(states, state)
		if err != nil {
			return err
		}

		regions, _, err := loadRegions(cmd)
		if err != nil {
			return err
		}
		region, err := regions.Lookup(fips, county)
		if err != nil {
			return err
		}

		ds, err := openDataset(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = ds.Close() }()

		zap.L().Debug("computing region statistics",
			zap.String("state", fips),
			zap.String("county", region.Name),
		)

		stats, err := zonal.RegionStatistics(region.Geometry, ds)
		if err != nil {
			return eris.Wrapf(err, "stats: %s, %s", region.Name, states.Name(fips))
		}

		output, _ := cmd.Flags().GetString("output")
		return printStats(region.Name, states.Name(fips), stats, output)
	},
}

func printStats(county, state string, stats zonal.Stats, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(stats), "stats: encode json")
	case "yaml":
		data, err := yaml.Marshal(stats)
		if err != nil {
			return eris.Wrap(err, "stats: encode yaml")
		}
		_, err = os.Stdout.Write(data)
		return eris.Wrap(err, "stats: write yaml")
	case "table", "":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Region:\t%s, %s\n", county, state)
		fmt.Fprintf(w, "Pixels:\t%d\n", stats.Count)
		fmt.Fprintf(w, "Min:\t%g\n", stats.Min)
		fmt.Fprintf(w, "Max:\t%g\n", stats.Max)
		fmt.Fprintf(w, "Mean:\t%.4f\n", stats.Mean)
		fmt.Fprintf(w, "StdDev:\t%.4f\n", stats.StdDev)
		return w.Flush()
	default:
		return eris.Errorf("unknown output format %q (want table, json, or yaml)", output)
	}
}

func init() {
	statsCmd.Flags().String("state", "", "state FIPS code, abbreviation, or name (required)")
	statsCmd.Flags().String("county", "", "county name (required)")
	statsCmd.Flags().String("boundaries", "", "boundary file (default: from config)")
	statsCmd.Flags().String("format", "", "boundary format: geojson or shapefile")
	statsCmd.Flags().String("state-table", "", "FIPS state code table (default: from config)")
	statsCmd.Flags().String("raster", "", "raster file (default: from config)")
	statsCmd.Flags().Float64("nodata", 0, "NoData sample value to exclude")
	statsCmd.Flags().String("output", "table", "output format: table, json, or yaml")
	_ = statsCmd.MarkFlagRequired("state")
	_ = statsCmd.MarkFlagRequired("county")
	rootCmd.AddCommand(statsCmd)
}
