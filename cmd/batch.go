package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atlas-insights/nightlights-cli/internal/boundary"
	"github.com/atlas-insights/nightlights-cli/internal/raster"
	"github.com/atlas-insights/nightlights-cli/internal/report"
	"github.com/atlas-insights/nightlights-cli/internal/store"
	"github.com/atlas-insights/nightlights-cli/internal/zonal"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compute statistics for every region",
	Long: `Runs the zonal statistics pipeline over every region in the boundary
file (optionally restricted to --states), with bounded concurrency across
regions. Results go to stdout and optionally to CSV, XLSX, or the SQLite
results store.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		states, err := loadStateTable(cmd)
		if err != nil {
			return err
		}

		regions, boundaryPath, err := loadRegions(cmd)
		if err != nil {
			return err
		}

		targets, err := filterRegions(cmd, states, regions)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			fmt.Fprintln(os.Stderr, "No regions matched.")
			return nil
		}

		ds, err := openDataset(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = ds.Close() }()
		rasterPath, _ := cmd.Flags().GetString("raster")
		if rasterPath == "" {
			rasterPath = cfg.Raster.Path
		}

		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		zap.L().Info("starting batch",
			zap.Int("regions", len(targets)),
			zap.Int("concurrency", concurrency),
		)

		rows := computeBatch(ctx, targets, ds, states, concurrency)

		sort.Slice(rows, func(i, j int) bool {
			if rows[i].StateFIPS != rows[j].StateFIPS {
				return rows[i].StateFIPS < rows[j].StateFIPS
			}
			return rows[i].Region < rows[j].Region
		})

		if err := writeBatchOutputs(ctx, cmd, rows, rasterPath, boundaryPath); err != nil {
			return err
		}
		return printBatchTable(rows)
	},
}

// filterRegions applies the --states filter.
func filterRegions(cmd *cobra.Command, states *boundary.StateTable, regions *boundary.Set) ([]*boundary.Region, error) {
	statesFlag, _ := cmd.Flags().GetString("states")
	if statesFlag == "" {
		return regions.All(), nil
	}

	wanted := make(map[string]bool)
	for _, id := range splitAndTrim(statesFlag) {
		fips, err := resolveStateFIPS(states, id)
		if err != nil {
			return nil, err
		}
		wanted[fips] = true
	}

	var out []*boundary.Region
	for _, r := range regions.All() {
		if wanted[r.StateFIPS] {
			out = append(out, r)
		}
	}
	return out, nil
}

// computeBatch fans the per-region pipeline out over an errgroup. Each
// region's pipeline stays single-pass; individual failures become error rows
// rather than aborting the batch.
func computeBatch(ctx context.Context, targets []*boundary.Region, ds raster.Dataset, states *boundary.StateTable, concurrency int) []report.Row {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	rows := make([]report.Row, 0, len(targets))

	for _, region := range targets {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			row := report.Row{
				StateFIPS: region.StateFIPS,
				State:     states.Name(region.StateFIPS),
				Region:    region.Name,
			}

			stats, err := zonal.RegionStatistics(region.Geometry, ds)
			if err != nil {
				row.Err = eris.Cause(err).Error()
				zap.L().Warn("region failed",
					zap.String("state", region.StateFIPS),
					zap.String("region", region.Name),
					zap.Error(err),
				)
			} else {
				row.Stats = stats
			}

			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
			return nil
		})
	}

	// Individual region errors never propagate, so Wait only reports
	// context cancellation; partial rows are still worth printing then.
	if err := g.Wait(); err != nil {
		zap.L().Warn("batch interrupted", zap.Error(err))
	}
	return rows
}

func writeBatchOutputs(ctx context.Context, cmd *cobra.Command, rows []report.Row, rasterPath, boundaryPath string) error {
	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return eris.Wrapf(err, "batch: create %s", csvPath)
		}
		if err := report.WriteCSV(f, rows); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrapf(err, "batch: close %s", csvPath)
		}
	}

	if xlsxPath, _ := cmd.Flags().GetString("xlsx"); xlsxPath != "" {
		if err := report.WriteXLSX(xlsxPath, rows); err != nil {
			return err
		}
	}

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		return nil
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	run, err := st.CreateRun(ctx, rasterPath, boundaryPath)
	if err != nil {
		return err
	}
	for _, row := range rows {
		res := store.Result{
			RunID:     run.ID,
			StateFIPS: row.StateFIPS,
			Region:    row.Region,
			Stats:     row.Stats,
			Err:       row.Err,
		}
		if err := st.InsertResult(ctx, res); err != nil {
			return err
		}
	}
	if err := st.FinishRun(ctx, run.ID, len(rows)); err != nil {
		return err
	}

	zap.L().Info("batch stored", zap.String("run_id", run.ID), zap.Int("regions", len(rows)))
	return nil
}

func printBatchTable(rows []report.Row) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIPS\tSTATE\tREGION\tMIN\tMAX\tMEAN\tSTDDEV\tPIXELS")

	var failed int
	for _, r := range rows {
		if r.Err != "" {
			failed++
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t-\t-\t%s\n", r.StateFIPS, r.State, r.Region, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%.3f\t%.3f\t%d\n",
			r.StateFIPS, r.State, r.Region,
			r.Stats.Min, r.Stats.Max, r.Stats.Mean, r.Stats.StdDev, r.Stats.Count)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d regions, %d failed\n", len(rows), failed)
	return nil
}

func init() {
	batchCmd.Flags().String("states", "", "comma-separated state filters (FIPS, abbreviation, or name)")
	batchCmd.Flags().String("boundaries", "", "boundary file (default: from config)")
	batchCmd.Flags().String("format", "", "boundary format: geojson or shapefile")
	batchCmd.Flags().String("state-table", "", "FIPS state code table (default: from config)")
	batchCmd.Flags().String("raster", "", "raster file (default: from config)")
	batchCmd.Flags().Float64("nodata", 0, "NoData sample value to exclude")
	batchCmd.Flags().Int("concurrency", 0, "parallel regions (default: from config)")
	batchCmd.Flags().String("csv", "", "write results to this CSV file")
	batchCmd.Flags().String("xlsx", "", "write results to this XLSX workbook")
	batchCmd.Flags().String("db", "", "record results in this SQLite database")
	rootCmd.AddCommand(batchCmd)
}
