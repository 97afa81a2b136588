package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/atlas-insights/nightlights-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored batch runs",
	Long:  "Commands for listing past batch runs and viewing their per-region results.",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List batch runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.ListRuns(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREGIONS\tRASTER\tSTARTED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
				r.ID, r.Regions, r.Raster, r.StartedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show per-region results of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		results, err := st.ResultsForRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		if len(results) == 0 {
			fmt.Fprintln(os.Stderr, "No results for this run.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIPS\tREGION\tMIN\tMAX\tMEAN\tSTDDEV\tPIXELS")
		for _, r := range results {
			if r.Err != "" {
				fmt.Fprintf(w, "%s\t%s\t-\t-\t-\t-\t%s\n", r.StateFIPS, r.Region, r.Err)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%.3f\t%.3f\t%d\n",
				r.StateFIPS, r.Region,
				r.Stats.Min, r.Stats.Max, r.Stats.Mean, r.Stats.StdDev, r.Stats.Count)
		}
		return w.Flush()
	},
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = cfg.Store.Path
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(cmd.Context()); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func init() {
	runsListCmd.Flags().Int("limit", 50, "max runs to list")
	runsListCmd.Flags().String("db", "", "results database (default: from config)")
	runsShowCmd.Flags().String("db", "", "results database (default: from config)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
