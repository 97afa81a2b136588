package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List regions in a boundary file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		states, err := loadStateTable(cmd)
		if err != nil {
			return err
		}

		regions, path, err := loadRegions(cmd)
		if err != nil {
			return err
		}

		stateFilter, _ := cmd.Flags().GetString("state")
		var fips string
		if stateFilter != "" {
			if fips, err = resolveStateFIPS(states, stateFilter); err != nil {
				return err
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIPS\tSTATE\tREGION")
		var n int
		for _, r := range regions.All() {
			if fips != "" && r.StateFIPS != fips {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.StateFIPS, states.Name(r.StateFIPS), r.Name)
			n++
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d regions in %s\n", n, path)
		return nil
	},
}

func init() {
	regionsCmd.Flags().String("boundaries", "", "boundary file (default: from config)")
	regionsCmd.Flags().String("format", "", "boundary format: geojson or shapefile")
	regionsCmd.Flags().String("state-table", "", "FIPS state code table (default: from config)")
	regionsCmd.Flags().String("state", "", "only list regions in this state")
	rootCmd.AddCommand(regionsCmd)
}
