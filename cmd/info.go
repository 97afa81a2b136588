package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show raster metadata",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ds, err := openDataset(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = ds.Close() }()

		tr := ds.Transform()
		x0, y0 := tr.Origin()
		x1, y1 := tr.Apply(float64(ds.Width()), float64(ds.Height()))

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Size:\t%d x %d pixels\n", ds.Width(), ds.Height())
		fmt.Fprintf(w, "Pixel size:\t%g x %g\n", tr.PixelWidth(), tr.PixelHeight())
		fmt.Fprintf(w, "Origin:\t(%g, %g)\n", x0, y0)
		fmt.Fprintf(w, "Extent:\t(%g, %g) - (%g, %g)\n", x0, y1, x1, y0)
		fmt.Fprintf(w, "Axis aligned:\t%v\n", tr.AxisAligned())
		fmt.Fprintf(w, "Transform:\t%v\n", tr)
		return w.Flush()
	},
}

func init() {
	infoCmd.Flags().String("raster", "", "raster file (default: from config)")
	infoCmd.Flags().Float64("nodata", 0, "NoData sample value to exclude")
	rootCmd.AddCommand(infoCmd)
}
