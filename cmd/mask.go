package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atlas-insights/nightlights-cli/internal/raster"
	"github.com/atlas-insights/nightlights-cli/internal/zonal"
)

var maskCmd = &cobra.Command{
	Use:   "mask",
	Short: "Resolve the pixel window and mask for a region",
	Long: `Resolves a county's bounding box to a pixel window on the raster and
rasterizes the boundary into a mask over that window. Prints the window and
coverage; --out writes the mask as a PNG preview (white = inside).`,
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

		window, mask, err := zonal.WindowAndMask(region.Geometry, ds)
		if err != nil {
			return eris.Wrapf(err, "mask: %s", region.Name)
		}

		var inside int
		for _, v := range mask.Data {
			if v != zonal.Background {
				inside++
			}
		}

		fmt.Printf("Region:  %s, %s\n", region.Name, states.Name(fips))
		fmt.Printf("Window:  %s (%dx%d pixels)\n", window, window.Cols(), window.Rows())
		fmt.Printf("Inside:  %d of %d cells (%.1f%%)\n",
			inside, len(mask.Data), 100*float64(inside)/float64(len(mask.Data)))

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return nil
		}
		invert, _ := cmd.Flags().GetBool("invert")
		if err := writeMaskPNG(out, mask, invert); err != nil {
			return err
		}
		zap.L().Info("mask preview written", zap.String("path", out))
		return nil
	},
}

// writeMaskPNG renders the mask as grayscale, white for inside cells (or
// the inverse with invert set).
func writeMaskPNG(path string, mask *raster.Grid, invert bool) error {
	img := image.NewGray(image.Rect(0, 0, mask.Cols, mask.Rows))
	for r := 0; r < mask.Rows; r++ {
		for c := 0; c < mask.Cols; c++ {
			on := mask.At(r, c) != zonal.Background
			if invert {
				on = !on
			}
			if on {
				img.Pix[r*img.Stride+c] = 0xff
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "mask: create %s", path)
	}
	defer func() { _ = f.Close() }()

	return eris.Wrapf(png.Encode(f, img), "mask: encode %s", path)
}

func init() {
	maskCmd.Flags().String("state", "", "state FIPS code, abbreviation, or name (required)")
	maskCmd.Flags().String("county", "", "county name (required)")
	maskCmd.Flags().String("boundaries", "", "boundary file (default: from config)")
	maskCmd.Flags().String("format", "", "boundary format: geojson or shapefile")
	maskCmd.Flags().String("state-table", "", "FIPS state code table (default: from config)")
	maskCmd.Flags().String("raster", "", "raster file (default: from config)")
	maskCmd.Flags().Float64("nodata", 0, "NoData sample value to exclude")
	maskCmd.Flags().String("out", "", "write mask preview PNG to this path")
	maskCmd.Flags().Bool("invert", false, "write inverted polarity (white = outside)")
	_ = maskCmd.MarkFlagRequired("state")
	_ = maskCmd.MarkFlagRequired("county")
	rootCmd.AddCommand(maskCmd)
}
