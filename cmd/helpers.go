package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/atlas-insights/nightlights-cli/internal/boundary"
	"github.com/atlas-insights/nightlights-cli/internal/raster"
)

// openDataset opens the raster named by the flag, falling back to config.
func openDataset(cmd *cobra.Command) (raster.Dataset, error) {
	path, _ := cmd.Flags().GetString("raster")
	if path == "" {
		path = cfg.Raster.Path
	}
	if path == "" {
		return nil, eris.New("no raster file given (--raster or raster.path in config)")
	}

	opts := raster.Options{NoData: cfg.Raster.NoData, SetNoData: cfg.Raster.UseNoData}
	if cmd.Flags().Changed("nodata") {
		opts.NoData, _ = cmd.Flags().GetFloat64("nodata")
		opts.SetNoData = true
	}
	return raster.Open(path, opts)
}

// loadRegions loads the boundary set named by the flags, falling back to
// config for both path and format.
func loadRegions(cmd *cobra.Command) (*boundary.Set, string, error) {
	path, _ := cmd.Flags().GetString("boundaries")
	if path == "" {
		path = cfg.Boundaries.Path
	}
	if path == "" {
		return nil, "", eris.New("no boundary file given (--boundaries or boundaries.path in config)")
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Boundaries.Format
	}

	var set *boundary.Set
	var err error
	switch format {
	case "geojson":
		set, err = boundary.LoadGeoJSON(path)
	case "shapefile":
		set, err = boundary.LoadShapefile(path)
	default:
		return nil, "", eris.Errorf("unknown boundary format %q (want geojson or shapefile)", format)
	}
	return set, path, err
}

// loadStateTable loads the FIPS state table when configured; several
// commands work without one and fall back to raw codes.
func loadStateTable(cmd *cobra.Command) (*boundary.StateTable, error) {
	path, _ := cmd.Flags().GetString("state-table")
	if path == "" {
		path = cfg.Boundaries.StateTable
	}
	if path == "" {
		return nil, nil
	}
	return boundary.LoadStateTable(path)
}

// resolveStateFIPS turns a user-supplied state identifier into a FIPS code,
// using the table when available and assuming a raw code otherwise.
func resolveStateFIPS(states *boundary.StateTable, id string) (string, error) {
	if states == nil {
		return strings.TrimSpace(id), nil
	}
	s, err := states.Resolve(id)
	if err != nil {
		return "", err
	}
	return s.FIPS, nil
}

// splitAndTrim splits a comma-separated flag value into trimmed parts.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
