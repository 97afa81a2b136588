// Package report exports computed region statistics as CSV or XLSX.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/atlas-insights/nightlights-cli/internal/zonal"
)

// Row is one region's statistics ready for export. State is the resolved
// display name; Err is set instead of Stats for regions that failed.
type Row struct {
	StateFIPS string
	State     string
	Region    string
	Stats     zonal.Stats
	Err       string
}

var header = []string{"state_fips", "state", "region", "min", "max", "mean", "stddev", "count", "error"}

func (r Row) strings() []string {
	if r.Err != "" {
		return []string{r.StateFIPS, r.State, r.Region, "", "", "", "", "", r.Err}
	}
	return []string{
		r.StateFIPS, r.State, r.Region,
		formatFloat(r.Stats.Min),
		formatFloat(r.Stats.Max),
		formatFloat(r.Stats.Mean),
		formatFloat(r.Stats.StdDev),
		strconv.Itoa(r.Stats.Count),
		"",
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes the rows with a header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, r := range rows {
		if err := cw.Write(r.strings()); err != nil {
			return eris.Wrapf(err, "report: write csv row %s/%s", r.StateFIPS, r.Region)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// WriteXLSX writes the rows to a single-sheet workbook at path.
func WriteXLSX(path string, rows []Row) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Statistics")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().SetString(h)
	}

	for _, r := range rows {
		xr := sheet.AddRow()
		xr.AddCell().SetString(r.StateFIPS)
		xr.AddCell().SetString(r.State)
		xr.AddCell().SetString(r.Region)
		if r.Err != "" {
			for i := 0; i < 5; i++ {
				xr.AddCell()
			}
			xr.AddCell().SetString(r.Err)
			continue
		}
		xr.AddCell().SetFloat(r.Stats.Min)
		xr.AddCell().SetFloat(r.Stats.Max)
		xr.AddCell().SetFloat(r.Stats.Mean)
		xr.AddCell().SetFloat(r.Stats.StdDev)
		xr.AddCell().SetInt(r.Stats.Count)
		xr.AddCell()
	}

	return eris.Wrapf(file.Save(path), "report: save xlsx %s", path)
}
