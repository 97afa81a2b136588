package zonal

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/atlas-insights/nightlights-cli/internal/raster"
)

var (
	// ErrShapeMismatch is returned when sample and mask dimensions differ.
	ErrShapeMismatch = eris.New("zonal: sample and mask shapes differ")

	// ErrEmptyMask is returned when the mask selects zero cells; statistics
	// are undefined and never reported as silent NaN.
	ErrEmptyMask = eris.New("zonal: mask selects no cells")
)

// Stats summarizes the included samples. StdDev is the population standard
// deviation, so a single included cell yields StdDev 0.
type Stats struct {
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	Count  int     `json:"count" yaml:"count"`
}

// MaskedStats aggregates samples over the cells where the mask is non-zero.
// Excluded cells are ignored entirely, never treated as zero. NoData samples
// are skipped even when masked in. Returns ErrShapeMismatch when the arrays
// disagree on dimensions and ErrEmptyMask when no cell contributes.
func MaskedStats(samples, mask *raster.Grid) (Stats, error) {
	if samples == nil || mask == nil {
		return Stats{}, eris.New("zonal: nil sample or mask grid")
	}
	if !samples.SameShape(mask) {
		return Stats{}, eris.Wrapf(ErrShapeMismatch, "samples %dx%d, mask %dx%d",
			samples.Rows, samples.Cols, mask.Rows, mask.Cols)
	}

	st := Stats{Min: math.Inf(1), Max: math.Inf(-1)}

	// Welford's online mean/variance.
	var mean, m2 float64
	for i, v := range samples.Data {
		if mask.Data[i] == 0 || samples.IsNoData(v) {
			continue
		}
		st.Count++
		delta := v - mean
		mean += delta / float64(st.Count)
		m2 += delta * (v - mean)

		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
	}

	if st.Count == 0 {
		return Stats{}, eris.Wrap(ErrEmptyMask, "masked statistics")
	}

	st.Mean = mean
	st.StdDev = math.Sqrt(m2 / float64(st.Count))
	return st, nil
}
