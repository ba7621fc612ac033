package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ReportedPercentiles is the fixed percentile set reported per attribute for
// outlier and context analysis.
var ReportedPercentiles = []float64{0.02, 0.05, 0.10, 0.20, 0.80, 0.90, 0.95, 0.98}

// Percentiles computes the reported percentile set over the classifiable
// sample values with linear interpolation. Returns an empty map for empty
// input; never panics. The input slice is not modified.
func Percentiles(values []float64) map[string]float64 {
	out := make(map[string]float64, len(ReportedPercentiles))
	if len(values) == 0 {
		return out
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	for _, p := range ReportedPercentiles {
		label := fmt.Sprintf("%d%%", int(p*100))
		out[label] = stat.Quantile(p, stat.LinInterp, sorted, nil)
	}
	return out
}
