package stats

import (
	"math"

	"github.com/agrisurvey/soilreport/internal/grading"
)

// WeightedAvgGrade computes the area-weighted mean ordinal grade of a
// per-grade area breakdown: Σ(rank·area)/Σ(area) over grades with positive
// area. Grades with zero area contribute to neither side. Returns nil when
// no area is present; otherwise the result is within [1, N].
func WeightedAvgGrade(grades map[string]*GradeStat, cfg *grading.AttrConfig) *float64 {
	var num, den float64
	for code, gs := range grades {
		if gs == nil || gs.Area <= 0 {
			continue
		}
		rank := cfg.Rank(code)
		if rank == 0 {
			continue
		}
		num += float64(rank) * gs.Area
		den += gs.Area
	}
	if den == 0 {
		return nil
	}
	avg := math.Round(num/den*100) / 100
	return &avg
}
