package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/table"
)

// Compute assembles the complete statistical summary of one attribute from
// a mapped table (zone records with areas) and a sample table (point
// measurements). Either table may be nil or lack the attribute column; the
// corresponding half of the summary is simply empty. Every field is derived
// exactly once; the returned summary is never mutated afterwards.
func Compute(mapped, sample *table.Table, cfg *grading.AttrConfig) *AttributeSummary {
	gradeOrder := cfg.GradeOrder()
	summary := &AttributeSummary{
		Key:         cfg.Key,
		Name:        cfg.Name,
		Unit:        cfg.Unit,
		GradeOrder:  gradeOrder,
		Grades:      newGradeStats(gradeOrder),
		Percentiles: map[string]float64{},
	}

	pm := Prepare(mapped, cfg)
	ps := Prepare(sample, cfg)

	if pm != nil && pm.HasArea && pm.Len() > 0 {
		computeAreaStats(summary, pm, cfg)
	}
	if ps != nil && ps.Len() > 0 {
		computeSampleStats(summary, ps)
	}

	totalSamples := summary.Sample.Count
	summary.Buckets = append(summary.Buckets, AggregateRegion(pm, ps, cfg, totalSamples)...)
	summary.Buckets = append(summary.Buckets, AggregateLandUse(pm, ps, cfg, totalSamples)...)
	summary.Buckets = append(summary.Buckets, AggregateSoilType(pm, ps, cfg, totalSamples)...)

	return summary
}

// computeAreaStats fills the area half of the summary: global area
// descriptives, per-grade area sums and shares, and the weighted grade.
func computeAreaStats(s *AttributeSummary, pm *Prepared, cfg *grading.AttrConfig) {
	areas := make([]float64, 0, len(pm.Area))
	var total float64
	for i, a := range pm.Area {
		total += a
		areas = append(areas, a)

		gs := s.Grades[pm.Grades[i]]
		if gs == nil {
			gs = &GradeStat{Grade: pm.Grades[i]}
			s.Grades[pm.Grades[i]] = gs
		}
		gs.Area += a
	}

	s.Area.TotalArea = total
	if len(areas) > 0 {
		sorted := make([]float64, len(areas))
		copy(sorted, areas)
		sort.Float64s(sorted)
		s.Area.Mean = total / float64(len(areas))
		s.Area.Median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
		s.Area.Min = sorted[0]
		s.Area.Max = sorted[len(sorted)-1]
	}

	if total > 0 {
		for _, gs := range s.Grades {
			gs.Pct = gs.Area / total * 100
		}
		s.AvgGrade = WeightedAvgGrade(s.Grades, cfg)
	}
}

// computeSampleStats fills the sample half: descriptives of the classifiable
// point values, per-grade counts, and the percentile set. Grade shares are
// count-based only when the mapped side contributed no area.
func computeSampleStats(s *AttributeSummary, ps *Prepared) {
	values := ps.Values
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Sample.Count = len(values)
	s.Sample.Mean = stat.Mean(values, nil)
	s.Sample.Median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	s.Sample.Min = sorted[0]
	s.Sample.Max = sorted[len(sorted)-1]
	if len(values) > 1 {
		s.Sample.Std = stat.StdDev(values, nil)
	}
	if s.Sample.Mean != 0 {
		s.Sample.CV = s.Sample.Std / s.Sample.Mean
	}

	for i := range values {
		gs := s.Grades[ps.Grades[i]]
		if gs == nil {
			gs = &GradeStat{Grade: ps.Grades[i]}
			s.Grades[ps.Grades[i]] = gs
		}
		gs.Count++
	}
	if s.Area.TotalArea == 0 && s.Sample.Count > 0 {
		for _, gs := range s.Grades {
			gs.Pct = float64(gs.Count) / float64(s.Sample.Count) * 100
		}
	}

	s.Percentiles = Percentiles(values)
}
