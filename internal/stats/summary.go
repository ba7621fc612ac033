// Package stats aggregates classified soil observations into per-attribute
// statistical summaries along the region, land-use and soil-taxonomy
// dimensions. Summaries are assembled once per request and never mutated
// afterwards; renderers receive them read-only.
package stats

// DimensionKind names the grouping axis of a bucket.
type DimensionKind string

const (
	DimensionRegion   DimensionKind = "region"
	DimensionLandUse  DimensionKind = "land_use"
	DimensionSoilType DimensionKind = "soil_taxonomy"
)

// GradeStat is the per-grade slice of a breakdown: sample count on one side,
// mapped area on the other, plus the share of the enclosing total.
type GradeStat struct {
	Grade string  `json:"grade"`
	Count int     `json:"count"`
	Area  float64 `json:"area"`
	Pct   float64 `json:"pct"`
}

// SampleStats are the global descriptives of the classifiable sample values.
type SampleStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Std    float64 `json:"std"`
	CV     float64 `json:"cv"`
}

// AreaStats are the descriptives of the mapped zone areas.
type AreaStats struct {
	TotalArea float64 `json:"total_area"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// Bucket is one group of a dimensional breakdown. KeyPath is the group key
// from coarse to fine, e.g. ["耕地"] for a rollup parent or ["耕地", "水田"]
// for a leaf. Parents hold the sums of their children.
type Bucket struct {
	Kind    DimensionKind `json:"kind"`
	KeyPath []string      `json:"key_path"`
	Rollup  bool          `json:"rollup,omitempty"`

	Grades    map[string]*GradeStat `json:"grades"`
	TotalArea float64               `json:"total_area"`
	AvgGrade  *float64              `json:"avg_grade,omitempty"`

	SampleCount int     `json:"sample_count"`
	SampleMean  float64 `json:"sample_mean"`
	SampleMin   float64 `json:"sample_min"`
	SampleMax   float64 `json:"sample_max"`
	SamplePct   float64 `json:"sample_pct"`
}

// AttributeSummary is the complete, immutable statistical summary of one
// soil attribute, composed from sample-table and mapped-table reductions.
type AttributeSummary struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Unit string `json:"unit"`

	Sample SampleStats `json:"sample"`
	Area   AreaStats   `json:"area"`

	GradeOrder []string              `json:"grade_order"`
	Grades     map[string]*GradeStat `json:"grades"`
	AvgGrade   *float64              `json:"avg_grade,omitempty"`

	Buckets []Bucket `json:"buckets"`

	Percentiles map[string]float64 `json:"percentiles"`
}

// BucketsFor returns the buckets of one dimension, in presentation order.
func (s *AttributeSummary) BucketsFor(kind DimensionKind) []Bucket {
	var out []Bucket
	for _, b := range s.Buckets {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// newGradeStats pre-creates a zeroed GradeStat per grade so breakdowns always
// list every grade of the table, including empty ones.
func newGradeStats(gradeOrder []string) map[string]*GradeStat {
	m := make(map[string]*GradeStat, len(gradeOrder))
	for _, g := range gradeOrder {
		m[g] = &GradeStat{Grade: g}
	}
	return m
}
