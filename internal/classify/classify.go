// Package classify maps raw numeric measurements to ordinal grade codes
// using a grading standard's threshold table.
//
// One interval rule is shared by the scalar and the batch path: a value v
// belongs to the first level whose threshold satisfies v <= threshold, so a
// value exactly on a threshold falls in the lower (earlier) grade. Missing,
// NaN and non-positive values are unclassifiable, never errors.
package classify

import (
	"math"
	"sort"

	"github.com/agrisurvey/soilreport/internal/grading"
)

// levelIndex is the single search rule: smallest i with v <= thresholds[i].
// Thresholds end with +Inf, so every positive value lands on some level.
func levelIndex(thresholds []float64, v float64) int {
	return sort.SearchFloat64s(thresholds, v)
}

// Classify grades a single value against an attribute table. The second
// return is false when the value is unclassifiable (NaN or <= 0) or when the
// config is nil.
func Classify(v float64, cfg *grading.AttrConfig) (string, bool) {
	if cfg == nil || math.IsNaN(v) || v <= 0 {
		return "", false
	}
	i := levelIndex(cfg.Thresholds(), v)
	if i >= len(cfg.Levels) {
		return "", false
	}
	return cfg.Levels[i].Grade, true
}

// ClassifyColumn grades a whole column in one pass against a single sorted
// threshold snapshot. Unclassifiable cells yield "". Results are identical
// to calling Classify per element.
func ClassifyColumn(values []float64, cfg *grading.AttrConfig) []string {
	out := make([]string, len(values))
	if cfg == nil {
		return out
	}
	thresholds := cfg.Thresholds()
	for i, v := range values {
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		idx := levelIndex(thresholds, v)
		if idx >= len(cfg.Levels) {
			continue
		}
		out[i] = cfg.Levels[idx].Grade
	}
	return out
}
