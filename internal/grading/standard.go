// Package grading defines grading standards: named sets of per-attribute
// threshold tables that map raw soil measurements to ordinal quality grades.
package grading

import (
	"math"
	"strconv"

	"github.com/rotisserie/eris"
)

// LandFilter restricts which land-use classes an attribute is meaningful for.
type LandFilter string

const (
	LandFilterNone           LandFilter = ""
	LandFilterCultivatedOnly LandFilter = "cultivated_only"   // 耕地
	LandFilterCultGarden     LandFilter = "cultivated_garden" // 耕地+园地
	LandFilterPaddyOnly      LandFilter = "paddy_only"        // 水田
)

// Level is one threshold interval of a grade table. A value v belongs to the
// first level whose Threshold satisfies v <= Threshold.
type Level struct {
	Threshold   float64 `json:"threshold" yaml:"threshold"`
	Grade       string  `json:"grade" yaml:"grade"`
	Description string  `json:"description" yaml:"description"`
}

// AttrConfig is the grade table for a single soil attribute.
type AttrConfig struct {
	Key            string     `json:"key" yaml:"key"`
	Name           string     `json:"name" yaml:"name"`
	Unit           string     `json:"unit" yaml:"unit"`
	ReverseDisplay bool       `json:"reverse_display" yaml:"reverse_display"`
	LandFilter     LandFilter `json:"land_filter,omitempty" yaml:"land_filter,omitempty"`
	Levels         []Level    `json:"levels" yaml:"levels"`

	rank map[string]int
}

// Standard is a complete named grading standard.
type Standard struct {
	ID          string                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Description string                 `json:"description" yaml:"description"`
	Attributes  map[string]*AttrConfig `json:"attributes" yaml:"attributes"`
}

// canonicalGrades is the full grade vocabulary in ordinal order; grade "1级"
// is always the semantically best grade regardless of whether larger or
// smaller raw values are better for a given attribute.
var canonicalGrades = []string{"1级", "2级", "3级", "4级", "5级", "6级", "7级"}

// romanGrades maps grade codes to their roman display form used by renderers.
var romanGrades = map[string]string{
	"1级": "Ⅰ级", "2级": "Ⅱ级", "3级": "Ⅲ级", "4级": "Ⅳ级",
	"5级": "Ⅴ级", "6级": "Ⅵ级", "7级": "Ⅶ级",
}

// RomanGrade returns the roman-numeral display form of a grade code, or the
// code itself when it has no roman form.
func RomanGrade(code string) string {
	if r, ok := romanGrades[code]; ok {
		return r
	}
	return code
}

// Validate checks the level-table invariants: at least one level, strictly
// increasing thresholds, the final threshold +Inf, and unique grade codes.
func (c *AttrConfig) Validate() error {
	if len(c.Levels) == 0 {
		return eris.Errorf("grading: attribute %s has no levels", c.Key)
	}
	seen := make(map[string]bool, len(c.Levels))
	prev := math.Inf(-1)
	for i, lvl := range c.Levels {
		if lvl.Threshold <= prev {
			return eris.Errorf("grading: attribute %s level %d threshold %v not strictly increasing", c.Key, i, lvl.Threshold)
		}
		if lvl.Grade == "" {
			return eris.Errorf("grading: attribute %s level %d has empty grade", c.Key, i)
		}
		if seen[lvl.Grade] {
			return eris.Errorf("grading: attribute %s duplicate grade %s", c.Key, lvl.Grade)
		}
		seen[lvl.Grade] = true
		prev = lvl.Threshold
	}
	if !math.IsInf(c.Levels[len(c.Levels)-1].Threshold, 1) {
		return eris.Errorf("grading: attribute %s final threshold must be +Inf", c.Key)
	}
	c.buildRank()
	return nil
}

// buildRank assigns each grade code its ordinal rank 1..N. Codes from the
// canonical vocabulary rank in vocabulary order; any other codes rank after
// them in level order.
func (c *AttrConfig) buildRank() {
	present := make(map[string]bool, len(c.Levels))
	for _, lvl := range c.Levels {
		present[lvl.Grade] = true
	}
	c.rank = make(map[string]int, len(c.Levels))
	next := 1
	for _, g := range canonicalGrades {
		if present[g] {
			c.rank[g] = next
			next++
		}
	}
	for _, lvl := range c.Levels {
		if _, ok := c.rank[lvl.Grade]; !ok {
			c.rank[lvl.Grade] = next
			next++
		}
	}
}

// Rank returns the ordinal rank 1..N of a grade code, or 0 if the code does
// not belong to this attribute's table.
func (c *AttrConfig) Rank(grade string) int {
	if c.rank == nil {
		c.buildRank()
	}
	return c.rank[grade]
}

// GradeOrder returns the attribute's grade codes in ordinal rank order.
func (c *AttrConfig) GradeOrder() []string {
	if c.rank == nil {
		c.buildRank()
	}
	out := make([]string, len(c.rank))
	for g, r := range c.rank {
		out[r-1] = g
	}
	return out
}

// Thresholds returns the level thresholds in ascending order. The slice is a
// copy; callers may keep it across calls.
func (c *AttrConfig) Thresholds() []float64 {
	out := make([]float64, len(c.Levels))
	for i, lvl := range c.Levels {
		out[i] = lvl.Threshold
	}
	return out
}

// GradeRanges returns a human-readable value range per grade code
// (e.g. "≤10", "10～20", ">40") for table headers.
func (c *AttrConfig) GradeRanges() map[string]string {
	ranges := make(map[string]string, len(c.Levels))
	for i, lvl := range c.Levels {
		switch {
		case i == 0:
			ranges[lvl.Grade] = "≤" + trimFloat(lvl.Threshold)
		case math.IsInf(lvl.Threshold, 1):
			ranges[lvl.Grade] = ">" + trimFloat(c.Levels[i-1].Threshold)
		default:
			ranges[lvl.Grade] = trimFloat(c.Levels[i-1].Threshold) + "～" + trimFloat(lvl.Threshold)
		}
	}
	return ranges
}

// Validate checks every attribute table in the standard.
func (s *Standard) Validate() error {
	if s.ID == "" {
		return eris.New("grading: standard id is required")
	}
	if len(s.Attributes) == 0 {
		return eris.Errorf("grading: standard %s has no attributes", s.ID)
	}
	for key, cfg := range s.Attributes {
		if cfg.Key == "" {
			cfg.Key = key
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Attr returns the grade table for an attribute key, or nil when the
// standard does not grade that attribute.
func (s *Standard) Attr(key string) *AttrConfig {
	return s.Attributes[key]
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
