package schema

import (
	"strings"

	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/table"
)

// Land-use primary categories.
const (
	LandCultivated = "耕地"
	LandGarden     = "园地"
	LandForest     = "林地"
	LandGrass      = "草地"
	LandOther      = "其他"
)

// LandClass is the two-level land-use taxonomy node for one observation.
type LandClass struct {
	Primary   string
	Secondary string
}

// LandUseStructure fixes the presentation order of land-use buckets. Primary
// categories with no secondaries are reported as a single leaf.
var LandUseStructure = []struct {
	Primary     string
	Secondaries []string
}{
	{LandCultivated, []string{"水田", "水浇地", "旱地"}},
	{LandGarden, []string{"果园", "茶园", "其他园地"}},
	{LandForest, nil},
	{LandGrass, nil},
	{LandOther, nil},
}

// exactLandClasses is the precompiled raw-name lookup, consulted before the
// keyword containment fallbacks.
var exactLandClasses = map[string]LandClass{
	"水田":  {LandCultivated, "水田"},
	"水浇地": {LandCultivated, "水浇地"},
	"旱地":  {LandCultivated, "旱地"},
	"果园":  {LandGarden, "果园"},
	"茶园":  {LandGarden, "茶园"},
}

// landColumns are the headers accepted as the raw land-use description.
var landColumns = []string{"二级地类", "DLMC", "dlmc", "地类名称", "dlm"}

// ClassifyLand maps a raw land-use description to its taxonomy node: exact
// match first, then containment on the 园地/林地/草地 keywords, default 其他.
func ClassifyLand(raw string) LandClass {
	s := strings.TrimSpace(raw)
	if s == "" {
		return LandClass{LandOther, LandOther}
	}
	if lc, ok := exactLandClasses[s]; ok {
		return lc
	}
	switch {
	case strings.Contains(s, "园地"):
		return LandClass{LandGarden, "其他园地"}
	case strings.Contains(s, "林地"):
		return LandClass{LandForest, LandForest}
	case strings.Contains(s, "草地"):
		return LandClass{LandGrass, LandGrass}
	default:
		return LandClass{LandOther, LandOther}
	}
}

// LandColumn returns the land-use description column of a table, or "".
func LandColumn(t *table.Table) string {
	return t.FindColumn(landColumns...)
}

// LandClasses resolves the land taxonomy node for every row. Tables without
// a land column get the 其他 fallback for all rows.
func LandClasses(t *table.Table) []LandClass {
	out := make([]LandClass, t.Len())
	col := LandColumn(t)
	if col == "" {
		for i := range out {
			out[i] = LandClass{LandOther, LandOther}
		}
		return out
	}
	for i, raw := range t.Column(col) {
		out[i] = ClassifyLand(raw)
	}
	return out
}

// MatchesLandFilter reports whether a land class passes an attribute's land
// filter (certain attributes are only meaningful on specific land uses).
func MatchesLandFilter(lc LandClass, f grading.LandFilter) bool {
	switch f {
	case grading.LandFilterNone:
		return true
	case grading.LandFilterCultGarden:
		return lc.Primary == LandCultivated || lc.Primary == LandGarden
	case grading.LandFilterCultivatedOnly:
		return lc.Primary == LandCultivated
	case grading.LandFilterPaddyOnly:
		return lc.Primary == LandCultivated && lc.Secondary == "水田"
	default:
		return true
	}
}
