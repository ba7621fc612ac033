// Package schema resolves the messy column headers and category strings of
// uploaded survey tables into the canonical vocabulary the engine computes
// over: attribute keys, the two-level land-use taxonomy, and the three-level
// soil taxonomy.
package schema

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/table"
)

// ErrNoUsableAttributes reports that no column of an uploaded dataset
// resolved to a graded attribute, so nothing can be computed from it.
var ErrNoUsableAttributes = eris.New("schema: no usable attribute columns")

// columnAliases maps common raw headers to canonical attribute keys. Checked
// before the case-insensitive exact match against the standard's keys.
var columnAliases = map[string]string{
	"pH":          "ph",
	"PH":          "ph",
	"酸碱度":         "ph",
	"有机质含量":       "OM",
	"有机质(g/kg)":   "OM",
	"全氮含量":        "TN",
	"有效磷(P)":      "AP",
	"速效钾(K)":      "AK",
	"阳离子交换量(CEC)": "CEC",
}

// regionColumns are the headers accepted for the administrative-region
// dimension, in preference order.
var regionColumns = []string{"行政区名称", "乡镇", "镇/街道", "街道", "行政区"}

// NormalizeAttrColumn maps a raw column header to a canonical attribute key
// of the standard: alias table first, then case-insensitive exact match.
// Unresolvable headers are returned trimmed but otherwise untouched.
func NormalizeAttrColumn(header string, std *grading.Standard) string {
	h := strings.TrimSpace(header)
	if h == "" {
		return ""
	}
	if key, ok := columnAliases[h]; ok {
		return key
	}
	for key := range std.Attributes {
		if strings.EqualFold(h, key) {
			return key
		}
	}
	return h
}

// ResolvedAttr pairs a raw source column with its canonical attribute key.
type ResolvedAttr struct {
	Column string
	Key    string
}

// DetectAttributes scans column headers of a table and returns every column
// that resolves to an attribute graded by the standard.
func DetectAttributes(t *table.Table, std *grading.Standard) []ResolvedAttr {
	if t == nil {
		return nil
	}
	var out []ResolvedAttr
	seen := make(map[string]bool)
	for _, col := range t.Columns {
		key := NormalizeAttrColumn(col, std)
		if _, ok := std.Attributes[key]; ok && !seen[key] {
			seen[key] = true
			out = append(out, ResolvedAttr{Column: col, Key: key})
		}
	}
	return out
}

// RegionColumn returns the region column of a table, or "" when the table
// carries none (the region dimension is then omitted from summaries).
func RegionColumn(t *table.Table) string {
	return t.FindColumn(regionColumns...)
}
