package stats

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agrisurvey/soilreport/internal/classify"
	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/schema"
	"github.com/agrisurvey/soilreport/internal/table"
)

// regionCollator orders region names the way reports present them: pinyin
// order for Chinese names.
var regionCollator = collate.New(language.Chinese)

// areaColumns are the headers accepted for the zone area of mapped tables.
var areaColumns = []string{"面积", "MJ", "area"}

// Prepared is the classified working set of one table for one attribute:
// parallel slices over the rows that survived numeric coercion, the
// positive-value requirement and the attribute's land filter.
type Prepared struct {
	Values []float64
	Grades []string

	Region    []string
	HasRegion bool

	Land    []schema.LandClass
	HasLand bool

	Soil    []schema.SoilType
	HasSoil bool

	Area    []float64
	HasArea bool
}

// Prepare classifies a table's attribute column and resolves its dimension
// columns. Returns nil when the table is nil or lacks the attribute column.
// Rows with unclassifiable values are dropped; the land filter drops rows
// only when the table actually carries a land-use column.
func Prepare(t *table.Table, cfg *grading.AttrConfig) *Prepared {
	if t == nil || t.ColumnIndex(cfg.Key) < 0 {
		return nil
	}

	values := t.NumericColumn(cfg.Key)
	grades := classify.ClassifyColumn(values, cfg)

	regionCol := schema.RegionColumn(t)
	landCol := schema.LandColumn(t)
	areaCol := t.FindColumn(areaColumns...)

	var regions []string
	if regionCol != "" {
		regions = t.Column(regionCol)
	}
	land := schema.LandClasses(t)
	soil := schema.SoilTypes(t)
	var area []float64
	if areaCol != "" {
		area = t.NumericColumn(areaCol)
	}

	applyFilter := cfg.LandFilter != grading.LandFilterNone && landCol != ""

	p := &Prepared{
		HasRegion: regionCol != "",
		HasLand:   landCol != "",
		HasSoil:   schema.HasSoilColumns(t),
		HasArea:   areaCol != "",
	}
	for i, v := range values {
		if grades[i] == "" {
			continue
		}
		if applyFilter && !schema.MatchesLandFilter(land[i], cfg.LandFilter) {
			continue
		}
		p.Values = append(p.Values, v)
		p.Grades = append(p.Grades, grades[i])
		if regions != nil {
			p.Region = append(p.Region, regions[i])
		} else {
			p.Region = append(p.Region, "")
		}
		p.Land = append(p.Land, land[i])
		p.Soil = append(p.Soil, soil[i])
		if area != nil {
			a := area[i]
			if math.IsNaN(a) || a < 0 {
				a = 0
			}
			p.Area = append(p.Area, a)
		} else {
			p.Area = append(p.Area, 0)
		}
	}
	return p
}

// Len returns the number of classified rows.
func (p *Prepared) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Values)
}

// TotalArea returns the summed zone area of the working set.
func (p *Prepared) TotalArea() float64 {
	var sum float64
	if p == nil {
		return 0
	}
	for _, a := range p.Area {
		sum += a
	}
	return sum
}

// subset indexes rows of a Prepared matching a predicate.
func (p *Prepared) subset(keep func(i int) bool) []int {
	if p == nil {
		return nil
	}
	var idx []int
	for i := range p.Values {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return idx
}

// fillBucket populates one bucket from mapped-row indices (areas) and
// sample-row indices (counts and descriptives).
func fillBucket(b *Bucket, cfg *grading.AttrConfig, mapped *Prepared, mappedIdx []int, sample *Prepared, sampleIdx []int, totalSamples int) {
	for _, i := range mappedIdx {
		gs := b.Grades[mapped.Grades[i]]
		if gs == nil {
			gs = &GradeStat{Grade: mapped.Grades[i]}
			b.Grades[mapped.Grades[i]] = gs
		}
		gs.Area += mapped.Area[i]
		b.TotalArea += mapped.Area[i]
	}
	if b.TotalArea > 0 {
		for _, gs := range b.Grades {
			gs.Pct = gs.Area / b.TotalArea * 100
		}
		b.AvgGrade = WeightedAvgGrade(b.Grades, cfg)
	}

	b.SampleCount = len(sampleIdx)
	if len(sampleIdx) > 0 {
		minV := math.Inf(1)
		maxV := math.Inf(-1)
		var sum float64
		for _, i := range sampleIdx {
			v := sample.Values[i]
			sum += v
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
			gs := b.Grades[sample.Grades[i]]
			if gs == nil {
				gs = &GradeStat{Grade: sample.Grades[i]}
				b.Grades[sample.Grades[i]] = gs
			}
			gs.Count++
		}
		b.SampleMean = sum / float64(len(sampleIdx))
		b.SampleMin = minV
		b.SampleMax = maxV
		if totalSamples > 0 {
			b.SamplePct = float64(len(sampleIdx)) / float64(totalSamples) * 100
		}
	}
}

// AggregateRegion buckets the working sets by administrative region, sorted
// by Chinese collation. Returns nil when neither table has a region column
// (the dimension is omitted from the summary).
func AggregateRegion(mapped, sample *Prepared, cfg *grading.AttrConfig, totalSamples int) []Bucket {
	hasMapped := mapped != nil && mapped.HasRegion
	hasSample := sample != nil && sample.HasRegion
	if !hasMapped && !hasSample {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	collect := func(p *Prepared) {
		for _, r := range p.Region {
			if r == "" || seen[r] {
				continue
			}
			seen[r] = true
			names = append(names, r)
		}
	}
	if hasMapped {
		collect(mapped)
	}
	if hasSample {
		collect(sample)
	}
	sort.Slice(names, func(i, j int) bool {
		return regionCollator.CompareString(names[i], names[j]) < 0
	})

	buckets := make([]Bucket, 0, len(names))
	for _, name := range names {
		b := Bucket{
			Kind:    DimensionRegion,
			KeyPath: []string{name},
			Grades:  newGradeStats(cfg.GradeOrder()),
		}
		var mIdx, sIdx []int
		if hasMapped {
			mIdx = mapped.subset(func(i int) bool { return mapped.Region[i] == name })
		}
		if hasSample {
			sIdx = sample.subset(func(i int) bool { return sample.Region[i] == name })
		}
		fillBucket(&b, cfg, mapped, mIdx, sample, sIdx, totalSamples)
		buckets = append(buckets, b)
	}
	return buckets
}

// AggregateLandUse buckets by the fixed two-level land-use structure. A
// primary category with secondaries yields a rollup parent whose grades are
// the sums of its leaf children. Returns nil when neither table carries a
// land-use column.
func AggregateLandUse(mapped, sample *Prepared, cfg *grading.AttrConfig, totalSamples int) []Bucket {
	hasMapped := mapped != nil && mapped.HasLand
	hasSample := sample != nil && sample.HasLand
	if !hasMapped && !hasSample {
		return nil
	}

	var buckets []Bucket
	for _, entry := range schema.LandUseStructure {
		primary := entry.Primary
		matchPrimary := func(p *Prepared) []int {
			return p.subset(func(i int) bool { return p.Land[i].Primary == primary })
		}

		var mIdx, sIdx []int
		if hasMapped {
			mIdx = matchPrimary(mapped)
		}
		if hasSample {
			sIdx = matchPrimary(sample)
		}

		if len(entry.Secondaries) == 0 {
			b := Bucket{
				Kind:    DimensionLandUse,
				KeyPath: []string{primary},
				Grades:  newGradeStats(cfg.GradeOrder()),
			}
			fillBucket(&b, cfg, mapped, mIdx, sample, sIdx, totalSamples)
			buckets = append(buckets, b)
			continue
		}

		parent := Bucket{
			Kind:    DimensionLandUse,
			KeyPath: []string{primary},
			Rollup:  true,
			Grades:  newGradeStats(cfg.GradeOrder()),
		}
		fillBucket(&parent, cfg, mapped, mIdx, sample, sIdx, totalSamples)
		buckets = append(buckets, parent)

		for _, secondary := range entry.Secondaries {
			b := Bucket{
				Kind:    DimensionLandUse,
				KeyPath: []string{primary, secondary},
				Grades:  newGradeStats(cfg.GradeOrder()),
			}
			var smIdx, ssIdx []int
			if hasMapped {
				smIdx = mapped.subset(func(i int) bool {
					return mapped.Land[i].Primary == primary && mapped.Land[i].Secondary == secondary
				})
			}
			if hasSample {
				ssIdx = sample.subset(func(i int) bool {
					return sample.Land[i].Primary == primary && sample.Land[i].Secondary == secondary
				})
			}
			fillBucket(&b, cfg, mapped, smIdx, sample, ssIdx, totalSamples)
			buckets = append(buckets, b)
		}
	}
	return buckets
}

// AggregateSoilType buckets by the soil taxonomy triple, ordered by the
// fixed domain order, each 土类 preceded by a rollup parent. Rows lacking a
// complete 亚类/土属 pair are excluded. Returns nil when neither table has
// soil-taxonomy columns.
func AggregateSoilType(mapped, sample *Prepared, cfg *grading.AttrConfig, totalSamples int) []Bucket {
	hasMapped := mapped != nil && mapped.HasSoil
	hasSample := sample != nil && sample.HasSoil
	if !hasMapped && !hasSample {
		return nil
	}

	seen := make(map[schema.SoilType]bool)
	var triples []schema.SoilType
	collect := func(p *Prepared) {
		for _, st := range p.Soil {
			if !st.Valid() || seen[st] {
				continue
			}
			seen[st] = true
			triples = append(triples, st)
		}
	}
	if hasMapped {
		collect(mapped)
	}
	if hasSample {
		collect(sample)
	}
	if len(triples) == 0 {
		return nil
	}
	sort.Slice(triples, func(i, j int) bool { return schema.SoilLess(triples[i], triples[j]) })

	// Group leaves under their 土类 in first-appearance order of the sorted
	// triples. A major whose triples straddle the known/unknown sort boundary
	// still gets exactly one rollup parent.
	var majors []string
	byMajor := make(map[string][]schema.SoilType)
	for _, st := range triples {
		if _, ok := byMajor[st.Major]; !ok {
			majors = append(majors, st.Major)
		}
		byMajor[st.Major] = append(byMajor[st.Major], st)
	}

	var buckets []Bucket
	for _, major := range majors {
		parent := Bucket{
			Kind:    DimensionSoilType,
			KeyPath: []string{major},
			Rollup:  true,
			Grades:  newGradeStats(cfg.GradeOrder()),
		}
		var mIdx, sIdx []int
		if hasMapped {
			mIdx = mapped.subset(func(i int) bool {
				return mapped.Soil[i].Valid() && mapped.Soil[i].Major == major
			})
		}
		if hasSample {
			sIdx = sample.subset(func(i int) bool {
				return sample.Soil[i].Valid() && sample.Soil[i].Major == major
			})
		}
		fillBucket(&parent, cfg, mapped, mIdx, sample, sIdx, totalSamples)
		buckets = append(buckets, parent)

		for _, st := range byMajor[major] {
			b := Bucket{
				Kind:    DimensionSoilType,
				KeyPath: []string{st.Major, st.Sub, st.Genus},
				Grades:  newGradeStats(cfg.GradeOrder()),
			}
			var mIdx, sIdx []int
			if hasMapped {
				mIdx = mapped.subset(func(i int) bool { return mapped.Soil[i] == st })
			}
			if hasSample {
				sIdx = sample.subset(func(i int) bool { return sample.Soil[i] == st })
			}
			fillBucket(&b, cfg, mapped, mIdx, sample, sIdx, totalSamples)
			buckets = append(buckets, b)
		}
	}
	return buckets
}
