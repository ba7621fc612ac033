package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/table"
)

func omCfg(t *testing.T) *grading.AttrConfig {
	t.Helper()
	cfg := grading.Jiangsu().Attr("OM")
	require.NotNil(t, cfg)
	require.NoError(t, cfg.Validate())
	return cfg
}

// mappedTable builds a zone table with OM values, region, land use and area.
func mappedTable(rows [][]string) *table.Table {
	return table.New([]string{"行政区名称", "二级地类", "土类", "亚类", "土属", "OM", "面积"}, rows)
}

func sampleTable(rows [][]string) *table.Table {
	return table.New([]string{"行政区名称", "二级地类", "土类", "亚类", "土属", "OM"}, rows)
}

func TestPrepare_DropsUnclassifiableRows(t *testing.T) {
	cfg := omCfg(t)
	tbl := mappedTable([][]string{
		{"东镇", "水田", "", "", "", "25", "10"},
		{"东镇", "水田", "", "", "", "0", "10"},   // non-positive
		{"东镇", "水田", "", "", "", "abc", "10"}, // coercion failure
		{"东镇", "水田", "", "", "", "", "10"},    // missing
	})
	p := Prepare(tbl, cfg)
	require.NotNil(t, p)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, "3级", p.Grades[0])
	assert.True(t, p.HasArea)
	assert.True(t, p.HasRegion)
}

func TestPrepare_MissingAttrColumn(t *testing.T) {
	cfg := omCfg(t)
	assert.Nil(t, Prepare(table.New([]string{"ph"}, nil), cfg))
	assert.Nil(t, Prepare(nil, cfg))
}

func TestPrepare_LandFilter(t *testing.T) {
	// GZCHD only applies to cultivated land.
	cfg := grading.Jiangsu().Attr("GZCHD")
	require.NotNil(t, cfg)

	tbl := table.New(
		[]string{"行政区名称", "二级地类", "土类", "亚类", "土属", "GZCHD", "面积"},
		[][]string{
			{"东镇", "水田", "", "", "", "18", "10"},
			{"东镇", "有林地", "", "", "", "18", "10"}, // filtered out
		})
	p := Prepare(tbl, cfg)
	assert.Equal(t, 1, p.Len())

	// Without a land column the filter cannot apply; rows are kept.
	noLand := table.New([]string{"GZCHD", "面积"}, [][]string{{"18", "10"}, {"22", "5"}})
	p = Prepare(noLand, cfg)
	assert.Equal(t, 2, p.Len())
}

func TestAggregateRegion_ConservationAndSorting(t *testing.T) {
	cfg := omCfg(t)
	mapped := mappedTable([][]string{
		{"北村", "水田", "", "", "", "25", "100"},
		{"北村", "旱地", "", "", "", "45", "50"},
		{"安村", "水田", "", "", "", "15", "30"},
	})
	sample := sampleTable([][]string{
		{"北村", "水田", "", "", "", "25"},
		{"安村", "水田", "", "", "", "35"},
		{"安村", "旱地", "", "", "", "8"},
	})

	pm := Prepare(mapped, cfg)
	ps := Prepare(sample, cfg)
	buckets := AggregateRegion(pm, ps, cfg, ps.Len())
	require.Len(t, buckets, 2)

	// Pinyin collation: 安 (an) before 北 (bei).
	assert.Equal(t, []string{"安村"}, buckets[0].KeyPath)
	assert.Equal(t, []string{"北村"}, buckets[1].KeyPath)

	for _, b := range buckets {
		var countSum int
		var areaSum float64
		for _, gs := range b.Grades {
			countSum += gs.Count
			areaSum += gs.Area
		}
		assert.Equal(t, b.SampleCount, countSum, "counts conserved in %v", b.KeyPath)
		assert.InDelta(t, b.TotalArea, areaSum, 1e-6, "area conserved in %v", b.KeyPath)
	}

	bei := buckets[1]
	assert.InDelta(t, 150, bei.TotalArea, 1e-9)
	assert.InDelta(t, 100, bei.Grades["3级"].Area, 1e-9)
	assert.InDelta(t, 50, bei.Grades["1级"].Area, 1e-9)
	require.NotNil(t, bei.AvgGrade)
	// (3*100 + 1*50) / 150 = 2.33
	assert.InDelta(t, 2.33, *bei.AvgGrade, 1e-9)
	assert.Equal(t, 1, bei.SampleCount)
}

func TestAggregateRegion_OmittedWithoutColumn(t *testing.T) {
	cfg := omCfg(t)
	tbl := table.New([]string{"OM", "面积"}, [][]string{{"25", "10"}})
	pm := Prepare(tbl, cfg)
	assert.Nil(t, AggregateRegion(pm, nil, cfg, 0))
}

func TestAggregateLandUse_RollupExample(t *testing.T) {
	cfg := omCfg(t)
	// 水田 500 area at grade 1级 (OM 45), 旱地 300 area at grade 2级 (OM 35).
	mapped := mappedTable([][]string{
		{"", "水田", "", "", "", "45", "500"},
		{"", "旱地", "", "", "", "35", "300"},
	})
	pm := Prepare(mapped, cfg)
	buckets := AggregateLandUse(pm, nil, cfg, 0)
	require.NotEmpty(t, buckets)

	var parent *Bucket
	for i := range buckets {
		if len(buckets[i].KeyPath) == 1 && buckets[i].KeyPath[0] == "耕地" {
			parent = &buckets[i]
			break
		}
	}
	require.NotNil(t, parent)
	assert.True(t, parent.Rollup)
	assert.InDelta(t, 500, parent.Grades["1级"].Area, 1e-9)
	assert.InDelta(t, 300, parent.Grades["2级"].Area, 1e-9)
	assert.InDelta(t, 800, parent.TotalArea, 1e-9)

	// Parent equals the sum of its children.
	var childArea float64
	for _, b := range buckets {
		if len(b.KeyPath) == 2 && b.KeyPath[0] == "耕地" {
			childArea += b.TotalArea
		}
	}
	assert.InDelta(t, parent.TotalArea, childArea, 1e-6)
}

func TestAggregateLandUse_StructureOrder(t *testing.T) {
	cfg := omCfg(t)
	mapped := mappedTable([][]string{
		{"", "有林地", "", "", "", "25", "10"},
	})
	pm := Prepare(mapped, cfg)
	buckets := AggregateLandUse(pm, nil, cfg, 0)

	// Fixed structure: every primary category appears even when empty.
	var primaries []string
	for _, b := range buckets {
		if len(b.KeyPath) == 1 {
			primaries = append(primaries, b.KeyPath[0])
		}
	}
	assert.Equal(t, []string{"耕地", "园地", "林地", "草地", "其他"}, primaries)
}

func TestAggregateSoilType_OrderingAndRollup(t *testing.T) {
	cfg := omCfg(t)
	mapped := mappedTable([][]string{
		{"", "", "水稻土", "潴育水稻土", "马肝泥田", "25", "100"},
		{"", "", "水稻土", "渗育水稻土", "渗灰泥田", "15", "50"},
		{"", "", "红壤", "棕红壤", "红泥质棕红壤", "35", "30"},
		{"", "", "水稻土", "", "马肝泥田", "25", "999"}, // incomplete, excluded
	})
	pm := Prepare(mapped, cfg)
	buckets := AggregateSoilType(pm, nil, cfg, 0)
	require.Len(t, buckets, 5) // 2 rollup parents + 3 leaves

	// 红壤 precedes 水稻土 in the domain order; parents precede leaves.
	assert.Equal(t, []string{"红壤"}, buckets[0].KeyPath)
	assert.True(t, buckets[0].Rollup)
	assert.Equal(t, []string{"红壤", "棕红壤", "红泥质棕红壤"}, buckets[1].KeyPath)
	assert.Equal(t, []string{"水稻土"}, buckets[2].KeyPath)
	assert.Equal(t, []string{"水稻土", "渗育水稻土", "渗灰泥田"}, buckets[3].KeyPath)
	assert.Equal(t, []string{"水稻土", "潴育水稻土", "马肝泥田"}, buckets[4].KeyPath)

	// Rollup parent sums its children, excluding the incomplete row.
	assert.InDelta(t, 150, buckets[2].TotalArea, 1e-9)
}

func TestAggregateSoilType_MajorSplitAcrossUnknownTriples(t *testing.T) {
	cfg := omCfg(t)
	// 红壤 appears both as a known triple and as an unknown one that sorts
	// into the tail, past 水稻土. The major still gets exactly one parent.
	mapped := mappedTable([][]string{
		{"", "", "红壤", "棕红壤", "红泥质棕红壤", "35", "100"},
		{"", "", "红壤", "新亚类", "新土属", "25", "50"},
		{"", "", "水稻土", "新亚类", "新土属", "15", "30"},
	})
	pm := Prepare(mapped, cfg)
	buckets := AggregateSoilType(pm, nil, cfg, 0)
	require.Len(t, buckets, 5) // 2 parents + 3 leaves

	var parents []Bucket
	for _, b := range buckets {
		if b.Rollup {
			parents = append(parents, b)
		}
	}
	require.Len(t, parents, 2)
	assert.Equal(t, []string{"红壤"}, parents[0].KeyPath)
	assert.Equal(t, []string{"水稻土"}, parents[1].KeyPath)
	assert.InDelta(t, 150, parents[0].TotalArea, 1e-9)
	assert.InDelta(t, 30, parents[1].TotalArea, 1e-9)

	// Each parent is immediately followed by its own leaves, which sum to it.
	assert.Equal(t, []string{"红壤"}, buckets[0].KeyPath)
	assert.Equal(t, []string{"红壤", "棕红壤", "红泥质棕红壤"}, buckets[1].KeyPath)
	assert.Equal(t, []string{"红壤", "新亚类", "新土属"}, buckets[2].KeyPath)
	assert.Equal(t, []string{"水稻土"}, buckets[3].KeyPath)
	assert.Equal(t, []string{"水稻土", "新亚类", "新土属"}, buckets[4].KeyPath)
	assert.InDelta(t, buckets[0].TotalArea, buckets[1].TotalArea+buckets[2].TotalArea, 1e-9)

	var total float64
	for _, b := range buckets {
		if !b.Rollup {
			total += b.TotalArea
		}
	}
	assert.InDelta(t, 180, total, 1e-9)
}

func TestAggregateSoilType_OmittedWithoutColumns(t *testing.T) {
	cfg := omCfg(t)
	tbl := table.New([]string{"OM", "面积"}, [][]string{{"25", "10"}})
	pm := Prepare(tbl, cfg)
	assert.Nil(t, AggregateSoilType(pm, nil, cfg, 0))
}
