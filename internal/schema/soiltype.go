package schema

import (
	"strings"

	"github.com/agrisurvey/soilreport/internal/table"
)

// SoilType is the three-level soil taxonomy node (土类/亚类/土属).
type SoilType struct {
	Major string // 土类
	Sub   string // 亚类
	Genus string // 土属
}

// UnclassifiedMajor is the placeholder major class for rows whose 土类 cell
// is empty.
const UnclassifiedMajor = "未分类"

// soilTypeOrder is the fixed domain presentation order of known taxonomy
// triples. Unknown triples sort after all known ones, lexicographically.
var soilTypeOrder = []SoilType{
	// 红壤相关
	{"红壤", "棕红壤", "红泥质棕红壤"},
	{"红壤", "红壤性土", "砂泥质红壤性土"},
	{"红壤", "红壤性土", "麻砂质红壤性土"},
	// 黄棕壤相关
	{"黄棕壤", "典型黄棕壤", "暗泥质黄棕壤"},
	{"黄棕壤", "典型黄棕壤", "麻砂质黄棕壤"},
	{"黄棕壤", "典型黄棕壤", "红砂质黄棕壤"},
	{"黄棕壤", "典型黄棕壤", "黄土质黄棕壤"},
	{"黄棕壤", "典型黄棕壤", "砂泥质黄棕壤"},
	{"黄棕壤", "黄棕壤性土", "砂泥质黄棕壤性土"},
	// 棕壤相关
	{"棕壤", "典型棕壤", "麻砂质典型棕壤"},
	{"棕壤", "白浆化棕壤", "麻砂质白浆化棕壤"},
	{"棕壤", "白浆化棕壤", "泥砂质白浆化棕壤"},
	{"棕壤", "潮棕壤", "泥砂质潮棕壤"},
	// 褐土相关
	{"褐土", "淋溶褐土", "黄土质淋溶褐土"},
	{"褐土", "淋溶褐土", "灰泥质淋溶褐土"},
	{"褐土", "淋溶褐土", "暗泥质淋溶褐土"},
	{"褐土", "潮褐土", "泥砂质潮褐土"},
	// 其他土壤类型
	{"红黏土", "红黏土", "红黏土"},
	// 石灰岩土相关
	{"石灰岩土", "黑色石灰土", "黑色石灰土"},
	{"石灰岩土", "棕色石灰土", "棕色石灰土"},
	// 火山灰土相关
	{"火山灰土", "暗火山灰土", "暗火山灰土"},
	// 紫色土相关
	{"紫色土", "酸性紫色土", "壤质酸性紫色土"},
	{"紫色土", "酸性紫色土", "黏质酸性紫色土"},
	{"紫色土", "中性紫色土", "砂质中性紫色土"},
	{"紫色土", "中性紫色土", "壤质中性紫色土"},
	{"紫色土", "中性紫色土", "黏质中性紫色土"},
	{"紫色土", "石灰性紫色土", "壤质石灰性紫色土"},
	// 粗骨土相关
	{"粗骨土", "酸性粗骨土", "麻砂质酸性粗骨土"},
	{"粗骨土", "酸性粗骨土", "硅质酸性粗骨土"},
	{"粗骨土", "中性粗骨土", "麻砂质中性粗骨土"},
	{"粗骨土", "钙质粗骨土", "灰泥质钙质粗骨土"},
	// 潮土相关
	{"潮土", "典型潮土", "砂质潮土"},
	{"潮土", "典型潮土", "壤质潮土"},
	{"潮土", "典型潮土", "黏质潮土"},
	{"潮土", "灰潮土", "灰潮土"},
	{"潮土", "灰潮土", "石灰性灰潮土"},
	{"潮土", "盐化潮土（含碱化潮土）", "氯化物盐化潮土"},
	{"潮土", "盐化潮土（含碱化潮土）", "硫酸盐盐化潮土"},
	{"潮土", "盐化潮土（含碱化潮土）", "苏打盐化潮土"},
	// 砂姜黑土相关
	{"砂姜黑土", "典型砂姜黑土", "黑腐砂姜黑土（黑姜土）"},
	{"砂姜黑土", "典型砂姜黑土", "覆泥砂姜黑土（覆泥黑姜土）"},
	{"砂姜黑土", "盐化砂姜黑土", "氯化物盐化砂姜黑土"},
	// 沼泽土相关
	{"沼泽土", "腐泥沼泽土", "腐泥沼泽土"},
	{"沼泽土", "草甸沼泽土", "草甸沼泽土"},
	{"沼泽土", "草甸沼泽土", "石灰性草甸沼泽土"},
	// 滨海盐土相关
	{"滨海盐土", "典型滨海盐土", "氯化物滨海盐土"},
	{"滨海盐土", "滨海沼泽盐土", "氯化物沼泽滨海盐土"},
	{"滨海盐土", "滨海潮滩盐土", "氯化物潮滩滨海盐土"},
	// 水稻土相关
	{"水稻土", "淹育水稻土", "浅马肝泥田"},
	{"水稻土", "渗育水稻土", "渗灰泥田"},
	{"水稻土", "渗育水稻土", "渗潮泥砂田"},
	{"水稻土", "渗育水稻土", "渗潮泥田"},
	{"水稻土", "渗育水稻土", "渗湖泥田"},
	{"水稻土", "渗育水稻土", "渗涂泥田"},
	{"水稻土", "渗育水稻土", "渗淡涂泥田"},
	{"水稻土", "渗育水稻土", "渗麻砂泥田"},
	{"水稻土", "渗育水稻土", "渗潮白土田"},
	{"水稻土", "渗育水稻土", "渗马肝泥田"},
	{"水稻土", "潴育水稻土", "潮泥田"},
	{"水稻土", "潴育水稻土", "湖泥田"},
	{"水稻土", "潴育水稻土", "马肝泥田"},
	{"水稻土", "潜育水稻土", "青湖泥田"},
	{"水稻土", "潜育水稻土", "青马肝泥田"},
	{"水稻土", "脱潜水稻土", "黄斑黏田"},
	{"水稻土", "脱潜水稻土", "黄斑泥田"},
	{"水稻土", "漂洗水稻土", "漂潮白土田"},
	{"水稻土", "漂洗水稻土", "漂马肝泥田"},
	{"水稻土", "盐渍水稻土", "氯化物潮泥田"},
	{"水稻土", "盐渍水稻土", "氯化物涂泥田"},
	{"水稻土", "盐渍水稻土", "氯化物湖泥田"},
	{"水稻土", "盐渍水稻土", "硫酸盐潮泥田"},
	{"水稻土", "盐渍水稻土", "硫酸盐涂泥田"},
	{"水稻土", "盐渍水稻土", "苏打潮泥田"},
	{"水稻土", "盐渍水稻土", "苏打涂泥田"},
	{"水稻土", "盐渍水稻土", "苏打湖泥田"},
	// 人工土相关
	{"人工土", "填充土", "工矿填充土"},
	{"人工土", "填充土", "城镇填充土"},
	{"人工土", "扰动土", "运移扰动土"},
}

var soilSortIndex = func() map[SoilType]int {
	m := make(map[SoilType]int, len(soilTypeOrder))
	for i, st := range soilTypeOrder {
		m[st] = i
	}
	return m
}()

// Valid reports whether the node is complete enough to aggregate: both 亚类
// and 土属 must be present.
func (s SoilType) Valid() bool {
	return s.Sub != "" && s.Genus != ""
}

// SortKey returns the deterministic domain order of a taxonomy node: known
// triples in table order, unknown ones after them.
func (s SoilType) SortKey() int {
	if i, ok := soilSortIndex[s]; ok {
		return i
	}
	return len(soilTypeOrder)
}

// SoilLess orders taxonomy nodes by domain index, breaking ties (unknown
// triples share one index) lexicographically.
func SoilLess(a, b SoilType) bool {
	ka, kb := a.SortKey(), b.SortKey()
	if ka != kb {
		return ka < kb
	}
	if a.Major != b.Major {
		return a.Major < b.Major
	}
	if a.Sub != b.Sub {
		return a.Sub < b.Sub
	}
	return a.Genus < b.Genus
}

// SoilTypes resolves the taxonomy node for every row, normalizing the
// TL/YL/TS and SSub_JZg/SGen_JZg header variants and blank-ish cells. Rows
// with an empty 土类 fall into 未分类.
func SoilTypes(t *table.Table) []SoilType {
	out := make([]SoilType, t.Len())
	majorCol := t.FindColumn("土类", "TL")
	subCol := t.FindColumn("亚类", "YL", "SSub_JZg")
	genusCol := t.FindColumn("土属", "TS", "SGen_JZg")

	major := columnOrEmpty(t, majorCol)
	sub := columnOrEmpty(t, subCol)
	genus := columnOrEmpty(t, genusCol)

	for i := range out {
		st := SoilType{
			Major: cleanSoilCell(major[i]),
			Sub:   cleanSoilCell(sub[i]),
			Genus: cleanSoilCell(genus[i]),
		}
		if st.Major == "" {
			st.Major = UnclassifiedMajor
		}
		out[i] = st
	}
	return out
}

// HasSoilColumns reports whether the table carries the 亚类 and 土属 columns
// the soil dimension needs; without them that breakdown is omitted.
func HasSoilColumns(t *table.Table) bool {
	return t.FindColumn("亚类", "YL", "SSub_JZg") != "" &&
		t.FindColumn("土属", "TS", "SGen_JZg") != ""
}

func columnOrEmpty(t *table.Table, col string) []string {
	if col == "" {
		return make([]string, t.Len())
	}
	return t.Column(col)
}

func cleanSoilCell(s string) string {
	s = strings.TrimSpace(s)
	if s == "nan" || s == "None" || s == "NULL" {
		return ""
	}
	return s
}
