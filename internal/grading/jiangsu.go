package grading

import "math"

var inf = math.Inf(1)

// Jiangsu returns the builtin 江苏省 soil-survey grading standard. Each call
// returns a fresh copy so registered standards never share level slices.
func Jiangsu() *Standard {
	return &Standard{
		ID:          "jiangsu",
		Name:        "江苏分级",
		Description: "江苏省土壤普查分级标准",
		Attributes: map[string]*AttrConfig{
			// 盐碱相关
			"SRXYZL": {
				Key: "SRXYZL", Name: "水溶性盐总量", Unit: "g/kg",
				LandFilter: LandFilterCultGarden,
				Levels: []Level{
					{1, "1级", "无盐化"},
					{2, "2级", "轻度盐化"},
					{4, "3级", "中度盐化"},
					{6, "4级", "重度盐化"},
					{inf, "5级", "盐土"},
				},
			},
			"DDL": {
				Key: "DDL", Name: "电导率", Unit: "mS/cm",
				LandFilter: LandFilterCultGarden,
				Levels: []Level{
					{0.4, "1级", "低"},
					{0.8, "2级", "较低"},
					{1.6, "3级", "中"},
					{2.4, "4级", "较高"},
					{inf, "5级", "高"},
				},
			},
			"ENA": {
				Key: "ENA", Name: "交换性钠", Unit: "cmol(+)/kg",
				LandFilter: LandFilterCultGarden,
				Levels: []Level{
					{0.2, "1级", "低"},
					{0.5, "2级", "较低"},
					{0.8, "3级", "中"},
					{1.2, "4级", "较高"},
					{inf, "5级", "高"},
				},
			},
			// 物理性质
			"TRRZPJZ": {
				Key: "TRRZPJZ", Name: "土壤容重", Unit: "g/cm³",
				Levels: []Level{
					{0.9, "1级", "不适宜"},
					{1.1, "2级", "较适宜"},
					{1.35, "3级", "适宜"},
					{1.55, "4级", "较适宜"},
					{inf, "5级", "不适宜"},
				},
			},
			"GZCHD": {
				Key: "GZCHD", Name: "耕作层厚度", Unit: "cm",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultivatedOnly,
				Levels: []Level{
					{10, "5级", "薄"},
					{15, "4级", "较薄"},
					{20, "3级", "中"},
					{25, "2级", "较厚"},
					{inf, "1级", "厚"},
				},
			},
			"SWXDTJT7": {
				Key: "SWXDTJT7", Name: "水稳性大团聚体", Unit: "mg/kg",
				LandFilter: LandFilterCultGarden,
				Levels: []Level{
					{10, "1级", "低"},
					{20, "2级", "较低"},
					{30, "3级", "中"},
					{40, "4级", "较高"},
					{inf, "5级", "高"},
				},
			},
			// 主要养分指标
			"OM": {
				Key: "OM", Name: "有机质", Unit: "g/kg",
				ReverseDisplay: true,
				Levels: []Level{
					{10, "5级", "低"},
					{20, "4级", "较低"},
					{30, "3级", "中"},
					{40, "2级", "较高"},
					{inf, "1级", "高"},
				},
			},
			"TN": {
				Key: "TN", Name: "全氮", Unit: "g/kg",
				ReverseDisplay: true,
				Levels: []Level{
					{0.5, "5级", "极缺"},
					{1.0, "4级", "缺乏"},
					{1.5, "3级", "中等"},
					{2.0, "2级", "较丰富"},
					{inf, "1级", "丰富"},
				},
			},
			"TP": {
				Key: "TP", Name: "全磷", Unit: "g/kg",
				ReverseDisplay: true,
				Levels: []Level{
					{0.4, "5级", "极缺"},
					{0.6, "4级", "缺乏"},
					{0.8, "3级", "中等"},
					{1.0, "2级", "较丰富"},
					{inf, "1级", "丰富"},
				},
			},
			"TK": {
				Key: "TK", Name: "全钾", Unit: "g/kg",
				ReverseDisplay: true,
				Levels: []Level{
					{10, "5级", "极缺"},
					{15, "4级", "缺乏"},
					{20, "3级", "中等"},
					{25, "2级", "较丰富"},
					{inf, "1级", "丰富"},
				},
			},
			"AP": {
				Key: "AP", Name: "有效磷", Unit: "mg/kg",
				ReverseDisplay: true,
				Levels: []Level{
					{5, "5级", "极缺"},
					{10, "4级", "缺乏"},
					{20, "3级", "中等"},
					{40, "2级", "较丰富"},
					{inf, "1级", "丰富"},
				},
			},
			"AK": {
				Key: "AK", Name: "速效钾", Unit: "mg/kg",
				ReverseDisplay: true,
				Levels: []Level{
					{50, "5级", "极缺"},
					{100, "4级", "缺乏"},
					{150, "3级", "中等"},
					{200, "2级", "较丰富"},
					{inf, "1级", "丰富"},
				},
			},
			"SK": {
				Key: "SK", Name: "缓效钾", Unit: "mg/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{100, "5级", "极缺"},
					{300, "4级", "缺乏"},
					{500, "3级", "中等"},
					{700, "2级", "较丰富"},
					{inf, "1级", "丰富"},
				},
			},
			// 交换性阳离子
			"CEC": {
				Key: "CEC", Name: "阳离子交换量", Unit: "cmol(+)/kg",
				ReverseDisplay: true,
				Levels: []Level{
					{5, "5级", "低"},
					{10, "4级", "较低"},
					{15, "3级", "中"},
					{20, "2级", "较高"},
					{inf, "1级", "高"},
				},
			},
			"ECA": {
				Key: "ECA", Name: "交换性钙", Unit: "cmol(1/2Ca²⁺)/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{1.0, "5级", "极缺"},
					{4.0, "4级", "缺乏"},
					{10.0, "3级", "中等"},
					{15.0, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			"EMG": {
				Key: "EMG", Name: "交换性镁", Unit: "cmol(1/2Mg²⁺)/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{0.5, "5级", "极缺"},
					{1.0, "4级", "缺乏"},
					{1.5, "3级", "中等"},
					{2.0, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			"EK": {
				Key: "EK", Name: "交换性钾", Unit: "cmol(+)/kg",
				LandFilter: LandFilterCultGarden,
				Levels: []Level{
					{0.1, "1级", "无效钾"},
					{0.2, "2级", "低效钾"},
					{0.4, "3级", "中效钾"},
					{inf, "4级", "高效钾"},
				},
			},
			"JHXYJZL": {
				Key: "JHXYJZL", Name: "交换性盐基总量", Unit: "cmol(+)/kg",
				Levels: []Level{
					{5, "1级", "低"},
					{10, "2级", "较低"},
					{15, "3级", "中"},
					{20, "4级", "较高"},
					{inf, "5级", "高"},
				},
			},
			// 中微量元素
			"AS1": {
				Key: "AS1", Name: "有效硫", Unit: "mg/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{10.0, "5级", "极缺"},
					{20.0, "4级", "缺乏"},
					{30.0, "3级", "中等"},
					{40.0, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			"ASI": {
				Key: "ASI", Name: "有效硅", Unit: "mg/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterPaddyOnly,
				Levels: []Level{
					{50, "5级", "极缺"},
					{100, "4级", "缺乏"},
					{150, "3级", "中等"},
					{250, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			"AFE": {
				Key: "AFE", Name: "有效铁", Unit: "mg/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{2.5, "5级", "极缺"},
					{4.5, "4级", "缺乏"},
					{10.0, "3级", "中等"},
					{20.0, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			"AMN": {
				Key: "AMN", Name: "有效锰", Unit: "mg/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{1.0, "5级", "极缺"},
					{5.0, "4级", "缺乏"},
					{15.0, "3级", "中等"},
					{30.0, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			"ACU": {
				Key: "ACU", Name: "有效铜", Unit: "mg/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{0.2, "5级", "极缺"},
					{0.5, "4级", "缺乏"},
					{1.0, "3级", "中等"},
					{2.0, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			"AZN": {
				Key: "AZN", Name: "有效锌", Unit: "mg/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{0.5, "5级", "极缺"},
					{1.0, "4级", "缺乏"},
					{2.0, "3级", "中等"},
					{3.0, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			"AB": {
				Key: "AB", Name: "有效硼", Unit: "mg/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{0.2, "5级", "极缺"},
					{0.5, "4级", "缺乏"},
					{1.0, "3级", "中等"},
					{2.0, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			"AMO": {
				Key: "AMO", Name: "有效钼", Unit: "mg/kg",
				ReverseDisplay: true,
				LandFilter:     LandFilterCultGarden,
				Levels: []Level{
					{0.10, "5级", "极缺"},
					{0.15, "4级", "缺乏"},
					{0.20, "3级", "中等"},
					{0.30, "2级", "丰富"},
					{inf, "1级", "偏高"},
				},
			},
			// pH值
			"ph": {
				Key: "ph", Name: "pH", Unit: "",
				ReverseDisplay: true,
				Levels: []Level{
					{4.5, "1级", "强酸性"},
					{5.5, "2级", "酸性"},
					{6.5, "3级", "弱酸性"},
					{7.5, "4级", "中性"},
					{8.5, "5级", "弱碱性"},
					{9.0, "6级", "碱性"},
					{inf, "7级", "强碱性"},
				},
			},
			// 机械组成分级
			"sand": {
				Key: "sand", Name: "机械组成-砂粒", Unit: "%",
				ReverseDisplay: true,
				Levels:         textureLevels(),
			},
			"silt": {
				Key: "silt", Name: "机械组成-粉粒", Unit: "%",
				ReverseDisplay: true,
				Levels:         textureLevels(),
			},
			"clay": {
				Key: "clay", Name: "机械组成-黏粒", Unit: "%",
				ReverseDisplay: true,
				Levels:         textureLevels(),
			},
		},
	}
}

func textureLevels() []Level {
	return []Level{
		{15, "5级", "≤15"},
		{25, "4级", "15～25"},
		{45, "3级", "25～45"},
		{65, "2级", "45～65"},
		{inf, "1级", "65～100"},
	}
}
