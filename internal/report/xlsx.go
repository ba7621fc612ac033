package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/stats"
)

// WriteXLSX renders the report as a workbook, one sheet per attribute plus
// an overview sheet.
func WriteXLSX(rpt *Report, std *grading.Standard, path string) error {
	f := xlsx.NewFile()

	if err := writeOverviewSheet(f, rpt); err != nil {
		return err
	}
	for _, s := range rpt.Attributes {
		if err := writeAttributeSheet(f, s, std); err != nil {
			return err
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func writeOverviewSheet(f *xlsx.File, rpt *Report) error {
	sheet, err := f.AddSheet("总览")
	if err != nil {
		return eris.Wrap(err, "report: add overview sheet")
	}

	addRow(sheet, "标准", rpt.StandardID)
	addRow(sheet, "生成时间", rpt.GeneratedAt.Format("2006-01-02 15:04:05"))
	addRow(sheet)
	addRow(sheet, "属性", "名称", "单位", "样本数", "平均值", "总面积", "加权平均等级")
	for _, s := range rpt.Attributes {
		avg := ""
		if s.AvgGrade != nil {
			avg = num(*s.AvgGrade)
		}
		addRow(sheet, s.Key, s.Name, s.Unit,
			strconv.Itoa(s.Sample.Count), num(s.Sample.Mean), num(s.Area.TotalArea), avg)
	}
	if len(rpt.Skipped) > 0 {
		addRow(sheet)
		addRow(sheet, "未分析属性", strings.Join(rpt.Skipped, ", "))
	}
	return nil
}

func writeAttributeSheet(f *xlsx.File, s *stats.AttributeSummary, std *grading.Standard) error {
	sheet, err := f.AddSheet(sheetName(s))
	if err != nil {
		return eris.Wrapf(err, "report: add sheet for %s", s.Key)
	}
	cfg := std.Attr(s.Key)

	addRow(sheet, "名称", s.Name)
	addRow(sheet, "单位", s.Unit)
	addRow(sheet, "样本数", strconv.Itoa(s.Sample.Count))
	addRow(sheet, "平均值", num(s.Sample.Mean))
	addRow(sheet, "中位数", num(s.Sample.Median))
	addRow(sheet, "最小值", num(s.Sample.Min))
	addRow(sheet, "最大值", num(s.Sample.Max))
	addRow(sheet, "标准差", num(s.Sample.Std))
	addRow(sheet, "变异系数", num(s.Sample.CV))
	addRow(sheet)

	ranges := map[string]string{}
	if cfg != nil {
		ranges = cfg.GradeRanges()
	}
	addRow(sheet, "等级", "范围", "样本数", "面积", "占比(%)")
	for _, g := range s.GradeOrder {
		gs := s.Grades[g]
		if gs == nil {
			continue
		}
		addRow(sheet, grading.RomanGrade(g), ranges[g],
			strconv.Itoa(gs.Count), num(gs.Area), num(gs.Pct))
	}
	if s.AvgGrade != nil {
		addRow(sheet, "加权平均等级", num(*s.AvgGrade))
	}
	addRow(sheet)

	if len(s.Percentiles) > 0 {
		addRow(sheet, "百分位", "值")
		for _, p := range stats.ReportedPercentiles {
			label := fmt.Sprintf("%g%%", p*100)
			if v, ok := s.Percentiles[label]; ok {
				addRow(sheet, label, num(v))
			}
		}
		addRow(sheet)
	}

	writeBucketSection(sheet, s, stats.DimensionRegion, "行政区统计")
	writeBucketSection(sheet, s, stats.DimensionLandUse, "地类统计")
	writeBucketSection(sheet, s, stats.DimensionSoilType, "土壤类型统计")
	return nil
}

func writeBucketSection(sheet *xlsx.Sheet, s *stats.AttributeSummary, kind stats.DimensionKind, title string) {
	buckets := s.BucketsFor(kind)
	if len(buckets) == 0 {
		return
	}

	addRow(sheet, title)
	header := []string{"分组", "样本数", "平均值", "总面积", "加权平均等级"}
	for _, g := range s.GradeOrder {
		header = append(header, grading.RomanGrade(g)+"面积")
	}
	addRow(sheet, header...)

	for _, b := range buckets {
		cells := []string{strings.Join(b.KeyPath, "/")}
		cells = append(cells, strconv.Itoa(b.SampleCount))
		if b.SampleCount > 0 {
			cells = append(cells, num(b.SampleMean))
		} else {
			cells = append(cells, "")
		}
		cells = append(cells, num(b.TotalArea))
		if b.AvgGrade != nil {
			cells = append(cells, num(*b.AvgGrade))
		} else {
			cells = append(cells, "")
		}
		for _, g := range s.GradeOrder {
			if gs := b.Grades[g]; gs != nil {
				cells = append(cells, num(gs.Area))
			} else {
				cells = append(cells, "")
			}
		}
		addRow(sheet, cells...)
	}
	addRow(sheet)
}

// sheetName keeps names inside the 31-character workbook limit.
func sheetName(s *stats.AttributeSummary) string {
	name := s.Name
	if name == "" {
		name = s.Key
	}
	if len([]rune(name)) > 31 {
		name = string([]rune(name)[:31])
	}
	return name
}

func addRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().Value = c
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
