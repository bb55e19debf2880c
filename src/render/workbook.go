// workbook.go
package render

import (
	"MovieInsight/src/processor"
	"MovieInsight/src/utils"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// SaveWorkbook 导出报告：summary 表记录文字结论，每个表格或图表一张工作表，另附填充和清洗后的数据
func SaveWorkbook(path string, r *processor.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建导出目录失败: %w", err)
	}

	summary := utils.Sheet{Name: "summary", Header: []string{"Section", "Result"}}
	sheets := []utils.Sheet{}

	for _, s := range r.Sections {
		if s.Text != "" {
			summary.Rows = append(summary.Rows, []interface{}{s.Title, s.Text})
		}
		switch {
		case s.Table != nil:
			sheets = append(sheets, tableSheet(s.Key, s.Table))
		case s.Chart != nil:
			sheets = append(sheets, chartSheet(s.Key, s.Chart))
		}
	}

	sheets = append([]utils.Sheet{summary}, sheets...)
	sheets = append(sheets,
		utils.FrameSheet("filled_data", r.Filled),
		utils.FrameSheet("cleaned_data", r.Cleaned),
	)
	return utils.SaveSheetsToExcel(path, sheets...)
}

func tableSheet(name string, t *processor.Table) utils.Sheet {
	sheet := utils.Sheet{Name: name, Header: t.Header}
	for _, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for i, c := range row {
			cells[i] = c
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet
}

func chartSheet(name string, c *processor.Chart) utils.Sheet {
	sheet := utils.Sheet{Name: name, Header: []string{c.XLabel, c.YLabel}}
	if c.Horizontal {
		sheet.Header = []string{c.YLabel, c.XLabel}
	}
	for i, l := range c.Labels {
		var v interface{} = c.Values[i]
		if math.IsNaN(c.Values[i]) {
			v = nil
		}
		sheet.Rows = append(sheet.Rows, []interface{}{l, v})
	}
	return sheet
}
