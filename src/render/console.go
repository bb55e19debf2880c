// console.go
package render

import (
	"MovieInsight/src/processor"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	headingColor = color.New(color.FgYellow, color.Bold)
	textColor    = color.New(color.FgCyan)
)

// Console 在终端输出报告，表格由 tablewriter 绘制
func Console(w io.Writer, r *processor.Report) error {
	for _, s := range r.Sections {
		if _, err := headingColor.Fprintf(w, "\n%s\n", s.Title); err != nil {
			return fmt.Errorf("输出报告失败: %w", err)
		}
		if s.Text != "" {
			textColor.Fprintln(w, s.Text)
		}
		if s.Table != nil {
			ConsoleTable(w, s.Table)
		}
		if s.Chart != nil {
			fmt.Fprint(w, TextBars(s.Chart))
		}
		if s.Heatmap != nil {
			fmt.Fprint(w, TextHeatmap(s.Heatmap))
		}
	}
	return nil
}

// ConsoleTable 绘制单张表格
func ConsoleTable(w io.Writer, t *processor.Table) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(t.Rows)
	table.Render()
}
