// markdown.go
package render

import (
	"MovieInsight/src/processor"
	"fmt"
	"math"
	"strings"
)

const (
	barWidth     = 40
	heatmapWidth = 60
)

// Markdown 整份报告的 markdown 文本
func Markdown(r *processor.Report) string {
	var b strings.Builder
	b.WriteString("# Movie dataset report\n\n")
	for _, s := range r.Sections {
		b.WriteString(SectionMarkdown(s))
		b.WriteString("\n")
	}
	return b.String()
}

// SectionMarkdown 单节的 markdown 文本，图表以文本条形图表示
func SectionMarkdown(s processor.Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", s.Title)
	if s.Text != "" {
		fmt.Fprintf(&b, "%s\n\n", s.Text)
	}
	if s.Table != nil {
		b.WriteString(MarkdownTable(s.Table))
		b.WriteString("\n")
	}
	if s.Chart != nil {
		fmt.Fprintf(&b, "```\n%s\n%s```\n", s.Chart.Title, TextBars(s.Chart))
	}
	if s.Heatmap != nil {
		fmt.Fprintf(&b, "```\n%s\n%s```\n", s.Heatmap.Title, TextHeatmap(s.Heatmap))
	}
	return b.String()
}

// MarkdownTable 管道表格，单元格中的 | 被转义
func MarkdownTable(t *processor.Table) string {
	if len(t.Header) == 0 {
		return ""
	}
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			fmt.Fprintf(&b, " %s |", strings.ReplaceAll(c, "|", "\\|"))
		}
		b.WriteString("\n")
	}

	writeRow(t.Header)
	sep := make([]string, len(t.Header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range t.Rows {
		writeRow(row)
	}
	if len(t.Rows) == 0 {
		b.WriteString("\n_(empty)_\n")
	}
	return b.String()
}

// TextBars 按最大值缩放的文本条形图，每行一个标签
func TextBars(c *processor.Chart) string {
	labelWidth := 0
	maxVal := 0.0
	for i, l := range c.Labels {
		if w := len([]rune(l)); w > labelWidth {
			labelWidth = w
		}
		if v := c.Values[i]; !math.IsNaN(v) && v > maxVal {
			maxVal = v
		}
	}

	var b strings.Builder
	for i, l := range c.Labels {
		v := c.Values[i]
		n := 0
		if maxVal > 0 && !math.IsNaN(v) && v > 0 {
			n = int(math.Round(v / maxVal * barWidth))
		}
		pad := strings.Repeat(" ", labelWidth-len([]rune(l)))
		fmt.Fprintf(&b, "%s%s │%s %s\n", l, pad, strings.Repeat("█", n), processor.FormatNumber(v))
	}
	return b.String()
}

// TextHeatmap 每列一行，每个字符代表一段连续的行，该段有缺失值时为 █
func TextHeatmap(h *processor.Heatmap) string {
	labelWidth := 0
	for _, c := range h.Columns {
		if w := len([]rune(c)); w > labelWidth {
			labelWidth = w
		}
	}

	buckets := h.Rows
	if buckets > heatmapWidth {
		buckets = heatmapWidth
	}

	var b strings.Builder
	for ci, name := range h.Columns {
		pad := strings.Repeat(" ", labelWidth-len([]rune(name)))
		fmt.Fprintf(&b, "%s%s │", name, pad)
		for k := 0; k < buckets; k++ {
			start := k * h.Rows / buckets
			end := (k + 1) * h.Rows / buckets
			mark := "·"
			for r := start; r < end; r++ {
				if h.Cells[ci][r] {
					mark = "█"
					break
				}
			}
			b.WriteString(mark)
		}
		b.WriteString("\n")
	}
	return b.String()
}
