// chart.go
package render

import (
	"MovieInsight/src/processor"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var barColor = color.RGBA{R: 76, G: 114, B: 176, A: 255}

// SaveCharts 将报告中的图表保存为 PNG，返回生成的文件路径
func SaveCharts(dir string, r *processor.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建图表目录失败: %w", err)
	}

	var paths []string
	for _, s := range r.Sections {
		switch {
		case s.Chart != nil:
			path := filepath.Join(dir, s.Chart.FileName)
			if err := SaveBarChart(path, s.Chart); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		case s.Heatmap != nil && s.Heatmap.Rows > 0 && len(s.Heatmap.Columns) > 0:
			path := filepath.Join(dir, s.Heatmap.FileName)
			if err := SaveMissingHeatmap(path, s.Heatmap); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// SaveBarChart 绘制柱状图，Horizontal 时第一项在最上方
func SaveBarChart(path string, c *processor.Chart) error {
	if len(c.Values) == 0 {
		return fmt.Errorf("图表 %s 没有数据", c.Title)
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	labels := append([]string(nil), c.Labels...)
	vals := make(plotter.Values, len(c.Values))
	for i, v := range c.Values {
		if math.IsNaN(v) {
			v = 0
		}
		vals[i] = v
	}
	if c.Horizontal {
		for i, j := 0, len(vals)-1; i < j; i, j = i+1, j-1 {
			vals[i], vals[j] = vals[j], vals[i]
			labels[i], labels[j] = labels[j], labels[i]
		}
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(18))
	if err != nil {
		return fmt.Errorf("创建柱状图失败: %w", err)
	}
	bars.Horizontal = c.Horizontal
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	if c.Horizontal {
		p.NominalY(labels...)
	} else {
		p.NominalX(labels...)
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("保存图表失败: %w", err)
	}
	return nil
}

// missingGrid 将缺失矩阵适配为 plotter.GridXYZ，缺失为 1
type missingGrid struct {
	h *processor.Heatmap
}

func (g missingGrid) Dims() (c, r int) { return len(g.h.Columns), g.h.Rows }

func (g missingGrid) Z(c, r int) float64 {
	// 第 0 行画在最上方
	if g.h.Cells[c][g.h.Rows-1-r] {
		return 1
	}
	return 0
}

func (g missingGrid) X(c int) float64 { return float64(c) }
func (g missingGrid) Y(r int) float64 { return float64(r) }

// SaveMissingHeatmap 绘制缺失值热力图
func SaveMissingHeatmap(path string, h *processor.Heatmap) error {
	p := plot.New()
	p.Title.Text = h.Title
	p.Y.Label.Text = "row"

	hm := plotter.NewHeatMap(missingGrid{h: h}, palette.Heat(2, 1))
	hm.Min, hm.Max = 0, 1
	hm.Rasterized = h.Rows > 200
	p.Add(hm)
	p.NominalX(h.Columns...)

	if err := p.Save(10*vg.Inch, 7*vg.Inch, path); err != nil {
		return fmt.Errorf("保存热力图失败: %w", err)
	}
	return nil
}
