// report.go
package processor

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table 表格结果
type Table struct {
	Header []string
	Rows   [][]string
}

// Chart 柱状图结果，Labels 与 Values 一一对应
type Chart struct {
	Title      string
	XLabel     string
	YLabel     string
	Labels     []string
	Values     []float64
	Horizontal bool
	FileName   string
}

// Heatmap 缺失值热力图，Cells 按列存放
type Heatmap struct {
	Title    string
	Columns  []string
	Rows     int
	Cells    [][]bool
	FileName string
}

// Section 报告中的一节，按展示顺序排列
type Section struct {
	Key     string
	Title   string
	Text    string
	Table   *Table
	Chart   *Chart
	Heatmap *Heatmap
}

// ColumnInfo 单列概况
type ColumnInfo struct {
	Name    string
	NonNull int
	Dtype   string
}

// Info 数据集概况
type Info struct {
	Rows    int
	Columns int
	Cols    []ColumnInfo
}

// ColumnCount 列级计数
type ColumnCount struct {
	Column string
	Count  int
}

// ColumnPercent 列级百分比
type ColumnPercent struct {
	Column  string
	Percent float64
}

// MissingMatrix 行×列缺失矩阵，Cells[c][r] 表示第 r 行第 c 列是否缺失
type MissingMatrix struct {
	Columns []string
	Rows    int
	Cells   [][]bool
}

// Shape 行列数
type Shape struct {
	Rows    int
	Columns int
}

// ColumnSummary describe 的单列结果，不适用的统计量为 NaN 或空
type ColumnSummary struct {
	Name    string
	Numeric bool
	Count   int
	Unique  int
	Top     string
	Freq    int
	Mean    float64
	Std     float64
	Min     float64
	Q25     float64
	Q50     float64
	Q75     float64
	Max     float64
}

// GroupValue 分组聚合结果
type GroupValue struct {
	Key   string
	Value float64
}

// KeyCount 分组计数
type KeyCount struct {
	Key   string
	Count int
}

// TitleValue 影片及其数值
type TitleValue struct {
	Title string
	Value float64
}

// Report 一次流水线运行的全部结果
type Report struct {
	Head           dataframe.DataFrame
	Info           Info
	Missing        []ColumnCount
	MissingMatrix  MissingMatrix
	MissingPercent []ColumnPercent
	Filled         dataframe.DataFrame
	Cleaned        dataframe.DataFrame
	CleanedShape   Shape
	HasDuplicates  bool
	Describe       []ColumnSummary

	LongMovies      []string
	TopVotesYears   []GroupValue
	VotesByYear     []GroupValue
	TopRevenueYears []GroupValue
	RevenueByYear   []GroupValue
	TopDirectors    []GroupValue
	LongestMovies   []TitleValue
	MoviesPerYear   []KeyCount
	MoviesByYear    []KeyCount
	MostPopular     []string

	Sections []Section
}

// Section 按 key 查找一节
func (r *Report) Section(key string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// FormatNumber 整数不带小数，其余保留两位
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FrameTable 将 DataFrame 转为表格，浮点列按 FormatNumber 格式化
func FrameTable(df dataframe.DataFrame) *Table {
	t := &Table{Header: df.Names()}
	cols := make([]series.Series, 0, df.Ncol())
	for _, name := range t.Header {
		cols = append(cols, df.Col(name))
	}
	for i := 0; i < df.Nrow(); i++ {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = formatElem(col.Elem(i))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func formatElem(e series.Element) string {
	if e.IsNA() {
		return "NaN"
	}
	if e.Type() == series.Float {
		return FormatNumber(e.Float())
	}
	return e.String()
}
