// describe.go
package processor

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// Describe 每列的统计摘要
// 数值列: count, mean, std(n-1), min, 25%, 50%, 75%, max
// 其他列: count, unique, top, freq，top 并列时取先出现的值
func Describe(df dataframe.DataFrame) []ColumnSummary {
	var out []ColumnSummary
	for _, name := range df.Names() {
		col := df.Col(name)
		if isNumeric(col) {
			out = append(out, describeNumeric(col))
		} else {
			out = append(out, describeCategorical(col))
		}
	}
	return out
}

func describeNumeric(col series.Series) ColumnSummary {
	nan := math.NaN()
	sum := ColumnSummary{
		Name: col.Name, Numeric: true,
		Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan,
	}

	vals := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if e := col.Elem(i); !e.IsNA() {
			vals = append(vals, e.Float())
		}
	}
	sum.Count = len(vals)
	if len(vals) == 0 {
		return sum
	}

	sum.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		sum.Std = stat.StdDev(vals, nil)
	}

	sort.Float64s(vals)
	sum.Min = vals[0]
	sum.Max = vals[len(vals)-1]
	sum.Q25 = quantile(vals, 0.25)
	sum.Q50 = quantile(vals, 0.50)
	sum.Q75 = quantile(vals, 0.75)
	return sum
}

// quantile 在最近两个秩之间线性插值，sorted 须已升序
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func describeCategorical(col series.Series) ColumnSummary {
	nan := math.NaN()
	sum := ColumnSummary{
		Name: col.Name,
		Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan,
	}

	freq := make(map[string]int)
	var order []string
	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		v := e.String()
		if _, ok := freq[v]; !ok {
			order = append(order, v)
		}
		freq[v]++
		sum.Count++
	}

	sum.Unique = len(order)
	for _, v := range order {
		if freq[v] > sum.Freq {
			sum.Top = v
			sum.Freq = freq[v]
		}
	}
	return sum
}

// DescribeTable 摘要表，每列一行
func DescribeTable(summaries []ColumnSummary) *Table {
	t := &Table{Header: []string{"Column", "count", "unique", "top", "freq", "mean", "std", "min", "25%", "50%", "75%", "max"}}
	for _, s := range summaries {
		row := []string{s.Name, FormatNumber(float64(s.Count))}
		if s.Numeric {
			row = append(row, "", "", "",
				FormatNumber(s.Mean), FormatNumber(s.Std), FormatNumber(s.Min),
				FormatNumber(s.Q25), FormatNumber(s.Q50), FormatNumber(s.Q75), FormatNumber(s.Max))
		} else {
			row = append(row, FormatNumber(float64(s.Unique)), s.Top, FormatNumber(float64(s.Freq)),
				"", "", "", "", "", "", "")
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
