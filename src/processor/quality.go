// quality.go
package processor

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Head 返回前 n 行
func Head(df dataframe.DataFrame, n int) dataframe.DataFrame {
	if n > df.Nrow() {
		n = df.Nrow()
	}
	if n < 0 {
		n = 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return df.Subset(idx)
}

// DataInfo 行列数以及每列的非空数量和类型
func DataInfo(df dataframe.DataFrame) Info {
	rows, cols := df.Dims()
	info := Info{Rows: rows, Columns: cols}
	for _, name := range df.Names() {
		col := df.Col(name)
		info.Cols = append(info.Cols, ColumnInfo{
			Name:    name,
			NonNull: rows - countTrue(col.IsNaN()),
			Dtype:   dtypeName(col.Type()),
		})
	}
	return info
}

func dtypeName(t series.Type) string {
	switch t {
	case series.Int:
		return "int64"
	case series.Float:
		return "float64"
	case series.Bool:
		return "bool"
	default:
		return "object"
	}
}

// MissingCounts 每列缺失值数量，按文件列顺序
func MissingCounts(df dataframe.DataFrame) []ColumnCount {
	var out []ColumnCount
	for _, name := range df.Names() {
		out = append(out, ColumnCount{Column: name, Count: countTrue(df.Col(name).IsNaN())})
	}
	return out
}

// Missingness 行×列缺失矩阵
func Missingness(df dataframe.DataFrame) MissingMatrix {
	m := MissingMatrix{Columns: df.Names(), Rows: df.Nrow()}
	for _, name := range m.Columns {
		m.Cells = append(m.Cells, df.Col(name).IsNaN())
	}
	return m
}

// MissingPercent 每列缺失值占比(百分数)
func MissingPercent(df dataframe.DataFrame) []ColumnPercent {
	rows := df.Nrow()
	var out []ColumnPercent
	for _, c := range MissingCounts(df) {
		p := 0.0
		if rows > 0 {
			p = float64(c.Count) * 100 / float64(rows)
		}
		out = append(out, ColumnPercent{Column: c.Column, Percent: p})
	}
	return out
}

// FillMean 数值列的缺失值用该列非缺失值的均值填充，返回新的 DataFrame
func FillMean(df dataframe.DataFrame) dataframe.DataFrame {
	filled := df.Copy()
	for _, name := range df.Names() {
		col := df.Col(name)
		if !isNumeric(col) || !col.HasNaN() {
			continue
		}
		mean := nanMean(col)
		vals := col.Float()
		for i, na := range col.IsNaN() {
			if na {
				vals[i] = mean
			}
		}
		filled = filled.Mutate(series.New(vals, series.Float, name))
	}
	return filled
}

// DropNA 删除含任意缺失值的行，返回新的 DataFrame
func DropNA(df dataframe.DataFrame) dataframe.DataFrame {
	keep := make([]bool, df.Nrow())
	for i := range keep {
		keep[i] = true
	}
	for _, name := range df.Names() {
		for i, na := range df.Col(name).IsNaN() {
			if na {
				keep[i] = false
			}
		}
	}

	idx := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			idx = append(idx, i)
		}
	}
	return df.Subset(idx)
}

// HasDuplicates 是否存在与之前某行完全相同的行
func HasDuplicates(df dataframe.DataFrame) bool {
	records := df.Records()
	seen := make(map[string]struct{}, len(records))
	for _, row := range records[1:] {
		hash := md5.Sum([]byte(strings.Join(row, "\x1f")))
		key := hex.EncodeToString(hash[:])
		if _, ok := seen[key]; ok {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}

func isNumeric(s series.Series) bool {
	return s.Type() == series.Int || s.Type() == series.Float
}

// nanMean 忽略缺失值的均值，全部缺失时为 NaN
func nanMean(s series.Series) float64 {
	var sum float64
	var n int
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		sum += e.Float()
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
