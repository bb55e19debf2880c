// movies.go
package processor

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// LongMovies 片长不小于 threshold 的影片名，保持文件顺序
func LongMovies(df dataframe.DataFrame, titleCol, runtimeCol string, threshold int) ([]string, error) {
	long := df.Filter(dataframe.F{
		Colname:    runtimeCol,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && el.Float() >= float64(threshold)
		},
	})
	if long.Err != nil {
		return nil, fmt.Errorf("筛选长片失败: %w", long.Err)
	}
	return long.Col(titleCol).Records(), nil
}

// GroupMean 按 keyCol 分组求 valCol 均值，结果按分组键升序
// 缺失的分组键被忽略，组内缺失值不参与均值，全部缺失的组均值为 NaN
func GroupMean(df dataframe.DataFrame, keyCol, valCol string) ([]GroupValue, error) {
	groups, err := groupBy(df, keyCol, valCol)
	if err != nil {
		return nil, err
	}

	out := make([]GroupValue, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupValue{
			Key:   g.key.String(),
			Value: nanMean(g.df.Col(valCol)),
		})
	}
	return out, nil
}

// CountBy 按 keyCol 计数，结果按分组键升序，缺失的分组键被忽略
func CountBy(df dataframe.DataFrame, keyCol string) ([]KeyCount, error) {
	groups, err := groupBy(df, keyCol)
	if err != nil {
		return nil, err
	}

	out := make([]KeyCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, KeyCount{Key: g.key.String(), Count: g.df.Nrow()})
	}
	return out, nil
}

type group struct {
	key series.Element
	df  dataframe.DataFrame
}

// groupBy 去掉缺失分组键后分组，按分组键升序返回
func groupBy(df dataframe.DataFrame, keyCol string, cols ...string) ([]group, error) {
	var idx []int
	for i, na := range df.Col(keyCol).IsNaN() {
		if !na {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, nil
	}

	sub := df.Select(append([]string{keyCol}, cols...)).Subset(idx)
	if sub.Err != nil {
		return nil, fmt.Errorf("按 %s 分组失败: %w", keyCol, sub.Err)
	}

	gs := sub.GroupBy(keyCol)
	if gs.Err != nil {
		return nil, fmt.Errorf("按 %s 分组失败: %w", keyCol, gs.Err)
	}

	var out []group
	for _, g := range gs.GetGroups() {
		out = append(out, group{key: g.Col(keyCol).Elem(0), df: g})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].key.Less(out[j].key)
	})
	return out, nil
}

// SortGroupsDesc 按均值降序稳定排序，NaN 排最后，返回新切片
func SortGroupsDesc(in []GroupValue) []GroupValue {
	out := append([]GroupValue(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Value, out[j].Value
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
	return out
}

// SortCountsDesc 按计数降序稳定排序，返回新切片
func SortCountsDesc(in []KeyCount) []KeyCount {
	out := append([]KeyCount(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// TopLongest 片长最长的 n 部影片，片长相同保持文件顺序
func TopLongest(df dataframe.DataFrame, titleCol, runtimeCol string, n int) ([]TitleValue, error) {
	sorted := df.Arrange(dataframe.RevSort(runtimeCol))
	if sorted.Err != nil {
		return nil, fmt.Errorf("按 %s 排序失败: %w", runtimeCol, sorted.Err)
	}
	sorted = Head(sorted, n)

	titles := sorted.Col(titleCol)
	runtimes := sorted.Col(runtimeCol)
	var out []TitleValue
	for i := 0; i < sorted.Nrow(); i++ {
		if runtimes.Elem(i).IsNA() {
			break
		}
		out = append(out, TitleValue{Title: titles.Elem(i).String(), Value: runtimes.Elem(i).Float()})
	}
	return out, nil
}

// MostPopular 收入等于最高收入的影片名
func MostPopular(df dataframe.DataFrame, titleCol, revenueCol string) ([]string, error) {
	maxRevenue := math.Inf(-1)
	revenue := df.Col(revenueCol)
	for i := 0; i < revenue.Len(); i++ {
		if e := revenue.Elem(i); !e.IsNA() && e.Float() > maxRevenue {
			maxRevenue = e.Float()
		}
	}
	if math.IsInf(maxRevenue, -1) {
		return nil, nil
	}

	top := df.Filter(dataframe.F{
		Colname:    revenueCol,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA() && el.Float() == maxRevenue
		},
	})
	if top.Err != nil {
		return nil, fmt.Errorf("筛选最高收入影片失败: %w", top.Err)
	}
	return top.Col(titleCol).Records(), nil
}

func headGroups(in []GroupValue, n int) []GroupValue {
	if n < len(in) {
		return in[:n]
	}
	return in
}
