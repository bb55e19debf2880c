// data.go
package processor

import (
	"MovieInsight/src/config"
	"MovieInsight/src/utils"
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

// columns 查询用到的实际列名
type columns struct {
	title, year, runtime, votes, revenue, rating, director string
}

type DataProcessor struct {
	df      dataframe.DataFrame
	queries config.Queries
	cols    columns

	filled  dataframe.DataFrame
	cleaned dataframe.DataFrame
	ready   bool
}

// NewDataProcessor 校验数据集包含查询需要的列
func NewDataProcessor(df dataframe.DataFrame, dcfg *config.DataConfig) (*DataProcessor, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("数据集无效: %w", df.Err)
	}

	p := &DataProcessor{
		df:      df,
		queries: dcfg.Queries,
		cols: columns{
			title:    dcfg.Column(config.FieldTitle),
			year:     dcfg.Column(config.FieldYear),
			runtime:  dcfg.Column(config.FieldRuntime),
			votes:    dcfg.Column(config.FieldVotes),
			revenue:  dcfg.Column(config.FieldRevenue),
			rating:   dcfg.Column(config.FieldRating),
			director: dcfg.Column(config.FieldDirector),
		},
	}

	for _, name := range []string{p.cols.title, p.cols.year, p.cols.runtime, p.cols.votes,
		p.cols.revenue, p.cols.rating, p.cols.director} {
		if !utils.HasColumn(df, name) {
			return nil, fmt.Errorf("缺少列 %q", name)
		}
	}
	if p.queries.Head <= 0 {
		p.queries.Head = 5
	}
	if p.queries.TopN <= 0 {
		p.queries.TopN = 10
	}
	return p, nil
}

// CleanData 生成均值填充副本和删除缺失行副本，原数据不变
func (p *DataProcessor) CleanData() error {
	p.filled = FillMean(p.df)
	if p.filled.Err != nil {
		return fmt.Errorf("填充缺失值失败: %w", p.filled.Err)
	}
	p.cleaned = DropNA(p.df)
	if p.cleaned.Err != nil {
		return fmt.Errorf("删除缺失行失败: %w", p.cleaned.Err)
	}
	p.ready = true
	return nil
}

// CalculateMetrics 依次计算质量指标和各项聚合
func (p *DataProcessor) CalculateMetrics() (*Report, error) {
	if !p.ready {
		if err := p.CleanData(); err != nil {
			return nil, err
		}
	}

	r := &Report{
		Head:           Head(p.df, p.queries.Head),
		Info:           DataInfo(p.df),
		Missing:        MissingCounts(p.df),
		MissingMatrix:  Missingness(p.df),
		MissingPercent: MissingPercent(p.df),
		Filled:         p.filled,
		Cleaned:        p.cleaned,
		HasDuplicates:  HasDuplicates(p.df),
		Describe:       Describe(p.df),
	}
	r.CleanedShape.Rows, r.CleanedShape.Columns = p.cleaned.Dims()

	var err error
	if r.LongMovies, err = LongMovies(p.df, p.cols.title, p.cols.runtime, p.queries.LongRuntime); err != nil {
		return nil, err
	}

	if r.VotesByYear, err = GroupMean(p.df, p.cols.year, p.cols.votes); err != nil {
		return nil, err
	}
	r.TopVotesYears = headGroups(SortGroupsDesc(r.VotesByYear), p.queries.Head)

	if r.RevenueByYear, err = GroupMean(p.df, p.cols.year, p.cols.revenue); err != nil {
		return nil, err
	}
	r.TopRevenueYears = headGroups(SortGroupsDesc(r.RevenueByYear), p.queries.Head)

	directors, err := GroupMean(p.df, p.cols.director, p.cols.rating)
	if err != nil {
		return nil, err
	}
	r.TopDirectors = headGroups(SortGroupsDesc(directors), p.queries.TopN)

	if r.LongestMovies, err = TopLongest(p.df, p.cols.title, p.cols.runtime, p.queries.TopN); err != nil {
		return nil, err
	}

	if r.MoviesByYear, err = CountBy(p.df, p.cols.year); err != nil {
		return nil, err
	}
	r.MoviesPerYear = SortCountsDesc(r.MoviesByYear)

	if r.MostPopular, err = MostPopular(p.df, p.cols.title, p.cols.revenue); err != nil {
		return nil, err
	}

	r.Sections = p.buildSections(r)
	return r, nil
}

// Analyze 对已加载的数据集运行完整分析
func Analyze(df dataframe.DataFrame, dcfg *config.DataConfig) (*Report, error) {
	p, err := NewDataProcessor(df, dcfg)
	if err != nil {
		return nil, err
	}
	if err := p.CleanData(); err != nil {
		return nil, err
	}
	return p.CalculateMetrics()
}
