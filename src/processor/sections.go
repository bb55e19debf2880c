// sections.go
package processor

import (
	"fmt"
	"strconv"
)

// 报告各节的 key，顺序即展示顺序
const (
	SectionHead           = "head"
	SectionInfo           = "info"
	SectionMissing        = "missing"
	SectionHeatmap        = "missing_heatmap"
	SectionMissingPercent = "missing_percent"
	SectionFilled         = "filled"
	SectionCleaned        = "cleaned"
	SectionDuplicates     = "duplicates"
	SectionDescribe       = "describe"
	SectionLongMovies     = "long_movies"
	SectionTopVotes       = "top_votes_years"
	SectionVotesChart     = "votes_by_year"
	SectionTopRevenue     = "top_revenue_years"
	SectionRevenueChart   = "revenue_by_year"
	SectionTopDirectors   = "top_directors"
	SectionLongest        = "longest_movies"
	SectionLongestChart   = "longest_movies_chart"
	SectionMoviesPerYear  = "movies_per_year"
	SectionMoviesChart    = "movies_per_year_chart"
	SectionMostPopular    = "most_popular"
)

func (p *DataProcessor) buildSections(r *Report) []Section {
	c := p.cols
	topN := p.queries.TopN

	return []Section{
		{Key: SectionHead, Title: "First few rows of the dataset", Table: FrameTable(r.Head)},
		{Key: SectionInfo, Title: "Dataset Information",
			Text:  fmt.Sprintf("RangeIndex: %d entries, Data columns (total %d columns)", r.Info.Rows, r.Info.Columns),
			Table: infoTable(r.Info)},
		{Key: SectionMissing, Title: "Missing Values", Table: countTable("Column", "Missing", r.Missing)},
		{Key: SectionHeatmap, Title: "Heatmap of missing values", Heatmap: &Heatmap{
			Title:    "Heatmap of Missing Values",
			Columns:  r.MissingMatrix.Columns,
			Rows:     r.MissingMatrix.Rows,
			Cells:    r.MissingMatrix.Cells,
			FileName: "missing_heatmap.png",
		}},
		{Key: SectionMissingPercent, Title: "Percentage of Missing Values", Table: percentTable(r.MissingPercent)},
		{Key: SectionFilled, Title: "Missing numeric values filled with the column mean",
			Text:  fmt.Sprintf("Filled copy: %d rows x %d columns", r.Filled.Nrow(), r.Filled.Ncol()),
			Table: fillTable(p.df.Names(), r)},
		{Key: SectionCleaned, Title: "Data after dropping missing values",
			Text: fmt.Sprintf("(%d, %d)", r.CleanedShape.Rows, r.CleanedShape.Columns)},
		{Key: SectionDuplicates, Title: "Duplicate data",
			Text: fmt.Sprintf("Any duplicate data present: %t", r.HasDuplicates)},
		{Key: SectionDescribe, Title: "Statistical Summary of the Dataset", Table: DescribeTable(r.Describe)},
		{Key: SectionLongMovies, Title: fmt.Sprintf("Movies with runtime >= %d minutes", p.queries.LongRuntime),
			Table: listTable(c.title, r.LongMovies)},
		{Key: SectionTopVotes, Title: "Year with highest average votes", Table: groupTable(c.year, c.votes, r.TopVotesYears)},
		{Key: SectionVotesChart, Title: "Average Votes by Year",
			Chart: groupChart("Average votes by Year", c.year, c.votes, r.VotesByYear, "avg_votes_by_year.png")},
		{Key: SectionTopRevenue, Title: "Year with highest average revenue", Table: groupTable(c.year, c.revenue, r.TopRevenueYears)},
		{Key: SectionRevenueChart, Title: "Average Revenue by Year",
			Chart: groupChart("Average Revenue by Year", c.year, c.revenue, r.RevenueByYear, "avg_revenue_by_year.png")},
		{Key: SectionTopDirectors, Title: "Top Directors with Highest Average Ratings", Table: groupTable(c.director, c.rating, r.TopDirectors)},
		{Key: SectionLongest, Title: fmt.Sprintf("Top %d Longest Movies", topN), Table: titleValueTable(c.title, c.runtime, r.LongestMovies)},
		{Key: SectionLongestChart, Title: fmt.Sprintf("Top %d Longest Movies (chart)", topN),
			Chart: longestChart(fmt.Sprintf("Top %d Longest Movies", topN), c.title, c.runtime, r.LongestMovies)},
		{Key: SectionMoviesPerYear, Title: "Number of Movies per Year", Table: keyCountTable(c.year, r.MoviesPerYear)},
		{Key: SectionMoviesChart, Title: "Number of Movies per Year (Countplot)",
			Chart: countChart("Number of Movies per Year", c.year, r.MoviesByYear)},
		{Key: SectionMostPopular, Title: "Most Popular Movie (Highest Revenue)", Table: listTable(c.title, r.MostPopular)},
	}
}

func infoTable(info Info) *Table {
	t := &Table{Header: []string{"#", "Column", "Non-Null Count", "Dtype"}}
	for i, c := range info.Cols {
		t.Rows = append(t.Rows, []string{strconv.Itoa(i), c.Name, fmt.Sprintf("%d non-null", c.NonNull), c.Dtype})
	}
	return t
}

func countTable(keyHeader, countHeader string, counts []ColumnCount) *Table {
	t := &Table{Header: []string{keyHeader, countHeader}}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Column, strconv.Itoa(c.Count)})
	}
	return t
}

func percentTable(percents []ColumnPercent) *Table {
	t := &Table{Header: []string{"Column", "Missing %"}}
	for _, p := range percents {
		t.Rows = append(t.Rows, []string{p.Column, FormatNumber(p.Percent)})
	}
	return t
}

// fillTable 列出被填充的列及填充值
func fillTable(names []string, r *Report) *Table {
	t := &Table{Header: []string{"Column", "Filled", "Fill value"}}
	for i, c := range r.Missing {
		if c.Count == 0 || i >= len(r.Describe) || !r.Describe[i].Numeric {
			continue
		}
		t.Rows = append(t.Rows, []string{names[i], strconv.Itoa(c.Count), FormatNumber(r.Describe[i].Mean)})
	}
	return t
}

func listTable(header string, values []string) *Table {
	t := &Table{Header: []string{header}}
	for _, v := range values {
		t.Rows = append(t.Rows, []string{v})
	}
	return t
}

func groupTable(keyHeader, valueHeader string, groups []GroupValue) *Table {
	t := &Table{Header: []string{keyHeader, valueHeader}}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Key, FormatNumber(g.Value)})
	}
	return t
}

func titleValueTable(titleHeader, valueHeader string, rows []TitleValue) *Table {
	t := &Table{Header: []string{titleHeader, valueHeader}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Title, FormatNumber(r.Value)})
	}
	return t
}

func keyCountTable(keyHeader string, counts []KeyCount) *Table {
	t := &Table{Header: []string{keyHeader, "count"}}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Key, strconv.Itoa(c.Count)})
	}
	return t
}

func groupChart(title, xLabel, yLabel string, groups []GroupValue, file string) *Chart {
	ch := &Chart{Title: title, XLabel: xLabel, YLabel: yLabel, FileName: file}
	for _, g := range groups {
		ch.Labels = append(ch.Labels, g.Key)
		ch.Values = append(ch.Values, g.Value)
	}
	return ch
}

func longestChart(title, titleCol, runtimeCol string, rows []TitleValue) *Chart {
	ch := &Chart{Title: title, XLabel: runtimeCol, YLabel: titleCol, Horizontal: true, FileName: "top_longest_movies.png"}
	for _, r := range rows {
		ch.Labels = append(ch.Labels, r.Title)
		ch.Values = append(ch.Values, r.Value)
	}
	return ch
}

func countChart(title, keyCol string, counts []KeyCount) *Chart {
	ch := &Chart{Title: title, XLabel: keyCol, YLabel: "count", FileName: "movies_per_year.png"}
	for _, c := range counts {
		ch.Labels = append(ch.Labels, c.Key)
		ch.Values = append(ch.Values, float64(c.Count))
	}
	return ch
}
