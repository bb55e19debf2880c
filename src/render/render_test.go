package render

import (
	"MovieInsight/src/config"
	"MovieInsight/src/datasource/file"
	"MovieInsight/src/processor"
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixtureReport(t *testing.T) *processor.Report {
	t.Helper()
	df, err := file.ReadDataset("../processor/testdata/movies.csv", file.ReadOptions{})
	require.NoError(t, err)
	r, err := processor.Analyze(df, config.DefaultDataConfig())
	require.NoError(t, err)
	return r
}

func TestMarkdownTable(t *testing.T) {
	md := MarkdownTable(&processor.Table{
		Header: []string{"Title", "Runtime"},
		Rows:   [][]string{{"Grindhouse", "191"}, {"A|B", "90"}},
	})
	assert.Equal(t, "| Title | Runtime |\n| --- | --- |\n| Grindhouse | 191 |\n| A\\|B | 90 |\n", md)

	empty := MarkdownTable(&processor.Table{Header: []string{"Title"}})
	assert.Contains(t, empty, "_(empty)_")
}

func TestTextBars(t *testing.T) {
	out := TextBars(&processor.Chart{
		Labels: []string{"2015", "2016", "2017"},
		Values: []float64{50, 100, math.NaN()},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, 20, strings.Count(lines[0], "█"))
	assert.Equal(t, 40, strings.Count(lines[1], "█"))
	assert.True(t, strings.HasSuffix(lines[2], "NaN"))
}

func TestTextHeatmap(t *testing.T) {
	out := TextHeatmap(&processor.Heatmap{
		Columns: []string{"Title", "Revenue"},
		Rows:    3,
		Cells:   [][]bool{{false, false, false}, {false, true, false}},
	})
	assert.Equal(t, "Title   │···\nRevenue │·█·\n", out)
}

func TestMarkdownReport(t *testing.T) {
	md := Markdown(fixtureReport(t))

	assert.True(t, strings.HasPrefix(md, "# Movie dataset report"))
	assert.Contains(t, md, "## Missing Values")
	assert.Contains(t, md, "Any duplicate data present: false")
	assert.Contains(t, md, "| Christopher Nolan | 8.80 |")
	assert.Less(t, strings.Index(md, "## First few rows"), strings.Index(md, "## Most Popular Movie"))
}

func TestConsole(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	require.NoError(t, Console(&buf, fixtureReport(t)))

	out := buf.String()
	assert.Contains(t, out, "Top Directors with Highest Average Ratings")
	assert.Contains(t, out, "Christopher Nolan")
	assert.Contains(t, out, "(13, 10)")
	assert.Contains(t, out, "Avatar")
}

func TestSaveCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := SaveCharts(dir, fixtureReport(t))
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{
		"missing_heatmap.png", "avg_votes_by_year.png", "avg_revenue_by_year.png",
		"top_longest_movies.png", "movies_per_year.png",
	}, names)
}

func TestSaveBarChartEmpty(t *testing.T) {
	err := SaveBarChart(filepath.Join(t.TempDir(), "x.png"), &processor.Chart{Title: "empty"})
	assert.Error(t, err)
}

func TestSaveWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "movie_report.xlsx")
	require.NoError(t, SaveWorkbook(path, fixtureReport(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, "summary", sheets[0])
	assert.Contains(t, sheets, processor.SectionTopDirectors)
	assert.Contains(t, sheets, processor.SectionVotesChart)
	assert.Contains(t, sheets, "cleaned_data")

	v, err := f.GetCellValue(processor.SectionMostPopular, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Avatar", v)

	rows, err := f.GetRows("cleaned_data")
	require.NoError(t, err)
	assert.Len(t, rows, 14)
}
