package file

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/simplifiedchinese"
)

const sampleCSV = `Rank,Title,Director,Year,Runtime (Minutes),Revenue (Millions)
1,Guardians of the Galaxy,James Gunn,2014,121,333.13
2,"Prometheus, Director's Cut",Ridley Scott,2012,124,
3,Split,M. Night Shyamalan,2016,117,NA
`

func TestReadDatasetNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMDB-Movie-Data.csv")

	_, err := ReadDataset(path, ReadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Equal(t,
		"File not found. Please check if the file IMDB-Movie-Data.csv is in the correct directory.",
		NotFoundMessage(path))
}

func TestReadDatasetCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	df, err := ReadDataset(path, ReadOptions{Encoding: "utf-8"})
	require.NoError(t, err)

	rows, cols := df.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 6, cols)
	assert.Equal(t, series.Int, df.Col("Year").Type())
	assert.Equal(t, series.Float, df.Col("Revenue (Millions)").Type())
	assert.Equal(t, "Prometheus, Director's Cut", df.Col("Title").Elem(1).String())

	// 空字段和 NA 都是缺失值
	revenue := df.Col("Revenue (Millions)")
	assert.False(t, revenue.Elem(0).IsNA())
	assert.True(t, revenue.Elem(1).IsNA())
	assert.True(t, revenue.Elem(2).IsNA())
}

func TestReadCSVStripsBOM(t *testing.T) {
	df, err := ReadCSVToDataFrame(strings.NewReader("\ufeff"+sampleCSV), "")
	require.NoError(t, err)
	assert.Equal(t, "Rank", df.Names()[0])
}

func TestReadCSVGBK(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String("片名,年份\n流浪地球,2019\n")
	require.NoError(t, err)

	df, err := ReadCSVToDataFrame(bytes.NewReader([]byte(encoded)), "gbk")
	require.NoError(t, err)
	assert.Equal(t, []string{"片名", "年份"}, df.Names())
	assert.Equal(t, "流浪地球", df.Col("片名").Elem(0).String())
}

func TestReadCSVUnknownEncoding(t *testing.T) {
	_, err := ReadCSVToDataFrame(strings.NewReader(sampleCSV), "ebcdic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "不支持的编码")
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := ReadCSVToDataFrame(strings.NewReader("a,b\n1,2,3\n"), "utf-8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "解析CSV失败")
}

func TestReadDatasetXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("movies")
	require.NoError(t, err)
	for _, record := range [][]string{
		{"Title", "Year", "Rating"},
		{"Avatar", "2009", "7.8"},
		{"Split", "2016", ""},
	} {
		row := sheet.AddRow()
		for _, v := range record {
			row.AddCell().Value = v
		}
	}
	require.NoError(t, f.Save(path))

	df, err := ReadDataset(path, ReadOptions{SheetName: "movies"})
	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, series.Int, df.Col("Year").Type())
	assert.True(t, df.Col("Rating").Elem(1).IsNA())

	_, err = ReadDataset(path, ReadOptions{SheetName: "missing"})
	require.Error(t, err)
}
