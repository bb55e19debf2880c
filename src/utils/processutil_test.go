package utils

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"Title", "Year"}, "Year"))
	assert.False(t, Contains([]int{1, 2}, 3))
}

func TestHasColumn(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader("Title,Year\nAvatar,2009\n"))
	require.NoError(t, df.Err)
	assert.True(t, HasColumn(df, "Title"))
	assert.False(t, HasColumn(df, "Director"))
}

func TestFrameSheet(t *testing.T) {
	df := dataframe.ReadCSV(strings.NewReader("Title,Revenue\nAvatar,760.51\nMindhorn,NA\n"))
	require.NoError(t, df.Err)

	path := filepath.Join(t.TempDir(), "movies.xlsx")
	require.NoError(t, SaveSheetsToExcel(path, FrameSheet("movies", df)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("movies")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Title", "Revenue"}, rows[0])
	assert.Equal(t, []string{"Avatar", "760.51"}, rows[1])
	assert.Equal(t, "Mindhorn", rows[2][0])

	v, err := f.GetCellValue("movies", "B3")
	require.NoError(t, err)
	assert.Empty(t, v, "缺失值写为空单元格")
}

func TestSaveSheetsToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	err := SaveSheetsToExcel(path,
		Sheet{Name: "missing", Header: []string{"Column", "Missing"}, Rows: [][]interface{}{{"Revenue", 1}}},
		Sheet{Name: "directors", Header: []string{"Director", "Rating"}, Rows: [][]interface{}{{"Christopher Nolan", 8.8}}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"missing", "directors"}, f.GetSheetList())
	v, err := f.GetCellValue("directors", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Christopher Nolan", v)

	assert.Error(t, SaveSheetsToExcel(path))
}
