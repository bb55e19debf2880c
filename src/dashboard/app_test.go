package dashboard

import (
	"MovieInsight/src/config"
	"MovieInsight/src/datasource/file"
	"MovieInsight/src/processor"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureLoader(t *testing.T) Loader {
	t.Helper()
	return func() (*processor.Report, error) {
		df, err := file.ReadDataset("../processor/testdata/movies.csv", file.ReadOptions{})
		if err != nil {
			return nil, err
		}
		return processor.Analyze(df, config.DefaultDataConfig())
	}
}

func newTestApp(t *testing.T, load Loader, logs <-chan string) *App {
	t.Helper()
	app := NewApp(load, logs, Options{
		WorkDir:      "/srv/movies",
		DataPath:     "IMDB-Movie-Data.csv",
		GlamourStyle: "notty",
	})
	app.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	return app
}

// runCmd 执行命令并把结果交给 Update
func runCmd(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	app.Update(cmd())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppLoadsReport(t *testing.T) {
	app := newTestApp(t, fixtureLoader(t), nil)
	runCmd(t, app, app.runPipeline())

	require.NotNil(t, app.report)
	assert.Len(t, app.sections.Items(), 20)
	assert.Equal(t, processor.SectionHead, app.Selected())
	assert.Contains(t, app.content.View(), "First few rows")
	assert.Contains(t, app.status, "15 rows")

	view := app.View()
	assert.Contains(t, view, "/srv/movies")
	assert.Contains(t, view, "IMDB-Movie-Data.csv")
}

func TestAppNavigatesSections(t *testing.T) {
	app := newTestApp(t, fixtureLoader(t), nil)
	runCmd(t, app, app.runPipeline())

	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, processor.SectionInfo, app.Selected())
	assert.Contains(t, app.content.View(), "Dataset Information")

	app.Update(keyRunes("j"))
	assert.Equal(t, processor.SectionMissing, app.Selected())

	app.Update(keyRunes("k"))
	assert.Equal(t, processor.SectionInfo, app.Selected())
}

func TestAppTabSwitchesFocus(t *testing.T) {
	app := newTestApp(t, fixtureLoader(t), nil)
	runCmd(t, app, app.runPipeline())

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusContent, app.focus)

	// 焦点在内容区时方向键不切换章节
	app.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, processor.SectionHead, app.Selected())

	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusList, app.focus)
}

func TestAppReload(t *testing.T) {
	calls := 0
	load := fixtureLoader(t)
	app := newTestApp(t, func() (*processor.Report, error) {
		calls++
		return load()
	}, nil)

	_, cmd := app.Update(keyRunes("r"))
	require.NotNil(t, cmd)
	assert.True(t, app.loading)

	// 计算未完成时不会再次触发
	_, again := app.Update(ReloadMsg{Path: "IMDB-Movie-Data.csv"})
	assert.Nil(t, again)

	app.Update(cmd())
	assert.False(t, app.loading)
	assert.Equal(t, 1, calls)

	_, cmd = app.Update(ReloadMsg{Path: "IMDB-Movie-Data.csv"})
	require.NotNil(t, cmd)
	assert.Contains(t, app.status, "IMDB-Movie-Data.csv")
}

func TestAppShowsLoadError(t *testing.T) {
	app := newTestApp(t, func() (*processor.Report, error) {
		return nil, errors.New("File not found. Please check if the file IMDB-Movie-Data.csv is in the correct directory.")
	}, nil)
	runCmd(t, app, app.runPipeline())

	assert.Nil(t, app.report)
	assert.Contains(t, app.View(), "File not found")
}

func TestAppLogPane(t *testing.T) {
	logs := make(chan string, 8)
	app := newTestApp(t, fixtureLoader(t), logs)

	for i := 0; i < 7; i++ {
		logs <- "[2024-05-01 10:00:00] INFO: line"
	}
	logs <- "[2024-05-01 10:00:01] INFO: 分析完成"
	for i := 0; i < 8; i++ {
		runCmd(t, app, app.waitForLog())
	}

	assert.Len(t, app.logTail, logLines)
	assert.Contains(t, app.View(), "分析完成")
}

func TestAppQuit(t *testing.T) {
	app := newTestApp(t, fixtureLoader(t), nil)

	_, cmd := app.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppSetReportSkipsInitialLoad(t *testing.T) {
	calls := 0
	load := fixtureLoader(t)
	report, err := load()
	require.NoError(t, err)

	app := newTestApp(t, func() (*processor.Report, error) {
		calls++
		return load()
	}, nil)
	app.SetReport(report)

	assert.Nil(t, app.Init())
	assert.Zero(t, calls)
	assert.Equal(t, processor.SectionHead, app.Selected())
}
