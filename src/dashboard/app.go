// Package dashboard 交互式终端报告，左侧为章节列表，右侧为 glamour 渲染的章节内容
package dashboard

import (
	"MovieInsight/src/processor"
	"MovieInsight/src/render"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	listWidth    = 34
	logLines     = 5
	chromeHeight = 4 + logLines + 2
)

// Loader 运行一次完整的分析流水线
type Loader func() (*processor.Report, error)

// ReloadMsg 数据文件变化时由监控器发送
type ReloadMsg struct {
	Path string
}

type reportMsg struct {
	report *processor.Report
	err    error
}

type logMsg string

type focusArea int

const (
	focusList focusArea = iota
	focusContent
)

// Options 仪表盘显示参数
type Options struct {
	WorkDir      string
	DataPath     string
	GlamourStyle string // glamour 样式名或样式文件，为空时自动选择
}

// sectionItem 实现 list.Item
type sectionItem struct {
	section processor.Section
}

func (i sectionItem) Title() string       { return i.section.Title }
func (i sectionItem) FilterValue() string { return i.section.Title }
func (i sectionItem) Description() string {
	switch {
	case i.section.Chart != nil:
		return "chart"
	case i.section.Heatmap != nil:
		return "heatmap"
	case i.section.Table != nil:
		return fmt.Sprintf("table · %d rows", len(i.section.Table.Rows))
	default:
		return "summary"
	}
}

// App 仪表盘模型
type App struct {
	load     Loader
	logs     <-chan string
	opts     Options
	renderer *glamour.TermRenderer

	report   *processor.Report
	sections list.Model
	content  viewport.Model
	focus    focusArea
	logTail  []string
	loading  bool
	status   string
	err      error
	width    int
	height   int
	shown    int
}

// NewApp 创建仪表盘，logs 为日志订阅通道，可为 nil
func NewApp(load Loader, logs <-chan string, opts Options) *App {
	sections := list.New(nil, list.NewDefaultDelegate(), listWidth, 20)
	sections.Title = "MovieInsight"
	sections.SetShowStatusBar(false)
	sections.SetFilteringEnabled(false)
	sections.SetShowHelp(false)

	a := &App{
		load:     load,
		logs:     logs,
		opts:     opts,
		sections: sections,
		content:  viewport.New(80, 20),
		shown:    -1,
	}
	a.renderer = a.newRenderer(80)
	return a
}

func (a *App) newRenderer(wrap int) *glamour.TermRenderer {
	style := glamour.WithAutoStyle()
	if a.opts.GlamourStyle != "" {
		style = glamour.WithStylePath(a.opts.GlamourStyle)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil
	}
	return r
}

// SetReport 设置已计算好的报告，Init 时不再重复计算
func (a *App) SetReport(r *processor.Report) {
	a.Update(reportMsg{report: r})
}

// Init 启动时运行流水线并开始接收日志
func (a *App) Init() tea.Cmd {
	if a.report != nil {
		return a.waitForLog()
	}
	a.loading = true
	a.status = "正在加载数据集..."
	return tea.Batch(a.runPipeline(), a.waitForLog())
}

func (a *App) runPipeline() tea.Cmd {
	load := a.load
	return func() tea.Msg {
		r, err := load()
		return reportMsg{report: r, err: err}
	}
}

func (a *App) waitForLog() tea.Cmd {
	if a.logs == nil {
		return nil
	}
	logs := a.logs
	return func() tea.Msg {
		line, ok := <-logs
		if !ok {
			return nil
		}
		return logMsg(line)
	}
}

// Update 处理消息
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case reportMsg:
		a.loading = false
		if msg.err != nil {
			a.err = msg.err
			a.status = fmt.Sprintf("分析失败: %v", msg.err)
			return a, nil
		}
		a.err = nil
		a.report = msg.report
		a.status = fmt.Sprintf("%d rows · %d sections", msg.report.Info.Rows, len(msg.report.Sections))
		items := make([]list.Item, 0, len(msg.report.Sections))
		for _, s := range msg.report.Sections {
			items = append(items, sectionItem{section: s})
		}
		cmd := a.sections.SetItems(items)
		if a.sections.Index() >= len(items) {
			a.sections.Select(0)
		}
		a.shown = -1
		a.showSelected()
		return a, cmd

	case ReloadMsg:
		return a, a.reload(fmt.Sprintf("数据文件已变化，重新计算: %s", msg.Path))

	case logMsg:
		a.logTail = append(a.logTail, string(msg))
		if len(a.logTail) > logLines {
			a.logTail = a.logTail[len(a.logTail)-logLines:]
		}
		return a, a.waitForLog()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return a, tea.Quit
		case "tab":
			if a.focus == focusList {
				a.focus = focusContent
			} else {
				a.focus = focusList
			}
			return a, nil
		case "r":
			return a, a.reload("重新计算...")
		}
	}

	var cmd tea.Cmd
	if a.focus == focusList {
		a.sections, cmd = a.sections.Update(msg)
		a.showSelected()
	} else {
		a.content, cmd = a.content.Update(msg)
	}
	return a, cmd
}

// reload 正在计算时忽略新的请求，保证流水线不重叠
func (a *App) reload(status string) tea.Cmd {
	if a.loading {
		return nil
	}
	a.loading = true
	a.status = status
	return a.runPipeline()
}

func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	bodyHeight := max(3, height-chromeHeight)
	contentWidth := max(20, width-listWidth-8)

	a.sections.SetSize(listWidth, bodyHeight)
	a.content.Width = contentWidth
	a.content.Height = bodyHeight
	a.renderer = a.newRenderer(contentWidth - 2)
	a.shown = -1
	a.showSelected()
}

// showSelected 渲染当前选中的章节
func (a *App) showSelected() {
	if a.report == nil || len(a.report.Sections) == 0 {
		return
	}
	idx := a.sections.Index()
	if idx == a.shown || idx < 0 || idx >= len(a.report.Sections) {
		return
	}
	a.shown = idx

	md := render.SectionMarkdown(a.report.Sections[idx])
	out := md
	if a.renderer != nil {
		if rendered, err := a.renderer.Render(md); err == nil {
			out = rendered
		}
	}
	a.content.SetContent(out)
	a.content.GotoTop()
}

// Selected 当前选中章节的 key
func (a *App) Selected() string {
	if a.report == nil || a.sections.Index() >= len(a.report.Sections) {
		return ""
	}
	return a.report.Sections[a.sections.Index()].Key
}

// View 渲染界面
func (a *App) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("MovieInsight"),
		pathStyle.Render(fmt.Sprintf("Current Working Directory: %s · Dataset: %s", a.opts.WorkDir, a.opts.DataPath)),
	)

	listPane, contentPane := paneStyle, paneStyle
	if a.focus == focusList {
		listPane = focusedPaneStyle
	} else {
		contentPane = focusedPaneStyle
	}

	var body string
	if a.report == nil && a.err != nil {
		body = errorStyle.Render(a.err.Error())
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			listPane.Render(a.sections.View()),
			contentPane.Render(a.content.View()),
		)
	}

	sections := []string{header, body}
	if len(a.logTail) > 0 {
		sections = append(sections, paneStyle.Render(fmt.Sprintf("%s\n%s",
			logHeadStyle.Render("LOG"),
			logBodyStyle.Render(strings.Join(a.logTail, "\n")))))
	}

	status := a.status
	if a.err != nil {
		status = errorStyle.Render(status)
	} else {
		status = statusStyle.Render(status)
	}
	sections = append(sections, status+statusStyle.Render("  ↑/↓ select · tab focus · r reload · q quit"))
	return strings.Join(sections, "\n")
}
