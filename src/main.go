package main

import (
	"MovieInsight/src/config"
	"MovieInsight/src/dashboard"
	"MovieInsight/src/datasource/file"
	"MovieInsight/src/processor"
	"MovieInsight/src/render"
	"MovieInsight/src/storage"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	jsonFile     = "config.json"
	dataJsonFile = "dataconfig.json"
)

// loadConfig 测试中替换为不缓存的版本
var loadConfig = config.LoadConfig

type app struct {
	configDir string
	dataPath  string
	verbose   bool

	cfg    *config.Config
	dcfg   *config.DataConfig
	logger *storage.Logger
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:           "movieinsight",
		Short:         "电影数据集探索分析",
		Long:          "加载电影数据集，输出数据质量指标和各项聚合结果，支持交互式仪表盘、终端报告和导出。",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "./config", "配置文件目录")
	root.PersistentFlags().StringVar(&a.dataPath, "data", "", "数据集路径，覆盖 data_path")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "输出调试日志")

	root.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "交互式仪表盘(默认)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "report",
		Short: "在终端输出完整报告",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.runPipeline()
			if err != nil {
				return err
			}
			return render.Console(cmd.OutOrStdout(), report)
		},
	})

	var outDir string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "导出 xlsx 工作簿、PNG 图表和 markdown 报告",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = a.cfg.OutputDir
			}
			return a.runExport(cmd, outDir)
		},
	}
	exportCmd.Flags().StringVar(&outDir, "out", "", "导出目录，默认 output_dir")
	root.AddCommand(exportCmd)

	return root, a
}

func (a *app) setup() error {
	cfg, dcfg, err := loadConfig(a.configDir, jsonFile, dataJsonFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	if a.dataPath != "" {
		cfg.DataPath = a.dataPath
	}
	a.cfg, a.dcfg = cfg, dcfg

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	level := storage.ParseLevel(cfg.LogLevel)
	if a.verbose {
		level = storage.DEBUG
	}
	logger.SetLevel(level)
	a.logger = logger
	a.logger.Debug(fmt.Sprintf("配置加载完成: %+v", *cfg))
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		a.logger.Close()
	}
}

// runPipeline 加载数据集并计算报告
func (a *app) runPipeline() (*processor.Report, error) {
	t1 := time.Now()
	a.logger.Info("开始加载数据集: " + a.cfg.DataPath)

	df, err := file.ReadDataset(a.cfg.DataPath, file.ReadOptions{
		SheetName: a.cfg.SheetName,
		Encoding:  a.cfg.Encoding,
	})
	if err != nil {
		a.logger.Error(err.Error())
		return nil, err
	}
	rows, cols := df.Dims()
	a.logger.Info(fmt.Sprintf("数据集加载完成: %d 行 %d 列", rows, cols))

	report, err := processor.Analyze(df, a.dcfg)
	if err != nil {
		a.logger.Error("分析失败: " + err.Error())
		return nil, err
	}
	a.logger.Info(fmt.Sprintf("数据处理时间：%v", time.Since(t1)))

	if err := a.logger.CheckRotate(a.cfg); err != nil {
		a.logger.Warning("日志轮转失败: " + err.Error())
	}
	return report, nil
}

func (a *app) runExport(cmd *cobra.Command, outDir string) error {
	report, err := a.runPipeline()
	if err != nil {
		return err
	}

	charts, err := render.SaveCharts(outDir, report)
	if err != nil {
		return err
	}
	workbook := filepath.Join(outDir, "movie_report.xlsx")
	if err := render.SaveWorkbook(workbook, report); err != nil {
		return err
	}
	markdown := filepath.Join(outDir, "movie_report.md")
	if err := os.WriteFile(markdown, []byte(render.Markdown(report)), 0644); err != nil {
		return fmt.Errorf("保存markdown报告失败: %w", err)
	}

	a.logger.Info(fmt.Sprintf("导出完成: %s", outDir))
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "处理后的数据已保存到: %s\n", workbook)
	fmt.Fprintf(out, "报告: %s\n", markdown)
	for _, c := range charts {
		fmt.Fprintf(out, "图表: %s\n", c)
	}
	return nil
}

func (a *app) runDashboard(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// 先计算一次，数据文件缺失时直接退出
	report, err := a.runPipeline()
	if err != nil {
		return err
	}

	wd, _ := os.Getwd()
	ui := dashboard.NewApp(a.runPipeline, a.logger.Subscribe(), dashboard.Options{
		WorkDir:  wd,
		DataPath: a.cfg.DataPath,
	})
	ui.SetReport(report)

	program := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx))

	if a.cfg.Watch {
		monitor, err := file.NewFileMonitor(a.cfg.DataPath, a.cfg.ReloadDebounce)
		if err != nil {
			a.logger.Warning("无法监控数据文件: " + err.Error())
		} else {
			defer monitor.Close()
			go func() {
				err := monitor.Watch(ctx, func(path string) {
					a.logger.Info("数据文件已更新: " + path)
					program.Send(dashboard.ReloadMsg{Path: path})
				})
				if err != nil {
					a.logger.Error("文件监控错误: " + err.Error())
				}
			}()
		}
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("仪表盘运行失败: %w", err)
	}
	return nil
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root, a := newRootCmd()
	file.SetupSignalHandler(cancel, func() {
		// SIGHUP 重新打开日志文件，配合外部日志切割
		if a.logger != nil {
			if err := a.logger.Reopen(a.cfg.LogName); err != nil {
				color.Red("重新打开日志失败: %v", err)
			}
		}
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			color.Red("%s", file.NotFoundMessage(a.cfg.DataPath))
		} else {
			color.Red("Error: %v", err)
		}
		os.Exit(1)
	}
}
