package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// 数据集中查询用到的逻辑字段
const (
	FieldTitle    = "title"
	FieldYear     = "year"
	FieldRuntime  = "runtime"
	FieldVotes    = "votes"
	FieldRevenue  = "revenue"
	FieldRating   = "rating"
	FieldDirector = "director"
)

// EnvPrefix 环境变量前缀，例如 MOVIE_DATA_PATH 覆盖 data_path
const EnvPrefix = "MOVIE"

// Config 结构体定义了应用程序的配置结构
type Config struct {
	DataPath       string        `mapstructure:"data_path"`       // 数据集文件路径(csv/xlsx)
	SheetName      string        `mapstructure:"sheet_name"`      // xlsx 输入时读取的工作表
	Encoding       string        `mapstructure:"encoding"`        // 数据文件编码
	LogName        string        `mapstructure:"log_name"`        // 日志文件
	LogMaxSize     string        `mapstructure:"log_max_size"`    // 日志轮转阈值，如 "10 * 1024 * 1024"
	LogLevel       string        `mapstructure:"log_level"`       // debug/info/warning/error
	OutputDir      string        `mapstructure:"output_dir"`      // 导出目录
	Watch          bool          `mapstructure:"watch"`           // 数据文件变化时重新计算
	ReloadDebounce time.Duration `mapstructure:"reload_debounce"` // 文件变化去抖时间
}

// Queries 查询参数
type Queries struct {
	LongRuntime int `mapstructure:"long_runtime"` // 长片阈值(分钟)
	TopN        int `mapstructure:"top_n"`        // 排行榜条数
	Head        int `mapstructure:"head"`         // 预览/年度排行条数
}

// DataConfig 数据集列名映射与查询参数
type DataConfig struct {
	Columns map[string]string `mapstructure:"columns"`
	Queries Queries           `mapstructure:"queries"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

var defaultConfig = map[string]interface{}{
	"data_path":       "IMDB-Movie-Data.csv",
	"sheet_name":      "",
	"encoding":        "utf-8",
	"log_name":        "app.log",
	"log_max_size":    "10 * 1024 * 1024",
	"log_level":       "info",
	"output_dir":      "output",
	"watch":           true,
	"reload_debounce": "500ms",
}

var defaultDataConfig = map[string]interface{}{
	"columns." + FieldTitle:    "Title",
	"columns." + FieldYear:     "Year",
	"columns." + FieldRuntime:  "Runtime (Minutes)",
	"columns." + FieldVotes:    "Votes",
	"columns." + FieldRevenue:  "Revenue (Millions)",
	"columns." + FieldRating:   "Rating",
	"columns." + FieldDirector: "Director",
	"queries.long_runtime":     180,
	"queries.top_n":            10,
	"queries.head":             5,
}

// LoadConfig 只加载一次配置，后续调用返回同一实例
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = ReadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

// ReadConfigs 每次调用都重新读取配置文件
func ReadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	v, err := newViper(configFile, defaultConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	dv, err := newViper(dataConfigFile, defaultDataConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("读取数据配置文件失败: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(v, cfgChan, errChan)
	go parseDataConfig(dv, dcfgChan, errChan)

	return waitForResults(cfgChan, dcfgChan, errChan)
}

// newViper 创建带默认值和环境变量覆盖的 viper 实例，文件不存在时只使用默认值
func newViper(filePath string, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}

	v.SetConfigFile(filePath)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	return v, nil
}

func parseConfig(v *viper.Viper, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		errChan <- fmt.Errorf("解析Config失败: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(v *viper.Viper, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := v.Unmarshal(&dcfg); err != nil {
		errChan <- fmt.Errorf("解析DataConfig失败: %w", err)
		return
	}
	if dcfg.Columns == nil {
		dcfg.Columns = make(map[string]string)
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("部分配置未加载成功")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Column 返回逻辑字段对应的CSV列名，未配置时返回空串
func (dc *DataConfig) Column(field string) string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.Columns[field]
}

func (dc *DataConfig) SetColumn(field, header string) {
	mu.Lock()
	defer mu.Unlock()
	dc.Columns[field] = header
}

// DefaultDataConfig 返回与 IMDB-Movie-Data.csv 表头一致的数据配置
func DefaultDataConfig() *DataConfig {
	dcfg := &DataConfig{
		Columns: make(map[string]string),
		Queries: Queries{LongRuntime: 180, TopN: 10, Head: 5},
	}
	for k, v := range defaultDataConfig {
		if field, ok := strings.CutPrefix(k, "columns."); ok {
			dcfg.Columns[field] = v.(string)
		}
	}
	return dcfg
}
