package storage

import (
	"MovieInsight/src/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })
	return logger, path
}

func TestLoggerWritesFile(t *testing.T) {
	logger, path := newTestLogger(t)

	logger.Info("数据集加载完成")
	logger.Warning("Revenue 列存在缺失值")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO")
	assert.Contains(t, string(data), "数据集加载完成")
	assert.Contains(t, string(data), "WARN")
}

func TestLoggerLevelFilter(t *testing.T) {
	logger, path := newTestLogger(t)
	logger.SetLevel(WARNING)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Error("visible error")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible error")
}

func TestLoggerSubscribe(t *testing.T) {
	logger, _ := newTestLogger(t)
	ch := logger.Subscribe()

	logger.Fatal("pipeline failed")

	select {
	case entry := <-ch:
		assert.Contains(t, entry, "FATAL: pipeline failed")
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive entry")
	}
}

func TestLoggerReopen(t *testing.T) {
	logger, _ := newTestLogger(t)
	other := filepath.Join(t.TempDir(), "other.log")

	require.NoError(t, logger.Reopen(other))
	logger.Info("after reopen")

	data, err := os.ReadFile(other)
	require.NoError(t, err)
	assert.Contains(t, string(data), "after reopen")
}

func TestLoggerCheckRotate(t *testing.T) {
	logger, path := newTestLogger(t)
	logger.Info("fill the log file beyond the limit")

	require.NoError(t, logger.CheckRotate(&config.Config{LogMaxSize: "1 * 8"}))

	rotated, err := filepath.Glob(filepath.Join(filepath.Dir(path), "app.*.log"))
	require.NoError(t, err)
	assert.Len(t, rotated, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "轮转后重新创建空日志文件")
}

func TestEval(t *testing.T) {
	assert.Equal(t, int64(10*1024*1024), eval("10 * 1024 * 1024"))
	assert.Equal(t, int64(512), eval("512"))
	assert.Equal(t, int64(0), eval(""))
	assert.Equal(t, int64(0), eval("ten * 2"))
}

func TestRotatedName(t *testing.T) {
	ts := time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)
	assert.Equal(t, "logs/app.20240501130405.log", RotatedName("logs/app.log", ts))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARNING, ParseLevel("Warn"))
	assert.Equal(t, INFO, ParseLevel("unknown"))
	assert.Equal(t, "WARNING", WARNING.String())
}
