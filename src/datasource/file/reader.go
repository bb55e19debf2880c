// reader.go
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-gota/gota/dataframe"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrFileNotFound 数据文件不存在
var ErrFileNotFound = errors.New("file not found")

// MissingTokens 读取时视为缺失值的字段内容
var MissingTokens = []string{"", "NA", "NaN", "<nil>"}

// ReadOptions 读取数据集的选项
type ReadOptions struct {
	SheetName string // xlsx 工作表，为空时取第一个
	Encoding  string // csv 编码
}

// NotFoundMessage 数据文件缺失时给用户的提示
func NotFoundMessage(path string) string {
	return fmt.Sprintf("File not found. Please check if the file %s is in the correct directory.", filepath.Base(path))
}

// ReadDataset 按扩展名读取 csv 或 xlsx 数据集
func ReadDataset(path string, opts ReadOptions) (dataframe.DataFrame, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return dataframe.DataFrame{}, fmt.Errorf("读取数据文件失败: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSXToDataFrame(path, opts.SheetName)
	default:
		f, err := os.Open(path)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("打开数据文件失败: %w", err)
		}
		defer f.Close()
		return ReadCSVToDataFrame(f, opts.Encoding)
	}
}

// ReadCSVToDataFrame 按给定编码解码后读入 DataFrame，开启类型推断
func ReadCSVToDataFrame(r io.Reader, enc string) (dataframe.DataFrame, error) {
	decoder, err := lookupEncoding(enc)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df := dataframe.ReadCSV(
		transform.NewReader(r, decoder.NewDecoder()),
		dataframe.WithLazyQuotes(true),
		dataframe.DetectTypes(true),
		dataframe.HasHeader(true),
		dataframe.NaNValues(MissingTokens),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("解析CSV失败: %w", df.Err)
	}
	return df, nil
}

// lookupEncoding 返回编码对应的解码器，utf-8 会去掉 BOM
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "gbk":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	default:
		return nil, fmt.Errorf("不支持的编码: %s", name)
	}
}

// ReadXLSXToDataFrame 读取 xlsx 工作表，第一行为表头
func ReadXLSXToDataFrame(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open xlsx file: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("excel文件中没有工作表")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("sheet name %s 获取失败", sheetName)
		}
		sheet = s
	}

	return convertSheetToDataFrame(sheet)
}

// convertSheetToDataFrame 将xlsx.Sheet转换为dataframe.DataFrame
func convertSheetToDataFrame(sheet *xlsx.Sheet) (dataframe.DataFrame, error) {
	if len(sheet.Rows) < 2 {
		return dataframe.DataFrame{}, fmt.Errorf("工作表 %s 没有数据行", sheet.Name)
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, strings.TrimSpace(cell.Value))
	}

	records := [][]string{headers}
	for _, row := range sheet.Rows[1:] {
		if row == nil {
			continue
		}
		record := make([]string, len(headers))
		for i, cell := range row.Cells {
			if i < len(headers) { // 确保不超出列数范围
				record[i] = cell.Value
			}
		}
		records = append(records, record)
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(true),
		dataframe.HasHeader(true),
		dataframe.NaNValues(MissingTokens),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("转换工作表失败: %w", df.Err)
	}
	return df, nil
}

// SetupSignalHandler 设置信号处理器，SIGINT/SIGTERM 取消 ctx，SIGHUP 调用 onHangup
func SetupSignalHandler(cancel context.CancelFunc, onHangup func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for sig := range sigChan {
			if sig == syscall.SIGHUP {
				if onHangup != nil {
					onHangup()
				}
				continue
			}
			cancel()
			signal.Stop(sigChan)
			return
		}
	}()
}
