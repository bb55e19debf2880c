package utils

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// Sheet 写入工作簿的一张表
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// FrameSheet 将 DataFrame 转为工作表，缺失值写为空单元格
func FrameSheet(name string, df dataframe.DataFrame) Sheet {
	sheet := Sheet{Name: name, Header: df.Names()}
	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		row := make([]interface{}, len(sheet.Header))
		for colIdx, colName := range sheet.Header {
			row[colIdx] = df.Col(colName).Val(rowIdx)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// SaveSheetsToExcel 按顺序写入多张工作表，第一张替换默认的 Sheet1
func SaveSheetsToExcel(filePath string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("没有可保存的工作表")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("重命名工作表失败: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("创建工作表 %s 失败: %w", sheet.Name, err)
		}

		// 写入列名
		for colIdx, name := range sheet.Header {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
			f.SetCellValue(sheet.Name, cell, name)
		}

		// 写入数据
		for rowIdx, row := range sheet.Rows {
			for colIdx, val := range row {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				f.SetCellValue(sheet.Name, cell, val)
			}
		}
	}

	// 保存文件
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}
