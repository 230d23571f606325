// Package excel wraps the read side of excelize for the pipeline's loaders.
// Writers that need styles (the published book, the surgical update) use
// excelize directly.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type Editor struct {
	file     *excelize.File
	filepath string
}

// OpenFile opens an existing workbook (.xlsx or .xlsm).
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %v", err)
	}
	return &Editor{
		file:     file,
		filepath: filepath,
	}, nil
}

// GetSheetNames returns all sheet names in the workbook.
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

// GetAllRows returns all rows from a sheet as strings.
func (e *Editor) GetAllRows(sheet string) ([][]string, error) {
	rows, err := e.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return rows, nil
}

// GetCellValue returns the value in a specific cell.
func (e *Editor) GetCellValue(sheet, cell string) (string, error) {
	return e.file.GetCellValue(sheet, cell)
}

// Close closes the workbook.
func (e *Editor) Close() error {
	return e.file.Close()
}

// CellAt returns the value at 0-based row/column from a rows slice, or ""
// when the row is ragged. excelize trims trailing empty cells per row, so
// loaders index through this instead of the raw slice.
func CellAt(rows [][]string, row, col int) string {
	if row < 0 || row >= len(rows) {
		return ""
	}
	if col < 0 || col >= len(rows[row]) {
		return ""
	}
	return rows[row][col]
}
