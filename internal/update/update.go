package update

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pricebook/internal/logger"
)

// Run performs the surgical update: it refreshes the percent-sold and
// availability cells of an existing price book from the inventory export and
// reapplies the book's formatting, leaving every other cell untouched. The
// result is written to outputPath; the master book is never modified.
func Run(invPath, masterPath, outputPath string, opts LoadOptions) error {
	inv, err := LoadInventory(invPath, opts)
	if err != nil {
		return err
	}

	f, err := excelize.OpenFile(masterPath)
	if err != nil {
		return fmt.Errorf("failed to open master book %s: %v", masterPath, err)
	}
	defer f.Close()

	st := newSheetStyles(f)
	for _, sheet := range f.GetSheetList() {
		if err := updateSheet(f, st, sheet, inv); err != nil {
			return fmt.Errorf("failed to update sheet %s: %v", sheet, err)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save updated book: %v", err)
	}
	logger.Info("Saved updated price book", "path", outputPath)
	return nil
}

// Header cells that mark a price book sheet's column row, and the column
// roles the update recognizes inside it.
var sheetHeaderKeywords = []string{"PRICE", "GARDEN", "LEVEL", "ROW", "SECTION", "AVAIL"}

type sheetLayout struct {
	headerRow int            // 0-based
	headers   map[int]string // 0-based column -> upper-cased header
	rowCol    int            // column carrying the row/level label, -1 if none
	gardenCol int            // column carrying the garden name, -1 if none
	maxCol    int
}

func findSheetLayout(rows [][]string) sheetLayout {
	layout := sheetLayout{headers: map[int]string{}, rowCol: -1, gardenCol: -1}
	for _, row := range rows {
		if len(row) > layout.maxCol {
			layout.maxCol = len(row)
		}
	}

	scan := len(rows)
	if scan > 20 {
		scan = 20
	}
	for r := 0; r < scan; r++ {
		joined := strings.ToUpper(strings.Join(rows[r], " "))
		if !containsAny(joined, sheetHeaderKeywords...) {
			continue
		}
		layout.headerRow = r
		for c, raw := range rows[r] {
			val := strings.ToUpper(strings.TrimSpace(raw))
			if val == "" {
				continue
			}
			layout.headers[c] = val
			switch val {
			case "ROW", "LEVEL", "SECTION", "CRYPT", "NICHE", "SPACE":
				if layout.rowCol < 0 {
					layout.rowCol = c
				}
			}
			if strings.Contains(val, "GARDEN") && layout.gardenCol < 0 {
				layout.gardenCol = c
			}
		}
		break
	}
	return layout
}

func updateSheet(f *excelize.File, st *sheetStyles, sheet string, inv *Inventory) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	layout := findSheetLayout(rows)
	merged, err := mergedNonAnchors(f, sheet)
	if err != nil {
		return err
	}

	// Prefer the specific sheet-name cleaning; fall back to the generic one
	// when the export has no garden under the specific name.
	searchName := CleanSheetNameSpecific(sheet)
	if !inv.GardenExists(searchName) {
		searchName = CleanSheetNameGeneric(sheet)
	}

	dataRows := 0
	for r := layout.headerRow; r < len(rows); r++ {
		row := rows[r]
		isHeader := r == layout.headerRow || isSecondaryHeader(row, layout)

		var rowName, gardenName string
		if !isHeader {
			rowName, gardenName = rowKeys(row, layout)
		}

		for c := 0; c < layout.maxCol; c++ {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if merged[cell] {
				continue
			}
			formatCell(f, st, sheet, cell, layout.headers[c], cellAt(row, c), isHeader, dataRows%2 == 0)
		}

		if !isHeader {
			if gardenName != "" {
				if pct, ok := inv.PercentSold(gardenName); ok {
					writePercent(f, st, sheet, r, layout, merged, pct, dataRows%2 == 0)
				}
			}
			if rowName != "" {
				if count, ok := inv.CountRowAvailability(searchName, rowName); ok {
					writeAvailability(f, st, sheet, r, layout, merged, count, dataRows%2 == 0)
				}
			}
			dataRows++
		}
	}

	fitColumnWidths(f, sheet, rows, layout)
	return nil
}

// isSecondaryHeader detects repeated header rows inside a sheet: the books
// restate "ROW"/"LEVEL"/"SECTION" labels above each product block.
func isSecondaryHeader(row []string, layout sheetLayout) bool {
	for c, name := range layout.headers {
		if !containsAny(name, "ROW", "LEVEL", "SECTION", "PRODUCT") {
			continue
		}
		switch strings.ToUpper(cellAt(row, c)) {
		case "ROW", "LEVEL", "SECTION", "PRODUCT", "STATION", "NICHE #":
			return true
		}
	}
	return false
}

// rowKeys extracts the row label and garden name from a data row, preferring
// the columns identified at header time and falling back to any column whose
// header looks right.
func rowKeys(row []string, layout sheetLayout) (rowName, gardenName string) {
	if layout.rowCol >= 0 {
		rowName = cellAt(row, layout.rowCol)
	}
	if layout.gardenCol >= 0 {
		gardenName = cellAt(row, layout.gardenCol)
	}
	if rowName == "" {
		for c, name := range layout.headers {
			if containsAny(name, "ROW", "LEVEL", "SECTION", "STATION", "PRODUCT") {
				if v := cellAt(row, c); v != "" {
					rowName = v
					break
				}
			}
		}
	}
	if gardenName == "" {
		for c, name := range layout.headers {
			if strings.Contains(name, "GARDEN") {
				if v := cellAt(row, c); v != "" {
					gardenName = v
					break
				}
			}
		}
	}
	return rowName, gardenName
}

// formatCell reapplies the book's formatting to one cell and normalizes its
// value: money and percent columns become true numbers so stray text entries
// ("$5,995", "85%") stop rendering as left-aligned strings.
func formatCell(f *excelize.File, st *sheetStyles, sheet, cell, header, value string, isHeader, altRow bool) {
	if isHeader {
		f.SetCellStyle(sheet, cell, cell, st.header)
		return
	}

	left := containsAny(header, "GARDEN", "ROW", "SECTION", "LEVEL", "PRODUCT", "DESCRIPTION", "LOCATION")
	numeric := strings.NewReplacer("$", "", ",", "", "%", "").Replace(value)

	switch {
	case containsAny(header, "PRICE", "TOTAL", "COST", "PLAQUE"):
		if v, err := strconv.ParseFloat(numeric, 64); err == nil && numeric != "" {
			f.SetCellValue(sheet, cell, v)
			f.SetCellStyle(sheet, cell, cell, st.data(kindMoney, altRow, false))
			return
		}
	case containsAny(header, "%", "SOLD", "SCARCITY") && !strings.Contains(header, "QTY"):
		if v, err := strconv.ParseFloat(numeric, 64); err == nil && numeric != "" {
			f.SetCellValue(sheet, cell, v)
			f.SetCellStyle(sheet, cell, cell, st.data(kindPercent, altRow, false))
			return
		}
	case containsAny(header, "QTY", "AVAIL", "STATUS"):
		if strings.EqualFold(value, "Sold Out") {
			f.SetCellStyle(sheet, cell, cell, st.data(kindSoldOut, altRow, false))
			return
		}
		if v, err := strconv.ParseFloat(numeric, 64); err == nil && numeric != "" {
			n := int(v)
			f.SetCellValue(sheet, cell, n)
			kind := kindCount
			if n > 0 && n < 4 {
				kind = kindLowStock
			}
			f.SetCellStyle(sheet, cell, cell, st.data(kind, altRow, false))
			return
		}
	}
	f.SetCellStyle(sheet, cell, cell, st.data(kindText, altRow, left))
}

func writePercent(f *excelize.File, st *sheetStyles, sheet string, r int, layout sheetLayout, merged map[string]bool, pct float64, altRow bool) {
	for c, name := range layout.headers {
		if !containsAny(name, "%", "SOLD", "SCARCITY") || strings.Contains(name, "QTY") {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
		if merged[cell] {
			continue
		}
		f.SetCellValue(sheet, cell, pct)
		f.SetCellStyle(sheet, cell, cell, st.data(kindPercent, altRow, false))
	}
}

func writeAvailability(f *excelize.File, st *sheetStyles, sheet string, r int, layout sheetLayout, merged map[string]bool, count int, altRow bool) {
	for c, name := range layout.headers {
		if !containsAny(name, "AVAIL", "QTY", "STATUS") {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
		if merged[cell] {
			continue
		}
		if count == 0 {
			f.SetCellValue(sheet, cell, "Sold Out")
			f.SetCellStyle(sheet, cell, cell, st.data(kindSoldOut, altRow, false))
			continue
		}
		f.SetCellValue(sheet, cell, count)
		kind := kindCount
		if count < 4 {
			kind = kindLowStock
		}
		f.SetCellStyle(sheet, cell, cell, st.data(kind, altRow, false))
	}
}

// fitColumnWidths widens columns to their longest value, capped at 50, and
// pins the row-label columns at a fixed width.
func fitColumnWidths(f *excelize.File, sheet string, rows [][]string, layout sheetLayout) {
	for c := 0; c < layout.maxCol; c++ {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			continue
		}
		if containsAny(layout.headers[c], "ROW", "LEVEL", "SECTION", "PRODUCT") {
			f.SetColWidth(sheet, col, col, 12)
			continue
		}
		width, _ := f.GetColWidth(sheet, col)
		for r := layout.headerRow; r < len(rows); r++ {
			if n := len(cellAt(rows[r], c)); n > 0 {
				if w := float64(n+2) * 1.1; w > width {
					width = w
				}
			}
		}
		if width > 50 {
			width = 50
		}
		f.SetColWidth(sheet, col, col, width)
	}
}

// mergedNonAnchors returns the set of cells covered by a merge range other
// than the range's top-left anchor. Writing into those corrupts the merge.
func mergedNonAnchors(f *excelize.File, sheet string) (map[string]bool, error) {
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, err
	}
	covered := map[string]bool{}
	for _, m := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(m.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(m.GetEndAxis())
		if err != nil {
			continue
		}
		for r := startRow; r <= endRow; r++ {
			for c := startCol; c <= endCol; c++ {
				if r == startRow && c == startCol {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(c, r)
				covered[cell] = true
			}
		}
	}
	return covered, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
