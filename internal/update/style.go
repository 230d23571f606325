package update

import (
	"github.com/xuri/excelize/v2"

	"pricebook/internal/logger"
)

const (
	headerFill   = "363636"
	altRowFill   = "F2F2F2"
	borderColor  = "D9D9D9"
	soldOutColor = "FF0000"
	lowStockFont = "E26B0A"
	fontName     = "Calibri"

	moneyFormat = `"$"#,##0`
)

type cellKind int

const (
	kindText cellKind = iota
	kindMoney
	kindPercent
	kindCount
	kindSoldOut
	kindLowStock
)

type styleKey struct {
	kind cellKind
	alt  bool
	left bool
}

// sheetStyles builds excelize style IDs on demand and memoizes them; a style
// per (kind, alternating fill, alignment) combination is registered at most
// once per workbook.
type sheetStyles struct {
	f      *excelize.File
	header int
	cache  map[styleKey]int
}

func newSheetStyles(f *excelize.File) *sheetStyles {
	st := &sheetStyles{f: f, cache: map[styleKey]int{}}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: fontName, Size: 11, Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		logger.Error("Failed to register header style", "error", err)
	}
	st.header = header
	return st
}

func (st *sheetStyles) data(kind cellKind, alt, left bool) int {
	key := styleKey{kind: kind, alt: alt, left: left}
	if id, ok := st.cache[key]; ok {
		return id
	}

	style := &excelize.Style{
		Font:      &excelize.Font{Family: fontName, Size: 10, Color: "000000"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	}
	if left {
		style.Alignment.Horizontal = "left"
	}
	if alt {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{altRowFill}}
	}

	switch kind {
	case kindMoney:
		style.CustomNumFmt = strPtr(moneyFormat)
	case kindPercent:
		style.CustomNumFmt = strPtr("0%")
	case kindCount:
		style.CustomNumFmt = strPtr("0")
	case kindSoldOut:
		style.Font.Color = soldOutColor
		style.Font.Bold = true
	case kindLowStock:
		style.Font.Color = lowStockFont
		style.Font.Bold = true
		style.CustomNumFmt = strPtr("0")
	}

	id, err := st.f.NewStyle(style)
	if err != nil {
		logger.Error("Failed to register cell style", "error", err)
	}
	st.cache[key] = id
	return id
}

func thinBorder() []excelize.Border {
	sides := []string{"left", "right", "top", "bottom"}
	borders := make([]excelize.Border, 0, len(sides))
	for _, side := range sides {
		borders = append(borders, excelize.Border{Type: side, Color: borderColor, Style: 1})
	}
	return borders
}

func strPtr(s string) *string { return &s }
