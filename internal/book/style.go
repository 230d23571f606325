package book

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Palette carried over from the hand-built workbooks so published output
// drops into the same binder unchanged.
const (
	colorDark   = "404040"
	colorDarker = "2B2B2B"
	colorMid    = "D9D9D9"
	colorGrid   = "BFBFBF"
	colorRed    = "C00000"
)

var moneyFormat = `"$"#,##0`

type styles struct {
	title   int
	header  int
	group   int
	data    int
	money   int
	count   int
	soldOut int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: colorGrid, Style: 1},
		{Type: "right", Color: colorGrid, Style: 1},
		{Type: "top", Color: colorGrid, Style: 1},
		{Type: "bottom", Color: colorGrid, Style: 1},
	}
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorDark}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create title style: %v", err)
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorDarker}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %v", err)
	}

	s.group, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorMid}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return s, fmt.Errorf("failed to create group style: %v", err)
	}

	s.data, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return s, fmt.Errorf("failed to create data style: %v", err)
	}

	s.money, err = f.NewStyle(&excelize.Style{
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		Border:       thinBorder(),
		CustomNumFmt: &moneyFormat,
	})
	if err != nil {
		return s, fmt.Errorf("failed to create money style: %v", err)
	}

	countFmt := "0"
	s.count, err = f.NewStyle(&excelize.Style{
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:       thinBorder(),
		CustomNumFmt: &countFmt,
	})
	if err != nil {
		return s, fmt.Errorf("failed to create count style: %v", err)
	}

	s.soldOut, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: colorRed},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder(),
	})
	if err != nil {
		return s, fmt.Errorf("failed to create sold-out style: %v", err)
	}

	return s, nil
}
