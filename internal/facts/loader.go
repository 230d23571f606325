// Package facts parses the FaCTS property-inventory export: header-row
// detection, column resolution, and the space-string patterns that identify
// individual crypts per mausoleum.
package facts

import (
	"fmt"
	"strings"

	"pricebook/internal/excel"
	"pricebook/internal/logger"
	"pricebook/internal/mapping"
)

// Record is one unit row from the FaCTS export.
type Record struct {
	Location  string
	Section   string
	Status    string
	Space     string
	SalesItem string
}

// RequiredFields are the columns a FaCTS export must carry. A missing column
// fails the whole run before any output is produced.
var RequiredFields = []mapping.Field{
	mapping.FieldLocation,
	mapping.FieldSection,
	mapping.FieldStatus,
	mapping.FieldSpace,
	mapping.FieldSalesItem,
}

// LoadOptions control header detection and column resolution for Load.
type LoadOptions struct {
	HeaderScanRows int
	Overrides      map[string]mapping.Field
}

// Load reads the first sheet of a FaCTS export into records. Rows with an
// empty Location are dropped, matching how the export pads its totals.
func Load(path string, opts LoadOptions) ([]Record, error) {
	ed, err := excel.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FaCTS export: %v", err)
	}
	defer ed.Close()

	sheets := ed.GetSheetNames()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("FaCTS export %s has no sheets", path)
	}

	rows, err := ed.GetAllRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read FaCTS sheet %s: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("FaCTS sheet %s is empty", sheets[0])
	}

	scanRows := opts.HeaderScanRows
	if scanRows == 0 {
		scanRows = 20
	}
	headerRow, confident := mapping.DetectHeaderRow(rows, scanRows)
	if !confident {
		logger.Warn("Header detection low confidence, defaulting", "file", path, "row", headerRow+1)
	}

	headers := make([]string, len(rows[headerRow]))
	for i, h := range rows[headerRow] {
		headers[i] = mapping.NormalizeHeader(h)
	}

	cols := mapping.DetectColumns(headers, opts.Overrides)
	if err := mapping.RequireFields(cols, RequiredFields...); err != nil {
		return nil, fmt.Errorf("FaCTS %v", err)
	}

	logger.Info("Loading FaCTS export",
		"file", path,
		"sheet", sheets[0],
		"header_row", headerRow+1)

	var records []Record
	for r := headerRow + 1; r < len(rows); r++ {
		rec := Record{
			Location:  strings.TrimSpace(excel.CellAt(rows, r, cols[mapping.FieldLocation])),
			Section:   strings.TrimSpace(excel.CellAt(rows, r, cols[mapping.FieldSection])),
			Status:    strings.TrimSpace(excel.CellAt(rows, r, cols[mapping.FieldStatus])),
			Space:     strings.TrimSpace(excel.CellAt(rows, r, cols[mapping.FieldSpace])),
			SalesItem: strings.TrimSpace(excel.CellAt(rows, r, cols[mapping.FieldSalesItem])),
		}
		if rec.Location == "" {
			continue
		}
		records = append(records, rec)
	}

	logger.Info("FaCTS export loaded", "records", len(records))
	return records, nil
}

// ScanHeaders returns the normalized headers of an export's first sheet and
// the 0-based row they were found on. The scan and map commands use this to
// show what the detector would work with.
func ScanHeaders(path string, scanRows int) ([]string, int, error) {
	ed, err := excel.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open FaCTS export: %v", err)
	}
	defer ed.Close()

	sheets := ed.GetSheetNames()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("FaCTS export %s has no sheets", path)
	}
	rows, err := ed.GetAllRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read FaCTS sheet %s: %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("FaCTS sheet %s is empty", sheets[0])
	}

	if scanRows == 0 {
		scanRows = 20
	}
	headerRow, confident := mapping.DetectHeaderRow(rows, scanRows)
	if !confident {
		logger.Warn("Header detection low confidence, defaulting", "file", path, "row", headerRow+1)
	}

	var headers []string
	for _, h := range rows[headerRow] {
		if n := mapping.NormalizeHeader(h); n != "" {
			headers = append(headers, n)
		}
	}
	return headers, headerRow, nil
}

// IsAvailable reports whether a FaCTS status cell counts as available for
// scarcity purposes. Publish counts only the literal "Available" status.
func IsAvailable(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), "available")
}
