package update

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pricebook/internal/excel"
	"pricebook/internal/logger"
	"pricebook/internal/mapping"
)

// Inventory is the flattened ownership export the surgical update matches
// against: one row per interment space, addressed by garden, row and status
// columns located at load time.
type Inventory struct {
	rows      [][]string
	garden    int
	row       int
	status    int
	available []string
}

// LoadOptions tunes inventory parsing. Zero values fall back to the defaults
// the hand-run workflow used.
type LoadOptions struct {
	HeaderScanRows    int
	Overrides         map[string]mapping.Field
	AvailableStatuses []string
}

const defaultHeaderRow = 2

// LoadInventory reads the first sheet of the ownership export and locates the
// garden, row and status columns. Missing columns are tolerated; the
// calculations that need them report no data instead of failing the run.
func LoadInventory(path string, opts LoadOptions) (*Inventory, error) {
	editor, err := excel.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory export: %v", err)
	}
	defer editor.Close()

	sheets := editor.GetSheetNames()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("inventory export %s has no sheets", path)
	}
	rows, err := editor.GetAllRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory rows: %v", err)
	}

	scanRows := opts.HeaderScanRows
	if scanRows <= 0 {
		scanRows = 20
	}
	headerRow, ok := mapping.DetectHeaderRow(rows, scanRows)
	if !ok {
		logger.Warn("Could not confidently find inventory headers, using default row", "row", defaultHeaderRow+1)
		headerRow = defaultHeaderRow
	}
	if headerRow >= len(rows) {
		return nil, fmt.Errorf("inventory export %s has no data below the header", path)
	}

	cols := mapping.DetectColumns(rows[headerRow], opts.Overrides)
	inv := &Inventory{
		rows:      rows[headerRow+1:],
		garden:    colOrMissing(cols, mapping.FieldGarden),
		row:       colOrMissing(cols, mapping.FieldRow),
		status:    colOrMissing(cols, mapping.FieldStatus),
		available: opts.AvailableStatuses,
	}
	if len(inv.available) == 0 {
		inv.available = []string{"Available", "Serviceable", "For Sale", "Vacant"}
	}

	logger.Info("Loaded inventory export",
		"path", path, "rows", len(inv.rows), "header_row", headerRow+1,
		"garden_col", inv.garden, "row_col", inv.row, "status_col", inv.status)
	return inv, nil
}

func colOrMissing(cols map[mapping.Field]int, f mapping.Field) int {
	if i, ok := cols[f]; ok {
		return i
	}
	return -1
}

func (inv *Inventory) isAvailable(status string) bool {
	for _, s := range inv.available {
		if strings.Contains(strings.ToLower(status), strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// GardenExists reports whether any inventory row's garden matches the cleaned
// name. Used to choose between the specific and generic sheet-name cleanings.
func (inv *Inventory) GardenExists(name string) bool {
	if inv.garden < 0 {
		return false
	}
	target := SuperCleanName(name)
	if target == "" {
		return false
	}
	for _, row := range inv.rows {
		if strings.Contains(SuperCleanName(cellAt(row, inv.garden)), target) {
			return true
		}
	}
	return false
}

var (
	graceSectionRe = regexp.MustCompile(`(?i)Lot/Section\s+(\d+)`)
	gardenSplitRe  = regexp.MustCompile(`[-–]`)
)

// isGraceSidewalk classifies a Grace garden space by its Lot/Section number.
// Sections 30, 40, 50, 60-64, 70-74, 80, 90, 100, 110 and 120 line the
// sidewalk and roadside; everything else is standard ground.
func isGraceSidewalk(space string) bool {
	m := graceSectionRe.FindStringSubmatch(space)
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	switch n {
	case 30, 40, 50, 80, 90, 100, 110, 120:
		return true
	}
	return (n >= 60 && n <= 64) || (n >= 70 && n <= 74)
}

// PercentSold computes the sold fraction for a garden label from the price
// book. Labels of the form "Name - Subsection" narrow to rows mentioning the
// subsection; the Grace garden splits into sidewalk and standard plots by
// section number instead. ok is false when the label matches no rows or the
// export lacks the needed columns.
func (inv *Inventory) PercentSold(gardenLabel string) (float64, bool) {
	if inv.garden < 0 || inv.status < 0 {
		return 0, false
	}

	parts := gardenSplitRe.Split(gardenLabel, 2)
	target := SuperCleanName(parts[0])
	if target == "" {
		return 0, false
	}
	subSection := ""
	if len(parts) > 1 {
		subSection = strings.TrimSpace(parts[1])
	}

	var matched [][]string
	for _, row := range inv.rows {
		if strings.Contains(SuperCleanName(cellAt(row, inv.garden)), target) {
			matched = append(matched, row)
		}
	}
	if len(matched) == 0 {
		return 0, false
	}

	upperLabel := strings.ToUpper(gardenLabel)
	switch {
	case target == "GRACE" && inv.row >= 0:
		if strings.Contains(upperLabel, "INFANT") {
			// Infant plots are not priced by scarcity.
			return 0, false
		}
		if strings.Contains(upperLabel, "SIDEWALK") {
			matched = filterRows(matched, func(row []string) bool {
				return isGraceSidewalk(cellAt(row, inv.row))
			})
		} else if strings.Contains(upperLabel, "STANDARD") {
			matched = filterRows(matched, func(row []string) bool {
				return !isGraceSidewalk(cellAt(row, inv.row))
			})
		}
	case subSection != "":
		sub := strings.ToLower(subSection)
		narrowed := filterRows(matched, func(row []string) bool {
			if strings.Contains(strings.ToLower(cellAt(row, inv.garden)), sub) {
				return true
			}
			return inv.row >= 0 && strings.Contains(strings.ToLower(cellAt(row, inv.row)), sub)
		})
		// Only narrow when the subsection actually appears: some book labels
		// carry qualifiers the export never records.
		if len(narrowed) > 0 {
			matched = narrowed
		}
	}

	total := len(matched)
	if total == 0 {
		return 0, false
	}
	avail := 0
	for _, row := range matched {
		if inv.isAvailable(cellAt(row, inv.status)) {
			avail++
		}
	}
	return float64(total-avail) / float64(total), true
}

// CountRowAvailability counts the available spaces for one cleaned row label
// within a garden. Row matching is exact on the cleaned name so that "A"
// cannot swallow "AA". ok is false when the garden or row matches nothing.
func (inv *Inventory) CountRowAvailability(garden, rowLabel string) (int, bool) {
	if inv.garden < 0 || inv.row < 0 || inv.status < 0 {
		return 0, false
	}
	target := SuperCleanName(garden)
	if target == "" {
		return 0, false
	}

	var matched [][]string
	for _, row := range inv.rows {
		if strings.Contains(SuperCleanName(cellAt(row, inv.garden)), target) {
			matched = append(matched, row)
		}
	}
	if len(matched) == 0 {
		return 0, false
	}

	targetRow := CleanRowName(rowLabel)
	if targetRow != "ALL" {
		matched = filterRows(matched, func(row []string) bool {
			return CleanRowName(cellAt(row, inv.row)) == targetRow
		})
	}
	if len(matched) == 0 {
		return 0, false
	}

	count := 0
	for _, row := range matched {
		if inv.isAvailable(cellAt(row, inv.status)) {
			count++
		}
	}
	return count, true
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func filterRows(rows [][]string, keep func([]string) bool) [][]string {
	var out [][]string
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}
