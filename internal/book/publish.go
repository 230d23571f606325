// Package book builds the published price book workbook: one formatted sheet
// per product family, priced from the locked library bases and the current
// FaCTS scarcity buckets.
package book

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pricebook/internal/facts"
	"pricebook/internal/inventory"
	"pricebook/internal/library"
	"pricebook/internal/logger"
	"pricebook/internal/pricing"
)

// Product family names as they appear in the price library.
const (
	FamilyMountainViewUpper = "Mountain View - Upper Level"
	FamilyMountainViewLower = "Mountain View - Lower Level"
	FamilyBuilding7         = "Building 7 Mausoleum"
	FamilyBuilding8         = "Building 8 Mausoleum"
	FamilyBellTower         = "Bell Tower Mausoleum"
)

var sheetColumns = []string{"Row", "Option", "Crypt", "Crypt Front", "Total", "Availability"}

var sheetWidths = []float64{22, 12, 14, 14, 14, 12}

// Buckets holds the scarcity buckets for every covered product family,
// recomputed from scratch on each publish.
type Buckets struct {
	MountainView map[facts.MVKey]inventory.Bucket
	Building7    map[facts.ThemeKey]inventory.Bucket
	Building8    map[facts.ThemeKey]inventory.Bucket
	BellTower    map[facts.ThemeKey]inventory.Bucket
}

// ComputeBuckets aggregates the FaCTS snapshot into scarcity buckets.
func ComputeBuckets(records []facts.Record) Buckets {
	return Buckets{
		MountainView: facts.MountainViewBuckets(records),
		Building7:    facts.BuildingBuckets(records, facts.SectionBuilding7, false),
		Building8:    facts.BuildingBuckets(records, facts.SectionBuilding8, false),
		BellTower:    facts.BuildingBuckets(records, facts.SectionBellTower, true),
	}
}

// Publish writes the published price book workbook.
func Publish(outputPath string, records []*library.Record, buckets Buckets, policy pricing.Policy) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	b := builder{file: f, styles: st, policy: policy}

	sheets := []struct {
		family string
		title  string
	}{
		{FamilyMountainViewUpper, "MOUNTAIN VIEW MAUSOLEUM — UPPER LEVEL"},
		{FamilyMountainViewLower, "MOUNTAIN VIEW MAUSOLEUM — LOWER LEVEL"},
		{FamilyBuilding7, "BUILDING 7 MAUSOLEUM"},
		{FamilyBuilding8, "BUILDING 8 MAUSOLEUM"},
		{FamilyBellTower, "BELL TOWER MAUSOLEUM"},
	}

	for i, sheet := range sheets {
		fam := library.ForFamily(records, sheet.family)
		if err := b.buildSheet(i == 0, sheet.family, sheet.title, fam, buckets); err != nil {
			return fmt.Errorf("failed to build sheet for %s: %v", sheet.family, err)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save published book: %v", err)
	}
	logger.Info("Published price book written", "path", outputPath)
	return nil
}

type builder struct {
	file   *excelize.File
	styles styles
	policy pricing.Policy
}

func (b *builder) buildSheet(first bool, family, title string, records []*library.Record, buckets Buckets) error {
	sheet := sheetName(family)
	if first {
		b.file.SetSheetName("Sheet1", sheet)
	} else {
		if _, err := b.file.NewSheet(sheet); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(sheetColumns))
	b.file.MergeCell(sheet, "A1", lastCol+"1")
	b.file.SetCellValue(sheet, "A1", title)
	b.file.SetCellStyle(sheet, "A1", lastCol+"1", b.styles.title)
	b.file.SetRowHeight(sheet, 1, 26)

	for c, h := range sheetColumns {
		cell, _ := excelize.CoordinatesToCellName(c+1, 2)
		b.file.SetCellValue(sheet, cell, h)
	}
	b.file.SetCellStyle(sheet, "A2", lastCol+"2", b.styles.header)
	b.file.SetRowHeight(sheet, 2, 18)
	b.file.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 2, TopLeftCell: "A3", ActivePane: "bottomLeft"})

	for c, w := range sheetWidths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		b.file.SetColWidth(sheet, col, col, w)
	}

	if strings.HasPrefix(family, "Mountain View") {
		return b.writeMountainViewRows(sheet, family, records, buckets.MountainView)
	}
	return b.writeBuildingRows(sheet, family, records, buckets)
}

var elevationNumRe = regexp.MustCompile(`(\d+)`)

func (b *builder) writeMountainViewRows(sheet, family string, records []*library.Record, buckets map[facts.MVKey]inventory.Bucket) error {
	band := "Lower Level"
	if strings.Contains(family, "Upper") {
		band = "Upper Level"
	}

	row := 3
	for _, group := range elevationGroups(records) {
		b.writeGroupRow(sheet, row, group)
		row++

		elev := 0
		if m := elevationNumRe.FindStringSubmatch(group); m != nil {
			elev, _ = strconv.Atoi(m[1])
		}

		for _, theme := range facts.MVThemeOrder {
			for _, opt := range []inventory.Option{inventory.OptionSingle, inventory.OptionCompanion} {
				rec := library.Find(records, group, theme, opt)
				if rec == nil {
					continue
				}
				bucket := buckets[facts.MVKey{Band: band, Elevation: elev, Theme: theme, Option: opt}]
				b.writeDataRow(sheet, row, rec, theme, opt, bucket)
				row++
			}
		}
		row++
	}
	return nil
}

func (b *builder) writeBuildingRows(sheet, family string, records []*library.Record, buckets Buckets) error {
	var bucketMap map[facts.ThemeKey]inventory.Bucket
	switch family {
	case FamilyBuilding7:
		bucketMap = buckets.Building7
	case FamilyBuilding8:
		bucketMap = buckets.Building8
	case FamilyBellTower:
		bucketMap = buckets.BellTower
	default:
		bucketMap = map[facts.ThemeKey]inventory.Bucket{}
	}

	row := 3
	for _, group := range coveredGroups(records) {
		b.writeGroupRow(sheet, row, group)
		row++

		for _, theme := range facts.ABCDEThemeOrder {
			for _, opt := range []inventory.Option{inventory.OptionSingle, inventory.OptionTandem, inventory.OptionCompanion} {
				rec := library.Find(records, group, theme, opt)
				if rec == nil {
					continue
				}
				// The export does not resolve companion pairs for the
				// buildings, so Companion rows reuse the Single bucket:
				// singles sold out means companions sold out.
				key := facts.ThemeKey{Theme: theme, Option: opt}
				if opt == inventory.OptionCompanion {
					key.Option = inventory.OptionSingle
				}
				b.writeDataRow(sheet, row, rec, theme, opt, bucketMap[key])
				row++
			}
		}
		row++
	}
	return nil
}

func (b *builder) writeGroupRow(sheet string, row int, text string) {
	lastCol, _ := excelize.ColumnNumberToName(len(sheetColumns))
	start := fmt.Sprintf("A%d", row)
	end := fmt.Sprintf("%s%d", lastCol, row)
	b.file.MergeCell(sheet, start, end)
	b.file.SetCellValue(sheet, start, text)
	b.file.SetCellStyle(sheet, start, end, b.styles.group)
}

func (b *builder) writeDataRow(sheet string, row int, rec *library.Record, theme string, opt inventory.Option, bucket inventory.Bucket) {
	// Missing buckets carry sold fraction 0: the row prints as Sold Out at
	// the unmarked-up base, matching the manual workbooks.
	soldFraction, _ := bucket.SoldFraction()

	crypt := b.priceCell(rec.LockedCrypt, soldFraction)
	front := b.priceCell(rec.LockedFront, soldFraction)
	var total *int
	if crypt != nil && front != nil {
		total = intPtr(*crypt + *front)
	}

	// Theme label prints once per theme block, on the Single line.
	themeLabel := ""
	if opt == inventory.OptionSingle {
		themeLabel = theme
	}

	set := func(col int, v interface{}, style int) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		if v != nil {
			b.file.SetCellValue(sheet, cell, v)
		}
		b.file.SetCellStyle(sheet, cell, cell, style)
	}

	set(1, themeLabel, b.styles.data)
	set(2, string(opt), b.styles.data)
	set(3, intCell(crypt), b.styles.money)
	set(4, intCell(front), b.styles.money)
	set(5, intCell(total), b.styles.money)

	if bucket.Available > 0 {
		set(6, bucket.Available, b.styles.count)
	} else {
		set(6, "Sold Out", b.styles.soldOut)
	}
}

func (b *builder) priceCell(locked *int, soldFraction float64) *int {
	if locked == nil {
		return nil
	}
	price, err := b.policy.FinalPrice(*locked, soldFraction)
	if err != nil {
		logger.Warn("Skipping non-positive locked base price", "base", *locked)
		return nil
	}
	return &price
}

// elevationGroups returns the "Elevation N" groups present in a family,
// sorted by elevation number.
func elevationGroups(records []*library.Record) []string {
	seen := map[string]bool{}
	var groups []string
	for _, r := range records {
		g := r.Group
		if g == "" || seen[g] {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(g), "elevation") {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return elevationNumber(groups[i]) < elevationNumber(groups[j])
	})
	return groups
}

func elevationNumber(group string) int {
	m := elevationNumRe.FindStringSubmatch(group)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// coveredGroups orders building groups UNCOVERED before COVERED, anything
// else after, preserving the library's order within each class.
func coveredGroups(records []*library.Record) []string {
	seen := map[string]bool{}
	var groups []string
	for _, r := range records {
		if r.Group == "" || seen[r.Group] {
			continue
		}
		seen[r.Group] = true
		groups = append(groups, r.Group)
	}
	rank := func(g string) int {
		u := strings.ToUpper(g)
		switch {
		case strings.Contains(u, "UNCOVERED"):
			return 0
		case strings.Contains(u, "COVERED"):
			return 1
		}
		return 2
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return rank(groups[i]) < rank(groups[j])
	})
	return groups
}

// sheetName trims a family name to Excel's 31-character sheet name limit.
func sheetName(family string) string {
	if len(family) > 31 {
		return family[:31]
	}
	return family
}

func intCell(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v int) *int {
	return &v
}
