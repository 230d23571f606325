package book

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"pricebook/internal/facts"
	"pricebook/internal/inventory"
	"pricebook/internal/library"
	"pricebook/internal/pricing"
)

func openSheet(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open published book: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("get %s!%s: %v", sheet, cell, err)
	}
	return v
}

func TestPublishMountainViewSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "published.xlsx")

	records := []*library.Record{
		{
			ProductFamily: FamilyMountainViewUpper,
			Group:         "Elevation 3",
			Theme:         "D – Touch",
			Option:        inventory.OptionSingle,
			LockedCrypt:   intPtr(10000),
			LockedFront:   intPtr(1000),
		},
		{
			ProductFamily: FamilyMountainViewUpper,
			Group:         "Elevation 3",
			Theme:         "D – Touch",
			Option:        inventory.OptionCompanion,
			LockedCrypt:   intPtr(16000),
		},
	}

	buckets := Buckets{
		MountainView: map[facts.MVKey]inventory.Bucket{
			{Band: "Upper Level", Elevation: 3, Theme: "D – Touch", Option: inventory.OptionSingle}: {Total: 20, Available: 1},
			// No companion bucket: the row must print Sold Out at base price.
		},
	}

	if err := Publish(path, records, buckets, pricing.DefaultPolicy()); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	f := openSheet(t, path)
	sheet := FamilyMountainViewUpper

	if got := cellValue(t, f, sheet, "A1"); got != "MOUNTAIN VIEW MAUSOLEUM — UPPER LEVEL" {
		t.Fatalf("title = %q", got)
	}
	if got := cellValue(t, f, sheet, "A3"); got != "Elevation 3" {
		t.Fatalf("group row = %q", got)
	}
	if got := cellValue(t, f, sheet, "A4"); got != "D – Touch" {
		t.Fatalf("theme label = %q", got)
	}
	if got := cellValue(t, f, sheet, "B4"); got != "Single" {
		t.Fatalf("option = %q", got)
	}
	// 19/20 sold = 0.95 -> +15%: 11500 -> 11940 and 1150 -> 1990.
	if got := cellValue(t, f, sheet, "C4"); got != "11940" {
		t.Fatalf("crypt price = %q, want 11940", got)
	}
	if got := cellValue(t, f, sheet, "D4"); got != "1990" {
		t.Fatalf("front price = %q, want 1990", got)
	}
	if got := cellValue(t, f, sheet, "E4"); got != "13930" {
		t.Fatalf("total = %q, want 13930", got)
	}
	if got := cellValue(t, f, sheet, "F4"); got != "1" {
		t.Fatalf("availability = %q, want 1", got)
	}

	// Companion row: theme label suppressed, no bucket data means Sold Out
	// at the unmarked-up base.
	if got := cellValue(t, f, sheet, "A5"); got != "" {
		t.Fatalf("companion theme label = %q, want empty", got)
	}
	if got := cellValue(t, f, sheet, "C5"); got != "16000" {
		t.Fatalf("companion crypt = %q, want locked base 16000", got)
	}
	if got := cellValue(t, f, sheet, "F5"); got != "Sold Out" {
		t.Fatalf("companion availability = %q, want Sold Out", got)
	}
}

func TestPublishBuildingCompanionUsesSingleBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "published.xlsx")

	records := []*library.Record{
		{
			ProductFamily: FamilyBellTower,
			Group:         "COVERED",
			Theme:         "E – Heavenly",
			Option:        inventory.OptionSingle,
			LockedCrypt:   intPtr(10000),
		},
		{
			ProductFamily: FamilyBellTower,
			Group:         "COVERED",
			Theme:         "E – Heavenly",
			Option:        inventory.OptionCompanion,
			LockedCrypt:   intPtr(16000),
		},
	}

	buckets := Buckets{
		BellTower: map[facts.ThemeKey]inventory.Bucket{
			{Theme: "E – Heavenly", Option: inventory.OptionSingle}: {Total: 100, Available: 0},
		},
	}

	if err := Publish(path, records, buckets, pricing.DefaultPolicy()); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	f := openSheet(t, path)
	sheet := FamilyBellTower

	if got := cellValue(t, f, sheet, "A3"); got != "COVERED" {
		t.Fatalf("group row = %q", got)
	}
	// Fully sold singles: +20% on both the Single and the proxied Companion.
	// 10000*1.2 -> 12935; 16000*1.2 -> 19200 -> 19900.
	if got := cellValue(t, f, sheet, "C4"); got != "12935" {
		t.Fatalf("single crypt = %q, want 12935", got)
	}
	if got := cellValue(t, f, sheet, "F4"); got != "Sold Out" {
		t.Fatalf("single availability = %q, want Sold Out", got)
	}
	if got := cellValue(t, f, sheet, "C5"); got != "19900" {
		t.Fatalf("companion crypt = %q, want 19900", got)
	}
	if got := cellValue(t, f, sheet, "F5"); got != "Sold Out" {
		t.Fatalf("companion availability = %q, want Sold Out", got)
	}
}

func TestPublishGroupOrdering(t *testing.T) {
	records := []*library.Record{
		{ProductFamily: FamilyBuilding7, Group: "COVERED", Theme: "A (Prayer)", Option: inventory.OptionSingle},
		{ProductFamily: FamilyBuilding7, Group: "UNCOVERED", Theme: "A (Prayer)", Option: inventory.OptionSingle},
	}
	groups := coveredGroups(records)
	if len(groups) != 2 || groups[0] != "UNCOVERED" || groups[1] != "COVERED" {
		t.Fatalf("coveredGroups = %v, want UNCOVERED before COVERED", groups)
	}

	mv := []*library.Record{
		{Group: "Elevation 10"},
		{Group: "Elevation 2"},
		{Group: "Availability notes"},
	}
	elevs := elevationGroups(mv)
	if len(elevs) != 2 || elevs[0] != "Elevation 2" || elevs[1] != "Elevation 10" {
		t.Fatalf("elevationGroups = %v, want numeric order", elevs)
	}
}
