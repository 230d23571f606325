package facts

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"pricebook/internal/mapping"
)

func writeExport(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.xlsx")
	f := excelize.NewFile()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("write export row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save export: %v", err)
	}
	_ = f.Close()
	return path
}

func TestLoad(t *testing.T) {
	path := writeExport(t, [][]interface{}{
		{"Property Inventory Report"},
		{"Generated 2026-01-15"},
		{"Location", "Section", "Status", "Space", "Sales Item"},
		{"Mountain View", "Mountain View", "Available", "Upper Level, Elevation 3 D Crypt 12", "MV Single Crypt"},
		{"Mountain View", "Mountain View", "Sold", "Upper Level, Elevation 3 D Crypt 13", "MV Single Crypt"},
		{"", "Mountain View", "Available", "padding row", ""},
		{"Bell Tower", "Bell Tower Mausoleum", "Available", "Site 4, Row B Level 2 Unit 3", "BT Tandem Crypt"},
	})

	records, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Load returned %d records, want 3 (empty-location row dropped)", len(records))
	}
	first := records[0]
	if first.Location != "Mountain View" || first.Status != "Available" {
		t.Fatalf("first record = %+v", first)
	}
	if !strings.Contains(first.Space, "Elevation 3") {
		t.Fatalf("first record space = %q", first.Space)
	}
	if records[2].SalesItem != "BT Tandem Crypt" {
		t.Fatalf("third record sales item = %q", records[2].SalesItem)
	}
}

func TestLoadMissingColumns(t *testing.T) {
	path := writeExport(t, [][]interface{}{
		{"Location", "Section", "Status"},
		{"Mountain View", "Mountain View", "Available"},
	})

	_, err := Load(path, LoadOptions{})
	if err == nil {
		t.Fatalf("Load should fail when required columns are missing")
	}
	for _, want := range []string{"Space", "Sales Item"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not name missing column %q", err, want)
		}
	}
}

func TestLoadWithOverrides(t *testing.T) {
	path := writeExport(t, [][]interface{}{
		{"Loc Name", "Section", "Status", "Space", "Sales Item"},
		{"Mountain View", "Mountain View", "Available", "Upper Level, Elevation 2 A Crypt 1", "MV Single Crypt"},
	})

	overrides := map[string]mapping.Field{"Loc Name": mapping.FieldLocation}
	records, err := Load(path, LoadOptions{Overrides: overrides})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(records) != 1 || records[0].Location != "Mountain View" {
		t.Fatalf("records = %+v", records)
	}
}

func TestScanHeaders(t *testing.T) {
	path := writeExport(t, [][]interface{}{
		{"Report"},
		{"Location", "Section", "Status", "Space", "Sales Item"},
	})

	headers, headerRow, err := ScanHeaders(path, 20)
	if err != nil {
		t.Fatalf("ScanHeaders error: %v", err)
	}
	if headerRow != 1 {
		t.Fatalf("headerRow = %d, want 1", headerRow)
	}
	if len(headers) != 5 || headers[0] != "Location" || headers[4] != "Sales Item" {
		t.Fatalf("headers = %v", headers)
	}
}
