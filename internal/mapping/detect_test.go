package mapping

import (
	"strings"
	"testing"
)

func TestDetectHeaderRow(t *testing.T) {
	rows := [][]string{
		{"Harpeth Hills Memory Gardens"},
		{"Property Inventory Report", "", "Run 2026-08-01"},
		{"Location", "Section", "Space", "Status", "Sales Item"},
		{"Harpeth Hills", "Mountain View", "…", "Available", "Crypt"},
	}
	idx, ok := DetectHeaderRow(rows, 20)
	if !ok {
		t.Fatal("expected confident header detection")
	}
	if idx != 2 {
		t.Fatalf("DetectHeaderRow = %d, want 2", idx)
	}
}

func TestDetectHeaderRowLowConfidence(t *testing.T) {
	rows := [][]string{
		{"Totally"},
		{"Unrelated", "Content"},
	}
	if _, ok := DetectHeaderRow(rows, 20); ok {
		t.Fatal("expected low-confidence result for headerless rows")
	}
}

func TestDetectColumnsExactAndFallback(t *testing.T) {
	headers := []string{"Location", "Section", "Status", "Space", "Sales  Item"}
	cols := DetectColumns(headers, nil)

	want := map[Field]int{
		FieldLocation:  0,
		FieldSection:   1,
		FieldStatus:    2,
		FieldSpace:     3,
		FieldSalesItem: 4,
		// Garden falls back to Section, Row to Space.
		FieldGarden: 1,
		FieldRow:    3,
	}
	for f, i := range want {
		if cols[f] != i {
			t.Fatalf("DetectColumns[%s] = %d, want %d", f, cols[f], i)
		}
	}
}

func TestDetectColumnsKeywordPriorities(t *testing.T) {
	headers := []string{"Garden Name", "Lot Number", "Sale State"}
	cols := DetectColumns(headers, nil)

	if cols[FieldGarden] != 0 {
		t.Fatalf("Garden = %d, want 0", cols[FieldGarden])
	}
	if cols[FieldRow] != 1 {
		t.Fatalf("Row = %d, want 1 (LOT beats ROW/TIER)", cols[FieldRow])
	}
	if cols[FieldStatus] != 2 {
		t.Fatalf("Status = %d, want 2", cols[FieldStatus])
	}
}

func TestDetectColumnsOverridesWin(t *testing.T) {
	headers := []string{"Prop Loc", "Sub-Area", "Status"}
	overrides := map[string]Field{
		"Prop Loc": FieldLocation,
		"Sub-Area": FieldSection,
	}
	cols := DetectColumns(headers, overrides)
	if cols[FieldLocation] != 0 || cols[FieldSection] != 1 {
		t.Fatalf("overrides not applied: %v", cols)
	}
}

func TestRequireFields(t *testing.T) {
	cols := map[Field]int{FieldLocation: 0, FieldStatus: 2}
	err := RequireFields(cols, FieldLocation, FieldSection, FieldStatus, FieldSpace)
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	msg := err.Error()
	for _, want := range []string{"Section", "Space"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q does not name missing column %s", msg, want)
		}
	}
	if strings.Contains(msg, "Location") {
		t.Fatalf("error %q names a column that is present", msg)
	}

	if err := RequireFields(cols, FieldLocation, FieldStatus); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
