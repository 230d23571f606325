package library

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pricebook/internal/excel"
	"pricebook/internal/inventory"
	"pricebook/internal/pricing"
)

const (
	policySheet  = "Pricing_Policy"
	librarySheet = "Price_Library"
)

var libraryColumns = []string{
	"product_family",
	"group",
	"theme",
	"option",
	"baseline_crypt",
	"baseline_front",
	"baseline_total",
	"availability_text",
	"single_plaque",
	"tandem_plaque",
	"companion_plaque",
	"increase_pct",
	"base_locked_crypt",
	"base_locked_front",
	"base_locked_total",
}

// Save writes the library workbook: a policy snapshot sheet and the record
// sheet operators edit locked prices in.
func Save(path string, records []*Record, policy pricing.Policy) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", policySheet)
	if err := writePolicySheet(f, policy); err != nil {
		return err
	}

	if _, err := f.NewSheet(librarySheet); err != nil {
		return fmt.Errorf("failed to create library sheet: %v", err)
	}
	for c, name := range libraryColumns {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(librarySheet, cell, name); err != nil {
			return fmt.Errorf("failed to write library header: %v", err)
		}
	}
	for i, r := range records {
		row := i + 2
		values := []interface{}{
			r.ProductFamily,
			r.Group,
			r.Theme,
			string(r.Option),
			intCell(r.BaselineCrypt),
			intCell(r.BaselineFront),
			intCell(r.BaselineTotal),
			r.AvailabilityText,
			intCell(r.SinglePlaque),
			intCell(r.TandemPlaque),
			intCell(r.CompanionPlaque),
			r.IncreasePct,
			intCell(r.LockedCrypt),
			intCell(r.LockedFront),
			intCell(r.LockedTotal),
		}
		for c, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(librarySheet, cell, v); err != nil {
				return fmt.Errorf("failed to write library row %d: %v", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save price library: %v", err)
	}
	return nil
}

func writePolicySheet(f *excelize.File, policy pricing.Policy) error {
	type kv struct {
		key   string
		value interface{}
	}
	entries := []kv{
		{"round_to", policy.RoundTo},
		{"default_increase_pct", policy.DefaultIncreasePct},
		{"companion_discount_pct", policy.CompanionDiscountPct},
	}
	for i, t := range policy.Tiers {
		entries = append(entries,
			kv{fmt.Sprintf("tier%d_sold_pct", i+1), t.SoldAt},
			kv{fmt.Sprintf("tier%d_uplift", i+1), t.Uplift},
		)
	}
	entries = append(entries, kv{"note", "Edit base_locked_* anytime. Publish runs only update scarcity + availability."})

	for c, e := range entries {
		head, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(policySheet, head, e.key); err != nil {
			return fmt.Errorf("failed to write policy sheet: %v", err)
		}
		val, _ := excelize.CoordinatesToCellName(c+1, 2)
		if err := f.SetCellValue(policySheet, val, e.value); err != nil {
			return fmt.Errorf("failed to write policy sheet: %v", err)
		}
	}
	return nil
}

// Load reads the record sheet back. Operator edits to locked prices survive
// round trips; that is the whole point of the library.
func Load(path string) ([]*Record, error) {
	ed, err := excel.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price library: %v", err)
	}
	defer ed.Close()

	rows, err := ed.GetAllRows(librarySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %v", librarySheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("price library %s has an empty %s sheet", path, librarySheet)
	}

	cols := map[string]int{}
	for c, h := range rows[0] {
		cols[strings.TrimSpace(h)] = c
	}
	for _, required := range []string{"product_family", "option"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("price library is missing the %s column", required)
		}
	}

	cell := func(r int, name string) string {
		c, ok := cols[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(excel.CellAt(rows, r, c))
	}

	var records []*Record
	for r := 1; r < len(rows); r++ {
		family := cell(r, "product_family")
		if family == "" {
			continue
		}
		option, ok := parseOption(cell(r, "option"))
		if !ok {
			continue
		}
		rec := &Record{
			ProductFamily:    family,
			Group:            cell(r, "group"),
			Theme:            cell(r, "theme"),
			Option:           option,
			BaselineCrypt:    ParseMoney(cell(r, "baseline_crypt")),
			BaselineFront:    ParseMoney(cell(r, "baseline_front")),
			BaselineTotal:    ParseMoney(cell(r, "baseline_total")),
			AvailabilityText: cell(r, "availability_text"),
			SinglePlaque:     ParseMoney(cell(r, "single_plaque")),
			TandemPlaque:     ParseMoney(cell(r, "tandem_plaque")),
			CompanionPlaque:  ParseMoney(cell(r, "companion_plaque")),
			LockedCrypt:      ParseMoney(cell(r, "base_locked_crypt")),
			LockedFront:      ParseMoney(cell(r, "base_locked_front")),
			LockedTotal:      ParseMoney(cell(r, "base_locked_total")),
		}
		if pct, err := strconv.ParseFloat(cell(r, "increase_pct"), 64); err == nil {
			rec.IncreasePct = pct
		}
		records = append(records, rec)
	}
	return records, nil
}

// ForFamily filters records to one product family, preserving order.
func ForFamily(records []*Record, family string) []*Record {
	var out []*Record
	for _, r := range records {
		if r.ProductFamily == family {
			out = append(out, r)
		}
	}
	return out
}

// Find returns the unique record for a (group, theme, option) within a
// family slice, or nil when absent or ambiguous.
func Find(records []*Record, group, theme string, option inventory.Option) *Record {
	var found *Record
	for _, r := range records {
		if r.Group == group && r.Theme == theme && r.Option == option {
			if found != nil {
				return nil
			}
			found = r
		}
	}
	return found
}

func intCell(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
