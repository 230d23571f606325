package library

import (
	"path/filepath"
	"testing"

	"pricebook/internal/inventory"
	"pricebook/internal/pricing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		cell string
		want int
		none bool
	}{
		{"12345", 12345, false},
		{"$12,345", 12345, false},
		{" $ 1,995 ", 1995, false},
		{"4495.0", 4495, false},
		{"from $1,995", 1995, false},
		{"", 0, true},
		{"call for pricing", 0, true},
	}
	for _, tt := range tests {
		got := ParseMoney(tt.cell)
		if tt.none {
			if got != nil {
				t.Fatalf("ParseMoney(%q) = %d, want nil", tt.cell, *got)
			}
			continue
		}
		if got == nil {
			t.Fatalf("ParseMoney(%q) = nil, want %d", tt.cell, tt.want)
		}
		if *got != tt.want {
			t.Fatalf("ParseMoney(%q) = %d, want %d", tt.cell, *got, tt.want)
		}
	}
}

func TestFillDerivedPrices(t *testing.T) {
	policy := pricing.DefaultPolicy()
	single := &Record{
		ProductFamily: "Bell Tower Mausoleum",
		Group:         "COVERED",
		Theme:         "C (Eye)",
		Option:        inventory.OptionSingle,
		BaselineCrypt: intPtr(5995),
		BaselineFront: intPtr(495),
	}
	companion := &Record{
		ProductFamily: "Bell Tower Mausoleum",
		Group:         "COVERED",
		Theme:         "C (Eye)",
		Option:        inventory.OptionCompanion,
	}
	records := []*Record{single, companion}

	FillDerivedPrices(records, policy)

	if companion.BaselineCrypt == nil {
		t.Fatal("companion crypt not filled")
	}
	// 2 * 5995 * 0.80 = 9592 -> next ...995 ending is 9995.
	if *companion.BaselineCrypt != 9995 {
		t.Fatalf("companion crypt = %d, want 9995", *companion.BaselineCrypt)
	}
	// No plaque prices, so companion front doubles the single front.
	if companion.BaselineFront == nil || *companion.BaselineFront != 990 {
		t.Fatalf("companion front = %v, want 990", companion.BaselineFront)
	}
	if companion.BaselineTotal == nil || *companion.BaselineTotal != 9995+990 {
		t.Fatalf("companion total = %v, want %d", companion.BaselineTotal, 9995+990)
	}
	if single.BaselineTotal == nil || *single.BaselineTotal != 5995+495 {
		t.Fatalf("single total = %v, want %d", single.BaselineTotal, 5995+495)
	}
}

func TestFillDerivedPricesPrefersExplicitValues(t *testing.T) {
	policy := pricing.DefaultPolicy()
	companion := &Record{
		ProductFamily:   "Building 7 Mausoleum",
		Option:          inventory.OptionCompanion,
		BaselineCrypt:   intPtr(12000),
		CompanionPlaque: intPtr(795),
	}
	FillDerivedPrices([]*Record{companion}, policy)
	if *companion.BaselineCrypt != 12000 {
		t.Fatalf("explicit companion crypt overwritten: %d", *companion.BaselineCrypt)
	}
	if companion.BaselineFront == nil || *companion.BaselineFront != 795 {
		t.Fatalf("companion front = %v, want companion plaque 795", companion.BaselineFront)
	}
}

func TestLockBasePrices(t *testing.T) {
	policy := pricing.DefaultPolicy()
	rec := &Record{
		Option:        inventory.OptionSingle,
		BaselineCrypt: intPtr(10000),
	}
	LockBasePrices([]*Record{rec}, policy)
	if rec.IncreasePct != policy.DefaultIncreasePct {
		t.Fatalf("increase pct = %v", rec.IncreasePct)
	}
	// 10000 * 1.05 = 10500 -> 10945.
	if rec.LockedCrypt == nil || *rec.LockedCrypt != 10945 {
		t.Fatalf("locked crypt = %v, want 10945", rec.LockedCrypt)
	}
	if rec.LockedFront != nil || rec.LockedTotal != nil {
		t.Fatal("locked prices set for missing baselines")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	policy := pricing.DefaultPolicy()
	path := filepath.Join(t.TempDir(), "price_library.xlsx")

	records := []*Record{
		{
			ProductFamily: "Mountain View - Upper Level",
			Group:         "Elevation 3",
			Theme:         "D – Touch",
			Option:        inventory.OptionSingle,
			BaselineCrypt: intPtr(10000),
			BaselineFront: intPtr(495),
			BaselineTotal: intPtr(10495),
			IncreasePct:   0.05,
			LockedCrypt:   intPtr(10945),
			LockedFront:   intPtr(995),
			LockedTotal:   intPtr(11940),
		},
		{
			ProductFamily:    "Bell Tower Mausoleum",
			Group:            "COVERED",
			Theme:            "E – Heavenly",
			Option:           inventory.OptionTandem,
			AvailabilityText: "Sold Out",
		},
	}

	if err := Save(path, records, policy); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d records, want 2", len(loaded))
	}

	first := loaded[0]
	if first.ProductFamily != "Mountain View - Upper Level" ||
		first.Group != "Elevation 3" ||
		first.Theme != "D – Touch" ||
		first.Option != inventory.OptionSingle {
		t.Fatalf("first record mismatch: %+v", first)
	}
	if first.LockedCrypt == nil || *first.LockedCrypt != 10945 {
		t.Fatalf("locked crypt = %v, want 10945", first.LockedCrypt)
	}
	if first.BaselineTotal == nil || *first.BaselineTotal != 10495 {
		t.Fatalf("baseline total = %v, want 10495", first.BaselineTotal)
	}

	second := loaded[1]
	if second.Option != inventory.OptionTandem || second.AvailabilityText != "Sold Out" {
		t.Fatalf("second record mismatch: %+v", second)
	}
	if second.BaselineCrypt != nil || second.LockedCrypt != nil {
		t.Fatal("empty price cells must load as nil")
	}
}

func TestFind(t *testing.T) {
	records := []*Record{
		{ProductFamily: "F", Group: "G", Theme: "T", Option: inventory.OptionSingle},
		{ProductFamily: "F", Group: "G", Theme: "T", Option: inventory.OptionCompanion},
		{ProductFamily: "F", Group: "G2", Theme: "T", Option: inventory.OptionSingle},
	}
	fam := ForFamily(records, "F")
	if len(fam) != 3 {
		t.Fatalf("ForFamily returned %d records", len(fam))
	}
	if Find(fam, "G", "T", inventory.OptionSingle) != records[0] {
		t.Fatal("Find missed the single record")
	}
	if Find(fam, "G", "missing", inventory.OptionSingle) != nil {
		t.Fatal("Find returned a record for an absent theme")
	}

	dup := append(fam, &Record{ProductFamily: "F", Group: "G", Theme: "T", Option: inventory.OptionSingle})
	if Find(dup, "G", "T", inventory.OptionSingle) != nil {
		t.Fatal("Find must reject ambiguous matches")
	}
}
