package library

import (
	"fmt"
	"os"
	"strings"

	"pricebook/internal/excel"
	"pricebook/internal/inventory"
	"pricebook/internal/logger"
	"pricebook/internal/pricing"
)

// Sheets of the master listing that never hold price tables.
var skipSheets = map[string]bool{
	"README":                   true,
	"Availability Dashboard":   true,
	"Sold Out - Reference":     true,
	"Needs Pricing Tables":     true,
	"Cemetery Service Charges": true,
	"Pricing Issues Tracker":   true,
}

const (
	priceSheetScanRows = 60
	headerSearchRows   = 120
	headerSearchCols   = 10
	plaqueScanRows     = 25
	plaqueScanCols     = 8
)

// Bootstrap builds the price library workbook from the legacy master listing.
// It is a no-op when the library already exists: locked base prices belong to
// the operator once written and are never recomputed.
func Bootstrap(masterPath, libraryPath string, policy pricing.Policy) error {
	if _, err := os.Stat(libraryPath); err == nil {
		logger.Info("Price library already exists, skipping bootstrap", "path", libraryPath)
		return nil
	}

	records, err := ParseMasterListing(masterPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no price table rows found in master listing %s", masterPath)
	}

	FillDerivedPrices(records, policy)
	LockBasePrices(records, policy)

	if err := Save(libraryPath, records, policy); err != nil {
		return err
	}

	logger.Info("Price library bootstrapped", "path", libraryPath, "records", len(records))
	return nil
}

// ParseMasterListing extracts price table rows from every sheet of the master
// listing whose header carries both an Option and a Crypt column.
func ParseMasterListing(masterPath string) ([]*Record, error) {
	ed, err := excel.OpenFile(masterPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open master listing: %v", err)
	}
	defer ed.Close()

	var records []*Record
	for _, name := range ed.GetSheetNames() {
		if skipSheets[name] {
			continue
		}
		rows, err := ed.GetAllRows(name)
		if err != nil {
			logger.Warn("Failed to read master listing sheet", "sheet", name, "error", err)
			continue
		}
		if !isPriceSheet(rows) {
			continue
		}
		recs := parsePriceSheet(rows, name)
		logger.Info("Parsed price sheet", "sheet", name, "records", len(recs))
		records = append(records, recs...)
	}
	return records, nil
}

// isPriceSheet reports whether a sheet's first rows contain both an "Option"
// and a "Crypt" header cell.
func isPriceSheet(rows [][]string) bool {
	limit := priceSheetScanRows
	if limit > len(rows) {
		limit = len(rows)
	}
	for r := 0; r < limit; r++ {
		hasOption, hasCrypt := false, false
		for c := 0; c < 7; c++ {
			switch strings.ToLower(strings.TrimSpace(excel.CellAt(rows, r, c))) {
			case "option":
				hasOption = true
			case "crypt":
				hasCrypt = true
			}
		}
		if hasOption && hasCrypt {
			return true
		}
	}
	return false
}

// parsePriceSheet walks one price table: locate the header row, resolve the
// label/price/availability columns by their known aliases, pick up any plaque
// prices advertised above the table, then collect Single/Tandem/Companion
// rows while tracking the current group and theme from label cells.
func parsePriceSheet(rows [][]string, productFamily string) []*Record {
	headerRow := -1
	header := map[string]int{}
	limit := headerSearchRows
	if limit > len(rows) {
		limit = len(rows)
	}
	for r := 0; r < limit; r++ {
		norm := make([]string, headerSearchCols)
		for c := 0; c < headerSearchCols; c++ {
			norm[c] = strings.ToLower(strings.TrimSpace(excel.CellAt(rows, r, c)))
		}
		if contains(norm, "option") && contains(norm, "crypt") {
			headerRow = r
			for c, v := range norm {
				if v != "" {
					header[v] = c
				}
			}
			break
		}
	}
	if headerRow < 0 {
		return nil
	}

	optCol, hasOpt := header["option"]
	cryptCol, hasCrypt := header["crypt"]
	if !hasOpt || !hasCrypt {
		return nil
	}
	labelCol, hasLabel := firstHeader(header, "row", "section", "product", "garden")
	frontCol, hasFront := firstHeader(header, "crypt front", "plaque(s)", "niche front", "laser etching")
	totalCol, hasTotal := firstHeader(header, "total", "total price", "all-in total")
	availCol, hasAvail := firstHeader(header, "availability", "# available", "available")

	singlePlaque, tandemPlaque, companionPlaque := scanPlaquePrices(rows)

	var (
		group   string
		theme   string
		records []*Record
	)
	for r := headerRow + 1; r < len(rows); r++ {
		label := ""
		if hasLabel {
			label = strings.TrimSpace(excel.CellAt(rows, r, labelCol))
		}
		opt := strings.TrimSpace(excel.CellAt(rows, r, optCol))
		crypt := strings.TrimSpace(excel.CellAt(rows, r, cryptCol))

		if label == "" && opt == "" && crypt == "" {
			continue
		}

		if label != "" {
			upper := strings.ToUpper(label)
			if strings.HasPrefix(strings.ToLower(label), "elevation") ||
				upper == "ALL LEVELS" ||
				strings.Contains(upper, "COVERED") {
				group = label
				theme = ""
				continue
			}
			if isThemeLabel(label) {
				theme = label
			}
		}

		option, ok := parseOption(opt)
		if !ok {
			continue
		}

		rec := &Record{
			ProductFamily:   productFamily,
			Group:           group,
			Theme:           theme,
			Option:          option,
			BaselineCrypt:   ParseMoney(crypt),
			SinglePlaque:    singlePlaque,
			TandemPlaque:    tandemPlaque,
			CompanionPlaque: companionPlaque,
		}
		if hasFront {
			rec.BaselineFront = ParseMoney(excel.CellAt(rows, r, frontCol))
		}
		if hasTotal {
			rec.BaselineTotal = ParseMoney(excel.CellAt(rows, r, totalCol))
		}
		if hasAvail {
			rec.AvailabilityText = strings.TrimSpace(excel.CellAt(rows, r, availCol))
		}
		records = append(records, rec)
	}
	return records
}

// isThemeLabel recognizes row theme labels like "D – Touch" or "C (Eye)".
func isThemeLabel(label string) bool {
	if strings.Contains(label, "–") {
		return true
	}
	if !strings.Contains(label, "(") {
		return false
	}
	for _, word := range []string{"Touch", "Eye", "Heart", "Prayer", "Heavenly"} {
		if strings.Contains(label, word) {
			return true
		}
	}
	return false
}

func parseOption(s string) (inventory.Option, bool) {
	switch s {
	case "Single":
		return inventory.OptionSingle, true
	case "Tandem":
		return inventory.OptionTandem, true
	case "Companion":
		return inventory.OptionCompanion, true
	}
	return "", false
}

// scanPlaquePrices looks above and around the table for plaque price notes
// like "Single plaque: $495".
func scanPlaquePrices(rows [][]string) (single, tandem, companion *int) {
	limit := plaqueScanRows
	if limit > len(rows) {
		limit = len(rows)
	}
	for r := 0; r < limit; r++ {
		for c := 0; c < plaqueScanCols; c++ {
			v := excel.CellAt(rows, r, c)
			s := strings.ToLower(v)
			if !strings.Contains(s, "plaque") {
				continue
			}
			if strings.Contains(s, "single") {
				if p := ParseMoney(v); p != nil {
					single = p
				}
			}
			if strings.Contains(s, "tandem") {
				if p := ParseMoney(v); p != nil {
					tandem = p
				}
			}
			if strings.Contains(s, "companion") {
				if p := ParseMoney(v); p != nil {
					companion = p
				}
			}
		}
	}
	return single, tandem, companion
}

// FillDerivedPrices fills the gaps the master listing leaves: missing
// companion crypt prices from the matching single at the bundle discount,
// companion fronts from plaque prices or doubled single fronts, and missing
// totals as crypt+front. Explicit listing values are never overwritten.
func FillDerivedPrices(records []*Record, policy pricing.Policy) {
	singleCrypt := map[Key]int{}
	singleFront := map[Key]int{}
	for _, r := range records {
		if r.Option != inventory.OptionSingle {
			continue
		}
		if r.BaselineCrypt != nil {
			singleCrypt[r.key()] = *r.BaselineCrypt
		}
		if r.BaselineFront != nil {
			singleFront[r.key()] = *r.BaselineFront
		}
	}

	for _, r := range records {
		if r.Option == inventory.OptionCompanion {
			if r.BaselineCrypt == nil {
				if single, ok := singleCrypt[r.key()]; ok {
					if price, err := policy.CompanionPrice(single); err == nil {
						r.BaselineCrypt = intPtr(price)
					}
				}
			}
			if r.BaselineFront == nil {
				switch {
				case r.CompanionPlaque != nil:
					r.BaselineFront = intPtr(*r.CompanionPlaque)
				case r.SinglePlaque != nil:
					r.BaselineFront = intPtr(2 * *r.SinglePlaque)
				default:
					if front, ok := singleFront[r.key()]; ok {
						r.BaselineFront = intPtr(2 * front)
					}
				}
			}
		}

		if r.BaselineTotal == nil && r.BaselineCrypt != nil && r.BaselineFront != nil {
			r.BaselineTotal = intPtr(*r.BaselineCrypt + *r.BaselineFront)
		}
	}
}

// LockBasePrices initializes the locked base prices from the baselines using
// the policy's default increase. Called only from bootstrap.
func LockBasePrices(records []*Record, policy pricing.Policy) {
	for _, r := range records {
		r.IncreasePct = policy.DefaultIncreasePct
		if r.BaselineCrypt != nil {
			r.LockedCrypt = intPtr(policy.LockBasePrice(*r.BaselineCrypt))
		}
		if r.BaselineFront != nil {
			r.LockedFront = intPtr(policy.LockBasePrice(*r.BaselineFront))
		}
		if r.BaselineTotal != nil {
			r.LockedTotal = intPtr(policy.LockBasePrice(*r.BaselineTotal))
		}
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func firstHeader(header map[string]int, names ...string) (int, bool) {
	for _, n := range names {
		if c, ok := header[n]; ok {
			return c, true
		}
	}
	return 0, false
}
