package facts

import (
	"strings"

	"pricebook/internal/inventory"
	"pricebook/internal/logger"
)

// Section names as they appear in the FaCTS export.
const (
	SectionMountainView = "Mountain View"
	SectionBuilding7    = "Last Supper Maus Bldg 7"
	SectionBuilding8    = "Last Supper Maus Bldg 8"
	SectionBellTower    = "Bell Tower Mausoleum"
)

// MVKey identifies a Mountain View pricing bucket.
type MVKey struct {
	Band      string
	Elevation int
	Theme     string
	Option    inventory.Option
}

// ThemeKey identifies a building/Bell Tower bucket, which the export only
// resolves down to row theme and option.
type ThemeKey struct {
	Theme  string
	Option inventory.Option
}

func unitStatus(r Record) inventory.Status {
	if IsAvailable(r.Status) {
		return inventory.StatusAvailable
	}
	return inventory.ParseStatus(r.Status)
}

func isTandem(r Record) bool {
	return strings.Contains(strings.ToLower(r.SalesItem), "tandem")
}

// MountainViewBuckets aggregates Mountain View crypts into Single buckets per
// (band, elevation, theme) plus Companion buckets built from adjacent crypt
// pairs within each Single group. Space strings that do not parse are counted
// and logged, then excluded from every bucket.
func MountainViewBuckets(records []Record) map[MVKey]inventory.Bucket {
	type groupKey struct {
		band  string
		elev  int
		theme string
	}
	groups := make(map[groupKey][]inventory.Unit)

	skipped := 0
	for _, r := range records {
		if !strings.EqualFold(r.Section, SectionMountainView) {
			continue
		}
		sp, ok := ParseMountainViewSpace(r.Space)
		if !ok {
			skipped++
			continue
		}
		if isTandem(r) {
			continue
		}
		theme := RowThemeMV[sp.Level]
		if theme == "" {
			theme = sp.Level
		}
		k := groupKey{band: sp.Band, elev: sp.Elevation, theme: theme}
		groups[k] = append(groups[k], inventory.Unit{
			Number: sp.Crypt,
			Status: unitStatus(r),
			Option: inventory.OptionSingle,
		})
	}
	if skipped > 0 {
		logger.Warn("Unparseable Mountain View space strings skipped",
			"section", SectionMountainView, "count", skipped)
	}

	out := make(map[MVKey]inventory.Bucket, 2*len(groups))
	for k, units := range groups {
		out[MVKey{k.band, k.elev, k.theme, inventory.OptionSingle}] = inventory.Aggregate(units)

		pairs := inventory.CompanionPairs(units)
		out[MVKey{k.band, k.elev, k.theme, inventory.OptionCompanion}] = inventory.Bucket{
			Total:     pairs.TotalPairs,
			Available: pairs.AvailablePairs,
		}
	}
	return out
}

// BuildingBuckets aggregates a building mausoleum's crypts by row theme.
// Bell Tower carries Tandem crypts; Building 7/8 do not, so their tandem
// sales items are dropped outright.
func BuildingBuckets(records []Record, section string, includeTandem bool) map[ThemeKey]inventory.Bucket {
	parse := ParseCryptLevel
	if section == SectionBellTower {
		parse = ParseBellTowerCryptLevel
	}

	groups := make(map[ThemeKey][]inventory.Unit)
	skipped := 0
	for _, r := range records {
		if !strings.EqualFold(r.Section, section) {
			continue
		}
		cl, ok := parse(r.Space)
		if !ok {
			skipped++
			continue
		}
		tandem := isTandem(r)
		if tandem && !includeTandem {
			continue
		}
		opt := inventory.OptionSingle
		if tandem {
			opt = inventory.OptionTandem
		}
		theme := RowThemeABCDE[cl.Level]
		if theme == "" {
			theme = cl.Level
		}
		groups[ThemeKey{Theme: theme, Option: opt}] = append(groups[ThemeKey{Theme: theme, Option: opt}], inventory.Unit{
			Number: cl.Row,
			Status: unitStatus(r),
			Option: opt,
		})
	}
	if skipped > 0 {
		logger.Warn("Unparseable space strings skipped", "section", section, "count", skipped)
	}

	out := make(map[ThemeKey]inventory.Bucket, len(groups))
	for k, units := range groups {
		out[k] = inventory.Aggregate(units)
	}
	return out
}
