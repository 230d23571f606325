package mapping

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// NormalizeHeader collapses whitespace runs and trims a raw header cell.
func NormalizeHeader(h string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(h, " "))
}

// headerKeywords score candidate header rows. Hand-maintained exports bury
// the header several rows down, under logo rows and report titles.
var headerKeywords = []string{"SECTION", "SPACE", "STATUS", "COST", "RIGHTS", "GARDEN", "LOCATION"}

// DetectHeaderRow scans the first scanRows rows and returns the 0-based index
// of the row that looks most like a header. The boolean is false when no row
// matched at least two keywords; callers must not trust the index then.
func DetectHeaderRow(rows [][]string, scanRows int) (int, bool) {
	if scanRows <= 0 || scanRows > len(rows) {
		scanRows = len(rows)
	}

	bestRow := 0
	maxMatches := 0
	for i := 0; i < scanRows; i++ {
		rowStr := strings.ToUpper(strings.Join(rows[i], " "))
		matches := 0
		for _, k := range headerKeywords {
			if strings.Contains(rowStr, k) {
				matches++
			}
		}
		if matches > maxMatches {
			maxMatches = matches
			bestRow = i
		}
	}
	return bestRow, maxMatches >= 2
}

// DetectColumns maps headers to canonical fields. An explicit overrides map
// (from a mapping file) wins over keyword detection; detection itself is a
// best-effort suggestion the caller validates with RequireFields.
func DetectColumns(headers []string, overrides map[string]Field) map[Field]int {
	out := make(map[Field]int)

	norm := make([]string, len(headers))
	upper := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = NormalizeHeader(h)
		upper[i] = strings.ToUpper(norm[i])
	}

	// Explicit overrides first.
	for i, h := range norm {
		if f, ok := overrides[h]; ok {
			if _, taken := out[f]; !taken {
				out[f] = i
			}
		}
	}

	// Exact matches on canonical names.
	for _, f := range Fields() {
		if _, done := out[f]; done {
			continue
		}
		for i, u := range upper {
			if u == strings.ToUpper(string(f)) {
				out[f] = i
				break
			}
		}
	}

	// Keyword fallbacks, mirroring the priorities the old scripts used:
	// Garden prefers SECTION over GARDEN/LOCATION, Row prefers SPACE over
	// LOT over ROW/TIER.
	if _, ok := out[FieldGarden]; !ok {
		if i, ok := out[FieldSection]; ok {
			out[FieldGarden] = i
		} else {
			for i, u := range upper {
				if strings.Contains(u, "GARDEN") || strings.Contains(u, "LOCATION") {
					out[FieldGarden] = i
					break
				}
			}
		}
	}
	if _, ok := out[FieldRow]; !ok {
		if i, ok := out[FieldSpace]; ok {
			out[FieldRow] = i
		} else if i := indexContaining(upper, "LOT"); i >= 0 {
			out[FieldRow] = i
		} else {
			for i, u := range upper {
				if strings.Contains(u, "ROW") || strings.Contains(u, "TIER") {
					out[FieldRow] = i
					break
				}
			}
		}
	}
	if _, ok := out[FieldStatus]; !ok {
		for i, u := range upper {
			if strings.Contains(u, "STATUS") || strings.Contains(u, "STATE") {
				out[FieldStatus] = i
				break
			}
		}
	}

	return out
}

func indexContaining(upper []string, substr string) int {
	for i, u := range upper {
		if strings.Contains(u, substr) {
			return i
		}
	}
	return -1
}

// RequireFields validates a detected mapping against the fields a data source
// needs. The error names every missing column so a bad export fails fast with
// something actionable.
func RequireFields(cols map[Field]int, required ...Field) error {
	var missing []string
	for _, f := range required {
		if _, ok := cols[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("export is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
