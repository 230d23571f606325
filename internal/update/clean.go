package update

import (
	"regexp"
	"strings"
)

// Name cleaners bridging the hand-maintained price book sheets and the raw
// inventory export. Both sides spell the same garden half a dozen ways
// ("12_Grace Garden", "GRACE - Sidewalk", "Garden of Grace"), so matching
// happens on aggressively normalized names.

var (
	sheetPrefixRe = regexp.MustCompile(`^\d+_`)
	parenRe       = regexp.MustCompile(`\(.*?\)`)
	digitsRe      = regexp.MustCompile(`\d+`)
	punctRe       = regexp.MustCompile(`[^\w\s]`)
)

// CleanSheetNameSpecific strips the numeric ordering prefix and the product
// words from a sheet name, keeping any columbarium/niche qualifier.
func CleanSheetNameSpecific(name string) string {
	s := sheetPrefixRe.ReplaceAllString(name, "")
	for _, word := range []string{"Mausoleum", "Bldg", "Building", "Garden"} {
		s = strings.ReplaceAll(s, word, "")
	}
	return strings.TrimSpace(s)
}

// CleanSheetNameGeneric additionally drops the columbarium/niche qualifier.
// Used as a fallback when the specific name matches nothing in the export.
func CleanSheetNameGeneric(name string) string {
	s := CleanSheetNameSpecific(name)
	for _, word := range []string{"Columbarium", "Niches"} {
		s = strings.ReplaceAll(s, word, "")
	}
	return strings.TrimSpace(s)
}

// CleanRowName normalizes a row/level label for exact matching: "ALL LEVELS"
// collapses to ALL, parenthesized notes and grouping words are stripped, and
// dash-qualified labels keep only the part before the dash.
func CleanRowName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if strings.Contains(s, "ALL LEVEL") {
		return "ALL"
	}
	s = parenRe.ReplaceAllString(s, "")
	for _, word := range []string{"UNCOVERED", "COVERED", "ELEVATION", "LEVEL"} {
		s = strings.ReplaceAll(s, word, "")
	}
	s = strings.ReplaceAll(s, "—", "-")
	s = strings.ReplaceAll(s, "–", "-")
	if i := strings.Index(s, "-"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// SuperCleanName is the aggressive garden-name cleaner. It strips
// parentheticals, digits, filler words and punctuation, then upper-cases the
// rest. Results shorter than two characters come back empty so that a
// degenerate name like "A" can never substring-match half the inventory.
func SuperCleanName(name string) string {
	s := parenRe.ReplaceAllString(name, "")
	s = digitsRe.ReplaceAllString(s, "")
	s = strings.ToUpper(s)
	for _, word := range []string{"GARDEN", "SECTION", "LOCATION", "LOC", "BLOCK", "OF", "THE"} {
		s = strings.ReplaceAll(s, word, "")
	}
	s = punctRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return ""
	}
	return s
}
