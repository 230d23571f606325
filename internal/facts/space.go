package facts

import (
	"regexp"
	"strconv"
	"strings"
)

// Space strings encode a unit's exact position, e.g.
//
//	"Mountain View Mausoleum Crypts Upper Level Elevation 3 Level D Crypt 12"
//	"Last Supper Maus Bldg 7 Crypt/Level 1A"
//	"Bell Tower Mausoleum Crypt/Level 14E-2"
var (
	mvCryptRe = regexp.MustCompile(`(?i)Mountain View Mausoleum Crypts\s+(Upper Level|Lower Level)\s+Elevation\s+(\d+)\s+Level\s+([A-D])\s+Crypt\s+(\d+)`)

	lsCryptRe = regexp.MustCompile(`(?i)(Last Supper Maus Bldg 7|Last Supper Maus Bldg 8|Last Supper Maus Bldg 5)\s+Crypt/Level\s+([0-9]+)([A-E])(?:-([0-9]+))?`)

	btCryptRe = regexp.MustCompile(`(?i)(Bell Tower Mausoleum)\s+Crypt/Level\s+([0-9]+)([A-E])(?:-([0-9]+))?`)
)

// RowThemeMV maps Mountain View level letters to their display themes.
var RowThemeMV = map[string]string{
	"D": "D – Touch",
	"C": "C – Eye",
	"B": "B – Heart",
	"A": "A – Prayer",
}

// RowThemeABCDE maps Building 7/8 and Bell Tower level letters to themes.
var RowThemeABCDE = map[string]string{
	"E": "E – Heavenly",
	"D": "D (Touch)",
	"C": "C (Eye)",
	"B": "B (Heart)",
	"A": "A (Prayer)",
}

// MVThemeOrder is the top-to-bottom print order for Mountain View sheets.
var MVThemeOrder = []string{"D – Touch", "C – Eye", "B – Heart", "A – Prayer"}

// ABCDEThemeOrder is the print order for the building and Bell Tower sheets.
var ABCDEThemeOrder = []string{"E – Heavenly", "D (Touch)", "C (Eye)", "B (Heart)", "A (Prayer)"}

// MVSpace is a parsed Mountain View crypt position.
type MVSpace struct {
	Band      string // "Upper Level" or "Lower Level"
	Elevation int
	Level     string // A-D
	Crypt     int
}

// ParseMountainViewSpace parses a Mountain View space string. The boolean is
// false when the string does not match the crypt pattern.
func ParseMountainViewSpace(s string) (MVSpace, bool) {
	m := mvCryptRe.FindStringSubmatch(s)
	if m == nil {
		return MVSpace{}, false
	}
	elev, err := strconv.Atoi(m[2])
	if err != nil {
		return MVSpace{}, false
	}
	crypt, err := strconv.Atoi(m[4])
	if err != nil {
		return MVSpace{}, false
	}
	return MVSpace{
		Band:      titleBand(m[1]),
		Elevation: elev,
		Level:     strings.ToUpper(m[3]),
		Crypt:     crypt,
	}, true
}

// CryptLevel is a parsed Crypt/Level position from the building mausoleums.
type CryptLevel struct {
	Site  string
	Row   int    // numeric part before the letter
	Level string // A-E
	Unit  int    // trailing -N when present, else 0
}

// ParseCryptLevel parses a Last Supper building space string.
func ParseCryptLevel(s string) (CryptLevel, bool) {
	return parseCryptLevel(lsCryptRe, s)
}

// ParseBellTowerCryptLevel parses a Bell Tower space string.
func ParseBellTowerCryptLevel(s string) (CryptLevel, bool) {
	return parseCryptLevel(btCryptRe, s)
}

func parseCryptLevel(re *regexp.Regexp, s string) (CryptLevel, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return CryptLevel{}, false
	}
	row, err := strconv.Atoi(m[2])
	if err != nil {
		return CryptLevel{}, false
	}
	unit := 0
	if m[4] != "" {
		unit, err = strconv.Atoi(m[4])
		if err != nil {
			return CryptLevel{}, false
		}
	}
	return CryptLevel{
		Site:  m[1],
		Row:   row,
		Level: strings.ToUpper(m[3]),
		Unit:  unit,
	}, true
}

// titleBand normalizes "upper level" / "UPPER LEVEL" to "Upper Level".
func titleBand(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch lower {
	case "upper level":
		return "Upper Level"
	case "lower level":
		return "Lower Level"
	}
	return s
}
