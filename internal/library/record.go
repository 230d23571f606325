// Package library manages the price library workbook: one record per
// (product family, group, theme, option) with a baseline listing price and an
// operator-editable locked base price. Bootstrap builds it once from the
// legacy master listing; publish only ever reads it.
package library

import (
	"regexp"
	"strconv"
	"strings"

	"pricebook/internal/inventory"
)

// Record is one line of the price library. Nil pointers mean the source
// listing had no value for that field.
type Record struct {
	ProductFamily string
	Group         string
	Theme         string
	Option        inventory.Option

	BaselineCrypt *int
	BaselineFront *int
	BaselineTotal *int

	AvailabilityText string

	SinglePlaque    *int
	TandemPlaque    *int
	CompanionPlaque *int

	IncreasePct float64

	LockedCrypt *int
	LockedFront *int
	LockedTotal *int
}

// Key identifies the Single record a Companion record derives its fallback
// prices from.
type Key struct {
	ProductFamily string
	Group         string
	Theme         string
}

func (r Record) key() Key {
	return Key{ProductFamily: r.ProductFamily, Group: r.Group, Theme: r.Theme}
}

var moneyRe = regexp.MustCompile(`\$?\s*([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)`)

// ParseMoney extracts a dollar amount from a cell: "$12,345", "12345",
// "12345.0" and "from $1,995" all parse. Nil means no amount was found.
func ParseMoney(cell string) *int {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v := int(f)
		return &v
	}
	m := moneyRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &v
}

func intPtr(v int) *int {
	return &v
}
