// Package pricing implements the scarcity pricing rules for the price book:
// tiered uplift on a locked base price, the two distinct "...995" rounding
// rules, and the companion bundle fallback price.
package pricing

import (
	"fmt"
	"math"
)

// Tier is one row of the scarcity table. Tiers are evaluated top-down and the
// first tier whose SoldAt threshold is met wins.
type Tier struct {
	SoldAt float64
	Uplift float64
}

// Policy holds the pricing rules that used to live as scattered constants in
// the old scripts. All publish-time pricing goes through a Policy value.
type Policy struct {
	RoundTo              int
	DefaultIncreasePct   float64
	CompanionDiscountPct float64
	Tiers                []Tier
}

// DefaultPolicy returns the rules the business runs on today:
// round to multiples of 995, 5% annual markup at bootstrap, 20% companion
// bundle discount, +15% at 90% sold and +20% at 97% sold.
func DefaultPolicy() Policy {
	return Policy{
		RoundTo:              995,
		DefaultIncreasePct:   0.05,
		CompanionDiscountPct: 0.20,
		Tiers: []Tier{
			{SoldAt: 0.97, Uplift: 0.20},
			{SoldAt: 0.90, Uplift: 0.15},
		},
	}
}

// RoundUpToMultiple rounds x up to the smallest integer multiple of base that
// is >= x. An exact multiple is a fixed point.
func RoundUpToMultiple(x float64, base int) int {
	if x <= 0 {
		return 0
	}
	return int(math.Ceil(x/float64(base))) * base
}

// RoundUpEnding995 rounds x up to the next price ending in ...995, i.e. the
// smallest N with N mod 1000 == 995 and N >= x.
//
// This is NOT the same rule as RoundUpToMultiple(x, 995). Crypt list prices
// end in 995; scarcity markups land on multiples of 995. The old workbooks
// used both, for different fields, and the distinction is intentional.
func RoundUpEnding995(x float64) int {
	return int(math.Ceil((x+5)/1000.0))*1000 - 5
}

// Uplift returns the scarcity uplift for a sold fraction, first matching
// tier wins.
func (p Policy) Uplift(soldFraction float64) float64 {
	for _, t := range p.Tiers {
		if soldFraction >= t.SoldAt {
			return t.Uplift
		}
	}
	return 0.0
}

// FinalPrice applies the scarcity uplift to a locked base price.
//
// The uplift is always applied to the locked base, never to a previously
// marked-up price, so repeated publishes do not compound. With no uplift the
// base is returned unchanged, without a rounding pass.
func (p Policy) FinalPrice(baseLocked int, soldFraction float64) (int, error) {
	if baseLocked <= 0 {
		return 0, fmt.Errorf("base price must be positive, got %d", baseLocked)
	}
	u := p.Uplift(soldFraction)
	if u <= 0 {
		return baseLocked, nil
	}
	return RoundUpToMultiple(float64(baseLocked)*(1+u), p.RoundTo), nil
}

// CompanionPrice derives a companion (double) crypt price from a single crypt
// price: two singles at the bundle discount, rounded up to a ...995 ending.
// It is a bootstrap fallback for records with no explicit companion price,
// never an override.
func (p Policy) CompanionPrice(singlePrice int) (int, error) {
	if singlePrice <= 0 {
		return 0, fmt.Errorf("single price must be positive, got %d", singlePrice)
	}
	return RoundUpEnding995(2 * float64(singlePrice) * (1 - p.CompanionDiscountPct)), nil
}

// LockBasePrice initializes a locked base price from a baseline listing price:
// baseline plus the default annual increase, rounded up to a multiple of
// RoundTo. Run once at bootstrap; locked prices are operator-editable and are
// never recomputed by publish.
func (p Policy) LockBasePrice(baseline int) int {
	return RoundUpToMultiple(float64(baseline)*(1+p.DefaultIncreasePct), p.RoundTo)
}
