// Package inventory models salable spaces (crypts, niches, plots) and the
// availability aggregation that feeds scarcity pricing. Every aggregation is a
// pure recomputation over the current snapshot; nothing here persists state.
package inventory

import (
	"sort"
	"strings"
)

// Status is a unit's sale state as reported by the inventory export.
type Status int

const (
	StatusOther Status = iota
	StatusAvailable
	StatusSold
)

// ParseStatus maps a raw status cell to a Status. The publish path counts
// only the literal "available" status; everything that is not available or
// sold collapses to StatusOther.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "available":
		return StatusAvailable
	case "sold":
		return StatusSold
	default:
		return StatusOther
	}
}

// Option is the purchase shape of a unit.
type Option string

const (
	OptionSingle    Option = "Single"
	OptionTandem    Option = "Tandem"
	OptionCompanion Option = "Companion"
)

// Unit is one salable physical space from the inventory export. Units are
// sourced fresh on every run and never mutated.
type Unit struct {
	Number int
	Status Status
	Option Option
}

// Bucket holds availability counts for a group of units sharing a
// (location, tier, option) key.
type Bucket struct {
	Total     int
	Available int
}

// SoldFraction returns (total-available)/total. The second return is false
// when the bucket has no units; callers must treat that as "no data", not as
// a zero fraction.
func (b Bucket) SoldFraction() (float64, bool) {
	if b.Total <= 0 {
		return 0, false
	}
	return float64(b.Total-b.Available) / float64(b.Total), true
}

// Aggregate counts a snapshot of units into a bucket.
func Aggregate(units []Unit) Bucket {
	b := Bucket{Total: len(units)}
	for _, u := range units {
		if u.Status == StatusAvailable {
			b.Available++
		}
	}
	return b
}

// PairStats holds adjacent-pair counts for companion (side-by-side) bundles.
type PairStats struct {
	TotalPairs     int
	AvailablePairs int
}

// SoldFraction mirrors Bucket.SoldFraction over pairs.
func (p PairStats) SoldFraction() (float64, bool) {
	if p.TotalPairs <= 0 {
		return 0, false
	}
	return float64(p.TotalPairs-p.AvailablePairs) / float64(p.TotalPairs), true
}

// CountAdjacentPairs counts disjoint (n, n+1) pairs in a set of unit numbers.
// Numbers are deduplicated, sorted ascending, and scanned left-greedily: a
// number consumed by a lower pair is never reused, so {1,2,3} pairs (1,2) and
// leaves 3 unpaired.
func CountAdjacentPairs(nums []int) int {
	set := make(map[int]bool, len(nums))
	for _, n := range nums {
		set[n] = true
	}
	sorted := make([]int, 0, len(set))
	for n := range set {
		sorted = append(sorted, n)
	}
	sort.Ints(sorted)

	used := make(map[int]bool, len(sorted))
	pairs := 0
	for _, n := range sorted {
		if used[n] {
			continue
		}
		if set[n+1] && !used[n+1] {
			used[n] = true
			used[n+1] = true
			pairs++
		}
	}
	return pairs
}

// CompanionPairs computes pair availability for a group of units: total pairs
// over all unit numbers, available pairs over only the available ones.
func CompanionPairs(units []Unit) PairStats {
	all := make([]int, 0, len(units))
	var avail []int
	for _, u := range units {
		all = append(all, u.Number)
		if u.Status == StatusAvailable {
			avail = append(avail, u.Number)
		}
	}
	return PairStats{
		TotalPairs:     CountAdjacentPairs(all),
		AvailablePairs: CountAdjacentPairs(avail),
	}
}
