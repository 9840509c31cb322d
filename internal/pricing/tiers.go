package pricing

import (
	"errors"
	"fmt"
	"math"
)

// Tier is one area band. MaxArea is the inclusive upper bound in square
// metres; the last tier of a table is unbounded (+Inf).
type Tier struct {
	MaxArea float64
	Price   int64 // yen per m², tax excluded
}

// Unbounded reports whether t is the open-ended sentinel tier.
func (t Tier) Unbounded() bool {
	return math.IsInf(t.MaxArea, 1)
}

// Table is an ordered tier sequence.
type Table []Tier

// DefaultTable is the published Roller Stone price sheet. The 51–55 and
// 55–62 bands share one price; keep it that way.
var DefaultTable = Table{
	{MaxArea: 11, Price: 11200},
	{MaxArea: 12, Price: 11100},
	{MaxArea: 14, Price: 11000},
	{MaxArea: 15, Price: 10900},
	{MaxArea: 16, Price: 10800},
	{MaxArea: 18, Price: 10700},
	{MaxArea: 19, Price: 10600},
	{MaxArea: 20, Price: 10500},
	{MaxArea: 22, Price: 10400},
	{MaxArea: 23, Price: 10300},
	{MaxArea: 25, Price: 10200},
	{MaxArea: 29, Price: 10100},
	{MaxArea: 31, Price: 10000},
	{MaxArea: 35, Price: 9900},
	{MaxArea: 39, Price: 9800},
	{MaxArea: 43, Price: 9700},
	{MaxArea: 47, Price: 9600},
	{MaxArea: 51, Price: 9500},
	{MaxArea: 55, Price: 9400},
	{MaxArea: 62, Price: 9400},
	{MaxArea: math.Inf(1), Price: 9200},
}

var ErrInvalidTable = errors.New("invalid tier table")

// Validate checks the ordering invariants: at least one tier, bounds never
// decrease, prices never increase, and the table ends with an unbounded tier.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no tiers", ErrInvalidTable)
	}

	for i, tier := range t {
		if tier.Price <= 0 {
			return fmt.Errorf("%w: tier %d has non-positive price %d", ErrInvalidTable, i, tier.Price)
		}
		if i == 0 {
			continue
		}
		prev := t[i-1]
		if tier.MaxArea < prev.MaxArea {
			return fmt.Errorf("%w: tier %d bound %.2f below previous %.2f", ErrInvalidTable, i, tier.MaxArea, prev.MaxArea)
		}
		if tier.Price > prev.Price {
			return fmt.Errorf("%w: tier %d price %d above previous %d", ErrInvalidTable, i, tier.Price, prev.Price)
		}
	}

	if !t[len(t)-1].Unbounded() {
		return fmt.Errorf("%w: last tier must be unbounded", ErrInvalidTable)
	}
	return nil
}

// Lookup returns the first tier whose bound covers area, or the last tier
// when none does. ok is false only for an empty table.
func (t Table) Lookup(area float64) (tier Tier, index int, ok bool) {
	if len(t) == 0 {
		return Tier{}, -1, false
	}
	for i, tier := range t {
		if area <= tier.MaxArea {
			return tier, i, true
		}
	}
	last := len(t) - 1
	return t[last], last, true
}
