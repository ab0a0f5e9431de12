package wuxing

import (
	"encoding/json"
	"sort"

	"github.com/tartampluch/go-saju/internal/ganzhi"
)

// Balance holds integer percentages per element, indexed by Element.
// The percentages of a non-empty balance always sum to 100.
type Balance [ElementCount]int

// Of returns the percentage of element e.
func (b Balance) Of(e Element) int {
	e.mustValid()
	return b[e]
}

// Total returns the sum of all percentages.
func (b Balance) Total() int {
	sum := 0
	for _, v := range b {
		sum += v
	}
	return sum
}

// Spread returns the difference between the largest and smallest share.
func (b Balance) Spread() int {
	lo, hi := b[0], b[0]
	for _, v := range b[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return hi - lo
}

// Map returns the balance keyed by element name.
func (b Balance) Map() map[string]int {
	m := make(map[string]int, ElementCount)
	for _, e := range Elements {
		m[e.String()] = b[e]
	}
	return m
}

// MarshalJSON renders the balance as an element-name object.
func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Map())
}

// Counts tallies the elements of the given stems and branches.
func Counts(stems []ganzhi.Stem, branches []ganzhi.Branch) [ElementCount]int {
	var c [ElementCount]int
	for _, s := range stems {
		c[OfStem(s)]++
	}
	for _, br := range branches {
		c[OfBranch(br)]++
	}
	return c
}

// BalanceOf converts element counts into integer percentages using the
// largest-remainder method. Ties go to the element that comes first in
// canonical order, so the result is deterministic. A zero total yields a
// zero balance.
func BalanceOf(counts [ElementCount]int) Balance {
	total := 0
	for _, c := range counts {
		total += c
	}
	var b Balance
	if total == 0 {
		return b
	}

	type share struct {
		e   Element
		rem int
	}
	shares := make([]share, 0, ElementCount)
	assigned := 0
	for _, e := range Elements {
		scaled := counts[e] * 100
		b[e] = scaled / total
		assigned += b[e]
		shares = append(shares, share{e: e, rem: scaled % total})
	}

	sort.SliceStable(shares, func(i, j int) bool { return shares[i].rem > shares[j].rem })
	for i := 0; assigned < 100; i++ {
		b[shares[i].e]++
		assigned++
	}
	return b
}
