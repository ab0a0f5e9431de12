package wuxing

import (
	"fmt"

	"github.com/tartampluch/go-saju/internal/ganzhi"
)

// Relation is a branch-pair relation type.
type Relation int

// Relations in precedence order; Relations returns them in this order.
const (
	Clash Relation = iota
	Combination
	Punishment
	HalfCombination
	Break
)

var relationNames = [...]string{"clash", "combination", "punishment", "half-combination", "break"}

var relationWeights = [...]float64{
	Clash:           -0.8,
	Combination:     0.6,
	Punishment:      -0.5,
	HalfCombination: 0.4,
	Break:           -0.3,
}

// String returns the relation name.
func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationNames) {
		panic(fmt.Errorf("%w: relation %d", ganzhi.ErrConfiguration, int(r)))
	}
	return relationNames[r]
}

// Weight returns the signed numeric weight of the relation.
func (r Relation) Weight() float64 {
	if r < 0 || int(r) >= len(relationWeights) {
		panic(fmt.Errorf("%w: relation %d", ganzhi.ErrConfiguration, int(r)))
	}
	return relationWeights[r]
}

type branchPair [2]ganzhi.Branch

// six harmonies
var combinations = []branchPair{
	{ganzhi.Ja, ganzhi.Chuk},
	{ganzhi.In, ganzhi.Hae},
	{ganzhi.Myo, ganzhi.Sul},
	{ganzhi.Jin, ganzhi.Yu},
	{ganzhi.Sa, ganzhi.Shin},
	{ganzhi.O, ganzhi.Mi},
}

// three harmony frames; any two members form a half combination.
var triads = [][3]ganzhi.Branch{
	{ganzhi.Shin, ganzhi.Ja, ganzhi.Jin}, // water
	{ganzhi.Hae, ganzhi.Myo, ganzhi.Mi},  // wood
	{ganzhi.In, ganzhi.O, ganzhi.Sul},    // fire
	{ganzhi.Sa, ganzhi.Yu, ganzhi.Chuk},  // metal
}

var punishments = []branchPair{
	{ganzhi.In, ganzhi.Sa},
	{ganzhi.Sa, ganzhi.Shin},
	{ganzhi.Shin, ganzhi.In},
	{ganzhi.Chuk, ganzhi.Sul},
	{ganzhi.Sul, ganzhi.Mi},
	{ganzhi.Mi, ganzhi.Chuk},
	{ganzhi.Ja, ganzhi.Myo},
	// self punishment
	{ganzhi.Jin, ganzhi.Jin},
	{ganzhi.O, ganzhi.O},
	{ganzhi.Yu, ganzhi.Yu},
	{ganzhi.Hae, ganzhi.Hae},
}

var breaks = []branchPair{
	{ganzhi.Ja, ganzhi.Yu},
	{ganzhi.Chuk, ganzhi.Jin},
	{ganzhi.In, ganzhi.Hae},
	{ganzhi.Myo, ganzhi.O},
	{ganzhi.Sa, ganzhi.Shin},
	{ganzhi.Sul, ganzhi.Mi},
}

// relationTable[a][b] lists the relations of the unordered pair {a, b}.
var relationTable = buildRelationTable()

func buildRelationTable() [ganzhi.BranchCount][ganzhi.BranchCount][]Relation {
	var t [ganzhi.BranchCount][ganzhi.BranchCount][]Relation
	add := func(a, b ganzhi.Branch, r Relation) {
		t[a][b] = append(t[a][b], r)
		if a != b {
			t[b][a] = append(t[b][a], r)
		}
	}

	// Insertion order follows precedence so each cell is already sorted.
	for a := 0; a < ganzhi.BranchCount; a++ {
		b := (a + 6) % ganzhi.BranchCount
		if a < b {
			add(ganzhi.Branch(a), ganzhi.Branch(b), Clash)
		}
	}
	for _, p := range combinations {
		add(p[0], p[1], Combination)
	}
	for _, p := range punishments {
		add(p[0], p[1], Punishment)
	}
	for _, tri := range triads {
		add(tri[0], tri[1], HalfCombination)
		add(tri[1], tri[2], HalfCombination)
		add(tri[0], tri[2], HalfCombination)
	}
	for _, p := range breaks {
		add(p[0], p[1], Break)
	}
	return t
}

// Relations returns every relation the pair {a, b} holds, in precedence order.
// The result is shared and must not be modified.
func Relations(a, b ganzhi.Branch) []Relation {
	if !a.Valid() || !b.Valid() {
		panic(fmt.Errorf("%w: branch pair %d/%d", ganzhi.ErrConfiguration, int(a), int(b)))
	}
	return relationTable[a][b]
}

// Primary returns the highest-precedence relation of the pair, if any.
func Primary(a, b ganzhi.Branch) (Relation, bool) {
	rs := Relations(a, b)
	if len(rs) == 0 {
		return 0, false
	}
	return rs[0], true
}

// PrimaryWeight returns the weight of the primary relation, or 0.
func PrimaryWeight(a, b ganzhi.Branch) float64 {
	r, ok := Primary(a, b)
	if !ok {
		return 0
	}
	return r.Weight()
}
