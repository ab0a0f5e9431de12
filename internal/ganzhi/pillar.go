package ganzhi

import (
	"encoding/json"
	"fmt"
)

// Pillar is one stem+branch pair of the sexagenary cycle.
// The zero value is 갑자, the first pillar of the cycle.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// NewPillar combines a stem and a branch, rejecting mismatched parities.
func NewPillar(s Stem, b Branch) (Pillar, error) {
	if _, ok := CycleIndex(s, b); !ok {
		return Pillar{}, fmt.Errorf("%w: %s%s", ErrInvalidPillar, s, b)
	}
	return Pillar{Stem: s, Branch: b}, nil
}

// PillarFromIndex returns the pillar at cycle index i (any integer, normalized).
func PillarFromIndex(i int) Pillar {
	return Pillar{Stem: StemOf(i), Branch: BranchOf(i)}
}

// Index returns the cycle index of p.
func (p Pillar) Index() int {
	i, ok := CycleIndex(p.Stem, p.Branch)
	if !ok {
		panic(fmt.Errorf("%w: pillar %d/%d has mismatched parity", ErrConfiguration, int(p.Stem), int(p.Branch)))
	}
	return i
}

// Advance returns the pillar steps positions further along the cycle.
// Negative steps walk backwards.
func (p Pillar) Advance(steps int) Pillar {
	return PillarFromIndex(p.Index() + steps)
}

// String returns the two-character hangul name, e.g. "갑자".
func (p Pillar) String() string {
	return p.Stem.String() + p.Branch.String()
}

// Hanja returns the two-character hanja name, e.g. "甲子".
func (p Pillar) Hanja() string {
	return p.Stem.Hanja() + p.Branch.Hanja()
}

type pillarJSON struct {
	Stem   string `json:"stem"`
	Branch string `json:"branch"`
	Text   string `json:"text"`
	Index  int    `json:"index"`
}

// MarshalJSON renders the pillar with its names and cycle index.
func (p Pillar) MarshalJSON() ([]byte, error) {
	return json.Marshal(pillarJSON{
		Stem:   p.Stem.String(),
		Branch: p.Branch.String(),
		Text:   p.String(),
		Index:  p.Index(),
	})
}

// ParsePillar resolves a two-character hangul or hanja pillar name.
func ParsePillar(name string) (Pillar, error) {
	runes := []rune(name)
	if len(runes) != 2 {
		return Pillar{}, fmt.Errorf("%w: %q is not a two-character pillar", ErrInvalidPillar, name)
	}
	s, ok := ParseStem(string(runes[0]))
	if !ok {
		return Pillar{}, fmt.Errorf("%w: unknown stem %q", ErrInvalidPillar, string(runes[0]))
	}
	b, ok := ParseBranch(string(runes[1]))
	if !ok {
		return Pillar{}, fmt.Errorf("%w: unknown branch %q", ErrInvalidPillar, string(runes[1]))
	}
	return NewPillar(s, b)
}
