// Package wuxing holds the five-element tables: which element each stem and
// branch carries, the generating/overcoming cycles, branch-pair relations and
// the element balance of a set of characters.
//
// The numeric weights published here are a stable contract for downstream
// scoring and are pinned by tests.
package wuxing

import (
	"encoding/json"
	"fmt"

	"github.com/tartampluch/go-saju/internal/ganzhi"
)

// Element is one of the five phases.
type Element int

// Elements in generating order.
const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// ElementCount is the number of elements.
const ElementCount = 5

// Elements lists every element in canonical order.
var Elements = [ElementCount]Element{Wood, Fire, Earth, Metal, Water}

var elementNames = [ElementCount]string{"wood", "fire", "earth", "metal", "water"}

var stemElements = [ganzhi.StemCount]Element{
	Wood, Wood, // 갑 을
	Fire, Fire, // 병 정
	Earth, Earth, // 무 기
	Metal, Metal, // 경 신
	Water, Water, // 임 계
}

var branchElements = [ganzhi.BranchCount]Element{
	Water, // 자
	Earth, // 축
	Wood,  // 인
	Wood,  // 묘
	Earth, // 진
	Fire,  // 사
	Fire,  // 오
	Earth, // 미
	Metal, // 신
	Metal, // 유
	Earth, // 술
	Water, // 해
}

// String returns the lower-case English element name.
func (e Element) String() string {
	e.mustValid()
	return elementNames[e]
}

// MarshalJSON renders the element name.
func (e Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// Valid reports whether e is one of the five elements.
func (e Element) Valid() bool { return e >= 0 && e < ElementCount }

func (e Element) mustValid() {
	if !e.Valid() {
		panic(fmt.Errorf("%w: element index %d", ganzhi.ErrConfiguration, int(e)))
	}
}

// ParseElement resolves an English element name.
func ParseElement(name string) (Element, bool) {
	for i, n := range elementNames {
		if n == name {
			return Element(i), true
		}
	}
	return 0, false
}

// OfStem returns the element of a stem.
func OfStem(s ganzhi.Stem) Element {
	if !s.Valid() {
		panic(fmt.Errorf("%w: stem index %d", ganzhi.ErrConfiguration, int(s)))
	}
	return stemElements[s]
}

// OfBranch returns the element of a branch.
func OfBranch(b ganzhi.Branch) Element {
	if !b.Valid() {
		panic(fmt.Errorf("%w: branch index %d", ganzhi.ErrConfiguration, int(b)))
	}
	return branchElements[b]
}

// Generates returns the element e produces (sheng): wood→fire→earth→metal→water→wood.
func (e Element) Generates() Element {
	e.mustValid()
	return Element((int(e) + 1) % ElementCount)
}

// Overcomes returns the element e controls (ke): wood→earth→water→fire→metal→wood.
func (e Element) Overcomes() Element {
	e.mustValid()
	return Element((int(e) + 2) % ElementCount)
}

// Interaction classifies how other relates to self.
type Interaction int

// Interactions between a reference element (the day master) and another.
const (
	Same      Interaction = iota // identical element
	Resource                     // other generates self
	Output                       // self generates other
	Wealth                       // self overcomes other
	Authority                    // other overcomes self
)

var interactionNames = [...]string{"same", "resource", "output", "wealth", "authority"}

var interactionScores = [...]float64{
	Same:      0.5,
	Resource:  1.0,
	Output:    -0.25,
	Wealth:    0.25,
	Authority: -1.0,
}

// String returns the interaction name.
func (i Interaction) String() string {
	if i < 0 || int(i) >= len(interactionNames) {
		panic(fmt.Errorf("%w: interaction %d", ganzhi.ErrConfiguration, int(i)))
	}
	return interactionNames[i]
}

// Score returns the pinned favorability score of the interaction.
func (i Interaction) Score() float64 {
	if i < 0 || int(i) >= len(interactionScores) {
		panic(fmt.Errorf("%w: interaction %d", ganzhi.ErrConfiguration, int(i)))
	}
	return interactionScores[i]
}

// Interact classifies other against self. Every ordered pair of elements
// falls into exactly one interaction.
func Interact(self, other Element) Interaction {
	switch {
	case self == other:
		return Same
	case other.Generates() == self:
		return Resource
	case self.Generates() == other:
		return Output
	case self.Overcomes() == other:
		return Wealth
	case other.Overcomes() == self:
		return Authority
	}
	panic(fmt.Errorf("%w: no interaction for %d/%d", ganzhi.ErrConfiguration, int(self), int(other)))
}

// Score is shorthand for Interact(self, other).Score().
func Score(self, other Element) float64 {
	return Interact(self, other).Score()
}
