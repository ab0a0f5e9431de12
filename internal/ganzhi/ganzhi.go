// Package ganzhi implements the sexagenary (stem/branch) cycle arithmetic.
//
// Every other package treats stems, branches and cycle indices as opaque
// values produced here. All tables are package-level constants; a lookup
// outside the fixed alphabets is a programming defect and panics with an
// error wrapping ErrConfiguration.
package ganzhi

import (
	"errors"
	"fmt"
)

const (
	// StemCount is the size of the heavenly stem alphabet.
	StemCount = 10
	// BranchCount is the size of the earthly branch alphabet.
	BranchCount = 12
	// CycleSize is the length of the combined sexagenary cycle.
	CycleSize = 60
)

// ErrConfiguration marks a lookup miss against a table that is exhaustive
// by construction. It is never returned to callers; it is raised via panic.
var ErrConfiguration = errors.New("ganzhi: configuration error")

// ErrInvalidPillar is returned when a stem and branch of different parity
// are combined. Only 60 of the 120 combinations exist in the cycle.
var ErrInvalidPillar = errors.New("ganzhi: stem and branch parity mismatch")

// Stem is a heavenly stem index in [0,10).
type Stem int

// Branch is an earthly branch index in [0,12).
type Branch int

// Named stems.
const (
	Gap Stem = iota
	Eul
	Byeong
	Jeong
	Mu
	Gi
	Gyeong
	Sin
	Im
	Gye
)

// Named branches.
const (
	Ja Branch = iota // rat
	Chuk             // ox
	In               // tiger
	Myo              // rabbit
	Jin              // dragon
	Sa               // snake
	O                // horse
	Mi               // goat
	Shin             // monkey
	Yu               // rooster
	Sul              // dog
	Hae              // pig
)

var (
	stemHangul   = [StemCount]string{"갑", "을", "병", "정", "무", "기", "경", "신", "임", "계"}
	stemHanja    = [StemCount]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	branchHangul = [BranchCount]string{"자", "축", "인", "묘", "진", "사", "오", "미", "신", "유", "술", "해"}
	branchHanja  = [BranchCount]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
)

// Normalize maps any integer into [0,m). m must be positive.
func Normalize(n, m int) int {
	if m <= 0 {
		panic(fmt.Errorf("%w: non-positive modulus %d", ErrConfiguration, m))
	}
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}

// IndexFromYear returns the cycle index of year given a reference epoch
// year whose cycle index is epochIndex.
func IndexFromYear(year, epochYear, epochIndex int) int {
	if epochIndex < 0 || epochIndex >= CycleSize {
		panic(fmt.Errorf("%w: epoch index %d outside cycle", ErrConfiguration, epochIndex))
	}
	return Normalize(epochIndex+(year-epochYear), CycleSize)
}

// StemOf returns the stem of a cycle index.
func StemOf(i int) Stem {
	return Stem(Normalize(i, StemCount))
}

// BranchOf returns the branch of a cycle index.
func BranchOf(i int) Branch {
	return Branch(Normalize(i, BranchCount))
}

// CycleIndex solves i ≡ s (mod 10), i ≡ b (mod 12).
// It reports false when the parities differ and no such index exists.
func CycleIndex(s Stem, b Branch) (int, bool) {
	s.mustValid()
	b.mustValid()
	if int(s)%2 != int(b)%2 {
		return 0, false
	}
	return Normalize(6*int(s)-5*int(b), CycleSize), true
}

// Valid reports whether s is inside the stem alphabet.
func (s Stem) Valid() bool { return s >= 0 && s < StemCount }

// Valid reports whether b is inside the branch alphabet.
func (b Branch) Valid() bool { return b >= 0 && b < BranchCount }

// Yang reports whether the stem has even (yang) polarity.
func (s Stem) Yang() bool { return int(s)%2 == 0 }

// String returns the hangul name of the stem.
func (s Stem) String() string {
	s.mustValid()
	return stemHangul[s]
}

// Hanja returns the hanja name of the stem.
func (s Stem) Hanja() string {
	s.mustValid()
	return stemHanja[s]
}

// String returns the hangul name of the branch.
func (b Branch) String() string {
	b.mustValid()
	return branchHangul[b]
}

// Hanja returns the hanja name of the branch.
func (b Branch) Hanja() string {
	b.mustValid()
	return branchHanja[b]
}

func (s Stem) mustValid() {
	if !s.Valid() {
		panic(fmt.Errorf("%w: stem index %d", ErrConfiguration, int(s)))
	}
}

func (b Branch) mustValid() {
	if !b.Valid() {
		panic(fmt.Errorf("%w: branch index %d", ErrConfiguration, int(b)))
	}
}

// ParseStem resolves a hangul or hanja stem name.
func ParseStem(name string) (Stem, bool) {
	for i := 0; i < StemCount; i++ {
		if stemHangul[i] == name || stemHanja[i] == name {
			return Stem(i), true
		}
	}
	return 0, false
}

// ParseBranch resolves a hangul or hanja branch name.
func ParseBranch(name string) (Branch, bool) {
	for i := 0; i < BranchCount; i++ {
		if branchHangul[i] == name || branchHanja[i] == name {
			return Branch(i), true
		}
	}
	return 0, false
}
