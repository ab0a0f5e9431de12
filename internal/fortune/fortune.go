// Package fortune projects the decade-long (Daeun) and yearly (Saeun)
// fortune cycles of a natal chart.
package fortune

import (
	"encoding/json"
	"fmt"

	"github.com/tartampluch/go-saju/internal/ganzhi"
	"github.com/tartampluch/go-saju/internal/pillar"
)

const (
	// PeriodCount is the number of decade windows in a chart.
	PeriodCount = 10
	// PeriodLength is the span of one window in years.
	PeriodLength = 10
	// MaxAge is the last age covered by the windows.
	MaxAge = PeriodCount*PeriodLength - 1
)

// Direction is the walking direction of the Daeun sequence.
type Direction int

// Directions.
const (
	Forward Direction = iota
	Backward
)

// String returns "forward" or "backward".
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	panic(fmt.Errorf("%w: direction %d", ganzhi.ErrConfiguration, int(d)))
}

// Step returns +1 for forward and -1 for backward.
func (d Direction) Step() int {
	if d == Backward {
		return -1
	}
	return 1
}

// MarshalJSON renders the direction name.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// DirectionFor returns forward for a yang year stem with a male chart or a
// yin year stem with a female chart, and backward otherwise.
func DirectionFor(yearStem ganzhi.Stem, g pillar.Gender) (Direction, error) {
	if !g.Valid() {
		return 0, &pillar.InputError{Field: "gender", Reason: fmt.Sprintf("must be one of: male female (got %q)", string(g))}
	}
	if yearStem.Yang() == (g == pillar.Male) {
		return Forward, nil
	}
	return Backward, nil
}

// Period is one ten-year Daeun window.
type Period struct {
	StartAge  int           `json:"startAge"`
	EndAge    int           `json:"endAge"`
	Pillar    ganzhi.Pillar `json:"pillar"`
	Direction Direction     `json:"direction"`
}

type periodJSON struct {
	StartAge  int       `json:"startAge"`
	EndAge    int       `json:"endAge"`
	Stem      string    `json:"stem"`
	Branch    string    `json:"branch"`
	Text      string    `json:"text"`
	Direction Direction `json:"direction"`
}

// MarshalJSON flattens the pillar into stem and branch fields.
func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(periodJSON{
		StartAge:  p.StartAge,
		EndAge:    p.EndAge,
		Stem:      p.Pillar.Stem.String(),
		Branch:    p.Pillar.Branch.String(),
		Text:      p.Pillar.String(),
		Direction: p.Direction,
	})
}

// Contains reports whether age falls inside the window.
func (p Period) Contains(age int) bool {
	return age >= p.StartAge && age <= p.EndAge
}

// Daeun derives the ten decade windows covering ages 0–99. The sequence is
// seeded by the month pillar and moves one step per decade, starting with
// the neighbor of the month pillar.
func Daeun(fp pillar.FourPillars, g pillar.Gender) ([]Period, error) {
	dir, err := DirectionFor(fp.Year.Stem, g)
	if err != nil {
		return nil, err
	}

	seed := fp.Month.Index()
	periods := make([]Period, PeriodCount)
	for k := 0; k < PeriodCount; k++ {
		periods[k] = Period{
			StartAge:  k * PeriodLength,
			EndAge:    k*PeriodLength + PeriodLength - 1,
			Pillar:    ganzhi.PillarFromIndex(seed + dir.Step()*(k+1)),
			Direction: dir,
		}
	}
	return periods, nil
}

// Active returns the window covering age.
func Active(periods []Period, age int) (Period, bool) {
	if age < 0 {
		return Period{}, false
	}
	i := age / PeriodLength
	if i < len(periods) && periods[i].Contains(age) {
		return periods[i], true
	}
	for _, p := range periods {
		if p.Contains(age) {
			return p, true
		}
	}
	return Period{}, false
}

// Annual is the Saeun pillar of one calendar year.
type Annual struct {
	Year   int           `json:"year"`
	Pillar ganzhi.Pillar `json:"pillar"`
}

type annualJSON struct {
	Year   int    `json:"year"`
	Stem   string `json:"stem"`
	Branch string `json:"branch"`
	Text   string `json:"text"`
}

// MarshalJSON flattens the pillar into stem and branch fields.
func (a Annual) MarshalJSON() ([]byte, error) {
	return json.Marshal(annualJSON{
		Year:   a.Year,
		Stem:   a.Pillar.Stem.String(),
		Branch: a.Pillar.Branch.String(),
		Text:   a.Pillar.String(),
	})
}

// Saeun returns the annual pillar of calendar year y. Unlike the natal year
// pillar it does not move January and early February into the previous year.
func Saeun(y int) Annual {
	return Annual{
		Year:   y,
		Pillar: ganzhi.PillarFromIndex(ganzhi.IndexFromYear(y, pillar.YearEpoch, pillar.YearEpochIndex)),
	}
}

// SaeunAt returns the annual pillar in force on a given date, applying the
// start-of-spring boundary the same way the natal year pillar does.
func SaeunAt(year, month, day int) Annual {
	return Annual{
		Year:   pillar.EffectiveYear(year, month, day),
		Pillar: pillar.YearPillar(year, month, day),
	}
}

// SaeunRange returns the annual pillars for every year in [from, to].
func SaeunRange(from, to int) []Annual {
	if to < from {
		return nil
	}
	out := make([]Annual, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, Saeun(y))
	}
	return out
}
