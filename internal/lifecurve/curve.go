// Package lifecurve turns a natal chart and its fortune cycles into five
// numeric series (one point per age 0–95) used for charting.
//
// Generation is deterministic: the same chart always yields identical
// series. Any variance must come from a caller-supplied seeded Source.
package lifecurve

import (
	"fmt"
	"math"

	"github.com/tartampluch/go-saju/internal/fortune"
	"github.com/tartampluch/go-saju/internal/pillar"
	"github.com/tartampluch/go-saju/internal/wuxing"
)

const (
	// MaxAge is the last charted age.
	MaxAge = 95
	// AgeCount is the number of points per series.
	AgeCount = MaxAge + 1

	MinValue = -2.0
	MaxValue = 2.0

	// TransitionJump is added at every Daeun boundary, signed by whether the
	// incoming window favors the day master.
	TransitionJump = 0.6

	// foundationSpreadScale maps an element spread of 0..100 points onto 1..-1.
	foundationSpreadScale = 50.0
)

// Point is one charted value.
type Point struct {
	Age       int       `json:"age"`
	Year      int       `json:"year"`
	Dimension Dimension `json:"dimension"`
	Value     float64   `json:"value"`
	Intensity float64   `json:"intensity"`
	Phase     Phase     `json:"phase"`
}

// Series holds the points of one dimension in age order.
type Series struct {
	Dimension Dimension `json:"dimension"`
	Points    []Point   `json:"points"`
}

// Curve is the five series in Dimensions order.
type Curve []Series

// Get returns the series of a dimension.
func (c Curve) Get(d Dimension) Series {
	for _, s := range c {
		if s.Dimension == d {
			return s
		}
	}
	return Series{Dimension: d}
}

// Source supplies variance. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type options struct {
	jitter    Source
	amplitude float64
}

// Option configures Generate.
type Option func(*options)

// WithJitter adds uniform noise in [-amplitude, amplitude] drawn from src
// before clamping. Seeding src is the caller's responsibility; a nil src
// or a non-positive amplitude disables jitter.
func WithJitter(src Source, amplitude float64) Option {
	return func(o *options) {
		o.jitter = src
		o.amplitude = amplitude
	}
}

// Input is the natal data the curve is derived from.
type Input struct {
	BirthYear int
	Pillars   pillar.FourPillars
	Daeun     []fortune.Period
}

// Generate builds the five series for ages 0–95.
func Generate(in Input, opts ...Option) (Curve, error) {
	if len(in.Daeun) != fortune.PeriodCount {
		return nil, fmt.Errorf("%w: expected %d daeun periods, got %d", pillar.ErrInvalidInput, fortune.PeriodCount, len(in.Daeun))
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	jitter := o.jitter != nil && o.amplitude > 0

	fp := in.Pillars
	dayMaster := fp.DayMaster()
	monthStemElement := wuxing.OfStem(fp.Month.Stem)
	foundation := 1 - float64(fp.Balance().Spread())/foundationSpreadScale

	curve := make(Curve, DimensionCount)
	for _, d := range Dimensions {
		curve[d] = Series{Dimension: d, Points: make([]Point, 0, AgeCount)}
	}

	for age := 0; age <= MaxAge; age++ {
		year := in.BirthYear + age
		period, ok := fortune.Active(in.Daeun, age)
		if !ok {
			return nil, fmt.Errorf("%w: no daeun period covers age %d", pillar.ErrInvalidInput, age)
		}
		annual := fortune.Saeun(year)
		phase := PhaseOf(age)

		luck := wuxing.Score(dayMaster, wuxing.OfStem(period.Pillar.Stem))
		base := [DimensionCount]float64{
			Foundation: foundation,
			Luck:       luck,
			Drive:      wuxing.Score(dayMaster, wuxing.OfStem(annual.Pillar.Stem)),
			Standing: (wuxing.Score(dayMaster, wuxing.OfBranch(period.Pillar.Branch)) +
				wuxing.Score(dayMaster, monthStemElement)) / 2,
			Change: 0,
		}

		var raw [DimensionCount]float64
		for _, d := range Dimensions {
			raw[d] = base[d] * phase.Weight(d)
		}

		if age%fortune.PeriodLength == 0 {
			jump := TransitionJump
			if luck < 0 {
				jump = -TransitionJump
			}
			raw[Luck] += jump
			raw[Drive] += jump
			raw[Standing] += jump
			raw[Change] += TransitionJump
		}

		wD := wuxing.PrimaryWeight(fp.Day.Branch, period.Pillar.Branch)
		wS := wuxing.PrimaryWeight(fp.Day.Branch, annual.Pillar.Branch)
		raw[Luck] += wD
		raw[Drive] += wS
		raw[Standing] += (wD + wS) / 2
		raw[Change] += math.Abs(wD) + math.Abs(wS)

		for _, d := range Dimensions {
			v := raw[d]
			if jitter {
				v += (o.jitter.Float64()*2 - 1) * o.amplitude
			}
			v = round2(clamp(v, MinValue, MaxValue))
			curve[d].Points = append(curve[d].Points, Point{
				Age:       age,
				Year:      year,
				Dimension: d,
				Value:     v,
				Intensity: round2(math.Abs(v) / MaxValue),
				Phase:     phase,
			})
		}
	}
	return curve, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// round2 rounds to two decimals and folds negative zero into zero so the
// JSON output is stable.
func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}
