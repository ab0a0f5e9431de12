package lifecurve

import (
	"encoding/json"
	"fmt"

	"github.com/tartampluch/go-saju/internal/ganzhi"
)

// Dimension is one of the five charted life aspects.
type Dimension int

// Dimensions in output order.
const (
	Foundation Dimension = iota
	Luck
	Drive
	Standing
	Change
)

// DimensionCount is the number of series in a curve.
const DimensionCount = 5

// Dimensions lists the dimensions in output order.
var Dimensions = [DimensionCount]Dimension{Foundation, Luck, Drive, Standing, Change}

var dimensionNames = [DimensionCount]string{"foundation", "luck", "drive", "standing", "change"}

// String returns the dimension name.
func (d Dimension) String() string {
	if d < 0 || d >= DimensionCount {
		panic(fmt.Errorf("%w: dimension %d", ganzhi.ErrConfiguration, int(d)))
	}
	return dimensionNames[d]
}

// MarshalJSON renders the dimension name.
func (d Dimension) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Phase is a life stage with its own weighting profile.
type Phase int

// Phases in age order.
const (
	Childhood Phase = iota
	Youth
	EarlyAdult
	MiddleAdult
	LateAdult
	Senior
	Elder
)

type phaseBand struct {
	name    string
	fromAge int
	toAge   int
	weights [DimensionCount]float64
}

// phaseBands covers ages 0–95 without gaps. Weights are ordered like Dimensions.
var phaseBands = [...]phaseBand{
	Childhood:   {"childhood", 0, 12, [DimensionCount]float64{1.2, 0.6, 0.5, 0.3, 0.8}},
	Youth:       {"youth", 13, 19, [DimensionCount]float64{1.0, 0.8, 0.9, 0.5, 1.0}},
	EarlyAdult:  {"early-adult", 20, 34, [DimensionCount]float64{0.9, 1.0, 1.2, 0.9, 1.2}},
	MiddleAdult: {"middle-adult", 35, 49, [DimensionCount]float64{0.8, 1.1, 1.0, 1.2, 1.0}},
	LateAdult:   {"late-adult", 50, 64, [DimensionCount]float64{0.9, 1.0, 0.8, 1.1, 0.8}},
	Senior:      {"senior", 65, 79, [DimensionCount]float64{1.0, 0.9, 0.6, 0.9, 0.7}},
	Elder:       {"elder", 80, MaxAge, [DimensionCount]float64{1.1, 0.8, 0.4, 0.7, 0.6}},
}

// PhaseOf returns the phase an age belongs to. Ages past the table clamp to Elder.
func PhaseOf(age int) Phase {
	for i, b := range phaseBands {
		if age >= b.fromAge && age <= b.toAge {
			return Phase(i)
		}
	}
	if age < 0 {
		return Childhood
	}
	return Elder
}

// String returns the phase name.
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseBands) {
		panic(fmt.Errorf("%w: phase %d", ganzhi.ErrConfiguration, int(p)))
	}
	return phaseBands[p].name
}

// MarshalJSON renders the phase name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Weight returns the multiplier of a dimension during the phase.
func (p Phase) Weight(d Dimension) float64 {
	if p < 0 || int(p) >= len(phaseBands) || d < 0 || d >= DimensionCount {
		panic(fmt.Errorf("%w: phase weight %d/%d", ganzhi.ErrConfiguration, int(p), int(d)))
	}
	return phaseBands[p].weights[d]
}
