package lifecurve

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-saju/internal/fortune"
	"github.com/tartampluch/go-saju/internal/pillar"
)

func input(t *testing.T, m pillar.BirthMoment) Input {
	t.Helper()
	d, err := pillar.Calculate(m)
	require.NoError(t, err)
	periods, err := fortune.Daeun(d.Pillars, m.Gender)
	require.NoError(t, err)
	return Input{BirthYear: m.Year, Pillars: d.Pillars, Daeun: periods}
}

var reference = pillar.BirthMoment{Year: 1971, Month: 11, Day: 17, Hour: 4, Gender: pillar.Male}

func TestGenerate_Shape(t *testing.T) {
	c, err := Generate(input(t, reference))
	require.NoError(t, err)
	require.Len(t, c, DimensionCount)

	for i, s := range c {
		assert.Equal(t, Dimensions[i], s.Dimension)
		require.Len(t, s.Points, AgeCount)
		for age, p := range s.Points {
			assert.Equal(t, age, p.Age)
			assert.Equal(t, 1971+age, p.Year)
			assert.Equal(t, s.Dimension, p.Dimension)
			assert.Equal(t, PhaseOf(age), p.Phase)
		}
	}
}

func TestGenerate_PinnedValues(t *testing.T) {
	c, err := Generate(input(t, reference))
	require.NoError(t, err)

	at := func(d Dimension, age int) float64 { return c.Get(d).Points[age].Value }

	// Foundation: spread 13 -> 0.74, childhood weight 1.2.
	assert.Equal(t, 0.89, at(Foundation, 0))
	// Luck at 0: 무 output (-0.25*0.6) - transition 0.6 + half combination 오/술 0.4.
	assert.Equal(t, -0.35, at(Luck, 0))
	assert.Equal(t, 1.0, at(Change, 0))
	assert.Equal(t, 0.5, c.Get(Change).Points[0].Intensity)

	// Age 1 (1972 임자): clash between the 오 day branch and the 자 year.
	assert.Equal(t, 0.25, at(Luck, 1))
	assert.Equal(t, -1.3, at(Drive, 1))
	assert.Equal(t, 1.2, at(Change, 1))

	// Entering the 정유 window at 10 is favorable: a jump from 0.25 to 0.9.
	assert.Equal(t, 0.25, at(Luck, 9))
	assert.Equal(t, 0.9, at(Luck, 10))
}

func TestGenerate_Deterministic(t *testing.T) {
	in := input(t, reference)
	a, err := Generate(in)
	require.NoError(t, err)
	b, err := Generate(in)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("curves differ (-first +second):\n%s", diff)
	}

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, ja, jb, "byte-identical output")
}

func TestGenerate_ValuesClamped(t *testing.T) {
	for y := 1930; y <= 2020; y += 3 {
		for _, g := range []pillar.Gender{pillar.Male, pillar.Female} {
			c, err := Generate(input(t, pillar.BirthMoment{Year: y, Month: (y % 12) + 1, Day: 10, Hour: y % 24, Gender: g}),
				WithJitter(rand.New(rand.NewSource(int64(y))), 3))
			require.NoError(t, err)
			for _, s := range c {
				for _, p := range s.Points {
					require.GreaterOrEqual(t, p.Value, MinValue)
					require.LessOrEqual(t, p.Value, MaxValue)
					require.GreaterOrEqual(t, p.Intensity, 0.0)
					require.LessOrEqual(t, p.Intensity, 1.0)
				}
			}
		}
	}
}

func TestGenerate_SeededJitter(t *testing.T) {
	in := input(t, reference)
	plain, err := Generate(in)
	require.NoError(t, err)

	a, err := Generate(in, WithJitter(rand.New(rand.NewSource(7)), 0.2))
	require.NoError(t, err)
	b, err := Generate(in, WithJitter(rand.New(rand.NewSource(7)), 0.2))
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, b), "same seed, same curve")
	assert.NotEmpty(t, cmp.Diff(plain, a), "jitter changes values")

	off, err := Generate(in, WithJitter(nil, 0.2))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(plain, off), "nil source disables jitter")
}

func TestGenerate_RejectsIncompleteDaeun(t *testing.T) {
	in := input(t, reference)
	in.Daeun = in.Daeun[:9]
	_, err := Generate(in)
	assert.ErrorIs(t, err, pillar.ErrInvalidInput)
}

func TestPhaseOf(t *testing.T) {
	tests := map[int]Phase{
		0: Childhood, 12: Childhood, 13: Youth, 19: Youth, 20: EarlyAdult,
		34: EarlyAdult, 35: MiddleAdult, 50: LateAdult, 65: Senior, 80: Elder, 95: Elder, 120: Elder,
	}
	for age, want := range tests {
		assert.Equal(t, want, PhaseOf(age), "age %d", age)
	}
	assert.Equal(t, "middle-adult", MiddleAdult.String())
}

func TestPhaseBands_Contiguous(t *testing.T) {
	next := 0
	for _, b := range phaseBands {
		assert.Equal(t, next, b.fromAge)
		next = b.toAge + 1
	}
	assert.Equal(t, AgeCount, next)
}
