package pillar

import (
	"encoding/json"
	"strings"

	"github.com/tartampluch/go-saju/internal/daycount"
	"github.com/tartampluch/go-saju/internal/dst"
	"github.com/tartampluch/go-saju/internal/ganzhi"
	"github.com/tartampluch/go-saju/internal/wuxing"
)

// FourPillars is the year, month, day and hour pillars of one birth moment.
type FourPillars struct {
	Year  ganzhi.Pillar
	Month ganzhi.Pillar
	Day   ganzhi.Pillar
	Hour  ganzhi.Pillar
}

// All returns the pillars in year, month, day, hour order.
func (fp FourPillars) All() [4]ganzhi.Pillar {
	return [4]ganzhi.Pillar{fp.Year, fp.Month, fp.Day, fp.Hour}
}

// FullText joins the two-character pillar names with spaces,
// e.g. "신해 기해 병오 경인". It is stable enough to serve as a cache key.
func (fp FourPillars) FullText() string {
	parts := make([]string, 0, 4)
	for _, p := range fp.All() {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " ")
}

// Stems returns the four stems in pillar order.
func (fp FourPillars) Stems() []ganzhi.Stem {
	return []ganzhi.Stem{fp.Year.Stem, fp.Month.Stem, fp.Day.Stem, fp.Hour.Stem}
}

// Branches returns the four branches in pillar order.
func (fp FourPillars) Branches() []ganzhi.Branch {
	return []ganzhi.Branch{fp.Year.Branch, fp.Month.Branch, fp.Day.Branch, fp.Hour.Branch}
}

// Balance returns the element percentages over the eight characters.
func (fp FourPillars) Balance() wuxing.Balance {
	return wuxing.BalanceOf(wuxing.Counts(fp.Stems(), fp.Branches()))
}

// DayMaster returns the element of the day stem.
func (fp FourPillars) DayMaster() wuxing.Element {
	return wuxing.OfStem(fp.Day.Stem)
}

type fourPillarsJSON struct {
	Year     ganzhi.Pillar `json:"year"`
	Month    ganzhi.Pillar `json:"month"`
	Day      ganzhi.Pillar `json:"day"`
	Hour     ganzhi.Pillar `json:"hour"`
	FullText string        `json:"fullText"`
}

// MarshalJSON renders the four pillars plus the full text key.
func (fp FourPillars) MarshalJSON() ([]byte, error) {
	return json.Marshal(fourPillarsJSON{
		Year:     fp.Year,
		Month:    fp.Month,
		Day:      fp.Day,
		Hour:     fp.Hour,
		FullText: fp.FullText(),
	})
}

// Derivation is the outcome of Calculate.
type Derivation struct {
	Pillars FourPillars
	// Clock is the (possibly summer-time corrected) time used for the hour.
	Clock dst.Correction
	// LowConfidence flags dates within a day of a solar-term threshold.
	LowConfidence bool
}

// Calculate validates a birth moment and derives its four pillars.
// Either every pillar is produced or an error wrapping ErrInvalidInput is
// returned.
func Calculate(m BirthMoment) (Derivation, error) {
	if err := m.Validate(); err != nil {
		return Derivation{}, err
	}

	clock := dst.Correct(m.Year, m.Month, m.Day, m.Hour, m.Minute, m.DSTOverride)

	// A correction that crossed midnight belongs to the previous civil day.
	y, mo, d := m.Year, m.Month, m.Day
	if clock.Wrapped {
		y, mo, d = daycount.FromDayNumber(daycount.DayNumber(y, mo, d) - 1)
	}

	year := YearPillar(y, mo, d)
	month := MonthPillar(year.Stem, mo, d)
	day := DayPillar(y, mo, d)
	hour := HourPillar(day.Stem, clock.Hour, clock.Minute)

	return Derivation{
		Pillars:       FourPillars{Year: year, Month: month, Day: day, Hour: hour},
		Clock:         clock,
		LowConfidence: NearBoundary(mo, d),
	}, nil
}
