package pillar

import (
	"fmt"

	"github.com/tartampluch/go-saju/internal/daycount"
	"github.com/tartampluch/go-saju/internal/ganzhi"
)

// Reference points of the cycle.
const (
	// YearEpoch opens a sexagenary cycle (갑자 year).
	YearEpoch      = 1984
	YearEpochIndex = 0

	// SpringMonth and SpringDay approximate the start-of-spring solar term
	// that separates one pillar year from the next.
	SpringMonth = 2
	SpringDay   = 4

	// 1900-01-01 is a 갑술 day.
	DayEpochYear  = 1900
	DayEpochMonth = 1
	DayEpochDay   = 1
	DayEpochIndex = 10
)

// jieDay[m-1] is the calendar day in month m on which a new solar month
// begins. Each value approximates a solar-term onset.
var jieDay = [12]int{6, 4, 6, 5, 6, 6, 7, 8, 8, 8, 7, 7}

// yearStemToMonthStem[yearStem][solarMonth-1] is the stem of each solar month.
// Rows follow the five stem groups: 갑/기 start at 병, 을/경 at 무, 병/신 at
// 경, 정/임 at 임, 무/계 at 갑.
var yearStemToMonthStem = [ganzhi.StemCount][12]ganzhi.Stem{
	{2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3}, // 갑
	{4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5}, // 을
	{6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7}, // 병
	{8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, // 정
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, // 무
	{2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3}, // 기
	{4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5}, // 경
	{6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7}, // 신
	{8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, // 임
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, // 계
}

// dayStemToHourStem[dayStem][hourBranch] is the stem of each two-hour window.
// Rows: 갑/기 start at 갑, 을/경 at 병, 병/신 at 무, 정/임 at 경, 무/계 at 임.
var dayStemToHourStem = [ganzhi.StemCount][ganzhi.BranchCount]ganzhi.Stem{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, // 갑
	{2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3}, // 을
	{4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5}, // 병
	{6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7}, // 정
	{8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, // 무
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}, // 기
	{2, 3, 4, 5, 6, 7, 8, 9, 0, 1, 2, 3}, // 경
	{4, 5, 6, 7, 8, 9, 0, 1, 2, 3, 4, 5}, // 신
	{6, 7, 8, 9, 0, 1, 2, 3, 4, 5, 6, 7}, // 임
	{8, 9, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, // 계
}

var dayEpochNumber = daycount.DayNumber(DayEpochYear, DayEpochMonth, DayEpochDay)

func init() {
	mustValidateTables()
}

// mustValidateTables rejects a table whose stems cannot pair with the branch
// of their column. A failure here is a build defect, so it stops the process.
func mustValidateTables() {
	for ys := 0; ys < ganzhi.StemCount; ys++ {
		for sm := 1; sm <= 12; sm++ {
			s := yearStemToMonthStem[ys][sm-1]
			if _, ok := ganzhi.CycleIndex(s, monthBranch(sm)); !ok {
				panic(fmt.Errorf("%w: month stem table row %d month %d", ganzhi.ErrConfiguration, ys, sm))
			}
		}
		for b := 0; b < ganzhi.BranchCount; b++ {
			s := dayStemToHourStem[ys][b]
			if _, ok := ganzhi.CycleIndex(s, ganzhi.Branch(b)); !ok {
				panic(fmt.Errorf("%w: hour stem table row %d branch %d", ganzhi.ErrConfiguration, ys, b))
			}
		}
	}
	if ganzhi.PillarFromIndex(DayEpochIndex).String() != "갑술" {
		panic(fmt.Errorf("%w: day epoch index %d", ganzhi.ErrConfiguration, DayEpochIndex))
	}
}

// EffectiveYear returns the pillar year of a date: dates before the start of
// spring belong to the previous year.
func EffectiveYear(year, month, day int) int {
	if month < SpringMonth || (month == SpringMonth && day < SpringDay) {
		return year - 1
	}
	return year
}

// YearPillar returns the year pillar of a solar date.
func YearPillar(year, month, day int) ganzhi.Pillar {
	return ganzhi.PillarFromIndex(ganzhi.IndexFromYear(EffectiveYear(year, month, day), YearEpoch, YearEpochIndex))
}

// SolarMonth maps a calendar date to its solar month, 1 (tiger) through 12 (ox).
func SolarMonth(month, day int) int {
	if month < 1 || month > 12 {
		panic(fmt.Errorf("%w: calendar month %d", ganzhi.ErrConfiguration, month))
	}
	// Feb is solar month 1, Jan is 12.
	sm := (month+10)%12 + 1
	if day < jieDay[month-1] {
		sm = (sm+10)%12 + 1
	}
	return sm
}

// NearBoundary reports whether a date lies within one day of its month's
// solar-term threshold, where the fixed-day approximation is least reliable.
func NearBoundary(month, day int) bool {
	if month < 1 || month > 12 {
		return false
	}
	d := day - jieDay[month-1]
	return d >= -1 && d <= 1
}

func monthBranch(solarMonth int) ganzhi.Branch {
	return ganzhi.Branch((solarMonth + 1) % ganzhi.BranchCount)
}

// MonthPillar returns the month pillar given the year pillar's stem.
func MonthPillar(yearStem ganzhi.Stem, month, day int) ganzhi.Pillar {
	sm := SolarMonth(month, day)
	if !yearStem.Valid() {
		panic(fmt.Errorf("%w: year stem %d has no month row", ganzhi.ErrConfiguration, int(yearStem)))
	}
	return ganzhi.Pillar{Stem: yearStemToMonthStem[yearStem][sm-1], Branch: monthBranch(sm)}
}

// DayPillar returns the day pillar of a solar date.
func DayPillar(year, month, day int) ganzhi.Pillar {
	offset := daycount.DayNumber(year, month, day) - dayEpochNumber
	return ganzhi.PillarFromIndex(ganzhi.Normalize(DayEpochIndex+offset, ganzhi.CycleSize))
}

// HourBranch maps a clock time to its two-hour window. The rat window runs
// from 23:00 to 00:59.
func HourBranch(hour, minute int) ganzhi.Branch {
	t := hour*60 + minute
	return ganzhi.Branch(((t + 60) / 120) % ganzhi.BranchCount)
}

// HourPillar returns the hour pillar given the day pillar's stem.
func HourPillar(dayStem ganzhi.Stem, hour, minute int) ganzhi.Pillar {
	if !dayStem.Valid() {
		panic(fmt.Errorf("%w: day stem %d has no hour row", ganzhi.ErrConfiguration, int(dayStem)))
	}
	b := HourBranch(hour, minute)
	return ganzhi.Pillar{Stem: dayStemToHourStem[dayStem][b], Branch: b}
}
