// Package dst corrects birth clock times recorded during historical Korean
// summer time (1948–1988) back to standard time before the hour pillar is
// derived.
package dst

import "github.com/tartampluch/go-saju/internal/daycount"

// StandardOffsetMinutes is the correction applied inside a summer-time window.
const StandardOffsetMinutes = 60

const minutesPerDay = 24 * 60

// Window is one year's summer-time period. Both ends are inclusive civil dates.
type Window struct {
	Year       int
	StartMonth int
	StartDay   int
	EndMonth   int
	EndDay     int
}

// Contains reports whether the date falls inside the window.
func (w Window) Contains(year, month, day int) bool {
	if year != w.Year {
		return false
	}
	n := daycount.DayNumber(year, month, day)
	return n >= daycount.DayNumber(w.Year, w.StartMonth, w.StartDay) &&
		n <= daycount.DayNumber(w.Year, w.EndMonth, w.EndDay)
}

// windows lists the documented summer-time periods, one per year.
//
// The table is date-granular. Summer time ended at 03:00 on the day after
// EndDay (1987-10-11, 1988-10-09), so births in those three hours are not
// corrected.
var windows = []Window{
	{1948, 6, 1, 9, 12},
	{1949, 4, 3, 9, 10},
	{1950, 4, 1, 9, 9},
	{1951, 5, 6, 9, 8},
	{1955, 5, 5, 9, 8},
	{1956, 5, 20, 9, 29},
	{1957, 5, 5, 9, 21},
	{1958, 5, 4, 9, 20},
	{1959, 5, 3, 9, 19},
	{1960, 5, 1, 9, 17},
	{1987, 5, 10, 10, 10},
	{1988, 5, 8, 10, 8},
}

type civilDate struct{ year, month, day int }

// exceptions override the window offset on specific dates.
// 1954-03-21 is the day the standard meridian moved to UTC+8:30.
var exceptions = map[civilDate]int{
	{1954, 3, 21}: 90,
}

// Windows returns a copy of the summer-time table.
func Windows() []Window {
	out := make([]Window, len(windows))
	copy(out, windows)
	return out
}

// Lookup returns the correction in minutes documented for a date.
// Dates without an entry report (0, false).
func Lookup(year, month, day int) (int, bool) {
	if off, ok := exceptions[civilDate{year, month, day}]; ok {
		return off, true
	}
	for _, w := range windows {
		if w.Contains(year, month, day) {
			return StandardOffsetMinutes, true
		}
	}
	return 0, false
}

// Correction is the result of adjusting a clock time.
type Correction struct {
	Hour          int  `json:"hour"`
	Minute        int  `json:"minute"`
	OffsetMinutes int  `json:"offsetMinutes"`
	Applied       bool `json:"applied"`
	// Wrapped is set when the corrected clock crossed back over midnight;
	// the corrected time then falls on the previous civil day.
	Wrapped bool `json:"wrapped"`
}

// Correct adjusts hour:minute for summer time.
//
// override nil uses the table; false disables correction; true forces the
// standard one-hour correction, except on an exception date whose own offset
// still applies.
func Correct(year, month, day, hour, minute int, override *bool) Correction {
	off, found := Lookup(year, month, day)
	if override != nil {
		switch {
		case !*override:
			found = false
		case !found:
			off, found = StandardOffsetMinutes, true
		}
	}
	if !found {
		return Correction{Hour: hour, Minute: minute}
	}

	t := hour*60 + minute - off
	wrapped := t < 0
	if wrapped {
		t += minutesPerDay
	}
	return Correction{
		Hour:          t / 60,
		Minute:        t % 60,
		OffsetMinutes: off,
		Applied:       true,
		Wrapped:       wrapped,
	}
}
