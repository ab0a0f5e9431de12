// Package daycount maps proleptic-Gregorian dates onto a continuous day
// counter. All leap-year and month-length logic lives here; callers treat
// the result as an opaque number that grows by exactly one per calendar day.
package daycount

// DayNumber returns the Julian Day Number of the given date.
// Month is 1-based. The date is assumed to be valid; see Valid.
func DayNumber(year, month, day int) int {
	// Fliegel & Van Flandern; integer division truncates toward zero, which
	// is why the month shift is expressed through (month-14)/12.
	return day - 32075 +
		1461*(year+4800+(month-14)/12)/4 +
		367*(month-2-(month-14)/12*12)/12 -
		3*((year+4900+(month-14)/12)/100)/4
}

// FromDayNumber converts a Julian Day Number back to a calendar date.
func FromDayNumber(jdn int) (year, month, day int) {
	l := jdn + 68569
	n := 4 * l / 146097
	l = l - (146097*n+3)/4
	i := 4000 * (l + 1) / 1461001
	l = l - 1461*i/4 + 31
	j := 80 * l / 2447
	day = l - 2447*j/80
	l = j / 11
	month = j + 2 - 12*l
	year = 100*(n-49) + i + l
	return year, month, day
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month of year.
// It returns 0 for a month outside 1..12.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	default:
		return 0
	}
}

// Valid reports whether (year, month, day) names a real calendar date.
// Years before 1 are rejected; the formula is only exact for positive years.
func Valid(year, month, day int) bool {
	if year < 1 {
		return false
	}
	return day >= 1 && day <= DaysInMonth(year, month)
}

// Between returns the signed number of days from (y1,m1,d1) to (y2,m2,d2).
func Between(y1, m1, d1, y2, m2, d2 int) int {
	return DayNumber(y2, m2, d2) - DayNumber(y1, m1, d1)
}
