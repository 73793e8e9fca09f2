// Package calendar holds the time arithmetic behind events: month windows, the same-day rule for
// event spans and the zoned timestamp format used on the wire.
package calendar

import "time"

// MonthWindow returns the start of the month of reference and the start of the following month.
// Both are computed at local midnight in the location of reference so the window follows the
// calendar of the caller and not the one of the server. Day and time of day of reference are
// ignored.
func MonthWindow(reference time.Time) (start time.Time, end time.Time) {
	year, month, _ := reference.Date()
	location := reference.Location()

	start = startOfDay(year, month, 1, location)
	// time.Date normalizes month 13 into January of the next year
	end = startOfDay(year, month+1, 1, location)
	return start, end
}

// startOfDay returns the first instant of the given day in location. If local midnight falls into
// a daylight saving gap the end of the gap is returned.
func startOfDay(year int, month time.Month, day int, location *time.Location) time.Time {
	year, month, day = time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()

	t := time.Date(year, month, day, 0, 0, 0, 0, location)
	y, m, d := t.Date()
	if y == year && m == month && d == day && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t
	}

	zoneStart, zoneEnd := t.ZoneBounds()
	if d != day {
		return zoneEnd
	}
	return zoneStart
}
