package calendar

import "time"

// SameDayOrdered reports whether start is strictly before finish and both fall on the same local
// calendar date. Each date is read in the location attached to its own timestamp. A missing
// endpoint is not this rule's concern and is reported as valid.
func SameDayOrdered(start, finish *time.Time) bool {
	if start == nil || finish == nil {
		return true
	}

	startYear, startMonth, startDay := start.Date()
	finishYear, finishMonth, finishDay := finish.Date()
	sameDay := startYear == finishYear && startMonth == finishMonth && startDay == finishDay

	return sameDay && start.Before(*finish)
}
