// Package fiscal implements calendar calculations for the company's
// fiscal year, which runs from November 1 through October 31.
package fiscal

import (
	"time"

	"github.com/jobcast/backend/internal/types"
)

// StartMonth is the first month of the fiscal year.
const StartMonth = time.November

// YearOf returns the fiscal year a time instant falls into.
//
// November and December belong to the fiscal year named after their
// calendar year, January through October to the previous one.
func YearOf(t time.Time) int {
	if t.Month() >= StartMonth {
		return t.Year()
	}

	return t.Year() - 1
}

// YearRange returns the first and last day of a fiscal year.
func YearRange(year int) (start, end time.Time) {
	start = time.Date(year, StartMonth, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year+1, time.October, 31, 0, 0, 0, 0, time.UTC)
	return
}

// MonthsBetween returns the inclusive list of months from the month of start
// through the month of end. The list is empty when end is before start.
func MonthsBetween(start, end time.Time) []types.Month {
	if end.Before(start) {
		return nil
	}

	var months []types.Month

	current := types.MonthOf(start)
	last := types.MonthOf(end)
	for !current.After(last) {
		months = append(months, current)
		current = current.AddDate(0, 1)
	}

	return months
}

// Overlap returns the intersection of the ranges [aStart, aEnd] and
// [bStart, bEnd]. ok is false when the ranges do not intersect; callers
// treat that as an empty window, not as an error.
func Overlap(aStart, aEnd, bStart, bEnd time.Time) (start, end time.Time, ok bool) {
	start = aStart
	if bStart.After(start) {
		start = bStart
	}

	end = aEnd
	if bEnd.Before(end) {
		end = bEnd
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}
