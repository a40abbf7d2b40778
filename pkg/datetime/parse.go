// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/rakhadi/utangku/pkg/constants"
)

const (
	// DateLayout is the calendar-day format used throughout the application.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// MonthsBetween returns the whole-month difference between two dates using
// year*12+month arithmetic, ignoring the day of month. The result is negative
// when to precedes from.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*constants.MonthsPerYear + int(to.Month()) - int(from.Month())
}

// DaysInMonth returns the number of calendar days in the month containing t.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDateFor returns the concrete due date for an installment: base shifted
// forward by the given number of months, with the day of month set to dueDay
// clamped into the target month (day 31 lands on Feb 28/29 and so on). A
// non-positive dueDay falls back to the base date's day of month.
func DueDateFor(base time.Time, months int, dueDay int) time.Time {
	if dueDay <= 0 {
		dueDay = base.Day()
	}
	// Anchor on the first of the month so AddDate cannot spill into the
	// following month before the day is clamped.
	anchor := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
	shifted := anchor.AddDate(0, months, 0)
	day := dueDay
	if max := DaysInMonth(shifted.Year(), shifted.Month()); day > max {
		day = max
	}
	return time.Date(shifted.Year(), shifted.Month(), day, 0, 0, 0, 0, base.Location())
}

// FormatLocalDate renders a date as YYYY-MM-DD using its own local calendar
// components rather than a UTC conversion, so the day never shifts across
// timezones.
func FormatLocalDate(t time.Time) string {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// SameLocalDay reports whether two instants fall on the same local calendar day.
func SameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BeforeLocalDay reports whether a falls on a strictly earlier local calendar
// day than b, ignoring time of day.
func BeforeLocalDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
