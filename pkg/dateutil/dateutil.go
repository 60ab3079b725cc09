// Package dateutil provides day-granular date helpers used throughout the
// on-cost calculations. All dates are normalised to midnight UTC.
package dateutil

import (
	"fmt"
	"time"
)

// Layout is the ISO date layout used for parsing and display.
const Layout = "2006-01-02"

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize drops the time-of-day and location from t.
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Today returns the current date.
func Today() time.Time {
	return Normalize(time.Now())
}

// Parse parses an ISO date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format renders t as an ISO date, or "" for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// DaysBetween returns the number of whole days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// WithYear moves t to the same month and day in year. A 29 February date
// lands on 1 March in non-leap years.
func WithYear(t time.Time, year int) time.Time {
	return Date(year, t.Month(), t.Day())
}

// AdvanceToOnOrAfter steps t forward a year at a time, keeping its month and
// day, until it is not before bound. The original month and day are reused
// on every step so a 29 February anniversary recovers in leap years.
func AdvanceToOnOrAfter(t, bound time.Time) time.Time {
	month, day := t.Month(), t.Day()
	year := t.Year()
	for {
		candidate := Date(year, month, day)
		if !candidate.Before(bound) {
			return candidate
		}
		year++
	}
}

// Max returns the later of a and b.
func Max(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// Min returns the earlier of a and b.
func Min(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// TaxYearStart describes the month and day a tax year begins on.
type TaxYearStart struct {
	Month time.Month `yaml:"month" json:"month"`
	Day   int        `yaml:"day" json:"day"`
}

// UKTaxYearStart is 6 April.
var UKTaxYearStart = TaxYearStart{Month: time.April, Day: 6}

// OrDefault returns s, or the UK tax year start when s is unset.
func (s TaxYearStart) OrDefault() TaxYearStart {
	if s.Month == 0 || s.Day == 0 {
		return UKTaxYearStart
	}
	return s
}

// Bounds returns the half-open interval [from, to) for the tax year starting in year.
func (s TaxYearStart) Bounds(year int) (from, to time.Time) {
	s = s.OrDefault()
	return Date(year, s.Month, s.Day), Date(year+1, s.Month, s.Day)
}

// YearOf returns the tax year containing date, named by the calendar year it starts in.
func (s TaxYearStart) YearOf(date time.Time) int {
	s = s.OrDefault()
	year := date.Year()
	if Date(year, s.Month, s.Day).After(Normalize(date)) {
		year--
	}
	return year
}

// Days returns the number of days in the tax year starting in year.
func (s TaxYearStart) Days(year int) int {
	from, to := s.Bounds(year)
	return DaysBetween(from, to)
}
