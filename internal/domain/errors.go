package domain

import "errors"

// Errors returned by the scale, pension, tax and calculation packages.
// Callers should test for them with errors.Is; they are always wrapped
// with the offending grade, point, date or year.
var (
	// ErrUnknownGrade is returned for a grade with no scale in the loaded tables.
	ErrUnknownGrade = errors.New("unknown grade")

	// ErrPointNotInGrade is returned for a point that is not part of the grade's scale.
	ErrPointNotInGrade = errors.New("point is not part of grade")

	// ErrDateTooEarly is returned when a salary is requested before the earliest salary table.
	ErrDateTooEarly = errors.New("date is too far in the past")

	// ErrInvalidArgument is returned for missing or malformed arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedTaxYear is returned when no NIC table exists for a tax year.
	ErrUnsupportedTaxYear = errors.New("unsupported tax year")

	// ErrUnknownScheme is returned for a pension scheme with no rate schedule.
	ErrUnknownScheme = errors.New("unknown pension scheme")

	// ErrInconsistentRates means a pension rate schedule does not partition
	// a salary period. It indicates a malformed table and is not recoverable.
	ErrInconsistentRates = errors.New("pension rate intervals do not cover salary period")

	// ErrNoSalary is returned when a year with no salary still has a cost to split.
	ErrNoSalary = errors.New("no salary in tax year")
)
