// Package progression turns a starting grade and point into a dated salary
// history.
//
// A history is built from two kinds of event. Salary changes (the initial
// assignment, anniversary increments, promotions) move an employee between
// grades and points. Salary table revisions change what every point pays.
// The two are merged by date, table revisions first on a tie, and every
// event is resolved against the table in force to give a SalaryRecord.
package progression

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/merge"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/scales"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Resolved is a stream of changes whose salaries have been looked up in the
// salary tables. Each change ignores its argument and returns its snapshot.
type Resolved = iter.Seq2[merge.Dated[Change], error]

// event is either a table revision or a salary change.
type event struct {
	mapping *Mapping
	change  Change
}

// MapGradeAndPoints resolves each change against the salary table in force on
// its date and emits an extra change whenever the table is revised. Events
// before the first salary assignment are dropped. The table stream starts at
// the date of the first change.
func MapGradeAndPoints(table *scales.Table, changes Changes, opts TableOptions) Resolved {
	return func(yield func(merge.Dated[Change], error) bool) {
		next, stop := iter.Pull(changes)
		defer stop()

		first, ok := next()
		if !ok {
			return
		}

		tables := func(yield func(merge.Dated[event]) bool) {
			for m := range MappingTables(table, first.Date, opts) {
				if !yield(merge.Dated[event]{Date: m.Date, Value: event{mapping: &m.Value}}) {
					return
				}
			}
		}
		rest := func(yield func(merge.Dated[event]) bool) {
			for c, ok := first, true; ok; c, ok = next() {
				if !yield(merge.Dated[event]{Date: c.Date, Value: event{change: c.Value}}) {
					return
				}
			}
		}

		var (
			mapping     Mapping
			mappingDate time.Time
			current     domain.Salary
		)
		for ev := range merge.Priority(tables, rest) {
			var reason string
			if ev.Value.mapping != nil {
				mapping, mappingDate = *ev.Value.mapping, ev.Date
				reason = "new salary table"
				if mapping.Approximate {
					reason += " (approximate)"
				}
			} else {
				salary, why, err := ev.Value.change(current)
				if err != nil {
					yield(merge.Dated[Change]{Date: ev.Date}, fmt.Errorf("salary change on %s: %w", dateutil.Format(ev.Date), err))
					return
				}
				current, reason = salary, why
			}

			if !current.IsSet() {
				continue
			}
			base, ok := mapping.Salaries[current.Point]
			if !ok {
				yield(merge.Dated[Change]{Date: ev.Date}, fmt.Errorf("no salary for point %q in table effective %s",
					current.Point, dateutil.Format(mappingDate)))
				return
			}

			snapshot := current.WithBase(base, mappingDate)
			resolved := func(domain.Salary) (domain.Salary, string, error) {
				return snapshot, reason, nil
			}
			if !yield(merge.Dated[Change]{Date: ev.Date, Value: resolved}, nil) {
				return
			}
		}
	}
}

// Until keeps the changes dated strictly before end.
func Until(end time.Time, changes Resolved) (Resolved, error) {
	if end.IsZero() {
		return nil, fmt.Errorf("%w: until must be passed a date", domain.ErrInvalidArgument)
	}
	end = dateutil.Normalize(end)
	return func(yield func(merge.Dated[Change], error) bool) {
		for c, err := range changes {
			if err != nil {
				yield(c, err)
				return
			}
			if !c.Date.Before(end) {
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}, nil
}

// Fold applies changes in turn, starting from initial, and records each
// resulting salary. With elide set, changes that leave the salary as it was
// are not recorded.
func Fold(changes Resolved, initial domain.Salary, elide bool) iter.Seq2[domain.SalaryRecord, error] {
	return func(yield func(domain.SalaryRecord, error) bool) {
		current := initial
		for c, err := range changes {
			if err != nil {
				yield(domain.SalaryRecord{}, err)
				return
			}
			previous := current
			salary, reason, err := c.Value(previous)
			if err != nil {
				yield(domain.SalaryRecord{}, err)
				return
			}
			current = salary
			if elide && current.Equal(previous) {
				continue
			}
			rec := domain.SalaryRecord{
				Date:             c.Date,
				Reason:           reason,
				Grade:            current.Grade,
				Point:            current.Point,
				BaseSalary:       current.BasePerAnnum,
				MappingTableDate: current.AsOfDate,
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Options configure SalaryProgression.
type Options struct {
	// Reason for the initial assignment. Defaults to DefaultSetReason.
	Reason string
	// NextAnniversaryDate enables yearly increments from that date. A date
	// before the start is moved forward a year at a time until it is not.
	NextAnniversaryDate time.Time
	// Until bounds the history. Without it the history never ends.
	Until time.Time
	// KeepNullChanges records events that leave the salary unchanged.
	KeepNullChanges bool
	// ExtraChanges are merged after the initial assignment and increments.
	ExtraChanges []Changes
	Tables       TableOptions
}

// SalaryProgression returns the salary history of an employee put on grade
// and point on from.
func SalaryProgression(table *scales.Table, from time.Time, grade domain.Grade, point string, opts Options) iter.Seq2[domain.SalaryRecord, error] {
	fail := func(err error) iter.Seq2[domain.SalaryRecord, error] {
		return func(yield func(domain.SalaryRecord, error) bool) {
			yield(domain.SalaryRecord{}, err)
		}
	}

	if from.IsZero() {
		return fail(fmt.Errorf("%w: salary progression needs a start date", domain.ErrInvalidArgument))
	}
	if err := checkPoint(table, grade, point); err != nil {
		return fail(err)
	}

	streams := []Changes{SetSalary(from, grade, point, opts.Reason)}
	if !opts.NextAnniversaryDate.IsZero() {
		next := dateutil.AdvanceToOnOrAfter(dateutil.Normalize(opts.NextAnniversaryDate), dateutil.Normalize(from))
		streams = append(streams, AnniversaryIncrements(table, next))
	}
	streams = append(streams, opts.ExtraChanges...)

	resolved := MapGradeAndPoints(table, ComposeChanges(streams...), opts.Tables)
	if !opts.Until.IsZero() {
		var err error
		if resolved, err = Until(opts.Until, resolved); err != nil {
			return fail(err)
		}
	}
	return Fold(resolved, domain.Salary{}, !opts.KeepNullChanges)
}

// Collect drains a finite history.
func Collect(records iter.Seq2[domain.SalaryRecord, error]) ([]domain.SalaryRecord, error) {
	var out []domain.SalaryRecord
	for rec, err := range records {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func checkPoint(table *scales.Table, grade domain.Grade, point string) error {
	scale, err := table.ScaleForGrade(grade)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(scale, func(sp domain.ScalePoint) bool { return sp.Point == point }) {
		return fmt.Errorf("%w: point %q is not part of grade %s", domain.ErrPointNotInGrade, point, grade)
	}
	return nil
}
