// Package scales answers questions about the salary scale table: which
// points make up a grade, where an anniversary increment takes a point, and
// which salary mapping applies on a date.
package scales

import (
	"fmt"
	"slices"
	"time"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Table is an immutable salary scale table. It is safe for concurrent use.
type Table struct {
	grades   []domain.Grade
	scales   map[domain.Grade][]domain.ScalePoint
	mappings []domain.SalaryMapping // newest first
}

// New builds a table from its configuration document.
func New(cfg domain.SalaryScalesConfig) (*Table, error) {
	t := &Table{scales: make(map[domain.Grade][]domain.ScalePoint)}

	for _, g := range cfg.Grades {
		if !g.Grade.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownGrade, g.Grade)
		}
		if _, dup := t.scales[g.Grade]; dup {
			return nil, fmt.Errorf("grade %s has more than one scale", g.Grade)
		}
		if len(g.Scale) == 0 {
			return nil, fmt.Errorf("grade %s has an empty scale", g.Grade)
		}
		seen := make(map[string]bool, len(g.Scale))
		for _, sp := range g.Scale {
			if sp.Point == "" {
				return nil, fmt.Errorf("grade %s has a scale row with no point", g.Grade)
			}
			if seen[sp.Point] {
				return nil, fmt.Errorf("point %q appears twice in grade %s", sp.Point, g.Grade)
			}
			seen[sp.Point] = true
		}
		t.grades = append(t.grades, g.Grade)
		t.scales[g.Grade] = slices.Clone(g.Scale)
	}

	if len(cfg.Salaries) == 0 {
		return nil, fmt.Errorf("salary scale table has no salary mappings")
	}
	for _, m := range cfg.Salaries {
		if m.EffectiveDate.IsZero() {
			return nil, fmt.Errorf("salary mapping has no effective date")
		}
		t.mappings = append(t.mappings, domain.SalaryMapping{
			EffectiveDate: dateutil.Normalize(m.EffectiveDate),
			Mapping:       m.Mapping,
		})
	}
	slices.SortFunc(t.mappings, func(a, b domain.SalaryMapping) int {
		return b.EffectiveDate.Compare(a.EffectiveDate)
	})
	for i := 1; i < len(t.mappings); i++ {
		if t.mappings[i].EffectiveDate.Equal(t.mappings[i-1].EffectiveDate) {
			return nil, fmt.Errorf("more than one salary mapping effective %s",
				dateutil.Format(t.mappings[i].EffectiveDate))
		}
	}

	return t, nil
}

// Grades returns the grades that have a scale, in table order.
func (t *Table) Grades() []domain.Grade {
	return slices.Clone(t.grades)
}

// ScaleForGrade returns the grade's scale in ascending progression order.
func (t *Table) ScaleForGrade(grade domain.Grade) ([]domain.ScalePoint, error) {
	scale, ok := t.scales[grade]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownGrade, grade)
	}
	return slices.Clone(scale), nil
}

// StartingPointForGrade returns the first point of the grade's scale.
func (t *Table) StartingPointForGrade(grade domain.Grade) (string, error) {
	scale, ok := t.scales[grade]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownGrade, grade)
	}
	return scale[0].Point, nil
}

// Increment returns the point reached from point after one anniversary.
// Contribution points and the top of the scale do not move, and nobody is
// moved onto a contribution point.
func (t *Table) Increment(grade domain.Grade, point string) (string, error) {
	scale, ok := t.scales[grade]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownGrade, grade)
	}

	idx := slices.IndexFunc(scale, func(sp domain.ScalePoint) bool { return sp.Point == point })
	if idx < 0 {
		return "", fmt.Errorf("%w: point %q is not part of grade %s", domain.ErrPointNotInGrade, point, grade)
	}

	if idx == len(scale)-1 || scale[idx].IsContribution {
		return point, nil
	}
	next := scale[idx+1]
	if next.IsContribution {
		return point, nil
	}
	return next.Point, nil
}

// EffectiveDates returns the effective dates of every salary mapping, newest first.
func (t *Table) EffectiveDates() []time.Time {
	dates := make([]time.Time, len(t.mappings))
	for i, m := range t.mappings {
		dates[i] = m.EffectiveDate
	}
	return dates
}

// LatestEffectiveDate returns the effective date of the newest mapping.
func (t *Table) LatestEffectiveDate() time.Time {
	return t.mappings[0].EffectiveDate
}

// MappingOn returns the mapping that takes effect exactly on date, if any.
// The returned map must not be modified.
func (t *Table) MappingOn(date time.Time) (map[string]int64, bool) {
	date = dateutil.Normalize(date)
	for _, m := range t.mappings {
		if m.EffectiveDate.Equal(date) {
			return m.Mapping, true
		}
	}
	return nil, false
}

// MappingForDate returns the newest mapping in effect on date along with its
// effective date. The returned map must not be modified.
func (t *Table) MappingForDate(date time.Time) (time.Time, map[string]int64, error) {
	date = dateutil.Normalize(date)
	for _, m := range t.mappings {
		if !m.EffectiveDate.After(date) {
			return m.EffectiveDate, m.Mapping, nil
		}
	}
	return time.Time{}, nil, fmt.Errorf("%w: %s", domain.ErrDateTooEarly, dateutil.Format(date))
}

// SalaryFor returns the salary for a grade and point on date.
func (t *Table) SalaryFor(grade domain.Grade, point string, date time.Time) (int64, time.Time, error) {
	scale, ok := t.scales[grade]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("%w: %s", domain.ErrUnknownGrade, grade)
	}
	if !slices.ContainsFunc(scale, func(sp domain.ScalePoint) bool { return sp.Point == point }) {
		return 0, time.Time{}, fmt.Errorf("%w: point %q is not part of grade %s", domain.ErrPointNotInGrade, point, grade)
	}
	effective, mapping, err := t.MappingForDate(date)
	if err != nil {
		return 0, time.Time{}, err
	}
	salary, ok := mapping[point]
	if !ok {
		return 0, time.Time{}, fmt.Errorf("no salary for point %q in table effective %s", point, dateutil.Format(effective))
	}
	return salary, effective, nil
}

// Validate checks that every scale point has a salary in the newest mapping,
// since projections beyond the known tables extrapolate from it.
func (t *Table) Validate() error {
	latest := t.mappings[0]
	for _, g := range t.grades {
		for _, sp := range t.scales[g] {
			if _, ok := latest.Mapping[sp.Point]; !ok {
				return fmt.Errorf("point %q of grade %s has no salary in table effective %s",
					sp.Point, g, dateutil.Format(latest.EffectiveDate))
			}
		}
	}
	return nil
}
