package progression

import (
	"fmt"
	"iter"
	"time"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/merge"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/scales"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Change computes a salary from the one before it, along with a
// human-readable reason for the change.
type Change func(prev domain.Salary) (domain.Salary, string, error)

// Changes is a stream of salary changes in date order.
type Changes = iter.Seq[merge.Dated[Change]]

// DefaultSetReason is the reason recorded by SetSalary when none is given.
const DefaultSetReason = "set salary"

// SetSalary puts an employee on grade and point on date.
func SetSalary(date time.Time, grade domain.Grade, point, reason string) Changes {
	if reason == "" {
		reason = DefaultSetReason
	}
	salary := domain.Salary{Grade: grade, Point: point}
	change := func(domain.Salary) (domain.Salary, string, error) {
		return salary, reason, nil
	}
	return merge.Slice(merge.Dated[Change]{Date: dateutil.Normalize(date), Value: change})
}

// AnniversaryIncrements fires on next and on the same day every following
// year, moving the employee one point up the scale where the scale allows.
// The stream never ends.
func AnniversaryIncrements(table *scales.Table, next time.Time) Changes {
	increment := func(prev domain.Salary) (domain.Salary, string, error) {
		if !prev.IsSet() {
			return prev, "", fmt.Errorf("%w: anniversary increment before any salary is set", domain.ErrInvalidArgument)
		}
		point, err := table.Increment(prev.Grade, prev.Point)
		if err != nil {
			return prev, "", err
		}
		if point == prev.Point {
			return prev, "anniversary: no increment", nil
		}
		return domain.Salary{Grade: prev.Grade, Point: point},
			fmt.Sprintf("anniversary: point %s to %s", prev.Point, point), nil
	}

	return func(yield func(merge.Dated[Change]) bool) {
		for year := next.Year(); ; year++ {
			if !yield(merge.Dated[Change]{Date: dateutil.WithYear(next, year), Value: increment}) {
				return
			}
		}
	}
}

// ComposeChanges merges change streams by date. On the same day, changes from
// earlier streams apply first.
func ComposeChanges(streams ...Changes) Changes {
	return merge.Dates(merge.Priority(streams...))
}
