package progression

import (
	"iter"
	"math/big"
	"time"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/merge"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/rational"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/scales"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// DefaultAnnualGrowth is the uplift applied per year to extrapolate salary tables.
var DefaultAnnualGrowth = big.NewRat(102, 100)

// Mapping is a point to salary table in the revision stream.
type Mapping struct {
	Salaries    map[string]int64
	Approximate bool
}

// TableOptions control how salary tables are projected.
type TableOptions struct {
	// AnnualGrowth defaults to DefaultAnnualGrowth.
	AnnualGrowth *big.Rat
	// RevisionMonth and RevisionDay default to the month and day of the
	// newest known table.
	RevisionMonth time.Month
	RevisionDay   int
}

// MappingTables yields the salary table in force on from, then one table a
// year on the revision date, forever.
//
// Years with a real table use it as is. Other years scale every salary of
// the newest real table by AnnualGrowth to the power of the number of years
// between them and round the result, so approximations never compound their
// own rounding. Years before the newest table are scaled down the same way.
func MappingTables(table *scales.Table, from time.Time, opts TableOptions) iter.Seq[merge.Dated[Mapping]] {
	growth := opts.AnnualGrowth
	if growth == nil {
		growth = DefaultAnnualGrowth
	}
	latestDate := table.LatestEffectiveDate()
	latest, _ := table.MappingOn(latestDate)

	month, day := latestDate.Month(), latestDate.Day()
	if opts.RevisionMonth != 0 {
		month = opts.RevisionMonth
	}
	if opts.RevisionDay != 0 {
		day = opts.RevisionDay
	}

	from = dateutil.Normalize(from)
	startYear := from.Year()
	if dateutil.Date(startYear, month, day).After(from) {
		startYear--
	}

	return func(yield func(merge.Dated[Mapping]) bool) {
		for year := startYear; ; year++ {
			date := dateutil.Date(year, month, day)
			if exact, ok := table.MappingOn(date); ok {
				if !yield(merge.Dated[Mapping]{Date: date, Value: Mapping{Salaries: exact}}) {
					return
				}
				continue
			}

			multiplier := rational.Pow(growth, year-latestDate.Year())
			approx := make(map[string]int64, len(latest))
			for point, salary := range latest {
				approx[point] = rational.RoundHalfUp(rational.Mul(rational.Int(salary), multiplier))
			}
			if !yield(merge.Dated[Mapping]{Date: date, Value: Mapping{Salaries: approx, Approximate: true}}) {
				return
			}
		}
	}
}
