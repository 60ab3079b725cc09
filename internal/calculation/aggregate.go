package calculation

import (
	"fmt"
	"iter"
	"math/big"
	"time"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/progression"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/rational"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Reasons given to the synthetic records that open and close a tax year.
const (
	ReasonEmployeeStart   = "employee start"
	ReasonStartOfTaxYear  = "start of tax year"
	ReasonEndOfTaxYear    = "end of tax year"
	ReasonEndOfEmployment = "end of employment"
)

// CostOptions describe an employment for CostsByTaxYear.
type CostOptions struct {
	// Occupancy is the fraction of full time worked. Nil means full time.
	Occupancy *big.Rat
	// StartDate is the first day of employment. Zero means employed since
	// before the first tax year.
	StartDate time.Time
	// UntilDate is the first day of non-employment. Zero means the stream
	// never ends.
	UntilDate time.Time
	// NextAnniversaryDate enables yearly increments.
	NextAnniversaryDate time.Time
	TaxYearStart        dateutil.TaxYearStart
	Tables              progression.TableOptions
}

func (o CostOptions) occupancy() *big.Rat {
	if o.Occupancy == nil {
		return big.NewRat(1, 1)
	}
	return o.Occupancy
}

// CostsByTaxYear yields the cost of an employment for each tax year from
// fromYear onwards. The grade and point are those at the start of fromYear,
// or on StartDate if that falls within it; later years carry on from where
// the previous year ended.
//
// Years that end on or before StartDate are skipped rather than costed from
// the start of the tax year, so the first yielded year is the one the
// employee starts in.
//
// Years without a NIC table are costed with the latest table; the table used
// is reported in Cost.TaxYear.
//
// The sequence may be ranged more than once; each pass starts again from
// grade and point.
func (e *Engine) CostsByTaxYear(fromYear int, grade domain.Grade, point string, scheme domain.Scheme, opts CostOptions) iter.Seq2[domain.YearCost, error] {
	return func(yield func(domain.YearCost, error) bool) {
		grade, point := grade, point
		if _, err := e.Pensions.Schedule(scheme); err != nil {
			yield(domain.YearCost{Year: fromYear}, err)
			return
		}
		occupancy := opts.occupancy()
		if occupancy.Sign() < 0 || occupancy.Cmp(big.NewRat(1, 1)) > 0 {
			yield(domain.YearCost{Year: fromYear}, fmt.Errorf("%w: occupancy %s is not between 0 and 1",
				domain.ErrInvalidArgument, occupancy.RatString()))
			return
		}
		taxYears := opts.TaxYearStart.OrDefault()
		startDate := dateutil.Normalize(opts.StartDate)
		until := dateutil.Normalize(opts.UntilDate)

		for year := fromYear; ; year++ {
			from, to := taxYears.Bounds(year)
			yearDays := dateutil.DaysBetween(from, to)

			start, opening := from, ReasonStartOfTaxYear
			if !opts.StartDate.IsZero() {
				if !opts.UntilDate.IsZero() && !startDate.Before(until) {
					return
				}
				if !startDate.Before(to) {
					// Not employed yet.
					continue
				}
				if !startDate.Before(from) {
					start, opening = startDate, ReasonEmployeeStart
				}
			}
			if !opts.UntilDate.IsZero() && !start.Before(until) {
				return
			}

			end, closing := to, ReasonEndOfTaxYear
			if !opts.UntilDate.IsZero() && !until.After(to) {
				end, closing = until, ReasonEndOfEmployment
			}

			anniversary := opts.NextAnniversaryDate
			if !anniversary.IsZero() {
				anniversary = dateutil.AdvanceToOnOrAfter(anniversary, from)
			}

			e.logger().Debugf("costing tax year %d from %s to %s", year, dateutil.Format(start), dateutil.Format(end))
			records, err := progression.Collect(progression.SalaryProgression(e.Scales, start, grade, point, progression.Options{
				Reason:              opening,
				NextAnniversaryDate: anniversary,
				Until:               end,
				Tables:              opts.Tables,
			}))
			if err != nil {
				yield(domain.YearCost{Year: year}, fmt.Errorf("tax year %d: %w", year, err))
				return
			}

			last := records[len(records)-1]
			grade, point = last.Grade, last.Point
			closingRecord := last
			closingRecord.Date, closingRecord.Reason = end, closing
			records = append(records, closingRecord)

			cost, err := e.yearCost(year, scheme, occupancy, yearDays, records)
			if err != nil {
				yield(domain.YearCost{Year: year}, fmt.Errorf("tax year %d: %w", year, err))
				return
			}
			if !yield(domain.YearCost{Year: year, Cost: cost, Salaries: records}, nil) {
				return
			}
		}
	}
}

// yearCost accrues salary and pension contributions day by day over the
// periods between consecutive records and costs the total.
func (e *Engine) yearCost(year int, scheme domain.Scheme, occupancy *big.Rat, yearDays int, records []domain.SalaryRecord) (domain.Cost, error) {
	var (
		salary   = rational.Zero()
		employee = rational.Zero()
		employer = rational.Zero()
		perDay   = rational.Frac(1, int64(yearDays))
	)
	for i := 0; i+1 < len(records); i++ {
		period, next := records[i], records[i+1]
		days := dateutil.DaysBetween(period.Date, next.Date)
		base := rational.Int(period.BaseSalary)

		intervals, err := e.Pensions.RatesBetween(scheme, period.Date, next.Date)
		if err != nil {
			return domain.Cost{}, err
		}
		covered := 0
		for _, interval := range intervals {
			earned := rational.Mul(occupancy, rational.Int(int64(interval.Days())), base, perDay)
			employee.Add(employee, rational.Mul(earned, interval.Rate.Employee))
			employer.Add(employer, rational.Mul(earned, interval.Rate.Employer))
			covered += interval.Days()
		}
		if covered != days {
			return domain.Cost{}, fmt.Errorf("%w: %s rates cover %d of %d days from %s",
				domain.ErrInconsistentRates, scheme, covered, days, dateutil.Format(period.Date))
		}

		salary.Add(salary, rational.Mul(occupancy, rational.Int(int64(days)), base, perDay))
	}

	taxYear, err := e.taxYearFor(year)
	if err != nil {
		return domain.Cost{}, err
	}
	return e.CalculateCostWithContributions(rational.RoundHalfUp(salary), scheme, taxYear, employee, employer)
}
