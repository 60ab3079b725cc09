package calculation

import (
	"fmt"
	"math/big"
	"time"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/rational"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// CommitmentOptions describe an employment for
// EmploymentExpenditureAndCommitments. CostOptions.UntilDate is ignored in
// favour of the until argument.
type CommitmentOptions struct {
	CostOptions
	// FromDate separates money already spent from money still to be spent.
	// Zero means today.
	FromDate time.Time
}

// EmploymentExpenditureAndCommitments splits the cost of an employment into
// what has been spent before the from date and what is committed from it
// onwards. Costs start in the tax year containing the start date, which
// defaults to the from date.
//
// Each tax year's total is shared out in proportion to the salary earned on
// or after the from date. Explanations are labelled with the tax year, not
// the calendar year of their first salary record.
func (e *Engine) EmploymentExpenditureAndCommitments(until time.Time, grade domain.Grade, point string, scheme domain.Scheme, opts CommitmentOptions) (*domain.Commitments, error) {
	if until.IsZero() {
		return nil, fmt.Errorf("%w: commitments need an end of employment date", domain.ErrInvalidArgument)
	}
	from := dateutil.Normalize(opts.FromDate)
	if opts.FromDate.IsZero() {
		from = e.today()
	}
	costOpts := opts.CostOptions
	if costOpts.StartDate.IsZero() {
		costOpts.StartDate = from
	}
	costOpts.UntilDate = until
	taxYears := costOpts.TaxYearStart.OrDefault()
	occupancy := costOpts.occupancy()

	result := &domain.Commitments{Explanations: []domain.CommitmentExplanation{}}
	firstYear := taxYears.YearOf(costOpts.StartDate)
	for yc, err := range e.CostsByTaxYear(firstYear, grade, point, scheme, costOpts) {
		if err != nil {
			return nil, err
		}

		toCome, err := salaryToCome(yc, from, occupancy, taxYears.Days(yc.Year))
		if err != nil {
			return nil, err
		}
		commitment, err := commitmentShare(yc.Cost, toCome)
		if err != nil {
			return nil, fmt.Errorf("tax year %d: %w", yc.Year, err)
		}
		expenditure := yc.Cost.Total - commitment

		result.Explanations = append(result.Explanations, domain.CommitmentExplanation{
			TaxYear:      yc.Year,
			Salary:       yc.Cost.Salary,
			SalaryToCome: toCome,
			Expenditure:  expenditure,
			Commitment:   commitment,
			Salaries:     yc.Salaries,
			Cost:         yc.Cost,
		})
		result.TotalExpenditure += expenditure
		result.TotalCommitment += commitment
	}

	e.logger().Debugf("commitments from %s: expenditure %d, commitment %d",
		dateutil.Format(from), result.TotalExpenditure, result.TotalCommitment)
	return result, nil
}

// salaryToCome is the salary earned on or after from, rounded half up.
func salaryToCome(yc domain.YearCost, from time.Time, occupancy *big.Rat, yearDays int) (int64, error) {
	earned := rational.Zero()
	perDay := rational.Frac(1, int64(yearDays))
	for i := 0; i+1 < len(yc.Salaries); i++ {
		period, next := yc.Salaries[i], yc.Salaries[i+1]
		start := dateutil.Max(period.Date, from)
		end := dateutil.Max(start, next.Date)
		days := int64(dateutil.DaysBetween(start, end))
		earned.Add(earned, rational.Mul(occupancy, rational.Int(days), rational.Int(period.BaseSalary), perDay))
	}

	toCome := rational.RoundHalfUp(earned)
	if toCome < 0 || toCome > yc.Cost.Salary {
		return 0, fmt.Errorf("tax year %d: salary to come %d is outside [0, %d]", yc.Year, toCome, yc.Cost.Salary)
	}
	return toCome, nil
}

// commitmentShare is the part of cost.Total matching toCome out of cost.Salary.
// A year with no salary and no cost commits nothing.
func commitmentShare(cost domain.Cost, toCome int64) (int64, error) {
	if cost.Salary == 0 {
		if cost.Total == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: total cost is %d", domain.ErrNoSalary, cost.Total)
	}
	share := rational.Mul(big.NewRat(toCome, cost.Salary), rational.Int(cost.Total))
	return rational.RoundHalfUp(share), nil
}
