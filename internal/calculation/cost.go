package calculation

import (
	"fmt"
	"math/big"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/rational"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// CalculateCost returns the on-costs of a base salary in a tax year, with
// pension contributions taken from the scheme's rate on 1 January of year.
func (e *Engine) CalculateCost(base int64, scheme domain.Scheme, year int) (domain.Cost, error) {
	return e.CalculateCostWithContributions(base, scheme, year, nil, nil)
}

// CalculateCostWithContributions returns the on-costs of a base salary given
// the year's employee and employer pension contributions. A nil contribution
// is approximated as in CalculateCost.
//
// Every component is rounded half up on its own and Total is the sum of the
// rounded components. The reported Exchange is -RoundHalfUp(-exchange), which
// differs from the value summed into Total when the exchange is an exact half.
func (e *Engine) CalculateCostWithContributions(base int64, scheme domain.Scheme, year int, employee, employer *big.Rat) (domain.Cost, error) {
	if !e.Tax.Supports(year) {
		return domain.Cost{}, fmt.Errorf("%w: %d", domain.ErrUnsupportedTaxYear, year)
	}
	schedule, err := e.Pensions.Schedule(scheme)
	if err != nil {
		return domain.Cost{}, err
	}

	salary := rational.Int(base)
	if employee == nil || employer == nil {
		rate, err := schedule.RateOn(dateutil.Date(year, 1, 1))
		if err != nil {
			return domain.Cost{}, err
		}
		if employee == nil {
			employee = rational.Mul(salary, rate.Employee)
		}
		if employer == nil {
			employer = rational.Mul(salary, rate.Employer)
		}
	}

	exchange := rational.Zero()
	if schedule.SalaryExchange {
		exchange = rational.Neg(employee)
	}
	employerPension := rational.Sub(employer, exchange)

	// The exchanged amount is rounded before it comes off the taxable salary.
	taxable := rational.Add(salary, rational.RoundHalfUpRat(exchange))

	nic, err := e.Tax.EmployerNIC(year, taxable)
	if err != nil {
		return domain.Cost{}, err
	}
	levy := e.Tax.ApprenticeshipLevy(taxable)

	cost := domain.Cost{
		Salary:             base,
		Exchange:           -rational.RoundHalfUp(rational.Neg(exchange)),
		EmployerPension:    rational.RoundHalfUp(employerPension),
		EmployerNIC:        rational.RoundHalfUp(nic),
		ApprenticeshipLevy: levy,
		TaxYear:            year,
	}
	cost.Total = base + rational.RoundHalfUp(exchange) + cost.EmployerPension + cost.EmployerNIC + levy
	return cost, nil
}
