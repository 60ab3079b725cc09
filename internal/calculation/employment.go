package calculation

import (
	"fmt"
	"time"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/progression"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/rational"
)

// EmploymentPoint returns the employment's point, or the starting point of
// its grade when none is given.
func (e *Engine) EmploymentPoint(emp *domain.Employment) (string, error) {
	if emp.Point != "" {
		return emp.Point, nil
	}
	return e.Scales.StartingPointForGrade(emp.Grade)
}

// EmploymentCostOptions converts an employment's dates, occupancy and
// assumptions into CostOptions.
func EmploymentCostOptions(emp *domain.Employment) CostOptions {
	opts := CostOptions{
		StartDate:           emp.StartDate,
		UntilDate:           emp.UntilDate,
		NextAnniversaryDate: emp.NextAnniversaryDate,
		TaxYearStart:        emp.Assumptions.TaxYearStart.OrDefault(),
	}
	if !emp.Occupancy.IsZero() {
		opts.Occupancy = rational.FromDecimal(emp.Occupancy)
	}
	if !emp.Assumptions.AnnualGrowth.IsZero() {
		opts.Tables.AnnualGrowth = rational.FromDecimal(emp.Assumptions.AnnualGrowth)
	}
	if emp.Assumptions.RevisionMonth != 0 && emp.Assumptions.RevisionDay != 0 {
		opts.Tables.RevisionMonth = time.Month(emp.Assumptions.RevisionMonth)
		opts.Tables.RevisionDay = emp.Assumptions.RevisionDay
	}
	return opts
}

// EmploymentProgression returns the salary history of an employment from
// its start date up to its end.
func (e *Engine) EmploymentProgression(emp *domain.Employment) ([]domain.SalaryRecord, error) {
	point, err := e.EmploymentPoint(emp)
	if err != nil {
		return nil, err
	}
	opts := EmploymentCostOptions(emp)
	return progression.Collect(progression.SalaryProgression(e.Scales, emp.StartDate, emp.Grade, point, progression.Options{
		Reason:              ReasonEmployeeStart,
		NextAnniversaryDate: opts.NextAnniversaryDate,
		Until:               opts.UntilDate,
		Tables:              opts.Tables,
	}))
}

// EmploymentCosts returns the cost of every tax year of an employment.
func (e *Engine) EmploymentCosts(emp *domain.Employment) ([]domain.YearCost, error) {
	if emp.UntilDate.IsZero() {
		return nil, fmt.Errorf("%w: employment has no end date", domain.ErrInvalidArgument)
	}
	point, err := e.EmploymentPoint(emp)
	if err != nil {
		return nil, err
	}
	opts := EmploymentCostOptions(emp)

	var costs []domain.YearCost
	fromYear := opts.TaxYearStart.YearOf(emp.StartDate)
	for yc, err := range e.CostsByTaxYear(fromYear, emp.Grade, point, emp.Scheme, opts) {
		if err != nil {
			return nil, err
		}
		costs = append(costs, yc)
	}
	return costs, nil
}

// EmploymentCommitments splits the cost of an employment at its from date.
func (e *Engine) EmploymentCommitments(emp *domain.Employment) (*domain.Commitments, error) {
	point, err := e.EmploymentPoint(emp)
	if err != nil {
		return nil, err
	}
	return e.EmploymentExpenditureAndCommitments(emp.UntilDate, emp.Grade, point, emp.Scheme, CommitmentOptions{
		CostOptions: EmploymentCostOptions(emp),
		FromDate:    emp.FromDate,
	})
}
