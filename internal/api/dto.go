package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// =============================================================================
// REQUESTS
// =============================================================================

// EmploymentRequest describes an employment. Dates are YYYY-MM-DD.
type EmploymentRequest struct {
	Name                string              `json:"name"`
	Grade               string              `json:"grade"`
	Point               string              `json:"point,omitempty"`
	Scheme              string              `json:"scheme"`
	StartDate           string              `json:"start_date"`
	UntilDate           string              `json:"until_date"`
	NextAnniversaryDate string              `json:"next_anniversary_date,omitempty"`
	FromDate            string              `json:"from_date,omitempty"`
	Occupancy           decimal.Decimal     `json:"occupancy"`
	Assumptions         *AssumptionsRequest `json:"assumptions,omitempty"`
}

// AssumptionsRequest overrides the projection assumptions.
type AssumptionsRequest struct {
	AnnualGrowth  decimal.Decimal `json:"annual_growth"`
	RevisionMonth int             `json:"revision_month,omitempty"`
	RevisionDay   int             `json:"revision_day,omitempty"`
	TaxYearStart  *MonthDay       `json:"tax_year_start,omitempty"`
}

// MonthDay is a day of the year.
type MonthDay struct {
	Month int `json:"month"`
	Day   int `json:"day"`
}

// CostRequest costs a single salary for one tax year.
type CostRequest struct {
	Salary               int64            `json:"salary"`
	Scheme               string           `json:"scheme"`
	Year                 int              `json:"year"`
	EmployeeContribution *decimal.Decimal `json:"employee_contribution,omitempty"`
	EmployerContribution *decimal.Decimal `json:"employer_contribution,omitempty"`
}

// CompareRequest compares an employment across pension schemes.
type CompareRequest struct {
	Employment EmploymentRequest `json:"employment"`
	BaseScheme string            `json:"base_scheme,omitempty"`
	Schemes    []string          `json:"schemes,omitempty"`
}

// toEmployment parses the dates of an employment request. Defaults and
// validation are left to the caller.
func (req EmploymentRequest) toEmployment() (*domain.Employment, error) {
	emp := &domain.Employment{
		Name:      req.Name,
		Grade:     domain.Grade(req.Grade),
		Point:     req.Point,
		Scheme:    domain.Scheme(req.Scheme),
		Occupancy: req.Occupancy,
	}
	var err error
	if emp.StartDate, err = parseDate("start_date", req.StartDate); err != nil {
		return nil, err
	}
	if emp.UntilDate, err = parseDate("until_date", req.UntilDate); err != nil {
		return nil, err
	}
	if emp.NextAnniversaryDate, err = parseDate("next_anniversary_date", req.NextAnniversaryDate); err != nil {
		return nil, err
	}
	if emp.FromDate, err = parseDate("from_date", req.FromDate); err != nil {
		return nil, err
	}

	if a := req.Assumptions; a != nil {
		emp.Assumptions.AnnualGrowth = a.AnnualGrowth
		emp.Assumptions.RevisionMonth = a.RevisionMonth
		emp.Assumptions.RevisionDay = a.RevisionDay
		if a.TaxYearStart != nil {
			emp.Assumptions.TaxYearStart = dateutil.TaxYearStart{Month: time.Month(a.TaxYearStart.Month), Day: a.TaxYearStart.Day}
		}
	}
	return emp, nil
}

// =============================================================================
// RESPONSES
// =============================================================================

// GradeDTO summarises a grade.
type GradeDTO struct {
	Grade         string `json:"grade"`
	StartingPoint string `json:"starting_point"`
	Points        int    `json:"points"`
}

// ScalePointDTO is one point of a grade's scale with its salary.
type ScalePointDTO struct {
	Name           string `json:"name"`
	Point          string `json:"point"`
	IsContribution bool   `json:"is_contribution"`
	Salary         int64  `json:"salary"`
}

// ScaleDTO is a grade's scale as paid on a date.
type ScaleDTO struct {
	Grade            string          `json:"grade"`
	Date             string          `json:"date"`
	MappingTableDate string          `json:"mapping_table_date"`
	Points           []ScalePointDTO `json:"points"`
}

// SchemeDTO describes a pension scheme and its current rates.
type SchemeDTO struct {
	Scheme         string `json:"scheme"`
	Description    string `json:"description,omitempty"`
	SalaryExchange bool   `json:"salary_exchange"`
	EmployerRate   string `json:"employer_rate,omitempty"`
	EmployeeRate   string `json:"employee_rate,omitempty"`
}

// SalaryRecordDTO is one entry of a salary history.
type SalaryRecordDTO struct {
	Date             string `json:"date"`
	Reason           string `json:"reason"`
	Grade            string `json:"grade"`
	Point            string `json:"point"`
	BaseSalary       int64  `json:"base_salary"`
	MappingTableDate string `json:"mapping_table_date"`
}

// YearCostDTO is the cost of one tax year.
type YearCostDTO struct {
	Year     int               `json:"year"`
	Cost     domain.Cost       `json:"cost"`
	Salaries []SalaryRecordDTO `json:"salaries"`
}

// CommitmentDTO explains one tax year of a commitment split.
type CommitmentDTO struct {
	TaxYear      int               `json:"tax_year"`
	Salary       int64             `json:"salary"`
	SalaryToCome int64             `json:"salary_to_come"`
	Expenditure  int64             `json:"expenditure"`
	Commitment   int64             `json:"commitment"`
	Cost         domain.Cost       `json:"cost"`
	Salaries     []SalaryRecordDTO `json:"salaries"`
}

// CommitmentsDTO is the response to a commitments request.
type CommitmentsDTO struct {
	FromDate         string          `json:"from_date"`
	TotalExpenditure int64           `json:"total_expenditure"`
	TotalCommitment  int64           `json:"total_commitment"`
	Explanations     []CommitmentDTO `json:"explanations"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dateutil.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}

func toSalaryRecordDTOs(records []domain.SalaryRecord) []SalaryRecordDTO {
	dtos := make([]SalaryRecordDTO, len(records))
	for i, r := range records {
		dtos[i] = SalaryRecordDTO{
			Date:             dateutil.Format(r.Date),
			Reason:           r.Reason,
			Grade:            string(r.Grade),
			Point:            r.Point,
			BaseSalary:       r.BaseSalary,
			MappingTableDate: dateutil.Format(r.MappingTableDate),
		}
	}
	return dtos
}

func toYearCostDTOs(years []domain.YearCost) []YearCostDTO {
	dtos := make([]YearCostDTO, len(years))
	for i, y := range years {
		dtos[i] = YearCostDTO{Year: y.Year, Cost: y.Cost, Salaries: toSalaryRecordDTOs(y.Salaries)}
	}
	return dtos
}
