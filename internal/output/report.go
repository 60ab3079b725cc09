package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Kind says which calculation a report holds.
type Kind string

const (
	KindCost        Kind = "cost"
	KindProgression Kind = "progression"
	KindCosts       Kind = "costs"
	KindCommitments Kind = "commitments"
)

// Report is the result of one calculation together with what it was
// calculated for. Only the fields matching Kind are set.
type Report struct {
	Kind        Kind                  `json:"kind"`
	Title       string                `json:"title"`
	Employment  *domain.Employment    `json:"employment,omitempty"`
	Scheme      domain.Scheme         `json:"scheme,omitempty"`
	Cost        *domain.Cost          `json:"cost,omitempty"`
	Salaries    []domain.SalaryRecord `json:"salaries,omitempty"`
	Years       []domain.YearCost     `json:"years,omitempty"`
	Commitments *domain.Commitments   `json:"commitments,omitempty"`
	Assumptions []string              `json:"assumptions,omitempty"`
}

// NewCostReport wraps a single salary costing.
func NewCostReport(scheme domain.Scheme, cost domain.Cost) *Report {
	return &Report{
		Kind:        KindCost,
		Title:       fmt.Sprintf("On-cost of %s salary in tax year %d", FormatPounds(cost.Salary), cost.TaxYear),
		Scheme:      scheme,
		Cost:        &cost,
		Assumptions: DefaultAssumptions,
	}
}

// NewProgressionReport wraps the salary history of an employment.
func NewProgressionReport(emp *domain.Employment, salaries []domain.SalaryRecord) *Report {
	return &Report{
		Kind:        KindProgression,
		Title:       "Salary progression" + forName(emp),
		Employment:  emp,
		Scheme:      emp.Scheme,
		Salaries:    salaries,
		Assumptions: AssumptionsFor(emp),
	}
}

// NewCostsReport wraps the per-tax-year costs of an employment.
func NewCostsReport(emp *domain.Employment, years []domain.YearCost) *Report {
	return &Report{
		Kind:        KindCosts,
		Title:       "Costs by tax year" + forName(emp),
		Employment:  emp,
		Scheme:      emp.Scheme,
		Years:       years,
		Assumptions: AssumptionsFor(emp),
	}
}

// NewCommitmentsReport wraps the expenditure and commitment split of an
// employment.
func NewCommitmentsReport(emp *domain.Employment, c *domain.Commitments) *Report {
	return &Report{
		Kind:        KindCommitments,
		Title:       "Expenditure and commitments" + forName(emp),
		Employment:  emp,
		Scheme:      emp.Scheme,
		Commitments: c,
		Assumptions: AssumptionsFor(emp),
	}
}

func forName(emp *domain.Employment) string {
	if emp == nil || emp.Name == "" {
		return ""
	}
	return ": " + emp.Name
}

// Totals adds up the cost of every year in the report.
func (r *Report) Totals() domain.Cost {
	var total domain.Cost
	for _, y := range r.Years {
		total.Salary += y.Cost.Salary
		total.Exchange += y.Cost.Exchange
		total.EmployerPension += y.Cost.EmployerPension
		total.EmployerNIC += y.Cost.EmployerNIC
		total.ApprenticeshipLevy += y.Cost.ApprenticeshipLevy
		total.Total += y.Cost.Total
	}
	return total
}

// pounds marks a table cell as a whole-pound amount.
type pounds int64

// table is a report section laid out as rows of cells. Cells are strings,
// ints or pounds.
type table struct {
	Name     string
	Headings []string
	Rows     [][]any
	Notes    []string
}

var costHeadings = []string{"Salary", "Exchange", "Employer pension", "Employer NIC", "Apprenticeship levy", "Total"}

func costCells(c domain.Cost) []any {
	return []any{
		pounds(c.Salary), pounds(c.Exchange), pounds(c.EmployerPension),
		pounds(c.EmployerNIC), pounds(c.ApprenticeshipLevy), pounds(c.Total),
	}
}

// tables lays out the report for the tabular formatters.
func (r *Report) tables() ([]table, error) {
	switch r.Kind {
	case KindCost:
		if r.Cost == nil {
			return nil, fmt.Errorf("%s report has no cost", r.Kind)
		}
		return []table{{
			Name:     "Cost",
			Headings: append([]string{"Scheme", "NIC table"}, costHeadings...),
			Rows:     [][]any{append([]any{string(r.Scheme), r.Cost.TaxYear}, costCells(*r.Cost)...)},
		}}, nil

	case KindProgression:
		return []table{salariesTable("Salaries", r.Salaries, false, 0)}, nil

	case KindCosts:
		costs := table{
			Name:     "Costs",
			Headings: append([]string{"Tax year", "NIC table"}, costHeadings...),
		}
		salaries := salariesTable("Salaries", nil, true, 0)
		for _, y := range r.Years {
			costs.Rows = append(costs.Rows, append([]any{y.Year, y.Cost.TaxYear}, costCells(y.Cost)...))
			if y.Substituted() {
				costs.Notes = append(costs.Notes,
					fmt.Sprintf("Tax year %d was costed with the %d NIC table.", y.Year, y.Cost.TaxYear))
			}
			salaries.Rows = append(salaries.Rows, salariesTable("", y.Salaries, true, y.Year).Rows...)
		}
		costs.Rows = append(costs.Rows, append([]any{"Total", ""}, costCells(r.Totals())...))
		return []table{costs, salaries}, nil

	case KindCommitments:
		if r.Commitments == nil {
			return nil, fmt.Errorf("%s report has no commitments", r.Kind)
		}
		t := table{
			Name:     "Commitments",
			Headings: []string{"Tax year", "Salary", "Salary to come", "Total cost", "Expenditure", "Commitment"},
		}
		for _, e := range r.Commitments.Explanations {
			t.Rows = append(t.Rows, []any{
				e.TaxYear, pounds(e.Salary), pounds(e.SalaryToCome), pounds(e.Cost.Total),
				pounds(e.Expenditure), pounds(e.Commitment),
			})
		}
		t.Rows = append(t.Rows, []any{
			"Total", "", "", pounds(r.Commitments.TotalExpenditure + r.Commitments.TotalCommitment),
			pounds(r.Commitments.TotalExpenditure), pounds(r.Commitments.TotalCommitment),
		})
		if r.Employment != nil {
			from := "today"
			if !r.Employment.FromDate.IsZero() {
				from = dateutil.Format(r.Employment.FromDate)
			}
			t.Notes = append(t.Notes, "Expenditure is money spent before "+from+".")
		}
		return []table{t}, nil
	}
	return nil, fmt.Errorf("unknown report kind %q", r.Kind)
}

func salariesTable(name string, records []domain.SalaryRecord, withYear bool, year int) table {
	t := table{Name: name, Headings: []string{"Date", "Reason", "Grade", "Point", "Base salary", "Salary table"}}
	if withYear {
		t.Headings = append([]string{"Tax year"}, t.Headings...)
	}
	for _, rec := range records {
		row := []any{
			dateutil.Format(rec.Date), rec.Reason, string(rec.Grade), rec.Point,
			pounds(rec.BaseSalary), dateutil.Format(rec.MappingTableDate),
		}
		if withYear {
			row = append([]any{year}, row...)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// cellString renders a cell for plain text output.
func cellString(v any) string {
	switch v := v.(type) {
	case pounds:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	}
	return fmt.Sprint(v)
}

var printer = message.NewPrinter(language.BritishEnglish)

// FormatCurrency formats a decimal as whole pounds with thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	n := amount.Round(0).IntPart()
	if n < 0 {
		return "-£" + printer.Sprintf("%d", -n)
	}
	return "£" + printer.Sprintf("%d", n)
}

// FormatPounds formats a whole-pound amount.
func FormatPounds(n int64) string {
	return FormatCurrency(decimal.NewFromInt(n))
}

// FormatPercentage formats a fraction as a percentage
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Shift(2).StringFixed(2) + "%"
}

// GeneratedAt stamps reports. Replaced in tests.
var GeneratedAt = time.Now
