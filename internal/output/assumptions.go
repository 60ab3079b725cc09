package output

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
)

// DefaultAssumptions lists the modelling rules rendered in every report.
var DefaultAssumptions = []string{
	"Amounts are rounded half up to whole pounds; the total is rounded on its own",
	"Employer NIC uses the table of the tax year, or the latest table when none exists",
	"Apprenticeship levy is rounded down to whole pounds",
}

// AssumptionsFor adds the employment's own assumptions to DefaultAssumptions.
func AssumptionsFor(emp *domain.Employment) []string {
	if emp == nil {
		return DefaultAssumptions
	}
	a := emp.Assumptions
	out := append([]string(nil), DefaultAssumptions...)

	growth := a.AnnualGrowth
	if growth.IsZero() {
		growth = domain.DefaultAnnualGrowth
	}
	out = append(out, "Salary tables beyond the latest known one grow by "+
		FormatPercentage(growth.Sub(decimal.NewFromInt(1)))+" a year")
	if a.RevisionMonth != 0 && a.RevisionDay != 0 {
		out = append(out, fmt.Sprintf("Salary tables are revised on %d %s", a.RevisionDay, time.Month(a.RevisionMonth)))
	}
	start := a.TaxYearStart.OrDefault()
	out = append(out, fmt.Sprintf("Tax years start on %d %s", start.Day, start.Month))
	if !emp.Occupancy.IsZero() {
		out = append(out, "Occupancy "+FormatPercentage(emp.Occupancy)+" of full time")
	}
	return out
}
