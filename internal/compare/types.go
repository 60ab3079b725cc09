package compare

import (
	"github.com/shopspring/decimal"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/output"
)

// YearTotal is the total cost of one tax year under a scheme.
type YearTotal struct {
	Year  int   `json:"year"`
	Total int64 `json:"total"`
}

// ComparisonResult is the cost of an employment under one pension scheme.
type ComparisonResult struct {
	Scheme         domain.Scheme `json:"scheme"`
	Description    string        `json:"description"`
	SalaryExchange bool          `json:"salaryExchange"`

	// Totals over the whole employment
	Salary             int64       `json:"salary"`
	Exchange           int64       `json:"exchange"`
	EmployerPension    int64       `json:"employerPension"`
	EmployerNIC        int64       `json:"employerNic"`
	ApprenticeshipLevy int64       `json:"apprenticeshipLevy"`
	TotalCost          int64       `json:"totalCost"`
	Years              []YearTotal `json:"years"`

	// Comparison to base
	CostDiffFromBase int64           `json:"costDiffFromBase"`
	CostPctFromBase  decimal.Decimal `json:"costPctFromBase"`
	NICDiffFromBase  int64           `json:"nicDiffFromBase"`
}

// ComparisonSet is the cost of an employment under a base scheme and each
// alternative.
type ComparisonSet struct {
	Employment         string             `json:"employment"`
	BaseScheme         domain.Scheme      `json:"baseScheme"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	TablesPath         string             `json:"tablesPath,omitempty"`
}

// MetricsCalculator condenses per-year costs into comparison metrics.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics totals the yearly costs of one scheme.
func (mc *MetricsCalculator) CalculateMetrics(scheme domain.Scheme, years []domain.YearCost) ComparisonResult {
	result := ComparisonResult{Scheme: scheme, Years: make([]YearTotal, 0, len(years))}
	for _, y := range years {
		result.Salary += y.Cost.Salary
		result.Exchange += y.Cost.Exchange
		result.EmployerPension += y.Cost.EmployerPension
		result.EmployerNIC += y.Cost.EmployerNIC
		result.ApprenticeshipLevy += y.Cost.ApprenticeshipLevy
		result.TotalCost += y.Cost.Total
		result.Years = append(result.Years, YearTotal{Year: y.Year, Total: y.Cost.Total})
	}
	return result
}

// CalculateComparison fills in the differences between scenario and base.
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.CostDiffFromBase = scenario.TotalCost - base.TotalCost
	scenario.NICDiffFromBase = scenario.EmployerNIC - base.EmployerNIC
	scenario.CostPctFromBase = decimal.Zero
	if base.TotalCost != 0 {
		scenario.CostPctFromBase = decimal.NewFromInt(scenario.CostDiffFromBase).
			Div(decimal.NewFromInt(base.TotalCost)).
			Mul(decimal.NewFromInt(100))
	}
	return scenario
}

// GenerateRecommendations points out the cheapest and dearest schemes and the
// largest employer NIC saving relative to the base.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	cheapest, dearest, lowestNIC := base, base, base
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalCost < cheapest.TotalCost {
			cheapest = alt
		}
		if alt.TotalCost > dearest.TotalCost {
			dearest = alt
		}
		if alt.EmployerNIC < lowestNIC.EmployerNIC {
			lowestNIC = alt
		}
	}

	if cheapest != base {
		recommendations = append(recommendations,
			"Lowest cost: "+string(cheapest.Scheme)+" costs "+output.FormatPounds(base.TotalCost-cheapest.TotalCost)+
				" less than "+string(base.Scheme))
	}
	if dearest != base {
		recommendations = append(recommendations,
			"Highest cost: "+string(dearest.Scheme)+" costs "+output.FormatPounds(dearest.TotalCost-base.TotalCost)+
				" more than "+string(base.Scheme))
	}
	if lowestNIC != base {
		recommendations = append(recommendations,
			"Lowest employer NIC: "+string(lowestNIC.Scheme)+" saves "+output.FormatPounds(base.EmployerNIC-lowestNIC.EmployerNIC)+
				" in employer NIC")
	}
	return recommendations
}
