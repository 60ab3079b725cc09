package compare

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
)

func buildTestComparisonSet() *ComparisonSet {
	return &ComparisonSet{
		Employment: "Research assistant",
		BaseScheme: domain.SchemeUSSExchange,
		TablesPath: "/path/to/tables.yaml",
		BaseResult: &ComparisonResult{
			Scheme:             domain.SchemeUSSExchange,
			SalaryExchange:     true,
			Salary:             40895,
			Exchange:           -3272,
			EmployerPension:    10633,
			EmployerNIC:        1704,
			ApprenticeshipLevy: 186,
			TotalCost:          50146,
		},
		AlternativeResults: []ComparisonResult{
			{
				Scheme:             domain.SchemeNone,
				Salary:             40895,
				EmployerNIC:        2156,
				ApprenticeshipLevy: 202,
				TotalCost:          43253,
				CostDiffFromBase:   -6893,
				CostPctFromBase:    decimal.RequireFromString("-13.7458"),
				NICDiffFromBase:    452,
			},
		},
		Recommendations: []string{"Lowest cost: NONE costs £6,893 less than USS_EXCHANGE"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	result := (&TableFormatter{}).Format(buildTestComparisonSet())

	assert.Contains(t, result, "PENSION SCHEME COMPARISON")
	assert.Contains(t, result, "Employment:  Research assistant")
	assert.Contains(t, result, "Base Scheme: USS_EXCHANGE")
	assert.Contains(t, result, "Tables:      /path/to/tables.yaml")
	assert.Contains(t, result, "USS_EXCHANGE (base)")
	assert.Contains(t, result, "£7,361", "net pension cost of the base")
	assert.Contains(t, result, "£50,146")
	assert.Contains(t, result, "Total Cost:    -£6,893 (-13.7%)")
	assert.Contains(t, result, "Employer NIC:  +£452")
	assert.Contains(t, result, "RECOMMENDATIONS")
	assert.Contains(t, result, "• Lowest cost: NONE")
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	compSet := buildTestComparisonSet()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil

	result := (&TableFormatter{}).Format(compSet)

	assert.Contains(t, result, "USS_EXCHANGE (base)")
	assert.NotContains(t, result, "COMPARISON TO BASE")
	assert.NotContains(t, result, "RECOMMENDATIONS")
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	compSet := buildTestComparisonSet()
	compSet.AlternativeResults = append(compSet.AlternativeResults,
		ComparisonResult{Scheme: domain.SchemeUSS, CostDiffFromBase: 468},
		ComparisonResult{Scheme: domain.SchemeMRC},
	)

	result := (&TableFormatter{}).FormatCompact(compSet)

	assert.Equal(t, "Base: USS_EXCHANGE | NONE: -£6,893 | USS: +£468 | MRC: =", result)
}

func TestCSVFormatter_Format(t *testing.T) {
	result, err := (&CSVFormatter{}).Format(buildTestComparisonSet())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(result), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Scheme,Type,Salary Exchange,Salary,Exchange,Employer Pension,Employer NIC,Apprenticeship Levy,Total Cost,Cost Diff from Base,Cost % Change,NIC Diff from Base", lines[0])
	assert.Equal(t, "USS_EXCHANGE,base,true,40895,-3272,10633,1704,186,50146,0,0.00,0", lines[1])
	assert.Equal(t, "NONE,alternative,false,40895,0,0,2156,202,43253,-6893,-13.75,452", lines[2])
}

func TestJSONFormatter_Format(t *testing.T) {
	compact, err := (&JSONFormatter{}).Format(buildTestComparisonSet())
	require.NoError(t, err)
	assert.Contains(t, compact, `"baseScheme":"USS_EXCHANGE"`)
	assert.Contains(t, compact, `"totalCost":50146`)
	assert.Contains(t, compact, `"costPctFromBase":"-13.7458"`)
	assert.NotContains(t, compact, "\n")

	pretty, err := (&JSONFormatter{Pretty: true}).Format(buildTestComparisonSet())
	require.NoError(t, err)
	assert.Contains(t, pretty, "\n  \"employment\": \"Research assistant\"")
}
