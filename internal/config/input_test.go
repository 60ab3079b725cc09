package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

func TestExampleTables(t *testing.T) {
	parser := NewInputParser()
	cfg, err := parser.ExampleTables()
	require.NoError(t, err)

	assert.Len(t, cfg.SalaryScales.Grades, 3)
	assert.Len(t, cfg.SalaryScales.Salaries, 3)
	assert.Equal(t, "P6", cfg.SalaryScales.Grades[1].Scale[3].Point)
	assert.True(t, cfg.SalaryScales.Grades[1].Scale[3].IsContribution)
	assert.Nil(t, cfg.NationalInsurance[0].Bands[3].Upper)
	assert.True(t, cfg.ApprenticeshipLevyRate.Equal(decimal.RequireFromString("0.005")))

	engine, err := calculation.NewEngine(cfg)
	require.NoError(t, err)
	cost, err := engine.CalculateCost(25000, domain.SchemeUSS, 2018)
	require.NoError(t, err)
	assert.Equal(t, domain.Cost{Salary: 25000, EmployerPension: 4500, EmployerNIC: 2287, ApprenticeshipLevy: 125, Total: 31912, TaxYear: 2018}, cost)
}

func TestDefaultTables(t *testing.T) {
	parser := NewInputParser()
	cfg, err := parser.DefaultTables()
	require.NoError(t, err)

	engine, err := calculation.NewEngine(cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{2018, 2019}, engine.Tax.Years())

	for _, scheme := range domain.AllSchemes() {
		_, err := engine.Pensions.Schedule(scheme)
		assert.NoError(t, err, "scheme %s", scheme)
	}

	rate, err := engine.Pensions.RateOn(domain.SchemeUSS, dateutil.Date(2019, 10, 1))
	require.NoError(t, err)
	assert.Equal(t, "211/1000", rate.Employer.RatString())

	// Loading with no file name gives the same tables.
	loaded, err := parser.LoadTables("")
	require.NoError(t, err)
	assert.Equal(t, cfg.Metadata, loaded.Metadata)
}

func TestLoadTables(t *testing.T) {
	parser := NewInputParser()

	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, exampleTables, 0o644))
	cfg, err := parser.LoadTables(path)
	require.NoError(t, err)
	assert.Equal(t, "Example tables used in the documentation", cfg.Metadata.Description)

	_, err = parser.LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParseTables_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "malformed",
			yaml: "salary_scales: [",
			want: "failed to parse YAML",
		},
		{
			name: "no grades",
			yaml: "pension_schemes: []",
			want: "salary_scales.grades: at least one grade is required",
		},
		{
			name: "unknown grade",
			yaml: `
salary_scales:
  grades:
    - grade: GRADE_99
      scale: [{name: "1", point: P1}]
  salaries:
    - effectiveDate: 2017-08-01
      mapping: {P1: 1}
`,
			want: "unknown grade",
		},
		{
			name: "unpriced point",
			yaml: `
salary_scales:
  grades:
    - grade: GRADE_1
      scale: [{name: "1", point: P1}, {name: "2", point: P2}]
  salaries:
    - effectiveDate: 2017-08-01
      mapping: {P1: 1}
`,
			want: "P2",
		},
		{
			name: "no pension schemes",
			yaml: `
salary_scales:
  grades:
    - grade: GRADE_1
      scale: [{name: "1", point: P1}]
  salaries:
    - effectiveDate: 2017-08-01
      mapping: {P1: 1}
`,
			want: "pension_schemes: at least one scheme is required",
		},
		{
			name: "no NIC tables",
			yaml: `
salary_scales:
  grades:
    - grade: GRADE_1
      scale: [{name: "1", point: P1}]
  salaries:
    - effectiveDate: 2017-08-01
      mapping: {P1: 1}
pension_schemes:
  - scheme: USS
    rates: [{from: null, employer: "0.18", employee: "0.08"}]
`,
			want: "national_insurance: at least one tax year is required",
		},
		{
			name: "bounded top NIC band",
			yaml: `
salary_scales:
  grades:
    - grade: GRADE_1
      scale: [{name: "1", point: P1}]
  salaries:
    - effectiveDate: 2017-08-01
      mapping: {P1: 1}
pension_schemes:
  - scheme: USS
    rates: [{from: null, employer: "0.18", employee: "0.08"}]
national_insurance:
  - year: 2018
    bands: [{upper: 100, rate: "0.1"}]
`,
			want: "must be unbounded",
		},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseTables([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

const employmentYAML = `
name: Research associate
grade: grade-2
scheme: uss_exchange
start_date: 2015-04-28
until_date: 2018-01-22
next_anniversary_date: 2016-06-01
from_date: 2015-04-28
`

func TestParseEmployment(t *testing.T) {
	parser := NewInputParser()
	emp, err := parser.ParseEmployment([]byte(employmentYAML))
	require.NoError(t, err)

	assert.Equal(t, "Research associate", emp.Name)
	assert.Equal(t, domain.Grade2, emp.Grade)
	assert.Equal(t, domain.SchemeUSSExchange, emp.Scheme)
	assert.Empty(t, emp.Point)
	assert.Equal(t, dateutil.Date(2015, 4, 28), emp.StartDate)
	assert.Equal(t, dateutil.Date(2016, 6, 1), emp.NextAnniversaryDate)
	assert.True(t, emp.Occupancy.Equal(decimal.NewFromInt(1)), "occupancy defaults to full time")
	assert.True(t, emp.Assumptions.AnnualGrowth.Equal(domain.DefaultAnnualGrowth))
	assert.Equal(t, dateutil.UKTaxYearStart, emp.Assumptions.TaxYearStart)
}

func TestParseEmployment_Assumptions(t *testing.T) {
	parser := NewInputParser()
	emp, err := parser.ParseEmployment([]byte(employmentYAML + `
occupancy: "0.5"
point: P4
assumptions:
  annual_growth: "1.03"
  revision_month: 4
  revision_day: 1
  tax_year_start: {month: 1, day: 1}
`))
	require.NoError(t, err)

	assert.Equal(t, "P4", emp.Point)
	assert.True(t, emp.Occupancy.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, emp.Assumptions.AnnualGrowth.Equal(decimal.RequireFromString("1.03")))
	assert.Equal(t, 4, emp.Assumptions.RevisionMonth)
	assert.Equal(t, dateutil.TaxYearStart{Month: time.January, Day: 1}, emp.Assumptions.TaxYearStart)
}

func TestValidateEmployment(t *testing.T) {
	valid := func() *domain.Employment {
		return &domain.Employment{
			Grade:       domain.Grade2,
			Scheme:      domain.SchemeUSS,
			StartDate:   dateutil.Date(2018, 10, 1),
			UntilDate:   dateutil.Date(2021, 9, 30),
			Occupancy:   decimal.NewFromInt(1),
			Assumptions: domain.DefaultAssumptions(),
		}
	}

	tests := []struct {
		name   string
		modify func(*domain.Employment)
		want   string
	}{
		{"unknown grade", func(e *domain.Employment) { e.Grade = "GRADE_0" }, "grade: unknown grade"},
		{"unknown scheme", func(e *domain.Employment) { e.Scheme = "ACME" }, "scheme: unknown pension scheme"},
		{"no start", func(e *domain.Employment) { e.StartDate = time.Time{} }, "start_date is required"},
		{"no end", func(e *domain.Employment) { e.UntilDate = time.Time{} }, "until_date is required"},
		{"ends before start", func(e *domain.Employment) { e.UntilDate = e.StartDate }, "must be after start_date"},
		{"occupancy above one", func(e *domain.Employment) { e.Occupancy = decimal.NewFromInt(2) }, "occupancy"},
		{"negative occupancy", func(e *domain.Employment) { e.Occupancy = decimal.NewFromInt(-1) }, "occupancy"},
		{"negative growth", func(e *domain.Employment) { e.Assumptions.AnnualGrowth = decimal.NewFromInt(-1) }, "annual_growth"},
		{"bad revision day", func(e *domain.Employment) {
			e.Assumptions.RevisionMonth, e.Assumptions.RevisionDay = 2, 30
		}, "assumptions.revision: day 30 is not in February"},
		{"revision month without day", func(e *domain.Employment) {
			e.Assumptions.RevisionMonth, e.Assumptions.RevisionDay = 4, 0
		}, "must be set together"},
		{"revision day without month", func(e *domain.Employment) {
			e.Assumptions.RevisionMonth, e.Assumptions.RevisionDay = 0, 1
		}, "must be set together"},
		{"bad tax year month", func(e *domain.Employment) {
			e.Assumptions.TaxYearStart = dateutil.TaxYearStart{Month: 13, Day: 1}
		}, "assumptions.tax_year_start: month 13 is out of range"},
	}

	parser := NewInputParser()
	require.NoError(t, parser.ValidateEmployment(valid()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := valid()
			tt.modify(emp)
			err := parser.ValidateEmployment(emp)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
