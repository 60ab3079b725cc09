package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/pension"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/scales"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/tax"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

//go:embed data/tables.yaml
var defaultTables []byte

//go:embed data/example_tables.yaml
var exampleTables []byte

// InputParser handles parsing of table and employment documents
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// DefaultTables returns the tables built into the binary.
func (ip *InputParser) DefaultTables() (*domain.TablesConfig, error) {
	return ip.ParseTables(defaultTables)
}

// ExampleTables returns the small tables used in the documentation: constant
// USS rates and the 2018 NIC bands only.
func (ip *InputParser) ExampleTables() (*domain.TablesConfig, error) {
	return ip.ParseTables(exampleTables)
}

// LoadTables loads tables from a YAML file. An empty filename selects the
// built-in tables.
func (ip *InputParser) LoadTables(filename string) (*domain.TablesConfig, error) {
	if filename == "" {
		return ip.DefaultTables()
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseTables(data)
}

// ParseTables parses and validates a tables document.
func (ip *InputParser) ParseTables(data []byte) (*domain.TablesConfig, error) {
	var cfg domain.TablesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateTables(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ValidateTables checks that every table can be built and that the newest
// salary mapping prices every scale point.
func (ip *InputParser) ValidateTables(cfg *domain.TablesConfig) error {
	if len(cfg.SalaryScales.Grades) == 0 {
		return fmt.Errorf("salary_scales.grades: at least one grade is required")
	}
	table, err := scales.New(cfg.SalaryScales)
	if err != nil {
		return fmt.Errorf("salary_scales: %w", err)
	}
	if err := table.Validate(); err != nil {
		return fmt.Errorf("salary_scales: %w", err)
	}

	if len(cfg.PensionSchemes) == 0 {
		return fmt.Errorf("pension_schemes: at least one scheme is required")
	}
	if _, err := pension.New(cfg.PensionSchemes); err != nil {
		return fmt.Errorf("pension_schemes: %w", err)
	}

	if len(cfg.NationalInsurance) == 0 {
		return fmt.Errorf("national_insurance: at least one tax year is required")
	}
	if _, err := tax.New(cfg.NationalInsurance, cfg.ApprenticeshipLevyRate); err != nil {
		return fmt.Errorf("national_insurance: %w", err)
	}
	return nil
}

// LoadEmployment loads an employment description from a YAML file
func (ip *InputParser) LoadEmployment(filename string) (*domain.Employment, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseEmployment(data)
}

// ParseEmployment parses an employment document, fills in defaults and
// validates it.
func (ip *InputParser) ParseEmployment(data []byte) (*domain.Employment, error) {
	var emp domain.Employment
	if err := yaml.Unmarshal(data, &emp); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	ip.ApplyEmploymentDefaults(&emp)
	if err := ip.ValidateEmployment(&emp); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &emp, nil
}

// ApplyEmploymentDefaults sets full-time occupancy, the default growth
// assumption and the UK tax year where they are missing.
func (ip *InputParser) ApplyEmploymentDefaults(emp *domain.Employment) {
	if emp.Occupancy.IsZero() {
		emp.Occupancy = decimal.NewFromInt(1)
	}
	if emp.Assumptions.AnnualGrowth.IsZero() {
		emp.Assumptions.AnnualGrowth = domain.DefaultAnnualGrowth
	}
	emp.Assumptions.TaxYearStart = emp.Assumptions.TaxYearStart.OrDefault()
}

// ValidateEmployment validates an employment description and normalises
// its grade and scheme names. The point is checked against the scales when
// the employment is costed.
func (ip *InputParser) ValidateEmployment(emp *domain.Employment) error {
	grade, err := domain.ParseGrade(string(emp.Grade))
	if err != nil {
		return fmt.Errorf("grade: %w", err)
	}
	scheme, err := domain.ParseScheme(string(emp.Scheme))
	if err != nil {
		return fmt.Errorf("scheme: %w", err)
	}
	emp.Grade, emp.Scheme = grade, scheme
	if emp.StartDate.IsZero() {
		return fmt.Errorf("start_date is required")
	}
	if emp.UntilDate.IsZero() {
		return fmt.Errorf("until_date is required")
	}
	if !emp.UntilDate.After(emp.StartDate) {
		return fmt.Errorf("until_date (%s) must be after start_date (%s)",
			dateutil.Format(emp.UntilDate), dateutil.Format(emp.StartDate))
	}
	if emp.Occupancy.LessThanOrEqual(decimal.Zero) || emp.Occupancy.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("occupancy must be greater than 0 and at most 1, got %s", emp.Occupancy)
	}
	return ip.validateAssumptions(&emp.Assumptions)
}

func (ip *InputParser) validateAssumptions(a *domain.Assumptions) error {
	if a.AnnualGrowth.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("assumptions.annual_growth must be positive, got %s", a.AnnualGrowth)
	}
	if (a.RevisionMonth == 0) != (a.RevisionDay == 0) {
		return fmt.Errorf("assumptions.revision_month and assumptions.revision_day must be set together")
	}
	if a.RevisionMonth != 0 {
		if err := validMonthDay(time.Month(a.RevisionMonth), a.RevisionDay); err != nil {
			return fmt.Errorf("assumptions.revision: %w", err)
		}
	}
	if err := validMonthDay(a.TaxYearStart.Month, a.TaxYearStart.Day); err != nil {
		return fmt.Errorf("assumptions.tax_year_start: %w", err)
	}
	return nil
}

func validMonthDay(month time.Month, day int) error {
	if month < time.January || month > time.December {
		return fmt.Errorf("month %d is out of range", month)
	}
	// 2001 is not a leap year, so 29 February is rejected.
	if day < 1 || dateutil.Date(2001, month, day).Month() != month {
		return fmt.Errorf("day %d is not in %s", day, month)
	}
	return nil
}
