package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TablesConfig is the static data the calculator runs on. It is loaded from
// tables.yaml and is read-only once the engine has been built.
type TablesConfig struct {
	Metadata               TablesMetadata        `yaml:"metadata" json:"metadata"`
	SalaryScales           SalaryScalesConfig    `yaml:"salary_scales" json:"salary_scales"`
	PensionSchemes         []PensionSchemeConfig `yaml:"pension_schemes" json:"pension_schemes"`
	NationalInsurance      []NICYearConfig       `yaml:"national_insurance" json:"national_insurance"`
	ApprenticeshipLevyRate decimal.Decimal       `yaml:"apprenticeship_levy_rate" json:"apprenticeship_levy_rate"`
}

// TablesMetadata describes where the tables came from.
type TablesMetadata struct {
	Description string `yaml:"description" json:"description"`
	Source      string `yaml:"source" json:"source"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
}

// SalaryScalesConfig keeps the field names produced by the salary table
// converters.
type SalaryScalesConfig struct {
	Grades   []GradeScaleConfig `yaml:"grades" json:"grades"`
	Salaries []SalaryMapping    `yaml:"salaries" json:"salaries"`
}

// GradeScaleConfig is the ordered scale of one grade.
type GradeScaleConfig struct {
	Grade Grade        `yaml:"grade" json:"grade"`
	Scale []ScalePoint `yaml:"scale" json:"scale"`
}

// PensionSchemeConfig is the dated rate schedule of one scheme.
type PensionSchemeConfig struct {
	Scheme         Scheme        `yaml:"scheme" json:"scheme"`
	Description    string        `yaml:"description,omitempty" json:"description,omitempty"`
	SalaryExchange bool          `yaml:"salary_exchange" json:"salary_exchange"`
	Rates          []PensionRate `yaml:"rates" json:"rates"`
}

// PensionRate applies from From until the next rate of the scheme. A nil
// From means "since the beginning of time".
type PensionRate struct {
	From     *time.Time      `yaml:"from" json:"from"`
	Employer decimal.Decimal `yaml:"employer" json:"employer"`
	Employee decimal.Decimal `yaml:"employee" json:"employee"`
}

// NICYearConfig holds the employer NIC bands for one tax year.
type NICYearConfig struct {
	Year  int       `yaml:"year" json:"year"`
	Bands []NICBand `yaml:"bands" json:"bands"`
}

// NICBand charges Rate on salary up to Upper. A nil Upper is the top band.
type NICBand struct {
	Upper *decimal.Decimal `yaml:"upper" json:"upper"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}
