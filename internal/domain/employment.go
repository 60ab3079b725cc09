package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Employment describes one post for the CLI and HTTP API.
type Employment struct {
	Name   string `yaml:"name" json:"name"`
	Grade  Grade  `yaml:"grade" json:"grade"`
	Point  string `yaml:"point,omitempty" json:"point,omitempty"` // defaults to the grade's starting point
	Scheme Scheme `yaml:"scheme" json:"scheme"`

	StartDate           time.Time `yaml:"start_date" json:"start_date"`
	UntilDate           time.Time `yaml:"until_date" json:"until_date"`
	NextAnniversaryDate time.Time `yaml:"next_anniversary_date,omitempty" json:"next_anniversary_date,omitempty"`
	// FromDate splits spent from committed money. Zero means today.
	FromDate time.Time `yaml:"from_date,omitempty" json:"from_date,omitempty"`

	Occupancy   decimal.Decimal `yaml:"occupancy" json:"occupancy"`
	Assumptions Assumptions     `yaml:"assumptions" json:"assumptions"`
}

// Assumptions tune the projection of salaries beyond the known tables.
type Assumptions struct {
	// AnnualGrowth multiplies the latest known salary table once per year.
	AnnualGrowth decimal.Decimal `yaml:"annual_growth" json:"annual_growth"`
	// RevisionMonth and RevisionDay override the date salary tables change.
	RevisionMonth int                   `yaml:"revision_month,omitempty" json:"revision_month,omitempty"`
	RevisionDay   int                   `yaml:"revision_day,omitempty" json:"revision_day,omitempty"`
	TaxYearStart  dateutil.TaxYearStart `yaml:"tax_year_start" json:"tax_year_start"`
}

// DefaultAnnualGrowth is the assumed yearly salary table uplift.
var DefaultAnnualGrowth = decimal.RequireFromString("1.02")

// DefaultAssumptions returns the assumptions used when none are given.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		AnnualGrowth: DefaultAnnualGrowth,
		TaxYearStart: dateutil.UKTaxYearStart,
	}
}
