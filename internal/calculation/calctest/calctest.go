// Package calctest builds the small set of tables the calculation tests and
// their callers share: the example salary scales, constant USS rates and the
// 2018 NIC table only.
package calctest

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/scales/scalestest"
)

func bound(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// Config returns the tables.
func Config() *domain.TablesConfig {
	uss := []domain.PensionRate{{
		Employer: decimal.RequireFromString("0.18"),
		Employee: decimal.RequireFromString("0.08"),
	}}
	rate := decimal.RequireFromString("0.138")

	return &domain.TablesConfig{
		Metadata:     domain.TablesMetadata{Description: "test tables"},
		SalaryScales: scalestest.Config(),
		PensionSchemes: []domain.PensionSchemeConfig{
			{Scheme: domain.SchemeNone, Rates: []domain.PensionRate{{}}},
			{Scheme: domain.SchemeUSS, Rates: uss},
			{Scheme: domain.SchemeUSSExchange, SalaryExchange: true, Rates: uss},
		},
		NationalInsurance: []domain.NICYearConfig{{
			Year: 2018,
			Bands: []domain.NICBand{
				{Upper: bound("6032"), Rate: decimal.Zero},
				{Upper: bound("8424"), Rate: decimal.Zero},
				{Upper: bound("46350"), Rate: rate},
				{Rate: rate},
			},
		}},
		ApprenticeshipLevyRate: decimal.RequireFromString("0.005"),
	}
}

// Engine returns an engine over Config.
func Engine(t testing.TB) *calculation.Engine {
	t.Helper()
	engine, err := calculation.NewEngine(Config())
	require.NoError(t, err)
	return engine
}
