package calculation

import (
	"fmt"
	"time"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/pension"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/scales"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/tax"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Engine computes on-costs from a set of loaded tables. The tables are never
// modified, so one engine can serve any number of goroutines.
type Engine struct {
	Scales   *scales.Table
	Pensions *pension.Table
	Tax      *tax.Table
	Logger   Logger
	// Now supplies "today" for commitment splits. Defaults to dateutil.Today.
	Now func() time.Time
}

// NewEngine builds the scale, pension and tax tables described by cfg.
func NewEngine(cfg *domain.TablesConfig) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no tables", domain.ErrInvalidArgument)
	}
	scaleTable, err := scales.New(cfg.SalaryScales)
	if err != nil {
		return nil, fmt.Errorf("salary scales: %w", err)
	}
	pensions, err := pension.New(cfg.PensionSchemes)
	if err != nil {
		return nil, fmt.Errorf("pension schemes: %w", err)
	}
	taxes, err := tax.New(cfg.NationalInsurance, cfg.ApprenticeshipLevyRate)
	if err != nil {
		return nil, fmt.Errorf("national insurance: %w", err)
	}
	return NewEngineFromTables(scaleTable, pensions, taxes), nil
}

// NewEngineFromTables wraps tables that have already been built.
func NewEngineFromTables(s *scales.Table, p *pension.Table, t *tax.Table) *Engine {
	return &Engine{
		Scales:   s,
		Pensions: p,
		Tax:      t,
		Logger:   NopLogger{},
		Now:      dateutil.Today,
	}
}

// SetLogger sets the logger. A nil logger restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

func (e *Engine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}

func (e *Engine) today() time.Time {
	if e.Now == nil {
		return dateutil.Today()
	}
	return dateutil.Normalize(e.Now())
}

// LatestTaxYear returns the newest tax year with a NIC table.
func (e *Engine) LatestTaxYear() (int, error) {
	year, ok := e.Tax.LatestYear()
	if !ok {
		return 0, fmt.Errorf("%w: no NIC tables are loaded", domain.ErrUnsupportedTaxYear)
	}
	return year, nil
}

// taxYearFor returns year if it has a NIC table and the latest year otherwise.
func (e *Engine) taxYearFor(year int) (int, error) {
	if e.Tax.Supports(year) {
		return year, nil
	}
	latest, err := e.LatestTaxYear()
	if err != nil {
		return 0, err
	}
	e.logger().Warnf("no NIC table for tax year %d, using %d", year, latest)
	return latest, nil
}
