// Package tax computes employer National Insurance and the apprenticeship levy.
package tax

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/rational"
)

// Band charges Rate on the part of a salary below Upper and above the
// previous band. A nil Upper means the band has no ceiling.
type Band struct {
	Upper *big.Rat
	Rate  *big.Rat
}

// Table holds the NIC bands of each supported tax year and the levy rate.
type Table struct {
	years    map[int][]Band
	levyRate *big.Rat
}

// New builds a table. Every year needs at least one band, bounds must rise,
// and only the last band may be (and must be) unbounded.
func New(nic []domain.NICYearConfig, levyRate decimal.Decimal) (*Table, error) {
	if levyRate.IsNegative() || levyRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("apprenticeship levy rate %s is not between 0 and 1", levyRate)
	}

	t := &Table{years: make(map[int][]Band, len(nic)), levyRate: rational.FromDecimal(levyRate)}
	for _, year := range nic {
		if _, dup := t.years[year.Year]; dup {
			return nil, fmt.Errorf("NIC table for %d is defined more than once", year.Year)
		}
		bands, err := newBands(year)
		if err != nil {
			return nil, err
		}
		t.years[year.Year] = bands
	}
	return t, nil
}

func newBands(cfg domain.NICYearConfig) ([]Band, error) {
	if len(cfg.Bands) == 0 {
		return nil, fmt.Errorf("NIC table for %d has no bands", cfg.Year)
	}

	bands := make([]Band, 0, len(cfg.Bands))
	previous := rational.Zero()
	for i, b := range cfg.Bands {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("NIC %d band %d: rate %s is not between 0 and 1", cfg.Year, i+1, b.Rate)
		}
		last := i == len(cfg.Bands)-1
		band := Band{Rate: rational.FromDecimal(b.Rate)}
		switch {
		case b.Upper == nil && !last:
			return nil, fmt.Errorf("NIC %d band %d: only the last band may be unbounded", cfg.Year, i+1)
		case b.Upper != nil && last:
			return nil, fmt.Errorf("NIC %d: the last band must be unbounded", cfg.Year)
		case b.Upper != nil:
			band.Upper = rational.FromDecimal(*b.Upper)
			if band.Upper.Cmp(previous) < 0 {
				return nil, fmt.Errorf("NIC %d band %d: upper bound %s is below the previous band", cfg.Year, i+1, b.Upper)
			}
			previous = band.Upper
		}
		bands = append(bands, band)
	}
	return bands, nil
}

// Years returns the supported tax years in ascending order.
func (t *Table) Years() []int {
	years := make([]int, 0, len(t.years))
	for y := range t.years {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// LatestYear returns the newest supported tax year, or false if there are none.
func (t *Table) LatestYear() (int, bool) {
	years := t.Years()
	if len(years) == 0 {
		return 0, false
	}
	return years[len(years)-1], true
}

// Supports reports whether year has a NIC table.
func (t *Table) Supports(year int) bool {
	_, ok := t.years[year]
	return ok
}

// Bands returns the NIC bands for year.
func (t *Table) Bands(year int) ([]Band, error) {
	bands, ok := t.years[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnsupportedTaxYear, year)
	}
	return bands, nil
}

// EmployerNIC returns the unrounded employer contribution on salary in year.
func (t *Table) EmployerNIC(year int, salary *big.Rat) (*big.Rat, error) {
	bands, err := t.Bands(year)
	if err != nil {
		return nil, err
	}

	total := rational.Zero()
	lower := rational.Zero()
	for _, band := range bands {
		if salary.Cmp(lower) <= 0 {
			break
		}
		top := salary
		if band.Upper != nil {
			top = rational.Min(salary, band.Upper)
		}
		total.Add(total, rational.Mul(rational.Sub(top, lower), band.Rate))
		if band.Upper == nil {
			break
		}
		lower = band.Upper
	}
	return total, nil
}

// LevyRate returns the apprenticeship levy rate.
func (t *Table) LevyRate() *big.Rat {
	return new(big.Rat).Set(t.levyRate)
}

// ApprenticeshipLevy returns the levy on salary, rounded down to whole pounds.
func (t *Table) ApprenticeshipLevy(salary *big.Rat) int64 {
	return rational.Floor(rational.Mul(salary, t.levyRate))
}
