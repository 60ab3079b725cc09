// Package pension holds the dated contribution rates of each pension scheme.
package pension

import (
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/rational"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Rate is a pair of contribution rates as fractions of salary.
type Rate struct {
	Employer *big.Rat
	Employee *big.Rat
}

// Interval is a stretch of time [From, To) with a single rate.
type Interval struct {
	From time.Time
	To   time.Time
	Rate Rate
}

// Days returns the length of the interval.
func (i Interval) Days() int { return dateutil.DaysBetween(i.From, i.To) }

type datedRate struct {
	from time.Time // zero means since the beginning of time
	rate Rate
}

// Schedule is the rate history of one scheme.
type Schedule struct {
	Scheme         domain.Scheme
	Description    string
	SalaryExchange bool
	rates          []datedRate // ascending by from
}

// Table holds every scheme's schedule. It is immutable and safe for concurrent use.
type Table struct {
	order     []domain.Scheme
	schedules map[domain.Scheme]*Schedule
}

// New builds a table from configuration. A NONE scheme with zero rates is
// added when the configuration does not define one.
func New(cfgs []domain.PensionSchemeConfig) (*Table, error) {
	t := &Table{schedules: make(map[domain.Scheme]*Schedule)}

	for _, cfg := range cfgs {
		if _, err := domain.ParseScheme(string(cfg.Scheme)); err != nil {
			return nil, err
		}
		if _, dup := t.schedules[cfg.Scheme]; dup {
			return nil, fmt.Errorf("scheme %s is defined more than once", cfg.Scheme)
		}
		s, err := newSchedule(cfg)
		if err != nil {
			return nil, err
		}
		t.order = append(t.order, cfg.Scheme)
		t.schedules[cfg.Scheme] = s
	}

	if _, ok := t.schedules[domain.SchemeNone]; !ok {
		t.order = append(t.order, domain.SchemeNone)
		t.schedules[domain.SchemeNone] = &Schedule{
			Scheme:      domain.SchemeNone,
			Description: "No pension scheme",
			rates:       []datedRate{{rate: Rate{Employer: rational.Zero(), Employee: rational.Zero()}}},
		}
	}
	return t, nil
}

func newSchedule(cfg domain.PensionSchemeConfig) (*Schedule, error) {
	if len(cfg.Rates) == 0 {
		return nil, fmt.Errorf("scheme %s has no rates", cfg.Scheme)
	}

	s := &Schedule{Scheme: cfg.Scheme, Description: cfg.Description, SalaryExchange: cfg.SalaryExchange}
	undated := 0
	for _, r := range cfg.Rates {
		if err := checkFraction(cfg.Scheme, "employer", r.Employer); err != nil {
			return nil, err
		}
		if err := checkFraction(cfg.Scheme, "employee", r.Employee); err != nil {
			return nil, err
		}
		dr := datedRate{rate: Rate{
			Employer: rational.FromDecimal(r.Employer),
			Employee: rational.FromDecimal(r.Employee),
		}}
		if r.From == nil {
			undated++
		} else {
			dr.from = dateutil.Normalize(*r.From)
		}
		s.rates = append(s.rates, dr)
	}
	if undated > 1 {
		return nil, fmt.Errorf("scheme %s has more than one undated rate", cfg.Scheme)
	}

	slices.SortFunc(s.rates, func(a, b datedRate) int { return a.from.Compare(b.from) })
	for i := 1; i < len(s.rates); i++ {
		if s.rates[i].from.Equal(s.rates[i-1].from) {
			return nil, fmt.Errorf("scheme %s has two rates from %s", cfg.Scheme, dateutil.Format(s.rates[i].from))
		}
	}
	return s, nil
}

func checkFraction(scheme domain.Scheme, which string, d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("scheme %s %s rate %s is not between 0 and 1", scheme, which, d)
	}
	return nil
}

// Schemes returns the configured schemes in table order.
func (t *Table) Schemes() []domain.Scheme {
	return slices.Clone(t.order)
}

// Schedule returns the schedule for scheme.
func (t *Table) Schedule(scheme domain.Scheme) (*Schedule, error) {
	s, ok := t.schedules[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScheme, scheme)
	}
	return s, nil
}

// IsSalaryExchange reports whether employee contributions of scheme are
// paid by salary exchange.
func (t *Table) IsSalaryExchange(scheme domain.Scheme) (bool, error) {
	s, err := t.Schedule(scheme)
	if err != nil {
		return false, err
	}
	return s.SalaryExchange, nil
}

// RateOn returns the rate of scheme in effect on date.
func (t *Table) RateOn(scheme domain.Scheme, date time.Time) (Rate, error) {
	s, err := t.Schedule(scheme)
	if err != nil {
		return Rate{}, err
	}
	return s.RateOn(date)
}

// RatesBetween returns the rates of scheme over [start, end).
func (t *Table) RatesBetween(scheme domain.Scheme, start, end time.Time) ([]Interval, error) {
	s, err := t.Schedule(scheme)
	if err != nil {
		return nil, err
	}
	return s.Between(start, end), nil
}

// RateOn returns the rate in effect on date.
func (s *Schedule) RateOn(date time.Time) (Rate, error) {
	date = dateutil.Normalize(date)
	for i := len(s.rates) - 1; i >= 0; i-- {
		if !s.rates[i].from.After(date) {
			return s.rates[i].rate, nil
		}
	}
	return Rate{}, fmt.Errorf("%w: no %s rate in effect on %s", domain.ErrInconsistentRates, s.Scheme, dateutil.Format(date))
}

// Between splits [start, end) at every rate change. Parts of the range
// before the first rate are left out, so the intervals only cover the
// whole range when the schedule does.
func (s *Schedule) Between(start, end time.Time) []Interval {
	start, end = dateutil.Normalize(start), dateutil.Normalize(end)
	var out []Interval
	for i, r := range s.rates {
		from := r.from
		to := end
		if i+1 < len(s.rates) {
			to = dateutil.Min(end, s.rates[i+1].from)
		}
		from = dateutil.Max(from, start)
		if from.Before(to) {
			out = append(out, Interval{From: from, To: to, Rate: r.rate})
		}
	}
	return out
}
