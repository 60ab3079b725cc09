package calculation_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation/calctest"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
)

// The employee's next anniversary is 1 June 2016; the contract runs from 400
// days before that for 1000 days.
var (
	contractStart = d(2016, 6, 1).AddDate(0, 0, -400)
	contractEnd   = contractStart.AddDate(0, 0, 1000)
)

func commitmentOptions(from time.Time) calculation.CommitmentOptions {
	return calculation.CommitmentOptions{
		CostOptions: calculation.CostOptions{NextAnniversaryDate: d(2016, 6, 1)},
		FromDate:    from,
	}
}

func TestEmploymentExpenditureAndCommitments(t *testing.T) {
	engine := calctest.Engine(t)
	require.Equal(t, d(2015, 4, 28), contractStart)
	require.Equal(t, d(2018, 1, 22), contractEnd)

	got, err := engine.EmploymentExpenditureAndCommitments(contractEnd, domain.Grade2, "P3", domain.SchemeUSSExchange, commitmentOptions(contractStart))
	require.NoError(t, err)

	assert.Equal(t, int64(0), got.TotalExpenditure)
	assert.Equal(t, int64(50146), got.TotalCommitment)

	require.Len(t, got.Explanations, 3)
	for i, want := range []struct {
		year   int
		salary int64
		total  int64
	}{
		{2015, 13591, 16663},
		{2016, 14934, 18423},
		{2017, 12370, 15060},
	} {
		e := got.Explanations[i]
		assert.Equal(t, want.year, e.TaxYear)
		assert.Equal(t, want.salary, e.Salary)
		assert.Equal(t, want.salary, e.SalaryToCome)
		assert.Equal(t, want.total, e.Commitment)
		assert.Equal(t, want.total, e.Cost.Total)
	}
}

func TestEmploymentExpenditureAndCommitments_HalfTime(t *testing.T) {
	engine := calctest.Engine(t)
	opts := commitmentOptions(contractStart)
	opts.Occupancy = big.NewRat(1, 2)

	got, err := engine.EmploymentExpenditureAndCommitments(contractEnd, domain.Grade2, "P3", domain.SchemeUSSExchange, opts)
	require.NoError(t, err)

	assert.Equal(t, int64(0), got.TotalExpenditure)
	// Employer costs are not linear in salary, so this is not half of 50146.
	assert.Equal(t, int64(24221), got.TotalCommitment)
	assert.Equal(t, int64(6796), got.Explanations[0].Salary)
}

func TestEmploymentExpenditureAndCommitments_PartlySpent(t *testing.T) {
	engine := calctest.Engine(t)
	opts := commitmentOptions(d(2017, 1, 1))
	opts.StartDate = contractStart

	got, err := engine.EmploymentExpenditureAndCommitments(contractEnd, domain.Grade2, "P3", domain.SchemeUSSExchange, opts)
	require.NoError(t, err)

	assert.Equal(t, int64(30253), got.TotalExpenditure)
	assert.Equal(t, int64(19893), got.TotalCommitment)
	assert.Equal(t, int64(50146), got.TotalExpenditure+got.TotalCommitment)

	require.Len(t, got.Explanations, 3)
	assert.Equal(t, domain.CommitmentExplanation{
		TaxYear:      2016,
		Salary:       14934,
		SalaryToCome: 3918,
		Expenditure:  13590,
		Commitment:   4833,
		Salaries:     got.Explanations[1].Salaries,
		Cost:         got.Explanations[1].Cost,
	}, got.Explanations[1])
	assert.Equal(t, int64(16663), got.Explanations[0].Expenditure)
	assert.Equal(t, int64(0), got.Explanations[0].Commitment)
}

func TestEmploymentExpenditureAndCommitments_StartsInTaxYearOfFromDate(t *testing.T) {
	engine := calctest.Engine(t)
	got, err := engine.EmploymentExpenditureAndCommitments(contractEnd, domain.Grade2, "P3", domain.SchemeUSSExchange, commitmentOptions(d(2016, 1, 1)))
	require.NoError(t, err)

	require.NotEmpty(t, got.Explanations)
	assert.Equal(t, 2015, got.Explanations[0].TaxYear, "labelled with the tax year, not the calendar year")
	assert.Equal(t, d(2016, 1, 1), got.Explanations[0].Salaries[0].Date)
	assert.Equal(t, int64(38001), got.TotalCommitment)
}

func TestEmploymentExpenditureAndCommitments_DefaultsToToday(t *testing.T) {
	engine := calctest.Engine(t)
	engine.Now = func() time.Time { return time.Date(2017, 1, 1, 15, 30, 0, 0, time.UTC) }

	opts := commitmentOptions(time.Time{})
	opts.StartDate = contractStart
	got, err := engine.EmploymentExpenditureAndCommitments(contractEnd, domain.Grade2, "P3", domain.SchemeUSSExchange, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(30253), got.TotalExpenditure)
}

func TestEmploymentExpenditureAndCommitments_ZeroSalary(t *testing.T) {
	engine := calctest.Engine(t)
	opts := commitmentOptions(contractStart)
	opts.Occupancy = new(big.Rat)

	got, err := engine.EmploymentExpenditureAndCommitments(contractEnd, domain.Grade2, "P3", domain.SchemeUSSExchange, opts)
	require.NoError(t, err)
	assert.Zero(t, got.TotalCommitment)
	assert.Zero(t, got.TotalExpenditure)
	assert.Len(t, got.Explanations, 3)
}

func TestEmploymentExpenditureAndCommitments_Errors(t *testing.T) {
	engine := calctest.Engine(t)

	_, err := engine.EmploymentExpenditureAndCommitments(time.Time{}, domain.Grade2, "P3", domain.SchemeUSS, commitmentOptions(contractStart))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = engine.EmploymentExpenditureAndCommitments(contractEnd, domain.Grade2, "P9", domain.SchemeUSS, commitmentOptions(contractStart))
	assert.ErrorIs(t, err, domain.ErrPointNotInGrade)
}
