package progression

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/merge"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/scales/scalestest"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

type row struct {
	date   time.Time
	reason string
	grade  domain.Grade
	point  string
	salary int64
	table  time.Time
}

func rowsOf(records []domain.SalaryRecord) []row {
	out := make([]row, len(records))
	for i, r := range records {
		out[i] = row{r.Date, r.Reason, r.Grade, r.Point, r.BaseSalary, r.MappingTableDate}
	}
	return out
}

func d(y int, m time.Month, day int) time.Time { return dateutil.Date(y, m, day) }

func TestSalaryProgressionWorkedExample(t *testing.T) {
	table := scalestest.Table()
	start, err := table.StartingPointForGrade(domain.Grade2)
	require.NoError(t, err)

	records, err := Collect(SalaryProgression(table, d(2016, 1, 1), domain.Grade2, start, Options{
		NextAnniversaryDate: d(2016, 6, 1),
		Until:               d(2018, 9, 1),
	}))
	require.NoError(t, err)

	assert.Equal(t, []row{
		{d(2016, 1, 1), "set salary", domain.Grade2, "P3", 14539, d(2015, 8, 1)},
		{d(2016, 6, 1), "anniversary: point P3 to P4", domain.Grade2, "P4", 14818, d(2015, 8, 1)},
		{d(2016, 8, 1), "new salary table", domain.Grade2, "P4", 15052, d(2016, 8, 1)},
		{d(2017, 6, 1), "anniversary: point P4 to P5", domain.Grade2, "P5", 15356, d(2016, 8, 1)},
		{d(2017, 8, 1), "new salary table", domain.Grade2, "P5", 15721, d(2017, 8, 1)},
		{d(2018, 8, 1), "new salary table (approximate)", domain.Grade2, "P5", 16035, d(2018, 8, 1)},
	}, rowsOf(records))
}

func TestSalaryProgressionLongRun(t *testing.T) {
	records, err := Collect(SalaryProgression(scalestest.Table(), d(2016, 1, 1), domain.Grade2, "P3", Options{
		NextAnniversaryDate: d(2016, 6, 1),
		Until:               d(2023, 1, 1),
	}))
	require.NoError(t, err)
	require.Len(t, records, 10)

	var salaries []int64
	for _, r := range records[5:] {
		salaries = append(salaries, r.BaseSalary)
	}
	assert.Equal(t, []int64{16035, 16356, 16683, 17017, 17357}, salaries)
}

func TestSalaryProgressionKeepNullChanges(t *testing.T) {
	records, err := Collect(SalaryProgression(scalestest.Table(), d(2016, 1, 1), domain.Grade2, "P3", Options{
		NextAnniversaryDate: d(2016, 6, 1),
		Until:               d(2018, 9, 1),
		KeepNullChanges:     true,
	}))
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, "anniversary: no increment", records[5].Reason)
	assert.Equal(t, records[4].BaseSalary, records[5].BaseSalary)
}

func TestSalaryProgressionNeverRepeatsASalary(t *testing.T) {
	records, err := Collect(SalaryProgression(scalestest.Table(), d(2015, 9, 1), domain.Grade1, "P1", Options{
		NextAnniversaryDate: d(2015, 10, 1),
		Until:               d(2030, 1, 1),
	}))
	require.NoError(t, err)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].Salary().Equal(records[i-1].Salary()), "record %d repeats %v", i, records[i])
	}
}

func TestSalaryProgressionWithPromotion(t *testing.T) {
	promotion := SetSalary(d(2017, 3, 1), domain.Grade3, "P6", "promotion")

	records, err := Collect(SalaryProgression(scalestest.Table(), d(2016, 1, 1), domain.Grade2, "P3", Options{
		NextAnniversaryDate: d(2016, 6, 1),
		Until:               d(2018, 9, 1),
		ExtraChanges:        []Changes{promotion},
	}))
	require.NoError(t, err)

	assert.Equal(t, []row{
		{d(2016, 1, 1), "set salary", domain.Grade2, "P3", 14539, d(2015, 8, 1)},
		{d(2016, 6, 1), "anniversary: point P3 to P4", domain.Grade2, "P4", 14818, d(2015, 8, 1)},
		{d(2016, 8, 1), "new salary table", domain.Grade2, "P4", 15052, d(2016, 8, 1)},
		{d(2017, 3, 1), "promotion", domain.Grade3, "P6", 15670, d(2016, 8, 1)},
		{d(2017, 6, 1), "anniversary: point P6 to P7", domain.Grade3, "P7", 15976, d(2016, 8, 1)},
		{d(2017, 8, 1), "new salary table", domain.Grade3, "P7", 16341, d(2017, 8, 1)},
		{d(2018, 8, 1), "new salary table (approximate)", domain.Grade3, "P7", 16668, d(2018, 8, 1)},
	}, rowsOf(records))
}

func TestSalaryProgressionSameDayTableWins(t *testing.T) {
	records, err := Collect(SalaryProgression(scalestest.Table(), d(2016, 8, 1), domain.Grade2, "P3", Options{
		Until: d(2017, 1, 1),
	}))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(14767), records[0].BaseSalary, "2016 table applies to a same-day assignment")
	assert.Equal(t, "set salary", records[0].Reason)
}

func TestSalaryProgressionAdvancesEarlyAnniversary(t *testing.T) {
	records, err := Collect(SalaryProgression(scalestest.Table(), d(2016, 1, 1), domain.Grade2, "P3", Options{
		NextAnniversaryDate: d(2013, 6, 1),
		Until:               d(2016, 7, 1),
	}))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, d(2016, 6, 1), records[1].Date)
	assert.Equal(t, "anniversary: point P3 to P4", records[1].Reason)
}

func TestSalaryProgressionErrors(t *testing.T) {
	table := scalestest.Table()

	_, err := Collect(SalaryProgression(table, d(2016, 1, 1), domain.Grade9, "P1", Options{}))
	assert.ErrorIs(t, err, domain.ErrUnknownGrade)

	_, err = Collect(SalaryProgression(table, d(2016, 1, 1), domain.Grade2, "P1", Options{}))
	assert.ErrorIs(t, err, domain.ErrPointNotInGrade)

	_, err = Collect(SalaryProgression(table, time.Time{}, domain.Grade2, "P3", Options{}))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestMappingTablesExtrapolation(t *testing.T) {
	var got []merge.Dated[Mapping]
	for m := range MappingTables(scalestest.Table(), d(2017, 9, 1), TableOptions{}) {
		got = append(got, m)
		if len(got) == 3 {
			break
		}
	}

	require.Len(t, got, 3)
	assert.Equal(t, d(2017, 8, 1), got[0].Date)
	assert.False(t, got[0].Value.Approximate)
	assert.Equal(t, d(2018, 8, 1), got[1].Date)
	assert.True(t, got[1].Value.Approximate)
	assert.Equal(t, int64(15429), got[1].Value.Salaries["P3"])

	// Two years on is 15126 * 1.02^2 rounded once, not rounded twice.
	assert.Equal(t, int64(15737), got[2].Value.Salaries["P3"])
	assert.Equal(t, int64(16356), got[2].Value.Salaries["P5"])
}

func TestMappingTablesBeforeKnownTables(t *testing.T) {
	var first merge.Dated[Mapping]
	for m := range MappingTables(scalestest.Table(), d(2015, 5, 1), TableOptions{}) {
		first = m
		break
	}
	assert.Equal(t, d(2014, 8, 1), first.Date)
	assert.True(t, first.Value.Approximate)
	assert.Equal(t, int64(14254), first.Value.Salaries["P3"])
}

func TestMappingTablesOptions(t *testing.T) {
	var got []merge.Dated[Mapping]
	opts := TableOptions{AnnualGrowth: big.NewRat(1, 1), RevisionMonth: time.April, RevisionDay: 1}
	for m := range MappingTables(scalestest.Table(), d(2018, 3, 1), opts) {
		got = append(got, m)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, d(2017, 4, 1), got[0].Date)
	assert.Equal(t, d(2018, 4, 1), got[1].Date)
	assert.Equal(t, int64(15721), got[1].Value.Salaries["P5"], "flat growth keeps the newest table")
}

func TestAnniversaryIncrements(t *testing.T) {
	table := scalestest.Table()
	var dates []time.Time
	salary := domain.Salary{Grade: domain.Grade1, Point: "P1"}
	var reasons []string
	for c := range AnniversaryIncrements(table, d(2016, 2, 29)) {
		next, reason, err := c.Value(salary)
		require.NoError(t, err)
		salary = next
		dates = append(dates, c.Date)
		reasons = append(reasons, reason)
		if len(dates) == 4 {
			break
		}
	}

	assert.Equal(t, []time.Time{d(2016, 2, 29), d(2017, 3, 1), d(2018, 3, 1), d(2019, 3, 1)}, dates)
	assert.Equal(t, []string{
		"anniversary: point P1 to P2",
		"anniversary: point P2 to P3",
		"anniversary: no increment",
		"anniversary: no increment",
	}, reasons)
}

func TestAnniversaryBeforeSalaryIsSet(t *testing.T) {
	for c := range AnniversaryIncrements(scalestest.Table(), d(2016, 6, 1)) {
		_, _, err := c.Value(domain.Salary{})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		break
	}
}

func TestUntil(t *testing.T) {
	_, err := Until(time.Time{}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	resolved := MapGradeAndPoints(scalestest.Table(), SetSalary(d(2016, 1, 1), domain.Grade2, "P3", ""), TableOptions{})
	bounded, err := Until(d(2016, 8, 1), resolved)
	require.NoError(t, err)

	var dates []time.Time
	for c, err := range bounded {
		require.NoError(t, err)
		dates = append(dates, c.Date)
	}
	assert.Equal(t, []time.Time{d(2016, 1, 1)}, dates, "the 1 August table is excluded")
}

func TestFoldWithoutElision(t *testing.T) {
	// Every input event gives exactly one record.
	resolved := MapGradeAndPoints(scalestest.Table(), ComposeChanges(
		SetSalary(d(2016, 1, 1), domain.Grade2, "P3", ""),
		SetSalary(d(2016, 2, 1), domain.Grade2, "P3", "again"),
	), TableOptions{})
	bounded, err := Until(d(2016, 8, 1), resolved)
	require.NoError(t, err)

	kept, err := Collect(Fold(bounded, domain.Salary{}, false))
	require.NoError(t, err)
	assert.Len(t, kept, 2)

	bounded, err = Until(d(2016, 8, 1), resolved)
	require.NoError(t, err)
	elided, err := Collect(Fold(bounded, domain.Salary{}, true))
	require.NoError(t, err)
	assert.Len(t, elided, 1)
}

func TestMapGradeAndPointsEmpty(t *testing.T) {
	count := 0
	for range MapGradeAndPoints(scalestest.Table(), ComposeChanges(), TableOptions{}) {
		count++
	}
	assert.Zero(t, count)
}

func TestComposeChangesTieBreak(t *testing.T) {
	first := SetSalary(d(2017, 6, 1), domain.Grade2, "P3", "first")
	second := SetSalary(d(2017, 6, 1), domain.Grade2, "P4", "second")

	var reasons []string
	for c := range ComposeChanges(first, second) {
		_, reason, err := c.Value(domain.Salary{})
		require.NoError(t, err)
		reasons = append(reasons, reason)
	}
	assert.Equal(t, []string{"first", "second"}, reasons)
}
