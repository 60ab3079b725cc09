package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrade(t *testing.T) {
	tests := []struct {
		in   string
		want Grade
	}{
		{"GRADE_2", Grade2},
		{"grade_2", Grade2},
		{"grade-12-band-1", Grade12Band1},
		{" clinical consultant ", ClinicalConsultant},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			g, err := ParseGrade(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
		})
	}

	_, err := ParseGrade("GRADE_13")
	assert.True(t, errors.Is(err, ErrUnknownGrade))
	assert.Contains(t, err.Error(), "GRADE_13")
}

func TestGradeIsValid(t *testing.T) {
	assert.True(t, Grade7.IsValid())
	assert.False(t, Grade("GRADE_0").IsValid())
	assert.Len(t, AllGrades(), 19)
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("uss-exchange")
	require.NoError(t, err)
	assert.Equal(t, SchemeUSSExchange, s)

	_, err = ParseScheme("TPS")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestSalaryEqual(t *testing.T) {
	asOf := time.Date(2016, 8, 1, 0, 0, 0, 0, time.UTC)
	a := Salary{Grade: Grade2, Point: "P3"}.WithBase(14767, asOf)
	b := Salary{Grade: Grade2, Point: "P3"}.WithBase(14767, asOf)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Salary{Grade: Grade2, Point: "P3"}), "unresolved salary differs")
	assert.False(t, a.Equal(b.WithBase(14767, asOf.AddDate(1, 0, 0))), "mapping date is compared")
	assert.False(t, Salary{}.IsSet())
	assert.True(t, a.IsSet())
}

func TestSalaryRecordRoundTripsSalary(t *testing.T) {
	asOf := time.Date(2017, 8, 1, 0, 0, 0, 0, time.UTC)
	s := Salary{Grade: Grade2, Point: "P5"}.WithBase(15721, asOf)
	rec := SalaryRecord{Grade: s.Grade, Point: s.Point, BaseSalary: s.BasePerAnnum, MappingTableDate: s.AsOfDate}
	assert.True(t, s.Equal(rec.Salary()))
}

func TestCost(t *testing.T) {
	c := Cost{Salary: 14934, Exchange: -1195, EmployerPension: 3883, EmployerNIC: 733, ApprenticeshipLevy: 68, Total: 18423, TaxYear: 2018}
	assert.Equal(t, int64(18423), c.PartsSum())

	y := YearCost{Year: 2016, Cost: c}
	assert.True(t, y.Substituted())
	y.Year = 2018
	assert.False(t, y.Substituted())
}
