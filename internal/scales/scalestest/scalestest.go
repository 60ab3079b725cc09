// Package scalestest provides the example salary scale table used in tests.
package scalestest

import (
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/scales"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

// Config returns the example scales: three grades over points P1 to P8 with
// tables effective 1 August 2015, 2016 and 2017.
func Config() domain.SalaryScalesConfig {
	return domain.SalaryScalesConfig{
		Grades: []domain.GradeScaleConfig{
			{Grade: domain.Grade1, Scale: []domain.ScalePoint{
				{Name: "1-1", Point: "P1"},
				{Name: "1-2", Point: "P2"},
				{Name: "1-3", Point: "P3"},
				{Name: "1-4", Point: "P4", IsContribution: true},
			}},
			{Grade: domain.Grade2, Scale: []domain.ScalePoint{
				{Name: "2-1", Point: "P3"},
				{Name: "2-2", Point: "P4"},
				{Name: "2-3", Point: "P5"},
				{Name: "2-4", Point: "P6", IsContribution: true},
			}},
			{Grade: domain.Grade3, Scale: []domain.ScalePoint{
				{Name: "3-1", Point: "P5"},
				{Name: "3-2", Point: "P6"},
				{Name: "3-3", Point: "P7"},
				{Name: "3-4", Point: "P8", IsContribution: true},
			}},
		},
		Salaries: []domain.SalaryMapping{
			{EffectiveDate: dateutil.Date(2015, 8, 1), Mapping: map[string]int64{
				"P1": 13750, "P2": 14106, "P3": 14539, "P4": 14818,
				"P5": 15119, "P6": 15428, "P7": 15729, "P8": 16037,
			}},
			{EffectiveDate: dateutil.Date(2016, 8, 1), Mapping: map[string]int64{
				"P1": 13965, "P2": 14327, "P3": 14767, "P4": 15052,
				"P5": 15356, "P6": 15670, "P7": 15976, "P8": 16289,
			}},
			{EffectiveDate: dateutil.Date(2017, 8, 1), Mapping: map[string]int64{
				"P1": 14304, "P2": 14675, "P3": 15126, "P4": 15417,
				"P5": 15721, "P6": 16035, "P7": 16341, "P8": 16654,
			}},
		},
	}
}

// Table builds the example table and panics if it is invalid.
func Table() *scales.Table {
	t, err := scales.New(Config())
	if err != nil {
		panic(err)
	}
	return t
}
