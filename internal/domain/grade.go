package domain

import (
	"fmt"
	"strings"
)

// Grade identifies a salary grade. The set of grades is fixed; which of them
// have scales depends on the loaded tables.
type Grade string

const (
	TGrade                Grade = "T_GRADE"
	Grade1                Grade = "GRADE_1"
	Grade2                Grade = "GRADE_2"
	Grade3                Grade = "GRADE_3"
	Grade4                Grade = "GRADE_4"
	Grade5                Grade = "GRADE_5"
	Grade6                Grade = "GRADE_6"
	Grade7                Grade = "GRADE_7"
	Grade8                Grade = "GRADE_8"
	Grade9                Grade = "GRADE_9"
	Grade10               Grade = "GRADE_10"
	Grade11               Grade = "GRADE_11"
	Grade12Band1          Grade = "GRADE_12_BAND_1"
	Grade12Band2          Grade = "GRADE_12_BAND_2"
	Grade12Band3          Grade = "GRADE_12_BAND_3"
	Grade12Band4          Grade = "GRADE_12_BAND_4"
	ClinicalNodal         Grade = "CLINICAL_NODAL"
	ClinicalConsultant    Grade = "CLINICAL_CONSULTANT"
	ClinicalRAAndLecturer Grade = "CLINICAL_RA_AND_LECTURER"
)

var allGrades = []Grade{
	TGrade, Grade1, Grade2, Grade3, Grade4, Grade5, Grade6, Grade7, Grade8, Grade9,
	Grade10, Grade11, Grade12Band1, Grade12Band2, Grade12Band3, Grade12Band4,
	ClinicalNodal, ClinicalConsultant, ClinicalRAAndLecturer,
}

// AllGrades returns the grade vocabulary in display order.
func AllGrades() []Grade {
	return append([]Grade(nil), allGrades...)
}

// ParseGrade accepts a grade name in any case, with '-' or ' ' standing in for '_'.
func ParseGrade(s string) (Grade, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.NewReplacer("-", "_", " ", "_").Replace(name)
	for _, g := range allGrades {
		if string(g) == name {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGrade, s)
}

// IsValid reports whether g is part of the vocabulary.
func (g Grade) IsValid() bool {
	for _, known := range allGrades {
		if g == known {
			return true
		}
	}
	return false
}

func (g Grade) String() string { return string(g) }
