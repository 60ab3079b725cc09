package domain

import "time"

// ScalePoint is one row of a grade's salary scale.
type ScalePoint struct {
	// Name is the display name of the row, e.g. "2-1".
	Name string `yaml:"name" json:"name"`
	// Point keys into the salary mappings, e.g. "P3".
	Point string `yaml:"point" json:"point"`
	// IsContribution marks discretionary points. They are never reached by
	// an anniversary increment and stop progression.
	IsContribution bool `yaml:"isContribution" json:"is_contribution"`
}

// SalaryMapping maps points to annual salaries from an effective date.
type SalaryMapping struct {
	EffectiveDate time.Time        `yaml:"effectiveDate" json:"effective_date"`
	Mapping       map[string]int64 `yaml:"mapping" json:"mapping"`
}

// Salary is a grade and point, optionally resolved against a salary
// mapping. The zero value means no salary has been set yet.
type Salary struct {
	Grade        Grade
	Point        string
	BasePerAnnum int64
	HasBase      bool
	AsOfDate     time.Time
}

// IsSet reports whether a grade has been assigned.
func (s Salary) IsSet() bool { return s.Grade != "" }

// WithBase returns s resolved to base per annum as of a mapping date.
func (s Salary) WithBase(base int64, asOf time.Time) Salary {
	s.BasePerAnnum = base
	s.HasBase = true
	s.AsOfDate = asOf
	return s
}

// Equal compares every field.
func (s Salary) Equal(o Salary) bool {
	return s.Grade == o.Grade &&
		s.Point == o.Point &&
		s.HasBase == o.HasBase &&
		s.BasePerAnnum == o.BasePerAnnum &&
		s.AsOfDate.Equal(o.AsOfDate)
}

// SalaryRecord is one entry of a salary history.
type SalaryRecord struct {
	Date             time.Time `json:"date"`
	Reason           string    `json:"reason"`
	Grade            Grade     `json:"grade"`
	Point            string    `json:"point"`
	BaseSalary       int64     `json:"base_salary"`
	MappingTableDate time.Time `json:"mapping_table_date"`
}

// Salary returns the record's salary value.
func (r SalaryRecord) Salary() Salary {
	return Salary{
		Grade:        r.Grade,
		Point:        r.Point,
		BasePerAnnum: r.BaseSalary,
		HasBase:      !r.MappingTableDate.IsZero(),
		AsOfDate:     r.MappingTableDate,
	}
}
