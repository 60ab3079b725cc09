package domain

// Cost is the rounded on-cost breakdown for one tax year, in whole pounds.
//
// Each field is rounded independently, so Total may differ from the sum of
// the other fields by one.
type Cost struct {
	Salary             int64 `json:"salary"`
	Exchange           int64 `json:"exchange"`
	EmployerPension    int64 `json:"employer_pension"`
	EmployerNIC        int64 `json:"employer_nic"`
	ApprenticeshipLevy int64 `json:"apprenticeship_levy"`
	Total              int64 `json:"total"`
	// TaxYear is the year whose NIC table was used.
	TaxYear int `json:"tax_year"`
}

// PartsSum adds every component except Total.
func (c Cost) PartsSum() int64 {
	return c.Salary + c.Exchange + c.EmployerPension + c.EmployerNIC + c.ApprenticeshipLevy
}

// YearCost is the cost of an employment over one tax year together with the
// salary history it was computed from. The last salary record closes the
// year at its end or at the end of employment.
type YearCost struct {
	Year     int            `json:"year"`
	Cost     Cost           `json:"cost"`
	Salaries []SalaryRecord `json:"salaries"`
}

// Substituted reports whether another year's NIC table stood in for Year's.
func (y YearCost) Substituted() bool { return y.Cost.TaxYear != y.Year }

// CommitmentExplanation breaks down how a tax year's cost was split.
type CommitmentExplanation struct {
	// TaxYear is the tax year costed, named by the calendar year it starts
	// in. A from date of 2016-01-01 falls in tax year 2015, not 2016.
	TaxYear      int            `json:"tax_year"`
	Salary       int64          `json:"salary"`
	SalaryToCome int64          `json:"salary_to_come"`
	Expenditure  int64          `json:"expenditure"`
	Commitment   int64          `json:"commitment"`
	Salaries     []SalaryRecord `json:"salaries"`
	Cost         Cost           `json:"cost"`
}

// Commitments is the result of splitting an employment's cost into money
// already spent and money still to be spent.
type Commitments struct {
	TotalExpenditure int64                   `json:"total_expenditure"`
	TotalCommitment  int64                   `json:"total_commitment"`
	Explanations     []CommitmentExplanation `json:"explanations"`
}
