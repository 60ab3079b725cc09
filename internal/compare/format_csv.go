package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scheme",
		"Type",
		"Salary Exchange",
		"Salary",
		"Exchange",
		"Employer Pension",
		"Employer NIC",
		"Apprenticeship Levy",
		"Total Cost",
		"Cost Diff from Base",
		"Cost % Change",
		"NIC Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}
	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, schemeType string) []string {
	return []string{
		string(result.Scheme),
		schemeType,
		strconv.FormatBool(result.SalaryExchange),
		formatInt(result.Salary),
		formatInt(result.Exchange),
		formatInt(result.EmployerPension),
		formatInt(result.EmployerNIC),
		formatInt(result.ApprenticeshipLevy),
		formatInt(result.TotalCost),
		formatInt(result.CostDiffFromBase),
		result.CostPctFromBase.StringFixed(2),
		formatInt(result.NICDiffFromBase),
	}
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}
