package compare

import (
	"fmt"
	"strings"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/output"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing schemes
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("PENSION SCHEME COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if compSet.Employment != "" {
		sb.WriteString(fmt.Sprintf("Employment:  %s\n", compSet.Employment))
	}
	sb.WriteString(fmt.Sprintf("Base Scheme: %s\n", compSet.BaseScheme))
	if compSet.TablesPath != "" {
		sb.WriteString(fmt.Sprintf("Tables:      %s\n", compSet.TablesPath))
	}
	sb.WriteString("\n")

	nameWidth := 22
	numWidth := 11

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Scheme",
		numWidth, "Salary",
		numWidth, "Pension",
		numWidth, "NIC",
		numWidth, "Levy",
		numWidth, "Total"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Scheme))
			sb.WriteString(fmt.Sprintf("  Total Cost:    %s%s (%s%%)\n",
				deltaSymbol(alt.CostDiffFromBase),
				output.FormatPounds(alt.CostDiffFromBase),
				alt.CostPctFromBase.StringFixed(1)))
			if alt.NICDiffFromBase != 0 {
				sb.WriteString(fmt.Sprintf("  Employer NIC:  %s%s\n",
					deltaSymbol(alt.NICDiffFromBase),
					output.FormatPounds(alt.NICDiffFromBase)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scheme row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := string(result.Scheme)
	if isBase {
		name += " (base)"
	}
	pension := result.EmployerPension + result.Exchange

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, truncate(name, nameWidth),
		numWidth, output.FormatPounds(result.Salary),
		numWidth, output.FormatPounds(pension),
		numWidth, output.FormatPounds(result.EmployerNIC),
		numWidth, output.FormatPounds(result.ApprenticeshipLevy),
		numWidth, output.FormatPounds(result.TotalCost))
}

// deltaSymbol prefixes increases with a plus sign
func deltaSymbol(delta int64) string {
	if delta > 0 {
		return "+"
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact summarises the comparison on one line.
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScheme))
	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.CostDiffFromBase != 0 {
			change = deltaSymbol(alt.CostDiffFromBase) + output.FormatPounds(alt.CostDiffFromBase)
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.Scheme, change))
	}
	return sb.String()
}
