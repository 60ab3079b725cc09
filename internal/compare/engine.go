package compare

import (
	"context"
	"fmt"
	"slices"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
)

// CompareEngine costs one employment under several pension schemes.
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	// BaseScheme defaults to the employment's scheme.
	BaseScheme domain.Scheme
	// Schemes to compare against the base. Empty means every scheme in the
	// tables.
	Schemes []domain.Scheme
}

// Compare costs emp under the base scheme and each alternative.
func (ce *CompareEngine) Compare(ctx context.Context, emp *domain.Employment, options CompareOptions) (*ComparisonSet, error) {
	base := options.BaseScheme
	if base == "" {
		base = emp.Scheme
	}
	alternatives := options.Schemes
	if len(alternatives) == 0 {
		alternatives = ce.CalcEngine.Pensions.Schemes()
	}

	baseResult, err := ce.costUnder(ctx, emp, base)
	if err != nil {
		return nil, fmt.Errorf("failed to cost base scheme %s: %w", base, err)
	}

	results := []ComparisonResult{}
	seen := []domain.Scheme{base}
	for _, scheme := range alternatives {
		if slices.Contains(seen, scheme) {
			continue
		}
		seen = append(seen, scheme)

		result, err := ce.costUnder(ctx, emp, scheme)
		if err != nil {
			return nil, fmt.Errorf("failed to cost scheme %s: %w", scheme, err)
		}
		results = append(results, ce.MetricsCalculator.CalculateComparison(result, baseResult))
	}

	compSet := &ComparisonSet{
		Employment:         emp.Name,
		BaseScheme:         base,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func (ce *CompareEngine) costUnder(ctx context.Context, emp *domain.Employment, scheme domain.Scheme) (ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return ComparisonResult{}, err
	}
	schedule, err := ce.CalcEngine.Pensions.Schedule(scheme)
	if err != nil {
		return ComparisonResult{}, err
	}

	variant := *emp
	variant.Scheme = scheme
	years, err := ce.CalcEngine.EmploymentCosts(&variant)
	if err != nil {
		return ComparisonResult{}, err
	}

	result := ce.MetricsCalculator.CalculateMetrics(scheme, years)
	result.Description = schedule.Description
	result.SalaryExchange = schedule.SalaryExchange
	return result, nil
}
