package evaluation

import (
	"fmt"
	"math"
	"sort"

	"github.com/ventureforge/planscope/internal/errors"
	"github.com/ventureforge/planscope/internal/plan"
)

// CategoryStats summarizes one category slice of the population.
type CategoryStats struct {
	Count         int     `json:"count"`
	MeanComposite float64 `json:"mean_composite"`
}

// MarketTrends aggregates market and financial signals across the plans
// that provide those sections.
type MarketTrends struct {
	AvgMarketSize      float64 `json:"avg_market_size"`
	AvgGrowthRate      float64 `json:"avg_growth_rate"`
	AvgBreakEvenMonths float64 `json:"avg_break_even_months"`
	AvgLTVCACRatio     float64 `json:"avg_ltv_cac_ratio"`
}

// AnalyticsReport is the population-level aggregate view.
type AnalyticsReport struct {
	TotalPlans int `json:"total_plans"`

	MeanComposite   float64 `json:"mean_composite"`
	MedianComposite float64 `json:"median_composite"`
	StdDevComposite float64 `json:"std_dev_composite"`

	AxisMeans map[Axis]float64 `json:"axis_means"`

	CategoryDistribution map[plan.Category]CategoryStats `json:"category_distribution"`

	// TrendDelta is mean composite of the most recent third minus the
	// earliest third, in creation order. Zero until three plans exist.
	TrendDelta float64 `json:"trend_delta"`

	MarketTrends MarketTrends `json:"market_trends"`

	Insights []string `json:"insights"`
}

// Aggregate computes population statistics over evaluated plans.
func Aggregate(population []Evaluated) (*AnalyticsReport, error) {
	if len(population) == 0 {
		return nil, errors.NewEmptyPopulationError("analytics")
	}

	composites := make([]float64, len(population))
	for i, entry := range population {
		composites[i] = entry.Result.Composite
	}

	report := &AnalyticsReport{
		TotalPlans:      len(population),
		MeanComposite:   round1(mean(composites)),
		MedianComposite: round1(median(composites)),
		StdDevComposite: round1(stddev(composites)),
		AxisMeans:       map[Axis]float64{},
	}

	for _, axis := range Axes() {
		scores := make([]float64, len(population))
		for i, entry := range population {
			scores[i] = entry.Result.AxisScore(axis)
		}
		report.AxisMeans[axis] = round1(mean(scores))
	}

	report.CategoryDistribution = categoryDistribution(population)
	report.TrendDelta = trendDelta(population)
	report.MarketTrends = marketTrends(population)
	report.Insights = buildInsights(population, report)

	return report, nil
}

func categoryDistribution(population []Evaluated) map[plan.Category]CategoryStats {
	sums := map[plan.Category]float64{}
	counts := map[plan.Category]int{}
	for _, entry := range population {
		sums[entry.Plan.Category] += entry.Result.Composite
		counts[entry.Plan.Category]++
	}

	distribution := make(map[plan.Category]CategoryStats, len(counts))
	for category, count := range counts {
		distribution[category] = CategoryStats{
			Count:         count,
			MeanComposite: round1(sums[category] / float64(count)),
		}
	}
	return distribution
}

// trendDelta splits the population into thirds by creation order and
// subtracts the earliest third's mean composite from the most recent's.
func trendDelta(population []Evaluated) float64 {
	if len(population) < 3 {
		return 0
	}

	ordered := make([]Evaluated, len(population))
	copy(ordered, population)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Plan.Seq < ordered[j].Plan.Seq
	})

	third := len(ordered) / 3

	earliest := make([]float64, third)
	recent := make([]float64, third)
	for i := 0; i < third; i++ {
		earliest[i] = ordered[i].Result.Composite
		recent[i] = ordered[len(ordered)-third+i].Result.Composite
	}

	return round1(mean(recent) - mean(earliest))
}

func marketTrends(population []Evaluated) MarketTrends {
	var trends MarketTrends
	var sizes, growths, breakevens, ratios []float64

	for _, entry := range population {
		if m := entry.Plan.Market; m != nil {
			sizes = append(sizes, m.MarketSize)
			growths = append(growths, m.MarketGrowthRate)
		}
		if f := entry.Plan.Financials; f != nil && f.BreakEvenMonths > 0 {
			breakevens = append(breakevens, float64(f.BreakEvenMonths))
		}
		if ratio, ok := entry.Plan.LTVCACRatio(); ok {
			ratios = append(ratios, ratio)
		}
	}

	if len(sizes) > 0 {
		trends.AvgMarketSize = round1(mean(sizes))
		trends.AvgGrowthRate = round1(mean(growths))
	}
	if len(breakevens) > 0 {
		trends.AvgBreakEvenMonths = round1(mean(breakevens))
	}
	if len(ratios) > 0 {
		trends.AvgLTVCACRatio = round1(mean(ratios))
	}

	return trends
}

func buildInsights(population []Evaluated, report *AnalyticsReport) []string {
	var insights []string

	best := population[0]
	for _, entry := range population[1:] {
		if outranks(entry, best) {
			best = entry
		}
	}
	insights = append(insights, fmt.Sprintf("top plan: %q (%s) with composite %.1f",
		best.Plan.Title, best.Plan.Category, best.Result.Composite))

	var topCategory plan.Category
	topStats := CategoryStats{MeanComposite: math.Inf(-1)}
	for _, category := range plan.Categories() {
		stats, ok := report.CategoryDistribution[category]
		if !ok {
			continue
		}
		if stats.MeanComposite > topStats.MeanComposite {
			topCategory, topStats = category, stats
		}
	}
	insights = append(insights, fmt.Sprintf("strongest category: %s averaging %.1f over %d plan(s)",
		topCategory, topStats.MeanComposite, topStats.Count))

	if report.MarketTrends.AvgLTVCACRatio >= 3 {
		insights = append(insights, fmt.Sprintf("healthy unit economics across the population: average LTV/CAC of %.1fx",
			report.MarketTrends.AvgLTVCACRatio))
	}
	if report.TrendDelta > 0 {
		insights = append(insights, fmt.Sprintf("plan quality is trending up: recent plans average %.1f points higher",
			report.TrendDelta))
	}

	return insights
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stddev is the population standard deviation, 0 for a single value.
func stddev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
