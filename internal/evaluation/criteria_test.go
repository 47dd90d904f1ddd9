package evaluation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ventureforge/planscope/internal/plan"
)

func TestAxisBudgets(t *testing.T) {
	for _, axis := range Axes() {
		t.Run(string(axis), func(t *testing.T) {
			total := 0.0
			for _, criterion := range criteriaFor(axis) {
				assert.Positive(t, criterion.MaxPoints, "criterion %s", criterion.Name)
				total += criterion.MaxPoints
			}
			assert.InDelta(t, 100.0, total, 1e-9)
		})
	}
}

func TestCriterionScoresStayInBudget(t *testing.T) {
	plans := []*plan.BusinessPlan{
		{Category: plan.CategorySaaS},
		fullPlan(),
		{
			Category:   plan.CategoryAIML,
			Market:     &plan.MarketAnalysis{MarketSize: 1e9, MarketGrowthRate: 1e6, MarketStage: plan.StageEmerging},
			Financials: &plan.FinancialProjection{Year5Revenue: 1e12, InitialInvestment: 1, CustomerLTV: 1e9, CustomerCAC: 0.01},
		},
	}

	for _, p := range plans {
		for _, axis := range Axes() {
			for _, criterion := range criteriaFor(axis) {
				points := criterion.Score(p)
				assert.GreaterOrEqual(t, points, 0.0, "criterion %s", criterion.Name)
				assert.LessOrEqual(t, points, criterion.MaxPoints, "criterion %s", criterion.Name)
			}
		}
	}
}

func TestMarketGrowthRateBands(t *testing.T) {
	tests := []struct {
		name     string
		market   *plan.MarketAnalysis
		expected float64
	}{
		{name: "no market section", market: nil, expected: 0},
		{name: "hypergrowth", market: &plan.MarketAnalysis{MarketGrowthRate: 35}, expected: 20},
		{name: "boundary 30", market: &plan.MarketAnalysis{MarketGrowthRate: 30}, expected: 20},
		{name: "strong", market: &plan.MarketAnalysis{MarketGrowthRate: 22}, expected: 15},
		{name: "moderate", market: &plan.MarketAnalysis{MarketGrowthRate: 12}, expected: 10},
		{name: "slow", market: &plan.MarketAnalysis{MarketGrowthRate: 4}, expected: 5},
		{name: "shrinking still floors", market: &plan.MarketAnalysis{MarketGrowthRate: -5}, expected: 5},
	}

	criterion := findCriterion(t, AxisFeasibility, "market_growth_rate")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &plan.BusinessPlan{Category: plan.CategorySaaS, Market: tt.market}
			assert.Equal(t, tt.expected, criterion.Score(p))
		})
	}
}

func TestLTVCACRatioBands(t *testing.T) {
	tests := []struct {
		name       string
		financials *plan.FinancialProjection
		expected   float64
	}{
		{name: "missing financials", financials: nil, expected: 0},
		{name: "zero cac is undefined not infinite", financials: &plan.FinancialProjection{CustomerLTV: 5000, CustomerCAC: 0}, expected: 0},
		{name: "negative cac is undefined", financials: &plan.FinancialProjection{CustomerLTV: 5000, CustomerCAC: -10}, expected: 0},
		{name: "excellent 5x", financials: &plan.FinancialProjection{CustomerLTV: 5000, CustomerCAC: 1000}, expected: 20},
		{name: "good 4x", financials: &plan.FinancialProjection{CustomerLTV: 4000, CustomerCAC: 1000}, expected: 17},
		{name: "healthy 3x", financials: &plan.FinancialProjection{CustomerLTV: 3000, CustomerCAC: 1000}, expected: 13},
		{name: "thin 2x", financials: &plan.FinancialProjection{CustomerLTV: 2000, CustomerCAC: 1000}, expected: 8},
		{name: "underwater", financials: &plan.FinancialProjection{CustomerLTV: 500, CustomerCAC: 1000}, expected: 3},
	}

	criterion := findCriterion(t, AxisFeasibility, "ltv_cac_ratio")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &plan.BusinessPlan{Category: plan.CategorySaaS, Financials: tt.financials}
			assert.Equal(t, tt.expected, criterion.Score(p))
		})
	}
}

func TestBreakevenBands(t *testing.T) {
	tests := []struct {
		name     string
		months   int
		expected float64
	}{
		{name: "unset months", months: 0, expected: 0},
		{name: "fast", months: 12, expected: 15},
		{name: "boundary 18", months: 18, expected: 15},
		{name: "two years", months: 24, expected: 12},
		{name: "three years", months: 36, expected: 8},
		{name: "slow", months: 48, expected: 3},
	}

	criterion := findCriterion(t, AxisFeasibility, "breakeven_period")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &plan.BusinessPlan{
				Category:   plan.CategorySaaS,
				Financials: &plan.FinancialProjection{BreakEvenMonths: tt.months},
			}
			assert.Equal(t, tt.expected, criterion.Score(p))
		})
	}
}

func TestReturnOnInvestmentBands(t *testing.T) {
	tests := []struct {
		name       string
		financials *plan.FinancialProjection
		expected   float64
	}{
		{name: "missing financials", financials: nil, expected: 0},
		{name: "zero investment is undefined", financials: &plan.FinancialProjection{Year5Revenue: 1_000_000}, expected: 0},
		{name: "6x revenue is 500 percent net", financials: &plan.FinancialProjection{Year5Revenue: 12_000_000, InitialInvestment: 2_000_000}, expected: 15},
		{name: "5x revenue is 400 percent net", financials: &plan.FinancialProjection{Year5Revenue: 5_000_000, InitialInvestment: 1_000_000}, expected: 12},
		{name: "3.5x revenue is 250 percent net", financials: &plan.FinancialProjection{Year5Revenue: 7_000_000, InitialInvestment: 2_000_000}, expected: 9},
		{name: "double revenue is 100 percent net", financials: &plan.FinancialProjection{Year5Revenue: 4_000_000, InitialInvestment: 2_000_000}, expected: 5},
		{name: "break even is floor", financials: &plan.FinancialProjection{Year5Revenue: 2_000_000, InitialInvestment: 2_000_000}, expected: 2},
		{name: "loss is floor", financials: &plan.FinancialProjection{Year5Revenue: 500_000, InitialInvestment: 2_000_000}, expected: 2},
	}

	criterion := findCriterion(t, AxisFeasibility, "return_on_investment")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &plan.BusinessPlan{Category: plan.CategorySaaS, Financials: tt.financials}
			assert.Equal(t, tt.expected, criterion.Score(p))
		})
	}
}

func TestYear5RevenueBands(t *testing.T) {
	tests := []struct {
		name     string
		revenue  float64
		expected float64
	}{
		{name: "zero revenue", revenue: 0, expected: 0},
		{name: "unicorn scale", revenue: 150_000_000, expected: 25},
		{name: "large", revenue: 60_000_000, expected: 22},
		{name: "mid", revenue: 20_000_000, expected: 18},
		{name: "small", revenue: 2_000_000, expected: 12},
		{name: "tiny", revenue: 300_000, expected: 5},
	}

	criterion := findCriterion(t, AxisProfitability, "year_5_revenue")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &plan.BusinessPlan{
				Category:   plan.CategorySaaS,
				Financials: &plan.FinancialProjection{Year5Revenue: tt.revenue},
			}
			assert.Equal(t, tt.expected, criterion.Score(p))
		})
	}
}

func TestSolutionKeywordScoring(t *testing.T) {
	tests := []struct {
		name     string
		solution string
		expected float64
	}{
		{name: "no keywords", solution: "a simple web shop", expected: 0},
		{name: "one keyword", solution: "an AI assistant", expected: 2.5},
		{name: "two keywords", solution: "a proprietary automation layer", expected: 5},
		{name: "caps at budget", solution: "ai machine learning automation blockchain novel proprietary patent", expected: 10},
		{name: "case insensitive", solution: "BLOCKCHAIN Platform", expected: 5},
		{name: "no match inside longer words", solution: "sustainable maintenance and training", expected: 0},
		{name: "revolutionary is not revolution", solution: "a revolutionary approach", expected: 0},
		{name: "punctuation bounds words", solution: "built on AI, patented automation.", expected: 5},
	}

	criterion := findCriterion(t, AxisInnovation, "solution_keywords")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &plan.BusinessPlan{Category: plan.CategorySaaS, Solution: tt.solution}
			assert.Equal(t, tt.expected, criterion.Score(p))
		})
	}
}

func TestCategoryMomentum(t *testing.T) {
	criterion := findCriterion(t, AxisInnovation, "category_momentum")

	for _, category := range []plan.Category{plan.CategoryAIML, plan.CategoryCleanTech, plan.CategoryFinTech, plan.CategoryHealthTech} {
		assert.Equal(t, 20.0, criterion.Score(&plan.BusinessPlan{Category: category}), "category %s", category)
	}
	for _, category := range []plan.Category{plan.CategorySaaS, plan.CategoryB2B, plan.CategoryOther} {
		assert.Equal(t, 10.0, criterion.Score(&plan.BusinessPlan{Category: category}), "category %s", category)
	}
}

func TestProblemDepthBands(t *testing.T) {
	criterion := findCriterion(t, AxisInnovation, "problem_depth")

	tests := []struct {
		name     string
		length   int
		expected float64
	}{
		{name: "empty", length: 0, expected: 0},
		{name: "short", length: 40, expected: 6},
		{name: "medium", length: 150, expected: 12},
		{name: "thorough", length: 250, expected: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &plan.BusinessPlan{
				Category:         plan.CategorySaaS,
				ProblemStatement: strings.Repeat("x", tt.length),
			}
			assert.Equal(t, tt.expected, criterion.Score(p))
		})
	}
}

func findCriterion(t *testing.T, axis Axis, name string) Criterion {
	t.Helper()
	for _, criterion := range criteriaFor(axis) {
		if criterion.Name == name {
			return criterion
		}
	}
	t.Fatalf("criterion %s not found on axis %s", name, axis)
	return Criterion{}
}

// fullPlan builds a plan that scores well on every axis.
func fullPlan() *plan.BusinessPlan {
	p := plan.New("Atlas Health AI", plan.CategoryHealthTech)
	p.ProblemStatement = strings.Repeat("Chronic care coordination is fragmented across providers. ", 5)
	p.Solution = "A proprietary AI platform that automates care plan coordination."
	p.ValueProposition = "Novel machine learning models reduce readmissions."
	p.Reasoning = strings.Repeat("Regulatory tailwinds and payer incentives support adoption. ", 4)
	p.Market = &plan.MarketAnalysis{
		MarketSize:        800,
		MarketGrowthRate:  32,
		MarketStage:       plan.StageEmerging,
		TargetAudience:    "US health systems",
		KeySuccessFactors: []string{"clinical validation", "payer contracts", "integrations", "data network"},
	}
	p.Financials = &plan.FinancialProjection{
		Year1Revenue:      1_000_000,
		Year3Revenue:      25_000_000,
		Year5Revenue:      120_000_000,
		InitialInvestment: 5_000_000,
		BreakEvenMonths:   16,
		ProfitMarginYear3: 42,
		CustomerCAC:       10_000,
		CustomerLTV:       60_000,
	}
	p.TeamRequirements = []string{"CEO", "CTO", "Chief Medical Officer", "VP Sales", "ML Lead"}
	p.RiskFactors = []string{"regulatory approval", "long sales cycles"}
	p.MitigationStrategies = []string{"FDA pre-submission strategy", "land-and-expand pilots"}
	return p
}
