package evaluation

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ventureforge/planscope/internal/plan"
)

// RubricVersion identifies the current criterion tables. Stored results are
// keyed by it so a rubric change never silently rewrites history.
const RubricVersion = 1

// Axis is one of the three scoring dimensions.
type Axis string

const (
	AxisFeasibility   Axis = "feasibility"
	AxisProfitability Axis = "profitability"
	AxisInnovation    Axis = "innovation"
)

// Axes returns the scoring dimensions in presentation order.
func Axes() []Axis {
	return []Axis{AxisFeasibility, AxisProfitability, AxisInnovation}
}

// Criterion is one scored rubric line. Score returns points in
// [0, MaxPoints]; a plan missing the underlying attribute scores 0.
type Criterion struct {
	Name      string
	Axis      Axis
	MaxPoints float64
	Score     func(p *plan.BusinessPlan) float64
}

// band maps a threshold to the points awarded at or above it.
type band struct {
	min    float64
	points float64
}

// banded returns the points of the first band whose threshold the value
// meets. Bands must be ordered from highest threshold to lowest.
func banded(value float64, bands []band) float64 {
	for _, b := range bands {
		if value >= b.min {
			return b.points
		}
	}
	return 0
}

// floor marks a catch-all band that absorbs everything below the last
// explicit threshold.
var floor = math.Inf(-1)

// highInnovationCategories earn full marks on the category criterion.
var highInnovationCategories = map[plan.Category]bool{
	plan.CategoryAIML:       true,
	plan.CategoryCleanTech:  true,
	plan.CategoryFinTech:    true,
	plan.CategoryHealthTech: true,
}

// solutionKeywords signal novel approaches when present in the solution or
// value proposition text.
var solutionKeywords = []string{
	"ai", "machine learning", "automation", "blockchain", "novel",
	"proprietary", "patent", "platform", "ecosystem", "revolution",
	"transform",
}

// containsWord reports whether keyword occurs in text on word boundaries,
// so "ai" does not fire inside "blockchain".
func containsWord(text, keyword string) bool {
	for from := 0; ; {
		idx := strings.Index(text[from:], keyword)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(keyword)

		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		next, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(prev) && !isWordRune(next) {
			return true
		}
		from = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// feasibilityCriteria sum to 100 max points.
var feasibilityCriteria = []Criterion{
	{
		Name: "market_growth_rate", Axis: AxisFeasibility, MaxPoints: 20,
		Score: func(p *plan.BusinessPlan) float64 {
			if p.Market == nil {
				return 0
			}
			return banded(p.Market.MarketGrowthRate, []band{
				{30, 20}, {20, 15}, {10, 10}, {floor, 5},
			})
		},
	},
	{
		Name: "market_stage", Axis: AxisFeasibility, MaxPoints: 15,
		Score: func(p *plan.BusinessPlan) float64 {
			if p.Market == nil {
				return 0
			}
			switch p.Market.MarketStage {
			case plan.StageGrowing:
				return 15
			case plan.StageEmerging:
				return 10
			case plan.StageMature:
				return 5
			default:
				return 0
			}
		},
	},
	{
		Name: "breakeven_period", Axis: AxisFeasibility, MaxPoints: 15,
		Score: func(p *plan.BusinessPlan) float64 {
			if p.Financials == nil || p.Financials.BreakEvenMonths <= 0 {
				return 0
			}
			switch months := p.Financials.BreakEvenMonths; {
			case months <= 18:
				return 15
			case months <= 24:
				return 12
			case months <= 36:
				return 8
			default:
				return 3
			}
		},
	},
	{
		Name: "ltv_cac_ratio", Axis: AxisFeasibility, MaxPoints: 20,
		Score: func(p *plan.BusinessPlan) float64 {
			ratio, ok := p.LTVCACRatio()
			if !ok {
				return 0
			}
			return banded(ratio, []band{
				{5, 20}, {4, 17}, {3, 13}, {2, 8}, {floor, 3},
			})
		},
	},
	{
		Name: "return_on_investment", Axis: AxisFeasibility, MaxPoints: 15,
		Score: func(p *plan.BusinessPlan) float64 {
			roi, ok := p.ROI()
			if !ok {
				return 0
			}
			return banded(roi, []band{
				{500, 15}, {300, 12}, {200, 9}, {100, 5}, {floor, 2},
			})
		},
	},
	{
		Name: "team_depth", Axis: AxisFeasibility, MaxPoints: 10,
		Score: func(p *plan.BusinessPlan) float64 {
			switch roles := len(p.TeamRequirements); {
			case roles >= 5:
				return 10
			case roles >= 3:
				return 7
			case roles >= 1:
				return 3
			default:
				return 0
			}
		},
	},
	{
		Name: "risk_coverage", Axis: AxisFeasibility, MaxPoints: 5,
		Score: func(p *plan.BusinessPlan) float64 {
			if len(p.RiskFactors) == 0 {
				return 0
			}
			if len(p.MitigationStrategies) >= len(p.RiskFactors) {
				return 5
			}
			return 2
		},
	},
}

// profitabilityCriteria sum to 100 max points.
var profitabilityCriteria = []Criterion{
	{
		Name: "year_5_revenue", Axis: AxisProfitability, MaxPoints: 25,
		Score: func(p *plan.BusinessPlan) float64 {
			if p.Financials == nil || p.Financials.Year5Revenue <= 0 {
				return 0
			}
			return banded(p.Financials.Year5Revenue, []band{
				{100_000_000, 25}, {50_000_000, 22}, {10_000_000, 18},
				{1_000_000, 12}, {floor, 5},
			})
		},
	},
	{
		Name: "year_3_margin", Axis: AxisProfitability, MaxPoints: 20,
		Score: func(p *plan.BusinessPlan) float64 {
			if p.Financials == nil {
				return 0
			}
			return banded(p.Financials.ProfitMarginYear3, []band{
				{40, 20}, {30, 17}, {20, 13}, {10, 8}, {floor, 3},
			})
		},
	},
	{
		Name: "revenue_growth_ratio", Axis: AxisProfitability, MaxPoints: 20,
		Score: func(p *plan.BusinessPlan) float64 {
			ratio, ok := p.GrowthRatio()
			if !ok {
				return 0
			}
			return banded(ratio, []band{
				{20, 20}, {10, 17}, {5, 13}, {2, 8}, {floor, 3},
			})
		},
	},
	{
		Name: "market_size", Axis: AxisProfitability, MaxPoints: 20,
		Score: func(p *plan.BusinessPlan) float64 {
			if p.Market == nil || p.Market.MarketSize <= 0 {
				return 0
			}
			return banded(p.Market.MarketSize, []band{
				{500, 20}, {100, 17}, {50, 13}, {10, 8}, {floor, 3},
			})
		},
	},
	{
		Name: "growth_potential", Axis: AxisProfitability, MaxPoints: 15,
		Score: func(p *plan.BusinessPlan) float64 {
			if p.Market == nil || p.Market.MarketSize <= 0 {
				return 0
			}
			potential := p.Market.MarketSize * p.Market.MarketGrowthRate / 100
			if potential <= 0 {
				return 0
			}
			return banded(potential, []band{
				{50, 15}, {20, 12}, {10, 8}, {floor, 3},
			})
		},
	},
}

// innovationCriteria sum to 100 max points.
var innovationCriteria = []Criterion{
	{
		Name: "category_momentum", Axis: AxisInnovation, MaxPoints: 20,
		Score: func(p *plan.BusinessPlan) float64 {
			if highInnovationCategories[p.Category] {
				return 20
			}
			return 10
		},
	},
	{
		Name: "market_stage_novelty", Axis: AxisInnovation, MaxPoints: 20,
		Score: func(p *plan.BusinessPlan) float64 {
			if p.Market == nil {
				return 0
			}
			switch p.Market.MarketStage {
			case plan.StageEmerging:
				return 20
			case plan.StageGrowing:
				return 15
			case plan.StageMature:
				return 5
			default:
				return 0
			}
		},
	},
	{
		Name: "problem_depth", Axis: AxisInnovation, MaxPoints: 20,
		Score: func(p *plan.BusinessPlan) float64 {
			switch length := len(p.ProblemStatement); {
			case length >= 200:
				return 20
			case length >= 100:
				return 12
			case length > 0:
				return 6
			default:
				return 0
			}
		},
	},
	{
		Name: "solution_keywords", Axis: AxisInnovation, MaxPoints: 10,
		Score: func(p *plan.BusinessPlan) float64 {
			text := strings.ToLower(p.Solution + " " + p.ValueProposition)
			matches := 0
			for _, kw := range solutionKeywords {
				if containsWord(text, kw) {
					matches++
				}
			}
			return math.Min(10, float64(matches)*2.5)
		},
	},
	{
		Name: "success_factor_diversity", Axis: AxisInnovation, MaxPoints: 15,
		Score: func(p *plan.BusinessPlan) float64 {
			if p.Market == nil {
				return 0
			}
			switch factors := len(p.Market.KeySuccessFactors); {
			case factors >= 4:
				return 15
			case factors >= 3:
				return 10
			case factors >= 1:
				return 5
			default:
				return 0
			}
		},
	},
	{
		Name: "reasoning_depth", Axis: AxisInnovation, MaxPoints: 15,
		Score: func(p *plan.BusinessPlan) float64 {
			switch length := len(p.Reasoning); {
			case length >= 200:
				return 15
			case length >= 100:
				return 10
			case length >= 50:
				return 5
			default:
				return 0
			}
		},
	},
}

// criteriaFor returns the rubric table for an axis.
func criteriaFor(axis Axis) []Criterion {
	switch axis {
	case AxisFeasibility:
		return feasibilityCriteria
	case AxisProfitability:
		return profitabilityCriteria
	case AxisInnovation:
		return innovationCriteria
	default:
		return nil
	}
}
