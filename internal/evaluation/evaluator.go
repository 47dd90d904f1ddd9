package evaluation

import (
	"fmt"
	"math"
	"time"

	"github.com/ventureforge/planscope/internal/plan"
)

// FindingKind classifies a breakdown finding.
type FindingKind string

const (
	FindingStrength       FindingKind = "strength"
	FindingGap            FindingKind = "gap"
	FindingRecommendation FindingKind = "recommendation"
)

// Finding is one qualitative line in an evaluation breakdown.
type Finding struct {
	Kind   FindingKind `json:"kind"`
	Axis   Axis        `json:"axis"`
	Detail string      `json:"detail"`
}

// CriterionScore records how one rubric line scored.
type CriterionScore struct {
	Name      string  `json:"name"`
	Axis      Axis    `json:"axis"`
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"max_points"`
}

// EvaluationResult is the full outcome of scoring one plan against the
// current rubric.
type EvaluationResult struct {
	PlanID        string           `json:"plan_id"`
	RubricVersion int              `json:"rubric_version"`
	Feasibility   float64          `json:"feasibility"`
	Profitability float64          `json:"profitability"`
	Innovation    float64          `json:"innovation"`
	Weights       WeightProfile    `json:"weights"`
	Composite     float64          `json:"composite"`
	Findings      []Finding        `json:"findings"`
	Criteria      []CriterionScore `json:"criteria"`
	EvaluatedAt   time.Time        `json:"evaluated_at"`
}

// AxisScore returns the stored score for an axis.
func (r EvaluationResult) AxisScore(axis Axis) float64 {
	switch axis {
	case AxisFeasibility:
		return r.Feasibility
	case AxisProfitability:
		return r.Profitability
	case AxisInnovation:
		return r.Innovation
	default:
		return 0
	}
}

// strengthThreshold marks an axis score worth calling out as a strength.
const strengthThreshold = 80.0

// Evaluate scores a plan against all three axes and combines them with the
// category's weight profile. It never fails: missing sections score zero on
// the criteria that need them.
func Evaluate(p *plan.BusinessPlan) EvaluationResult {
	result := EvaluationResult{
		PlanID:        p.ID,
		RubricVersion: RubricVersion,
		Weights:       Resolve(p.Category),
		EvaluatedAt:   time.Now().UTC(),
	}

	for _, axis := range Axes() {
		score, criteria := scoreAxis(p, axis)
		result.Criteria = append(result.Criteria, criteria...)
		switch axis {
		case AxisFeasibility:
			result.Feasibility = score
		case AxisProfitability:
			result.Profitability = score
		case AxisInnovation:
			result.Innovation = score
		}
	}

	result.Composite = round1(
		result.Feasibility*result.Weights.Feasibility +
			result.Profitability*result.Weights.Profitability +
			result.Innovation*result.Weights.Innovation)

	result.Findings = buildFindings(result)

	return result
}

// scoreAxis sums the axis's criterion scores and clamps the total to
// [0, 100]. Pure over its inputs.
func scoreAxis(p *plan.BusinessPlan, axis Axis) (float64, []CriterionScore) {
	table := criteriaFor(axis)
	scores := make([]CriterionScore, 0, len(table))

	total := 0.0
	for _, criterion := range table {
		points := criterion.Score(p)
		total += points
		scores = append(scores, CriterionScore{
			Name:      criterion.Name,
			Axis:      axis,
			Points:    points,
			MaxPoints: criterion.MaxPoints,
		})
	}

	return clamp(total, 0, 100), scores
}

// buildFindings derives the qualitative breakdown: strong axes, the weakest
// axis, and a recommendation for every criterion scoring under half budget.
func buildFindings(r EvaluationResult) []Finding {
	var findings []Finding

	for _, axis := range Axes() {
		if r.AxisScore(axis) >= strengthThreshold {
			findings = append(findings, Finding{
				Kind:   FindingStrength,
				Axis:   axis,
				Detail: fmt.Sprintf("strong %s score of %.1f", axis, r.AxisScore(axis)),
			})
		}
	}

	lowest := AxisFeasibility
	for _, axis := range Axes()[1:] {
		if r.AxisScore(axis) < r.AxisScore(lowest) {
			lowest = axis
		}
	}
	findings = append(findings, Finding{
		Kind:   FindingGap,
		Axis:   lowest,
		Detail: fmt.Sprintf("%s is the weakest axis at %.1f", lowest, r.AxisScore(lowest)),
	})

	for _, cs := range r.Criteria {
		if cs.Points < cs.MaxPoints/2 {
			findings = append(findings, Finding{
				Kind:   FindingRecommendation,
				Axis:   cs.Axis,
				Detail: recommendationFor(cs.Name),
			})
		}
	}

	return findings
}

// recommendations keyed by criterion name. Criteria without an entry get a
// generic improvement line.
var recommendations = map[string]string{
	"market_growth_rate":       "target a faster-growing market segment or reposition toward one",
	"market_stage":             "growing markets derisk execution; reconsider the declining or mature segment focus",
	"breakeven_period":         "shorten the path to break-even below 24 months",
	"ltv_cac_ratio":            "improve unit economics; push LTV/CAC above 3x by raising retention or cutting acquisition cost",
	"return_on_investment":     "raise projected returns relative to the initial investment",
	"team_depth":               "define at least three key roles in the hiring plan",
	"risk_coverage":            "add a mitigation strategy for every identified risk",
	"year_5_revenue":           "strengthen the long-range revenue case beyond $10M",
	"year_3_margin":            "improve year-3 margins toward 20% or better",
	"revenue_growth_ratio":     "show stronger revenue growth between year 1 and year 3",
	"market_size":              "quantify a larger addressable market or broaden the target segment",
	"growth_potential":         "the market's size and growth together leave limited headroom",
	"category_momentum":        "consider how the plan could leverage higher-momentum technology",
	"market_stage_novelty":     "emerging markets reward first movers; this segment is already settled",
	"problem_depth":            "expand the problem statement with concrete evidence of customer pain",
	"solution_keywords":        "articulate what is technically novel or defensible about the solution",
	"success_factor_diversity": "identify at least four key success factors for the market",
	"reasoning_depth":          "document the reasoning behind the plan's key assumptions",
}

func recommendationFor(name string) string {
	if detail, ok := recommendations[name]; ok {
		return detail
	}
	return fmt.Sprintf("improve the %s criterion", name)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// round1 rounds to one decimal place, the precision composites are stored
// and compared at.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
