package evaluation

import (
	"sort"

	"github.com/ventureforge/planscope/internal/errors"
	"github.com/ventureforge/planscope/internal/plan"
)

// Evaluated pairs a plan with its evaluation result. Populations passed to
// Rank, Compare and Aggregate are slices of these.
type Evaluated struct {
	Plan   *plan.BusinessPlan `json:"plan"`
	Result EvaluationResult   `json:"result"`
}

// RankedPlan is one row of a ranking, 1-based.
type RankedPlan struct {
	Rank       int                `json:"rank"`
	Percentile float64            `json:"percentile"`
	Plan       *plan.BusinessPlan `json:"plan"`
	Result     EvaluationResult   `json:"result"`
}

// PlanRef summarizes one side of a comparison.
type PlanRef struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Category  plan.Category `json:"category"`
	Composite float64       `json:"composite"`
}

// ComparisonReport holds the pairwise deltas between two evaluated plans.
// Every delta is A minus B, so swapping the arguments negates them.
type ComparisonReport struct {
	PlanA PlanRef `json:"plan_a"`
	PlanB PlanRef `json:"plan_b"`

	FeasibilityDelta   float64 `json:"feasibility_delta"`
	ProfitabilityDelta float64 `json:"profitability_delta"`
	InnovationDelta    float64 `json:"innovation_delta"`
	CompositeDelta     float64 `json:"composite_delta"`

	AxisLeaders map[Axis]string `json:"axis_leaders"`
	Winner      string          `json:"winner"`
}

// outranks reports whether a places above b in the total order: composite
// descending, then profitability descending, then creation order.
func outranks(a, b Evaluated) bool {
	if a.Result.Composite != b.Result.Composite {
		return a.Result.Composite > b.Result.Composite
	}
	if a.Result.Profitability != b.Result.Profitability {
		return a.Result.Profitability > b.Result.Profitability
	}
	return a.Plan.Seq < b.Plan.Seq
}

// Rank orders a population best-first and assigns 1-based ranks and
// percentiles. The input slice is not modified.
func Rank(population []Evaluated) ([]RankedPlan, error) {
	if len(population) == 0 {
		return nil, errors.NewEmptyPopulationError("rank")
	}

	ordered := make([]Evaluated, len(population))
	copy(ordered, population)
	sort.Slice(ordered, func(i, j int) bool {
		return outranks(ordered[i], ordered[j])
	})

	ranked := make([]RankedPlan, len(ordered))
	for i, entry := range ordered {
		ranked[i] = RankedPlan{
			Rank:       i + 1,
			Percentile: Percentile(entry, population),
			Plan:       entry.Plan,
			Result:     entry.Result,
		}
	}

	return ranked, nil
}

// Percentile returns the fraction of the population the entry outranks,
// in [0, 1].
func Percentile(entry Evaluated, population []Evaluated) float64 {
	if len(population) == 0 {
		return 0
	}

	outranked := 0
	for _, other := range population {
		if other.Plan.ID == entry.Plan.ID {
			continue
		}
		if outranks(entry, other) {
			outranked++
		}
	}

	return float64(outranked) / float64(len(population))
}

// Compare produces the pairwise report for two evaluated plans.
func Compare(a, b Evaluated) ComparisonReport {
	report := ComparisonReport{
		PlanA: planRef(a),
		PlanB: planRef(b),

		FeasibilityDelta:   round1(a.Result.Feasibility - b.Result.Feasibility),
		ProfitabilityDelta: round1(a.Result.Profitability - b.Result.Profitability),
		InnovationDelta:    round1(a.Result.Innovation - b.Result.Innovation),
		CompositeDelta:     round1(a.Result.Composite - b.Result.Composite),

		AxisLeaders: map[Axis]string{},
	}

	for _, axis := range Axes() {
		report.AxisLeaders[axis] = leader(a.Result.AxisScore(axis), b.Result.AxisScore(axis), a.Plan.ID, b.Plan.ID)
	}

	if outranks(a, b) {
		report.Winner = a.Plan.ID
	} else {
		report.Winner = b.Plan.ID
	}

	return report
}

// CompareByIndex compares two population entries by position.
func CompareByIndex(population []Evaluated, i, j int) (ComparisonReport, error) {
	if len(population) == 0 {
		return ComparisonReport{}, errors.NewEmptyPopulationError("compare")
	}
	if i < 0 || i >= len(population) {
		return ComparisonReport{}, errors.NewIndexOutOfRangeError(i, len(population))
	}
	if j < 0 || j >= len(population) {
		return ComparisonReport{}, errors.NewIndexOutOfRangeError(j, len(population))
	}

	return Compare(population[i], population[j]), nil
}

func planRef(e Evaluated) PlanRef {
	return PlanRef{
		ID:        e.Plan.ID,
		Title:     e.Plan.Title,
		Category:  e.Plan.Category,
		Composite: e.Result.Composite,
	}
}

func leader(scoreA, scoreB float64, idA, idB string) string {
	switch {
	case scoreA > scoreB:
		return idA
	case scoreB > scoreA:
		return idB
	default:
		return "tie"
	}
}
