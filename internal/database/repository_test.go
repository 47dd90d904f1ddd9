package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ventureforge/planscope/internal/errors"
	"github.com/ventureforge/planscope/internal/evaluation"
	"github.com/ventureforge/planscope/internal/plan"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db)
}

func samplePlan(title string, category plan.Category) *plan.BusinessPlan {
	p := plan.New(title, category)
	p.ProblemStatement = "Manual workflows waste operator time."
	p.Market = &plan.MarketAnalysis{
		MarketSize:       150,
		MarketGrowthRate: 18,
		MarketStage:      plan.StageGrowing,
	}
	p.Financials = &plan.FinancialProjection{
		Year1Revenue:    300_000,
		Year5Revenue:    12_000_000,
		BreakEvenMonths: 24,
		CustomerCAC:     900,
		CustomerLTV:     3600,
	}
	return p
}

func TestSaveAndGetPlan(t *testing.T) {
	repo := newTestRepository(t)

	p := samplePlan("Orbit CRM", plan.CategorySaaS)
	require.NoError(t, repo.SavePlan(p))
	assert.Equal(t, int64(1), p.Seq)

	loaded, err := repo.GetPlan(p.ID)
	require.NoError(t, err)

	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, p.Seq, loaded.Seq)
	assert.Equal(t, "Orbit CRM", loaded.Title)
	assert.Equal(t, plan.CategorySaaS, loaded.Category)
	require.NotNil(t, loaded.Market)
	assert.Equal(t, 150.0, loaded.Market.MarketSize)
	require.NotNil(t, loaded.Financials)
	assert.Equal(t, 24, loaded.Financials.BreakEvenMonths)
}

func TestGetPlanNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetPlan("does-not-exist")
	assert.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSeqIsMonotonic(t *testing.T) {
	repo := newTestRepository(t)

	first := samplePlan("First", plan.CategorySaaS)
	second := samplePlan("Second", plan.CategoryFinTech)
	third := samplePlan("Third", plan.CategoryB2B)

	require.NoError(t, repo.SavePlan(first))
	require.NoError(t, repo.SavePlan(second))
	require.NoError(t, repo.SavePlan(third))

	assert.Less(t, first.Seq, second.Seq)
	assert.Less(t, second.Seq, third.Seq)

	plans, err := repo.ListPlans()
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "First", plans[0].Title)
	assert.Equal(t, "Third", plans[2].Title)

	count, err := repo.CountPlans()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestSaveAndGetEvaluation(t *testing.T) {
	repo := newTestRepository(t)

	p := samplePlan("Evaluated", plan.CategoryAIML)
	require.NoError(t, repo.SavePlan(p))

	result := evaluation.Evaluate(p)
	require.NoError(t, repo.SaveEvaluation(&result))

	loaded, err := repo.GetEvaluation(p.ID, evaluation.RubricVersion)
	require.NoError(t, err)

	assert.Equal(t, p.ID, loaded.PlanID)
	assert.Equal(t, result.Composite, loaded.Composite)
	assert.Equal(t, result.Feasibility, loaded.Feasibility)
	assert.Equal(t, result.Weights, loaded.Weights)
	assert.Len(t, loaded.Criteria, len(result.Criteria))
	assert.Len(t, loaded.Findings, len(result.Findings))
}

func TestEvaluationUpsert(t *testing.T) {
	repo := newTestRepository(t)

	p := samplePlan("Re-evaluated", plan.CategorySaaS)
	require.NoError(t, repo.SavePlan(p))

	result := evaluation.Evaluate(p)
	require.NoError(t, repo.SaveEvaluation(&result))

	// A richer plan re-evaluated under the same rubric version replaces
	// the stored row instead of duplicating it.
	p.TeamRequirements = []string{"CEO", "CTO", "Head of Sales"}
	updated := evaluation.Evaluate(p)
	require.NoError(t, repo.SaveEvaluation(&updated))

	loaded, err := repo.GetEvaluation(p.ID, evaluation.RubricVersion)
	require.NoError(t, err)
	assert.Equal(t, updated.Composite, loaded.Composite)

	population, err := repo.ListEvaluated(evaluation.RubricVersion)
	require.NoError(t, err)
	assert.Len(t, population, 1)
}

func TestGetEvaluationNotFound(t *testing.T) {
	repo := newTestRepository(t)

	p := samplePlan("Unevaluated", plan.CategorySaaS)
	require.NoError(t, repo.SavePlan(p))

	_, err := repo.GetEvaluation(p.ID, evaluation.RubricVersion)
	assert.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListEvaluated(t *testing.T) {
	repo := newTestRepository(t)

	evaluatedPlan := samplePlan("Scored", plan.CategorySaaS)
	require.NoError(t, repo.SavePlan(evaluatedPlan))
	result := evaluation.Evaluate(evaluatedPlan)
	require.NoError(t, repo.SaveEvaluation(&result))

	// No evaluation row, must not appear in the population.
	unevaluated := samplePlan("Unscored", plan.CategoryFinTech)
	require.NoError(t, repo.SavePlan(unevaluated))

	population, err := repo.ListEvaluated(evaluation.RubricVersion)
	require.NoError(t, err)
	require.Len(t, population, 1)

	assert.Equal(t, evaluatedPlan.ID, population[0].Plan.ID)
	assert.Equal(t, evaluatedPlan.Seq, population[0].Plan.Seq)
	assert.Equal(t, result.Composite, population[0].Result.Composite)

	// Unknown rubric versions yield an empty population, not an error.
	empty, err := repo.ListEvaluated(999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
