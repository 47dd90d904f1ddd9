package generator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ventureforge/planscope/internal/plan"
)

// stubClient returns a canned completion or error.
type stubClient struct {
	response string
	err      error
	prompts  []string
}

func (s *stubClient) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const validResponse = `{
  "title": "GridPulse",
  "problem_statement": "Industrial sites overpay for power because consumption is opaque.",
  "solution": "A smart grid optimization platform with automated load shifting.",
  "value_proposition": "Cuts energy spend by 30%.",
  "business_model": "subscription model",
  "market_analysis": {
    "market_size": 250,
    "market_growth_rate": 28,
    "target_audience": "industrial operators",
    "market_stage": "growing",
    "competitive_landscape": "fragmented incumbents",
    "key_success_factors": ["hardware partnerships", "utility integrations"]
  },
  "financial_projection": {
    "year1_revenue": 500000,
    "year3_revenue": 8000000,
    "year5_revenue": 45000000,
    "initial_investment": 2000000,
    "break_even_months": 22,
    "profit_margin_year3": 25,
    "customer_cac": 4000,
    "customer_ltv": 20000
  },
  "key_milestones": ["pilot deployments"],
  "team_requirements": ["CEO", "CTO", "grid engineer"],
  "risk_factors": ["utility procurement cycles"],
  "mitigation_strategies": ["channel partnerships"],
  "reasoning": "Energy prices and regulation both push adoption.",
  "tags": ["energy", "cleantech"]
}`

func TestGenerateFromLLM(t *testing.T) {
	client := &stubClient{response: validResponse}
	g := New(client)

	p, source, err := g.Generate(context.Background(), plan.CategoryCleanTech, nil)

	assert.NoError(t, err)
	assert.Equal(t, SourceLLM, source)
	assert.Equal(t, "GridPulse", p.Title)
	assert.Equal(t, plan.CategoryCleanTech, p.Category)
	assert.NotEmpty(t, p.ID)

	if assert.NotNil(t, p.Market) {
		assert.Equal(t, 250.0, p.Market.MarketSize)
		assert.Equal(t, plan.StageGrowing, p.Market.MarketStage)
	}
	if assert.NotNil(t, p.Financials) {
		assert.Equal(t, 22, p.Financials.BreakEvenMonths)
		assert.Equal(t, 45_000_000.0, p.Financials.Year5Revenue)
	}
}

func TestGenerateStripsCodeFence(t *testing.T) {
	client := &stubClient{response: "```json\n" + validResponse + "\n```"}
	g := New(client)

	p, source, err := g.Generate(context.Background(), plan.CategoryCleanTech, nil)

	assert.NoError(t, err)
	assert.Equal(t, SourceLLM, source)
	assert.Equal(t, "GridPulse", p.Title)
}

func TestGenerateFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		client Client
	}{
		{name: "client error", client: &stubClient{err: fmt.Errorf("connection refused")}},
		{name: "unparseable response", client: &stubClient{response: "I cannot produce JSON today."}},
		{name: "missing title", client: &stubClient{response: `{"problem_statement": "x"}`}},
		{name: "no client at all", client: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.client)

			p, source, err := g.Generate(context.Background(), plan.CategorySaaS, nil)

			assert.NoError(t, err)
			assert.Equal(t, SourceFallback, source)
			assert.Equal(t, plan.CategorySaaS, p.Category)
			assert.NotEmpty(t, p.Title)
			assert.NotEmpty(t, p.ProblemStatement)

			if assert.NotNil(t, p.Market) {
				assert.GreaterOrEqual(t, p.Market.MarketSize, 10.0)
				assert.LessOrEqual(t, p.Market.MarketSize, 1000.0)
				assert.Equal(t, plan.StageGrowing, p.Market.MarketStage)
			}
			if assert.NotNil(t, p.Financials) {
				assert.GreaterOrEqual(t, p.Financials.BreakEvenMonths, 18)
				assert.LessOrEqual(t, p.Financials.BreakEvenMonths, 36)
				assert.Positive(t, p.Financials.CustomerCAC)
				assert.Positive(t, p.Financials.CustomerLTV)
			}
		})
	}
}

func TestGenerateEmptyCategoryPicksTrendingVertical(t *testing.T) {
	g := New(nil)

	p, _, err := g.Generate(context.Background(), "", nil)
	assert.NoError(t, err)
	assert.Contains(t, themeCategories(), p.Category)
}

func TestGenerateKeepsCategoryWithoutThemePipeline(t *testing.T) {
	for _, category := range []plan.Category{plan.CategoryMarketplace, plan.CategoryEdTech, plan.CategoryOther} {
		t.Run(string(category), func(t *testing.T) {
			g := New(nil)

			p, source, err := g.Generate(context.Background(), category, nil)
			assert.NoError(t, err)
			assert.Equal(t, SourceFallback, source)
			assert.Equal(t, category, p.Category)
		})
	}
}

func TestSelectThemeDrawsFromWholeTableWithoutPipeline(t *testing.T) {
	g := New(nil)

	category, theme, _, _ := g.selectTheme(plan.CategoryEdTech)
	assert.Equal(t, plan.CategoryEdTech, category)
	assert.Contains(t, allThemes(), theme)
}

func TestGenerateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(nil)
	_, _, err := g.Generate(ctx, plan.CategorySaaS, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptMentionsExistingTitles(t *testing.T) {
	client := &stubClient{response: validResponse}
	g := New(client)

	existing := []*plan.BusinessPlan{
		plan.New("Atlas Health AI", plan.CategoryHealthTech),
		plan.New("GridPulse", plan.CategoryCleanTech),
	}

	_, _, err := g.Generate(context.Background(), plan.CategorySaaS, existing)
	assert.NoError(t, err)

	if assert.Len(t, client.prompts, 1) {
		assert.Contains(t, client.prompts[0], "Atlas Health AI")
		assert.Contains(t, client.prompts[0], "GridPulse")
		assert.Contains(t, client.prompts[0], "SaaS")
	}
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expectErr bool
		title     string
	}{
		{name: "plain json", raw: `{"title": "X"}`, title: "X"},
		{name: "fenced json", raw: "```json\n{\"title\": \"X\"}\n```", title: "X"},
		{name: "fenced no language", raw: "```\n{\"title\": \"X\"}\n```", title: "X"},
		{name: "surrounding whitespace", raw: "\n  {\"title\": \"X\"}  \n", title: "X"},
		{name: "not json", raw: "hello", expectErr: true},
		{name: "empty title", raw: `{"title": ""}`, expectErr: true},
		{name: "empty input", raw: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := parsePayload(tt.raw)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.title, payload.Title)
		})
	}
}

func TestFallbackInvalidStageNormalized(t *testing.T) {
	client := &stubClient{response: `{
		"title": "Odd Stage",
		"market_analysis": {"market_size": 10, "market_growth_rate": 5, "market_stage": "hypergrowth"}
	}`}
	g := New(client)

	p, source, err := g.Generate(context.Background(), plan.CategorySaaS, nil)

	assert.NoError(t, err)
	assert.Equal(t, SourceLLM, source)
	assert.Equal(t, plan.StageGrowing, p.Market.MarketStage)
}
