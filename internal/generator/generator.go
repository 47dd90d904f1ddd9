package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ventureforge/planscope/internal/plan"
)

// Client produces a completion for a prompt. Implementations wrap an LLM
// provider; a nil client means generation runs purely on the fallback.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Source records where a generated plan came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Generator synthesizes business plans. LLM output is preferred; any
// transport or parse failure degrades to the deterministic fallback so a
// generate request never fails outright.
type Generator struct {
	client Client

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a generator. client may be nil to run fallback-only.
func New(client Client) *Generator {
	return &Generator{
		client: client,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// planPayload mirrors the JSON schema the prompt asks for.
type planPayload struct {
	Title            string `json:"title"`
	Category         string `json:"category,omitempty"`
	ProblemStatement string `json:"problem_statement"`
	Solution         string `json:"solution"`
	ValueProposition string `json:"value_proposition"`
	BusinessModel    string `json:"business_model"`

	MarketAnalysis      *marketPayload    `json:"market_analysis"`
	FinancialProjection *financialPayload `json:"financial_projection"`

	KeyMilestones        []string `json:"key_milestones"`
	TeamRequirements     []string `json:"team_requirements"`
	RiskFactors          []string `json:"risk_factors"`
	MitigationStrategies []string `json:"mitigation_strategies"`
	Reasoning            string   `json:"reasoning"`
	Tags                 []string `json:"tags"`
}

type marketPayload struct {
	MarketSize           float64  `json:"market_size"`
	MarketGrowthRate     float64  `json:"market_growth_rate"`
	TargetAudience       string   `json:"target_audience"`
	MarketStage          string   `json:"market_stage"`
	CompetitiveLandscape string   `json:"competitive_landscape"`
	KeySuccessFactors    []string `json:"key_success_factors"`
}

type financialPayload struct {
	Year1Revenue      float64 `json:"year1_revenue"`
	Year3Revenue      float64 `json:"year3_revenue"`
	Year5Revenue      float64 `json:"year5_revenue"`
	InitialInvestment float64 `json:"initial_investment"`
	BreakEvenMonths   int     `json:"break_even_months"`
	ProfitMarginYear3 float64 `json:"profit_margin_year3"`
	CustomerCAC       float64 `json:"customer_cac"`
	CustomerLTV       float64 `json:"customer_ltv"`
}

// Generate produces one new plan. category may be empty to let the
// generator pick a trending vertical. existing plans steer the prompt away
// from duplicate titles.
func (g *Generator) Generate(ctx context.Context, category plan.Category, existing []*plan.BusinessPlan) (*plan.BusinessPlan, Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	category, theme, model, market := g.selectTheme(category)

	payload, source := g.resolvePayload(ctx, category, theme, model, market, existing)

	p := plan.New(payload.Title, category)
	p.ProblemStatement = payload.ProblemStatement
	p.Solution = payload.Solution
	p.ValueProposition = payload.ValueProposition
	p.BusinessModel = payload.BusinessModel
	p.KeyMilestones = payload.KeyMilestones
	p.TeamRequirements = payload.TeamRequirements
	p.RiskFactors = payload.RiskFactors
	p.MitigationStrategies = payload.MitigationStrategies
	p.Reasoning = payload.Reasoning
	p.Tags = payload.Tags

	if m := payload.MarketAnalysis; m != nil {
		stage := plan.MarketStage(m.MarketStage)
		switch stage {
		case plan.StageEmerging, plan.StageGrowing, plan.StageMature, plan.StageDeclining:
		default:
			stage = plan.StageGrowing
		}
		p.Market = &plan.MarketAnalysis{
			MarketSize:           m.MarketSize,
			MarketGrowthRate:     m.MarketGrowthRate,
			TargetAudience:       m.TargetAudience,
			MarketStage:          stage,
			CompetitiveLandscape: m.CompetitiveLandscape,
			KeySuccessFactors:    m.KeySuccessFactors,
		}
	}

	if f := payload.FinancialProjection; f != nil {
		p.Financials = &plan.FinancialProjection{
			Year1Revenue:      f.Year1Revenue,
			Year3Revenue:      f.Year3Revenue,
			Year5Revenue:      f.Year5Revenue,
			InitialInvestment: f.InitialInvestment,
			BreakEvenMonths:   f.BreakEvenMonths,
			ProfitMarginYear3: f.ProfitMarginYear3,
			CustomerCAC:       f.CustomerCAC,
			CustomerLTV:       f.CustomerLTV,
		}
	}

	return p, source, nil
}

// resolvePayload tries the LLM first and falls back on any failure.
func (g *Generator) resolvePayload(ctx context.Context, category plan.Category, theme, model, market string, existing []*plan.BusinessPlan) (*planPayload, Source) {
	if g.client == nil {
		return g.fallbackPayload(category, theme, model, market), SourceFallback
	}

	prompt := buildPrompt(category, theme, model, market, existing)

	raw, err := g.client.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("LLM completion failed, using fallback plan",
			"category", category, "theme", theme, "error", err)
		return g.fallbackPayload(category, theme, model, market), SourceFallback
	}

	payload, err := parsePayload(raw)
	if err != nil {
		slog.Warn("LLM response was not valid plan JSON, using fallback plan",
			"category", category, "theme", theme, "error", err)
		return g.fallbackPayload(category, theme, model, market), SourceFallback
	}

	return payload, SourceLLM
}

// selectTheme picks the vertical and narrative seeds. An empty category
// means a random trending vertical; a named category is always kept, and
// verticals without their own pipeline draw a theme from the whole table.
func (g *Generator) selectTheme(category plan.Category) (plan.Category, string, string, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if category == "" {
		categories := themeCategories()
		category = categories[g.rng.Intn(len(categories))]
	}

	themes, ok := trendThemes[category]
	if !ok {
		themes = allThemes()
	}

	theme := themes[g.rng.Intn(len(themes))]
	model := businessModels[g.rng.Intn(len(businessModels))]
	market := targetMarkets[g.rng.Intn(len(targetMarkets))]
	return category, theme, model, market
}

func buildPrompt(category plan.Category, theme, model, market string, existing []*plan.BusinessPlan) string {
	var b strings.Builder

	b.WriteString("You are an experienced entrepreneur and business consultant. ")
	b.WriteString("Create a business plan that is both attractive to investors and realistic to execute.\n\n")
	fmt.Fprintf(&b, "Theme: %s\nCategory: %s\nBusiness model: %s\nTarget market: %s\n\n", theme, category, model, market)

	b.WriteString(`Respond with pure JSON only (no markdown) in this shape:

{
  "title": "concise, memorable business name",
  "problem_statement": "clear problem framing (3-4 sentences)",
  "solution": "concrete solution (3-4 sentences)",
  "value_proposition": "value proposition with numbers (2-3 sentences)",
  "business_model": "how the business model works in detail",
  "market_analysis": {
    "market_size": <market size in millions of USD>,
    "market_growth_rate": <annual growth rate percent>,
    "target_audience": "specific target segment",
    "market_stage": "emerging|growing|mature|declining",
    "competitive_landscape": "competitive analysis (3-4 sentences)",
    "key_success_factors": ["factor 1", "factor 2", "factor 3", "factor 4"]
  },
  "financial_projection": {
    "year1_revenue": <USD>,
    "year3_revenue": <USD>,
    "year5_revenue": <USD>,
    "initial_investment": <USD>,
    "break_even_months": <months>,
    "profit_margin_year3": <percent>,
    "customer_cac": <USD>,
    "customer_ltv": <USD>
  },
  "key_milestones": ["milestone 1", "milestone 2", "milestone 3", "milestone 4"],
  "team_requirements": ["role 1", "role 2", "role 3", "role 4", "role 5"],
  "risk_factors": ["risk 1", "risk 2", "risk 3"],
  "mitigation_strategies": ["mitigation 1", "mitigation 2", "mitigation 3"],
  "reasoning": "why this business succeeds (3-4 sentences)",
  "tags": ["tag 1", "tag 2", "tag 3"]
}

Constraints:
- Ground the market size in real market data
- Keep the LTV/CAC ratio at 3x or better
- Break even within 18-36 months
- Financials should be realistic yet compelling to investors
`)

	if titles := existingTitles(existing); len(titles) > 0 {
		fmt.Fprintf(&b, "\nAvoid duplicating these existing plans: %s\n", strings.Join(titles, "; "))
	}

	b.WriteString("\nOutput the JSON only.")
	return b.String()
}

func existingTitles(existing []*plan.BusinessPlan) []string {
	// Cap the list so the prompt stays bounded as the population grows.
	const maxTitles = 25

	titles := make([]string, 0, len(existing))
	for _, p := range existing {
		titles = append(titles, p.Title)
		if len(titles) == maxTitles {
			break
		}
	}
	return titles
}

// parsePayload extracts the plan JSON from a raw completion, stripping a
// markdown code fence if the model added one.
func parsePayload(raw string) (*planPayload, error) {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		lines := strings.Split(raw, "\n")
		if len(lines) >= 2 {
			raw = strings.Join(lines[1:], "\n")
			if idx := strings.LastIndex(raw, "```"); idx >= 0 {
				raw = raw[:idx]
			}
		}
	}

	var payload planPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("parsing plan payload: %w", err)
	}
	if payload.Title == "" {
		return nil, fmt.Errorf("plan payload missing title")
	}

	return &payload, nil
}

// fallbackPayload builds a synthetic plan from the theme tables. Numbers are
// drawn from the same ranges the prompt asks the model to stay within.
func (g *Generator) fallbackPayload(category plan.Category, theme, model, market string) *planPayload {
	g.mu.Lock()
	defer g.mu.Unlock()

	payload := &planPayload{
		Title:            fmt.Sprintf("%s - %s", theme, model),
		Category:         string(category),
		ProblemStatement: fmt.Sprintf("%s currently rely on manual processes and fragmented systems, wasting time and resources that could fund growth. The lack of integrated tooling keeps operating costs high and decision quality low.", market),
		Solution:         fmt.Sprintf("A %s platform built on AI and automation, delivered as a turnkey service for %s.", theme, market),
		ValueProposition: fmt.Sprintf("A %s solution that cuts time spent by 80%% and costs by 50%%.", theme),
		BusinessModel:    model,
		KeyMilestones: []string{
			"MVP launch (3 months)",
			"first 10 customers (6 months)",
			"seed round closed (12 months)",
			"feature expansion and market growth (18 months)",
		},
		TeamRequirements: []string{
			"CEO / business lead",
			"CTO / technical lead",
			"AI engineer",
			"product manager",
			"sales and marketing",
		},
		RiskFactors: []string{
			"technical execution risk",
			"uncertain market adoption",
			"competitive entrants",
		},
		MitigationStrategies: []string{
			"staged development approach",
			"close collaboration with early customers",
			"continuous product iteration",
		},
		Reasoning: fmt.Sprintf("%s for %s addresses a clear market need and monetizes through a proven %s.", theme, market, model),
		Tags:      []string{strings.ToLower(theme), strings.ToLower(string(category)), strings.ToLower(model)},
	}

	payload.MarketAnalysis = &marketPayload{
		MarketSize:           float64(10 + g.rng.Intn(991)),
		MarketGrowthRate:     float64(10 + g.rng.Intn(31)),
		TargetAudience:       market,
		MarketStage:          string(plan.StageGrowing),
		CompetitiveLandscape: "competitors exist but AI-driven differentiation is achievable",
		KeySuccessFactors: []string{
			"user experience optimization",
			"model accuracy improvements",
			"customer acquisition cost discipline",
			"partnership development",
		},
	}

	payload.FinancialProjection = &financialPayload{
		Year1Revenue:      float64((100 + g.rng.Intn(901)) * 1_000),
		Year3Revenue:      float64((5 + g.rng.Intn(46)) * 1_000_000),
		Year5Revenue:      float64((20 + g.rng.Intn(181)) * 1_000_000),
		InitialInvestment: float64((500 + g.rng.Intn(4501)) * 1_000),
		BreakEvenMonths:   18 + g.rng.Intn(19),
		ProfitMarginYear3: float64(20 + g.rng.Intn(21)),
		CustomerCAC:       float64(500 + g.rng.Intn(4501)),
		CustomerLTV:       float64(3000 + g.rng.Intn(27001)),
	}

	return payload
}
