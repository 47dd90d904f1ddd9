package plan

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a business plan into one of the supported verticals.
type Category string

const (
	CategorySaaS        Category = "SaaS"
	CategoryMarketplace Category = "Marketplace"
	CategoryAIML        Category = "AI/ML"
	CategoryFinTech     Category = "FinTech"
	CategoryHealthTech  Category = "HealthTech"
	CategoryEdTech      Category = "EdTech"
	CategoryCleanTech   Category = "CleanTech"
	CategoryECommerce   Category = "E-commerce"
	CategoryConsumer    Category = "Consumer"
	CategoryB2B         Category = "B2B"
	CategoryOther       Category = "Other"
)

// Categories returns every supported category in a stable order.
func Categories() []Category {
	return []Category{
		CategorySaaS,
		CategoryMarketplace,
		CategoryAIML,
		CategoryFinTech,
		CategoryHealthTech,
		CategoryEdTech,
		CategoryCleanTech,
		CategoryECommerce,
		CategoryConsumer,
		CategoryB2B,
		CategoryOther,
	}
}

// ParseCategory matches a string against the closed category set.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// MarketStage describes where a target market sits in its lifecycle.
type MarketStage string

const (
	StageEmerging  MarketStage = "emerging"
	StageGrowing   MarketStage = "growing"
	StageMature    MarketStage = "mature"
	StageDeclining MarketStage = "declining"
)

// MarketAnalysis captures the market section of a plan. Monetary figures are
// in millions of USD, growth rate in percent per year.
type MarketAnalysis struct {
	MarketSize           float64     `json:"market_size"`
	MarketGrowthRate     float64     `json:"market_growth_rate"`
	TargetAudience       string      `json:"target_audience"`
	MarketStage          MarketStage `json:"market_stage"`
	CompetitiveLandscape string      `json:"competitive_landscape"`
	KeySuccessFactors    []string    `json:"key_success_factors"`
}

// FinancialProjection captures the financial section of a plan. Revenue and
// investment are in USD, margin in percent.
type FinancialProjection struct {
	Year1Revenue      float64 `json:"year_1_revenue"`
	Year3Revenue      float64 `json:"year_3_revenue"`
	Year5Revenue      float64 `json:"year_5_revenue"`
	InitialInvestment float64 `json:"initial_investment"`
	BreakEvenMonths   int     `json:"break_even_months"`
	ProfitMarginYear3 float64 `json:"profit_margin_year_3"`
	CustomerCAC       float64 `json:"customer_acquisition_cost"`
	CustomerLTV       float64 `json:"customer_lifetime_value"`
}

// BusinessPlan is a synthetic business plan record. Market and Financials are
// optional sections; a nil pointer means the plan never provided them.
// Plans are treated as immutable once created.
type BusinessPlan struct {
	ID       string   `json:"id" db:"id"`
	Seq      int64    `json:"seq" db:"seq"`
	Title    string   `json:"title" db:"title"`
	Category Category `json:"category" db:"category"`

	ProblemStatement string `json:"problem_statement"`
	Solution         string `json:"solution"`
	ValueProposition string `json:"value_proposition"`
	BusinessModel    string `json:"business_model"`

	Market     *MarketAnalysis      `json:"market_analysis,omitempty"`
	Financials *FinancialProjection `json:"financial_projection,omitempty"`

	KeyMilestones        []string `json:"key_milestones,omitempty"`
	TeamRequirements     []string `json:"team_requirements,omitempty"`
	RiskFactors          []string `json:"risk_factors,omitempty"`
	MitigationStrategies []string `json:"mitigation_strategies,omitempty"`
	Tags                 []string `json:"tags,omitempty"`

	Reasoning string    `json:"reasoning,omitempty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// New creates an empty plan with a fresh ID and creation timestamp. Seq is
// assigned by storage on first save.
func New(title string, category Category) *BusinessPlan {
	return &BusinessPlan{
		ID:        uuid.New().String(),
		Title:     title,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
}

// LTVCACRatio reports customer lifetime value over acquisition cost. The
// second return is false when financials are absent or CAC is non-positive.
func (p *BusinessPlan) LTVCACRatio() (float64, bool) {
	if p.Financials == nil || p.Financials.CustomerCAC <= 0 {
		return 0, false
	}
	return p.Financials.CustomerLTV / p.Financials.CustomerCAC, true
}

// GrowthRatio reports year-3 revenue over year-1 revenue. The second return
// is false when financials are absent or year-1 revenue is non-positive.
func (p *BusinessPlan) GrowthRatio() (float64, bool) {
	if p.Financials == nil || p.Financials.Year1Revenue <= 0 {
		return 0, false
	}
	return p.Financials.Year3Revenue / p.Financials.Year1Revenue, true
}

// ROI reports the net return on the initial investment at year 5 as a
// percentage, so a plan that only earns its investment back scores 0. The
// second return is false when financials are absent or investment is
// non-positive.
func (p *BusinessPlan) ROI() (float64, bool) {
	if p.Financials == nil || p.Financials.InitialInvestment <= 0 {
		return 0, false
	}
	inv := p.Financials.InitialInvestment
	return (p.Financials.Year5Revenue - inv) / inv * 100, true
}
