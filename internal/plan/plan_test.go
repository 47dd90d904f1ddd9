package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Category
		ok       bool
	}{
		{name: "exact SaaS", input: "SaaS", expected: CategorySaaS, ok: true},
		{name: "exact AI/ML", input: "AI/ML", expected: CategoryAIML, ok: true},
		{name: "exact E-commerce", input: "E-commerce", expected: CategoryECommerce, ok: true},
		{name: "case sensitive", input: "saas", ok: false},
		{name: "unknown", input: "Quantum", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCategory(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestNewAssignsIdentity(t *testing.T) {
	p := New("Test Plan", CategorySaaS)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Test Plan", p.Title)
	assert.Equal(t, CategorySaaS, p.Category)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Zero(t, p.Seq)

	other := New("Other", CategorySaaS)
	assert.NotEqual(t, p.ID, other.ID)
}

func TestDerivedRatios(t *testing.T) {
	tests := []struct {
		name       string
		financials *FinancialProjection
		checkRatio func(t *testing.T, p *BusinessPlan)
	}{
		{
			name:       "ltv cac ratio",
			financials: &FinancialProjection{CustomerLTV: 3000, CustomerCAC: 600},
			checkRatio: func(t *testing.T, p *BusinessPlan) {
				ratio, ok := p.LTVCACRatio()
				assert.True(t, ok)
				assert.InDelta(t, 5.0, ratio, 1e-9)
			},
		},
		{
			name:       "ltv cac undefined when cac is zero",
			financials: &FinancialProjection{CustomerLTV: 3000, CustomerCAC: 0},
			checkRatio: func(t *testing.T, p *BusinessPlan) {
				_, ok := p.LTVCACRatio()
				assert.False(t, ok)
			},
		},
		{
			name:       "growth ratio",
			financials: &FinancialProjection{Year1Revenue: 500_000, Year3Revenue: 5_000_000},
			checkRatio: func(t *testing.T, p *BusinessPlan) {
				ratio, ok := p.GrowthRatio()
				assert.True(t, ok)
				assert.InDelta(t, 10.0, ratio, 1e-9)
			},
		},
		{
			name:       "roi is net of the investment",
			financials: &FinancialProjection{Year5Revenue: 10_000_000, InitialInvestment: 2_000_000},
			checkRatio: func(t *testing.T, p *BusinessPlan) {
				roi, ok := p.ROI()
				assert.True(t, ok)
				assert.InDelta(t, 400.0, roi, 1e-9)
			},
		},
		{
			name:       "roi breaks even at zero",
			financials: &FinancialProjection{Year5Revenue: 2_000_000, InitialInvestment: 2_000_000},
			checkRatio: func(t *testing.T, p *BusinessPlan) {
				roi, ok := p.ROI()
				assert.True(t, ok)
				assert.InDelta(t, 0.0, roi, 1e-9)
			},
		},
		{
			name:       "roi goes negative when revenue trails investment",
			financials: &FinancialProjection{Year5Revenue: 1_000_000, InitialInvestment: 2_000_000},
			checkRatio: func(t *testing.T, p *BusinessPlan) {
				roi, ok := p.ROI()
				assert.True(t, ok)
				assert.InDelta(t, -50.0, roi, 1e-9)
			},
		},
		{
			name:       "all undefined without financials",
			financials: nil,
			checkRatio: func(t *testing.T, p *BusinessPlan) {
				_, ok := p.LTVCACRatio()
				assert.False(t, ok)
				_, ok = p.GrowthRatio()
				assert.False(t, ok)
				_, ok = p.ROI()
				assert.False(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New("Ratios", CategoryFinTech)
			p.Financials = tt.financials
			tt.checkRatio(t, p)
		})
	}
}

func TestMarkdownRendering(t *testing.T) {
	p := New("CloudMetrics Pro", CategorySaaS)
	p.ProblemStatement = "SMBs lack affordable observability tooling."
	p.Solution = "A usage-based monitoring platform."
	p.Market = &MarketAnalysis{
		MarketSize:        120,
		MarketGrowthRate:  25,
		MarketStage:       StageGrowing,
		TargetAudience:    "SMB engineering teams",
		KeySuccessFactors: []string{"pricing", "integrations"},
	}
	p.Financials = &FinancialProjection{
		Year1Revenue:      400_000,
		Year3Revenue:      4_000_000,
		Year5Revenue:      20_000_000,
		InitialInvestment: 1_500_000,
		BreakEvenMonths:   20,
		ProfitMarginYear3: 22,
		CustomerCAC:       800,
		CustomerLTV:       4800,
	}
	p.RiskFactors = []string{"incumbent pricing pressure"}

	md := p.Markdown()

	assert.True(t, strings.HasPrefix(md, "# CloudMetrics Pro\n"))
	assert.Contains(t, md, "**Category:** SaaS")
	assert.Contains(t, md, "## Market Analysis")
	assert.Contains(t, md, "$120.0M")
	assert.Contains(t, md, "| Year 5 Revenue | $20.0M |")
	assert.Contains(t, md, "| LTV/CAC | 6.0x |")
	assert.Contains(t, md, "## Risk Factors")
	assert.NotContains(t, md, "## Key Milestones")
}
