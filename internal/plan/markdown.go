package plan

import (
	"fmt"
	"strings"
)

// Markdown renders the plan as a human-readable document.
func (p *BusinessPlan) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	fmt.Fprintf(&b, "**Category:** %s\n", p.Category)
	fmt.Fprintf(&b, "**Created:** %s\n\n", p.CreatedAt.Format("2006-01-02 15:04"))

	if p.ProblemStatement != "" {
		fmt.Fprintf(&b, "## Problem\n\n%s\n\n", p.ProblemStatement)
	}
	if p.Solution != "" {
		fmt.Fprintf(&b, "## Solution\n\n%s\n\n", p.Solution)
	}
	if p.ValueProposition != "" {
		fmt.Fprintf(&b, "## Value Proposition\n\n%s\n\n", p.ValueProposition)
	}
	if p.BusinessModel != "" {
		fmt.Fprintf(&b, "## Business Model\n\n%s\n\n", p.BusinessModel)
	}

	if m := p.Market; m != nil {
		b.WriteString("## Market Analysis\n\n")
		fmt.Fprintf(&b, "- **Market Size:** $%.1fM\n", m.MarketSize)
		fmt.Fprintf(&b, "- **Growth Rate:** %.1f%% per year\n", m.MarketGrowthRate)
		fmt.Fprintf(&b, "- **Market Stage:** %s\n", m.MarketStage)
		if m.TargetAudience != "" {
			fmt.Fprintf(&b, "- **Target Audience:** %s\n", m.TargetAudience)
		}
		if m.CompetitiveLandscape != "" {
			fmt.Fprintf(&b, "- **Competitive Landscape:** %s\n", m.CompetitiveLandscape)
		}
		if len(m.KeySuccessFactors) > 0 {
			fmt.Fprintf(&b, "- **Key Success Factors:** %s\n", strings.Join(m.KeySuccessFactors, ", "))
		}
		b.WriteString("\n")
	}

	if f := p.Financials; f != nil {
		b.WriteString("## Financial Projections\n\n")
		b.WriteString("| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Year 1 Revenue | $%s |\n", formatMoney(f.Year1Revenue))
		fmt.Fprintf(&b, "| Year 3 Revenue | $%s |\n", formatMoney(f.Year3Revenue))
		fmt.Fprintf(&b, "| Year 5 Revenue | $%s |\n", formatMoney(f.Year5Revenue))
		fmt.Fprintf(&b, "| Initial Investment | $%s |\n", formatMoney(f.InitialInvestment))
		fmt.Fprintf(&b, "| Break-even | %d months |\n", f.BreakEvenMonths)
		fmt.Fprintf(&b, "| Year 3 Profit Margin | %.1f%% |\n", f.ProfitMarginYear3)
		fmt.Fprintf(&b, "| CAC | $%s |\n", formatMoney(f.CustomerCAC))
		fmt.Fprintf(&b, "| LTV | $%s |\n", formatMoney(f.CustomerLTV))
		if ratio, ok := p.LTVCACRatio(); ok {
			fmt.Fprintf(&b, "| LTV/CAC | %.1fx |\n", ratio)
		}
		b.WriteString("\n")
	}

	writeList(&b, "Key Milestones", p.KeyMilestones)
	writeList(&b, "Team Requirements", p.TeamRequirements)
	writeList(&b, "Risk Factors", p.RiskFactors)
	writeList(&b, "Mitigation Strategies", p.MitigationStrategies)

	if p.Reasoning != "" {
		fmt.Fprintf(&b, "## Reasoning\n\n%s\n\n", p.Reasoning)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(p.Tags, ", "))
	}

	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func formatMoney(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.0fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
