package generator

import "github.com/ventureforge/planscope/internal/plan"

// trendThemes seeds generation with current themes per category. Only the
// verticals with strong idea pipelines are listed; requests for other
// categories still work, they just draw from the whole table.
var trendThemes = map[plan.Category][]string{
	plan.CategoryAIML: {
		"AI coaching personalization",
		"generative AI content optimization",
		"AI data privacy compliance",
		"AI code review automation",
		"AI multimodal analytics",
	},
	plan.CategoryFinTech: {
		"automated financial management for SMBs",
		"cross-border payment optimization",
		"DeFi lending platform",
		"ESG investment advisory",
		"invoice financing automation",
	},
	plan.CategoryHealthTech: {
		"remote patient monitoring",
		"AI-assisted mental health support",
		"personalized nutrition management",
		"clinic operations SaaS",
		"prescription decision support AI",
	},
	plan.CategorySaaS: {
		"talent management optimization for SMBs",
		"AI-automated project management",
		"customer support automation platform",
		"subscription revenue optimization",
		"predictive inventory management AI",
	},
	plan.CategoryCleanTech: {
		"corporate carbon footprint tracking",
		"renewable energy trading platform",
		"smart grid optimization",
		"AI waste management and recycling",
		"power consumption optimization SaaS",
	},
}

var businessModels = []string{
	"subscription model",
	"freemium model",
	"transaction fee model",
	"marketplace model",
	"enterprise licensing model",
	"usage-based pricing model",
	"hybrid model",
}

var targetMarkets = []string{
	"small businesses (10-100 employees)",
	"large enterprises (1000+ employees)",
	"venture-backed startups",
	"freelancers and solo operators",
	"industry vertical specialists",
	"general consumers (B2C)",
}

// themeCategories returns the categories with a theme pipeline, in a
// stable order for deterministic selection.
func themeCategories() []plan.Category {
	var categories []plan.Category
	for _, c := range plan.Categories() {
		if _, ok := trendThemes[c]; ok {
			categories = append(categories, c)
		}
	}
	return categories
}

// allThemes flattens the table in the same stable order, for verticals
// without a pipeline of their own.
func allThemes() []string {
	var themes []string
	for _, c := range themeCategories() {
		themes = append(themes, trendThemes[c]...)
	}
	return themes
}
