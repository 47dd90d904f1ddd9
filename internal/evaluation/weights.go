package evaluation

import (
	"github.com/ventureforge/planscope/internal/errors"
	"github.com/ventureforge/planscope/internal/plan"
)

// WeightProfile distributes emphasis across the three axes for one category.
// Each profile sums to 1.0.
type WeightProfile struct {
	Feasibility   float64 `json:"feasibility"`
	Profitability float64 `json:"profitability"`
	Innovation    float64 `json:"innovation"`
}

// Sum returns the total weight, used to validate profile tables.
func (w WeightProfile) Sum() float64 {
	return w.Feasibility + w.Profitability + w.Innovation
}

// defaultProfile applies to CategoryOther and any category missing from the
// table.
var defaultProfile = WeightProfile{Feasibility: 0.35, Profitability: 0.45, Innovation: 0.20}

// categoryProfiles is read-only after init. Changing a category's emphasis
// means editing one row here and bumping RubricVersion.
var categoryProfiles = map[plan.Category]WeightProfile{
	plan.CategorySaaS:        {Feasibility: 0.35, Profitability: 0.45, Innovation: 0.20},
	plan.CategoryMarketplace: {Feasibility: 0.30, Profitability: 0.50, Innovation: 0.20},
	plan.CategoryAIML:        {Feasibility: 0.30, Profitability: 0.40, Innovation: 0.30},
	plan.CategoryFinTech:     {Feasibility: 0.40, Profitability: 0.40, Innovation: 0.20},
	plan.CategoryHealthTech:  {Feasibility: 0.40, Profitability: 0.35, Innovation: 0.25},
	plan.CategoryEdTech:      {Feasibility: 0.35, Profitability: 0.40, Innovation: 0.25},
	plan.CategoryCleanTech:   {Feasibility: 0.30, Profitability: 0.40, Innovation: 0.30},
	plan.CategoryECommerce:   {Feasibility: 0.35, Profitability: 0.50, Innovation: 0.15},
	plan.CategoryConsumer:    {Feasibility: 0.30, Profitability: 0.50, Innovation: 0.20},
	plan.CategoryB2B:         {Feasibility: 0.40, Profitability: 0.45, Innovation: 0.15},
	plan.CategoryOther:       {Feasibility: 0.35, Profitability: 0.45, Innovation: 0.20},
}

// Resolve returns the weight profile for a category, falling back to the
// default for anything outside the table. It never fails.
func Resolve(category plan.Category) WeightProfile {
	if profile, ok := categoryProfiles[category]; ok {
		return profile
	}
	return defaultProfile
}

// ProfileFor is the strict lookup for callers that must reject unknown
// categories instead of defaulting.
func ProfileFor(category plan.Category) (WeightProfile, error) {
	if profile, ok := categoryProfiles[category]; ok {
		return profile, nil
	}
	return WeightProfile{}, errors.NewInvalidCategoryError(string(category))
}
