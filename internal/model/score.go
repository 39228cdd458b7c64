package model

import "math"

// Score weights: 40% fit, 35% intent, 25% timing.
const (
	WeightFit    = 0.40
	WeightIntent = 0.35
	WeightTiming = 0.25
)

// LeadScore holds the weighted scoring result for a lead. All values are on a
// 0-100 scale and rounded to two decimal places.
type LeadScore struct {
	OverallScore float64 `json:"overall_score"`
	FitScore     float64 `json:"fit_score"`    // ICP match
	IntentScore  float64 `json:"intent_score"` // buying-signal strength
	TimingScore  float64 `json:"timing_score"` // urgency

	// Breakdown
	IndustryFit      float64 `json:"industry_fit"`
	SizeFit          float64 `json:"size_fit"`
	TechnologyFit    float64 `json:"technology_fit"`
	BudgetLikelihood float64 `json:"budget_likelihood"`

	ScoringFactors map[string]any `json:"scoring_factors,omitempty"`
}

// ComposeOverall applies the fit/intent/timing weighting and rounds to two
// decimal places. The engine always derives the overall score this way.
func ComposeOverall(fit, intent, timing float64) float64 {
	return Round2(WeightFit*fit + WeightIntent*intent + WeightTiming*timing)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
