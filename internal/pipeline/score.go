package pipeline

import (
	"github.com/sells-group/leadgen-cli/internal/model"
)

// intentWeights are per-signal contributions to the intent score.
// Unrecognized signals contribute a nominal 5 points.
var intentWeights = map[model.BuyingSignal]float64{
	model.SignalRFPPublished:       30,
	model.SignalRegulatoryDeadline: 25,
	model.SignalJobPosting:         20,
	model.SignalExecutiveChange:    15,
	model.SignalRecentFunding:      15,
	model.SignalTechInitiative:     10,
	model.SignalPartnership:        10,
}

// Score computes the composite lead score. Fit (40%) covers industry, size,
// and technology alignment; intent (35%) weighs detected buying signals;
// timing (25%) is read from the timing analysis, defaulting to neutral when
// the analysis did not run. Scoring is deterministic for a given lead.
func Score(lead *model.Lead) *model.LeadScore {
	industryFit := scoreIndustryFit(lead)
	sizeFit := scoreSizeFit(lead)
	technologyFit := scoreTechnologyFit(lead)
	fit := (industryFit + sizeFit + technologyFit) / 3

	intent := scoreIntent(lead)
	timing := timingScoreOf(lead)

	return &model.LeadScore{
		OverallScore:     model.ComposeOverall(fit, intent, timing),
		FitScore:         model.Round2(fit),
		IntentScore:      model.Round2(intent),
		TimingScore:      model.Round2(timing),
		IndustryFit:      model.Round2(industryFit),
		SizeFit:          model.Round2(sizeFit),
		TechnologyFit:    model.Round2(technologyFit),
		BudgetLikelihood: model.Round2((sizeFit + intent) / 2),
		ScoringFactors: map[string]any{
			"buying_signals_count": len(lead.BuyingSignals),
			"data_sources_count":   len(lead.DataSources),
			"has_contacts":         len(lead.Contacts) > 0,
			"is_enriched":          lead.IsEnriched,
			"is_validated":         lead.IsValidated,
		},
	}
}

func scoreIndustryFit(lead *model.Lead) float64 {
	for _, target := range model.TargetIndustries() {
		if lead.Company.Industry == target {
			return 100
		}
	}
	if lead.Company.Industry == model.IndustryUnknown {
		return 50
	}
	return 25
}

func scoreSizeFit(lead *model.Lead) float64 {
	if n := lead.Company.EmployeeCount; n > 0 {
		switch {
		case n >= 5000:
			return 100
		case n >= 1000:
			return 80
		case n >= 500:
			return 60
		case n >= 100:
			return 40
		default:
			return 20
		}
	}

	if lead.Company.Size != "" {
		switch lead.Company.Size {
		case "Enterprise":
			return 100
		case "Large":
			return 80
		case "Medium":
			return 60
		case "Small":
			return 30
		default:
			return 50
		}
	}

	return 50
}

func scoreTechnologyFit(lead *model.Lead) float64 {
	score := 50.0
	tech := lead.Company.Technology
	if tech == nil {
		return score
	}

	if tech.LegacySystems {
		score += 30
	}
	if tech.CloudMigration {
		score += 15
	}
	if n := len(tech.Initiatives); n > 0 {
		score += 10 * float64(min(n, 3))
	}
	return min(score, 100)
}

func scoreIntent(lead *model.Lead) float64 {
	if len(lead.BuyingSignals) == 0 {
		return 30
	}

	total := 0.0
	for _, signal := range lead.BuyingSignals {
		weight, ok := intentWeights[signal]
		if !ok {
			weight = 5
		}
		total += weight
	}

	if len(lead.BuyingSignals) > 2 {
		total *= 1.2
	}
	return min(total, 100)
}

// timingScoreOf reads the timing analysis result off the lead, defaulting to
// a neutral 50 when absent.
func timingScoreOf(lead *model.Lead) float64 {
	switch v := lead.Metadata["timing_score"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 50
}
