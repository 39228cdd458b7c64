package model

import "time"

// Stage names the sequential phases of the pipeline.
type Stage string

const (
	StageSearch   Stage = "search"
	StageDedupe   Stage = "dedupe"
	StageEnrich   Stage = "enrich"
	StageValidate Stage = "validate"
	StageTiming   Stage = "timing"
	StageScore    Stage = "score"
	StageRank     Stage = "rank"
)

// StageResult is the outcome of one pipeline stage.
type StageResult struct {
	Stage     Stage          `json:"stage"`
	Success   bool           `json:"success"`
	Leads     []*Lead        `json:"-"`
	Processed int            `json:"processed"`
	Duration  time.Duration  `json:"duration"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ExecutionResult is the structured outcome of a full pipeline run. Callers
// always receive one of these; pipeline failures are reported through the
// Success flag and Error text, never raised.
type ExecutionResult struct {
	Success   bool           `json:"success"`
	Leads     []*Lead        `json:"leads"`
	Stages    []StageResult  `json:"stages"`
	Elapsed   time.Duration  `json:"elapsed"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Summary aggregates a ranked lead list for reporting.
type Summary struct {
	TotalLeads        int            `json:"total_leads"`
	TopLeadScore      float64        `json:"top_lead_score"`
	AverageScore      float64        `json:"average_score"`
	IndustryBreakdown map[string]int `json:"industry_breakdown"`
	SignalBreakdown   map[string]int `json:"signal_breakdown"`
}

// Summarize computes counts and score aggregates over a lead list.
func Summarize(leads []*Lead) Summary {
	s := Summary{
		IndustryBreakdown: make(map[string]int),
		SignalBreakdown:   make(map[string]int),
	}
	s.TotalLeads = len(leads)

	var sum float64
	var scored int
	for _, lead := range leads {
		s.IndustryBreakdown[string(lead.Company.Industry)]++
		for _, sig := range lead.BuyingSignals {
			s.SignalBreakdown[string(sig)]++
		}
		if lead.Score == nil {
			continue
		}
		scored++
		sum += lead.Score.OverallScore
		if lead.Score.OverallScore > s.TopLeadScore {
			s.TopLeadScore = lead.Score.OverallScore
		}
	}
	if scored > 0 {
		s.AverageScore = Round2(sum / float64(scored))
	}
	return s
}
