package pipeline

import (
	"context"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/source"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// timingWeights are per-signal urgency contributions to the timing score.
// Unrecognized signals contribute a nominal 5 points.
var timingWeights = map[model.BuyingSignal]float64{
	model.SignalRFPPublished:       30,
	model.SignalRegulatoryDeadline: 25,
	model.SignalJobPosting:         20,
	model.SignalExecutiveChange:    15,
	model.SignalRecentFunding:      15,
	model.SignalTechInitiative:     10,
	model.SignalPartnership:        10,
}

// executiveKeywords mark a leadership story as a recent appointment rather
// than historical coverage.
var executiveKeywords = []string{"joins", "appointed", "names", "announces"}

// techLeadershipTitles are probed in order when looking for hiring evidence;
// the first title with results wins.
var techLeadershipTitles = []string{"CTO", "CIO", "VP Technology", "Director IT", "Chief Digital Officer"}

// SignalDetector finds one class of timing evidence and attaches any signals
// and details to the lead in place.
type SignalDetector interface {
	Detect(ctx context.Context, lead *model.Lead)
}

// TimingAnalyzer runs signal detectors over a lead and derives an urgency
// score that the scoring stage later consumes.
type TimingAnalyzer struct {
	detectors []SignalDetector
}

// NewTimingAnalyzer creates an analyzer with the standard detector set:
// technology leadership hiring, executive changes, and modernization
// announcements.
func NewTimingAnalyzer(search *source.WebSearch) *TimingAnalyzer {
	return &TimingAnalyzer{
		detectors: []SignalDetector{
			&jobPostingDetector{search: search},
			&executiveChangeDetector{search: search},
			&announcementDetector{search: search},
		},
	}
}

// Analyze runs every detector on the lead, then computes and stores the
// timing score, urgency level, and recommended action in its metadata.
func (a *TimingAnalyzer) Analyze(ctx context.Context, lead *model.Lead) {
	for _, d := range a.detectors {
		d.Detect(ctx, lead)
	}

	score := timingScore(lead)
	lead.SetMeta("timing_score", score)
	lead.SetMeta("timing_analysis", map[string]any{
		"signals_detected":   signalValues(lead),
		"urgency_level":      urgencyLevel(score),
		"recommended_action": recommendedAction(score),
	})
	lead.Touch()
}

// timingScore sums per-signal weights, boosts dense signal sets by 20%, and
// caps at 100.
func timingScore(lead *model.Lead) float64 {
	total := 0.0
	for _, signal := range lead.BuyingSignals {
		weight, ok := timingWeights[signal]
		if !ok {
			weight = 5
		}
		total += weight
	}

	if len(lead.BuyingSignals) > 3 {
		total *= 1.2
	}
	return min(total, 100)
}

func urgencyLevel(score float64) string {
	switch {
	case score >= 70:
		return "VERY HIGH"
	case score >= 50:
		return "HIGH"
	case score >= 30:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func recommendedAction(score float64) string {
	switch {
	case score >= 70:
		return "IMMEDIATE OUTREACH - High urgency signals detected"
	case score >= 50:
		return "PRIORITIZE - Strong buying signals present"
	case score >= 30:
		return "ENGAGE - Moderate opportunity window"
	default:
		return "NURTURE - Monitor for stronger signals"
	}
}

func signalValues(lead *model.Lead) []string {
	out := make([]string, 0, len(lead.BuyingSignals))
	for _, s := range lead.BuyingSignals {
		out = append(out, string(s))
	}
	return out
}

// jobPostingDetector looks for open technology leadership roles on the major
// job boards, stopping at the first title with hits.
type jobPostingDetector struct {
	search *source.WebSearch
}

func (d *jobPostingDetector) Detect(ctx context.Context, lead *model.Lead) {
	for _, title := range techLeadershipTitles {
		query := lead.Company.Name + " hiring " + title + " site:linkedin.com OR site:indeed.com"
		results := d.search.Search(ctx, query, 3)
		if len(results) == 0 {
			continue
		}

		lead.AddSignal(model.SignalJobPosting)
		existing, _ := lead.SignalDetails["job_postings"].([]serper.Result)
		lead.SetDetail("job_postings", append(existing, results...))
		return
	}
}

// executiveChangeDetector looks for recent technology leadership
// appointments. Coverage counts only when phrased as a fresh appointment.
type executiveChangeDetector struct {
	search *source.WebSearch
}

func (d *executiveChangeDetector) Detect(ctx context.Context, lead *model.Lead) {
	query := lead.Company.Name + " new CTO OR CIO OR 'Chief Technology Officer' OR 'Chief Information Officer'"
	results := d.search.Search(ctx, query, 5)
	if len(results) == 0 {
		return
	}

	var recent []serper.Result
	for _, r := range results {
		snippet := strings.ToLower(r.Snippet)
		for _, kw := range executiveKeywords {
			if strings.Contains(snippet, kw) {
				recent = append(recent, r)
				break
			}
		}
	}
	if len(recent) == 0 {
		return
	}

	lead.AddSignal(model.SignalExecutiveChange)
	lead.SetDetail("executive_changes", recent)
}

// announcementDetector records modernization announcements as evidence
// without adding a buying signal; the discovery stage already credits
// technology initiatives.
type announcementDetector struct {
	search *source.WebSearch
}

func (d *announcementDetector) Detect(ctx context.Context, lead *model.Lead) {
	query := lead.Company.Name + " announces technology modernization digital transformation"
	results := d.search.Search(ctx, query, 5)
	if len(results) > 0 {
		lead.SetDetail("recent_announcements", results)
	}
}
