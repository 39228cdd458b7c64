package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/source"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

var energyQueries = []string{
	"utility company smart grid modernization",
	"electric utility grid management system upgrade",
	"energy company digital transformation technology",
	"utility SCADA system replacement",
	"power company AMI smart meter deployment",
}

var energyKeywords = []string{"utility", "power", "electric", "energy", "grid"}

// Energy discovers utility and grid-operator prospects from smart grid and
// modernization coverage.
type Energy struct {
	search     *source.WebSearch
	maxResults int
	enabled    bool
	now        func() time.Time
}

// NewEnergy creates the energy producer.
func NewEnergy(search *source.WebSearch, maxResults int, enabled bool) *Energy {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Energy{
		search:     search,
		maxResults: maxResults,
		enabled:    enabled,
		now:        time.Now,
	}
}

func (p *Energy) Name() string  { return "energy" }
func (p *Energy) Enabled() bool { return p.enabled }

// Discover runs the grid-modernization query set, keeps results that mention
// the energy sector, and probes extracted companies for project evidence.
func (p *Energy) Discover(ctx context.Context) ([]*model.Lead, error) {
	var results []serper.Result
	for _, q := range energyQueries {
		results = append(results, p.search.Search(ctx, q, 10)...)
	}

	companies := extractCompanies(filterEnergyResults(results))
	if len(companies) > p.maxResults {
		companies = companies[:p.maxResults]
	}

	leads := make([]*model.Lead, 0, len(companies))
	for _, c := range companies {
		lead := p.leadFromCandidate(c)
		p.detectGridSignals(ctx, lead)
		leads = append(leads, lead)
	}
	return leads, nil
}

// filterEnergyResults keeps results whose title or snippet mentions the
// sector. The extraction heuristic is too loose to run on arbitrary headlines.
func filterEnergyResults(results []serper.Result) []serper.Result {
	kept := make([]serper.Result, 0, len(results))
	for _, r := range results {
		text := strings.ToLower(r.Title + " " + r.Snippet)
		if containsAny(text, energyKeywords...) {
			kept = append(kept, r)
		}
	}
	return kept
}

func (p *Energy) leadFromCandidate(c candidate) *model.Lead {
	company := model.Company{
		Name:     c.Name,
		Industry: model.IndustryEnergy,
		Technology: &model.TechnologyIndicators{
			Initiatives: c.Mentions,
		},
	}

	id := fmt.Sprintf("energy_%s_%d", slugify(c.Name), p.now().Unix())
	lead := model.NewLead(id, company, p.Name())
	lead.AddDataSource("web_search")
	lead.AddTag("energy")
	lead.AddTag("utility")
	lead.AddSignal(model.SignalTechInitiative)
	lead.SetDetail("sources", c.Sources)
	return lead
}

func (p *Energy) detectGridSignals(ctx context.Context, lead *model.Lead) {
	queries := []string{
		lead.Company.Name + " smart grid project",
		lead.Company.Name + " grid modernization investment",
		lead.Company.Name + " AMI smart meter",
	}

	var evidence []serper.Result
	for _, q := range queries {
		evidence = append(evidence, p.search.Search(ctx, q, 3)...)
	}
	if len(evidence) > 0 {
		lead.SetDetail("grid_modernization", evidence)
	}
}
