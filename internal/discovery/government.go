package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/source"
	"github.com/sells-group/leadgen-cli/pkg/samgov"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

var samKeywords = []string{
	"legacy modernization",
	"system replacement",
	"cloud migration",
	"digital transformation",
}

var modernizationQueries = []string{
	"federal agency IT modernization",
	"state government legacy system replacement",
	"government digital transformation initiative",
	"TMF technology modernization fund",
}

// Government discovers public-sector prospects from SAM.gov contract
// opportunities and agency modernization coverage.
type Government struct {
	sam        *source.SAMGov
	search     *source.WebSearch
	maxResults int
	enabled    bool
	now        func() time.Time
}

// NewGovernment creates the government producer.
func NewGovernment(sam *source.SAMGov, search *source.WebSearch, maxResults int, enabled bool) *Government {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Government{
		sam:        sam,
		search:     search,
		maxResults: maxResults,
		enabled:    enabled,
		now:        time.Now,
	}
}

func (p *Government) Name() string  { return "government" }
func (p *Government) Enabled() bool { return p.enabled }

// Discover combines SAM.gov opportunity hits with agencies extracted from
// modernization coverage. Opportunity-backed leads come first.
func (p *Government) Discover(ctx context.Context) ([]*model.Lead, error) {
	var leads []*model.Lead

	for _, kw := range samKeywords {
		for _, opp := range p.sam.SearchOpportunities(ctx, kw, 10) {
			leads = append(leads, p.leadFromOpportunity(opp))
		}
	}

	var results []serper.Result
	for _, q := range modernizationQueries {
		results = append(results, p.search.Search(ctx, q, 10)...)
	}
	for _, agency := range extractAgencies(results) {
		leads = append(leads, p.leadFromAgency(agency))
	}

	if len(leads) > p.maxResults {
		leads = leads[:p.maxResults]
	}
	return leads, nil
}

func (p *Government) leadFromOpportunity(opp samgov.Opportunity) *model.Lead {
	name := opp.AgencyPath
	if name == "" {
		name = opp.Title
	}
	company := model.Company{
		Name:     name,
		Industry: model.IndustryGovernment,
		SAMUEI:   opp.UEI,
	}

	lead := model.NewLead("gov_"+opp.NoticeID, company, p.Name())
	lead.AddDataSource("sam.gov")
	lead.AddTag("government")
	lead.AddTag("public_sector")
	lead.AddSignal(model.SignalRFPPublished)
	lead.SetDetail("opportunity", opp)
	return lead
}

func (p *Government) leadFromAgency(c candidate) *model.Lead {
	company := model.Company{
		Name:     c.Name,
		Industry: model.IndustryGovernment,
		Technology: &model.TechnologyIndicators{
			Initiatives: c.Mentions,
		},
	}

	id := fmt.Sprintf("gov_%s_%d", slugify(c.Name), p.now().Unix())
	lead := model.NewLead(id, company, p.Name())
	lead.AddDataSource("web_search")
	lead.AddTag("government")
	lead.AddTag("public_sector")
	lead.AddSignal(model.SignalTechInitiative)
	lead.SetDetail("sources", c.Sources)
	return lead
}
