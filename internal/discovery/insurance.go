package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/source"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

var insuranceQueries = []string{
	"insurance carrier core system modernization",
	"insurance company legacy system replacement",
	"P&C insurance digital transformation",
	"life insurance cloud migration",
	"insurance carrier hiring CTO CIO technology",
}

// Insurance discovers insurance carrier prospects from modernization coverage
// in industry publications and news.
type Insurance struct {
	search     *source.WebSearch
	maxResults int
	enabled    bool
	now        func() time.Time
}

// NewInsurance creates the insurance producer.
func NewInsurance(search *source.WebSearch, maxResults int, enabled bool) *Insurance {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Insurance{
		search:     search,
		maxResults: maxResults,
		enabled:    enabled,
		now:        time.Now,
	}
}

func (p *Insurance) Name() string  { return "insurance" }
func (p *Insurance) Enabled() bool { return p.enabled }

// Discover runs the modernization query set, extracts carrier names from the
// results, and probes each for hiring signals.
func (p *Insurance) Discover(ctx context.Context) ([]*model.Lead, error) {
	var results []serper.Result
	for _, q := range insuranceQueries {
		results = append(results, p.search.Search(ctx, q, 10)...)
	}

	companies := extractCompanies(results)
	if len(companies) > p.maxResults {
		companies = companies[:p.maxResults]
	}

	leads := make([]*model.Lead, 0, len(companies))
	for _, c := range companies {
		lead := p.leadFromCandidate(c)
		p.detectHiringSignals(ctx, lead)
		leads = append(leads, lead)
	}
	return leads, nil
}

func (p *Insurance) leadFromCandidate(c candidate) *model.Lead {
	company := model.Company{
		Name:       c.Name,
		Industry:   model.IndustryInsurance,
		Technology: &model.TechnologyIndicators{},
	}

	id := fmt.Sprintf("insurance_%s_%d", slugify(c.Name), p.now().Unix())
	lead := model.NewLead(id, company, p.Name())
	lead.AddDataSource("web_search")
	lead.AddTag("insurance")
	lead.AddSignal(model.SignalTechInitiative)
	lead.SetDetail("mentions", c.Mentions)
	lead.SetDetail("sources", c.Sources)
	return lead
}

func (p *Insurance) detectHiringSignals(ctx context.Context, lead *model.Lead) {
	hiring := p.search.Search(ctx, lead.Company.Name+" insurance hiring technology jobs", 3)
	if len(hiring) > 0 {
		lead.AddSignal(model.SignalJobPosting)
		lead.SetDetail("hiring", hiring)
	}
}
