package discovery

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/source"
	"github.com/sells-group/leadgen-cli/pkg/fdic"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// Banking discovers bank prospects from the FDIC institution database and
// layers web-search modernization evidence on top.
type Banking struct {
	fdic       *source.FDIC
	search     *source.WebSearch
	assetMin   int64
	states     []string
	maxResults int
	enabled    bool
}

// NewBanking creates the banking producer. assetMin filters FDIC institutions
// by total assets; zero applies the $1B default.
func NewBanking(fdicSrc *source.FDIC, search *source.WebSearch, assetMin int64, states []string, maxResults int, enabled bool) *Banking {
	if assetMin <= 0 {
		assetMin = 1_000_000_000
	}
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Banking{
		fdic:       fdicSrc,
		search:     search,
		assetMin:   assetMin,
		states:     states,
		maxResults: maxResults,
		enabled:    enabled,
	}
}

func (b *Banking) Name() string  { return "banking" }
func (b *Banking) Enabled() bool { return b.enabled }

// Discover searches the FDIC database for banks above the asset threshold and
// enriches each with technology and buying-signal evidence.
func (b *Banking) Discover(ctx context.Context) ([]*model.Lead, error) {
	institutions := b.fdic.SearchInstitutions(ctx, fdic.Filters{
		AssetMin:   b.assetMin,
		States:     b.states,
		ActiveOnly: true,
		Limit:      100,
	})

	if len(institutions) > b.maxResults {
		institutions = institutions[:b.maxResults]
	}

	leads := make([]*model.Lead, 0, len(institutions))
	for _, inst := range institutions {
		lead := b.leadFromInstitution(inst)
		b.detectTechnologySignals(ctx, lead)
		b.detectBuyingSignals(ctx, lead)
		leads = append(leads, lead)
	}
	return leads, nil
}

func (b *Banking) leadFromInstitution(inst fdic.Institution) *model.Lead {
	location := inst.City + ", " + inst.State
	company := model.Company{
		Name:          inst.Name,
		Industry:      model.IndustryBanking,
		Website:       inst.Website,
		Location:      location,
		Headquarters:  location,
		FDICCert:      strconv.Itoa(inst.Cert),
		EmployeeCount: inst.Employees,
		Revenue:       fmt.Sprintf("$%.0fM Assets", float64(inst.Asset)/1_000_000),
	}

	lead := model.NewLead("bank_"+strconv.Itoa(inst.Cert), company, b.Name())
	lead.AddDataSource("fdic")
	lead.AddTag("banking")
	lead.AddTag("fdic")
	return lead
}

// detectTechnologySignals looks for modernization coverage and flags legacy
// or cloud-migration evidence via keyword scan.
func (b *Banking) detectTechnologySignals(ctx context.Context, lead *model.Lead) {
	queries := []string{
		lead.Company.Name + " core banking system upgrade",
		lead.Company.Name + " digital transformation",
		lead.Company.Name + " cloud migration",
		lead.Company.Name + " legacy modernization",
	}

	var hits []serper.Result
	for _, q := range queries {
		hits = append(hits, b.search.Search(ctx, q, 3)...)
	}
	if len(hits) == 0 {
		return
	}

	content := snippetText(hits)
	tech := lead.EnsureTechnology()
	if containsAny(content, "mainframe", "as400", "legacy") {
		tech.LegacySystems = true
	}
	if containsAny(content, "cloud", "azure", "aws", "migration") {
		tech.CloudMigration = true
	}

	lead.AddDataSource("web_search")
	lead.SetDetail("technology_search", hits)
}

func (b *Banking) detectBuyingSignals(ctx context.Context, lead *model.Lead) {
	jobs := b.search.Search(ctx, lead.Company.Name+" hiring CTO CIO technology jobs", 5)
	if len(jobs) > 0 {
		lead.AddSignal(model.SignalJobPosting)
		lead.SetDetail("job_postings", jobs)
	}

	partnerships := b.search.Search(ctx, lead.Company.Name+" partnership technology vendor announcement", 5)
	if len(partnerships) > 0 {
		lead.AddSignal(model.SignalPartnership)
		lead.SetDetail("partnerships", partnerships)
	}
}
