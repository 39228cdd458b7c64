package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/source"
)

// Enricher fills in contacts, firmographics, and technology stack details for
// discovered leads. Every sub-step degrades gracefully: a lead that cannot be
// enriched passes through unchanged apart from its status.
type Enricher struct {
	hunter   *source.Hunter
	clearbit *source.Clearbit
	search   *source.WebSearch
}

// NewEnricher creates an enricher over the three enrichment sources.
func NewEnricher(h *source.Hunter, c *source.Clearbit, s *source.WebSearch) *Enricher {
	return &Enricher{hunter: h, clearbit: c, search: s}
}

// Enrich augments a single lead in place and marks it enriched.
func (e *Enricher) Enrich(ctx context.Context, lead *model.Lead) {
	lead.Status = model.StatusEnriching

	e.enrichContacts(ctx, lead)
	e.enrichCompanyInfo(ctx, lead)
	e.enrichTechnologyStack(ctx, lead)

	lead.IsEnriched = true
	now := time.Now().UTC()
	lead.EnrichedAt = &now
	lead.Touch()
}

// enrichContacts looks up technology-department contacts for the company
// domain and attaches the top five.
func (e *Enricher) enrichContacts(ctx context.Context, lead *model.Lead) {
	domain := lead.Company.Domain()
	if domain == "" {
		return
	}

	emails := e.hunter.DomainSearch(ctx, domain, "technology", 10)
	if len(emails) == 0 {
		return
	}
	if len(emails) > 5 {
		emails = emails[:5]
	}

	for _, em := range emails {
		lead.Contacts = append(lead.Contacts, model.Contact{
			Name:        strings.TrimSpace(em.FirstName + " " + em.LastName),
			Email:       em.Value,
			Title:       em.Position,
			Phone:       em.Phone,
			LinkedInURL: em.LinkedIn,
			Department:  em.Department,
			Seniority:   em.Seniority,
		})
	}
	lead.AddDataSource("hunter.io")
	zap.L().Debug("contacts found",
		zap.String("lead", lead.ID),
		zap.Int("contacts", len(emails)),
	)
}

func (e *Enricher) enrichCompanyInfo(ctx context.Context, lead *model.Lead) {
	domain := lead.Company.Domain()
	if domain == "" {
		return
	}

	data := e.clearbit.EnrichCompany(ctx, domain)
	if data == nil {
		return
	}

	if data.Description != "" {
		lead.Company.Description = data.Description
	}
	if data.EmployeesRange != "" {
		lead.Company.Size = data.EmployeesRange
		lead.Company.EmployeeCount = data.Metrics.Employees
	}
	for _, tag := range data.Tags {
		lead.AddTag(tag)
	}
	if len(data.Tech) > 0 {
		tech := lead.EnsureTechnology()
		for _, t := range data.Tech {
			if strings.Contains(strings.ToLower(t), "cloud") {
				tech.CloudMigration = true
				break
			}
		}
	}

	lead.AddDataSource("clearbit")
}

// enrichTechnologyStack scans web coverage of the company's systems for cloud
// provider and legacy platform mentions.
func (e *Enricher) enrichTechnologyStack(ctx context.Context, lead *model.Lead) {
	results := e.search.Search(ctx, lead.Company.Name+" technology stack systems", 5)
	if len(results) == 0 {
		return
	}

	var snippets []string
	for _, r := range results {
		snippets = append(snippets, r.Snippet)
	}
	content := strings.ToLower(strings.Join(snippets, " "))

	tech := lead.EnsureTechnology()
	if strings.Contains(content, "azure") {
		tech.Stack = append(tech.Stack, model.StackCloudAzure)
	}
	if strings.Contains(content, "aws") {
		tech.Stack = append(tech.Stack, model.StackCloudAWS)
	}
	if strings.Contains(content, "gcp") || strings.Contains(content, "google cloud") {
		tech.Stack = append(tech.Stack, model.StackCloudGCP)
	}
	if strings.Contains(content, "mainframe") || strings.Contains(content, "as400") || strings.Contains(content, "cobol") {
		tech.Stack = append(tech.Stack, model.StackLegacyMainframe)
		tech.LegacySystems = true
	}

	lead.SetDetail("technology_research", results)
}
