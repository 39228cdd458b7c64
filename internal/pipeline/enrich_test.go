package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/clearbit"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

func enrichableLead() *model.Lead {
	lead := namedLead("a", "Acme Bank")
	lead.Company.Website = "https://acmebank.example.com/about"
	return lead
}

func TestEnrichAttachesTopFiveContacts(t *testing.T) {
	emails := make([]hunter.Email, 8)
	for i := range emails {
		emails[i] = hunter.Email{
			Value:     "person@acmebank.example.com",
			FirstName: "Pat",
			LastName:  "Doe",
			Position:  "Engineer",
		}
	}
	emails[0] = hunter.Email{
		Value:      "cto@acmebank.example.com",
		FirstName:  "Jane",
		LastName:   "Roe",
		Position:   "CTO",
		Department: "executive",
		Seniority:  "C-Level",
	}

	e := newEnricher(&keywordSerper{}, &fakeHunter{emails: emails}, nil)
	lead := enrichableLead()
	e.Enrich(context.Background(), lead)

	require.Len(t, lead.Contacts, 5)
	assert.Equal(t, "Jane Roe", lead.Contacts[0].Name)
	assert.Equal(t, "cto@acmebank.example.com", lead.Contacts[0].Email)
	assert.Equal(t, "C-Level", lead.Contacts[0].Seniority)
	assert.Contains(t, lead.DataSources, "hunter.io")
}

func TestEnrichAppliesClearbitProfile(t *testing.T) {
	data := &clearbit.CompanyData{
		Name:           "Acme Bank",
		Description:    "Regional bank in Texas",
		EmployeesRange: "1K-5K",
		Tags:           []string{"Banking", "Financial Services"},
		Tech:           []string{"salesforce", "google_cloud"},
	}
	data.Metrics.Employees = 1200

	e := newEnricher(&keywordSerper{}, nil, &fakeClearbit{data: data})
	lead := enrichableLead()
	e.Enrich(context.Background(), lead)

	assert.Equal(t, "Regional bank in Texas", lead.Company.Description)
	assert.Equal(t, "1K-5K", lead.Company.Size)
	assert.Equal(t, 1200, lead.Company.EmployeeCount)
	assert.Contains(t, lead.Tags, "Banking")
	assert.Contains(t, lead.DataSources, "clearbit")

	require.NotNil(t, lead.Company.Technology)
	assert.True(t, lead.Company.Technology.CloudMigration, "cloud tech in Clearbit stack")
}

func TestEnrichDetectsTechnologyStack(t *testing.T) {
	search := &keywordSerper{byKeyword: map[string][]serper.Result{
		"technology stack": {
			{Title: "Acme Bank systems", Snippet: "running core workloads on Azure while its mainframe handles settlement"},
		},
	}}
	e := newEnricher(search, nil, nil)
	lead := enrichableLead()
	e.Enrich(context.Background(), lead)

	require.NotNil(t, lead.Company.Technology)
	tech := lead.Company.Technology
	assert.Contains(t, tech.Stack, model.StackCloudAzure)
	assert.Contains(t, tech.Stack, model.StackLegacyMainframe)
	assert.True(t, tech.LegacySystems)
	assert.Contains(t, lead.SignalDetails, "technology_research")
}

func TestEnrichWithoutWebsiteStillMarksEnriched(t *testing.T) {
	e := newEnricher(&keywordSerper{}, nil, nil)
	lead := namedLead("a", "Acme Bank")
	e.Enrich(context.Background(), lead)

	assert.Empty(t, lead.Contacts)
	assert.True(t, lead.IsEnriched)
	require.NotNil(t, lead.EnrichedAt)
	assert.Equal(t, model.StatusEnriching, lead.Status)
}

func TestEnrichNoClearbitRecordIsHarmless(t *testing.T) {
	e := newEnricher(&keywordSerper{}, nil, &fakeClearbit{data: nil})
	lead := enrichableLead()
	lead.Company.Description = "existing description"
	e.Enrich(context.Background(), lead)

	assert.Equal(t, "existing description", lead.Company.Description)
	assert.NotContains(t, lead.DataSources, "clearbit")
}
