package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func namedLead(id, name string) *model.Lead {
	return model.NewLead(id, model.Company{Name: name, Industry: model.IndustryBanking}, "test")
}

func TestDedupePrefersRegistryIdentifiers(t *testing.T) {
	a := namedLead("a", "First National Bank")
	a.Company.FDICCert = "12345"
	a.AddDataSource("fdic")

	// Same institution found again under a different display name.
	b := namedLead("b", "First National Bank of Dallas")
	b.Company.FDICCert = "12345"
	b.AddDataSource("web_search")
	b.AddSignal(model.SignalJobPosting)

	unique := Dedupe([]*model.Lead{a, b})
	require.Len(t, unique, 1)

	merged := unique[0]
	assert.Equal(t, "a", merged.ID, "first-seen lead wins")
	assert.ElementsMatch(t, []string{"fdic", "web_search"}, merged.DataSources)
	assert.True(t, merged.HasSignal(model.SignalJobPosting))
}

func TestDedupeNormalizesNames(t *testing.T) {
	a := namedLead("a", "Acme Insurance")
	b := namedLead("b", "  ACME   insurance ")

	unique := Dedupe([]*model.Lead{a, b})
	require.Len(t, unique, 1)
	assert.Equal(t, "a", unique[0].ID)
}

func TestDedupeDistinctIdentifiersStaySeparate(t *testing.T) {
	a := namedLead("a", "Community Bank")
	a.Company.FDICCert = "111"
	b := namedLead("b", "Community Bank")
	b.Company.FDICCert = "222"

	unique := Dedupe([]*model.Lead{a, b})
	assert.Len(t, unique, 2, "same name but different registry identity")
}

func TestDedupePreservesOrderAndIsIdempotent(t *testing.T) {
	leads := []*model.Lead{
		namedLead("a", "Alpha"),
		namedLead("b", "Beta"),
		namedLead("c", "Alpha"),
		namedLead("d", "Gamma"),
	}

	unique := Dedupe(leads)
	require.Len(t, unique, 3)
	assert.Equal(t, "a", unique[0].ID)
	assert.Equal(t, "b", unique[1].ID)
	assert.Equal(t, "d", unique[2].ID)

	again := Dedupe(unique)
	assert.Equal(t, unique, again)
}

func TestDedupeMergeDoesNotDuplicateExistingValues(t *testing.T) {
	a := namedLead("a", "Alpha")
	a.AddDataSource("web_search")
	a.AddTag("banking")
	b := namedLead("b", "Alpha")
	b.AddDataSource("web_search")
	b.AddTag("banking")

	unique := Dedupe([]*model.Lead{a, b})
	require.Len(t, unique, 1)
	assert.Equal(t, []string{"web_search"}, unique[0].DataSources)
	assert.Equal(t, []string{"banking"}, unique[0].Tags)
}
