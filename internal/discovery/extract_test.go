package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/pkg/serper"
)

func TestExtractCompanies(t *testing.T) {
	results := []serper.Result{
		{Title: "Nationwide announces core system modernization", Snippet: "s1", Link: "l1"},
		{Title: "Why Nationwide is moving to the cloud", Snippet: "s2", Link: "l2"},
		{Title: "top ten carriers", Snippet: "s3", Link: "l3"},
	}

	companies := extractCompanies(results)
	require.Len(t, companies, 1, "short and lowercase words are not candidates")
	assert.Equal(t, "Nationwide", companies[0].Name)
	assert.Equal(t, []string{"s1", "s2"}, companies[0].Mentions)
	assert.Equal(t, []string{"l1", "l2"}, companies[0].Sources)
}

func TestExtractCompaniesPreservesFirstMentionOrder(t *testing.T) {
	results := []serper.Result{
		{Title: "Progressive upgrades platform"},
		{Title: "Allstate and Progressive modernize"},
	}

	companies := extractCompanies(results)
	require.Len(t, companies, 2)
	assert.Equal(t, "Progressive", companies[0].Name)
	assert.Equal(t, "Allstate", companies[1].Name)
}

func TestExtractAgencies(t *testing.T) {
	results := []serper.Result{
		{Title: "Treasury Department launches modernization push", Snippet: "tmf award", Link: "l1"},
		{Title: "GSA cloud story", Snippet: "s", Link: "l2"},
		{Title: "Treasury Department renews TMF funding", Snippet: "renewal", Link: "l3"},
	}

	agencies := extractAgencies(results)
	require.Len(t, agencies, 1)
	assert.Equal(t, "Treasury Department", agencies[0].Name)
	assert.Len(t, agencies[0].Mentions, 2)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "first_national_bank", slugify("First National Bank"))
}
