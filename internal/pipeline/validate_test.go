package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

func legitimateSerper(name string) *keywordSerper {
	return &keywordSerper{byKeyword: map[string][]serper.Result{
		name + " company": {{Title: name, Snippet: "a well established firm"}},
	}}
}

func TestValidateQualifiesTargetIndustryLead(t *testing.T) {
	v := NewValidator(newSearch(legitimateSerper("Acme Bank")), 0, nil)
	lead := namedLead("a", "Acme Bank")
	lead.Company.EmployeeCount = 500

	qualified := v.Validate(context.Background(), lead)
	assert.True(t, qualified)
	assert.Equal(t, model.StatusQualified, lead.Status)
	assert.True(t, lead.IsValidated)
	assert.Equal(t, []string{
		"industry_fit: PASS",
		"company_legitimacy: PASS",
		"size_fit: PASS",
		"technology_opportunity: PASS",
	}, lead.ValidationNotes)
}

func TestValidateDisqualifiesWrongIndustry(t *testing.T) {
	v := NewValidator(newSearch(legitimateSerper("Acme Retail")), 0, nil)
	lead := namedLead("a", "Acme Retail")
	lead.Company.Industry = model.Industry("retail")

	assert.False(t, v.Validate(context.Background(), lead))
	assert.Equal(t, model.StatusDisqualified, lead.Status)
	assert.Contains(t, lead.ValidationNotes, "industry_fit: FAIL")
}

func TestValidateUnknownIndustryGetsBenefitOfDoubt(t *testing.T) {
	v := NewValidator(newSearch(legitimateSerper("Mystery Corp")), 0, nil)
	lead := namedLead("a", "Mystery Corp")
	lead.Company.Industry = model.IndustryUnknown

	assert.True(t, v.Validate(context.Background(), lead))
}

func TestValidateFailsLegitimacyOnNoWebPresence(t *testing.T) {
	v := NewValidator(newSearch(&keywordSerper{}), 0, nil)
	lead := namedLead("a", "Ghost Bank")

	assert.False(t, v.Validate(context.Background(), lead))
	assert.Equal(t, model.StatusDisqualified, lead.Status)
	require.NotEmpty(t, lead.ValidationNotes)
	assert.Equal(t, "No web presence found", lead.ValidationNotes[0])
	assert.Contains(t, lead.ValidationNotes, "company_legitimacy: FAIL")
}

func TestValidateFailsLegitimacyOnNegativeCoverage(t *testing.T) {
	search := &keywordSerper{byKeyword: map[string][]serper.Result{
		"company": {{Title: "Sunset Bank", Snippet: "Sunset Bank is now defunct after the merger"}},
	}}
	v := NewValidator(newSearch(search), 0, nil)
	lead := namedLead("a", "Sunset Bank")

	assert.False(t, v.Validate(context.Background(), lead))
	assert.Equal(t, "Negative signals found (bankrupt, closed, etc.)", lead.ValidationNotes[0])
}

func TestValidateSizeIsAdvisory(t *testing.T) {
	v := NewValidator(newSearch(legitimateSerper("Tiny Bank")), 200, nil)
	lead := namedLead("a", "Tiny Bank")
	lead.Company.EmployeeCount = 50

	// Below the employee floor fails the size check but not qualification.
	assert.True(t, v.Validate(context.Background(), lead))
	assert.Equal(t, model.StatusQualified, lead.Status)
	assert.Contains(t, lead.ValidationNotes, "size_fit: FAIL")
	assert.Contains(t, lead.ValidationNotes, "Below minimum employee count (50 < 200)")
}

func TestValidateSizePassesWithoutData(t *testing.T) {
	v := NewValidator(newSearch(legitimateSerper("Unsized Bank")), 0, nil)
	lead := namedLead("a", "Unsized Bank")

	assert.True(t, v.Validate(context.Background(), lead))
	assert.Contains(t, lead.ValidationNotes, "size_fit: PASS")
}
