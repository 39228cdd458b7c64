package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/source"
)

// negativeKeywords in company coverage mark a business as no longer viable.
var negativeKeywords = []string{"bankrupt", "defunct", "closed", "out of business"}

// validationChecks are recorded on every lead in this order. Only industry fit and
// company legitimacy are disqualifying; size and technology are advisory.
var validationChecks = []string{"industry_fit", "company_legitimacy", "size_fit", "technology_opportunity"}

// Validator screens leads against the ideal customer profile.
type Validator struct {
	search       *source.WebSearch
	minEmployees int
	targets      []model.Industry
}

// NewValidator creates a validator. minEmployees of zero applies the default
// floor of 100.
func NewValidator(search *source.WebSearch, minEmployees int, targets []model.Industry) *Validator {
	if minEmployees <= 0 {
		minEmployees = 100
	}
	if len(targets) == 0 {
		targets = model.TargetIndustries()
	}
	return &Validator{search: search, minEmployees: minEmployees, targets: targets}
}

// Validate runs the four profile checks on a lead, records the outcomes in
// its validation notes, and returns whether the lead is qualified. The lead's
// status is updated to match.
func (v *Validator) Validate(ctx context.Context, lead *model.Lead) bool {
	lead.Status = model.StatusValidating

	results := map[string]bool{
		"industry_fit":           v.checkIndustryFit(lead),
		"company_legitimacy":     v.checkLegitimacy(ctx, lead),
		"size_fit":               v.checkSizeFit(lead),
		"technology_opportunity": v.checkTechnologyOpportunity(lead),
	}

	for _, check := range validationChecks {
		verdict := "FAIL"
		if results[check] {
			verdict = "PASS"
		}
		lead.ValidationNotes = append(lead.ValidationNotes, check+": "+verdict)
	}

	qualified := results["industry_fit"] && results["company_legitimacy"]
	if qualified {
		lead.Status = model.StatusQualified
	} else {
		lead.Status = model.StatusDisqualified
	}

	lead.IsValidated = true
	lead.Touch()
	return qualified
}

// checkIndustryFit passes leads in a target industry. Unknown gets the
// benefit of the doubt; anything else fails.
func (v *Validator) checkIndustryFit(lead *model.Lead) bool {
	for _, target := range v.targets {
		if lead.Company.Industry == target {
			return true
		}
	}
	return lead.Company.Industry == model.IndustryUnknown
}

// checkLegitimacy verifies the company has a live web presence free of
// shutdown coverage. A search that errors out upstream yields no results and
// would wrongly fail legitimate companies, so adapters absorbing failures to
// empty is acceptable here: zero hits for a real company name is itself a
// red flag.
func (v *Validator) checkLegitimacy(ctx context.Context, lead *model.Lead) bool {
	results := v.search.Search(ctx, lead.Company.Name+" company", 5)
	if len(results) == 0 {
		lead.ValidationNotes = append(lead.ValidationNotes, "No web presence found")
		return false
	}

	var snippets []string
	for _, r := range results {
		snippets = append(snippets, r.Snippet)
	}
	content := strings.ToLower(strings.Join(snippets, " "))
	for _, kw := range negativeKeywords {
		if strings.Contains(content, kw) {
			lead.ValidationNotes = append(lead.ValidationNotes, "Negative signals found (bankrupt, closed, etc.)")
			return false
		}
	}
	return true
}

func (v *Validator) checkSizeFit(lead *model.Lead) bool {
	if n := lead.Company.EmployeeCount; n > 0 {
		if n >= v.minEmployees {
			return true
		}
		lead.ValidationNotes = append(lead.ValidationNotes,
			fmt.Sprintf("Below minimum employee count (%d < %d)", n, v.minEmployees))
		return false
	}

	switch lead.Company.Size {
	case "Medium", "Large", "Enterprise":
		return true
	}

	// No size data at all: benefit of the doubt.
	return true
}

func (v *Validator) checkTechnologyOpportunity(lead *model.Lead) bool {
	// Advisory only: absence of technology evidence never disqualifies.
	return true
}
