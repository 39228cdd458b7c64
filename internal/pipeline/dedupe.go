package pipeline

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/leadgen-cli/internal/model"
)

var foldCaser = cases.Fold()

// dedupeKey returns the identity key for a lead: the industry-specific
// registry identifier when one is set, otherwise the normalized company name.
func dedupeKey(lead *model.Lead) string {
	if id := lead.Company.DedupIdentifier(); id != "" {
		return id
	}
	return normalizeName(lead.Company.Name)
}

// normalizeName canonicalizes a company name for identity comparison:
// Unicode NFKC, case folding, and whitespace collapse.
func normalizeName(name string) string {
	folded := foldCaser.String(norm.NFKC.String(name))
	return strings.Join(strings.Fields(folded), " ")
}

// Dedupe collapses leads that refer to the same organization. The first-seen
// lead wins; data sources, buying signals, and tags from later duplicates are
// merged into it. Input order is preserved and the operation is idempotent.
func Dedupe(leads []*model.Lead) []*model.Lead {
	seen := make(map[string]*model.Lead, len(leads))
	unique := make([]*model.Lead, 0, len(leads))

	for _, lead := range leads {
		key := dedupeKey(lead)
		existing, ok := seen[key]
		if !ok {
			seen[key] = lead
			unique = append(unique, lead)
			continue
		}
		for _, src := range lead.DataSources {
			existing.AddDataSource(src)
		}
		for _, sig := range lead.BuyingSignals {
			existing.AddSignal(sig)
		}
		for _, tag := range lead.Tags {
			existing.AddTag(tag)
		}
	}
	return unique
}
