package discovery

import (
	"strings"
	"unicode"

	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// candidate is an organization pulled out of search results, with the
// snippets and links that mentioned it.
type candidate struct {
	Name     string
	Mentions []string
	Sources  []string
}

// extractCompanies pulls candidate company names out of search result titles:
// any capitalized word longer than three characters. Crude, but effective for
// seeding leads that enrichment then fleshes out. First-mention order is
// preserved.
func extractCompanies(results []serper.Result) []candidate {
	index := make(map[string]int)
	var out []candidate

	for _, r := range results {
		for _, word := range strings.Fields(r.Title) {
			runes := []rune(word)
			if len(runes) <= 3 || !unicode.IsUpper(runes[0]) {
				continue
			}
			i, ok := index[word]
			if !ok {
				i = len(out)
				index[word] = i
				out = append(out, candidate{Name: word})
			}
			out[i].Mentions = append(out[i].Mentions, r.Snippet)
			out[i].Sources = append(out[i].Sources, r.Link)
		}
	}
	return out
}

// agencyPatterns are the organizational suffixes that mark a US government
// body in a headline.
var agencyPatterns = []string{"Department", "Agency", "Bureau", "Office", "Administration"}

// extractAgencies pulls government agency names out of search result titles
// by splitting on common organizational suffixes.
func extractAgencies(results []serper.Result) []candidate {
	index := make(map[string]int)
	var out []candidate

	for _, r := range results {
		for _, pattern := range agencyPatterns {
			before, _, found := strings.Cut(r.Title, pattern)
			if !found {
				continue
			}
			name := strings.TrimSpace(before) + " " + pattern
			i, ok := index[name]
			if !ok {
				i = len(out)
				index[name] = i
				out = append(out, candidate{Name: name})
			}
			out[i].Mentions = append(out[i].Mentions, r.Snippet)
			out[i].Sources = append(out[i].Sources, r.Link)
		}
	}
	return out
}

// slugify turns a display name into an id fragment.
func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// snippetText joins result snippets into one lowercased haystack for keyword
// scanning.
func snippetText(results []serper.Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Snippet)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func containsAny(haystack string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
