package pipeline

import (
	"sort"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Rank orders leads by overall score, highest first. Unscored leads rank as
// zero. Ties keep their incoming order, so ranking the same slice twice is a
// no-op.
func Rank(leads []*model.Lead) {
	sort.SliceStable(leads, func(i, j int) bool {
		return overallOf(leads[i]) > overallOf(leads[j])
	})
}

func overallOf(lead *model.Lead) float64 {
	if lead.Score == nil {
		return 0
	}
	return lead.Score.OverallScore
}
