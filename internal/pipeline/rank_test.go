package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/leadgen-cli/internal/model"
)

func rankedLead(id string, overall float64) *model.Lead {
	lead := namedLead(id, id)
	lead.Score = &model.LeadScore{OverallScore: overall}
	return lead
}

func TestRankOrdersByOverallScoreDescending(t *testing.T) {
	leads := []*model.Lead{
		rankedLead("low", 20),
		rankedLead("high", 90),
		rankedLead("mid", 55),
	}

	Rank(leads)
	assert.Equal(t, "high", leads[0].ID)
	assert.Equal(t, "mid", leads[1].ID)
	assert.Equal(t, "low", leads[2].ID)
}

func TestRankUnscoredLeadsSinkToBottom(t *testing.T) {
	unscored := namedLead("unscored", "unscored")
	leads := []*model.Lead{unscored, rankedLead("scored", 10)}

	Rank(leads)
	assert.Equal(t, "scored", leads[0].ID)
	assert.Equal(t, "unscored", leads[1].ID)
}

func TestRankIsStableOnTies(t *testing.T) {
	leads := []*model.Lead{
		rankedLead("first", 50),
		rankedLead("second", 50),
		rankedLead("third", 50),
	}

	Rank(leads)
	assert.Equal(t, "first", leads[0].ID)
	assert.Equal(t, "second", leads[1].ID)
	assert.Equal(t, "third", leads[2].ID)

	// Re-ranking an already ranked slice is a no-op.
	Rank(leads)
	assert.Equal(t, "first", leads[0].ID)
}
