package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadgen-cli/internal/discovery"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

type stubProducer struct {
	name  string
	leads []*model.Lead
	err   error
}

func (s *stubProducer) Name() string  { return s.name }
func (s *stubProducer) Enabled() bool { return true }

func (s *stubProducer) Discover(context.Context) ([]*model.Lead, error) {
	return s.leads, s.err
}

// memStore records persistence calls without a real database.
type memStore struct {
	savedLeads []*model.Lead
	savedRuns  []*model.ExecutionResult
}

func (m *memStore) SaveLead(_ context.Context, lead *model.Lead) error {
	m.savedLeads = append(m.savedLeads, lead)
	return nil
}

func (m *memStore) SaveLeads(_ context.Context, leads []*model.Lead) error {
	m.savedLeads = append(m.savedLeads, leads...)
	return nil
}

func (m *memStore) GetLead(context.Context, string) (*model.Lead, error) { return nil, nil }

func (m *memStore) ListLeads(context.Context, store.LeadFilter) ([]*model.Lead, error) {
	return nil, nil
}

func (m *memStore) TopLeads(context.Context, int) ([]*model.Lead, error) { return nil, nil }

func (m *memStore) SaveRun(_ context.Context, result *model.ExecutionResult) (*store.RunRecord, error) {
	m.savedRuns = append(m.savedRuns, result)
	return &store.RunRecord{ID: "run-1"}, nil
}

func (m *memStore) GetRun(context.Context, string) (*store.RunRecord, error) { return nil, nil }
func (m *memStore) ListRuns(context.Context, int) ([]store.RunRecord, error) { return nil, nil }
func (m *memStore) Migrate(context.Context) error                            { return nil }
func (m *memStore) Close() error                                             { return nil }

func newTestPipeline(producers []discovery.Producer, search *keywordSerper, opts ...Option) *Pipeline {
	return New(
		producers,
		newEnricher(search, nil, nil),
		NewValidator(newSearch(search), 0, nil),
		NewTimingAnalyzer(newSearch(search)),
		opts...,
	)
}

func TestExecuteEmptyDiscoveryIsSuccessfulRun(t *testing.T) {
	p := newTestPipeline([]discovery.Producer{&stubProducer{name: "banking"}}, &keywordSerper{})

	result := p.Execute(context.Background())
	assert.True(t, result.Success)
	assert.Empty(t, result.Leads)
	require.Len(t, result.Stages, 1, "only the search stage ran")
	assert.Equal(t, model.StageSearch, result.Stages[0].Stage)
}

func TestExecuteRunsAllStages(t *testing.T) {
	search := &keywordSerper{byKeyword: map[string][]serper.Result{
		"company": {{Title: "Acme Bank", Snippet: "a well established firm"}},
	}}
	producer := &stubProducer{name: "banking", leads: []*model.Lead{
		namedLead("a", "Acme Bank"),
		namedLead("b", "Acme Bank"), // duplicate, collapsed by dedupe
		namedLead("c", "Beta Bank"),
	}}

	p := newTestPipeline([]discovery.Producer{producer}, search)
	result := p.Execute(context.Background())
	require.True(t, result.Success)
	require.Len(t, result.Leads, 2)

	wantStages := []model.Stage{
		model.StageSearch, model.StageDedupe, model.StageEnrich,
		model.StageValidate, model.StageTiming, model.StageScore, model.StageRank,
	}
	require.Len(t, result.Stages, len(wantStages))
	for i, sr := range result.Stages {
		assert.Equal(t, wantStages[i], sr.Stage)
		assert.True(t, sr.Success)
	}

	for _, lead := range result.Leads {
		assert.True(t, lead.IsEnriched)
		assert.True(t, lead.IsValidated)
		assert.Equal(t, model.StatusQualified, lead.Status)
		require.NotNil(t, lead.Score)
	}

	counts, ok := result.Metadata["stage_counts"].(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 3, counts["search"])
	assert.Equal(t, 2, counts["dedupe"])
}

func TestExecuteKeepsDisqualifiedLeadsInOutput(t *testing.T) {
	// No web presence for either lead, so both fail legitimacy.
	producer := &stubProducer{name: "banking", leads: []*model.Lead{
		namedLead("a", "Ghost Bank"),
		namedLead("b", "Phantom Bank"),
	}}

	p := newTestPipeline([]discovery.Producer{producer}, &keywordSerper{})
	result := p.Execute(context.Background())
	require.True(t, result.Success)
	require.Len(t, result.Leads, 2, "disqualified leads stay in the output")
	for _, lead := range result.Leads {
		assert.Equal(t, model.StatusDisqualified, lead.Status)
	}
}

func TestExecuteRanksOutput(t *testing.T) {
	strong := namedLead("strong", "Strong Bank")
	strong.Company.EmployeeCount = 5000
	strong.AddSignal(model.SignalRFPPublished)
	strong.AddSignal(model.SignalJobPosting)
	weak := namedLead("weak", "Weak Bank")
	weak.Company.EmployeeCount = 120

	search := &keywordSerper{byKeyword: map[string][]serper.Result{
		"company": {{Title: "ok", Snippet: "an established firm"}},
	}}
	p := newTestPipeline([]discovery.Producer{
		&stubProducer{name: "banking", leads: []*model.Lead{weak, strong}},
	}, search)

	result := p.Execute(context.Background())
	require.Len(t, result.Leads, 2)
	assert.Equal(t, "strong", result.Leads[0].ID)
	assert.Greater(t, result.Leads[0].Score.OverallScore, result.Leads[1].Score.OverallScore)
}

func TestExecutePersistsWhenStoreConfigured(t *testing.T) {
	st := &memStore{}
	search := &keywordSerper{byKeyword: map[string][]serper.Result{
		"company": {{Title: "ok", Snippet: "an established firm"}},
	}}
	p := newTestPipeline([]discovery.Producer{
		&stubProducer{name: "banking", leads: []*model.Lead{namedLead("a", "Acme Bank")}},
	}, search, WithStore(st))

	result := p.Execute(context.Background())
	require.True(t, result.Success)
	assert.Len(t, st.savedLeads, 1)
	require.Len(t, st.savedRuns, 1)
	assert.Equal(t, "run-1", result.Metadata["run_id"])
}

func TestExecuteStageFailureDiscardsPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline([]discovery.Producer{
		&stubProducer{name: "banking", leads: []*model.Lead{namedLead("a", "Acme Bank")}},
	}, &keywordSerper{})

	result := p.Execute(ctx)
	require.False(t, result.Success)
	assert.Empty(t, result.Leads, "partially processed leads are discarded")
	assert.NotEmpty(t, result.Error)

	last := result.Stages[len(result.Stages)-1]
	assert.Equal(t, model.StageEnrich, last.Stage, "no stage ran past the failure")
	assert.False(t, last.Success)
}

func TestExecuteRecoversFromPanic(t *testing.T) {
	p := newTestPipeline([]discovery.Producer{
		&stubProducer{name: "banking", leads: []*model.Lead{namedLead("a", "Acme Bank"), nil}},
	}, &keywordSerper{})

	result := p.Execute(context.Background())
	require.False(t, result.Success)
	assert.Empty(t, result.Leads)
	assert.Contains(t, result.Error, "panic")
}

func TestExecuteAbsorbsProducerFailure(t *testing.T) {
	search := &keywordSerper{byKeyword: map[string][]serper.Result{
		"company": {{Title: "ok", Snippet: "an established firm"}},
	}}
	p := newTestPipeline([]discovery.Producer{
		&stubProducer{name: "banking", err: errors.New("fdic down")},
		&stubProducer{name: "energy", leads: []*model.Lead{namedLead("a", "Grid Power")}},
	}, search)

	result := p.Execute(context.Background())
	require.True(t, result.Success, "one producer failing does not fail the run")
	assert.Len(t, result.Leads, 1)
}
