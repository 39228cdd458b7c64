package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sells-group/leadgen-cli/internal/source"
	"github.com/sells-group/leadgen-cli/pkg/clearbit"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// keywordSerper returns canned results only for queries containing a keyword.
type keywordSerper struct {
	mu        sync.Mutex
	byKeyword map[string][]serper.Result
	queries   []string
}

func (f *keywordSerper) Search(_ context.Context, query string, _ int) ([]serper.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	for kw, results := range f.byKeyword {
		if strings.Contains(query, kw) {
			return results, nil
		}
	}
	return nil, nil
}

func (f *keywordSerper) SearchNews(ctx context.Context, q string, n int) ([]serper.Result, error) {
	return f.Search(ctx, q, n)
}

func newSearch(f *keywordSerper) *source.WebSearch {
	return source.NewWebSearch(f, 1000, time.Hour, true)
}

type fakeHunter struct {
	emails []hunter.Email
}

func (f *fakeHunter) DomainSearch(context.Context, string, string, int) ([]hunter.Email, error) {
	return f.emails, nil
}

func (f *fakeHunter) VerifyEmail(context.Context, string) (*hunter.Verification, error) {
	return nil, nil
}

type fakeClearbit struct {
	data *clearbit.CompanyData
}

func (f *fakeClearbit) EnrichCompany(context.Context, string) (*clearbit.CompanyData, error) {
	return f.data, nil
}

func newEnricher(search *keywordSerper, h *fakeHunter, c *fakeClearbit) *Enricher {
	if h == nil {
		h = &fakeHunter{}
	}
	if c == nil {
		c = &fakeClearbit{}
	}
	return NewEnricher(
		source.NewHunter(h, 1000, time.Hour, true),
		source.NewClearbit(c, 1000, time.Hour, true),
		newSearch(search),
	)
}
