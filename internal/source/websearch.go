package source

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/pkg/serper"
)

// WebSearch adapts the Serper client to the shared source contract. Searches
// that fail upstream return an empty result set rather than an error.
type WebSearch struct {
	Tool
	client serper.Client
}

// NewWebSearch creates a web search adapter.
func NewWebSearch(client serper.Client, perMinute int, ttl time.Duration, hasAPIKey bool) *WebSearch {
	return &WebSearch{
		Tool:   NewTool("web_search", perMinute, ttl, hasAPIKey),
		client: client,
	}
}

// Search runs a Google web search and returns organic results. Cache hits
// consume no rate-limit budget.
func (w *WebSearch) Search(ctx context.Context, query string, num int) []serper.Result {
	if num <= 0 {
		num = 10
	}
	key := "search:" + normalizeQuery(query) + ":" + strconv.Itoa(num)
	if v, ok := w.Cached(key); ok {
		return v.([]serper.Result)
	}
	if !w.HasAPIKey() {
		zap.L().Warn("web search skipped: no API key configured")
		return nil
	}
	if err := w.Acquire(ctx); err != nil {
		zap.L().Warn("web search canceled while waiting for rate limit", zap.Error(err))
		return nil
	}

	results, err := w.client.Search(ctx, query, num)
	if err != nil {
		zap.L().Warn("web search failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	w.Store(key, results)
	return results
}

// SearchNews runs a Google news search. Same caching and failure behavior as
// Search.
func (w *WebSearch) SearchNews(ctx context.Context, query string, num int) []serper.Result {
	if num <= 0 {
		num = 10
	}
	key := "news:" + normalizeQuery(query) + ":" + strconv.Itoa(num)
	if v, ok := w.Cached(key); ok {
		return v.([]serper.Result)
	}
	if !w.HasAPIKey() {
		zap.L().Warn("news search skipped: no API key configured")
		return nil
	}
	if err := w.Acquire(ctx); err != nil {
		zap.L().Warn("news search canceled while waiting for rate limit", zap.Error(err))
		return nil
	}

	results, err := w.client.SearchNews(ctx, query, num)
	if err != nil {
		zap.L().Warn("news search failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	w.Store(key, results)
	return results
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
