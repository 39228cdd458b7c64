package source

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/pkg/samgov"
)

// SAMGov adapts the SAM.gov opportunities client.
type SAMGov struct {
	Tool
	client samgov.Client
}

// NewSAMGov creates a SAM.gov adapter.
func NewSAMGov(client samgov.Client, perMinute int, ttl time.Duration, hasAPIKey bool) *SAMGov {
	return &SAMGov{
		Tool:   NewTool("sam_gov", perMinute, ttl, hasAPIKey),
		client: client,
	}
}

// SearchOpportunities returns published contract opportunities matching the
// keyword. Upstream failures yield an empty slice.
func (s *SAMGov) SearchOpportunities(ctx context.Context, keyword string, limit int) []samgov.Opportunity {
	if limit <= 0 {
		limit = 10
	}
	key := "opportunities:" + normalizeQuery(keyword) + ":" + strconv.Itoa(limit)
	if v, ok := s.Cached(key); ok {
		return v.([]samgov.Opportunity)
	}
	if !s.HasAPIKey() {
		zap.L().Warn("sam.gov search skipped: no API key configured")
		return nil
	}
	if err := s.Acquire(ctx); err != nil {
		zap.L().Warn("sam.gov search canceled while waiting for rate limit", zap.Error(err))
		return nil
	}

	opportunities, err := s.client.SearchOpportunities(ctx, keyword, limit)
	if err != nil {
		zap.L().Warn("sam.gov opportunity search failed", zap.String("keyword", keyword), zap.Error(err))
		return nil
	}
	s.Store(key, opportunities)
	return opportunities
}
