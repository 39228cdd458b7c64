package source

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

// Hunter adapts the Hunter.io email discovery client.
type Hunter struct {
	Tool
	client hunter.Client
}

// NewHunter creates a Hunter.io adapter.
func NewHunter(client hunter.Client, perMinute int, ttl time.Duration, hasAPIKey bool) *Hunter {
	return &Hunter{
		Tool:   NewTool("hunter", perMinute, ttl, hasAPIKey),
		client: client,
	}
}

// DomainSearch returns discovered addresses for a company domain, optionally
// narrowed to a department. Upstream failures yield an empty slice.
func (h *Hunter) DomainSearch(ctx context.Context, domain, department string, limit int) []hunter.Email {
	if limit <= 0 {
		limit = 10
	}
	key := "domain:" + strings.ToLower(domain) + ":" + department
	if v, ok := h.Cached(key); ok {
		return v.([]hunter.Email)
	}
	if !h.HasAPIKey() {
		zap.L().Warn("hunter search skipped: no API key configured")
		return nil
	}
	if err := h.Acquire(ctx); err != nil {
		zap.L().Warn("hunter search canceled while waiting for rate limit", zap.Error(err))
		return nil
	}

	emails, err := h.client.DomainSearch(ctx, domain, department, limit)
	if err != nil {
		zap.L().Warn("hunter domain search failed", zap.String("domain", domain), zap.Error(err))
		return nil
	}
	h.Store(key, emails)
	return emails
}
