package source

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/pkg/clearbit"
)

// Clearbit adapts the Clearbit firmographic enrichment client.
type Clearbit struct {
	Tool
	client clearbit.Client
}

// NewClearbit creates a Clearbit adapter.
func NewClearbit(client clearbit.Client, perMinute int, ttl time.Duration, hasAPIKey bool) *Clearbit {
	return &Clearbit{
		Tool:   NewTool("clearbit", perMinute, ttl, hasAPIKey),
		client: client,
	}
}

// EnrichCompany returns Clearbit's profile for a domain, or nil when Clearbit
// has no record or the lookup fails.
func (c *Clearbit) EnrichCompany(ctx context.Context, domain string) *clearbit.CompanyData {
	key := "company:" + strings.ToLower(domain)
	if v, ok := c.Cached(key); ok {
		return v.(*clearbit.CompanyData)
	}
	if !c.HasAPIKey() {
		zap.L().Warn("clearbit enrichment skipped: no API key configured")
		return nil
	}
	if err := c.Acquire(ctx); err != nil {
		zap.L().Warn("clearbit enrichment canceled while waiting for rate limit", zap.Error(err))
		return nil
	}

	data, err := c.client.EnrichCompany(ctx, domain)
	if err != nil {
		zap.L().Warn("clearbit enrichment failed", zap.String("domain", domain), zap.Error(err))
		return nil
	}
	c.Store(key, data)
	return data
}
