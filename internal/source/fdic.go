package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/pkg/fdic"
)

// FDIC adapts the FDIC institution database client. The upstream API needs no
// credential, so the adapter always reports a key as present.
type FDIC struct {
	Tool
	client fdic.Client
}

// NewFDIC creates an FDIC adapter.
func NewFDIC(client fdic.Client, perMinute int, ttl time.Duration) *FDIC {
	return &FDIC{
		Tool:   NewTool("fdic", perMinute, ttl, true),
		client: client,
	}
}

// SearchInstitutions returns FDIC-insured banks matching the filters, largest
// assets first. Upstream failures yield an empty slice.
func (f *FDIC) SearchInstitutions(ctx context.Context, filters fdic.Filters) []fdic.Institution {
	key := fmt.Sprintf("institutions:%d:%d:%s:%s:%d:%t",
		filters.AssetMin, filters.AssetMax,
		strings.Join(filters.States, ","), filters.City,
		filters.Limit, filters.ActiveOnly)
	if v, ok := f.Cached(key); ok {
		return v.([]fdic.Institution)
	}
	if err := f.Acquire(ctx); err != nil {
		zap.L().Warn("fdic search canceled while waiting for rate limit", zap.Error(err))
		return nil
	}

	institutions, err := f.client.SearchInstitutions(ctx, filters)
	if err != nil {
		zap.L().Warn("fdic institution search failed", zap.Error(err))
		return nil
	}
	f.Store(key, institutions)
	return institutions
}

// GetInstitution returns a single bank by certificate number, or nil when the
// certificate is unknown or the lookup fails.
func (f *FDIC) GetInstitution(ctx context.Context, cert string) *fdic.Institution {
	key := "institution:" + cert
	if v, ok := f.Cached(key); ok {
		return v.(*fdic.Institution)
	}
	if err := f.Acquire(ctx); err != nil {
		zap.L().Warn("fdic lookup canceled while waiting for rate limit", zap.Error(err))
		return nil
	}

	inst, err := f.client.GetInstitution(ctx, cert)
	if err != nil {
		zap.L().Warn("fdic institution lookup failed", zap.String("cert", cert), zap.Error(err))
		return nil
	}
	f.Store(key, inst)
	return inst
}
