// Package source implements the rate-limited, cache-backed adapter contract
// shared by every external data source. Adapters absorb upstream failures at
// their own boundary: callers always receive a usable (possibly empty) value.
package source

import (
	"context"
	"time"
)

// Health reports an adapter's operational state.
type Health struct {
	Tool           string `json:"tool"`
	CacheSize      int    `json:"cache_size"`
	RecentRequests int    `json:"recent_requests"`
	HasAPIKey      bool   `json:"has_api_key"`
}

// Tool is the base every adapter embeds: a named sliding-window limiter plus
// a TTL result cache. The window and cache are private to the adapter
// instance; they are the only pipeline state requiring internal locking.
type Tool struct {
	name      string
	window    *Window
	cache     *TTLCache
	hasAPIKey bool
}

// NewTool creates an adapter base with the given per-minute ceiling and
// cache TTL.
func NewTool(name string, perMinute int, ttl time.Duration, hasAPIKey bool) Tool {
	return Tool{
		name:      name,
		window:    NewWindow(perMinute),
		cache:     NewTTLCache(ttl),
		hasAPIKey: hasAPIKey,
	}
}

// Name returns the adapter name.
func (t *Tool) Name() string { return t.name }

// Cached returns the cached value for key, consuming no rate-limit budget.
func (t *Tool) Cached(key string) (any, bool) { return t.cache.Get(key) }

// Store caches a result under key.
func (t *Tool) Store(key string, value any) { t.cache.Set(key, value) }

// Acquire blocks until the sliding window has capacity for one upstream call.
func (t *Tool) Acquire(ctx context.Context) error { return t.window.Wait(ctx) }

// HasAPIKey reports whether the adapter was configured with a credential.
func (t *Tool) HasAPIKey() bool { return t.hasAPIKey }

// Health returns the adapter's health snapshot.
func (t *Tool) Health() Health {
	return Health{
		Tool:           t.name,
		CacheSize:      t.cache.Len(),
		RecentRequests: t.window.Recent(),
		HasAPIKey:      t.hasAPIKey,
	}
}
