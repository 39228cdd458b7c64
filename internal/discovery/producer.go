// Package discovery finds candidate leads per target industry. Each producer
// owns one industry's data sources; a fan-out runs every enabled producer
// concurrently and merges whatever they find. One producer failing never
// costs the others their results.
package discovery

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Producer discovers raw leads for a single industry.
type Producer interface {
	Name() string
	Enabled() bool
	Discover(ctx context.Context) ([]*model.Lead, error)
}

// FanOut runs all enabled producers concurrently and returns the merged
// leads. Producer failures are logged and absorbed: an all-failed run yields
// an empty slice, not an error.
func FanOut(ctx context.Context, producers []Producer) []*model.Lead {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		leads []*model.Lead
	)

	for _, p := range producers {
		if !p.Enabled() {
			zap.L().Debug("producer disabled, skipping", zap.String("producer", p.Name()))
			continue
		}
		wg.Add(1)
		go func(p Producer) {
			defer wg.Done()

			found, err := p.Discover(ctx)
			if err != nil {
				zap.L().Warn("producer failed",
					zap.String("producer", p.Name()),
					zap.Error(err),
				)
				return
			}
			zap.L().Info("producer finished",
				zap.String("producer", p.Name()),
				zap.Int("leads", len(found)),
			)

			mu.Lock()
			leads = append(leads, found...)
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	return leads
}
