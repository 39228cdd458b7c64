package source

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const windowSpan = time.Minute

// Window enforces a sliding one-minute request ceiling. Wait never rejects a
// call: when the window is full it suspends the caller until the oldest
// retained request ages out, then records the new request.
//
// Multiple goroutines may call Wait on the same Window concurrently.
type Window struct {
	mu      sync.Mutex
	limit   int
	history []time.Time
	now     func() time.Time // injectable for testing
	sleep   func(context.Context, time.Duration) error
}

// NewWindow creates a sliding window allowing limit requests per rolling minute.
func NewWindow(limit int) *Window {
	return &Window{
		limit: limit,
		now:   time.Now,
		sleep: sleepCtx,
	}
}

// Wait blocks until the window has capacity, records the request, and returns.
// The only error condition is context cancellation during the wait.
func (w *Window) Wait(ctx context.Context) error {
	for {
		w.mu.Lock()
		now := w.now()
		w.prune(now)

		if w.limit <= 0 || len(w.history) < w.limit {
			w.history = append(w.history, now)
			w.mu.Unlock()
			return nil
		}

		// Residual wait: until the oldest retained request leaves the window.
		wait := windowSpan - now.Sub(w.history[0])
		w.mu.Unlock()

		if wait <= 0 {
			continue
		}

		zap.L().Warn("rate limit reached, waiting for window capacity",
			zap.Int("limit_per_minute", w.limit),
			zap.Duration("wait", wait),
		)
		if err := w.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Recent returns the number of requests recorded in the current window.
func (w *Window) Recent() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(w.now())
	return len(w.history)
}

// prune drops timestamps older than the window span. Caller holds the lock.
func (w *Window) prune(now time.Time) {
	cutoff := now.Add(-windowSpan)
	i := 0
	for i < len(w.history) && !w.history[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.history = append(w.history[:0], w.history[i:]...)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
