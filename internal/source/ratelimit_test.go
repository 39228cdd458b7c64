package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a Window deterministically: sleep advances the clock
// instead of blocking.
type fakeClock struct {
	t      time.Time
	slept  []time.Duration
	cancel bool
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if c.cancel {
		return context.Canceled
	}
	c.slept = append(c.slept, d)
	c.t = c.t.Add(d)
	return nil
}

func newTestWindow(limit int) (*Window, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	w := NewWindow(limit)
	w.now = clock.now
	w.sleep = clock.sleep
	return w, clock
}

func TestWindowAllowsUpToLimit(t *testing.T) {
	w, clock := newTestWindow(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Wait(ctx))
	}

	assert.Empty(t, clock.slept, "no wait while under the limit")
	assert.Equal(t, 3, w.Recent())
}

func TestWindowWaitsForOldestToAgeOut(t *testing.T) {
	w, clock := newTestWindow(2)
	ctx := context.Background()

	require.NoError(t, w.Wait(ctx))
	clock.t = clock.t.Add(10 * time.Second)
	require.NoError(t, w.Wait(ctx))

	// Window is full. The third call must wait until the first request is a
	// full minute old: 60s - 10s elapsed = 50s.
	require.NoError(t, w.Wait(ctx))
	require.Len(t, clock.slept, 1)
	assert.Equal(t, 50*time.Second, clock.slept[0])

	// The first request aged out during the wait, so the window holds two.
	assert.Equal(t, 2, w.Recent())
}

func TestWindowNeverRejects(t *testing.T) {
	w, clock := newTestWindow(1)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Wait(ctx))
	}

	// Every call past the first had to wait out a full window.
	assert.Len(t, clock.slept, 4)
	for _, d := range clock.slept {
		assert.Equal(t, time.Minute, d)
	}
}

func TestWindowCanceledDuringWait(t *testing.T) {
	w, clock := newTestWindow(1)
	ctx := context.Background()

	require.NoError(t, w.Wait(ctx))
	clock.cancel = true

	err := w.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWindowPrunesAgedRequests(t *testing.T) {
	w, clock := newTestWindow(5)
	ctx := context.Background()

	require.NoError(t, w.Wait(ctx))
	require.NoError(t, w.Wait(ctx))
	assert.Equal(t, 2, w.Recent())

	clock.t = clock.t.Add(61 * time.Second)
	assert.Equal(t, 0, w.Recent())
}

func TestWindowZeroLimitIsUnlimited(t *testing.T) {
	w, clock := newTestWindow(0)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, w.Wait(ctx))
	}
	assert.Empty(t, clock.slept)
}
