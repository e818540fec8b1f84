package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestMemoryBurstThenReject(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newMemory(Settings{PerMinute: 60, Burst: 3}, 100, clock.now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
	}

	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Second, d.RetryAfter)
}

func TestMemoryRefills(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newMemory(Settings{PerMinute: 30, Burst: 1}, 100, clock.now)
	ctx := context.Background()

	d, _ := l.Allow(ctx, "k")
	require.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "k")
	require.False(t, d.Allowed)
	assert.Equal(t, 2*time.Second, d.RetryAfter)

	clock.advance(2 * time.Second)
	d, _ = l.Allow(ctx, "k")
	assert.True(t, d.Allowed)
}

func TestMemoryNeverExceedsCapacity(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newMemory(Settings{PerMinute: 60, Burst: 2}, 100, clock.now)
	ctx := context.Background()

	clock.advance(time.Hour)
	allowed := 0
	for i := 0; i < 5; i++ {
		if d, _ := l.Allow(ctx, "k"); d.Allowed {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed)
}

func TestMemoryKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	l := newMemory(Settings{PerMinute: 60, Burst: 1}, 100, clock.now)
	ctx := context.Background()

	d, _ := l.Allow(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "b")
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "a")
	assert.False(t, d.Allowed)
}

func TestNoopAllows(t *testing.T) {
	d, err := Noop{}.Allow(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
