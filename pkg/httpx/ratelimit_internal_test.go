package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimiterCleanupDropsIdleKeys(t *testing.T) {
	// Slow refill so the active bucket stays below full for the duration of
	// the test.
	limit := rate.Limit(1.0 / 3600)

	rl := &rateLimiter{
		rate:        limit,
		burst:       2,
		lastCleanup: time.Now().Add(-10 * time.Minute),
	}

	// Full bucket: the key has been idle for at least a window.
	rl.limiters.Store("idle", rate.NewLimiter(limit, 2))

	active := rate.NewLimiter(limit, 2)
	require.True(t, active.Allow())
	rl.limiters.Store("active", active)

	rl.maybeCleanup()

	_, ok := rl.limiters.Load("idle")
	require.False(t, ok, "idle limiter should be dropped")

	_, ok = rl.limiters.Load("active")
	require.True(t, ok, "recently used limiter should be retained")
}

func TestRateLimiterCleanupIsThrottled(t *testing.T) {
	limit := rate.Limit(1.0 / 3600)

	rl := &rateLimiter{
		rate:        limit,
		burst:       2,
		lastCleanup: time.Now(),
	}

	rl.limiters.Store("idle", rate.NewLimiter(limit, 2))

	// A cleanup ran moments ago, so this one is skipped and the idle key
	// survives.
	rl.maybeCleanup()

	_, ok := rl.limiters.Load("idle")
	require.True(t, ok)
}
