package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixedClock(l *Limiter, at time.Time) {
	l.now = func() time.Time { return at }
}

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultRPS: 1, DefaultBurst: 3})
	defer limiter.Stop()
	fixedClock(limiter, time.Unix(1000, 0))

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/batches/x/archive.zip", "GET")
		assert.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 3, info.Limit)
	}

	allowed, info := limiter.Allow("10.0.0.1", "/batches/x/archive.zip", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, time.Second, info.RetryAfter)
}

func TestLimiter_Refill(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultRPS: 1, DefaultBurst: 1})
	defer limiter.Stop()

	start := time.Unix(1000, 0)
	fixedClock(limiter, start)
	allowed, _ := limiter.Allow("c", "/x", "GET")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/x", "GET")
	require.False(t, allowed)

	fixedClock(limiter, start.Add(time.Second))
	allowed, _ = limiter.Allow("c", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultRPS: 1, DefaultBurst: 1})
	defer limiter.Stop()
	fixedClock(limiter, time.Unix(1000, 0))

	a, _ := limiter.Allow("a", "/x", "GET")
	b, _ := limiter.Allow("b", "/x", "GET")
	assert.True(t, a)
	assert.True(t, b)
}

func TestLimiter_EndpointTiers(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:      true,
		DefaultRPS:   100,
		DefaultBurst: 100,
		EndpointConfigs: []EndpointConfig{
			{Path: "/process", Method: "POST", RPS: 1, Burst: 1},
		},
	})
	defer limiter.Stop()
	fixedClock(limiter, time.Unix(1000, 0))

	allowed, _ := limiter.Allow("c", "/process", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/process", "POST")
	assert.False(t, allowed)

	// The default tier has its own bucket
	allowed, _ = limiter.Allow("c", "/tags", "POST")
	assert.True(t, allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultRPS: 1, DefaultBurst: 1})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("c", "/health", "GET")
		assert.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestLimiter_DisabledAndWhitelist(t *testing.T) {
	disabled := NewLimiter(nil)
	defer disabled.Stop()
	for i := 0; i < 5; i++ {
		allowed, _ := disabled.Allow("c", "/process", "POST")
		assert.True(t, allowed)
	}

	cfg := NewConfig(1, 1, "127.0.0.1, ::1")
	cfg.CleanupInterval = 0
	limiter := NewLimiter(cfg)
	defer limiter.Stop()
	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("127.0.0.1", "/process", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_EvictIdle(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultRPS: 1, DefaultBurst: 1, IdleTimeout: time.Minute})
	defer limiter.Stop()

	start := time.Unix(1000, 0)
	fixedClock(limiter, start)
	limiter.Allow("old", "/x", "GET")
	fixedClock(limiter, start.Add(2*time.Minute))
	limiter.Allow("new", "/x", "GET")

	assert.Equal(t, 1, limiter.evictIdle(start.Add(2*time.Minute)))

	// Evicted clients start over with a full bucket
	allowed, _ := limiter.Allow("old", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewLimiter(NewConfig(5, 10, ""))
	limiter.Stop()
	limiter.Stop()
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultRPS: 1, DefaultBurst: 10})
	defer limiter.Stop()
	fixedClock(limiter, time.Unix(1000, 0))

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("c", "/x", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowedCount)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/process", Method: "POST", RPS: 1},
		{Path: "/batches/", Method: "GET", RPS: 2},
	}

	tests := []struct {
		name   string
		path   string
		method string
		want   float64
		found  bool
	}{
		{"exact", "/process", "POST", 1, true},
		{"prefix", "/batches/abc/archive.zip", "GET", 2, true},
		{"method mismatch", "/process", "GET", 0, false},
		{"no match", "/tags", "POST", 0, false},
		{"health", "/health", "GET", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if !tt.found {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.RPS)
		})
	}
}

func TestNewConfig(t *testing.T) {
	assert.False(t, NewConfig(0, 10, "").Enabled)

	cfg := NewConfig(5, 20, "1.2.3.4")
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Whitelist["1.2.3.4"])
	require.Len(t, cfg.EndpointConfigs, 2)
	assert.Equal(t, 1.0, cfg.EndpointConfigs[0].RPS)
	assert.Equal(t, 5, cfg.EndpointConfigs[0].Burst)
}
