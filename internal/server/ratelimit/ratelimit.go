// Package ratelimit provides per-client HTTP rate limiting on top of golang.org/x/time/rate.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int // Burst capacity of the matched tier; zero when unlimited
	Remaining  int
	RetryAfter time.Duration
}

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter keeps one token bucket per client and endpoint tier.
type Limiter struct {
	mu       sync.Mutex
	entries  map[string]*entry
	config   *Config
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	now      func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
// A nil configuration disables limiting.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{Enabled: false}
	}

	l := &Limiter{
		entries: make(map[string]*entry),
		config:  config,
		done:    make(chan struct{}),
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.wg.Add(1)
		go l.cleanup()
	}

	return l
}

// Allow reports whether a request from clientID to the endpoint may proceed.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}

	ec := MatchEndpoint(path, method, l.config.EndpointConfigs)
	key := clientID
	if ec == nil {
		ec = &EndpointConfig{RPS: l.config.DefaultRPS, Burst: l.config.DefaultBurst}
	} else {
		key = clientID + ":" + method + ":" + ec.Path
	}

	if ec.RPS <= 0 {
		return true, Info{Allowed: true}
	}

	burst := ec.Burst
	if burst <= 0 {
		burst = 1
	}

	now := l.now()
	lim := l.getLimiter(key, rate.Limit(ec.RPS), burst, now)

	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)

	info := Info{
		Allowed:   allowed,
		Limit:     burst,
		Remaining: max(int(math.Floor(tokens)), 0),
	}
	if !allowed {
		info.RetryAfter = time.Duration((1 - tokens) / ec.RPS * float64(time.Second))
	}
	return allowed, info
}

// getLimiter returns the limiter for a key, creating one if needed.
func (l *Limiter) getLimiter(key string, limit rate.Limit, burst int, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(limit, burst)}
		l.entries[key] = e
	}
	e.lastAccess = now
	return e.limiter
}

// cleanup evicts idle clients until Stop is called.
func (l *Limiter) cleanup() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictIdle(l.now())
		case <-l.done:
			return
		}
	}
}

// evictIdle removes limiters not used within the idle timeout.
func (l *Limiter) evictIdle(now time.Time) int {
	cutoff := now.Add(-l.config.IdleTimeout)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		if e.lastAccess.Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Stop stops the cleanup goroutine and waits for it to exit.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
	l.wg.Wait()
}
