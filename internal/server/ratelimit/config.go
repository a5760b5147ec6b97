package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string  // Endpoint path pattern (supports prefix matching)
	Method string  // HTTP method (GET, POST, etc.)
	RPS    float64 // Sustained requests per second; zero or less means unlimited
	Burst  int     // Burst capacity (defaults to 1 if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultRPS      float64
	DefaultBurst    int
	CleanupInterval time.Duration // How often idle clients are evicted
	IdleTimeout     time.Duration // How long a client may stay idle before eviction
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a configuration with the default endpoint tiers.
// A non-positive rps disables rate limiting.
func NewConfig(rps float64, burst int, whitelist string) *Config {
	if rps <= 0 {
		return &Config{Enabled: false}
	}
	if burst <= 0 {
		burst = 1
	}

	return &Config{
		Enabled:         true,
		DefaultRPS:      rps,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       parseIPList(whitelist),
		EndpointConfigs: DefaultEndpointConfigs(rps, burst),
	}
}

// DefaultEndpointConfigs returns the endpoint tiers derived from the default rate.
func DefaultEndpointConfigs(rps float64, burst int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: batch rendering (strictest)
		{Path: "/process", Method: "POST", RPS: rps / 5, Burst: max(burst/4, 1)},

		// Tier 2: tag discovery
		{Path: "/tags", Method: "POST", RPS: rps / 2, Burst: max(burst/2, 1)},

		// Tier 3: downloads - handled by default limit
		// Tier 4: health check (unlimited) - handled by special case in matcher
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
