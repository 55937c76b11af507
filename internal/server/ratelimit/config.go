package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/presence-analyzer/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (a trailing "/" matches by prefix)
	Method string        // HTTP method
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromConfig builds the limiter configuration from the resolved process configuration.
func FromConfig(rl config.RateLimit) *Config {
	if !rl.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    rl.DefaultLimit,
		DefaultWindow:   rl.DefaultWindow,
		CleanupInterval: rl.CleanupInterval,
		Whitelist:       parseIPList(rl.Whitelist),
		Blacklist:       parseIPList(rl.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	modelCall := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: http.MethodPost, Limit: 20, Window: time.Hour, Burst: 3}
	}
	return []EndpointConfig{
		// Model-backed endpoints
		modelCall("/api/extract-profile"),
		modelCall("/api/analyze"),
		modelCall("/api/analyze/stream"),
		modelCall("/api/role-fit"),
		modelCall("/api/learning-roadmap"),

		// Outbound fetches without a model call
		{Path: "/api/ingest", Method: http.MethodPost, Limit: 60, Window: time.Minute, Burst: 10},

		// /api/score, /api/report and anything else use the default limit; /health is unlimited
	}
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
