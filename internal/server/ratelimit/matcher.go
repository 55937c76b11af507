package ratelimit

import (
	"net/http"
	"slices"
	"strings"
)

// healthCheck is never limited so probes keep working under load.
var healthCheck = EndpointConfig{Path: "/health", Method: http.MethodGet}

// isPrefix reports whether the config covers a whole path subtree.
func (c EndpointConfig) isPrefix() bool {
	return strings.HasSuffix(c.Path, "/")
}

// covers reports whether a request matches the config, by exact path or by subtree.
func (c EndpointConfig) covers(path, method string, prefix bool) bool {
	if c.Method != method {
		return false
	}
	if prefix {
		return c.isPrefix() && strings.HasPrefix(path, c.Path)
	}
	return c.Path == path
}

// MatchEndpoint returns the config governing path and method, or nil when none applies.
// An exact path wins over a subtree. GET /health always matches an unlimited config.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if healthCheck.covers(path, method, false) {
		unlimited := healthCheck
		return &unlimited
	}

	for _, prefix := range []bool{false, true} {
		if i := slices.IndexFunc(configs, func(c EndpointConfig) bool { return c.covers(path, method, prefix) }); i >= 0 {
			return &configs[i]
		}
	}
	return nil
}
