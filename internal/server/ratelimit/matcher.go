package ratelimit

import "strings"

// MatchEndpoint resolves the config covering a request path and method.
// Entries whose Path ends in "/" match by prefix, so "/api/roadmaps/"
// covers "/api/roadmaps/{id}/tasks"; exact entries win over prefix ones.
// The health check is always unlimited. Returns nil when nothing matches.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && path == "/api/health" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}
	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}
