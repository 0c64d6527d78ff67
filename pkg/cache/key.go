package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached Hudu response.
type Key struct {
	// Endpoint is the full resource path including the API prefix,
	// e.g. "/api/v1/companies"
	Endpoint string

	// Query holds the request's query parameters (page, page_size, filters)
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: hudu:endpoint:query1=val1:query2=val2
//
// Example:
//
//	hudu:api/v1/companies:page=1:page_size=25
func (k Key) String() string {
	parts := []string{"hudu"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism
	if len(k.Query) > 0 {
		queryKeys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
