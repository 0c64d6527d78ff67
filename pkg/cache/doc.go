// Package cache provides response caching for Hudu GET endpoints with a
// Redis backend.
//
// Hudu responses carry no cache-validator headers (no ETag, no Expires), so
// freshness is purely client-side: every entry is stored with a TTL chosen
// by the caller, and Redis reaps expired entries. The cache exists to keep
// read-heavy callers (dashboards, sync jobs) inside the vendor's request
// budget, not to guarantee strict freshness.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{
//		Endpoint: "/api/v1/companies",
//		Query:    url.Values{"page": []string{"1"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from Hudu, then:
//		// manager.Set(ctx, key, cache.NewEntry(body, status, headers, ttl))
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - hudu_cache_hits_total{layer="redis"} - Cache hits
//   - hudu_cache_misses_total - Cache misses
//   - hudu_cache_size_bytes{layer="redis"} - Bytes written to the cache
//   - hudu_cache_errors_total{operation} - Cache operation errors
package cache
