package cache

import (
	"net/http"
	"time"
)

// Entry is a cached Hudu response.
type Entry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// Headers are the response headers
	Headers http.Header `json:"headers"`

	// Expires is when the entry becomes stale (client-chosen TTL)
	Expires time.Time `json:"expires"`

	// CachedAt is when the response was cached
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry builds an entry from response parts with a client-chosen TTL.
func NewEntry(data []byte, statusCode int, headers http.Header, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Data:       data,
		StatusCode: statusCode,
		Headers:    headers.Clone(),
		Expires:    now.Add(ttl),
		CachedAt:   now,
	}
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
