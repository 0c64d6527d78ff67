// Package testutil provides testing utilities for the Hudu client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock Hudu endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockHudu is a configurable mock Hudu server for testing.
type MockHudu struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
}

// NewMockHudu creates a new mock Hudu server.
func NewMockHudu() *MockHudu {
	mock := &MockHudu{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockHudu) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockHudu) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockHudu) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockHudu) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockHudu) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetPaginatedList serves a fixed dataset under a list endpoint, honoring
// the page and page_size query parameters and wrapping the items in the
// named envelope. Pages past the end answer with an empty list.
func (m *MockHudu) SetPaginatedList(path, itemsKey string, items []any) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
		if pageSize < 1 {
			pageSize = 25
		}

		start := (page - 1) * pageSize
		end := start + pageSize
		if start > len(items) {
			start = len(items)
		}
		if end > len(items) {
			end = len(items)
		}

		var payload any = items[start:end]
		if itemsKey != "" {
			payload = map[string]any{itemsKey: items[start:end]}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(payload)
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockHudu) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// APIKey returns the x-api-key header of the most recent request.
func (m *MockHudu) APIKey() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.LastRequestHeader == nil {
		return ""
	}
	return m.LastRequestHeader.Get("x-api-key")
}

// defaultHandler answers unconfigured paths with an empty JSON object.
func (m *MockHudu) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{}`))
}

// NewCompanyResponse creates a single-company envelope response.
func NewCompanyResponse(id int, name string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf(`{"company": {"id": %d, "name": %q}}`, id, name),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "Record not found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewFlakyHandler fails the first n requests with the given status, then
// delegates to a healthy JSON response.
func NewFlakyHandler(n int, failStatus int, body string) func(w http.ResponseWriter, r *http.Request) {
	var mu sync.Mutex
	failures := 0

	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		shouldFail := failures < n
		if shouldFail {
			failures++
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if shouldFail {
			w.WriteHeader(failStatus)
			w.Write([]byte(`{"error": "temporary failure"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}
