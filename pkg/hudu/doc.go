// Package hudu is the high-level, typed surface of the Hudu API client.
//
// Each resource (companies, assets, articles, ...) gets a service with
// typed operations. Every operation runs through the shared request
// pipeline: rate limiting, classification, lifecycle events, and
// operation-level retry of transient faults. Operations return a
// client.Result envelope rather than panicking; list operations come in a
// single-page form and a ListAll form that drains the pagination cursor.
package hudu
