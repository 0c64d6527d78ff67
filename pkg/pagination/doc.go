// Package pagination drives Hudu list endpoints page by page.
//
// Hudu paginates with 1-based "page" and "page_size" query parameters and
// reports no total count: the only termination signal is a page with zero
// items. Pager exposes a lazy, forward-only iterator over records built on
// that contract; BatchFetcher drains an endpoint with bounded concurrency
// for bulk exports. Every page fetch still passes through the client's
// rate limiter.
package pagination
