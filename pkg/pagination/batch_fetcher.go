package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of parallel requests per wave.
	// Recommendation: 10 workers for Hudu (300 req/min = 5 req/s)
	MaxConcurrency int
	// Timeout per page fetch
	Timeout time.Duration
	// PageSize per request (default: Hudu's 25)
	PageSize int
}

// DefaultConfig returns safe default configuration for Hudu
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 10,
		Timeout:        15 * time.Second,
		PageSize:       DefaultPageSize,
	}
}

// pageResult carries one fetched page back from a wave worker
type pageResult struct {
	pageNumber int
	items      []json.RawMessage
	err        error
}

// BatchFetcher drains a paginated endpoint with bounded concurrency. Hudu
// does not report a total page count, so pages are fetched in speculative
// waves of MaxConcurrency; the first empty page ends the dataset and later
// pages of that wave are discarded.
type BatchFetcher struct {
	fetch  FetchFunc
	config Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher(fetch FetchFunc, config Config) *BatchFetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 10
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}

	return &BatchFetcher{
		fetch:  fetch,
		config: config,
	}
}

// FetchAll fetches every page of the endpoint and returns the records in
// page order. A failed page aborts the whole fetch; results are not
// partial.
func (bf *BatchFetcher) FetchAll(ctx context.Context, endpoint string) ([]json.RawMessage, error) {
	start := time.Now()

	log.Info().
		Str("endpoint", endpoint).
		Int("concurrency", bf.config.MaxConcurrency).
		Msg("Starting parallel page fetch")

	var all []json.RawMessage
	firstPage := 1

	for {
		pages, done, err := bf.fetchWave(ctx, firstPage)
		if err != nil {
			return nil, err
		}

		for _, page := range pages {
			all = append(all, page.items...)
		}

		if done {
			break
		}
		firstPage += bf.config.MaxConcurrency
	}

	log.Info().
		Str("endpoint", endpoint).
		Int("items", len(all)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return all, nil
}

// fetchWave fetches pages firstPage..firstPage+MaxConcurrency-1 in
// parallel. It returns the wave's pages trimmed at the first empty page,
// and whether that empty page ended the dataset.
func (bf *BatchFetcher) fetchWave(ctx context.Context, firstPage int) ([]pageResult, bool, error) {
	results := make(chan pageResult, bf.config.MaxConcurrency)

	var wg sync.WaitGroup
	for i := 0; i < bf.config.MaxConcurrency; i++ {
		wg.Add(1)
		go func(pageNum int) {
			defer wg.Done()

			pageCtx, cancel := context.WithTimeout(ctx, bf.config.Timeout)
			items, err := bf.fetch(pageCtx, pageNum, bf.config.PageSize)
			cancel()

			results <- pageResult{pageNumber: pageNum, items: items, err: err}
		}(firstPage + i)
	}

	wg.Wait()
	close(results)

	pages := make([]pageResult, 0, bf.config.MaxConcurrency)
	for result := range results {
		pages = append(pages, result)
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].pageNumber < pages[j].pageNumber
	})

	for i, page := range pages {
		if page.err != nil {
			log.Warn().
				Err(page.err).
				Int("page", page.pageNumber).
				Msg("Page fetch failed")
			return nil, false, fmt.Errorf("fetch page %d: %w", page.pageNumber, page.err)
		}
		if len(page.items) == 0 {
			return pages[:i], true, nil
		}
	}

	return pages, false, nil
}
