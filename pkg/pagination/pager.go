package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoMoreItems signals the end of a paginated sequence.
var ErrNoMoreItems = errors.New("no more items")

// DefaultPageSize matches the Hudu API default.
const DefaultPageSize = 25

// FetchFunc fetches one page of records from a list endpoint. It returns
// the page's records; an empty slice marks the end of the dataset.
type FetchFunc func(ctx context.Context, page, pageSize int) ([]json.RawMessage, error)

// Cursor tracks progress through a paginated endpoint. Exhausted is a
// one-way flag: once a fetch comes back empty, no further pages are
// requested.
type Cursor struct {
	Page      int
	PageSize  int
	Exhausted bool
}

// Pager is a lazy, forward-only, non-restartable iterator over one list
// endpoint. It holds at most one page of records in memory.
type Pager struct {
	fetch  FetchFunc
	cursor Cursor
	batch  []json.RawMessage
}

// NewPager creates a pager starting at page 1. A non-positive pageSize
// falls back to the Hudu default.
func NewPager(fetch FetchFunc, pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Pager{
		fetch: fetch,
		cursor: Cursor{
			Page:     1,
			PageSize: pageSize,
		},
	}
}

// Next returns the next record, fetching the next page when the in-memory
// batch runs dry. Returns ErrNoMoreItems permanently once a fetch yields
// zero records.
func (p *Pager) Next(ctx context.Context) (json.RawMessage, error) {
	for len(p.batch) == 0 {
		if p.cursor.Exhausted {
			return nil, ErrNoMoreItems
		}

		items, err := p.fetch(ctx, p.cursor.Page, p.cursor.PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", p.cursor.Page, err)
		}

		if len(items) == 0 {
			p.cursor.Exhausted = true
			return nil, ErrNoMoreItems
		}

		p.batch = items
		p.cursor.Page++
	}

	item := p.batch[0]
	p.batch = p.batch[1:]

	return item, nil
}

// All drains the remaining sequence into an ordered slice. This issues one
// request per page, each subject to the rate limiter.
func (p *Pager) All(ctx context.Context) ([]json.RawMessage, error) {
	var items []json.RawMessage

	for {
		item, err := p.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrNoMoreItems) {
				return items, nil
			}
			return nil, err
		}
		items = append(items, item)
	}
}

// Cursor returns a copy of the pager's current position.
func (p *Pager) Cursor() Cursor {
	return p.cursor
}
