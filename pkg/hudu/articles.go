package hudu

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/pagination"
)

// ArticlesService operates on /api/v1/articles.
type ArticlesService struct {
	api *client.Client
}

// ArticleListOptions filters an article listing. Draft is a tri-state
// filter, so it is a pointer: nil means no filter.
type ArticleListOptions struct {
	PageOptions

	CompanyID int
	Name      string
	Draft     *bool
}

func (o ArticleListOptions) query() url.Values {
	v := url.Values{}
	setIfPositive(v, "company_id", o.CompanyID)
	setIfNotEmpty(v, "name", o.Name)
	if o.Draft != nil {
		v.Set("draft", fmt.Sprintf("%t", *o.Draft))
	}
	return v
}

// ArticleParams carries the writable fields for create and update.
type ArticleParams struct {
	Name          string `json:"name,omitempty"`
	Content       string `json:"content,omitempty"`
	CompanyID     int    `json:"company_id,omitempty"`
	FolderID      int    `json:"folder_id,omitempty"`
	Draft         bool   `json:"draft,omitempty"`
	EnableSharing bool   `json:"enable_sharing,omitempty"`
}

// List fetches one page of articles.
func (s *ArticlesService) List(ctx context.Context, opts ArticleListOptions) client.Result[[]Article] {
	return client.Run(ctx, func() ([]Article, error) {
		query := opts.query()
		opts.PageOptions.apply(query)
		return listPage[Article](ctx, s.api, "articles", "articles", query)
	})
}

// ListAll drains every page of the filtered listing.
func (s *ArticlesService) ListAll(ctx context.Context, opts ArticleListOptions) client.Result[[]Article] {
	return client.Run(ctx, func() ([]Article, error) {
		return listAll[Article](ctx, s.api, "articles", "articles", opts.query(), opts.PageSize)
	})
}

// Pager returns a lazy iterator over the filtered listing.
func (s *ArticlesService) Pager(opts ArticleListOptions) *pagination.Pager {
	return pagerFor(s.api, "articles", "articles", opts.query(), opts.PageSize)
}

// Get fetches one article by id.
func (s *ArticlesService) Get(ctx context.Context, id int) client.Result[*Article] {
	return client.Run(ctx, func() (*Article, error) {
		resp, err := s.api.Get(ctx, fmt.Sprintf("articles/%d", id), nil)
		if err != nil {
			return nil, err
		}
		return decodeResource[Article](resp.Body, "article")
	})
}

// Create creates an article and returns the stored record.
func (s *ArticlesService) Create(ctx context.Context, params ArticleParams) client.Result[*Article] {
	return client.Run(ctx, func() (*Article, error) {
		resp, err := s.api.Post(ctx, "articles", map[string]any{"article": params})
		if err != nil {
			return nil, err
		}
		return decodeResource[Article](resp.Body, "article")
	})
}

// Update modifies an article and returns the stored record.
func (s *ArticlesService) Update(ctx context.Context, id int, params ArticleParams) client.Result[*Article] {
	return client.Run(ctx, func() (*Article, error) {
		resp, err := s.api.Put(ctx, fmt.Sprintf("articles/%d", id), map[string]any{"article": params})
		if err != nil {
			return nil, err
		}
		return decodeResource[Article](resp.Body, "article")
	})
}

// Delete removes an article.
func (s *ArticlesService) Delete(ctx context.Context, id int) error {
	r := client.Run(ctx, func() (struct{}, error) {
		_, err := s.api.Delete(ctx, fmt.Sprintf("articles/%d", id))
		return struct{}{}, err
	})
	return r.Err()
}
