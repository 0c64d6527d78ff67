package hudu

import (
	"context"
	"net/url"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/pagination"
)

// RelationsService operates on /api/v1/relations.
type RelationsService struct {
	api *client.Client
}

// RelationListOptions pages through the relation listing. The endpoint has
// no server-side filters.
type RelationListOptions struct {
	PageOptions
}

// List fetches one page of relations.
func (s *RelationsService) List(ctx context.Context, opts RelationListOptions) client.Result[[]Relation] {
	return client.Run(ctx, func() ([]Relation, error) {
		query := url.Values{}
		opts.PageOptions.apply(query)
		return listPage[Relation](ctx, s.api, "relations", "relations", query)
	})
}

// ListAll drains every page of the relation listing.
func (s *RelationsService) ListAll(ctx context.Context, opts RelationListOptions) client.Result[[]Relation] {
	return client.Run(ctx, func() ([]Relation, error) {
		return listAll[Relation](ctx, s.api, "relations", "relations", url.Values{}, opts.PageSize)
	})
}

// Pager returns a lazy iterator over the relation listing.
func (s *RelationsService) Pager(opts RelationListOptions) *pagination.Pager {
	return pagerFor(s.api, "relations", "relations", url.Values{}, opts.PageSize)
}
