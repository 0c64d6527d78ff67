package hudu

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/pagination"
)

// AssetLayoutsService operates on /api/v1/asset_layouts. Layouts are
// read-only here; they change through the Hudu admin UI.
type AssetLayoutsService struct {
	api *client.Client
}

// AssetLayoutListOptions filters a layout listing.
type AssetLayoutListOptions struct {
	PageOptions

	Name string
}

func (o AssetLayoutListOptions) query() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "name", o.Name)
	return v
}

// List fetches one page of asset layouts.
func (s *AssetLayoutsService) List(ctx context.Context, opts AssetLayoutListOptions) client.Result[[]AssetLayout] {
	return client.Run(ctx, func() ([]AssetLayout, error) {
		query := opts.query()
		opts.PageOptions.apply(query)
		return listPage[AssetLayout](ctx, s.api, "asset_layouts", "asset_layouts", query)
	})
}

// ListAll drains every page of the layout listing.
func (s *AssetLayoutsService) ListAll(ctx context.Context, opts AssetLayoutListOptions) client.Result[[]AssetLayout] {
	return client.Run(ctx, func() ([]AssetLayout, error) {
		return listAll[AssetLayout](ctx, s.api, "asset_layouts", "asset_layouts", opts.query(), opts.PageSize)
	})
}

// Pager returns a lazy iterator over the layout listing.
func (s *AssetLayoutsService) Pager(opts AssetLayoutListOptions) *pagination.Pager {
	return pagerFor(s.api, "asset_layouts", "asset_layouts", opts.query(), opts.PageSize)
}

// Get fetches one layout with its field definitions.
func (s *AssetLayoutsService) Get(ctx context.Context, id int) client.Result[*AssetLayout] {
	return client.Run(ctx, func() (*AssetLayout, error) {
		resp, err := s.api.Get(ctx, fmt.Sprintf("asset_layouts/%d", id), nil)
		if err != nil {
			return nil, err
		}
		return decodeResource[AssetLayout](resp.Body, "asset_layout")
	})
}
