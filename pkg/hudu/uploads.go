package hudu

import (
	"context"
	"net/url"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/pagination"
)

// UploadsService operates on /api/v1/uploads. The endpoint answers with a
// bare JSON array instead of the usual named envelope.
type UploadsService struct {
	api *client.Client
}

// UploadListOptions pages through the upload listing.
type UploadListOptions struct {
	PageOptions
}

// List fetches one page of uploads.
func (s *UploadsService) List(ctx context.Context, opts UploadListOptions) client.Result[[]Upload] {
	return client.Run(ctx, func() ([]Upload, error) {
		query := url.Values{}
		opts.PageOptions.apply(query)
		return listPage[Upload](ctx, s.api, "uploads", "", query)
	})
}

// ListAll drains every page of the upload listing.
func (s *UploadsService) ListAll(ctx context.Context, opts UploadListOptions) client.Result[[]Upload] {
	return client.Run(ctx, func() ([]Upload, error) {
		return listAll[Upload](ctx, s.api, "uploads", "", url.Values{}, opts.PageSize)
	})
}

// Pager returns a lazy iterator over the upload listing.
func (s *UploadsService) Pager(opts UploadListOptions) *pagination.Pager {
	return pagerFor(s.api, "uploads", "", url.Values{}, opts.PageSize)
}
