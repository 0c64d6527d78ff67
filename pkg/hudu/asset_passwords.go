package hudu

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/pagination"
)

// AssetPasswordsService operates on /api/v1/asset_passwords.
type AssetPasswordsService struct {
	api *client.Client
}

// AssetPasswordListOptions filters a credential listing.
type AssetPasswordListOptions struct {
	PageOptions

	CompanyID int
	Name      string
	Slug      string
}

func (o AssetPasswordListOptions) query() url.Values {
	v := url.Values{}
	setIfPositive(v, "company_id", o.CompanyID)
	setIfNotEmpty(v, "name", o.Name)
	setIfNotEmpty(v, "slug", o.Slug)
	return v
}

// List fetches one page of stored credentials.
func (s *AssetPasswordsService) List(ctx context.Context, opts AssetPasswordListOptions) client.Result[[]AssetPassword] {
	return client.Run(ctx, func() ([]AssetPassword, error) {
		query := opts.query()
		opts.PageOptions.apply(query)
		return listPage[AssetPassword](ctx, s.api, "asset_passwords", "asset_passwords", query)
	})
}

// ListAll drains every page of the filtered listing.
func (s *AssetPasswordsService) ListAll(ctx context.Context, opts AssetPasswordListOptions) client.Result[[]AssetPassword] {
	return client.Run(ctx, func() ([]AssetPassword, error) {
		return listAll[AssetPassword](ctx, s.api, "asset_passwords", "asset_passwords", opts.query(), opts.PageSize)
	})
}

// Pager returns a lazy iterator over the filtered listing.
func (s *AssetPasswordsService) Pager(opts AssetPasswordListOptions) *pagination.Pager {
	return pagerFor(s.api, "asset_passwords", "asset_passwords", opts.query(), opts.PageSize)
}

// Get fetches one credential by id. The decrypted password is only present
// when the API key has password access.
func (s *AssetPasswordsService) Get(ctx context.Context, id int) client.Result[*AssetPassword] {
	return client.Run(ctx, func() (*AssetPassword, error) {
		resp, err := s.api.Get(ctx, fmt.Sprintf("asset_passwords/%d", id), nil)
		if err != nil {
			return nil, err
		}
		return decodeResource[AssetPassword](resp.Body, "asset_password")
	})
}
