package hudu

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/pagination"
)

// AssetsService operates on the global /api/v1/assets listing and the
// nested /api/v1/companies/{id}/assets collection.
type AssetsService struct {
	api *client.Client
}

// AssetListOptions filters an asset listing.
type AssetListOptions struct {
	PageOptions

	ID            int
	AssetLayoutID int
	Name          string
	PrimarySerial string
	Slug          string
	Archived      bool
}

func (o AssetListOptions) query() url.Values {
	v := url.Values{}
	setIfPositive(v, "id", o.ID)
	setIfPositive(v, "asset_layout_id", o.AssetLayoutID)
	setIfNotEmpty(v, "name", o.Name)
	setIfNotEmpty(v, "primary_serial", o.PrimarySerial)
	setIfNotEmpty(v, "slug", o.Slug)
	if o.Archived {
		v.Set("archived", "true")
	}
	return v
}

// AssetParams carries the writable fields for create and update. Custom
// field values are keyed by their layout field label.
type AssetParams struct {
	Name                string       `json:"name,omitempty"`
	AssetLayoutID       int          `json:"asset_layout_id,omitempty"`
	PrimarySerial       string       `json:"primary_serial,omitempty"`
	PrimaryMail         string       `json:"primary_mail,omitempty"`
	PrimaryModel        string       `json:"primary_model,omitempty"`
	PrimaryManufacturer string       `json:"primary_manufacturer,omitempty"`
	CustomFields        []AssetField `json:"custom_fields,omitempty"`
}

func companyAssetsPath(companyID int) string {
	return fmt.Sprintf("companies/%d/assets", companyID)
}

// List fetches one page of the global cross-company asset listing.
func (s *AssetsService) List(ctx context.Context, opts AssetListOptions) client.Result[[]Asset] {
	return client.Run(ctx, func() ([]Asset, error) {
		query := opts.query()
		opts.PageOptions.apply(query)
		return listPage[Asset](ctx, s.api, "assets", "assets", query)
	})
}

// ListAll drains the global asset listing.
func (s *AssetsService) ListAll(ctx context.Context, opts AssetListOptions) client.Result[[]Asset] {
	return client.Run(ctx, func() ([]Asset, error) {
		return listAll[Asset](ctx, s.api, "assets", "assets", opts.query(), opts.PageSize)
	})
}

// Pager returns a lazy iterator over the global asset listing.
func (s *AssetsService) Pager(opts AssetListOptions) *pagination.Pager {
	return pagerFor(s.api, "assets", "assets", opts.query(), opts.PageSize)
}

// ListForCompany fetches one page of a company's assets.
func (s *AssetsService) ListForCompany(ctx context.Context, companyID int, opts AssetListOptions) client.Result[[]Asset] {
	return client.Run(ctx, func() ([]Asset, error) {
		query := opts.query()
		opts.PageOptions.apply(query)
		return listPage[Asset](ctx, s.api, companyAssetsPath(companyID), "assets", query)
	})
}

// ListAllForCompany drains a company's asset listing.
func (s *AssetsService) ListAllForCompany(ctx context.Context, companyID int, opts AssetListOptions) client.Result[[]Asset] {
	return client.Run(ctx, func() ([]Asset, error) {
		return listAll[Asset](ctx, s.api, companyAssetsPath(companyID), "assets", opts.query(), opts.PageSize)
	})
}

// Get fetches one asset from a company's collection.
func (s *AssetsService) Get(ctx context.Context, companyID, id int) client.Result[*Asset] {
	return client.Run(ctx, func() (*Asset, error) {
		resp, err := s.api.Get(ctx, fmt.Sprintf("%s/%d", companyAssetsPath(companyID), id), nil)
		if err != nil {
			return nil, err
		}
		return decodeResource[Asset](resp.Body, "asset")
	})
}

// Create creates an asset under a company.
func (s *AssetsService) Create(ctx context.Context, companyID int, params AssetParams) client.Result[*Asset] {
	return client.Run(ctx, func() (*Asset, error) {
		resp, err := s.api.Post(ctx, companyAssetsPath(companyID), map[string]any{"asset": params})
		if err != nil {
			return nil, err
		}
		return decodeResource[Asset](resp.Body, "asset")
	})
}

// Update modifies an asset.
func (s *AssetsService) Update(ctx context.Context, companyID, id int, params AssetParams) client.Result[*Asset] {
	return client.Run(ctx, func() (*Asset, error) {
		resp, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", companyAssetsPath(companyID), id), map[string]any{"asset": params})
		if err != nil {
			return nil, err
		}
		return decodeResource[Asset](resp.Body, "asset")
	})
}

// Delete archives an asset.
func (s *AssetsService) Delete(ctx context.Context, companyID, id int) error {
	r := client.Run(ctx, func() (struct{}, error) {
		_, err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", companyAssetsPath(companyID), id))
		return struct{}{}, err
	})
	return r.Err()
}
