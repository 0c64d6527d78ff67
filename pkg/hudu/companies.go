package hudu

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/pagination"
)

// CompaniesService operates on /api/v1/companies.
type CompaniesService struct {
	api *client.Client
}

// CompanyListOptions filters a company listing. Zero values are omitted
// from the request.
type CompanyListOptions struct {
	PageOptions

	Name        string
	PhoneNumber string
	Website     string
	City        string
	State       string
	IDNumber    string
	Slug        string
}

func (o CompanyListOptions) query() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "name", o.Name)
	setIfNotEmpty(v, "phone_number", o.PhoneNumber)
	setIfNotEmpty(v, "website", o.Website)
	setIfNotEmpty(v, "city", o.City)
	setIfNotEmpty(v, "state", o.State)
	setIfNotEmpty(v, "id_number", o.IDNumber)
	setIfNotEmpty(v, "slug", o.Slug)
	return v
}

// CompanyParams carries the writable fields for create and update.
type CompanyParams struct {
	Name            string `json:"name,omitempty"`
	Nickname        string `json:"nickname,omitempty"`
	CompanyType     string `json:"company_type,omitempty"`
	AddressLine1    string `json:"address_line_1,omitempty"`
	AddressLine2    string `json:"address_line_2,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	Zip             string `json:"zip,omitempty"`
	CountryName     string `json:"country_name,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	FaxNumber       string `json:"fax_number,omitempty"`
	Website         string `json:"website,omitempty"`
	Notes           string `json:"notes,omitempty"`
	IDNumber        string `json:"id_number,omitempty"`
	ParentCompanyID int    `json:"parent_company_id,omitempty"`
}

// List fetches one page of companies.
func (s *CompaniesService) List(ctx context.Context, opts CompanyListOptions) client.Result[[]Company] {
	return client.Run(ctx, func() ([]Company, error) {
		query := opts.query()
		opts.PageOptions.apply(query)
		return listPage[Company](ctx, s.api, "companies", "companies", query)
	})
}

// ListAll drains every page of the filtered listing. On a transient fault
// the whole listing restarts from page 1.
func (s *CompaniesService) ListAll(ctx context.Context, opts CompanyListOptions) client.Result[[]Company] {
	return client.Run(ctx, func() ([]Company, error) {
		return listAll[Company](ctx, s.api, "companies", "companies", opts.query(), opts.PageSize)
	})
}

// Pager returns a lazy iterator over the filtered listing.
func (s *CompaniesService) Pager(opts CompanyListOptions) *pagination.Pager {
	return pagerFor(s.api, "companies", "companies", opts.query(), opts.PageSize)
}

// Get fetches one company by id.
func (s *CompaniesService) Get(ctx context.Context, id int) client.Result[*Company] {
	return client.Run(ctx, func() (*Company, error) {
		resp, err := s.api.Get(ctx, fmt.Sprintf("companies/%d", id), nil)
		if err != nil {
			return nil, err
		}
		return decodeResource[Company](resp.Body, "company")
	})
}

// Create creates a company and returns the stored record.
func (s *CompaniesService) Create(ctx context.Context, params CompanyParams) client.Result[*Company] {
	return client.Run(ctx, func() (*Company, error) {
		resp, err := s.api.Post(ctx, "companies", map[string]any{"company": params})
		if err != nil {
			return nil, err
		}
		return decodeResource[Company](resp.Body, "company")
	})
}

// Update modifies a company and returns the stored record.
func (s *CompaniesService) Update(ctx context.Context, id int, params CompanyParams) client.Result[*Company] {
	return client.Run(ctx, func() (*Company, error) {
		resp, err := s.api.Put(ctx, fmt.Sprintf("companies/%d", id), map[string]any{"company": params})
		if err != nil {
			return nil, err
		}
		return decodeResource[Company](resp.Body, "company")
	})
}

// Delete archives a company.
func (s *CompaniesService) Delete(ctx context.Context, id int) error {
	r := client.Run(ctx, func() (struct{}, error) {
		_, err := s.api.Delete(ctx, fmt.Sprintf("companies/%d", id))
		return struct{}{}, err
	})
	return r.Err()
}
