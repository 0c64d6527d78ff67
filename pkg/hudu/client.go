package hudu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/pagination"
)

// Client is the typed Hudu API client. The zero value is not usable; create
// one with New.
type Client struct {
	api *client.Client

	Companies      *CompaniesService
	Assets         *AssetsService
	AssetLayouts   *AssetLayoutsService
	Articles       *ArticlesService
	AssetPasswords *AssetPasswordsService
	Relations      *RelationsService
	Uploads        *UploadsService
}

// New creates a typed client over the core request executor.
func New(cfg client.Config) (*Client, error) {
	api, err := client.New(cfg)
	if err != nil {
		return nil, err
	}

	return NewWithExecutor(api), nil
}

// NewWithExecutor wraps an existing executor, for callers that share one
// rate-limit budget across several typed clients.
func NewWithExecutor(api *client.Client) *Client {
	c := &Client{api: api}
	c.Companies = &CompaniesService{api: api}
	c.Assets = &AssetsService{api: api}
	c.AssetLayouts = &AssetLayoutsService{api: api}
	c.Articles = &ArticlesService{api: api}
	c.AssetPasswords = &AssetPasswordsService{api: api}
	c.Relations = &RelationsService{api: api}
	c.Uploads = &UploadsService{api: api}
	return c
}

// API exposes the underlying executor for raw requests and event
// subscriptions.
func (c *Client) API() *client.Client {
	return c.api
}

// Close releases the underlying executor's resources.
func (c *Client) Close() error {
	return c.api.Close()
}

// PageOptions selects one page of a list endpoint. Zero values fall back to
// page 1 with the Hudu default page size.
type PageOptions struct {
	Page     int
	PageSize int
}

func (o PageOptions) apply(v url.Values) {
	page := o.Page
	if page <= 0 {
		page = 1
	}
	pageSize := o.PageSize
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("page_size", strconv.Itoa(pageSize))
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setIfPositive(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}

// listPage fetches one page of a list endpoint and decodes its records.
// No retry here: listPage is the building block the Result-wrapped
// operations retry as a whole.
func listPage[T any](ctx context.Context, api *client.Client, path, itemsKey string, query url.Values) ([]T, error) {
	resp, err := api.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return decodeList[T](resp.Body, itemsKey)
}

// pagerFor builds a pagination fetch function over a list endpoint with a
// fixed filter set. The pager mutates only page/page_size between calls.
func pagerFor(api *client.Client, path, itemsKey string, base url.Values, pageSize int) *pagination.Pager {
	fetch := func(ctx context.Context, page, size int) ([]json.RawMessage, error) {
		query := cloneValues(base)
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", strconv.Itoa(size))

		resp, err := api.Get(ctx, path, query)
		if err != nil {
			return nil, err
		}
		items, err := pagination.ExtractItems(resp.Body, itemsKey)
		if err != nil {
			return nil, validationErr(fmt.Sprintf("extract %s list", itemsKey), err)
		}
		return items, nil
	}

	return pagination.NewPager(fetch, pageSize)
}

// listAll drains every page of a list endpoint into typed records.
func listAll[T any](ctx context.Context, api *client.Client, path, itemsKey string, base url.Values, pageSize int) ([]T, error) {
	pager := pagerFor(api, path, itemsKey, base, pageSize)

	raw, err := pager.All(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]T, 0, len(raw))
	for i, item := range raw {
		var record T
		if err := json.Unmarshal(item, &record); err != nil {
			return nil, validationErr(fmt.Sprintf("decode %s item %d", itemsKey, i), err)
		}
		records = append(records, record)
	}

	return records, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+2)
	for key, values := range v {
		out[key] = append([]string(nil), values...)
	}
	return out
}
