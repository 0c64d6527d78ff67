package hudu

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/hudu-tools/hudu-api-client/internal/testutil"
	"github.com/hudu-tools/hudu-api-client/pkg/client"
)

func newTestHudu(t *testing.T) (*Client, *testutil.MockHudu) {
	t.Helper()

	mock := testutil.NewMockHudu()
	t.Cleanup(mock.Close)

	c, err := New(client.DefaultConfig(mock.URL(), "test-key"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return c, mock
}

func TestCompanies_Get(t *testing.T) {
	c, mock := newTestHudu(t)
	mock.SetResponse("/api/v1/companies/7", testutil.NewCompanyResponse(7, "Acme"))

	r := c.Companies.Get(context.Background(), 7)
	if !r.IsSuccess() {
		t.Fatalf("Get failed: %v", r.Err())
	}

	company := r.MustValue()
	if company.ID != 7 || company.Name != "Acme" {
		t.Errorf("company = %+v, want id 7 name Acme", company)
	}
	if mock.APIKey() != "test-key" {
		t.Errorf("x-api-key = %q, want test-key", mock.APIKey())
	}
}

func TestCompanies_GetNotFound(t *testing.T) {
	c, mock := newTestHudu(t)
	mock.SetResponse("/api/v1/companies/999", testutil.NewNotFoundResponse())

	r := c.Companies.Get(context.Background(), 999)
	if r.IsSuccess() {
		t.Fatal("expected failure")
	}
	if !client.IsNotFound(r.Err()) {
		t.Errorf("error = %v, want not_found classification", r.Err())
	}
	// 404 is terminal: exactly one request.
	if mock.GetRequestCount() != 1 {
		t.Errorf("requests = %d, want 1", mock.GetRequestCount())
	}
}

func TestCompanies_Create(t *testing.T) {
	c, mock := newTestHudu(t)

	var gotBody map[string]map[string]any
	mock.SetHandler("/api/v1/companies", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"company": {"id": 1, "name": "Acme", "company_type": "Client"}}`))
	})

	r := c.Companies.Create(context.Background(), CompanyParams{
		Name:        "Acme",
		CompanyType: "Client",
	})
	if !r.IsSuccess() {
		t.Fatalf("Create failed: %v", r.Err())
	}

	company := r.MustValue()
	if company.ID != 1 || company.Name != "Acme" || company.CompanyType != "Client" {
		t.Errorf("company = %+v", company)
	}

	if gotBody["company"]["name"] != "Acme" {
		t.Errorf("request body company.name = %v, want Acme", gotBody["company"]["name"])
	}
	if gotBody["company"]["company_type"] != "Client" {
		t.Errorf("request body company.company_type = %v, want Client", gotBody["company"]["company_type"])
	}
}

func TestCompanies_List_Filters(t *testing.T) {
	c, mock := newTestHudu(t)

	var gotQuery string
	mock.SetHandler("/api/v1/companies", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Encode()
		w.Write([]byte(`{"companies": [{"id": 1, "name": "Acme"}]}`))
	})

	r := c.Companies.List(context.Background(), CompanyListOptions{
		Name:        "Acme",
		PhoneNumber: "555-0100",
	})
	if !r.IsSuccess() {
		t.Fatalf("List failed: %v", r.Err())
	}
	if len(r.MustValue()) != 1 {
		t.Errorf("got %d companies, want 1", len(r.MustValue()))
	}

	want := "name=Acme&page=1&page_size=25&phone_number=555-0100"
	if gotQuery != want {
		t.Errorf("query = %q, want %q", gotQuery, want)
	}
}

func TestCompanies_ListAll_DrainsPages(t *testing.T) {
	c, mock := newTestHudu(t)

	items := []any{
		map[string]any{"id": 1, "name": "One"},
		map[string]any{"id": 2, "name": "Two"},
		map[string]any{"id": 3, "name": "Three"},
	}
	mock.SetPaginatedList("/api/v1/companies", "companies", items)

	r := c.Companies.ListAll(context.Background(), CompanyListOptions{
		PageOptions: PageOptions{PageSize: 2},
	})
	if !r.IsSuccess() {
		t.Fatalf("ListAll failed: %v", r.Err())
	}

	companies := r.MustValue()
	if len(companies) != 3 {
		t.Fatalf("got %d companies, want 3", len(companies))
	}
	for i, want := range []string{"One", "Two", "Three"} {
		if companies[i].Name != want {
			t.Errorf("company %d = %q, want %q", i, companies[i].Name, want)
		}
	}

	// Pages of 2, 1, and the empty terminator.
	if mock.GetRequestCount() != 3 {
		t.Errorf("requests = %d, want 3", mock.GetRequestCount())
	}
}

func TestCompanies_Update(t *testing.T) {
	c, mock := newTestHudu(t)
	mock.SetHandler("/api/v1/companies/7", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		w.Write([]byte(`{"company": {"id": 7, "name": "Renamed"}}`))
	})

	r := c.Companies.Update(context.Background(), 7, CompanyParams{Name: "Renamed"})
	if !r.IsSuccess() {
		t.Fatalf("Update failed: %v", r.Err())
	}
	if r.MustValue().Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", r.MustValue().Name)
	}
}

func TestCompanies_Delete(t *testing.T) {
	c, mock := newTestHudu(t)

	var gotMethod string
	mock.SetHandler("/api/v1/companies/7", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Companies.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", gotMethod)
	}
}

func TestCompanies_TransientRetriedByResult(t *testing.T) {
	c, mock := newTestHudu(t)
	mock.SetHandler("/api/v1/companies/7",
		testutil.NewFlakyHandler(2, http.StatusServiceUnavailable, `{"company": {"id": 7, "name": "Acme"}}`))

	r := client.RunWithConfig(context.Background(), fastRetry(), func() (*Company, error) {
		resp, err := c.API().Get(context.Background(), "companies/7", nil)
		if err != nil {
			return nil, err
		}
		return decodeResource[Company](resp.Body, "company")
	})

	if !r.IsSuccess() {
		t.Fatalf("expected success after retries: %v", r.Err())
	}
	if mock.GetRequestCount() != 3 {
		t.Errorf("requests = %d, want 3", mock.GetRequestCount())
	}
}

func fastRetry() client.RetryConfig {
	cfg := client.DefaultRetryConfig()
	cfg.InitialBackoff = 5 * time.Millisecond
	cfg.MaxBackoff = 50 * time.Millisecond
	return cfg
}
