package pagination

import "testing"

func TestExtractItems(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		itemsKey string
		want     int
		wantErr  bool
	}{
		{
			name: "bare array",
			body: `[{"id": 1}, {"id": 2}]`,
			want: 2,
		},
		{
			name:     "named key",
			body:     `{"companies": [{"id": 1}, {"id": 2}, {"id": 3}]}`,
			itemsKey: "companies",
			want:     3,
		},
		{
			name: "single key envelope without itemsKey",
			body: `{"asset_passwords": [{"id": 9}]}`,
			want: 1,
		},
		{
			name:     "empty nested array",
			body:     `{"articles": []}`,
			itemsKey: "articles",
			want:     0,
		},
		{
			name: "empty body",
			body: "",
			want: 0,
		},
		{
			name:     "missing key",
			body:     `{"companies": []}`,
			itemsKey: "assets",
			wantErr:  true,
		},
		{
			name:    "ambiguous envelope",
			body:    `{"a": [], "b": []}`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `<html>maintenance</html>`,
			wantErr: true,
		},
		{
			name:     "key holds object not array",
			body:     `{"company": {"id": 1}}`,
			itemsKey: "company",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ExtractItems([]byte(tt.body), tt.itemsKey)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractItems failed: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("got %d items, want %d", len(items), tt.want)
			}
		})
	}
}
