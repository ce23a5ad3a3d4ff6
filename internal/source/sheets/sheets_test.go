package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/JonMunkholm/teamroster/internal/core"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(srv.URL, "sheet-1", "secret-key")
	c.HTTP = srv.Client()
	return c
}

func TestCatalog(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/spreadsheets/sheet-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "secret-key" {
			t.Errorf("key = %q", got)
		}
		w.Write([]byte(`{"sheets":[{"properties":{"title":"Staff"}},{"properties":{"title":"Marketing"}}]}`))
	})

	got, err := c.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if want := []string{"Staff", "Marketing"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Catalog() = %v, want %v", got, want)
	}
}

func TestValues(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/spreadsheets/sheet-1/values/'Sales Team'!A:Z" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"range":"'Sales Team'!A1:Z3","values":[["Name","Mail"],["Ana","ana@x.io"],["Bo"]]}`))
	})

	got, err := c.Values(context.Background(), "Sales Team")
	if err != nil {
		t.Fatalf("Values() error = %v", err)
	}
	want := [][]string{{"Name", "Mail"}, {"Ana", "ana@x.io"}, {"Bo"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %q, want %q", got, want)
	}
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    [][]string
		wantErr error
	}{
		{"empty sheet", `{"range":"Staff!A1:Z1000"}`, [][]string{}, nil},
		{"numbers rendered as text", `{"values":[["Age"],[42]]}`, [][]string{{"Age"}, {"42"}}, nil},
		{"invalid json", `{"values":[`, nil, core.ErrSourceMalformed},
		{"values not array", `{"values":"nope"}`, nil, core.ErrSourceMalformed},
		{"row not array", `{"values":[["Name"],"Ana"]}`, nil, core.ErrSourceMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValues([]byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseValues() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseValues() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseValues() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPErrorIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
	})

	_, err := c.Values(context.Background(), "Staff")
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Fatalf("Values() error = %v, want ErrSourceUnavailable", err)
	}
	if !strings.Contains(err.Error(), "does not have permission") {
		t.Errorf("error should carry API message: %v", err)
	}
}

func TestTransportErrorRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(srv.URL, "sheet-1", "secret-key")
	_, err := c.Catalog(context.Background())
	if !errors.Is(err, core.ErrSourceUnavailable) {
		t.Fatalf("Catalog() error = %v, want ErrSourceUnavailable", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Errorf("error leaks API key: %v", err)
	}
}

func TestQuoteSheet(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Staff", "'Staff'"},
		{"Sales Team", "'Sales Team'"},
		{"Bob's", "'Bob''s'"},
	}
	for _, tt := range tests {
		if got := quoteSheet(tt.in); got != tt.want {
			t.Errorf("quoteSheet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
