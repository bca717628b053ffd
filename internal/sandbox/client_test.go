package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
}

func TestProvision(t *testing.T) {
	for _, provider := range []string{"gusto", "bamboo_hr", "paychex_flex"} {
		t.Run(provider, func(t *testing.T) {
			var got provisionRequest
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/api/sandbox/create" {
					t.Errorf("path = %s", r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected application/json content type")
				}
				if r.Header.Get("Authorization") != "" {
					t.Errorf("provisioning must not be authenticated")
				}
				if r.Header.Get("X-Request-ID") == "" {
					t.Errorf("missing X-Request-ID")
				}
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("failed to decode payload: %v", err)
				}
				w.Write([]byte(`{"access_token":"tok-123","company_id":"c1"}`))
			})

			token, err := client.Provision(context.Background(), provider)
			if err != nil {
				t.Fatalf("Provision: %v", err)
			}
			if token != "tok-123" {
				t.Errorf("token = %q, want tok-123", token)
			}
			if got.Provider != provider {
				t.Errorf("provider = %q, want %q", got.Provider, provider)
			}
			if !reflect.DeepEqual(got.Products, []string{"company", "directory", "individual", "employment"}) {
				t.Errorf("products = %v", got.Products)
			}
		})
	}
}

func TestProvision_MissingToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"company_id":"c1"}`))
	})

	_, err := client.Provision(context.Background(), "gusto")
	var sErr *Error
	if !errors.As(err, &sErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if sErr.Endpoint != EndpointProvision {
		t.Errorf("Endpoint = %v, want provision", sErr.Endpoint)
	}
	if !errors.Is(err, ErrUnexpectedShape) {
		t.Errorf("err = %v, want ErrUnexpectedShape", err)
	}
}

func TestProvision_NumericToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":12345}`))
	})

	token, err := client.Provision(context.Background(), "gusto")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if token != "12345" {
		t.Errorf("token = %q, want 12345", token)
	}
}

func TestDirectory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/employer/directory" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok-123")
		}
		w.Write([]byte(`{"paging":{"count":3},"individuals":[
			{"id":"a","first_name":"Ada"},
			{"id":"b","first_name":"Bea"},
			{"id":"c","first_name":"Cy"}]}`))
	})

	records, err := client.Directory(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	for i, want := range []string{"a", "b", "c"} {
		if records[i].ID() != want {
			t.Errorf("records[%d].ID() = %q, want %q", i, records[i].ID(), want)
		}
	}
}

func TestDirectory_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"individuals":[]}`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`},
		{name: "missing individuals", status: http.StatusOK, body: `{"paging":{}}`},
		{name: "individuals not an array", status: http.StatusOK, body: `{"individuals":"nope"}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Directory(context.Background(), "tok")
			var sErr *Error
			if !errors.As(err, &sErr) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if sErr.Endpoint != EndpointDirectory {
				t.Errorf("Endpoint = %v, want directory", sErr.Endpoint)
			}
		})
	}
}

func TestDirectory_EmptyList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"individuals":[]}`))
	})

	records, err := client.Directory(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len = %d, want 0", len(records))
	}
}

func TestBatchEndpoints(t *testing.T) {
	tests := []struct {
		name string
		path string
		call func(*Client) (map[string]any, error)
	}{
		{
			name: "individual",
			path: "/api/employer/individual",
			call: func(c *Client) (map[string]any, error) {
				return c.Individual(context.Background(), "tok", "abc")
			},
		},
		{
			name: "employment",
			path: "/api/employer/individual/employer/employment",
			call: func(c *Client) (map[string]any, error) {
				return c.Employment(context.Background(), "tok", "abc")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != tt.path {
					t.Errorf("path = %s, want %s", r.URL.Path, tt.path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer tok" {
					t.Errorf("Authorization = %q", got)
				}
				body, _ := io.ReadAll(r.Body)
				if string(body) != `{"requests":[{"individual_id":"abc"}]}` {
					t.Errorf("body = %s", body)
				}
				w.Write([]byte(`{"responses":[{"individual_id":"abc","code":200,"body":{"foo":"bar"}}]}`))
			})

			got, err := tt.call(client)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if got["foo"] != "bar" {
				t.Errorf("body = %v, want foo=bar", got)
			}
		})
	}
}

func TestBatch_EmptyResponses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[]}`))
	})

	_, err := client.Employment(context.Background(), "tok", "abc")
	var sErr *Error
	if !errors.As(err, &sErr) || sErr.Endpoint != EndpointEmployment {
		t.Fatalf("err = %v, want employment *Error", err)
	}
	if !errors.Is(err, ErrUnexpectedShape) {
		t.Errorf("err = %v, want ErrUnexpectedShape", err)
	}
}

func TestProxyPrefix(t *testing.T) {
	var gotPath string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"access_token":"t"}`))
	}))
	defer proxy.Close()

	client := New(
		WithProxyURL(proxy.URL+"/"),
		WithBaseURL("https://sandbox.example.test"),
		WithHTTPClient(proxy.Client()),
	)

	want := proxy.URL + "/https://sandbox.example.test/api/sandbox/create"
	if got := client.URL(EndpointProvision); got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}

	if _, err := client.Provision(context.Background(), "gusto"); err != nil {
		t.Fatalf("Provision via proxy: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/api/sandbox/create") || !strings.Contains(gotPath, "sandbox.example.test") {
		t.Errorf("proxy saw path %q", gotPath)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	client.timeout = 50 * time.Millisecond

	_, err := client.Directory(context.Background(), "tok")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Endpoint: EndpointIndividual, Status: 502}
	if got := err.Error(); got != "sandbox individual: status 502" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAuthenticatedCallKeepsClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	hc := server.Client()
	hc.Timeout = 50 * time.Millisecond
	client := New(WithBaseURL(server.URL), WithHTTPClient(hc))

	start := time.Now()
	_, err := client.Directory(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call took %v, client timeout was ignored", elapsed)
	}
}

func TestBatch_LooseResponseFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[{"individual_id":42,"code":"200","body":{"foo":"bar"}}]}`))
	})

	got, err := client.Individual(context.Background(), "tok", "42")
	if err != nil {
		t.Fatalf("Individual: %v", err)
	}
	if got["foo"] != "bar" {
		t.Errorf("body = %v, want foo=bar", got)
	}
}
