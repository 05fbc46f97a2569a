package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mixtape/internal/shared"
	tu "github.com/desertthunder/mixtape/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.baseURL != "http://127.0.0.1:5000" {
				t.Errorf("expected default baseURL 'http://127.0.0.1:5000', got %s", srv.baseURL)
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil)

			if srv.httpClient == http.DefaultClient {
				t.Error("expected a dedicated client, not http.DefaultClient")
			}
			if srv.httpClient.Jar == nil {
				t.Error("expected the client to carry a cookie jar")
			}
		})

		t.Run("Trailing Slash Is Trimmed", func(t *testing.T) {
			srv := NewAPIService("http://example.com/", nil)

			if srv.BaseURL() != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", srv.BaseURL())
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Decodes A JSON Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/api/auth/check-auth" {
					t.Errorf("expected check-auth path, got %s", r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Backend", "flask")
				json.NewEncoder(w).Encode(map[string]bool{"authenticated": true})
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/api/auth/check-auth")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusOK || !resp.OK() {
				t.Errorf("expected a 2xx response, got %d", resp.StatusCode)
			}
			if !resp.IsJSON || resp.JSONData == nil {
				t.Error("expected JSONData to be populated")
			}
			if resp.Headers.Get("X-Backend") != "flask" {
				t.Errorf("expected response headers to be kept, got %v", resp.Headers)
			}
		})

		t.Run("Keeps A Plain Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.Write([]byte("logged out"))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/api/auth/logout")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON || resp.JSONData != nil {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "logged out" {
				t.Errorf("expected body 'logged out', got %s", string(resp.Body))
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		t.Run("Sends A JSON Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
				}

				body, _ := io.ReadAll(r.Body)
				if string(body) != `{"tracks":[]}` {
					t.Errorf("unexpected request body %s", body)
				}

				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"success":true}`))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Post(context.Background(), "/api/auth/export-playlist", []byte(`{"tracks":[]}`))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusCreated || !resp.IsJSON {
				t.Errorf("expected JSON 201, got %d (json=%v)", resp.StatusCode, resp.IsJSON)
			}
		})

		t.Run("Empty Request Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				if len(body) != 0 {
					t.Errorf("expected empty body, got %d bytes", len(body))
				}
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			if _, err := NewAPIService(server.URL, nil).Post(context.Background(), "/search", []byte{}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Failures", func(t *testing.T) {
		calls := map[string]func(a *APIService, ctx context.Context, path string) (*APIResponse, error){
			"GET": func(a *APIService, ctx context.Context, path string) (*APIResponse, error) {
				return a.Get(ctx, path)
			},
			"POST": func(a *APIService, ctx context.Context, path string) (*APIResponse, error) {
				return a.Post(ctx, path, []byte("{}"))
			},
		}

		for method, call := range calls {
			t.Run(method+" Invalid Path", func(t *testing.T) {
				_, err := call(NewAPIService("http://example.com", nil), context.Background(), "/search\x00")
				if err == nil || !strings.Contains(err.Error(), "failed to create request") {
					t.Errorf("expected 'failed to create request' error, got %v", err)
				}
			})

			t.Run(method+" Transport Failure", func(t *testing.T) {
				client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}

				_, err := call(NewAPIService("http://example.com", client), context.Background(), "/search")
				if !errors.Is(err, shared.ErrTransport) || !strings.Contains(err.Error(), "request failed") {
					t.Errorf("expected ErrTransport request failure, got %v", err)
				}
			})

			t.Run(method+" Unreadable Body", func(t *testing.T) {
				client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil)}

				_, err := call(NewAPIService("http://example.com", client), context.Background(), "/search")
				if err == nil || !strings.Contains(err.Error(), "failed to read response") {
					t.Errorf("expected 'failed to read response' error, got %v", err)
				}
			})

			t.Run(method+" Canceled Context", func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
				defer server.Close()

				ctx, cancel := context.WithCancel(context.Background())
				cancel()

				if _, err := call(NewAPIService(server.URL, nil), ctx, "/search"); !errors.Is(err, shared.ErrTransport) {
					t.Errorf("expected ErrTransport for canceled context, got %v", err)
				}
			})
		}
	})

	t.Run("APIResponse", func(t *testing.T) {
		t.Run("JSON Detection", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"valid": "json"}`))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			resp, err := srv.Get(context.Background(), "/test")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.IsJSON {
				t.Error("expected valid JSON to be detected")
			}

			jsonMap, ok := resp.JSONData.(map[string]any)
			if !ok {
				t.Error("expected JSONData to be map[string]interface{}")
			}
			if jsonMap["valid"] != "json" {
				t.Errorf("expected JSONData['valid'] to be 'json', got %v", jsonMap["valid"])
			}
		})

		t.Run("Invalid JSON Detection", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("not json"))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			resp, err := srv.Get(context.Background(), "/test")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected invalid JSON to not be detected as JSON")
			}
			if resp.JSONData != nil {
				t.Error("expected JSONData to be nil for invalid JSON")
			}
		})
	})
}

func TestAPIServiceJSON(t *testing.T) {
	t.Run("GetJSON Decodes 2xx", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"authenticated": true}`))
		}))
		defer server.Close()

		var out struct {
			Authenticated bool `json:"authenticated"`
		}
		srv := NewAPIService(server.URL, nil)
		if err := srv.GetJSON(context.Background(), "/x", &out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !out.Authenticated {
			t.Error("expected decoded value")
		}
	})

	t.Run("Status Mapping", func(t *testing.T) {
		tc := []struct {
			name    string
			status  int
			body    string
			wantErr error
			wantMsg string
		}{
			{"unauthorized", http.StatusUnauthorized, `{"error": "Not authenticated"}`, shared.ErrNotAuthenticated, "Not authenticated"},
			{"bad request", http.StatusBadRequest, `{"error": "Query parameter is required"}`, shared.ErrAPIRequest, "Query parameter is required"},
			{"server error without body", http.StatusInternalServerError, ``, shared.ErrAPIRequest, "Internal Server Error"},
			{"malformed 2xx", http.StatusOK, `{"tracks": [`, shared.ErrMalformedResponse, ""},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				var out map[string]any
				err := NewAPIService(server.URL, nil).GetJSON(context.Background(), "/x", &out)
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("expected error to mention %q, got %v", tt.wantMsg, err)
				}
			})
		}
	})

	t.Run("PostJSON Sends Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var in map[string]int
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				t.Errorf("failed to decode body: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]int{"doubled": in["n"] * 2})
		}))
		defer server.Close()

		var out map[string]int
		err := NewAPIService(server.URL, nil).PostJSON(context.Background(), "/x", map[string]int{"n": 21}, &out)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out["doubled"] != 42 {
			t.Errorf("expected 42, got %d", out["doubled"])
		}
	})

	t.Run("Cookies Persist Across Calls", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/set":
				http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
			case "/get":
				c, err := r.Cookie("session")
				if err != nil || c.Value != "s1" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		srv := NewAPIService(server.URL, nil)
		if err := srv.GetJSON(context.Background(), "/set", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := srv.GetJSON(context.Background(), "/get", nil); err != nil {
			t.Errorf("expected session cookie to be sent back, got %v", err)
		}
	})

	t.Run("Timeout Is A Transport Error", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		srv := NewAPIService(server.URL, nil, WithTimeout(20*time.Millisecond))
		_, err := srv.Get(context.Background(), "/slow")
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("Rate Limit Waits", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		srv := NewAPIService(server.URL, nil, WithRateLimit(20, 1))
		start := time.Now()
		for i := 0; i < 3; i++ {
			if _, err := srv.Get(context.Background(), "/x"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
			t.Errorf("expected limiter to space requests, took %v", elapsed)
		}
	})

	t.Run("Zero Rate Limit Disables Throttling", func(t *testing.T) {
		srv := NewAPIService("http://example.com", nil, WithRateLimit(0, 0))
		if !srv.limiter.Allow() || !srv.limiter.Allow() {
			t.Error("expected unlimited limiter")
		}
	})

	t.Run("FromConfig", func(t *testing.T) {
		cfg := shared.DefaultConfig().Backend
		srv := NewAPIServiceFromConfig(cfg)
		if srv.BaseURL() != cfg.URL {
			t.Errorf("expected base url %s, got %s", cfg.URL, srv.BaseURL())
		}
		if srv.timeout != cfg.Timeout() {
			t.Errorf("expected timeout %v, got %v", cfg.Timeout(), srv.timeout)
		}
	})
}
