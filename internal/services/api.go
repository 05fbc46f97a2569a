// API service for making raw HTTP requests to the playlist backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "http://127.0.0.1:5000"

// APIService provides methods for making raw HTTP requests to the playlist backend.
//
// Every request carries the session cookie from the client's jar and waits on a shared rate limiter.
// Nothing is retried.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// APIOption configures an [APIService].
type APIOption func(*APIService)

// WithRateLimit throttles requests to rps per second with the given burst. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) APIOption {
	return func(a *APIService) {
		if rps <= 0 {
			a.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst <= 0 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout bounds each request. Zero means no per-request deadline beyond the caller's context.
func WithTimeout(d time.Duration) APIOption {
	return func(a *APIService) { a.timeout = d }
}

// NewAPIService creates a new API service for the backend at baseURL.
//
// A nil client gets a fresh [http.Client] with its own cookie jar so the backend session
// survives across calls made through this service.
func NewAPIService(baseURL string, client *http.Client, opts ...APIOption) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		jar, _ := cookiejar.New(nil)
		client = &http.Client{Jar: jar}
	}

	a := &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewAPIServiceFromConfig builds an [APIService] from the backend section of the config.
func NewAPIServiceFromConfig(cfg shared.BackendConfig) *APIService {
	return NewAPIService(cfg.URL, nil,
		WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		WithTimeout(cfg.Timeout()),
	)
}

// BaseURL returns the backend root all paths are resolved against.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrorMessage returns the backend's {"error": "..."} message, if any.
func (r *APIResponse) ErrorMessage() string {
	if m, ok := r.JSONData.(map[string]any); ok {
		if msg, ok := m["error"].(string); ok {
			return msg
		}
	}
	return ""
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// GetJSON performs a GET and decodes a 2xx JSON body into out.
func (a *APIService) GetJSON(ctx context.Context, path string, out any) error {
	resp, err := a.Get(ctx, path)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// PostJSON encodes in as the request body, performs a POST and decodes a 2xx JSON body into out.
func (a *APIService) PostJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := a.Post(ctx, path, data)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrTransport, err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrTransport, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// decodeResponse maps non-2xx statuses to sentinel errors and decodes the body otherwise.
func decodeResponse(resp *APIResponse, out any) error {
	if !resp.OK() {
		msg := resp.ErrorMessage()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, msg)
		}
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	return nil
}

// withQuery appends the encoded query to path.
func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
