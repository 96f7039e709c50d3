package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout  = 10 * time.Second
	requestIDHeader = "X-Request-ID"

	unknownErrorMessage = "something went wrong, please try again"
)

// Client issues typed JSON calls against the storefront REST API. It
// normalizes every failure into *APIError, attaches the bearer token from
// the registered TokenFunc, and optionally drives a global notifier and
// loading indicator per call.
type Client struct {
	baseURL string
	http    *http.Client

	tokenFunc      func() string
	onUnauthorized func()
	notifier       Notifier
	loading        LoadingSink
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithNotifier installs the global error/success notifier.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLoadingSink installs the global loading indicator.
func WithLoadingSink(s LoadingSink) Option {
	return func(c *Client) { c.loading = s }
}

// New constructs a Client for the given API base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenFunc registers the bearer token source. The token is attached
// to every request while non-empty.
func (c *Client) SetTokenFunc(fn func() string) {
	c.tokenFunc = fn
}

// SetUnauthorizedHook registers a callback fired on every 401 response,
// regardless of which caller issued the request.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, buildConfig(opts))
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, buildConfig(opts))
}

// PutJSON issues a PUT with a JSON body and decodes the response into out.
func (c *Client) PutJSON(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, buildConfig(opts))
}

// PatchJSON issues a PATCH with a JSON body and decodes the response into out.
func (c *Client) PatchJSON(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, path, body, out, buildConfig(opts))
}

// DeleteJSON issues a DELETE and decodes the JSON response into out.
func (c *Client) DeleteJSON(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, buildConfig(opts))
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, cfg requestConfig) error {
	if cfg.showLoading && c.loading != nil {
		c.loading.SetLoading(true)
		defer c.loading.SetLoading(false)
	}

	endpoint, err := c.buildURL(path, cfg.query)
	if err != nil {
		return newTransportError(err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return newTransportError(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return newTransportError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokenFunc != nil {
		if token := c.tokenFunc(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := newTransportError(err)
		c.alert(cfg, apiErr)
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(resp.StatusCode, decodeErrorBody(resp.Body))
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		c.alert(cfg, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newTransportError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// alert routes a failure to the global notifier when the call opted in.
// 401 and 404 never reach the generic notification path: 401 is handled
// by the unauthorized hook, 404 by the caller.
func (c *Client) alert(cfg requestConfig, apiErr *APIError) {
	if !cfg.alertError || c.notifier == nil {
		return
	}
	switch {
	case apiErr.Status == http.StatusBadRequest || apiErr.Status >= 500:
		c.notifier.Error(apiErr.Message)
	case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusNotFound:
		// handled elsewhere
	default:
		c.notifier.Error(unknownErrorMessage)
	}
}

func (c *Client) buildURL(path string, query Query) (string, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return "", err
	}
	if len(query) == 0 {
		return endpoint, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	values := u.Query()
	for key, val := range query {
		if val == nil {
			continue
		}
		s := fmt.Sprintf("%v", val)
		if s == "" {
			continue
		}
		values.Set(key, s)
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

func decodeErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(data))
}
