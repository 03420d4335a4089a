package datausa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/popview/internal/population"
)

// Fetcher defines the interface for loading population records.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchPopulation(ctx context.Context) ([]population.Record, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the DataUSA HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the public DataUSA API host.
	DefaultBaseURL        = "https://datausa.io"
	defaultUserAgent      = "popview/0.1"
	defaultRequestTimeout = 10 * time.Second
	populationPath        = "/api/data"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the given base URL. An empty base uses
// DefaultBaseURL.
func NewClient(base string, opts ...Option) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchPopulation retrieves population by state and year. It makes exactly
// one request; callers decide whether to try again.
func (c *Client) FetchPopulation(ctx context.Context) ([]population.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("drilldowns", "State")
	values.Set("measures", "Population")
	rel := &url.URL{Path: populationPath, RawQuery: values.Encode()}

	var payload populationResponse
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return nil, &ParseError{Err: fmt.Errorf("response has no data array")}
	}
	records := make([]population.Record, 0, len(*payload.Data))
	for _, raw := range *payload.Data {
		records = append(records, raw.record())
	}
	return records, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &NetworkError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode),
		}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &ParseError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", base)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
