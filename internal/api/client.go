package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/marquee/internal/catalog"
)

// RecordStore is the remote CRUD resource the controller talks to.
// This interface is implemented by *Client and can be replaced in tests.
type RecordStore interface {
	List(ctx context.Context) ([]catalog.Record, error)
	Create(ctx context.Context, draft catalog.Draft) (catalog.Record, error)
	Update(ctx context.Context, id catalog.ID, draft catalog.Draft) (catalog.Record, error)
	Delete(ctx context.Context, id catalog.ID) error
}

// Ensure Client implements RecordStore at compile time.
var _ RecordStore = (*Client)(nil)

// Client talks to the catalog REST resource.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL   = "http://localhost:3001/filmes"
	defaultUserAgent = "marquee/0.1"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
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

// NewClient builds a Client for the resource at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resource URL the client targets.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// List retrieves every record.
func (c *Client) List(ctx context.Context) ([]catalog.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []catalog.Record
	if err := c.do(ctx, http.MethodGet, "", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Create posts a draft and returns the stored record with its new id.
func (c *Client) Create(ctx context.Context, draft catalog.Draft) (catalog.Record, error) {
	if c == nil {
		return catalog.Record{}, fmt.Errorf("client is nil")
	}
	var payload catalog.Record
	if err := c.do(ctx, http.MethodPost, "", draft, &payload); err != nil {
		return catalog.Record{}, err
	}
	return payload, nil
}

// Update replaces the record with the given id.
func (c *Client) Update(ctx context.Context, id catalog.ID, draft catalog.Draft) (catalog.Record, error) {
	if c == nil {
		return catalog.Record{}, fmt.Errorf("client is nil")
	}
	if id.IsZero() {
		return catalog.Record{}, fmt.Errorf("record id required")
	}
	var payload catalog.Record
	if err := c.do(ctx, http.MethodPut, id.String(), draft, &payload); err != nil {
		return catalog.Record{}, err
	}
	if payload.ID.IsZero() {
		payload.ID = id
	}
	return payload, nil
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, id catalog.ID) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id.IsZero() {
		return fmt.Errorf("record id required")
	}
	return c.do(ctx, http.MethodDelete, id.String(), nil, nil)
}

func (c *Client) do(ctx context.Context, method, id string, body, dest any) error {
	reqURL := c.resourceURL(id)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Method: method, URL: reqURL.String(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &HTTPError{Method: method, URL: reqURL.String(), StatusCode: resp.StatusCode}
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) resourceURL(id string) *url.URL {
	u := *c.baseURL
	if id != "" {
		escapedBase := strings.TrimRight(c.baseURL.EscapedPath(), "/")
		u.Path = strings.TrimRight(u.Path, "/") + "/" + id
		u.RawPath = escapedBase + "/" + url.PathEscape(id)
	}
	return &u
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
