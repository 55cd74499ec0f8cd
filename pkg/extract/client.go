package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/textuml/pkg/buildinfo"
	"github.com/matzehuels/textuml/pkg/errors"
	"github.com/matzehuels/textuml/pkg/model"
	"github.com/matzehuels/textuml/pkg/observability"
)

// DefaultURL is the extraction endpoint used when none is configured.
const DefaultURL = "http://localhost:5000/api/generate"

// DefaultTimeout bounds one extraction call.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps the decoded response body.
const maxResponseBytes = 8 << 20

// Client calls a remote extraction service. It makes exactly one request per
// call and never retries.
type Client struct {
	url     string
	http    *http.Client
	headers map[string]string
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption { return func(c *Client) { c.http = hc } }

// WithTimeout sets the per-call timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) { c.headers[key] = value }
}

// NewClient returns a client for the service at endpoint. An empty endpoint
// selects [DefaultURL].
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	if err := errors.ValidateURL(endpoint); err != nil {
		return nil, err
	}
	c := &Client{
		url:     endpoint,
		http:    &http.Client{Timeout: DefaultTimeout},
		headers: map[string]string{"User-Agent": "textuml/" + buildinfo.Version},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the configured endpoint.
func (c *Client) URL() string { return c.url }

// Name implements [Named].
func (c *Client) Name() string { return "http" }

// Extract posts text to the service and decodes the result.
func (c *Client) Extract(ctx context.Context, text string) (*model.Diagram, error) {
	resp, err := c.Do(ctx, text)
	if err != nil {
		return nil, err
	}
	return resp.Diagram()
}

// Do posts text and returns the raw response. A response with
// success=false is returned without error.
func (c *Client) Do(ctx context.Context, text string) (*Response, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "build request for %s", c.url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := endpointParts(c.url)
	ev := observability.RequestEvent{Side: observability.Client, Method: http.MethodPost, Host: host, Path: path}
	start := time.Now()

	res, err := c.http.Do(req)
	ev.Duration = time.Since(start)
	if err != nil {
		ev.Err = err
		observability.HTTP().OnRequest(ctx, ev)
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "cannot connect to %s", c.url)
	}
	defer res.Body.Close()
	ev.Status = res.StatusCode
	observability.HTTP().OnRequest(ctx, ev)

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport, err, "read response from %s", c.url)
	}

	// Failed extractions arrive with 4xx/5xx statuses but still carry a
	// decodable body, so the body decides.
	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransport,
			fmt.Errorf("status %d: %w", res.StatusCode, err), "unexpected response from %s", c.url)
	}
	if !out.Success && out.Error == "" && res.StatusCode >= 400 {
		return nil, errors.New(errors.ErrCodeTransport, "unexpected response from %s: status %d", c.url, res.StatusCode)
	}
	return &out, nil
}

func endpointParts(raw string) (host, path string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}
