package integrations

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/chouse/pkg/cache"
	"github.com/matzehuels/chouse/pkg/errors"
	"github.com/matzehuels/chouse/pkg/observability"
)

// DefaultMaxBodySize bounds how much of a response body is read into memory.
const DefaultMaxBodySize = 16 << 20

// Client provides shared HTTP functionality for registry API clients.
// It handles response caching, common request headers, and status
// classification. It never retries.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
	maxBody   int64
}

// NewClient creates a Client with the given cache and default headers.
// Headers are applied to all requests made through this client.
// Pass nil for c to disable caching and nil for headers if no default
// headers are needed. The namespace separates this client's cache entries
// from other users of the same backend.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		keyer:     cache.NewDefaultKeyer(),
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
		maxBody:   DefaultMaxBodySize,
	}
}

// WithHTTPClient returns a copy of c that sends requests through h.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	cp := *c
	if h != nil {
		cp.http = h
	}
	return &cp
}

// WithMaxBodySize returns a copy of c that rejects response bodies longer
// than n bytes.
func (c *Client) WithMaxBodySize(n int64) *Client {
	cp := *c
	if n > 0 {
		cp.maxBody = n
	}
	return &cp
}

// WithKeyer returns a copy of c that derives cache keys with k.
func (c *Client) WithKeyer(k cache.Keyer) *Client {
	cp := *c
	if k != nil {
		cp.keyer = k
	}
	return &cp
}

// Cached returns the payload stored for key, or calls fetch and stores its
// result. If refresh is true the lookup is skipped but the fresh result is
// still written. Failed fetches are never cached.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, fetch func() ([]byte, error)) ([]byte, error) {
	ck := c.keyer.HTTPKey(c.namespace, key)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, ck); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, c.namespace)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, c.namespace)
	}
	data, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, ck, data, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, c.namespace, len(data))
	}
	return data, nil
}

// Get performs an HTTP GET request and returns the raw response body.
// It uses the client's default headers.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return c.GetWithHeaders(ctx, rawURL, nil)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
//
// A non-2xx answer is returned as an [*errors.UpstreamError] carrying the
// status and body. Transport failures are wrapped with
// [errors.ErrCodeNetwork] and keep the original cause.
func (c *Client) GetWithHeaders(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidURL, err, "build request for %s", rawURL)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", req.Method, rawURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read body of %s", rawURL)
	}
	if int64(len(body)) > c.maxBody {
		return nil, errors.New(errors.ErrCodeResponseTooLarge,
			"%s %s: status %d body exceeds %d bytes", req.Method, rawURL, resp.StatusCode, c.maxBody)
	}
	if err := checkStatus(req, resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

func checkStatus(req *http.Request, code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return &errors.UpstreamError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: code,
		Body:       body,
	}
}

func hostPath(u *url.URL) (string, string) {
	return u.Host, u.EscapedPath()
}
