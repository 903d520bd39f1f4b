package companieshouse

import (
	"context"
	"encoding/base64"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chouse/pkg/buildinfo"
	"github.com/matzehuels/chouse/pkg/cache"
	"github.com/matzehuels/chouse/pkg/errors"
	"github.com/matzehuels/chouse/pkg/integrations"
	"github.com/matzehuels/chouse/pkg/observability"
	"github.com/matzehuels/chouse/pkg/record"
)

const (
	// DefaultBaseURL is the public registry endpoint.
	DefaultBaseURL = "https://api.company-information.service.gov.uk"

	// DefaultMaxDepth expands the links of the looked-up profile only.
	DefaultMaxDepth = 1

	// NotFoundCode is the error code the registry reports for unknown
	// company numbers.
	NotFoundCode = "company-profile-not-found"

	cacheNamespace = "companieshouse"
)

// Client provides access to the company-registry API.
// Its configuration is fixed at construction.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL     string
	base        *url.URL // baseURL with a trailing slash, nil if unparsable
	refresh     bool
	maxDepth    int
	concurrency int
	logger      *log.Logger
}

// NewClient creates a client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": AuthorizationHeader(apiKey),
		"User-Agent":    buildinfo.UserAgent(),
	}
	ic := integrations.NewClient(o.cache, cacheNamespace, o.ttl, headers).
		WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), "key:"+cache.Fingerprint(apiKey)+":"))
	if o.httpClient != nil {
		ic = ic.WithHTTPClient(o.httpClient)
	}

	logger := o.logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	baseURL := strings.TrimSuffix(o.baseURL, "/")
	base, err := url.Parse(baseURL + "/")
	if err != nil || !base.IsAbs() {
		base = nil
	}

	return &Client{
		Client:      ic,
		baseURL:     baseURL,
		base:        base,
		refresh:     o.refresh,
		maxDepth:    o.maxDepth,
		concurrency: o.concurrency,
		logger:      logger,
	}
}

// AuthorizationHeader returns the Authorization value for apiKey.
func AuthorizationHeader(apiKey string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey))
}

// BaseURL returns the endpoint the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// LookupByID fetches the profile of companyID and inlines its linked
// resources.
//
// Returns:
//   - the expanded profile on success
//   - an empty record and nil if the registry's first error code is
//     [NotFoundCode]
//   - the original [*errors.UpstreamError] for any other non-2xx answer
//   - transport, decoding and expansion errors unchanged
func (c *Client) LookupByID(ctx context.Context, companyID string) (*record.Map, error) {
	return observe(ctx, "lookup", companyID, func() (*record.Map, error) {
		if err := errors.ValidateCompanyID(companyID); err != nil {
			return nil, err
		}

		profile, u, err := c.get(ctx, "/company/"+url.PathEscape(companyID))
		if err != nil {
			if isNotFound(err) {
				c.logger.Debug("company not found", "company", companyID)
				return record.Empty(), nil
			}
			return nil, err
		}

		if err := c.expand(ctx, profile, 1, []string{u}); err != nil {
			return nil, err
		}
		return profile, nil
	})
}

// SearchByName runs a name search and looks up every result in API order.
//
// An empty response yields an empty slice. Each element is what
// [Client.LookupByID] returns for that hit's company number, so it may be
// an empty record. The first lookup error aborts the search.
func (c *Client) SearchByName(ctx context.Context, companyName string) ([]*record.Map, error) {
	var results []*record.Map
	_, err := observe(ctx, "search", companyName, func() (*record.Map, error) {
		if err := errors.ValidateCompanyName(companyName); err != nil {
			return nil, err
		}

		query := url.Values{"q": {companyName}}
		resp, _, err := c.get(ctx, "/search/companies?"+query.Encode())
		if err != nil {
			return nil, err
		}

		results = []*record.Map{}
		if resp.IsEmpty() {
			return nil, nil
		}

		items, _ := resp.Get("items")
		list, _ := items.AsList()
		for i, item := range list {
			id, ok := companyNumber(item)
			if !ok {
				c.logger.Debug("skipping search item without company_number", "index", i)
				continue
			}
			company, err := c.LookupByID(ctx, id)
			if err != nil {
				return nil, err
			}
			results = append(results, company)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// FetchURL fetches rawURL and returns the decoded object unchanged.
// Relative URLs are resolved against the base URL.
func (c *Client) FetchURL(ctx context.Context, rawURL string) (*record.Map, error) {
	return observe(ctx, "fetch", rawURL, func() (*record.Map, error) {
		m, _, err := c.get(ctx, rawURL)
		return m, err
	})
}

// get resolves rawURL, fetches it through the cache and decodes the body.
// It also returns the resolved URL. Bodies that fail to decode are never
// cached.
func (c *Client) get(ctx context.Context, rawURL string) (*record.Map, string, error) {
	u, err := c.resolve(rawURL)
	if err != nil {
		return nil, "", err
	}

	var parsed *record.Map
	body, err := c.Cached(ctx, u, c.refresh, func() ([]byte, error) {
		c.logger.Debug("GET", "url", u)
		b, err := c.Get(ctx, u)
		if err != nil {
			return nil, err
		}
		if parsed, err = decode(u, b); err != nil {
			return nil, err
		}
		return b, nil
	})
	if err != nil {
		return nil, "", err
	}
	if parsed == nil {
		if parsed, err = decode(u, body); err != nil {
			return nil, "", err
		}
	}
	return parsed, u, nil
}

// resolve turns rawURL into an absolute request URL. Rooted paths are
// appended to the base URL, keeping any path prefix a mirror uses; other
// relative references are resolved against the base URL as a directory.
func (c *Client) resolve(rawURL string) (string, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return "", err
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidURL, err, "malformed URL")
	}
	switch {
	case ref.IsAbs():
		return rawURL, nil
	case strings.HasPrefix(rawURL, "/"):
		return c.baseURL + rawURL, nil
	case c.base == nil:
		return "", errors.New(errors.ErrCodeInvalidURL, "cannot resolve %q against base URL %q", rawURL, c.baseURL)
	}
	return c.base.ResolveReference(ref).String(), nil
}

func decode(u string, body []byte) (*record.Map, error) {
	m, err := record.Parse(body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidResponse, err, "decode %s", u)
	}
	return m, nil
}

// isNotFound reports whether err is a 4xx answer whose first error entry
// carries [NotFoundCode]. Later entries are never consulted.
func isNotFound(err error) bool {
	up, ok := integrations.AsUpstream(err)
	if !ok || up.StatusCode < 400 || up.StatusCode >= 500 {
		return false
	}
	return firstErrorCode(up.Body) == NotFoundCode
}

// firstErrorCode extracts errors[0].error from a registry error body.
// It returns "" when the body has no such entry.
func firstErrorCode(body []byte) string {
	m, err := record.Parse(body)
	if err != nil {
		return ""
	}
	v, _ := m.Get("errors")
	list, ok := v.AsList()
	if !ok || len(list) == 0 {
		return ""
	}
	first, ok := list[0].AsMap()
	if !ok {
		return ""
	}
	code, _ := first.Get("error")
	s, _ := code.AsString()
	return s
}

func companyNumber(item record.Value) (string, bool) {
	m, ok := item.AsMap()
	if !ok {
		return "", false
	}
	v, _ := m.Get("company_number")
	return v.AsString()
}

func observe(ctx context.Context, op, subject string, fn func() (*record.Map, error)) (*record.Map, error) {
	hooks := observability.Registry()
	hooks.OnOperationStart(ctx, op, subject)
	start := time.Now()
	m, err := fn()
	hooks.OnOperationComplete(ctx, op, subject, time.Since(start), err)
	return m, err
}
