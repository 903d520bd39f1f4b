package companieshouse

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chouse/pkg/cache"
)

// Option configures a [Client].
type Option func(*options)

type options struct {
	baseURL     string
	httpClient  *http.Client
	cache       cache.Cache
	ttl         time.Duration
	refresh     bool
	maxDepth    int
	concurrency int
	logger      *log.Logger
}

func defaultOptions() options {
	return options{
		baseURL:     DefaultBaseURL,
		maxDepth:    DefaultMaxDepth,
		concurrency: 1,
	}
}

// WithBaseURL points the client at a mirror or a test server.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient sets the HTTP client used for all requests. Timeouts and
// transports are configured there.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

// WithCache enables response caching in c with the given time-to-live.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(o *options) {
		o.cache = c
		o.ttl = ttl
	}
}

// WithRefresh makes the client skip cache reads. Fresh responses are still
// written to the cache.
func WithRefresh(refresh bool) Option {
	return func(o *options) { o.refresh = refresh }
}

// WithMaxDepth sets how many levels of links are expanded. 0 disables
// expansion ("links" is still removed), 1 is the default.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDepth = n
		}
	}
}

// WithConcurrency fetches up to n relations of one object in parallel.
// Key order of the result does not depend on n.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.concurrency = n
		}
	}
}

// WithLogger sets a logger for per-request debug output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}
