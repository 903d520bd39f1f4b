package integrations

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/matzehuels/chouse/pkg/errors"
)

const httpTimeout = 10 * time.Second

// ErrNetwork matches every transport failure (DNS, connection refused,
// timeout) returned by [Client]. Use it with the standard errors.Is.
var ErrNetwork = &errors.Error{Code: errors.ErrCodeNetwork, Message: "network error"}

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// IsStatus reports whether err is an upstream answer with the given status.
func IsStatus(err error, code int) bool {
	up, ok := AsUpstream(err)
	return ok && up.StatusCode == code
}

// AsUpstream extracts the [*errors.UpstreamError] from err's chain.
func AsUpstream(err error) (*errors.UpstreamError, bool) {
	var up *errors.UpstreamError
	if stderrors.As(err, &up) {
		return up, true
	}
	return nil, false
}
