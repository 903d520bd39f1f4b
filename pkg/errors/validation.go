package errors

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	maxCompanyIDLength   = 32
	maxCompanyNameLength = 256
)

// ValidateCompanyID validates a company number before it is placed in a
// request path.
//
// The rules are intentionally loose, since the registry itself decides what
// exists:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 32 characters
func ValidateCompanyID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidCompanyID, "company number cannot be empty")
	}

	if len(id) > maxCompanyIDLength {
		return New(ErrCodeInvalidCompanyID, "company number too long (max %d characters)", maxCompanyIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCompanyID, "company number contains invalid characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "?", "#"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidCompanyID, "company number contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateCompanyName validates a free-text search query.
func ValidateCompanyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "company name cannot be empty")
	}

	if len(name) > maxCompanyNameLength {
		return New(ErrCodeInvalidInput, "company name too long (max %d characters)", maxCompanyNameLength)
	}

	for _, r := range name {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidInput, "company name contains invalid control characters")
		}
	}

	return nil
}

// ValidateURL validates a resource URL for FetchURL.
// Absolute URLs must use http or https. Relative references are accepted
// and resolved by the caller; scheme-relative ones ("//host/x") are not.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "malformed URL")
	}

	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return New(ErrCodeInvalidURL, "URL must use http or https scheme")
		}
		if u.Host == "" {
			return New(ErrCodeInvalidURL, "URL must have a host")
		}
		return nil
	}

	if u.Host != "" {
		return New(ErrCodeInvalidURL, "scheme-relative URLs are not supported")
	}

	return nil
}
