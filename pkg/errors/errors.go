// Package errors provides structured error types for the chouse client.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP facade
//   - Machine-readable error codes for programmatic handling
//   - Access to the original upstream status and body when the registry rejects a request
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or response validation failures
//   - UPSTREAM_*: The registry answered with a non-2xx status
//   - NETWORK_*: Transport failures (DNS, connection, timeout)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid company number: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	var up *errors.UpstreamError
//	if stderrors.As(err, &up) {
//	    fmt.Println(up.StatusCode, string(up.Body))
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidCompanyID Code = "INVALID_COMPANY_ID"
	ErrCodeInvalidURL       Code = "INVALID_URL"
	ErrCodeInvalidResponse  Code = "INVALID_RESPONSE"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Upstream errors
	ErrCodeUpstreamClient Code = "UPSTREAM_CLIENT_ERROR"
	ErrCodeUpstreamServer Code = "UPSTREAM_SERVER_ERROR"

	// ErrCodeResponseTooLarge marks a response body over the read limit.
	// The body is discarded rather than truncated.
	ErrCodeResponseTooLarge Code = "RESPONSE_TOO_LARGE"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorCode returns e.Code.
func (e *Error) ErrorCode() Code { return e.Code }

// Is matches target when it is an *Error with the same code. Package-level
// sentinels such as integrations.ErrNetwork rely on this.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coded is implemented by every error type in this package.
type coded interface {
	error
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain and checks the first coded error it finds.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var c coded
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var up *UpstreamError
	if errors.As(err, &up) {
		return up.Summary()
	}
	return err.Error()
}

// UpstreamError is returned when the registry answers with a non-2xx status.
// It carries the original status and body unchanged so callers can inspect
// or relay them.
type UpstreamError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s %s: status %d", e.ErrorCode(), e.Method, e.URL, e.StatusCode)
}

// ErrorCode classifies the status: 5xx is a server error, anything else a
// client error.
func (e *UpstreamError) ErrorCode() Code {
	if e.StatusCode >= 500 {
		return ErrCodeUpstreamServer
	}
	return ErrCodeUpstreamClient
}

// Summary returns a short human description using the status text.
func (e *UpstreamError) Summary() string {
	return fmt.Sprintf("registry returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPStatus maps an error to the status an HTTP facade should answer with.
// Upstream errors keep their original status.
func HTTPStatus(err error) int {
	var up *UpstreamError
	if errors.As(err, &up) {
		return up.StatusCode
	}
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidCompanyID, ErrCodeInvalidURL:
		return http.StatusBadRequest
	case ErrCodeNetwork, ErrCodeInvalidResponse, ErrCodeResponseTooLarge:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
