package market

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind categorises a pipeline failure.
type ErrorKind string

const (
	// KindNoData means the provider answered but zero valid records remained.
	KindNoData ErrorKind = "no_data"
	// KindSymbolNotFound means the provider does not know the symbol.
	KindSymbolNotFound ErrorKind = "symbol_not_found"
	// KindRateLimit means the provider rejected the call with HTTP 429. This is
	// the only kind with special-cased recovery (stale cache fallback).
	KindRateLimit ErrorKind = "rate_limit"
	// KindTimeout means the request exceeded the provider's hard deadline.
	KindTimeout ErrorKind = "timeout"
	// KindTransport means DNS or connection level failure.
	KindTransport ErrorKind = "transport"
	// KindUpstream means the provider returned an unexpected error payload.
	KindUpstream ErrorKind = "upstream"
	// KindGuidance means the user's input needs clarification, not a fault.
	KindGuidance ErrorKind = "guidance"
)

// Error is the typed error surfaced by every fetch operation.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("market: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("market: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NoDataErr reports an empty series after validation filtering.
func NoDataErr(symbol string) *Error {
	return &Error{Kind: KindNoData, Message: fmt.Sprintf("no valid data points for %s", symbol)}
}

// NotFoundErr reports an unknown symbol.
func NotFoundErr(symbol string) *Error {
	return &Error{Kind: KindSymbolNotFound, StatusCode: http.StatusNotFound,
		Message: fmt.Sprintf("symbol %s not found", symbol)}
}

// RateLimitErr reports an HTTP 429 rejection.
func RateLimitErr(provider string) *Error {
	return &Error{Kind: KindRateLimit, StatusCode: http.StatusTooManyRequests,
		Message: fmt.Sprintf("%s rate limit exceeded", provider)}
}

// GuidanceErr asks the user to rephrase or narrow the request.
func GuidanceErr(msg string) *Error {
	return &Error{Kind: KindGuidance, Message: msg}
}

// UpstreamErr wraps a provider-reported failure with its message embedded.
func UpstreamErr(provider, msg string) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf("%s: %s", provider, msg)}
}

// KindOf extracts the taxonomy kind from any error chain.
func KindOf(err error) ErrorKind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindUpstream
}

// IsRateLimit reports whether the error chain carries a rate-limit rejection.
// Used by the cache to decide whether stale fallback applies.
func IsRateLimit(err error) bool {
	return KindOf(err) == KindRateLimit
}

// IsNotFound reports whether the error chain carries a symbol-not-found kind.
func IsNotFound(err error) bool {
	return KindOf(err) == KindSymbolNotFound
}

// ClassifyHTTPStatus maps a non-2xx provider response onto the taxonomy.
func ClassifyHTTPStatus(provider string, status int, body string) *Error {
	switch {
	case status == http.StatusTooManyRequests:
		return RateLimitErr(provider)
	case status == http.StatusNotFound:
		return &Error{Kind: KindSymbolNotFound, StatusCode: status,
			Message: fmt.Sprintf("%s reported not found", provider)}
	default:
		return &Error{Kind: KindUpstream, StatusCode: status,
			Message: fmt.Sprintf("%s returned status %d: %s", provider, status, trim(body, 200))}
	}
}

// ClassifyTransport maps a transport-level failure onto the taxonomy.
func ClassifyTransport(provider string, err error) *Error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Message: fmt.Sprintf("%s request timed out", provider), Cause: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Kind: KindTimeout, Message: fmt.Sprintf("%s request timed out", provider), Cause: err}
	default:
		return &Error{Kind: KindTransport, Message: fmt.Sprintf("%s request failed", provider), Cause: err}
	}
}

func trim(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
