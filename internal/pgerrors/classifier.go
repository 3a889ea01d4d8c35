package pgerrors

import (
	"strings"
)

// ErrorClassifier turns an opaque error into a PaperGraphError by
// inspecting its message, for errors that did not originate as a
// PaperGraphError in the first place (e.g. raw driver errors).
type ErrorClassifier struct {
	timeoutPatterns   []string
	networkPatterns   []string
	rateLimitPatterns []string
	storePatterns     []string
}

// NewErrorClassifier creates a classifier tuned for PaperGraph's two
// source adapters and its embedded store.
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{
		timeoutPatterns: []string{
			"timeout",
			"deadline exceeded",
			"context canceled",
		},
		networkPatterns: []string{
			"connection refused",
			"no such host",
			"network unreachable",
			"connection reset",
			"broken pipe",
			"connection closed",
			"eof",
		},
		rateLimitPatterns: []string{
			"rate limit",
			"too many requests",
			"quota exceeded",
			"throttled",
		},
		storePatterns: []string{
			"database is locked",
			"sqlite_busy",
			"sql:",
			"constraint failed",
			"no such table",
		},
	}
}

// Classify determines the error type and wraps it as a PaperGraphError.
func (ec *ErrorClassifier) Classify(err error) *PaperGraphError {
	if err == nil {
		return nil
	}

	if pgErr, ok := err.(*PaperGraphError); ok {
		return pgErr
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case ec.matches(errStr, ec.timeoutPatterns):
		return NewError(ErrorTypeTimeout, "OPERATION_TIMEOUT", "operation timed out").
			WithCause(err).
			Build()
	case ec.matches(errStr, ec.networkPatterns):
		return NewNetworkError("network connectivity issue", err)
	case ec.matches(errStr, ec.rateLimitPatterns):
		return NewError(ErrorTypeRateLimit, "RATE_LIMIT_EXCEEDED", "rate limit exceeded").
			WithCause(err).
			Build()
	case ec.matches(errStr, ec.storePatterns):
		return NewError(ErrorTypeTransient, "STORE_TRANSIENT", "transient store error").
			WithCause(err).
			WithComponent("store").
			Build()
	default:
		return NewError(ErrorTypeTransient, "UNKNOWN", "unknown error").
			WithCause(err).
			Retryable(false).
			Build()
	}
}

// ClassifyHTTPError classifies a transport response per spec §4.1/§7:
// {429, 500, 502, 503, 504} and connect/reset/timeout are retryable,
// everything else is fatal.
func (ec *ErrorClassifier) ClassifyHTTPError(statusCode int, body string) *PaperGraphError {
	switch {
	case statusCode == 429:
		return NewError(ErrorTypeRateLimit, "HTTP_RATE_LIMIT", "HTTP rate limit exceeded").
			WithDetail("status_code", statusCode).
			WithDetail("response_body", body).
			Build()
	case HTTPStatusRetryable(statusCode):
		return NewError(ErrorTypeTransient, "HTTP_ERROR", "HTTP request failed").
			WithDetail("status_code", statusCode).
			WithDetail("response_body", body).
			Build()
	default:
		return NewError(ErrorTypePermanent, "HTTP_ERROR", "HTTP request failed").
			WithDetail("status_code", statusCode).
			WithDetail("response_body", body).
			Retryable(false).
			Build()
	}
}

// ClassifySourceError classifies an error from a named source adapter
// (openalex or s2).
func (ec *ErrorClassifier) ClassifySourceError(source string, err error) *PaperGraphError {
	if err == nil {
		return nil
	}
	classified := ec.Classify(err)
	classified.Component = source
	classified.Details["source"] = source
	return classified
}

func (ec *ErrorClassifier) matches(errStr string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

// IsTimeoutError reports whether err is a timeout error.
func IsTimeoutError(err error) bool {
	return classifiedTypeIs(err, ErrorTypeTimeout)
}

// IsRateLimitError reports whether err is a rate-limit error.
func IsRateLimitError(err error) bool {
	return classifiedTypeIs(err, ErrorTypeRateLimit)
}

// IsNetworkError reports whether err is a network error.
func IsNetworkError(err error) bool {
	return classifiedTypeIs(err, ErrorTypeNetwork)
}

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool {
	return classifiedTypeIs(err, ErrorTypeValidation)
}

func classifiedTypeIs(err error, t ErrorType) bool {
	if err == nil {
		return false
	}
	if pgErr, ok := err.(*PaperGraphError); ok {
		return pgErr.Type == t
	}
	return NewErrorClassifier().Classify(err).Type == t
}
