// Package pgerrors implements the structured error taxonomy used across
// PaperGraph: transport failures, source-adapter degradation, store
// failures and configuration-validation failures all funnel through a
// single PaperGraphError so the build orchestrator can decide, in one
// place, what is fatal and what is a WARN-and-continue.
package pgerrors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorType buckets errors by handling strategy.
type ErrorType string

const (
	// ErrorTypeTransient is retried with backoff by the transport.
	ErrorTypeTransient ErrorType = "transient"

	// ErrorTypePermanent fails fast, no retry.
	ErrorTypePermanent ErrorType = "permanent"

	// ErrorTypeCircuitBreaker signals a tripped per-source breaker.
	ErrorTypeCircuitBreaker ErrorType = "circuit_breaker"

	// ErrorTypeRateLimit carries a specific backoff override (Retry-After).
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeValidation is a configuration or input error, reported
	// before any I/O per spec §7.
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeTimeout is a per-request timeout expiry.
	ErrorTypeTimeout ErrorType = "timeout"

	// ErrorTypeNetwork is a connection-level failure.
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeStore is a persistence failure; always fatal (§7).
	ErrorTypeStore ErrorType = "store"
)

// PaperGraphError is a structured error with enough context to decide
// retry/log/abort behavior without string-matching.
type PaperGraphError struct {
	Type      ErrorType              `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component"`
	Operation string                 `json:"operation"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

func (e *PaperGraphError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Component, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is implements error matching for errors.Is.
func (e *PaperGraphError) Is(target error) bool {
	t, ok := target.(*PaperGraphError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap exposes the underlying cause.
func (e *PaperGraphError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder builds a PaperGraphError fluently.
type ErrorBuilder struct {
	err *PaperGraphError
}

// NewError starts a new ErrorBuilder.
func NewError(errorType ErrorType, code, message string) *ErrorBuilder {
	return &ErrorBuilder{
		err: &PaperGraphError{
			Type:      errorType,
			Code:      code,
			Message:   message,
			Details:   make(map[string]interface{}),
			Timestamp: time.Now(),
			Retryable: errorType == ErrorTypeTransient || errorType == ErrorTypeTimeout || errorType == ErrorTypeNetwork || errorType == ErrorTypeRateLimit,
		},
	}
}

func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	b.err.Cause = cause
	return b
}

func (b *ErrorBuilder) WithComponent(component string) *ErrorBuilder {
	b.err.Component = component
	return b
}

func (b *ErrorBuilder) WithOperation(operation string) *ErrorBuilder {
	b.err.Operation = operation
	return b
}

func (b *ErrorBuilder) WithDetail(key string, value interface{}) *ErrorBuilder {
	b.err.Details[key] = value
	return b
}

func (b *ErrorBuilder) Retryable(retryable bool) *ErrorBuilder {
	b.err.Retryable = retryable
	return b
}

func (b *ErrorBuilder) Build() *PaperGraphError {
	return b.err
}

// Predefined constructors

// NewValidationError creates a configuration/input validation error.
func NewValidationError(message, field string, value interface{}) *PaperGraphError {
	return NewError(ErrorTypeValidation, "VALIDATION_ERROR", message).
		WithDetail("field", field).
		WithDetail("rejected_value", value).
		Retryable(false).
		Build()
}

// NewRateLimitError creates a rate-limit error; retryAfter may be zero
// if the response carried no Retry-After header.
func NewRateLimitError(message string, retryAfter time.Duration) *PaperGraphError {
	return NewError(ErrorTypeRateLimit, "RATE_LIMIT_EXCEEDED", message).
		WithDetail("retry_after", retryAfter.String()).
		Build()
}

// NewTimeoutError creates a timeout error for the given operation.
func NewTimeoutError(operation string, timeout time.Duration) *PaperGraphError {
	return NewError(ErrorTypeTimeout, "OPERATION_TIMEOUT", fmt.Sprintf("operation %s timed out", operation)).
		WithOperation(operation).
		WithDetail("timeout", timeout.String()).
		Build()
}

// NewNetworkError creates a connection-level error.
func NewNetworkError(message string, cause error) *PaperGraphError {
	return NewError(ErrorTypeNetwork, "NETWORK_ERROR", message).
		WithCause(cause).
		Build()
}

// NewCircuitBreakerError creates an error for a tripped source breaker.
func NewCircuitBreakerError(source string) *PaperGraphError {
	return NewError(ErrorTypeCircuitBreaker, "CIRCUIT_OPEN", fmt.Sprintf("circuit breaker open for source %q", source)).
		WithDetail("source", source).
		Build()
}

// NewStoreError creates a store/persistence error. Always fatal per §7.
func NewStoreError(operation string, cause error) *PaperGraphError {
	return NewError(ErrorTypeStore, "STORE_ERROR", "store operation failed").
		WithOperation(operation).
		WithCause(cause).
		WithComponent("store").
		Retryable(false).
		Build()
}

// NewSourceError creates a source-adapter error.
func NewSourceError(source, message string, cause error) *PaperGraphError {
	return NewError(ErrorTypeTransient, "SOURCE_ERROR", message).
		WithComponent(source).
		WithCause(cause).
		WithDetail("source", source).
		Build()
}

// HTTPStatusRetryable reports whether an HTTP status code is retryable
// per spec §4.1: {429, 500, 502, 503, 504}.
func HTTPStatusRetryable(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// IsDuplicateKeyError detects a unique-constraint violation across
// SQLite and Postgres error strings.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "constraint failed")
}
