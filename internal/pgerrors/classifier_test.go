package pgerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRecognizesEachPatternFamily(t *testing.T) {
	ec := NewErrorClassifier()

	assert.Equal(t, ErrorTypeTimeout, ec.Classify(errors.New("context deadline exceeded")).Type)
	assert.Equal(t, ErrorTypeNetwork, ec.Classify(errors.New("dial tcp: connection refused")).Type)
	assert.Equal(t, ErrorTypeRateLimit, ec.Classify(errors.New("429 too many requests")).Type)
	assert.Equal(t, ErrorTypeTransient, ec.Classify(errors.New("database is locked")).Type)
}

func TestClassifyFallsBackToUnknownTransient(t *testing.T) {
	ec := NewErrorClassifier()
	got := ec.Classify(errors.New("something entirely unrecognized"))
	assert.Equal(t, ErrorTypeTransient, got.Type)
	assert.Equal(t, "UNKNOWN", got.Code)
	assert.False(t, got.Retryable)
}

func TestClassifyPassesThroughAnExistingPaperGraphError(t *testing.T) {
	ec := NewErrorClassifier()
	original := NewValidationError("bad field", "source", "mixed")
	got := ec.Classify(original)
	assert.Same(t, original, got)
}

func TestClassifyHTTPErrorMapsStatusCodes(t *testing.T) {
	ec := NewErrorClassifier()

	assert.Equal(t, ErrorTypeRateLimit, ec.ClassifyHTTPError(429, "").Type)
	assert.Equal(t, ErrorTypeTransient, ec.ClassifyHTTPError(503, "").Type)

	permanent := ec.ClassifyHTTPError(404, "")
	assert.Equal(t, ErrorTypePermanent, permanent.Type)
	assert.False(t, permanent.Retryable)
}

func TestClassifySourceErrorAttachesSourceComponent(t *testing.T) {
	ec := NewErrorClassifier()
	got := ec.ClassifySourceError("openalex", errors.New("connection reset by peer"))
	assert.Equal(t, "openalex", got.Component)
	assert.Equal(t, "openalex", got.Details["source"])
}

func TestHTTPStatusRetryableMatchesExactSet(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		assert.True(t, HTTPStatusRetryable(code), "code %d", code)
	}
	for _, code := range []int{200, 201, 400, 401, 404} {
		assert.False(t, HTTPStatusRetryable(code), "code %d", code)
	}
}

func TestIsDuplicateKeyErrorMatchesKnownDrivers(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(errors.New("UNIQUE constraint failed: papers.source")))
	assert.True(t, IsDuplicateKeyError(errors.New("pq: duplicate key value violates unique constraint")))
	assert.False(t, IsDuplicateKeyError(errors.New("no such table: papers")))
	assert.False(t, IsDuplicateKeyError(nil))
}
