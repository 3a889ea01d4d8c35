package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimiterRegistryReturnsSameLimiterForSameKey(t *testing.T) {
	r := newLimiterRegistry()
	a := r.get("openalex")
	b := r.get("openalex")
	assert.Same(t, a, b)
}

func TestLimiterRegistryAppliesKnownSourceLimits(t *testing.T) {
	r := newLimiterRegistry()
	l := r.get("s2")
	assert.Equal(t, 1, l.Burst())
}

func TestLimiterRegistryFallsBackForUnknownSource(t *testing.T) {
	r := newLimiterRegistry()
	l := r.get("some-unrecognized-source")
	assert.Equal(t, fallbackLimit.capacity, l.Burst())
}
