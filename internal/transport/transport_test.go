package transport

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayGrowsExponentiallyAndCapsAtMax(t *testing.T) {
	d0 := backoffDelay(0)
	d1 := backoffDelay(1)
	assert.GreaterOrEqual(t, d0, initialBackoff)
	assert.Less(t, d0, initialBackoff*2)
	assert.GreaterOrEqual(t, d1, initialBackoff*2)

	big := backoffDelay(20)
	assert.LessOrEqual(t, big, maxBackoff)
}

func TestParseRetryAfterAcceptsIntegerSeconds(t *testing.T) {
	d, ok := parseRetryAfter("5")
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, d)
}

func TestParseRetryAfterAcceptsHTTPDate(t *testing.T) {
	future := time.Now().Add(2 * time.Minute).UTC()
	d, ok := parseRetryAfter(future.Format(http.TimeFormat))
	assert.True(t, ok)
	assert.Greater(t, d, time.Duration(0))
}

func TestParseRetryAfterRejectsGarbage(t *testing.T) {
	_, ok := parseRetryAfter("not-a-date-or-int")
	assert.False(t, ok)

	_, ok = parseRetryAfter("")
	assert.False(t, ok)
}

func TestIsLLMSourceRecognizesOnlyLLMKeys(t *testing.T) {
	assert.True(t, isLLMSource("openai"))
	assert.True(t, isLLMSource("ollama"))
	assert.False(t, isLLMSource("openalex"))
	assert.False(t, isLLMSource("s2"))
}

func TestStatusOfHandlesNilResponse(t *testing.T) {
	assert.Equal(t, 0, statusOf(nil))
	assert.Equal(t, http.StatusOK, statusOf(&Response{StatusCode: http.StatusOK}))
}
