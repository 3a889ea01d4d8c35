// Package transport implements the rate-limited, retried, cached and
// circuit-broken HTTP client shared by every source adapter (§4.1).
// Each call is keyed by a source (e.g. "openalex", "s2"); the source
// key selects the rate limiter bucket and the circuit breaker, and
// scopes the request counters.
package transport

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/big"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/DashankaNadeeshanDeSilva/papergraph/internal/pgerrors"
)

// toolVersion is embedded in the outgoing User-Agent header (§4.1:
// "PaperGraph/<version> (mailto:<email>)").
const toolVersion = "0.1.0"

const (
	maxRetries         = 3
	initialBackoff     = 1 * time.Second
	maxBackoff         = 30 * time.Second
	defaultCallTimeout = 30 * time.Second
)

// Config configures a Transport.
type Config struct {
	Mailto      string
	CacheDir    string
	CacheTTL    time.Duration
	CacheOff    bool
	CallTimeout time.Duration
}

// Response is a decoded transport response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport is the shared HTTP client for every source adapter. One
// Transport instance is shared across the whole build run so the rate
// limiters, breakers and request counters are process-wide, not
// per-adapter.
type Transport struct {
	http        *http.Client
	limiters    *limiterRegistry
	breakers    *pgerrors.CircuitBreakerManager
	cache       *ResponseCache
	classifier  *pgerrors.ErrorClassifier
	logger      *slog.Logger
	userAgent   string
	callTimeout time.Duration

	mu       sync.Mutex
	counters map[string]int64
}

// New creates a Transport. logger must be non-nil; it is threaded
// through rather than relying on package-level state.
func New(cfg Config, logger *slog.Logger) *Transport {
	callTimeout := cfg.CallTimeout
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}

	ua := fmt.Sprintf("PaperGraph/%s", toolVersion)
	if cfg.Mailto != "" {
		ua = fmt.Sprintf("PaperGraph/%s (mailto:%s)", toolVersion, cfg.Mailto)
	}

	return &Transport{
		http:        &http.Client{},
		limiters:    newLimiterRegistry(),
		breakers:    pgerrors.NewCircuitBreakerManager(logger),
		cache:       NewResponseCache(cfg.CacheDir, cfg.CacheTTL, cfg.CacheOff),
		classifier:  pgerrors.NewErrorClassifier(),
		logger:      logger,
		userAgent:   ua,
		callTimeout: callTimeout,
		counters:    make(map[string]int64),
	}
}

// Get performs a rate-limited, retried, cached GET for sourceKey.
// Caching is skipped entirely for LLM source keys ("openai", "ollama")
// per §4.1 — their responses are never cached.
func (t *Transport) Get(ctx context.Context, sourceKey, url string) (*Response, error) {
	return t.do(ctx, sourceKey, http.MethodGet, url, nil, nil)
}

// GetWithHeaders is Get plus caller-supplied request headers (e.g.
// Semantic Scholar's x-api-key).
func (t *Transport) GetWithHeaders(ctx context.Context, sourceKey, url string, headers map[string]string) (*Response, error) {
	return t.do(ctx, sourceKey, http.MethodGet, url, headers, nil)
}

// Post performs a rate-limited, retried, cached POST for sourceKey.
func (t *Transport) Post(ctx context.Context, sourceKey, url string, headers map[string]string, body []byte) (*Response, error) {
	return t.do(ctx, sourceKey, http.MethodPost, url, headers, body)
}

func (t *Transport) do(ctx context.Context, sourceKey, method, url string, headers map[string]string, body []byte) (*Response, error) {
	cacheable := !isLLMSource(sourceKey)

	if cacheable {
		if cached, ok := t.cache.Get(url, body); ok {
			return &Response{StatusCode: http.StatusOK, Body: cached}, nil
		}
	}

	limiter := t.limiters.get(sourceKey)
	breaker := t.breakers.GetOrCreate(sourceKey, pgerrors.DefaultCircuitBreakerConfig())

	var resp *Response
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		if !breaker.Allow() {
			return nil, pgerrors.NewCircuitBreakerError(sourceKey)
		}

		start := time.Now()
		resp, lastErr = t.attempt(ctx, method, url, headers, body)
		breaker.Record(lastErr == nil && !pgerrors.HTTPStatusRetryable(statusOf(resp)), time.Since(start))

		t.incrCounter(sourceKey)

		if lastErr == nil && resp != nil && resp.StatusCode < 400 {
			if cacheable {
				if err := t.cache.Put(url, body, resp.Body); err != nil {
					t.logger.Warn("response cache write failed",
						slog.String("source", sourceKey),
						slog.String("error", err.Error()))
				}
			}
			return resp, nil
		}

		retryAfter, retryable := t.shouldRetry(resp, lastErr)
		if !retryable || attempt == maxRetries {
			break
		}

		delay := retryAfter
		if delay <= 0 {
			delay = backoffDelay(attempt)
		}

		t.logger.Warn("request failed, retrying",
			slog.String("source", sourceKey),
			slog.String("url", url),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if lastErr != nil {
		return nil, t.classifier.ClassifySourceError(sourceKey, lastErr)
	}
	return resp, pgerrors.NewError(pgerrors.ErrorTypePermanent, "HTTP_ERROR", "request failed after retries exhausted").
		WithComponent(sourceKey).
		WithDetail("status_code", statusOf(resp)).
		Retryable(false).
		Build()
}

func (t *Transport) attempt(ctx context.Context, method, url string, headers map[string]string, body []byte) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.callTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(callCtx, method, url, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", t.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	httpResp, err := t.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

// shouldRetry decides whether the last attempt is retryable and, if
// the response carried a Retry-After header, the override delay to
// honor instead of the exponential backoff.
func (t *Transport) shouldRetry(resp *Response, err error) (retryAfter time.Duration, retryable bool) {
	if err != nil {
		classified := t.classifier.Classify(err)
		return 0, classified.Retryable
	}

	if resp == nil {
		return 0, false
	}

	if !pgerrors.HTTPStatusRetryable(resp.StatusCode) {
		return 0, false
	}

	if d, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
		return d, true
	}
	return 0, true
}

// backoffDelay implements §4.1's exact formula:
// min(max_backoff, initial * 2^attempt + random in [0, initial * 2^attempt * 0.5)).
func backoffDelay(attempt int) time.Duration {
	base := float64(initialBackoff) * math.Pow(2, float64(attempt))
	jitter := randFloat() * base * 0.5
	delay := time.Duration(base + jitter)
	if delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

func randFloat() float64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<53))
	if err != nil {
		return 0
	}
	return float64(n.Int64()) / float64(1<<53)
}

// parseRetryAfter accepts both the integer-seconds and HTTP-date forms
// of the Retry-After header.
func parseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

func statusOf(resp *Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func isLLMSource(sourceKey string) bool {
	return sourceKey == "openai" || sourceKey == "ollama"
}

func (t *Transport) incrCounter(sourceKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counters[sourceKey]++
}

// RequestCounts returns a snapshot of per-source request counts,
// backing the run summary (§6, §12).
func (t *Transport) RequestCounts() map[string]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int64, len(t.counters))
	for k, v := range t.counters {
		out[k] = v
	}
	return out
}

// BreakerSnapshot returns the current state and metrics for every
// source-keyed circuit breaker that has handled at least one request,
// backing the run summary (§6, §12) alongside RequestCounts.
func (t *Transport) BreakerSnapshot() map[string]pgerrors.BreakerSnapshot {
	return t.breakers.Snapshot()
}

// DecodeJSON is a convenience for unmarshaling a Response body.
func DecodeJSON(resp *Response, v interface{}) error {
	return json.Unmarshal(resp.Body, v)
}
