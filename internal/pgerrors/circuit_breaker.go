package pgerrors

import (
	"log/slog"
	"sync"
	"time"
)

// CircuitBreakerState represents the current state of a per-source
// circuit breaker guarding the HTTP transport.
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateHalfOpen
	StateOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half_open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds the trip/reset thresholds for one source
// key (e.g. "openalex", "s2").
type CircuitBreakerConfig struct {
	Name                string
	FailureThreshold    int
	SuccessThreshold    int
	Timeout             time.Duration
	MaxRequests         int
	ExpectedFailureRate float64
	MinRequestCount     int
	SlidingWindow       time.Duration
}

// DefaultCircuitBreakerConfig returns conservative defaults suitable
// for guarding a single source's requests within one build run.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold:    5,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		MaxRequests:         1,
		ExpectedFailureRate: 0.5,
		MinRequestCount:     5,
		SlidingWindow:       60 * time.Second,
	}
}

// CircuitBreakerMetrics tracks operational metrics for one breaker.
type CircuitBreakerMetrics struct {
	TotalRequests      int64
	SuccessfulReqs     int64
	FailedReqs         int64
	CircuitOpenReqs    int64
	LastFailureTime    int64
	LastSuccessTime    int64
	StateChanges       int64
	CurrentFailureRate float64
}

// CircuitBreaker trips after a run of failed attempts for a source (the
// transport records every attempt, retries included), preventing a dead source from being hammered for the rest of a BFS
// traversal.
type CircuitBreaker struct {
	config       CircuitBreakerConfig
	state        CircuitBreakerState
	metrics      CircuitBreakerMetrics
	failures     *RollingWindow
	mutex        sync.RWMutex
	stateChanged time.Time
	logger       *slog.Logger

	onStateChange func(from, to CircuitBreakerState)
}

// RollingWindow tracks failures over a sliding time window.
type RollingWindow struct {
	window  time.Duration
	buckets []TimeBucket
	current int
	mutex   sync.RWMutex
}

// TimeBucket is one slice of a RollingWindow.
type TimeBucket struct {
	timestamp time.Time
	failures  int
	requests  int
}

// NewCircuitBreaker creates a circuit breaker for one source key.
func NewCircuitBreaker(config CircuitBreakerConfig, logger *slog.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		config:       config,
		state:        StateClosed,
		failures:     NewRollingWindow(config.SlidingWindow),
		stateChanged: time.Now(),
		logger:       logger,
	}
}

// BreakerSnapshot is one breaker's state and metrics at a point in
// time, used for end-of-run diagnostics (the `build` CLI logs one of
// these per source key that issued at least one request).
type BreakerSnapshot struct {
	State   CircuitBreakerState
	Metrics CircuitBreakerMetrics
}

// Execute wraps a transport call with circuit breaker protection,
// returning a circuit_breaker-type PaperGraphError when tripped.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.Allow() {
		cb.recordCircuitOpen()
		return NewCircuitBreakerError(cb.config.Name)
	}

	start := time.Now()
	err := fn()
	cb.Record(err == nil, time.Since(start))
	return err
}

// Allow reports whether a request should be let through right now.
func (cb *CircuitBreaker) Allow() bool {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		return cb.shouldAttemptReset()
	case StateHalfOpen:
		return cb.canProcessHalfOpenRequest()
	default:
		return false
	}
}

// Record records the outcome of a request that was allowed through.
func (cb *CircuitBreaker) Record(success bool, duration time.Duration) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	now := time.Now()
	cb.metrics.TotalRequests++

	if success {
		cb.metrics.SuccessfulReqs++
		cb.metrics.LastSuccessTime = now.Unix()
		cb.onSuccess()
	} else {
		cb.metrics.FailedReqs++
		cb.metrics.LastFailureTime = now.Unix()
		cb.onFailure()
	}

	cb.failures.Record(!success)
	cb.updateFailureRate()
	cb.evaluateStateChange()

	cb.logger.Debug("circuit breaker recorded result",
		slog.String("source", cb.config.Name),
		slog.Bool("success", success),
		slog.Duration("duration", duration),
		slog.String("state", cb.state.String()),
		slog.Float64("failure_rate", cb.metrics.CurrentFailureRate))
}

func (cb *CircuitBreaker) recordCircuitOpen() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.metrics.CircuitOpenReqs++
}

func (cb *CircuitBreaker) shouldAttemptReset() bool {
	return time.Since(cb.stateChanged) >= cb.config.Timeout
}

func (cb *CircuitBreaker) canProcessHalfOpenRequest() bool {
	return cb.metrics.TotalRequests < int64(cb.config.MaxRequests)
}

func (cb *CircuitBreaker) onSuccess() {
	if cb.state == StateHalfOpen {
		if cb.failures.GetSuccessCount() >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) onFailure() {
	if cb.state == StateHalfOpen {
		cb.setState(StateOpen)
	}
}

func (cb *CircuitBreaker) updateFailureRate() {
	total := cb.failures.GetTotalCount()
	if total > 0 {
		cb.metrics.CurrentFailureRate = float64(cb.failures.GetFailureCount()) / float64(total)
	}
}

func (cb *CircuitBreaker) evaluateStateChange() {
	if cb.state != StateClosed {
		return
	}

	total := cb.failures.GetTotalCount()
	if total < cb.config.MinRequestCount {
		return
	}

	if cb.metrics.CurrentFailureRate > cb.config.ExpectedFailureRate {
		if cb.failures.GetFailureCount() >= cb.config.FailureThreshold {
			cb.setState(StateOpen)
		}
	}
}

func (cb *CircuitBreaker) setState(newState CircuitBreakerState) {
	oldState := cb.state
	cb.state = newState
	cb.stateChanged = time.Now()
	cb.metrics.StateChanges++

	if cb.onStateChange != nil {
		cb.onStateChange(oldState, newState)
	}

	cb.logger.Info("circuit breaker state changed",
		slog.String("source", cb.config.Name),
		slog.String("from", oldState.String()),
		slog.String("to", newState.String()),
		slog.Float64("failure_rate", cb.metrics.CurrentFailureRate))
}

// GetMetrics returns a snapshot of this breaker's metrics.
func (cb *CircuitBreaker) GetMetrics() CircuitBreakerMetrics {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.metrics
}

// GetState returns the breaker's current state.
func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.state
}

// SetOnStateChange registers a state-transition callback, used by
// CircuitBreakerManager.GetOrCreate to log a WARN line the moment a
// source trips.
func (cb *CircuitBreaker) SetOnStateChange(callback func(from, to CircuitBreakerState)) {
	cb.onStateChange = callback
}

// NewRollingWindow creates a rolling window split into 10 buckets.
func NewRollingWindow(window time.Duration) *RollingWindow {
	bucketCount := 10
	buckets := make([]TimeBucket, bucketCount)
	now := time.Now()

	for i := range buckets {
		buckets[i] = TimeBucket{
			timestamp: now.Add(-window + time.Duration(i)*window/time.Duration(bucketCount)),
		}
	}

	return &RollingWindow{window: window, buckets: buckets}
}

// Record records a success or failure in the current bucket.
func (rw *RollingWindow) Record(isFailure bool) {
	rw.mutex.Lock()
	defer rw.mutex.Unlock()

	now := time.Now()
	rw.evictOldBuckets(now)

	bucket := rw.getCurrentBucket(now)
	bucket.requests++
	if isFailure {
		bucket.failures++
	}
}

// GetFailureCount returns failures within the window.
func (rw *RollingWindow) GetFailureCount() int {
	rw.mutex.RLock()
	defer rw.mutex.RUnlock()

	rw.evictOldBuckets(time.Now())

	failures := 0
	for _, bucket := range rw.buckets {
		failures += bucket.failures
	}
	return failures
}

// GetTotalCount returns total requests within the window.
func (rw *RollingWindow) GetTotalCount() int {
	rw.mutex.RLock()
	defer rw.mutex.RUnlock()

	rw.evictOldBuckets(time.Now())

	total := 0
	for _, bucket := range rw.buckets {
		total += bucket.requests
	}
	return total
}

// GetSuccessCount returns successes within the window.
func (rw *RollingWindow) GetSuccessCount() int {
	return rw.GetTotalCount() - rw.GetFailureCount()
}

func (rw *RollingWindow) evictOldBuckets(now time.Time) {
	cutoff := now.Add(-rw.window)
	for i := range rw.buckets {
		if rw.buckets[i].timestamp.Before(cutoff) {
			rw.buckets[i] = TimeBucket{timestamp: now}
		}
	}
}

func (rw *RollingWindow) getCurrentBucket(now time.Time) *TimeBucket {
	for i := range rw.buckets {
		if rw.buckets[i].timestamp.After(now.Add(-rw.window / time.Duration(len(rw.buckets)))) {
			return &rw.buckets[i]
		}
	}

	rw.buckets[rw.current] = TimeBucket{timestamp: now}
	bucket := &rw.buckets[rw.current]
	rw.current = (rw.current + 1) % len(rw.buckets)
	return bucket
}

// CircuitBreakerManager owns one CircuitBreaker per source key.
type CircuitBreakerManager struct {
	breakers map[string]*CircuitBreaker
	mutex    sync.RWMutex
	logger   *slog.Logger
}

// NewCircuitBreakerManager creates an empty manager.
func NewCircuitBreakerManager(logger *slog.Logger) *CircuitBreakerManager {
	return &CircuitBreakerManager{
		breakers: make(map[string]*CircuitBreaker),
		logger:   logger,
	}
}

// GetOrCreate returns the breaker for source, creating it with config
// on first use. A freshly created breaker logs a WARN the moment it
// trips open, distinct from setState's routine INFO transition line —
// a source going dark mid-BFS is the one transition an operator needs
// to notice without grepping through debug output.
func (cbm *CircuitBreakerManager) GetOrCreate(source string, config CircuitBreakerConfig) *CircuitBreaker {
	cbm.mutex.Lock()
	defer cbm.mutex.Unlock()

	if cb, exists := cbm.breakers[source]; exists {
		return cb
	}

	config.Name = source
	cb := NewCircuitBreaker(config, cbm.logger)
	cb.SetOnStateChange(func(from, to CircuitBreakerState) {
		if to == StateOpen {
			cbm.logger.Warn("circuit breaker tripped open, source will be refused until timeout elapses",
				slog.String("source", source),
				slog.String("from", from.String()),
				slog.Duration("timeout", config.Timeout))
		}
	})
	cbm.breakers[source] = cb
	return cb
}

// Get returns the breaker for source, if one has been created.
func (cbm *CircuitBreakerManager) Get(source string) (*CircuitBreaker, bool) {
	cbm.mutex.RLock()
	defer cbm.mutex.RUnlock()
	cb, exists := cbm.breakers[source]
	return cb, exists
}

// GetAll returns every known breaker keyed by source.
func (cbm *CircuitBreakerManager) GetAll() map[string]*CircuitBreaker {
	cbm.mutex.RLock()
	defer cbm.mutex.RUnlock()

	result := make(map[string]*CircuitBreaker, len(cbm.breakers))
	for source, cb := range cbm.breakers {
		result[source] = cb
	}
	return result
}

// Snapshot returns the current state and metrics for every known
// breaker, keyed by source — the `build` CLI logs this once at the end
// of a run so a trip that later half-closed and recovered is still
// visible in the final summary, not just in the WARN line at trip
// time.
func (cbm *CircuitBreakerManager) Snapshot() map[string]BreakerSnapshot {
	result := make(map[string]BreakerSnapshot, len(cbm.GetAll()))
	for source, cb := range cbm.GetAll() {
		result[source] = BreakerSnapshot{State: cb.GetState(), Metrics: cb.GetMetrics()}
	}
	return result
}
