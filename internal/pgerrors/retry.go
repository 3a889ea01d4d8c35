package pgerrors

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"
)

// RetryConfig configures RetryExecutor's generic exponential backoff.
// This is distinct from the HTTP transport's retry policy (internal/
// transport), which implements the transport's own exact formula;
// RetryExecutor here is used for transient store errors (e.g. a locked
// SQLite database during the bulk-insert transaction) where no such
// formula is mandated.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	Jitter          bool
	RetryableErrors []ErrorType
}

// WithStoreRetry returns a RetryConfig tuned for transient store
// contention.
func WithStoreRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:     3,
		InitialDelay:    50 * time.Millisecond,
		MaxDelay:        2 * time.Second,
		BackoffFactor:   2.0,
		Jitter:          true,
		RetryableErrors: []ErrorType{ErrorTypeTransient},
	}
}

// RetryStats tracks retry statistics.
type RetryStats struct {
	TotalAttempts     int64
	SuccessfulRetries int64
	FailedRetries     int64
	AverageAttempts   float64
}

// RetryExecutor runs store operations with exponential backoff.
type RetryExecutor struct {
	config     RetryConfig
	classifier *ErrorClassifier
	stats      RetryStats
	logger     *slog.Logger
	mutex      sync.RWMutex
}

// NewRetryExecutor creates a retry executor.
func NewRetryExecutor(config RetryConfig, classifier *ErrorClassifier, logger *slog.Logger) *RetryExecutor {
	return &RetryExecutor{
		config:     config,
		classifier: classifier,
		logger:     logger,
	}
}

// Execute runs fn, retrying classified-retryable store errors.
func (re *RetryExecutor) Execute(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	attempts := 0

	re.mutex.Lock()
	re.stats.TotalAttempts++
	re.mutex.Unlock()

	for attempts < re.config.MaxAttempts {
		attempts++

		err := fn()
		if err == nil {
			if attempts > 1 {
				re.mutex.Lock()
				re.stats.SuccessfulRetries++
				re.updateAverageAttempts(float64(attempts))
				re.mutex.Unlock()

				re.logger.Info("store operation succeeded after retries",
					slog.String("operation", operation),
					slog.Int("attempts", attempts))
			}
			return nil
		}

		lastErr = err
		classified := re.classifier.Classify(err)

		if !re.shouldRetry(classified, attempts) {
			break
		}

		delay := re.calculateDelay(attempts)

		re.logger.Warn("store operation failed, retrying",
			slog.String("operation", operation),
			slog.Int("attempt", attempts),
			slog.String("error", err.Error()),
			slog.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	re.mutex.Lock()
	re.stats.FailedRetries++
	re.updateAverageAttempts(float64(attempts))
	re.mutex.Unlock()

	return NewError(ErrorTypeStore, "STORE_RETRY_EXHAUSTED", fmt.Sprintf("store operation failed after %d attempts", attempts)).
		WithCause(lastErr).
		WithComponent("store").
		WithOperation(operation).
		WithDetail("attempts", attempts).
		WithDetail("max_attempts", re.config.MaxAttempts).
		Retryable(false).
		Build()
}

func (re *RetryExecutor) shouldRetry(err *PaperGraphError, attempt int) bool {
	if err == nil || attempt >= re.config.MaxAttempts || !err.Retryable {
		return false
	}
	for _, t := range re.config.RetryableErrors {
		if err.Type == t {
			return true
		}
	}
	return false
}

func (re *RetryExecutor) calculateDelay(attempt int) time.Duration {
	delay := time.Duration(float64(re.config.InitialDelay) * math.Pow(re.config.BackoffFactor, float64(attempt-1)))
	if delay > re.config.MaxDelay {
		delay = re.config.MaxDelay
	}
	if re.config.Jitter {
		delay += time.Duration(rand.Float64() * float64(delay) * 0.1)
	}
	return delay
}

func (re *RetryExecutor) updateAverageAttempts(attempts float64) {
	totalOps := re.stats.SuccessfulRetries + re.stats.FailedRetries
	if totalOps > 0 {
		re.stats.AverageAttempts = (re.stats.AverageAttempts*float64(totalOps-1) + attempts) / float64(totalOps)
	} else {
		re.stats.AverageAttempts = attempts
	}
}

// GetStats returns current retry statistics, exposed through
// Store.RetryStats and logged by the build command at the end of a
// run (§4.3's bulk-transaction retry path is the
// only caller of Execute).
func (re *RetryExecutor) GetStats() RetryStats {
	re.mutex.RLock()
	defer re.mutex.RUnlock()
	return re.stats
}
