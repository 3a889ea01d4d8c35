package transport

import (
	"sync"

	"golang.org/x/time/rate"
)

// sourceLimit is the (refill rate, bucket capacity) pair for one
// source key (§4.1).
type sourceLimit struct {
	rate     float64
	capacity int
}

// knownSourceLimits holds the recognized source keys; anything else
// falls back to fallbackLimit.
var knownSourceLimits = map[string]sourceLimit{
	"openalex": {rate: 10, capacity: 10},
	"s2":       {rate: 1, capacity: 1},
	"openai":   {rate: 5, capacity: 5},
	"ollama":   {rate: 100, capacity: 100},
}

var fallbackLimit = sourceLimit{rate: 5, capacity: 5}

// limiterRegistry owns one rate.Limiter per source key, created
// lazily on first use so unrecognized keys still get the fallback
// bucket rather than failing.
type limiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLimiterRegistry() *limiterRegistry {
	return &limiterRegistry{limiters: make(map[string]*rate.Limiter)}
}

func (r *limiterRegistry) get(sourceKey string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[sourceKey]; ok {
		return l
	}

	limit := fallbackLimit
	if known, ok := knownSourceLimits[sourceKey]; ok {
		limit = known
	}

	l := rate.NewLimiter(rate.Limit(limit.rate), limit.capacity)
	r.limiters[sourceKey] = l
	return l
}
