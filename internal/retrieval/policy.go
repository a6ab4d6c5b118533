package retrieval

import (
	"math"
	"time"

	"tululu/internal/domain"
)

// RetryPolicy decides how long to wait after a transport failure and how
// often the same id is tried again. MaxRetries 0 retries until canceled.
type RetryPolicy struct {
	Backoff    time.Duration
	MaxRetries int
}

func PolicyFromConfig(cfg *domain.Config) RetryPolicy {
	return RetryPolicy{
		Backoff:    cfg.RetryBackoff,
		MaxRetries: cfg.MaxRetries,
	}
}

// attempts is the total number of tries per id, the first one included
func (p RetryPolicy) attempts() uint {
	if p.MaxRetries <= 0 {
		return math.MaxUint
	}
	return uint(p.MaxRetries) + 1
}
