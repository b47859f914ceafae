// Package resilience provides fault tolerance patterns for backing store calls.
package resilience

import (
	"time"

	"profile_server/pkg/logger"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds configuration for a circuit breaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32        // consecutive failures before opening
	Timeout          time.Duration // open duration before half-open
	MaxHalfOpen      uint32        // requests allowed while half-open
	Interval         time.Duration // closed-state counter reset period

	// IsSuccessful decides whether an error counts against the breaker.
	// nil counts every non-nil error as a failure.
	IsSuccessful func(err error) bool
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxHalfOpen:      1,
		Interval:         60 * time.Second,
	}
}

// NewBreaker builds a gobreaker circuit breaker that logs state transitions.
func NewBreaker(cfg BreakerConfig, log *logger.Logger) *gobreaker.CircuitBreaker {
	if log == nil {
		log = logger.Default()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	threshold := cfg.FailureThreshold

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxHalfOpen,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
		IsSuccessful: cfg.IsSuccessful,
	})
}
