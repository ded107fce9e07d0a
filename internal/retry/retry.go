// Package retry wraps unreliable external calls in exponential backoff.
package retry

import (
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Policy describes how patient one call site is. Policies are cheap values
// constructed per call; they are never persisted.
//
// The schedule is deterministic: the n-th retry waits exactly
// BaseDelay * Multiplier^(n-1). There is no jitter and no delay cap, so
// callers bound worst-case latency by keeping MaxAttempts small.
type Policy struct {
	// MaxAttempts counts the first attempt too. Values below 1 behave as 1.
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	// Retryable classifies errors. A nil Retryable retries every error.
	Retryable func(error) bool
}

// Do runs op until it succeeds, fails with a non-retryable error, or exhausts
// the policy's attempts. The last error is returned exactly as op produced
// it, unwrapped, so callers can still inspect the underlying cause.
// Non-retryable errors return immediately without sleeping.
func Do[T any](log *zap.Logger, policy Policy, name string, op func() (T, error)) (T, error) {
	var result T

	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.BaseDelay
	b.Multiplier = policy.Multiplier
	b.RandomizationFactor = 0
	b.MaxInterval = time.Duration(math.MaxInt64)
	b.MaxElapsedTime = 0

	attempt := 0
	operation := func() error {
		attempt++
		value, err := op()
		if err == nil {
			result = value
			return nil
		}
		if policy.Retryable != nil && !policy.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Warn("attempt failed, backing off",
			zap.String("op", name),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	err := backoff.RetryNotify(operation, backoff.WithMaxRetries(b, uint64(maxAttempts-1)), notify)
	return result, err
}
