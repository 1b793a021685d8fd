// Package retry provides retry logic with exponential backoff for transient
// failures. It wraps github.com/cenkalti/backoff/v5 and integrates it with
// the errors package so retry policies key off error categories. Jitter is
// applied to every delay to avoid thundering-herd retries.
//
// The cache invalidation worker is the main consumer: a failed delete is
// retried a bounded number of times, after which the entry is left to expire
// via its TTL.
//
// Example usage:
//
//	cfg := retry.Config{
//		MaxAttempts:  3,
//		InitialDelay: 50 * time.Millisecond,
//		MaxDelay:     time.Second,
//		Policy:       retry.PolicyAll,
//	}
//
//	err := retry.Do(ctx, cfg, func() error {
//		return deleteCacheKey()
//	})
package retry

import (
	"context"

	"github.com/cenkalti/backoff/v5"
)

// Do executes fn with retry logic based on the configuration.
// It respects context cancellation and applies exponential backoff with
// jitter between attempts.
//
// Errors are retried according to the configured policy:
//   - PolicyTemporary: only errors.Temporary errors
//   - PolicyAll: all errors
//   - PolicyNone: never retry (execute once)
//   - Config.PolicyFunc overrides the above when set
//
// Returns the error from the last attempt if all retries are exhausted.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	cfg = cfg.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.MaxInterval = cfg.MaxDelay
	b.Multiplier = cfg.Multiplier
	b.RandomizationFactor = cfg.Jitter

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
	}

	if cfg.MaxAttempts > 0 {
		opts = append(opts, backoff.WithMaxTries(cfg.MaxAttempts))
	}

	if cfg.MaxElapsedTime > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(cfg.MaxElapsedTime))
	}

	// backoff.Retry requires Operation[T] returning (T, error); Do has no
	// return value so a dummy struct{} stands in for T.
	operation := func() (struct{}, error) {
		err := fn()
		if err == nil {
			return struct{}{}, nil
		}

		if !cfg.shouldRetry(err) {
			// Mark as permanent to stop retrying.
			return struct{}{}, backoff.Permanent(err)
		}

		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation, opts...)
	return err
}
