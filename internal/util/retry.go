package util

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	Multiplier      float64
	RandomizeFactor float64
	RetryableFunc   func(error) bool
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     4,
		InitialDelay:    500 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		Multiplier:      2.0,
		RandomizeFactor: 0.3,
		RetryableFunc:   IsRetryableError,
	}
}

// IsRetryableError determines if an error is retryable.
// Errors may opt in or out by implementing Retryable() bool.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are final
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var retryable interface{ Retryable() bool }
	if errors.As(err, &retryable) {
		return retryable.Retryable()
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return true
	}

	return false
}

// RetryWithBackoff executes a function with exponential backoff retry.
// The last error is returned unwrapped so callers can inspect it directly.
func RetryWithBackoff(ctx context.Context, config *RetryConfig, fn func() error) error {
	if config == nil {
		config = DefaultRetryConfig()
	}
	retryable := config.RetryableFunc
	if retryable == nil {
		retryable = IsRetryableError
	}

	maxAttempts := config.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts {
			return err
		}

		nextDelay := calculateDelay(delay, config.RandomizeFactor, config.MaxDelay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(nextDelay):
		}

		delay = time.Duration(float64(delay) * config.Multiplier)
		if delay > config.MaxDelay {
			delay = config.MaxDelay
		}
	}

	return lastErr
}

// calculateDelay adds jitter to the delay
func calculateDelay(base time.Duration, randomizeFactor float64, maxDelay time.Duration) time.Duration {
	jitter := float64(base) * randomizeFactor
	minDelay := float64(base) - jitter
	maxJitteredDelay := float64(base) + jitter

	delay := minDelay + (rand.Float64() * (maxJitteredDelay - minDelay))

	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}

	// Ensure minimum delay of 1ms
	if delay < float64(time.Millisecond) {
		delay = float64(time.Millisecond)
	}

	return time.Duration(delay)
}
