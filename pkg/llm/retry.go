package llm

import (
	"context"
	"math"
	"strings"
	"time"
)

// RetryPolicy controls how failed completions are retried with exponential
// backoff.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// DefaultRetryPolicy returns a RetryPolicy with sensible defaults:
// 3 attempts, 1s initial delay, 2x multiplier, 30s max delay.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		Multiplier:   2.0,
		MaxDelay:     30 * time.Second,
	}
}

// ShouldRetry returns true if the error is retryable and the attempt count
// has not exceeded MaxAttempts.
func (p *RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if attempt > p.MaxAttempts {
		return false
	}
	return p.isRetryable(err)
}

// isRetryable classifies errors as retryable or permanent based on their
// message. Transient errors (connection, timeout, rate limit) are retryable;
// auth/validation errors are not. Unknown errors default to retryable.
func (p *RetryPolicy) isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())

	// Transient / retryable errors
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "status 429") ||
		strings.Contains(msg, "temporary failure") {
		return true
	}

	// Permanent / non-retryable errors
	if strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "forbidden") {
		return false
	}

	// Default: retryable
	return true
}

// NextDelay returns the backoff delay for the given attempt number (1-indexed).
// The delay is InitialDelay * Multiplier^(attempt-1), capped at MaxDelay.
func (p *RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(delay)
}

// retryProvider wraps a Provider with a RetryPolicy.
type retryProvider struct {
	inner  Provider
	policy *RetryPolicy
}

// WithRetry decorates a provider so that transient completion failures are
// retried with exponential backoff. The core never retries; this lives at
// the collaborator boundary.
func WithRetry(p Provider, policy *RetryPolicy) Provider {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	return &retryProvider{inner: p, policy: policy}
}

func (r *retryProvider) Complete(ctx context.Context, messages []Message) (*Response, error) {
	var lastErr error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		resp, err := r.inner.Complete(ctx, messages)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !r.policy.ShouldRetry(err, attempt) {
			return nil, err
		}
		if attempt < r.policy.MaxAttempts {
			select {
			case <-time.After(r.policy.NextDelay(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}
