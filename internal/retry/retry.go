package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/careerlens/internal/model"
)

// maxDelay caps a single wait, including a server-sent Retry-After. The
// search runs in front of an interactive user, so a longer wait is reported
// as a failure instead.
const maxDelay = time.Minute

// RetrySearcher retries transient job-search failures with exponential
// backoff and jitter. Analysis uploads are never retried: re-posting a resume
// restarts the whole analysis.
type RetrySearcher struct {
	inner      model.JobSearcher
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetrySearcher wraps a JobSearcher with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetrySearcher(inner model.JobSearcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetrySearcher {
	return &RetrySearcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// SearchJobs runs the search, retrying on transient errors. The returned
// error is the last attempt's, so callers can still inspect its HTTPError.
func (s *RetrySearcher) SearchJobs(ctx context.Context, query string) ([]model.JobListing, error) {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			delay, ok := s.backoffDelay(attempt, lastErr)
			if !ok {
				s.logger.Warn("server asked to wait too long, giving up",
					"query", query,
					"retry_after", delay,
					"error", lastErr,
				)
				return nil, lastErr
			}

			s.logger.Warn("retrying job search after transient error",
				"query", query,
				"attempt", attempt,
				"max_retries", s.maxRetries,
				"delay", delay,
				"error", lastErr,
			)

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		listings, err := s.inner.SearchJobs(ctx, query)
		if err == nil {
			if attempt > 0 {
				s.logger.Info("job search recovered", "query", query, "attempts", attempt+1)
			}
			return listings, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	s.logger.Error("job search failed after retries", "query", query, "attempts", s.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter,
// capped at maxDelay. A Retry-After on the error takes precedence; ok is
// false when it exceeds maxDelay.
func (s *RetrySearcher) backoffDelay(attempt int, err error) (time.Duration, bool) {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter, httpErr.RetryAfter <= maxDelay
	}

	delay := s.baseDelay
	for i := 1; i < attempt && delay < maxDelay; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
	return min(delay, maxDelay), true
}

// isRetryable returns true if the error represents a transient failure worth retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation: never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 {
			return true
		}
		if httpErr.StatusCode >= 500 {
			return true
		}
		// 4xx (not 429): not retryable.
		return false
	}

	// Non-HTTP errors (network, DNS, etc.): retryable.
	return true
}
