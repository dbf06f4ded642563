package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/careerlens/internal/model"
)

// Endpoint keys shared by the decorators below.
const (
	EndpointAnalyze = "analyze-resume"
	EndpointJobs    = "fetch-jobs"
)

// EndpointRateLimiter enforces a minimum delay between requests to the same
// service endpoint.
type EndpointRateLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: endpoint
	minDelay time.Duration
}

// NewEndpointRateLimiter creates a limiter that enforces minDelay between
// consecutive requests to the same endpoint. A zero delay never blocks.
func NewEndpointRateLimiter(minDelay time.Duration) *EndpointRateLimiter {
	return &EndpointRateLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to endpoint.
// Returns an error if the context is cancelled while waiting.
func (r *EndpointRateLimiter) Wait(ctx context.Context, endpoint string) error {
	r.mu.Lock()
	last, ok := r.lastCall[endpoint]
	now := time.Now()

	if !ok || now.Sub(last) >= r.minDelay {
		r.lastCall[endpoint] = now
		r.mu.Unlock()
		return nil
	}

	remaining := r.minDelay - now.Sub(last)
	// Reserve the slot so concurrent callers queue behind this one.
	r.lastCall[endpoint] = now.Add(remaining)
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", endpoint, ctx.Err())
	case <-time.After(remaining):
	}
	return nil
}

// RateLimitedSearcher is a decorator that waits for the limiter before
// delegating to the wrapped JobSearcher.
type RateLimitedSearcher struct {
	inner   model.JobSearcher
	limiter *EndpointRateLimiter
}

// NewRateLimitedSearcher wraps a JobSearcher with endpoint-level rate limiting.
func NewRateLimitedSearcher(inner model.JobSearcher, limiter *EndpointRateLimiter) *RateLimitedSearcher {
	return &RateLimitedSearcher{inner: inner, limiter: limiter}
}

// SearchJobs waits for the limiter, then delegates.
func (s *RateLimitedSearcher) SearchJobs(ctx context.Context, query string) ([]model.JobListing, error) {
	if err := s.limiter.Wait(ctx, EndpointJobs); err != nil {
		return nil, err
	}
	return s.inner.SearchJobs(ctx, query)
}

// RateLimitedAnalyzer is a decorator that waits for the limiter before
// delegating to the wrapped ResumeAnalyzer.
type RateLimitedAnalyzer struct {
	inner   model.ResumeAnalyzer
	limiter *EndpointRateLimiter
}

// NewRateLimitedAnalyzer wraps a ResumeAnalyzer with endpoint-level rate limiting.
func NewRateLimitedAnalyzer(inner model.ResumeAnalyzer, limiter *EndpointRateLimiter) *RateLimitedAnalyzer {
	return &RateLimitedAnalyzer{inner: inner, limiter: limiter}
}

// AnalyzeResume waits for the limiter, then delegates.
func (a *RateLimitedAnalyzer) AnalyzeResume(ctx context.Context, file model.ResumeFile, onEvent func(model.StepEvent)) (*model.AnalysisResult, error) {
	if err := a.limiter.Wait(ctx, EndpointAnalyze); err != nil {
		return nil, err
	}
	return a.inner.AnalyzeResume(ctx, file, onEvent)
}
