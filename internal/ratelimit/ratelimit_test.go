package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/amishk599/careerlens/internal/model"
)

func TestEndpointRateLimiter_FirstCallImmediate(t *testing.T) {
	limiter := NewEndpointRateLimiter(time.Second)

	start := time.Now()
	if err := limiter.Wait(context.Background(), EndpointJobs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first call should be immediate, took %v", elapsed)
	}
}

func TestEndpointRateLimiter_SecondCallWaits(t *testing.T) {
	limiter := NewEndpointRateLimiter(100 * time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx, EndpointJobs); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, EndpointJobs); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
}

func TestEndpointRateLimiter_DifferentEndpointsIndependent(t *testing.T) {
	limiter := NewEndpointRateLimiter(time.Second)
	ctx := context.Background()

	if err := limiter.Wait(ctx, EndpointJobs); err != nil {
		t.Fatalf("jobs wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, EndpointAnalyze); err != nil {
		t.Fatalf("analyze wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("different endpoint should not wait, took %v", elapsed)
	}
}

func TestEndpointRateLimiter_ZeroDelayNeverBlocks(t *testing.T) {
	limiter := NewEndpointRateLimiter(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := limiter.Wait(ctx, EndpointJobs); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("zero delay should not block, took %v", elapsed)
	}
}

func TestEndpointRateLimiter_RespectsContextCancellation(t *testing.T) {
	limiter := NewEndpointRateLimiter(5 * time.Second)

	if err := limiter.Wait(context.Background(), EndpointJobs); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx, EndpointJobs); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
}

type recordingSearcher struct {
	called bool
}

func (s *recordingSearcher) SearchJobs(_ context.Context, _ string) ([]model.JobListing, error) {
	s.called = true
	return nil, nil
}

type recordingAnalyzer struct {
	called bool
}

func (a *recordingAnalyzer) AnalyzeResume(_ context.Context, _ model.ResumeFile, _ func(model.StepEvent)) (*model.AnalysisResult, error) {
	a.called = true
	return &model.AnalysisResult{}, nil
}

func TestRateLimitedSearcher_WaitsBeforeDelegating(t *testing.T) {
	limiter := NewEndpointRateLimiter(100 * time.Millisecond)
	inner := &recordingSearcher{}
	searcher := NewRateLimitedSearcher(inner, limiter)
	ctx := context.Background()

	if _, err := searcher.SearchJobs(ctx, "Go"); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if !inner.called {
		t.Fatal("inner searcher was not called on first search")
	}

	inner.called = false

	start := time.Now()
	if _, err := searcher.SearchJobs(ctx, "Go"); err != nil {
		t.Fatalf("second search: %v", err)
	}
	elapsed := time.Since(start)

	if !inner.called {
		t.Fatal("inner searcher was not called on second search")
	}
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait on second search, got %v", elapsed)
	}
}

func TestRateLimitedAnalyzer_CancelledContextSkipsInner(t *testing.T) {
	limiter := NewEndpointRateLimiter(5 * time.Second)
	inner := &recordingAnalyzer{}
	analyzer := NewRateLimitedAnalyzer(inner, limiter)

	if _, err := analyzer.AnalyzeResume(context.Background(), model.ResumeFile{}, nil); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	inner.called = false

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := analyzer.AnalyzeResume(ctx, model.ResumeFile{}, nil); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
	if inner.called {
		t.Fatal("inner analyzer should not run when the wait is cancelled")
	}
}
