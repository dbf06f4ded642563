package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/poller"
)

// --- Mock implementations ---

type CountingSearcher struct {
	calls atomic.Int32
}

func (s *CountingSearcher) SearchJobs(_ context.Context, _ string) ([]model.JobListing, error) {
	s.calls.Add(1)
	return nil, nil
}

type ErrorSearcher struct {
	calls atomic.Int32
}

func (s *ErrorSearcher) SearchJobs(_ context.Context, _ string) ([]model.JobListing, error) {
	s.calls.Add(1)
	return nil, errors.New("search failed")
}

// OrderRecordingSearcher appends each query to recorder.order.
type OrderRecordingSearcher struct {
	recorder *orderRecorder
}

type orderRecorder struct {
	mu    sync.Mutex
	order []string
}

func (s *OrderRecordingSearcher) SearchJobs(_ context.Context, query string) ([]model.JobListing, error) {
	s.recorder.mu.Lock()
	s.recorder.order = append(s.recorder.order, query)
	s.recorder.mu.Unlock()
	return nil, nil
}

type NoOpStore struct {
	cleanups atomic.Int32
}

func (s *NoOpStore) HasSeen(_ string) (bool, error) { return false, nil }
func (s *NoOpStore) MarkSeen(_ string) error         { return nil }
func (s *NoOpStore) Cleanup(_ time.Duration) error {
	s.cleanups.Add(1)
	return nil
}
func (s *NoOpStore) IsSeeded(_ string) (bool, error) { return true, nil }
func (s *NoOpStore) MarkSeeded(_ string) error       { return nil }

type NoOpNotifier struct{}

func (n *NoOpNotifier) Notify(_ model.Notice) error { return nil }

type AcceptAllFilter struct{}

func (f *AcceptAllFilter) Match(_ model.JobListing) bool { return true }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makePoller(query string, searcher model.JobSearcher) *poller.JobsPoller {
	return poller.NewJobsPoller(query, searcher, &AcceptAllFilter{}, &NoOpStore{}, &NoOpNotifier{}, discardLogger())
}

func runFor(t *testing.T, s *Scheduler, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	time.Sleep(d)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

// --- Tests ---

func TestRun_CancelReturnsPromptly(t *testing.T) {
	p := makePoller("Go", &CountingSearcher{})
	s := NewScheduler([]*poller.JobsPoller{p}, time.Hour, time.Minute, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error on cancel, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not return within 2s after cancel")
	}
}

func TestRun_PollsEveryInterval(t *testing.T) {
	searcher := &CountingSearcher{}
	s := NewScheduler([]*poller.JobsPoller{makePoller("Go", searcher)}, 100*time.Millisecond, 0, discardLogger())

	// Allow time for at least two full passes (poll → sleep interval → poll).
	runFor(t, s, 250*time.Millisecond)

	if got := searcher.calls.Load(); got < 2 {
		t.Errorf("searcher calls = %d, want >= 2", got)
	}
}

func TestRun_OnePollerErrorOthersStillRun(t *testing.T) {
	errSearcher := &ErrorSearcher{}
	okSearcher := &CountingSearcher{}

	pollers := []*poller.JobsPoller{
		makePoller("failing", errSearcher),
		makePoller("healthy", okSearcher),
	}
	runFor(t, NewScheduler(pollers, time.Hour, 0, discardLogger()), 150*time.Millisecond)

	if got := errSearcher.calls.Load(); got < 1 {
		t.Errorf("error searcher calls = %d, want >= 1", got)
	}
	if got := okSearcher.calls.Load(); got < 1 {
		t.Errorf("healthy searcher calls = %d, want >= 1", got)
	}
}

func TestRun_PauseBetweenQueries(t *testing.T) {
	searcher := &CountingSearcher{}
	pollers := []*poller.JobsPoller{
		makePoller("Go", searcher),
		makePoller("Python", searcher),
	}
	s := NewScheduler(pollers, time.Hour, 200*time.Millisecond, discardLogger())

	runFor(t, s, 100*time.Millisecond)
	if got := searcher.calls.Load(); got != 1 {
		t.Errorf("searcher calls after 100ms = %d, want 1 (second query still paused)", got)
	}
}

func TestRun_OrderPreserved(t *testing.T) {
	rec := &orderRecorder{}
	searcher := &OrderRecordingSearcher{recorder: rec}
	pollers := []*poller.JobsPoller{
		makePoller("q1", searcher),
		makePoller("q2", searcher),
		makePoller("q3", searcher),
	}
	runFor(t, NewScheduler(pollers, time.Hour, 0, discardLogger()), 100*time.Millisecond)

	rec.mu.Lock()
	order := append([]string(nil), rec.order...)
	rec.mu.Unlock()

	want := []string{"q1", "q2", "q3"}
	if len(order) != len(want) {
		t.Fatalf("poll order length = %d, want %d (order: %v)", len(order), len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("poll order = %v, want %v", order, want)
			break
		}
	}
}

func TestRun_CleanupOncePerCycle(t *testing.T) {
	store := &NoOpStore{}
	s := NewScheduler([]*poller.JobsPoller{makePoller("Go", &CountingSearcher{})}, time.Hour, 0, discardLogger()).
		WithCleanup(store, 24*time.Hour)

	runFor(t, s, 100*time.Millisecond)
	if got := store.cleanups.Load(); got != 1 {
		t.Errorf("cleanups = %d, want 1", got)
	}
}
