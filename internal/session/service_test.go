package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/amishk599/careerlens/internal/api"
	"github.com/amishk599/careerlens/internal/model"
)

// fakeService emulates the analysis service: a streamed /analyze-resume and
// a /fetch-jobs endpoint whose status code is configurable.
func fakeService(t *testing.T, jobsStatus int, jobsCalls *atomic.Int32, gotKeywords *atomic.Value) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze-resume", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(
			"data: {\"step\": \"parse\", \"status\": \"processing\"}\n\n" +
				"data: {\"step\": \"parse\", \"status\": \"complete\"}\n\n" +
				"data: {\"step\": \"summarize\", \"status\": \"processing\"}\n\n" +
				"data: {\"step\": \"summarize\", \"status\": \"complete\"}\n\n" +
				"data: {\"step\": \"done\", \"status\": \"complete\", \"data\": {\"summary\": \"...\", \"gaps\": \"...\", \"roadmap\": \"...\", \"keywords\": [\"Backend Engineer\", \"Data Analyst\", \"Python\", \"SQL\"]}}\n\n",
		))
	})
	mux.HandleFunc("/fetch-jobs", func(w http.ResponseWriter, r *http.Request) {
		jobsCalls.Add(1)
		gotKeywords.Store(r.URL.Query().Get("keywords"))
		if jobsStatus != http.StatusOK {
			w.WriteHeader(jobsStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"linkedin": [{"title": "Backend Engineer", "company": "Acme", "url": "https://example.com/job"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestController_EndToEndOverHTTP(t *testing.T) {
	var calls atomic.Int32
	var keywords atomic.Value
	srv := fakeService(t, http.StatusOK, &calls, &keywords)

	client := api.NewClient(srv.URL, srv.Client(), discardLogger())
	c := NewController(client, client, nil, discardLogger())

	c.SelectFile(pdf("resume.pdf"))
	result, err := c.StartAnalysis(context.Background())
	if err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}
	if len(result.Keywords) != 4 {
		t.Errorf("Keywords = %v", result.Keywords)
	}
	if got := c.Snapshot().Progress.CompletedSteps; !reflect.DeepEqual(got, []model.StepID{"parse", "summarize"}) {
		t.Errorf("CompletedSteps = %v", got)
	}

	jobs, err := c.FetchJobs(context.Background())
	if err != nil {
		t.Fatalf("FetchJobs: %v", err)
	}
	if got := keywords.Load().(string); got != "Backend Engineer, Data Analyst, Python" {
		t.Errorf("keywords param = %q", got)
	}
	if len(jobs.Listings) != 1 || jobs.Listings[0].CompanyName != "Acme" || jobs.Listings[0].ApplyURL != "https://example.com/job" {
		t.Errorf("Listings = %+v", jobs.Listings)
	}
}

func TestController_JobFetch500OverHTTP(t *testing.T) {
	var calls atomic.Int32
	var keywords atomic.Value
	srv := fakeService(t, http.StatusInternalServerError, &calls, &keywords)

	client := api.NewClient(srv.URL, srv.Client(), discardLogger())
	notifier := &recordingNotifier{}
	c := NewController(client, client, notifier, discardLogger())

	c.SelectFile(pdf("resume.pdf"))
	if _, err := c.StartAnalysis(context.Background()); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}

	_, err := c.FetchJobs(context.Background())
	if !errors.Is(err, model.ErrJobFetchFailed) {
		t.Fatalf("expected ErrJobFetchFailed, got %v", err)
	}

	snap := c.Snapshot()
	if snap.JobsResult != nil {
		t.Error("jobs result should stay nil")
	}
	if snap.FetchingJobs {
		t.Error("fetchingJobs should be false")
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 request, got %d", calls.Load())
	}
	if notifier.count(model.NoticeError) != 1 {
		t.Errorf("expected JobFetchFailed to be signaled once, got %d", notifier.count(model.NoticeError))
	}
}
