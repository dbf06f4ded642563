package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/careerlens/internal/model"
)

func TestSearchJobs_NormalizesListings(t *testing.T) {
	payload := `{"linkedin": [
		{"title": "Backend Engineer", "companyName": "Acme", "location": "Istanbul", "link": "https://example.com/1"},
		{"title": "Data Analyst", "company": "Beta", "url": "https://example.com/2"},
		{"title": "Python Developer", "jobUrl": "https://example.com/3"},
		{"title": "SRE", "applyUrl": "https://example.com/4"},
		{"title": "   ", "companyName": "Ghost"}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), discardLogger())
	jobs, err := c.SearchJobs(context.Background(), "Backend Engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("expected 4 listings (untitled dropped), got %d", len(jobs))
	}

	want := []model.JobListing{
		{Title: "Backend Engineer", CompanyName: "Acme", Location: "Istanbul", ApplyURL: "https://example.com/1"},
		{Title: "Data Analyst", CompanyName: "Beta", ApplyURL: "https://example.com/2"},
		{Title: "Python Developer", ApplyURL: "https://example.com/3"},
		{Title: "SRE", ApplyURL: "https://example.com/4"},
	}
	for i := range want {
		if jobs[i] != want[i] {
			t.Errorf("jobs[%d] = %+v, want %+v", i, jobs[i], want[i])
		}
	}
}

func TestSearchJobs_LinkTakesPrecedence(t *testing.T) {
	l, ok := normalizeListing(rawListing{
		Title:    "Engineer",
		Link:     "https://example.com/link",
		URL:      "https://example.com/url",
		ApplyURL: "https://example.com/apply",
	})
	if !ok {
		t.Fatal("expected listing to be kept")
	}
	if l.ApplyURL != "https://example.com/link" {
		t.Errorf("ApplyURL = %q, want link field", l.ApplyURL)
	}
}

func TestSearchJobs_QueryEncoding(t *testing.T) {
	var gotKeywords, gotLocation, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKeywords = r.URL.Query().Get("keywords")
		gotLocation = r.URL.Query().Get("location")
		w.Write([]byte(`{"linkedin": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), discardLogger())
	c.SetLocation("Remote")
	if _, err := c.SearchJobs(context.Background(), "Backend Engineer, C++ & Go"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/fetch-jobs" {
		t.Errorf("path = %q, want /fetch-jobs", gotPath)
	}
	if gotKeywords != "Backend Engineer, C++ & Go" {
		t.Errorf("keywords = %q", gotKeywords)
	}
	if gotLocation != "Remote" {
		t.Errorf("location = %q, want Remote", gotLocation)
	}
}

func TestSearchJobs_OmitsEmptyLocation(t *testing.T) {
	hasLocation := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasLocation = r.URL.Query()["location"]
		w.Write([]byte(`{"linkedin": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), discardLogger())
	if _, err := c.SearchJobs(context.Background(), "Go"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasLocation {
		t.Error("location param should be omitted when unset")
	}
}

func TestSearchJobs_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), discardLogger())
	_, err := c.SearchJobs(context.Background(), "Go")
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", httpErr.StatusCode)
	}
	if httpErr.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", httpErr.RetryAfter)
	}
}

func TestSearchJobs_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not valid json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), discardLogger())
	if _, err := c.SearchJobs(context.Background(), "Go"); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": "AI Job Recommender API is running"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), discardLogger())
	msg, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "AI Job Recommender API is running" {
		t.Errorf("message = %q", msg)
	}
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("", http.DefaultClient, discardLogger())
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
}
