package model

import (
	"context"
	"strings"
	"time"
)

// JobListing is one job returned by the job search. Source-specific field
// names are normalized by the API adapter before a listing is built.
type JobListing struct {
	Title       string
	CompanyName string // empty when the source omits it
	Location    string // empty when the source omits it
	ApplyURL    string // empty when the source omits it
}

// Key identifies a listing across searches for deduplication.
func (j JobListing) Key() string {
	if j.ApplyURL != "" {
		return j.ApplyURL
	}
	return strings.ToLower(j.Title + "|" + j.CompanyName + "|" + j.Location)
}

// JobsResult is the outcome of one job search.
type JobsResult struct {
	Query    string
	Listings []JobListing
}

// Clone returns a deep copy of the result.
func (r *JobsResult) Clone() *JobsResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Listings = append([]JobListing(nil), r.Listings...)
	return &c
}

// JobSearcher fetches job listings matching a keyword query.
type JobSearcher interface {
	SearchJobs(ctx context.Context, query string) ([]JobListing, error)
}

// ListingStore tracks which listings have been seen for deduplication, and
// which queries have completed their seeding run.
type ListingStore interface {
	HasSeen(key string) (bool, error)
	MarkSeen(key string) error
	Cleanup(olderThan time.Duration) error
	IsSeeded(query string) (bool, error)
	MarkSeeded(query string) error
}

// JobFilter decides whether a listing matches the user's criteria.
type JobFilter interface {
	Match(job JobListing) bool
}

// NoticeLevel classifies a transient notification.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a transient user-facing notification, optionally carrying listings.
type Notice struct {
	Level    NoticeLevel
	Message  string
	Listings []JobListing
}

// Notifier delivers notices to the user.
type Notifier interface {
	Notify(n Notice) error
}
