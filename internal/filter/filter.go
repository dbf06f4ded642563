package filter

import (
	"strings"

	"github.com/amishk599/careerlens/internal/model"
)

// TitleAndLocationFilter narrows job listings by title and location keywords.
// Matching is case-insensitive substring. Empty include lists match all;
// exclude lists always win over includes.
type TitleAndLocationFilter struct {
	titleKeywords    []string
	titleExcludes    []string
	locations        []string
	excludeLocations []string
}

// NewTitleAndLocationFilter returns a filter that requires a title keyword
// match and a location keyword match, and rejects any excluded title or
// location keyword.
func NewTitleAndLocationFilter(titleKeywords, titleExcludes, locations, excludeLocations []string) *TitleAndLocationFilter {
	return &TitleAndLocationFilter{
		titleKeywords:    lowerAll(titleKeywords),
		titleExcludes:    lowerAll(titleExcludes),
		locations:        lowerAll(locations),
		excludeLocations: lowerAll(excludeLocations),
	}
}

// Match reports whether the listing passes every configured rule.
func (f *TitleAndLocationFilter) Match(job model.JobListing) bool {
	title := strings.ToLower(job.Title)
	location := strings.ToLower(job.Location)

	if containsAny(title, f.titleExcludes) {
		return false
	}
	if len(f.titleKeywords) > 0 && !containsAny(title, f.titleKeywords) {
		return false
	}

	// Listings with no location are kept unless locations are required.
	if location != "" && containsAny(location, f.excludeLocations) {
		return false
	}
	if len(f.locations) > 0 && !containsAny(location, f.locations) {
		return false
	}

	return true
}

// Apply returns the listings that match f, preserving order.
func Apply(f model.JobFilter, listings []model.JobListing) []model.JobListing {
	var out []model.JobListing
	for _, l := range listings {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// MatchAll is a filter that accepts every listing.
type MatchAll struct{}

func (MatchAll) Match(model.JobListing) bool { return true }

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
