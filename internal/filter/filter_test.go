package filter

import (
	"testing"

	"github.com/amishk599/careerlens/internal/model"
)

func listing(title, location string) model.JobListing {
	return model.JobListing{Title: title, Location: location}
}

func TestTitleAndLocationFilter_Match(t *testing.T) {
	tests := []struct {
		name             string
		titleKeywords    []string
		titleExcludes    []string
		locations        []string
		excludeLocations []string
		job              model.JobListing
		wantMatch        bool
	}{
		{
			name:          "matches both title and location",
			titleKeywords: []string{"backend engineer", "data analyst"},
			locations:     []string{"Istanbul", "Remote"},
			job:           listing("Senior Backend Engineer", "Istanbul, Türkiye"),
			wantMatch:     true,
		},
		{
			name:          "title match but location miss",
			titleKeywords: []string{"backend engineer"},
			locations:     []string{"Istanbul"},
			job:           listing("Backend Engineer", "Ankara, Türkiye"),
			wantMatch:     false,
		},
		{
			name:          "case insensitive matching",
			titleKeywords: []string{"PYTHON"},
			locations:     []string{"türkiye"},
			job:           listing("Python Developer", "Türkiye (Remote)"),
			wantMatch:     true,
		},
		{
			name:          "title exclude wins over include",
			titleKeywords: []string{"engineer"},
			titleExcludes: []string{"intern"},
			job:           listing("Engineer Intern", "Remote"),
			wantMatch:     false,
		},
		{
			name:             "location exclude rejects",
			excludeLocations: []string{"on-site"},
			job:              listing("Data Analyst", "Izmir (On-site)"),
			wantMatch:        false,
		},
		{
			name:             "missing location survives excludes",
			excludeLocations: []string{"on-site"},
			job:              listing("Data Analyst", ""),
			wantMatch:        true,
		},
		{
			name:      "missing location fails required locations",
			locations: []string{"Remote"},
			job:       listing("Data Analyst", ""),
			wantMatch: false,
		},
		{
			name:      "empty keyword lists pass all",
			job:       listing("Any Role", "Anywhere"),
			wantMatch: true,
		},
		{
			name:          "blank keywords are ignored",
			titleKeywords: []string{"  "},
			job:           listing("Any Role", "Anywhere"),
			wantMatch:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewTitleAndLocationFilter(tt.titleKeywords, tt.titleExcludes, tt.locations, tt.excludeLocations)
			if got := f.Match(tt.job); got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	f := NewTitleAndLocationFilter([]string{"engineer"}, nil, nil, nil)
	in := []model.JobListing{
		listing("Engineer A", ""),
		listing("Designer", ""),
		listing("Engineer B", ""),
	}

	got := Apply(f, in)
	if len(got) != 2 || got[0].Title != "Engineer A" || got[1].Title != "Engineer B" {
		t.Fatalf("Apply() = %v", got)
	}
}

func TestMatchAll(t *testing.T) {
	if !(MatchAll{}).Match(listing("", "")) {
		t.Fatal("MatchAll should accept every listing")
	}
}
