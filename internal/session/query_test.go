package session

import "testing"

func TestSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		n        int
		want     string
	}{
		{"takes first three in order", []string{"Backend Engineer", "Data Analyst", "Python", "SQL"}, 3, "Backend Engineer, Data Analyst, Python"},
		{"fewer than limit", []string{"Go", "Rust"}, 3, "Go, Rust"},
		{"single keyword", []string{"SRE"}, 3, "SRE"},
		{"empty keywords", nil, 3, ""},
		{"non-positive limit uses default", []string{"a", "b", "c", "d"}, 0, "a, b, c"},
		{"custom limit", []string{"a", "b", "c", "d"}, 1, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SearchQuery(tt.keywords, tt.n); got != tt.want {
				t.Errorf("SearchQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
