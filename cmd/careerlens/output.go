package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/amishk599/careerlens/internal/model"
)

type listingJSON struct {
	Title    string `json:"title"`
	Company  string `json:"company,omitempty"`
	Location string `json:"location,omitempty"`
	URL      string `json:"url,omitempty"`
}

type jobsOutput struct {
	Query    string        `json:"query"`
	Listings []listingJSON `json:"listings"`
	Matched  []listingJSON `json:"matched,omitempty"`
}

type analyzeOutput struct {
	Session  string                `json:"session"`
	File     string                `json:"file"`
	Analysis *model.AnalysisResult `json:"analysis"`
	Jobs     *jobsOutput           `json:"jobs,omitempty"`
}

func toListingsJSON(listings []model.JobListing) []listingJSON {
	out := make([]listingJSON, 0, len(listings))
	for _, l := range listings {
		out = append(out, listingJSON{
			Title:    l.Title,
			Company:  l.CompanyName,
			Location: l.Location,
			URL:      l.ApplyURL,
		})
	}
	return out
}

// newJobsJSON includes the matched subset only when a filter is configured.
func newJobsJSON(res *model.JobsResult, matched []model.JobListing, filtered bool) *jobsOutput {
	if res == nil {
		return nil
	}
	j := &jobsOutput{Query: res.Query, Listings: toListingsJSON(res.Listings)}
	if filtered {
		j.Matched = toListingsJSON(matched)
	}
	return j
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printAnalysis(w io.Writer, res *model.AnalysisResult) {
	printSection(w, "Executive Summary", res.Summary)
	printSection(w, "Identified Gaps", res.Gaps)
	printSection(w, "Strategic Roadmap", res.Roadmap)
	printSection(w, "Job Keywords", strings.Join(res.Keywords, ", "))
}

func printSection(w io.Writer, title, body string) {
	fmt.Fprintf(w, "\n== %s ==\n", title)
	if strings.TrimSpace(body) == "" {
		fmt.Fprintln(w, "(none)")
		return
	}
	fmt.Fprintln(w, strings.TrimSpace(body))
}

func printListings(w io.Writer, res *model.JobsResult, listings []model.JobListing) {
	fmt.Fprintf(w, "\n== Jobs for %q (%d) ==\n", res.Query, len(listings))
	if len(listings) == 0 {
		fmt.Fprintln(w, "No job listings found.")
		return
	}
	for i, l := range listings {
		company := l.CompanyName
		if company == "" {
			company = "Unknown company"
		}
		location := l.Location
		if location == "" {
			location = "Not specified"
		}
		fmt.Fprintf(w, "%3d. %s\n     %s · %s\n", i+1, l.Title, company, location)
		if l.ApplyURL != "" {
			fmt.Fprintf(w, "     %s\n", l.ApplyURL)
		}
	}
}
