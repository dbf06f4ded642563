package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/amishk599/careerlens/internal/model"
)

// rawListing is a job as returned by the scraper behind /fetch-jobs. Field
// names vary by source, so several aliases are accepted.
type rawListing struct {
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Link        string `json:"link"`
	URL         string `json:"url"`
	JobURL      string `json:"jobUrl"`
	ApplyURL    string `json:"applyUrl"`
}

// jobsResponse is the top-level /fetch-jobs response.
type jobsResponse struct {
	LinkedIn []rawListing `json:"linkedin"`
}

// SearchJobs queries /fetch-jobs and normalizes each listing into the
// canonical JobListing shape.
func (c *Client) SearchJobs(ctx context.Context, query string) ([]model.JobListing, error) {
	params := url.Values{}
	params.Set("keywords", query)
	if c.location != "" {
		params.Set("location", c.location)
	}
	endpoint := c.baseURL + "/fetch-jobs?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch jobs for %q: %w", query, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch jobs for %q: %w", query, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp, fmt.Sprintf("fetch jobs for %q", query))
	}

	var body jobsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fetch jobs for %q: %w", query, err)
	}

	listings := make([]model.JobListing, 0, len(body.LinkedIn))
	for _, rl := range body.LinkedIn {
		l, ok := normalizeListing(rl)
		if !ok {
			continue
		}
		listings = append(listings, l)
	}

	c.logger.Debug("fetched jobs", "query", query, "received", len(body.LinkedIn), "kept", len(listings))
	return listings, nil
}

// normalizeListing maps source aliases onto JobListing. Listings without a
// title are dropped.
func normalizeListing(rl rawListing) (model.JobListing, bool) {
	title := strings.TrimSpace(rl.Title)
	if title == "" {
		return model.JobListing{}, false
	}
	return model.JobListing{
		Title:       title,
		CompanyName: firstNonEmpty(rl.CompanyName, rl.Company),
		Location:    strings.TrimSpace(rl.Location),
		ApplyURL:    firstNonEmpty(rl.Link, rl.URL, rl.JobURL, rl.ApplyURL),
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
