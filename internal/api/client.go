// Package api talks to the resume-analysis and job-search HTTP service.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/amishk599/careerlens/internal/model"
)

// DefaultBaseURL is used when neither config nor environment names a service.
const DefaultBaseURL = "http://localhost:8000"

var (
	_ model.ResumeAnalyzer = (*Client)(nil)
	_ model.JobSearcher    = (*Client)(nil)
)

// Client is the service-interface adapter. It normalizes wire payloads into
// the model types before they reach the session controller.
type Client struct {
	baseURL   string
	location  string
	streaming bool
	client    *http.Client
	logger    *slog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, client *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		streaming: true,
		client:    client,
		logger:    logger,
	}
}

// SetStreaming controls whether analyses ask for streamed progress. With
// streaming off only the final result is requested.
func (c *Client) SetStreaming(on bool) {
	c.streaming = on
}

// SetLocation sets the location sent with job searches. Empty lets the
// service apply its own default.
func (c *Client) SetLocation(location string) {
	c.location = location
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorDetail is the error body shape returned by the service.
type errorDetail struct {
	Detail string `json:"detail"`
}

// statusError builds an HTTPError for a non-2xx response, including the
// service's detail message when present.
func statusError(resp *http.Response, op string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	msg := fmt.Sprintf("%s: unexpected status %d", op, resp.StatusCode)
	var detail errorDetail
	if json.Unmarshal(body, &detail) == nil && detail.Detail != "" {
		msg += ": " + detail.Detail
	}

	return &model.HTTPError{
		StatusCode: resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		Err:        errors.New(msg),
	}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
