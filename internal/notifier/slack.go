package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/careerlens/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// maxListingsPerMessage keeps each payload under Slack's 50-block limit.
const maxListingsPerMessage = 10

// Header text is capped by Slack at 150 characters.
const maxHeaderLen = 150

// SlackNotifier sends notices to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	pause      time.Duration // between consecutive messages
}

// NewSlackNotifier returns a notifier that posts notices to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		pause:      500 * time.Millisecond,
	}
}

// Notify sends the notice using Block Kit. Listings are split across messages
// of at most maxListingsPerMessage each; the first message carries the header.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(notice model.Notice) error {
	payloads := buildPayloads(notice)
	if len(payloads) == 0 {
		return nil
	}

	failures := 0
	for i, p := range payloads {
		if i > 0 && s.pause > 0 {
			time.Sleep(s.pause)
		}
		if err := s.send(p); err != nil {
			s.logger.Error("slack notification failed", "part", i+1, "of", len(payloads), "error", err)
			failures++
		}
	}

	if failures == len(payloads) {
		return fmt.Errorf("all %d slack messages failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", len(payloads)-failures, "failed", failures)
	return nil
}

func (s *SlackNotifier) send(payload slackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text,omitempty"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style,omitempty"`
}

// SendTestMessage sends a sample notice to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	return n.Notify(model.Notice{
		Level:   model.NoticeInfo,
		Message: "CareerLens test notification",
		Listings: []model.JobListing{{
			Title:       "Integration Verified",
			CompanyName: "CareerLens",
			Location:    "Everywhere",
			ApplyURL:    "https://www.linkedin.com/jobs/",
		}},
	})
}

func levelIcon(l model.NoticeLevel) string {
	switch l {
	case model.NoticeSuccess:
		return "✅ "
	case model.NoticeError:
		return "⚠️ "
	default:
		return "📣 "
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func listingBlocks(j model.JobListing) []slackBlock {
	company := j.CompanyName
	if company == "" {
		company = "Unknown company"
	}
	location := j.Location
	if location == "" {
		location = "Not specified"
	}

	blocks := []slackBlock{{
		Type: "section",
		Text: &slackText{Type: "mrkdwn", Text: "*" + j.Title + "*"},
		Fields: []slackText{
			{Type: "mrkdwn", Text: "*Company:*\n" + company},
			{Type: "mrkdwn", Text: "*Location:*\n" + location},
		},
	}}
	if j.ApplyURL != "" {
		blocks = append(blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{{
				Type:  "button",
				Text:  slackText{Type: "plain_text", Text: "Apply Now"},
				URL:   j.ApplyURL,
				Style: "primary",
			}},
		})
	}
	return blocks
}

func buildPayloads(n model.Notice) []slackPayload {
	if n.Message == "" && len(n.Listings) == 0 {
		return nil
	}

	var payloads []slackPayload
	listings := n.Listings
	first := true
	for first || len(listings) > 0 {
		var p slackPayload
		if first && n.Message != "" {
			header := truncate(levelIcon(n.Level)+n.Message, maxHeaderLen)
			p.Text = n.Message
			p.Blocks = append(p.Blocks, slackBlock{
				Type: "header",
				Text: &slackText{Type: "plain_text", Text: header},
			})
		}
		first = false

		chunk := listings
		if len(chunk) > maxListingsPerMessage {
			chunk = chunk[:maxListingsPerMessage]
		}
		listings = listings[len(chunk):]
		for _, j := range chunk {
			p.Blocks = append(p.Blocks, listingBlocks(j)...)
		}
		if len(chunk) > 0 {
			p.Blocks = append(p.Blocks, slackBlock{Type: "divider"})
			if p.Text == "" {
				p.Text = fmt.Sprintf("%d job listings", len(chunk))
			}
		}
		payloads = append(payloads, p)
	}
	return payloads
}
