package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type healthResponse struct {
	Message string `json:"message"`
}

// Ping calls the service root and returns its status message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "", fmt.Errorf("ping %s: %w", c.baseURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ping %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", statusError(resp, "ping "+c.baseURL)
	}

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("ping %s: %w", c.baseURL, err)
	}
	return body.Message, nil
}
