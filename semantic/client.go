// Package semantic provides the client for the external semantic-search
// ranking service.
package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client sends free-text queries to the ranking endpoint. One request, no
// retries; failures surface to the caller as errors.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new semantic-search client.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{},
	}
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// Search forwards the query and returns the service's ranked records
// verbatim.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]json.RawMessage, error) {
	buf, err := json.Marshal(searchRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("semantic search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("semantic service returned %d: %s", resp.StatusCode, string(body))
	}

	var results []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return results, nil
}
