package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is an HTTP implementation of Transport against a hosted assistants
// API that exposes threads, runs and tool-output submission.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new assistant client. The http.Client's default
// timeout is kept; per-call deadlines come from the caller's context.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// CreateSession creates a new conversation thread and returns its id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/threads", struct{}{}, &resp); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return resp.ID, nil
}

// AddMessage appends a message to the session.
func (c *Client) AddMessage(ctx context.Context, sessionID, role, content string) error {
	body := map[string]string{
		"role":    role,
		"content": content,
	}
	path := fmt.Sprintf("/threads/%s/messages", sessionID)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("add message: %w", err)
	}
	return nil
}

// CreateRun starts a run against the named assistant configuration and
// returns its initial state.
func (c *Client) CreateRun(ctx context.Context, sessionID, assistantID string) (*Run, error) {
	body := map[string]string{
		"assistant_id": assistantID,
	}
	path := fmt.Sprintf("/threads/%s/runs", sessionID)
	var run Run
	if err := c.do(ctx, http.MethodPost, path, body, &run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return &run, nil
}

// GetRun fetches the current state of a run.
func (c *Client) GetRun(ctx context.Context, sessionID, runID string) (*Run, error) {
	path := fmt.Sprintf("/threads/%s/runs/%s", sessionID, runID)
	var run Run
	if err := c.do(ctx, http.MethodGet, path, nil, &run); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

// SubmitToolOutputs submits the full batch of tool outputs for a run.
func (c *Client) SubmitToolOutputs(ctx context.Context, sessionID, runID string, outputs []ToolOutput) error {
	body := map[string]any{
		"tool_outputs": outputs,
	}
	path := fmt.Sprintf("/threads/%s/runs/%s/submit_tool_outputs", sessionID, runID)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("submit tool outputs: %w", err)
	}
	return nil
}

// ListMessages returns the session's messages, newest first.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]Message, error) {
	path := fmt.Sprintf("/threads/%s/messages", sessionID)
	var resp struct {
		Data []Message `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return resp.Data, nil
}

// CancelRun requests cancellation of an in-flight run.
func (c *Client) CancelRun(ctx context.Context, sessionID, runID string) error {
	path := fmt.Sprintf("/threads/%s/runs/%s/cancel", sessionID, runID)
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, nil); err != nil {
		return fmt.Errorf("cancel run: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("assistant service returned %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
