package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hireloop/concierge/domain"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key")
}

func TestCreateRun(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/threads/thread_1/runs", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		assert.Equal(t, "asst_1", body["assistant_id"])

		json.NewEncoder(w).Encode(map[string]string{
			"id":        "run_1",
			"thread_id": "thread_1",
			"status":    "in_progress",
		})
	})

	run, err := c.CreateRun(context.Background(), "thread_1", "asst_1")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	assert.Equal(t, "run_1", run.ID)
	assert.Equal(t, domain.RunStatusInProgress, run.Status)
}

func TestGetRunRequiresAction(t *testing.T) {
	const payload = `{
		"id": "run_1",
		"thread_id": "thread_1",
		"status": "requires_action",
		"required_action": {
			"type": "submit_tool_outputs",
			"submit_tool_outputs": {
				"tool_calls": [
					{"id": "tc_1", "type": "function",
					 "function": {"name": "fetchCandidates", "arguments": "{\"budget\": 50000}"}}
				]
			}
		}
	}`
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/threads/thread_1/runs/run_1", r.URL.Path)
		w.Write([]byte(payload))
	})

	run, err := c.GetRun(context.Background(), "thread_1", "run_1")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	assert.Equal(t, domain.RunStatusRequiresAction, run.Status)

	calls := run.ToolCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(calls))
	}
	assert.Equal(t, "tc_1", calls[0].ID)
	assert.Equal(t, "fetchCandidates", calls[0].Function.Name)
	assert.JSONEq(t, `{"budget": 50000}`, calls[0].Function.Arguments)
}

func TestSubmitToolOutputs(t *testing.T) {
	var got struct {
		ToolOutputs []ToolOutput `json:"tool_outputs"`
	}
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/thread_1/runs/run_1/submit_tool_outputs", r.URL.Path)
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{}`))
	})

	outputs := []ToolOutput{{ToolCallID: "tc_1", Output: `[]`}}
	if err := c.SubmitToolOutputs(context.Background(), "thread_1", "run_1", outputs); err != nil {
		t.Fatalf("SubmitToolOutputs failed: %v", err)
	}
	assert.Equal(t, outputs, got.ToolOutputs)
}

func TestListMessagesText(t *testing.T) {
	const payload = `{
		"data": [
			{"id": "msg_2", "run_id": "run_1", "role": "assistant",
			 "content": [{"type": "text", "text": {"value": "The answer."}}]},
			{"id": "msg_1", "run_id": "run_1", "role": "user",
			 "content": [{"type": "text", "text": {"value": "The question?"}}]}
		]
	}`
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/thread_1/messages", r.URL.Path)
		w.Write([]byte(payload))
	})

	messages, err := c.ListMessages(context.Background(), "thread_1")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	assert.Equal(t, "The answer.", messages[0].Text())
	assert.Equal(t, "assistant", messages[0].Role)
}

func TestServerErrorSurfaces(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := c.CreateSession(context.Background())
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	assert.Contains(t, err.Error(), "429")
}

func TestMessageTextSkipsNonText(t *testing.T) {
	msg := Message{
		Content: []ContentBlock{
			{Type: "image_file"},
			{Type: "text", Text: &TextValue{Value: "hello"}},
		},
	}
	assert.Equal(t, "hello", msg.Text())
	assert.Equal(t, "", Message{}.Text())
}
