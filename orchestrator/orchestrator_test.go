package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/hireloop/concierge/assistant"
	"github.com/hireloop/concierge/domain"
	"github.com/hireloop/concierge/policy"
	"github.com/hireloop/concierge/tools"
)

// fakeTransport scripts a run's status sequence: CreateRun returns the first
// status, each GetRun consumes the next one.
type fakeTransport struct {
	statuses  []domain.RunStatus
	action    *assistant.RequiredAction
	messages  []assistant.Message
	getErr    error
	polls     int
	submitted [][]assistant.ToolOutput
	cancelled []string
}

func (f *fakeTransport) CreateSession(context.Context) (string, error) { return "thread_1", nil }

func (f *fakeTransport) AddMessage(context.Context, string, string, string) error { return nil }

func (f *fakeTransport) CreateRun(context.Context, string, string) (*assistant.Run, error) {
	return f.run(f.statuses[0]), nil
}

func (f *fakeTransport) GetRun(context.Context, string, string) (*assistant.Run, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.polls++
	return f.run(f.statuses[f.polls]), nil
}

func (f *fakeTransport) run(status domain.RunStatus) *assistant.Run {
	r := &assistant.Run{ID: "run_1", SessionID: "thread_1", Status: status}
	if status == domain.RunStatusRequiresAction {
		r.RequiredAction = f.action
	}
	return r
}

func (f *fakeTransport) SubmitToolOutputs(_ context.Context, _, _ string, outputs []assistant.ToolOutput) error {
	f.submitted = append(f.submitted, outputs)
	return nil
}

func (f *fakeTransport) ListMessages(context.Context, string) ([]assistant.Message, error) {
	return f.messages, nil
}

func (f *fakeTransport) CancelRun(_ context.Context, _, runID string) error {
	f.cancelled = append(f.cancelled, runID)
	return nil
}

type echoHandler struct{}

func (echoHandler) Kind() domain.ToolKind { return domain.ToolFetchCandidates }

func (echoHandler) Invoke(context.Context, json.RawMessage) (any, error) {
	return []string{"candidate"}, nil
}

func textMessage(runID, role, text string) assistant.Message {
	return assistant.Message{
		ID:    "msg_" + runID,
		RunID: runID,
		Role:  role,
		Content: []assistant.ContentBlock{
			{Type: "text", Text: &assistant.TextValue{Value: text}},
		},
	}
}

func newTestOrchestrator(t *testing.T, transport assistant.Transport, maxPolls int) *Orchestrator {
	t.Helper()
	registry, err := tools.NewRegistry(echoHandler{})
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	gate, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	dispatcher := tools.NewDispatcher(registry, gate, zap.NewNop())
	return New(transport, dispatcher, "asst_1", time.Millisecond, maxPolls, zap.NewNop())
}

func TestRunTurnWithOneToolRound(t *testing.T) {
	transport := &fakeTransport{
		statuses: []domain.RunStatus{
			domain.RunStatusInProgress,
			domain.RunStatusRequiresAction,
			domain.RunStatusInProgress,
			domain.RunStatusCompleted,
		},
		action: &assistant.RequiredAction{
			Type: "submit_tool_outputs",
			SubmitToolOutputs: &assistant.SubmitToolOutputs{
				ToolCalls: []assistant.ToolCallRequest{
					{ID: "tc_1", Type: "function", Function: assistant.ToolCallFunction{
						Name:      string(domain.ToolFetchCandidates),
						Arguments: "{}",
					}},
				},
			},
		},
		messages: []assistant.Message{
			textMessage("run_1", "assistant", "Here are your candidates."),
			textMessage("run_0", "assistant", "An older answer."),
		},
	}
	o := newTestOrchestrator(t, transport, 10)

	reply := o.RunTurn(context.Background(), "thread_1", "find me a react dev")

	assert.Equal(t, "Here are your candidates.", reply)
	if len(transport.submitted) != 1 {
		t.Fatalf("expected exactly one tool-output submission, got %d", len(transport.submitted))
	}
	if len(transport.submitted[0]) != 1 || transport.submitted[0][0].ToolCallID != "tc_1" {
		t.Fatalf("unexpected submission: %+v", transport.submitted[0])
	}
	assert.Empty(t, transport.cancelled)
}

func TestRunTurnExpiredStopsPolling(t *testing.T) {
	transport := &fakeTransport{
		statuses: []domain.RunStatus{
			domain.RunStatusInProgress,
			domain.RunStatusExpired,
		},
	}
	o := newTestOrchestrator(t, transport, 10)

	reply := o.RunTurn(context.Background(), "thread_1", "hello")

	assert.Equal(t, FallbackReply, reply)
	if transport.polls != 1 {
		t.Fatalf("expected polling to stop after terminal status, polled %d times", transport.polls)
	}
}

func TestRunTurnTimesOut(t *testing.T) {
	transport := &fakeTransport{
		statuses: []domain.RunStatus{
			domain.RunStatusInProgress,
			domain.RunStatusInProgress,
			domain.RunStatusInProgress,
			domain.RunStatusInProgress,
		},
	}
	o := newTestOrchestrator(t, transport, 3)

	reply := o.RunTurn(context.Background(), "thread_1", "hello")

	assert.Equal(t, FallbackReply, reply)
	assert.Equal(t, []string{"run_1"}, transport.cancelled)
}

func TestRunTurnTransportFaultYieldsErrorReply(t *testing.T) {
	transport := &fakeTransport{
		statuses: []domain.RunStatus{domain.RunStatusInProgress},
		getErr:   fmt.Errorf("connection reset"),
	}
	o := newTestOrchestrator(t, transport, 10)

	reply := o.RunTurn(context.Background(), "thread_1", "hello")

	assert.Equal(t, ErrorReply, reply)
	assert.Equal(t, []string{"run_1"}, transport.cancelled)
}

func TestRunTurnDispatchErrorYieldsErrorReply(t *testing.T) {
	transport := &fakeTransport{
		statuses: []domain.RunStatus{
			domain.RunStatusInProgress,
			domain.RunStatusRequiresAction,
		},
		action: &assistant.RequiredAction{
			Type: "submit_tool_outputs",
			SubmitToolOutputs: &assistant.SubmitToolOutputs{
				ToolCalls: []assistant.ToolCallRequest{
					{ID: "tc_1", Type: "function", Function: assistant.ToolCallFunction{
						Name:      "dropTables",
						Arguments: "{}",
					}},
				},
			},
		},
	}
	o := newTestOrchestrator(t, transport, 10)

	reply := o.RunTurn(context.Background(), "thread_1", "hello")

	assert.Equal(t, ErrorReply, reply)
	assert.Empty(t, transport.submitted)
	assert.Equal(t, []string{"run_1"}, transport.cancelled)
}

func TestRunTurnCompletedWithoutMessage(t *testing.T) {
	transport := &fakeTransport{
		statuses: []domain.RunStatus{
			domain.RunStatusInProgress,
			domain.RunStatusCompleted,
		},
		messages: []assistant.Message{
			textMessage("run_0", "assistant", "A stale answer."),
		},
	}
	o := newTestOrchestrator(t, transport, 10)

	reply := o.RunTurn(context.Background(), "thread_1", "hello")

	assert.Equal(t, FallbackReply, reply)
}
