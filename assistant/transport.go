// Package assistant provides the narrow transport to the hosted
// conversational-assistant service: sessions, messages, runs and tool
// outputs.
package assistant

import "context"

// Transport is the set of operations the orchestrator needs from the
// assistant service. Implementations must return messages newest-first from
// ListMessages.
type Transport interface {
	CreateSession(ctx context.Context) (string, error)
	AddMessage(ctx context.Context, sessionID, role, content string) error
	CreateRun(ctx context.Context, sessionID, assistantID string) (*Run, error)
	GetRun(ctx context.Context, sessionID, runID string) (*Run, error)
	SubmitToolOutputs(ctx context.Context, sessionID, runID string, outputs []ToolOutput) error
	ListMessages(ctx context.Context, sessionID string) ([]Message, error)
	CancelRun(ctx context.Context, sessionID, runID string) error
}
