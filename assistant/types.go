package assistant

import "github.com/hireloop/concierge/domain"

// Run represents one execution attempt of a conversational turn.
type Run struct {
	ID             string           `json:"id"`
	SessionID      string           `json:"thread_id"`
	Status         domain.RunStatus `json:"status"`
	RequiredAction *RequiredAction  `json:"required_action,omitempty"`
}

// ToolCalls returns the pending tool-call batch, or nil when the run does not
// require action.
func (r *Run) ToolCalls() []ToolCallRequest {
	if r == nil || r.RequiredAction == nil || r.RequiredAction.SubmitToolOutputs == nil {
		return nil
	}
	return r.RequiredAction.SubmitToolOutputs.ToolCalls
}

// RequiredAction carries the tool calls a run is blocked on.
type RequiredAction struct {
	Type              string             `json:"type"`
	SubmitToolOutputs *SubmitToolOutputs `json:"submit_tool_outputs,omitempty"`
}

// SubmitToolOutputs lists the tool calls awaiting outputs.
type SubmitToolOutputs struct {
	ToolCalls []ToolCallRequest `json:"tool_calls"`
}

// ToolCallRequest is a single pending tool invocation. Arguments are opaque
// and untrusted until the dispatcher parses them.
type ToolCallRequest struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction names the requested tool and carries its raw arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolOutput pairs a tool-call id with its serialized result.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// Message is one entry in a session's message list.
type Message struct {
	ID      string         `json:"id"`
	RunID   string         `json:"run_id,omitempty"`
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// Text returns the first textual content block, or "" when the message
// carries no text.
func (m Message) Text() string {
	for _, block := range m.Content {
		if block.Type == "text" && block.Text != nil {
			return block.Text.Value
		}
	}
	return ""
}

// ContentBlock is a typed fragment of message content.
type ContentBlock struct {
	Type string     `json:"type"`
	Text *TextValue `json:"text,omitempty"`
}

// TextValue is the textual payload of a content block.
type TextValue struct {
	Value string `json:"value"`
}
