// Package domain defines the core domain models for the concierge.
package domain

// RunStatus represents the status of an assistant run.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusExpired        RunStatus = "expired"
)

// TerminalFailure reports whether the status ends a run without a usable answer.
func (s RunStatus) TerminalFailure() bool {
	switch s {
	case RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	}
	return false
}

// ToolKind enumerates the tools the assistant may request. Dispatch is keyed
// on this closed set, so an unknown tool name is always a dispatch error.
type ToolKind string

const (
	ToolFetchCandidates ToolKind = "fetchCandidates"
	ToolSemanticSearch  ToolKind = "fetchCandidatesFromSemantics"
)
