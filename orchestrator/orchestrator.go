// Package orchestrator drives a single conversational turn: submit the user
// message, start a run, poll it, dispatch required tool calls and extract the
// final assistant reply.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/concierge/assistant"
	"github.com/hireloop/concierge/domain"
	"github.com/hireloop/concierge/tools"
)

// User-visible replies for unhappy paths. Internal causes are logged, never
// surfaced to the caller.
const (
	FallbackReply = "I am having trouble understanding the request"
	ErrorReply    = "Something went wrong on my end!!"
)

// Orchestrator runs conversational turns. Turns for different sessions are
// independent; within one turn polling is strictly sequential.
type Orchestrator struct {
	transport       assistant.Transport
	dispatcher      *tools.Dispatcher
	assistantID     string
	pollInterval    time.Duration
	maxPollAttempts int
	logger          *zap.Logger
}

// New creates an orchestrator bound to one assistant configuration.
func New(transport assistant.Transport, dispatcher *tools.Dispatcher, assistantID string, pollInterval time.Duration, maxPollAttempts int, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		transport:       transport,
		dispatcher:      dispatcher,
		assistantID:     assistantID,
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
		logger:          logger,
	}
}

// RunTurn executes one turn and always returns a user-visible reply. Any
// fault inside the turn is logged and degraded to a generic reply after a
// best-effort cancel of the in-flight run.
func (o *Orchestrator) RunTurn(ctx context.Context, sessionID, query string) string {
	reply, err := o.runTurn(ctx, sessionID, query)
	if err != nil {
		o.logger.Error("turn failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return ErrorReply
	}
	return reply
}

func (o *Orchestrator) runTurn(ctx context.Context, sessionID, query string) (reply string, err error) {
	if err := o.transport.AddMessage(ctx, sessionID, "user", query); err != nil {
		return "", fmt.Errorf("append message: %w", err)
	}

	run, err := o.transport.CreateRun(ctx, sessionID, o.assistantID)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	runID := run.ID

	// A failed turn leaves the run in flight on the session; cancel it so the
	// next turn is not rejected. Failure to cancel is ignored.
	defer func() {
		if err != nil {
			o.cancelRun(sessionID, runID)
		}
	}()

	status := run.Status
	for attempt := 0; status != domain.RunStatusCompleted; attempt++ {
		if attempt >= o.maxPollAttempts {
			o.logger.Warn("run timed out",
				zap.String("run_id", runID),
				zap.Int("attempts", attempt))
			o.cancelRun(sessionID, runID)
			return FallbackReply, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(o.pollInterval):
		}

		run, err = o.transport.GetRun(ctx, sessionID, runID)
		if err != nil {
			return "", fmt.Errorf("poll run: %w", err)
		}
		status = run.Status

		switch {
		case status == domain.RunStatusRequiresAction:
			calls := run.ToolCalls()
			if len(calls) == 0 {
				return "", fmt.Errorf("run %s requires action without tool calls", runID)
			}
			outputs, err := o.dispatcher.Dispatch(ctx, calls)
			if err != nil {
				return "", fmt.Errorf("dispatch tool calls: %w", err)
			}
			if err := o.transport.SubmitToolOutputs(ctx, sessionID, runID, outputs); err != nil {
				return "", fmt.Errorf("submit tool outputs: %w", err)
			}

		case status.TerminalFailure():
			o.logger.Warn("run ended without completion",
				zap.String("run_id", runID),
				zap.String("status", string(status)))
			return FallbackReply, nil
		}
	}

	messages, err := o.transport.ListMessages(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}
	for _, msg := range messages {
		if msg.RunID == runID && msg.Role == "assistant" {
			return msg.Text(), nil
		}
	}

	o.logger.Warn("run completed without an assistant message",
		zap.String("run_id", runID))
	return FallbackReply, nil
}

// cancelRun is best-effort; it runs on its own short deadline so a dead
// caller context cannot prevent the cancel.
func (o *Orchestrator) cancelRun(sessionID, runID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := o.transport.CancelRun(ctx, sessionID, runID); err != nil {
		o.logger.Debug("failed to cancel run",
			zap.String("run_id", runID),
			zap.Error(err))
	}
}
