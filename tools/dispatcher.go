package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hireloop/concierge/assistant"
	"github.com/hireloop/concierge/policy"
)

// failureResult is embedded in a tool output when a handler fails or is
// blocked, so the assistant can respond gracefully instead of the turn dying.
const failureResult = `{"success":false}`

// Dispatcher resolves and executes a requires-action batch. Calls within one
// batch fan out concurrently; every call yields exactly one output, in batch
// order, or the whole batch fails with a dispatch error.
type Dispatcher struct {
	registry *Registry
	gate     *policy.Engine
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher over the given registry and policy gate.
func NewDispatcher(registry *Registry, gate *policy.Engine, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		gate:     gate,
		logger:   logger,
	}
}

// Dispatch executes every call in the batch. Unknown tool names and malformed
// argument payloads are fatal; handler faults and policy blocks degrade to a
// failure indicator in that call's output.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []assistant.ToolCallRequest) ([]assistant.ToolOutput, error) {
	outputs := make([]assistant.ToolOutput, len(calls))

	g, ctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			handler, ok := d.registry.Lookup(call.Function.Name)
			if !ok {
				return fmt.Errorf("unknown tool %q", call.Function.Name)
			}

			args, err := parseArguments(call.Function.Arguments)
			if err != nil {
				return fmt.Errorf("malformed arguments for %s: %w", call.Function.Name, err)
			}

			decision, err := d.gate.Decide(ctx, call.Function.Name, args)
			if err != nil {
				return fmt.Errorf("policy decision for %s: %w", call.Function.Name, err)
			}
			if decision == policy.DecisionBlock {
				d.logger.Warn("tool call blocked by policy",
					zap.String("tool", call.Function.Name),
					zap.String("tool_call_id", call.ID))
				outputs[i] = assistant.ToolOutput{ToolCallID: call.ID, Output: failureResult}
				return nil
			}

			result, err := handler.Invoke(ctx, json.RawMessage(call.Function.Arguments))
			if err != nil {
				d.logger.Warn("tool handler failed",
					zap.String("tool", call.Function.Name),
					zap.String("tool_call_id", call.ID),
					zap.Error(err))
				outputs[i] = assistant.ToolOutput{ToolCallID: call.ID, Output: failureResult}
				return nil
			}

			buf, err := json.Marshal(result)
			if err != nil {
				return fmt.Errorf("failed to serialize output of %s: %w", call.Function.Name, err)
			}
			outputs[i] = assistant.ToolOutput{ToolCallID: call.ID, Output: string(buf)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// parseArguments decodes a raw argument payload into a map. An empty payload
// is treated as no arguments; anything else must be a JSON object.
func parseArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}
