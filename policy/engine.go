// Package policy gates tool dispatch through an OPA/rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions a policy may return.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine evaluates the tool-dispatch policy.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.concierge.tools.decision"),
		rego.Module("tool_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Decide evaluates the policy for one tool call. Input is the tool name plus
// its parsed arguments. An absent or non-string result defaults to allow.
func (e *Engine) Decide(ctx context.Context, tool string, args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}
	input := map[string]any{
		"tool": tool,
		"args": args,
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}
	if decision, ok := results[0].Expressions[0].Value.(string); ok {
		return decision, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy allows every known tool and blocks obviously hostile
// candidate queries.
const DefaultPolicy = `
package concierge.tools

import rego.v1

default decision := "allow"

decision := "block" if {
	input.tool == "fetchCandidates"
	input.args.budget < 0
}
`
