// Package policy gates submitted roasts through an OPA/rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.roast_policy.decision"),
		rego.Module("roast_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Input is the document the policy evaluates.
type Input struct {
	Roast string `json:"roast"`
}

// Evaluate checks a submitted roast against the policy. It returns whether
// the roast is allowed and, when denied, the reason.
func (e *Engine) Evaluate(ctx context.Context, input Input) (bool, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default, so an empty result means the module
		// is broken rather than the input allowed.
		return false, "", fmt.Errorf("policy returned no decision")
	}

	decision, ok := results[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return false, "", fmt.Errorf("unexpected policy decision type %T", results[0].Expressions[0].Value)
	}

	allowed, _ := decision["allow"].(bool)
	reason, _ := decision["reason"].(string)
	return allowed, reason, nil
}

// DefaultPolicy is the default roast submission policy.
const DefaultPolicy = `
package roast_policy

default decision := {"allow": true, "reason": ""}

decision := {"allow": false, "reason": "roast must not be empty"} if {
	trim_space(input.roast) == ""
}

decision := {"allow": false, "reason": "roast is too long (500 character limit)"} if {
	trim_space(input.roast) != ""
	count(input.roast) > 500
}
`
