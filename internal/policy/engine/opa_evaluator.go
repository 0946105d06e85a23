package engine

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

const policyQuery = "data.authz.allow"

// Role policy: admin passes everywhere; otherwise the role must be in the
// route's allow-list, and an empty allow-list admits any authenticated role.
const regoPolicy = `package authz

default allow = false

allow if {
	input.role == "admin"
}

allow if {
	count(input.allowed) == 0
}

allow if {
	some r in input.allowed
	input.role == r
}
`

// OPAEvaluator evaluates the role policy with OPA Rego. The policy is
// compiled once at construction.
type OPAEvaluator struct {
	compiler *ast.Compiler
}

// NewOPAEvaluator compiles the role policy and returns the evaluator.
func NewOPAEvaluator() (*OPAEvaluator, error) {
	compiler, err := ast.CompileModules(map[string]string{"authz.rego": regoPolicy})
	if err != nil {
		return nil, fmt.Errorf("compile role policy: %w", err)
	}
	return &OPAEvaluator{compiler: compiler}, nil
}

// Allow reports whether role passes for a route restricted to the allowed roles.
func (e *OPAEvaluator) Allow(ctx context.Context, role string, allowed []string) (bool, error) {
	if allowed == nil {
		allowed = []string{}
	}
	q := rego.New(
		rego.Query(policyQuery),
		rego.Compiler(e.compiler),
		rego.Input(map[string]interface{}{
			"role":    role,
			"allowed": allowed,
		}),
	)
	rs, err := q.Eval(ctx)
	if err != nil {
		return false, fmt.Errorf("eval role policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, fmt.Errorf("role policy query returned no result")
	}
	allow, ok := rs[0].Expressions[0].Value.(bool)
	if !ok {
		return false, fmt.Errorf("role policy returned non-boolean result")
	}
	return allow, nil
}

// HealthCheck verifies that the compiled policy evaluates. Returns nil on success.
func (e *OPAEvaluator) HealthCheck(ctx context.Context) error {
	_, err := e.Allow(ctx, "requester", []string{"requester"})
	return err
}
