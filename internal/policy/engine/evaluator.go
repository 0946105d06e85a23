// Package engine evaluates role-authorization policy with OPA Rego.
package engine

import "context"

// Evaluator decides whether a role may access a role-restricted route.
type Evaluator interface {
	// Allow reports whether role passes for a route restricted to the allowed
	// roles. An empty allowed list permits any authenticated role.
	Allow(ctx context.Context, role string, allowed []string) (bool, error)
}
