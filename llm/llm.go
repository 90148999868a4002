// Package llm defines the provider-neutral model gateway contract: a prompt
// with an optional tool constraint goes in, a decoded Reply comes out.
package llm

import (
	"context"

	"mealcompanion/tools"
)

// Client is implemented by every model provider.
type Client interface {
	Call(ctx context.Context, req Request) (Reply, error)
}

type ConstraintMode int

const (
	// Unconstrained lets the model answer with free text.
	Unconstrained ConstraintMode = iota
	// MustCallOneOf forces the model to invoke one of ToolConstraint.ToolNames.
	MustCallOneOf
)

func (m ConstraintMode) String() string {
	switch m {
	case MustCallOneOf:
		return "must_call_one_of"
	default:
		return "unconstrained"
	}
}

type ToolConstraint struct {
	Mode      ConstraintMode
	ToolNames []string
}

// MustCall returns a constraint restricting the model to the named tools.
func MustCall(names ...string) ToolConstraint {
	return ToolConstraint{Mode: MustCallOneOf, ToolNames: names}
}

// Request is a single-shot prompt. Tools are the declarations the model may
// see; providers only declare the ones allowed by Constraint.
type Request struct {
	Prompt     string
	Tools      []tools.Tool
	Constraint ToolConstraint
}

// AllowedTools returns the declared tools the constraint permits, in declaration order.
func (r Request) AllowedTools() []tools.Tool {
	if r.Constraint.Mode != MustCallOneOf {
		return nil
	}
	allowed := make(map[string]bool, len(r.Constraint.ToolNames))
	for _, n := range r.Constraint.ToolNames {
		allowed[n] = true
	}
	out := make([]tools.Tool, 0, len(r.Tools))
	for _, t := range r.Tools {
		if allowed[t.Name()] {
			out = append(out, t)
		}
	}
	return out
}
