// Package node defines the contract every catalogue entry conforms to: a static
// definition plus the emission hooks the compiler calls while walking a graph.
package node

import (
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/lua"
)

// ExecFunc emits the statements of an exec node.
// Lines are relative to the node's own indentation level.
type ExecFunc func(ctx Context) ([]string, error)

// ValueFunc evaluates the expression read from the given output pin.
type ValueFunc func(ctx Context, pin string) (string, error)

// Module pairs a definition with its behaviour.
type Module struct {
	Definition domain.NodeDefinition
	// Exec is required when the definition has exec pins.
	Exec ExecFunc
	// Value is required for pure nodes exposing value outputs.
	Value ValueFunc
}

// BranchOptions scope a nested block emitted by a control node.
type BranchOptions struct {
	// Indent is the number of levels the branch is nested below the calling node.
	Indent int
	// Path replaces the active exec cycle-guard path for the branch. Nil keeps the current one.
	Path []string
	// Bindings exposes output pins of the calling node as identifiers inside the branch only,
	// e.g. a loop index.
	Bindings map[string]string
}

// Context is the view of the compiler handed to a node hook.
type Context interface {
	// NodeID is the instance id of the node being emitted.
	NodeID() string
	Definition() domain.NodeDefinition
	// Level is the absolute indentation level of the node.
	Level() int
	// Path returns a copy of the active exec path.
	Path() []string

	// Property returns the instance value, falling back to the schema default.
	Property(key string) (any, bool)
	// Literal formats a property as Lua source.
	Literal(key string) (string, error)
	// Identifier sanitizes a string property into a Lua identifier.
	Identifier(key string) (string, error)

	// ResolveValueInput returns the expression feeding a value input.
	// When the pin is unconnected the result is, in order: fallback unless it is omitted,
	// the pin's declared Default, a MissingRequiredInputError for a Required pin,
	// and otherwise the omitted fallback itself.
	ResolveValueInput(pin string, fallback lua.Arg) (lua.Arg, error)
	EmitNextExec(pin string) ([]string, error)
	EmitBranch(pin string, opts BranchOptions) ([]string, error)

	// Temp allocates a hidden temporary owned by this node.
	Temp(name string) string
	// Bind publishes the identifier holding an output pin for the rest of the current scope.
	Bind(pin, identifier string)
}
