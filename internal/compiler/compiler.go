// Package compiler walks a node graph and emits the Lua source of every lifecycle callback.
//
// Compilation is a recursive descent over exec connections starting at each entry node.
// Node hooks call back into the compiler through node.Context to resolve their value
// inputs and continue the exec chain. All state lives in a compilation created per
// Compile call, so a Compiler can be shared between goroutines.
package compiler

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/graph"
	"github.com/aretw0/picograph/pkg/registry"
)

// DefaultMaxDepth bounds nested emissions and evaluations.
// Each statement of a chain nests one level below the previous one.
const DefaultMaxDepth = 4096

// DefaultIndent is the text of one indentation level.
const DefaultIndent = "  "

// Compiler turns graphs into Lua source using an injected catalogue.
type Compiler struct {
	catalogue *registry.Registry
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	maxDepth  int
	indent    string
	preamble  []string
	verify    bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Compiler) {
		c.hooks = hooks
	}
}

// WithMaxDepth overrides the recursion ceiling.
func WithMaxDepth(depth int) Option {
	return func(c *Compiler) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithIndent sets the text of one indentation level.
func WithIndent(indent string) Option {
	return func(c *Compiler) {
		c.indent = indent
	}
}

// WithPreamble sets lines emitted before the first function.
func WithPreamble(lines ...string) Option {
	return func(c *Compiler) {
		c.preamble = append([]string(nil), lines...)
	}
}

// WithVerification parses the generated source before returning it.
func WithVerification(enabled bool) Option {
	return func(c *Compiler) {
		c.verify = enabled
	}
}

// New creates a compiler for the given catalogue.
func New(catalogue *registry.Registry, opts ...Option) *Compiler {
	c := &Compiler{
		catalogue: catalogue,
		maxDepth:  DefaultMaxDepth,
		indent:    DefaultIndent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return c
}

// Catalogue returns the injected catalogue.
func (c *Compiler) Catalogue() *registry.Registry {
	return c.catalogue
}

// Compile emits the Lua program for g. Any error aborts with no output.
func (c *Compiler) Compile(g domain.Graph) (src string, err error) {
	start := time.Now()
	entries := 0
	defer func() {
		if c.hooks.OnCompileFinish != nil {
			c.hooks.OnCompileFinish(&domain.CompileEvent{Entries: entries, Bytes: len(src), Err: err})
		}
	}()

	model, err := graph.Build(g, c.catalogue)
	if err != nil {
		c.logger.Debug("graph rejected", "error", err)
		return "", err
	}
	// Duplicate entries are reported before anything is emitted.
	eps, err := model.EntryPoints()
	if err != nil {
		c.logger.Debug("entry points rejected", "error", err)
		return "", err
	}
	entries = len(eps)

	comp := newCompilation(c, model)
	functions := make([]Function, 0, len(eps))
	for _, ep := range eps {
		body, err := comp.emitEntry(ep)
		if err != nil {
			c.logger.Debug("entry failed", "event", ep.EventName, "node", ep.NodeID, "error", err)
			return "", err
		}
		functions = append(functions, Function{Name: ep.EventName, Body: body})
	}

	out := Assemble(c.preamble, functions, c.indent)
	if c.verify {
		if err := Verify(out); err != nil {
			return "", err
		}
	}

	c.logger.Debug("graph compiled",
		"nodes", len(g.Nodes),
		"functions", len(functions),
		"bytes", len(out),
		"duration", time.Since(start),
	)
	return out, nil
}

// indentLines prefixes every non-empty line with levels copies of indent.
func indentLines(lines []string, indent string, levels int) []string {
	if levels <= 0 {
		return lines
	}
	prefix := strings.Repeat(indent, levels)
	out := make([]string, len(lines))
	for i, l := range lines {
		if l == "" {
			out[i] = l
			continue
		}
		out[i] = prefix + l
	}
	return out
}
