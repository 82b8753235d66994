package compiler

import (
	"fmt"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/graph"
	"github.com/aretw0/picograph/pkg/lua"
	"github.com/aretw0/picograph/pkg/node"
	"github.com/spf13/cast"
)

// path is an ordered visiting set used as a cycle guard.
type path struct {
	ids []string
	set map[string]bool
}

func newPath(ids ...string) *path {
	p := &path{set: make(map[string]bool, len(ids))}
	for _, id := range ids {
		p.push(id)
	}
	return p
}

func (p *path) has(id string) bool { return p.set[id] }

func (p *path) push(id string) {
	p.ids = append(p.ids, id)
	p.set[id] = true
}

func (p *path) pop() {
	last := p.ids[len(p.ids)-1]
	p.ids = p.ids[:len(p.ids)-1]
	delete(p.set, last)
}

func (p *path) list() []string {
	return append([]string(nil), p.ids...)
}

// compilation is the per-compile state. It never outlives a Compile call.
type compilation struct {
	*Compiler
	model *graph.Model

	event string
	exec  *path
	value *path
	// depth counts active emissions and evaluations. Branch paths never reset it.
	depth int
	// scopes is the two-phase symbol table: (node, output pin) -> identifier.
	scopes []map[graph.PinRef]string
	// seq numbers hidden temporaries across the whole compile.
	seq int
}

func newCompilation(c *Compiler, model *graph.Model) *compilation {
	return &compilation{Compiler: c, model: model}
}

func (c *compilation) emitEntry(ep graph.Entry) ([]string, error) {
	c.event = ep.EventName
	c.exec = newPath()
	c.value = newPath()
	c.depth = 0
	c.scopes = []map[graph.PinRef]string{{}}
	return c.emitNode(ep.NodeID, 0)
}

func (c *compilation) module(nodeID string) (node.Module, domain.NodeInstance, error) {
	inst, _ := c.model.Node(nodeID)
	def, ok := c.model.Definition(nodeID)
	if !ok {
		return node.Module{}, inst, &domain.UnknownNodeDefinitionError{NodeID: nodeID, DefinitionID: inst.DefinitionID}
	}
	mod, ok := c.catalogue.Lookup(def.ID)
	if !ok {
		return node.Module{}, inst, &domain.UnknownNodeDefinitionError{NodeID: nodeID, DefinitionID: def.ID}
	}
	return mod, inst, nil
}

func (c *compilation) checkDepth(nodeID string) error {
	if c.depth >= c.maxDepth {
		return &domain.GraphTooComplexError{NodeID: nodeID, Limit: c.maxDepth}
	}
	return nil
}

// emitNode runs the exec hook of a node reached along the active exec path.
func (c *compilation) emitNode(nodeID string, level int) ([]string, error) {
	if c.exec.has(nodeID) {
		return nil, &domain.GraphCycleError{NodeID: nodeID, Kind: domain.CycleExec, Path: c.exec.list()}
	}
	if err := c.checkDepth(nodeID); err != nil {
		return nil, err
	}
	mod, inst, err := c.module(nodeID)
	if err != nil {
		return nil, err
	}
	if mod.Exec == nil {
		return nil, fmt.Errorf("node '%s' (%s) has no exec behaviour", nodeID, mod.Definition.ID)
	}

	c.exec.push(nodeID)
	c.depth++
	defer func() {
		c.exec.pop()
		c.depth--
	}()

	if c.hooks.OnNodeEmit != nil {
		c.hooks.OnNodeEmit(&domain.NodeEvent{NodeID: nodeID, DefinitionID: inst.DefinitionID, EventName: c.event, Exec: true})
	}
	return mod.Exec(&nodeContext{comp: c, inst: inst, def: mod.Definition, level: level})
}

// evaluate resolves the expression behind a value connection.
func (c *compilation) evaluate(conn domain.Connection, level int) (string, error) {
	if ident, ok := c.lookup(conn.FromNode, conn.FromPin); ok {
		return ident, nil
	}

	mod, inst, err := c.module(conn.FromNode)
	if err != nil {
		return "", err
	}
	if mod.Definition.HasExec() {
		return "", &domain.DanglingValueReferenceError{
			NodeID: conn.ToNode, PinID: conn.ToPin,
			ProducerID: conn.FromNode, ProducerPin: conn.FromPin,
		}
	}
	if c.value.has(conn.FromNode) {
		return "", &domain.GraphCycleError{NodeID: conn.FromNode, Kind: domain.CycleValue, Path: c.value.list()}
	}
	if err := c.checkDepth(conn.FromNode); err != nil {
		return "", err
	}
	if mod.Value == nil {
		return "", fmt.Errorf("node '%s' (%s) has no value behaviour", conn.FromNode, mod.Definition.ID)
	}

	c.value.push(conn.FromNode)
	c.depth++
	defer func() {
		c.value.pop()
		c.depth--
	}()

	if c.hooks.OnNodeEmit != nil {
		c.hooks.OnNodeEmit(&domain.NodeEvent{NodeID: conn.FromNode, DefinitionID: inst.DefinitionID, EventName: c.event})
	}
	return mod.Value(&nodeContext{comp: c, inst: inst, def: mod.Definition, level: level}, conn.FromPin)
}

func (c *compilation) lookup(nodeID, pin string) (string, bool) {
	key := graph.PinRef{Node: nodeID, Pin: pin}
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if ident, ok := c.scopes[i][key]; ok {
			return ident, true
		}
	}
	return "", false
}

func (c *compilation) pushScope(nodeID string, bindings map[string]string) {
	scope := make(map[graph.PinRef]string, len(bindings))
	for pin, ident := range bindings {
		scope[graph.PinRef{Node: nodeID, Pin: pin}] = ident
	}
	c.scopes = append(c.scopes, scope)
}

func (c *compilation) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// nodeContext implements node.Context for one visit of one node.
type nodeContext struct {
	comp  *compilation
	inst  domain.NodeInstance
	def   domain.NodeDefinition
	level int
}

var _ node.Context = (*nodeContext)(nil)

func (n *nodeContext) NodeID() string                    { return n.inst.ID }
func (n *nodeContext) Definition() domain.NodeDefinition { return n.def }
func (n *nodeContext) Level() int                        { return n.level }
func (n *nodeContext) Path() []string                    { return n.comp.exec.list() }

func (n *nodeContext) Property(key string) (any, bool) {
	if v, ok := n.inst.Properties[key]; ok && v != nil {
		return v, true
	}
	if p, ok := n.def.Property(key); ok && p.Default != nil {
		return p.Default, true
	}
	return nil, false
}

func (n *nodeContext) Literal(key string) (string, error) {
	v, _ := n.Property(key)
	cfg, declared := n.def.Property(key)

	var (
		lit string
		err error
	)
	switch {
	case !declared:
		lit, err = lua.FormatLiteral(domain.KindAny, v)
	case cfg.Kind == domain.KindEnum:
		lit, err = lua.FormatEnum(cfg.Options, v)
	default:
		lit, err = lua.FormatLiteral(cfg.Kind, v)
	}
	if err != nil {
		return "", &domain.InvalidPropertyValueError{NodeID: n.inst.ID, Property: key, Value: v, Err: err}
	}
	return lit, nil
}

func (n *nodeContext) Identifier(key string) (string, error) {
	v, _ := n.Property(key)
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", &domain.InvalidPropertyValueError{NodeID: n.inst.ID, Property: key, Value: v, Err: err}
	}
	return lua.SanitizeIdentifier(s), nil
}

func (n *nodeContext) ResolveValueInput(pin string, fallback lua.Arg) (lua.Arg, error) {
	p, ok := n.def.Input(pin)
	if !ok || p.IsExec() {
		return lua.Arg{}, fmt.Errorf("node '%s' (%s) has no value input '%s'", n.inst.ID, n.def.ID, pin)
	}

	conn, ok := n.comp.model.Incoming(n.inst.ID, pin)
	if !ok {
		if !fallback.IsOmitted() {
			return fallback, nil
		}
		if p.Default != nil {
			lit, err := lua.FormatLiteral(p.Kind, p.Default)
			if err != nil {
				return lua.Arg{}, &domain.InvalidPropertyValueError{NodeID: n.inst.ID, Property: pin, Value: p.Default, Err: err}
			}
			return lua.Value(lit), nil
		}
		if p.Required {
			return lua.Arg{}, &domain.MissingRequiredInputError{NodeID: n.inst.ID, PinID: pin}
		}
		return fallback, nil
	}

	expr, err := n.comp.evaluate(conn, n.level)
	if err != nil {
		return lua.Arg{}, err
	}
	return lua.Value(expr), nil
}

func (n *nodeContext) EmitNextExec(pin string) ([]string, error) {
	p, ok := n.def.Output(pin)
	if !ok || !p.IsExec() {
		return nil, fmt.Errorf("node '%s' (%s) has no exec output '%s'", n.inst.ID, n.def.ID, pin)
	}
	conns := n.comp.model.Outgoing(n.inst.ID, pin)
	if len(conns) == 0 {
		return nil, nil
	}
	return n.comp.emitNode(conns[0].ToNode, n.level)
}

func (n *nodeContext) EmitBranch(pin string, opts node.BranchOptions) ([]string, error) {
	saved := n.comp.exec
	if opts.Path != nil {
		n.comp.exec = newPath(opts.Path...)
	}
	// A branch at the same level shares the enclosing Lua block.
	scoped := opts.Indent > 0 || len(opts.Bindings) > 0
	if scoped {
		n.comp.pushScope(n.inst.ID, opts.Bindings)
	}
	defer func() {
		if scoped {
			n.comp.popScope()
		}
		n.comp.exec = saved
	}()

	branch := &nodeContext{comp: n.comp, inst: n.inst, def: n.def, level: n.level + opts.Indent}
	lines, err := branch.EmitNextExec(pin)
	if err != nil {
		return nil, err
	}
	return indentLines(lines, n.comp.indent, opts.Indent), nil
}

func (n *nodeContext) Temp(name string) string {
	n.comp.seq++
	return lua.HiddenName(n.inst.ID, name, n.comp.seq)
}

func (n *nodeContext) Bind(pin, identifier string) {
	scope := n.comp.scopes[len(n.comp.scopes)-1]
	scope[graph.PinRef{Node: n.inst.ID, Pin: pin}] = identifier
}
