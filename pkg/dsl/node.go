package dsl

import "github.com/aretw0/picograph/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node instance.
type NodeBuilder struct {
	node    domain.NodeInstance
	builder *Builder
}

// ID returns the instance id.
func (n *NodeBuilder) ID() string {
	return n.node.ID
}

// Set assigns an inspector property.
func (n *NodeBuilder) Set(key string, value any) *NodeBuilder {
	if n.node.Properties == nil {
		n.node.Properties = make(map[string]any)
	}
	n.node.Properties[key] = value
	return n
}

// At places the node on the editor canvas.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = &domain.Position{X: x, Y: y}
	return n
}

// Event marks the node as the entry of the named callback.
func (n *NodeBuilder) Event(name string) *NodeBuilder {
	n.node.IsEntryPoint = true
	n.node.EventName = name
	return n
}

// Then continues the exec chain into target.
func (n *NodeBuilder) Then(target string) *NodeBuilder {
	return n.Exec(domain.PinExecOut, target)
}

// Exec connects a named exec output (e.g. "true", "loop") to target.
func (n *NodeBuilder) Exec(pin, target string) *NodeBuilder {
	n.builder.Connect(n.node.ID, pin, target, domain.PinExecIn)
	return n
}

// Feed wires the value output pin into targetPin of target.
func (n *NodeBuilder) Feed(pin, target, targetPin string) *NodeBuilder {
	n.builder.Connect(n.node.ID, pin, target, targetPin)
	return n
}

// From wires sourcePin of source into the input pin of this node.
func (n *NodeBuilder) From(pin, source, sourcePin string) *NodeBuilder {
	n.builder.Connect(source, sourcePin, n.node.ID, pin)
	return n
}

// Build returns a copy of the underlying instance.
func (n *NodeBuilder) Build() domain.NodeInstance {
	out := n.node
	if n.node.Properties != nil {
		out.Properties = make(map[string]any, len(n.node.Properties))
		for k, v := range n.node.Properties {
			out.Properties[k] = v
		}
	}
	if n.node.Position != nil {
		pos := *n.node.Position
		out.Position = &pos
	}
	return out
}
