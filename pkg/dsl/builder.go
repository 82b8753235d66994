package dsl

import "github.com/aretw0/picograph/pkg/domain"

// Builder manages the graph construction.
type Builder struct {
	order       []string
	nodes       map[string]*NodeBuilder
	connections []domain.Connection
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a node instance of the given definition.
// If the node already exists, it returns the existing builder unchanged.
func (b *Builder) Add(id, definitionID string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.NodeInstance{
			ID:           id,
			DefinitionID: definitionID,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Function adds a custom entry node emitted as "function name()".
func (b *Builder) Function(id, name string) *NodeBuilder {
	return b.Add(id, "function").Event(name)
}

// Connect adds a raw connection.
func (b *Builder) Connect(fromNode, fromPin, toNode, toPin string) *Builder {
	b.connections = append(b.connections, domain.Connection{
		FromNode: fromNode, FromPin: fromPin, ToNode: toNode, ToPin: toPin,
	})
	return b
}

// Build returns the graph in insertion order.
func (b *Builder) Build() domain.Graph {
	g := domain.Graph{
		Nodes:       make([]domain.NodeInstance, 0, len(b.order)),
		Connections: append([]domain.Connection(nil), b.connections...),
	}
	for _, id := range b.order {
		g.Nodes = append(g.Nodes, b.nodes[id].Build())
	}
	return g
}
