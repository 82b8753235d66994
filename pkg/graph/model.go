package graph

import (
	"fmt"
	"sort"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/lua"
)

// Catalogue resolves definition ids. *registry.Registry implements it.
type Catalogue interface {
	Definition(id string) (domain.NodeDefinition, bool)
}

// PinRef addresses a pin of a node instance.
type PinRef struct {
	Node string
	Pin  string
}

// Entry is a node rooting one lifecycle function.
type Entry struct {
	NodeID    string
	EventName string
}

// Model is an immutable, indexed graph snapshot.
type Model struct {
	order       []string
	nodes       map[string]domain.NodeInstance
	defs        map[string]domain.NodeDefinition
	connections []domain.Connection
	incoming    map[PinRef]domain.Connection
	outgoing    map[PinRef][]domain.Connection
}

// Build validates g against the catalogue and indexes it.
func Build(g domain.Graph, catalogue Catalogue) (*Model, error) {
	m := &Model{
		nodes:    make(map[string]domain.NodeInstance, len(g.Nodes)),
		defs:     make(map[string]domain.NodeDefinition, len(g.Nodes)),
		incoming: make(map[PinRef]domain.Connection),
		outgoing: make(map[PinRef][]domain.Connection),
	}

	for _, n := range g.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node missing id", domain.ErrInvalidGraph)
		}
		if _, ok := m.nodes[n.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate node id '%s'", domain.ErrInvalidGraph, n.ID)
		}
		def, ok := catalogue.Definition(n.DefinitionID)
		if !ok {
			return nil, &domain.UnknownNodeDefinitionError{NodeID: n.ID, DefinitionID: n.DefinitionID}
		}
		n.Properties = copyProps(n.Properties)
		m.nodes[n.ID] = n
		m.defs[n.ID] = def
		m.order = append(m.order, n.ID)
	}

	for _, c := range g.Connections {
		if err := m.connect(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Model) connect(c domain.Connection) error {
	invalid := func(format string, args ...any) error {
		return &domain.InvalidConnectionError{Connection: c, Reason: fmt.Sprintf(format, args...)}
	}

	fromDef, ok := m.defs[c.FromNode]
	if !ok {
		return invalid("unknown source node '%s'", c.FromNode)
	}
	toDef, ok := m.defs[c.ToNode]
	if !ok {
		return invalid("unknown target node '%s'", c.ToNode)
	}
	out, ok := fromDef.Output(c.FromPin)
	if !ok {
		return invalid("'%s' has no output pin '%s'", fromDef.ID, c.FromPin)
	}
	in, ok := toDef.Input(c.ToPin)
	if !ok {
		return invalid("'%s' has no input pin '%s'", toDef.ID, c.ToPin)
	}
	if !compatible(out.Kind, in.Kind) {
		return invalid("cannot connect %s to %s", out.Kind, in.Kind)
	}

	to := PinRef{Node: c.ToNode, Pin: c.ToPin}
	if _, ok := m.incoming[to]; ok {
		return invalid("input pin already has a connection")
	}
	from := PinRef{Node: c.FromNode, Pin: c.FromPin}
	if out.IsExec() && len(m.outgoing[from]) > 0 {
		return invalid("exec output pin already has a connection")
	}

	m.incoming[to] = c
	m.outgoing[from] = append(m.outgoing[from], c)
	m.connections = append(m.connections, c)
	return nil
}

func compatible(out, in domain.PinKind) bool {
	if out == domain.KindExec || in == domain.KindExec {
		return out == in
	}
	return out == in || out == domain.KindAny || in == domain.KindAny
}

// Node returns the instance with the given id.
func (m *Model) Node(id string) (domain.NodeInstance, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Definition returns the definition of the instance with the given id.
func (m *Model) Definition(nodeID string) (domain.NodeDefinition, bool) {
	d, ok := m.defs[nodeID]
	return d, ok
}

// Incoming returns the single connection feeding an input pin.
func (m *Model) Incoming(nodeID, pin string) (domain.Connection, bool) {
	c, ok := m.incoming[PinRef{Node: nodeID, Pin: pin}]
	return c, ok
}

// Outgoing returns the connections leaving an output pin.
func (m *Model) Outgoing(nodeID, pin string) []domain.Connection {
	return m.outgoing[PinRef{Node: nodeID, Pin: pin}]
}

// Nodes returns the instances in document order.
func (m *Model) Nodes() []domain.NodeInstance {
	out := make([]domain.NodeInstance, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.nodes[id])
	}
	return out
}

// Connections returns the validated connections in document order.
func (m *Model) Connections() []domain.Connection {
	return append([]domain.Connection(nil), m.connections...)
}

// EventName returns the lifecycle event rooted at the node, if any.
// An explicit instance event overrides the definition's.
func (m *Model) EventName(nodeID string) (string, bool) {
	n, ok := m.nodes[nodeID]
	if !ok {
		return "", false
	}
	if n.IsEntryPoint && n.EventName != "" {
		return n.EventName, true
	}
	if def := m.defs[nodeID]; def.Event != "" {
		if n.EventName != "" {
			return n.EventName, true
		}
		return def.Event, true
	}
	return "", false
}

// EntryPoints returns the entries in assembly order.
// Two entries claiming the same event is a DuplicateEntryPoint error.
func (m *Model) EntryPoints() ([]Entry, error) {
	byEvent := make(map[string][]string)
	for _, id := range m.order {
		n := m.nodes[id]
		event, ok := m.EventName(id)
		if !ok {
			if n.IsEntryPoint {
				return nil, &domain.InvalidPropertyValueError{
					NodeID: id, Property: "eventName", Value: n.EventName,
					Err: fmt.Errorf("entry point has no event name"),
				}
			}
			continue
		}
		if !lua.IsIdentifier(event) {
			return nil, &domain.InvalidPropertyValueError{
				NodeID: id, Property: "eventName", Value: event,
				Err: fmt.Errorf("event name is not a valid lua identifier"),
			}
		}
		byEvent[event] = append(byEvent[event], id)
	}

	events := make([]string, 0, len(byEvent))
	for event := range byEvent {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool {
		pi, pj := domain.EventPriority(events[i]), domain.EventPriority(events[j])
		if pi != pj {
			return pi < pj
		}
		return events[i] < events[j]
	})

	entries := make([]Entry, 0, len(events))
	for _, event := range events {
		ids := byEvent[event]
		if len(ids) > 1 {
			sort.Strings(ids)
			return nil, &domain.DuplicateEntryPointError{EventName: event, NodeIDs: ids}
		}
		entries = append(entries, Entry{NodeID: ids[0], EventName: event})
	}
	return entries, nil
}

// Validate builds the model and checks its entry points without emitting anything.
func Validate(g domain.Graph, catalogue Catalogue) error {
	m, err := Build(g, catalogue)
	if err != nil {
		return err
	}
	_, err = m.EntryPoints()
	return err
}

func copyProps(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
