package graph_test

import (
	"testing"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/graph"
	"github.com/aretw0/picograph/pkg/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conn(from, fromPin, to, toPin string) domain.Connection {
	return domain.Connection{FromNode: from, FromPin: fromPin, ToNode: to, ToPin: toPin}
}

func TestBuild_IndexesConnections(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			{ID: "init", DefinitionID: "on_init"},
			{ID: "c", DefinitionID: "circ"},
			{ID: "n", DefinitionID: "number"},
		},
		Connections: []domain.Connection{
			conn("init", "then", "c", "exec"),
			conn("n", "value", "c", "x"),
			conn("n", "value", "c", "y"),
		},
	}

	m, err := graph.Build(g, nodes.Catalogue())
	require.NoError(t, err)

	in, ok := m.Incoming("c", "x")
	require.True(t, ok)
	assert.Equal(t, "n", in.FromNode)
	assert.Len(t, m.Outgoing("n", "value"), 2)
	assert.Len(t, m.Connections(), 3)

	ids := []string{}
	for _, n := range m.Nodes() {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"init", "c", "n"}, ids)
}

func TestBuild_Rejects(t *testing.T) {
	base := []domain.NodeInstance{
		{ID: "init", DefinitionID: "on_init"},
		{ID: "a", DefinitionID: "cls"},
		{ID: "b", DefinitionID: "cls"},
		{ID: "n", DefinitionID: "number"},
		{ID: "s", DefinitionID: "string"},
	}

	tests := []struct {
		name        string
		connections []domain.Connection
		reason      string
	}{
		{"unknown source", []domain.Connection{conn("ghost", "then", "a", "exec")}, "unknown source node 'ghost'"},
		{"unknown target", []domain.Connection{conn("init", "then", "ghost", "exec")}, "unknown target node 'ghost'"},
		{"unknown output", []domain.Connection{conn("a", "nope", "b", "exec")}, "'cls' has no output pin 'nope'"},
		{"unknown input", []domain.Connection{conn("init", "then", "a", "nope")}, "'cls' has no input pin 'nope'"},
		{"exec to value", []domain.Connection{conn("init", "then", "a", "col")}, "cannot connect exec to number"},
		{"kind mismatch", []domain.Connection{conn("s", "value", "a", "col")}, "cannot connect string to number"},
		{"fan-in", []domain.Connection{
			conn("n", "value", "a", "col"),
			conn("n", "value", "a", "col"),
		}, "input pin already has a connection"},
		{"exec fan-in", []domain.Connection{
			conn("init", "then", "b", "exec"),
			conn("a", "then", "b", "exec"),
		}, "input pin already has a connection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graph.Build(domain.Graph{Nodes: base, Connections: tt.connections}, nodes.Catalogue())
			var invalid *domain.InvalidConnectionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.reason, invalid.Reason)
			assert.ErrorIs(t, err, domain.ErrInvalidConnection)
		})
	}
}

func TestBuild_InvalidNodes(t *testing.T) {
	_, err := graph.Build(domain.Graph{Nodes: []domain.NodeInstance{{DefinitionID: "cls"}}}, nodes.Catalogue())
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	_, err = graph.Build(domain.Graph{Nodes: []domain.NodeInstance{
		{ID: "a", DefinitionID: "cls"},
		{ID: "a", DefinitionID: "cls"},
	}}, nodes.Catalogue())
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)

	_, err = graph.Build(domain.Graph{Nodes: []domain.NodeInstance{{ID: "a", DefinitionID: "warp"}}}, nodes.Catalogue())
	var unknown *domain.UnknownNodeDefinitionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "a", unknown.NodeID)
}

func TestBuild_CopiesProperties(t *testing.T) {
	props := map[string]any{"col": 1}
	g := domain.Graph{Nodes: []domain.NodeInstance{{ID: "a", DefinitionID: "cls", Properties: props}}}

	m, err := graph.Build(g, nodes.Catalogue())
	require.NoError(t, err)
	props["col"] = 2

	n, ok := m.Node("a")
	require.True(t, ok)
	assert.Equal(t, 1, n.Properties["col"])
}

func TestEntryPoints(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			{ID: "custom", DefinitionID: "function", IsEntryPoint: true, EventName: "spawn"},
			{ID: "draw", DefinitionID: "on_draw"},
			{ID: "u60", DefinitionID: "on_update60"},
			{ID: "init", DefinitionID: "on_init"},
			{ID: "c", DefinitionID: "cls"},
		},
	}

	m, err := graph.Build(g, nodes.Catalogue())
	require.NoError(t, err)
	eps, err := m.EntryPoints()
	require.NoError(t, err)
	assert.Equal(t, []graph.Entry{
		{NodeID: "init", EventName: "_init"},
		{NodeID: "u60", EventName: "_update60"},
		{NodeID: "draw", EventName: "_draw"},
		{NodeID: "custom", EventName: "spawn"},
	}, eps)
}

func TestEntryPoints_Errors(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		err := graph.Validate(domain.Graph{Nodes: []domain.NodeInstance{
			{ID: "b", DefinitionID: "on_draw"},
			{ID: "a", DefinitionID: "function", IsEntryPoint: true, EventName: "_draw"},
		}}, nodes.Catalogue())
		var dup *domain.DuplicateEntryPointError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, []string{"a", "b"}, dup.NodeIDs)
		assert.ErrorIs(t, err, domain.ErrDuplicateEntryPoint)
	})

	t.Run("missing event name", func(t *testing.T) {
		err := graph.Validate(domain.Graph{Nodes: []domain.NodeInstance{
			{ID: "f", DefinitionID: "function", IsEntryPoint: true},
		}}, nodes.Catalogue())
		var invalid *domain.InvalidPropertyValueError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "eventName", invalid.Property)
	})

	t.Run("event name is not an identifier", func(t *testing.T) {
		err := graph.Validate(domain.Graph{Nodes: []domain.NodeInstance{
			{ID: "f", DefinitionID: "function", IsEntryPoint: true, EventName: "on hit"},
		}}, nodes.Catalogue())
		assert.ErrorIs(t, err, domain.ErrInvalidPropertyValue)
	})
}
