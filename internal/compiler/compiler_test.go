package compiler

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/node"
	"github.com/aretw0/picograph/pkg/nodes"
	"github.com/aretw0/picograph/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inst(id, def string, props map[string]any) domain.NodeInstance {
	return domain.NodeInstance{ID: id, DefinitionID: def, Properties: props}
}

func next(from, to string) domain.Connection {
	return domain.Connection{FromNode: from, FromPin: domain.PinExecOut, ToNode: to, ToPin: domain.PinExecIn}
}

func wire(from, fromPin, to, toPin string) domain.Connection {
	return domain.Connection{FromNode: from, FromPin: fromPin, ToNode: to, ToPin: toPin}
}

func compile(t *testing.T, g domain.Graph, opts ...Option) (string, error) {
	t.Helper()
	return New(nodes.Catalogue(), opts...).Compile(g)
}

func TestCompile_CircleOmitsTrailingColor(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("start", "on_init", nil),
			inst("c", "circ", map[string]any{"x": 10, "y": 20, "r": 4}),
		},
		Connections: []domain.Connection{next("start", "c")},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	assert.Equal(t, "function _init()\n  circ(10, 20, 4)\nend\n", out)

	g.Nodes[1].Properties["col"] = 7
	out, err = compile(t, g)
	require.NoError(t, err)
	assert.Equal(t, "function _init()\n  circ(10, 20, 4, 7)\nend\n", out)
}

func TestCompile_OmittedGapUsesPlaceholder(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("start", "on_init", nil),
			inst("c", "circ", map[string]any{"x": 10, "y": 20, "col": 7}),
		},
		Connections: []domain.Connection{next("start", "c")},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	assert.Contains(t, out, "circ(10, 20, 4, 7)")
}

func TestCompile_ConnectedValueWinsOverProperty(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("start", "on_draw", nil),
			inst("c", "circ", map[string]any{"x": 1}),
			inst("n", "number", map[string]any{"value": 64}),
			inst("sum", "add", map[string]any{"b": 2}),
		},
		Connections: []domain.Connection{
			next("start", "c"),
			wire("n", "value", "sum", "a"),
			wire("sum", "value", "c", "x"),
			wire("n", "value", "c", "y"),
		},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	assert.Equal(t, "function _draw()\n  circ((64 + 2), 64)\nend\n", out)
}

func TestCompile_EntryOrder(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("draw", "on_draw", nil),
			{ID: "z", DefinitionID: "function", IsEntryPoint: true, EventName: "zeta"},
			{ID: "a", DefinitionID: "function", IsEntryPoint: true, EventName: "alpha"},
			inst("init", "on_init", nil),
			inst("update", "on_update", nil),
		},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	want := "function _init()\nend\n\n" +
		"function _update()\nend\n\n" +
		"function _draw()\nend\n\n" +
		"function alpha()\nend\n\n" +
		"function zeta()\nend\n"
	assert.Equal(t, want, out)
}

func TestCompile_Deterministic(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("loop", "for", map[string]any{"to": 3}),
			inst("p", "print", nil),
			inst("update", "on_update", nil),
			inst("tbl", "new_table", nil),
		},
		Connections: []domain.Connection{
			next("init", "loop"),
			wire("loop", "loop", "p", domain.PinExecIn),
			wire("loop", "index", "p", "text"),
			next("update", "tbl"),
		},
	}

	first, err := compile(t, g)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := compile(t, g)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	// Temporaries are numbered across the whole compile.
	assert.Contains(t, first, "__pg_loop_i_1")
	assert.Contains(t, first, "__pg_tbl_t_2")
}

func TestCompile_ForLoop(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("loop", "for", map[string]any{"to": 3}),
			inst("p", "print", nil),
			inst("after", "cls", nil),
		},
		Connections: []domain.Connection{
			next("init", "loop"),
			wire("loop", "loop", "p", domain.PinExecIn),
			wire("loop", "index", "p", "text"),
			wire("loop", "completed", "after", domain.PinExecIn),
		},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	want := "function _init()\n" +
		"  for __pg_loop_i_1 = 1, 3 do\n" +
		"    print(__pg_loop_i_1)\n" +
		"  end\n" +
		"  cls()\n" +
		"end\n"
	assert.Equal(t, want, out)
}

func TestCompile_LoopIndexOutsideLoopIsDangling(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("loop", "for", nil),
			inst("p", "print", nil),
		},
		Connections: []domain.Connection{
			next("init", "loop"),
			wire("loop", "completed", "p", domain.PinExecIn),
			wire("loop", "index", "p", "text"),
		},
	}

	_, err := compile(t, g)
	var dangling *domain.DanglingValueReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "p", dangling.NodeID)
	assert.Equal(t, "loop", dangling.ProducerID)
	assert.ErrorIs(t, err, domain.ErrDanglingValueReference)
}

func TestCompile_IfElse(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("branch", "if", nil),
			inst("flag", "boolean", map[string]any{"value": true}),
			inst("yes", "cls", map[string]any{"col": 1}),
			inst("no", "cls", map[string]any{"col": 2}),
			inst("done", "flip", nil),
		},
		Connections: []domain.Connection{
			next("init", "branch"),
			wire("flag", "value", "branch", "condition"),
			wire("branch", "true", "yes", domain.PinExecIn),
			wire("branch", "false", "no", domain.PinExecIn),
			next("branch", "done"),
		},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	want := "function _init()\n" +
		"  if true then\n" +
		"    cls(1)\n" +
		"  else\n" +
		"    cls(2)\n" +
		"  end\n" +
		"  flip()\n" +
		"end\n"
	assert.Equal(t, want, out)
}

func TestCompile_CoroutineTwoPhase(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("co", "cocreate", nil),
			inst("y", "yield", nil),
			inst("res", "coresume", nil),
			inst("p", "print", nil),
		},
		Connections: []domain.Connection{
			next("init", "co"),
			wire("co", "body", "y", domain.PinExecIn),
			next("co", "res"),
			wire("co", "coroutine", "res", "coroutine"),
			next("res", "p"),
			wire("res", "value", "p", "text"),
		},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	want := "function _init()\n" +
		"  local __pg_co_co_1 = cocreate(function()\n" +
		"    yield()\n" +
		"  end)\n" +
		"  local __pg_res_ok_2, __pg_res_value_3 = coresume(__pg_co_co_1)\n" +
		"  print(__pg_res_value_3)\n" +
		"end\n"
	assert.Equal(t, want, out)
}

func TestCompile_ReadBeforeProducerIsDangling(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("p", "print", nil),
			inst("res", "coresume", nil),
		},
		Connections: []domain.Connection{
			next("init", "p"),
			wire("res", "ok", "p", "text"),
		},
	}

	_, err := compile(t, g)
	var dangling *domain.DanglingValueReferenceError
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "text", dangling.PinID)
	assert.Equal(t, "ok", dangling.ProducerPin)
}

func TestCompile_ValueCycle(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("c", "circ", nil),
			inst("a", "add", nil),
			inst("b", "multiply", nil),
		},
		Connections: []domain.Connection{
			next("init", "c"),
			wire("a", "value", "c", "x"),
			wire("b", "value", "a", "a"),
			wire("a", "value", "b", "a"),
		},
	}

	_, err := compile(t, g)
	var cycle *domain.GraphCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, domain.CycleValue, cycle.Kind)
	assert.Equal(t, "a", cycle.NodeID)
	assert.Equal(t, []string{"a", "b"}, cycle.Path)
}

// gateCatalogue adds a node with a second exec input so an exec cycle can be wired.
func gateCatalogue(t *testing.T) *registry.Registry {
	t.Helper()
	gate := node.Module{
		Definition: domain.NodeDefinition{
			ID: "gate",
			Inputs: []domain.PinConfig{
				{ID: domain.PinExecIn, Direction: domain.DirectionInput, Kind: domain.KindExec},
				{ID: "again", Direction: domain.DirectionInput, Kind: domain.KindExec},
			},
			Outputs: []domain.PinConfig{
				{ID: domain.PinExecOut, Direction: domain.DirectionOutput, Kind: domain.KindExec},
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			rest, err := ctx.EmitNextExec(domain.PinExecOut)
			if err != nil {
				return nil, err
			}
			return append([]string{"-- gate"}, rest...), nil
		},
	}
	reg, err := registry.New(append(nodes.Modules(), gate)...)
	require.NoError(t, err)
	return reg
}

func TestCompile_ExecCycle(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("g", "gate", nil),
			inst("c", "cls", nil),
		},
		Connections: []domain.Connection{
			next("init", "g"),
			next("g", "c"),
			wire("c", domain.PinExecOut, "g", "again"),
		},
	}

	_, err := New(gateCatalogue(t)).Compile(g)
	var cycle *domain.GraphCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, domain.CycleExec, cycle.Kind)
	assert.Equal(t, "g", cycle.NodeID)
	assert.Equal(t, []string{"init", "g", "c"}, cycle.Path)
	assert.ErrorIs(t, err, domain.ErrGraphCycleDetected)
}

func TestCompile_TooComplex(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("a", "cls", nil),
			inst("b", "cls", nil),
		},
		Connections: []domain.Connection{next("init", "a"), next("a", "b")},
	}

	_, err := compile(t, g, WithMaxDepth(2))
	var tooComplex *domain.GraphTooComplexError
	require.ErrorAs(t, err, &tooComplex)
	assert.Equal(t, "b", tooComplex.NodeID)
	assert.Equal(t, 2, tooComplex.Limit)

	_, err = compile(t, g, WithMaxDepth(3))
	assert.NoError(t, err)
}

// loopCatalogue adds a node whose body branch restarts the exec cycle guard.
func loopCatalogue(t *testing.T) *registry.Registry {
	t.Helper()
	loopy := node.Module{
		Definition: domain.NodeDefinition{
			ID: "loopy",
			Inputs: []domain.PinConfig{
				{ID: domain.PinExecIn, Direction: domain.DirectionInput, Kind: domain.KindExec},
				{ID: "again", Direction: domain.DirectionInput, Kind: domain.KindExec},
			},
			Outputs: []domain.PinConfig{
				{ID: "body", Direction: domain.DirectionOutput, Kind: domain.KindExec},
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			body, err := ctx.EmitBranch("body", node.BranchOptions{Indent: 1, Path: []string{}})
			if err != nil {
				return nil, err
			}
			return append(append([]string{"while true do"}, body...), "end"), nil
		},
	}
	reg, err := registry.New(append(nodes.Modules(), loopy)...)
	require.NoError(t, err)
	return reg
}

func TestCompile_BranchPathDoesNotResetDepth(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("l", "loopy", nil),
		},
		Connections: []domain.Connection{
			next("init", "l"),
			wire("l", "body", "l", "again"),
		},
	}

	_, err := New(loopCatalogue(t), WithMaxDepth(50)).Compile(g)
	var tooComplex *domain.GraphTooComplexError
	require.ErrorAs(t, err, &tooComplex)
	assert.Equal(t, "l", tooComplex.NodeID)
	assert.Equal(t, 50, tooComplex.Limit)

	_, err = New(loopCatalogue(t)).Compile(g)
	assert.ErrorIs(t, err, domain.ErrGraphTooComplex)
}

func TestCompile_LongChainFitsDefaultDepth(t *testing.T) {
	g := domain.Graph{Nodes: []domain.NodeInstance{inst("init", "on_init", nil)}}
	prev := "init"
	for i := 0; i < 300; i++ {
		id := fmt.Sprintf("c%d", i)
		g.Nodes = append(g.Nodes, inst(id, "cls", nil))
		g.Connections = append(g.Connections, next(prev, id))
		prev = id
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	assert.Equal(t, 300, strings.Count(out, "cls()"))
}

func TestCompile_NegateNegativeLiteral(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("c", "circ", map[string]any{"x": 10, "y": 20}),
			inst("neg", "negate", map[string]any{"a": -5}),
		},
		Connections: []domain.Connection{
			next("init", "c"),
			wire("neg", "value", "c", "r"),
		},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	assert.Equal(t, "function _init()\n  circ(10, 20, (-(-5)))\nend\n", out)
	assert.NoError(t, Verify(out))
}

func TestCompile_UnconnectedInputPrefersFallbackThenPinDefault(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("c", "circ", nil),
			inst("sum", "add", map[string]any{"a": 5}),
		},
		Connections: []domain.Connection{
			next("init", "c"),
			wire("sum", "value", "c", "x"),
		},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	assert.Contains(t, out, "circ((5 + 0))")
}

func TestCompile_DuplicateEntryPoint(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("second", "on_init", nil),
			inst("first", "on_init", nil),
		},
	}

	out, err := compile(t, g)
	assert.Empty(t, out)
	var dup *domain.DuplicateEntryPointError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "_init", dup.EventName)
	assert.Equal(t, []string{"first", "second"}, dup.NodeIDs)
}

func TestCompile_MissingRequiredInput(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("branch", "if", nil),
		},
		Connections: []domain.Connection{next("init", "branch")},
	}

	_, err := compile(t, g)
	var missing *domain.MissingRequiredInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "branch", missing.NodeID)
	assert.Equal(t, "condition", missing.PinID)
}

func TestCompile_UnknownDefinition(t *testing.T) {
	g := domain.Graph{Nodes: []domain.NodeInstance{inst("x", "teleport", nil)}}

	_, err := compile(t, g)
	var unknown *domain.UnknownNodeDefinitionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "teleport", unknown.DefinitionID)
}

func TestCompile_InvalidProperty(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("c", "circ", map[string]any{"x": "ten"}),
		},
		Connections: []domain.Connection{next("init", "c")},
	}

	_, err := compile(t, g)
	var invalid *domain.InvalidPropertyValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "c", invalid.NodeID)
	assert.Equal(t, "x", invalid.Property)
}

func TestCompile_SanitizesVariableNames(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("set", "set_variable", map[string]any{"name": "end", "value": 5, "local": true}),
			inst("set2", "set_variable", map[string]any{"name": "player x"}),
			inst("get", "get_variable", map[string]any{"name": "end"}),
		},
		Connections: []domain.Connection{
			next("init", "set"),
			next("set", "set2"),
			wire("get", "value", "set2", "value"),
		},
	}

	out, err := compile(t, g)
	require.NoError(t, err)
	assert.Equal(t, "function _init()\n  local end_ = 5\n  player_x = end_\nend\n", out)
}

func TestCompile_PreambleAndIndent(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("c", "cls", nil),
		},
		Connections: []domain.Connection{next("init", "c")},
	}

	out, err := compile(t, g, WithPreamble("-- generated"), WithIndent("\t"))
	require.NoError(t, err)
	assert.Equal(t, "-- generated\n\nfunction _init()\n\tcls()\nend\n", out)
}

func TestCompile_Hooks(t *testing.T) {
	var (
		emitted  []string
		finished *domain.CompileEvent
	)
	hooks := domain.LifecycleHooks{
		OnNodeEmit: func(e *domain.NodeEvent) {
			emitted = append(emitted, e.NodeID)
		},
		OnCompileFinish: func(e *domain.CompileEvent) {
			finished = e
		},
	}
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("c", "cls", nil),
			inst("n", "number", map[string]any{"value": 3}),
		},
		Connections: []domain.Connection{next("init", "c"), wire("n", "value", "c", "col")},
	}

	out, err := compile(t, g, WithLifecycleHooks(hooks))
	require.NoError(t, err)
	assert.Equal(t, []string{"init", "c", "n"}, emitted)
	require.NotNil(t, finished)
	assert.Equal(t, 1, finished.Entries)
	assert.Equal(t, len(out), finished.Bytes)
	assert.NoError(t, finished.Err)

	_, err = compile(t, domain.Graph{Nodes: []domain.NodeInstance{inst("x", "nope", nil)}}, WithLifecycleHooks(hooks))
	require.Error(t, err)
	assert.Equal(t, err, finished.Err)
}

func TestCompile_Verification(t *testing.T) {
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("loop", "for", map[string]any{"to": 3}),
			inst("p", "print", map[string]any{"text": "hi"}),
		},
		Connections: []domain.Connection{
			next("init", "loop"),
			wire("loop", "loop", "p", domain.PinExecIn),
		},
	}

	out, err := compile(t, g, WithVerification(true))
	require.NoError(t, err)
	assert.Contains(t, out, `print("hi")`)
}

func TestCompile_SharedCompilerIsSafe(t *testing.T) {
	c := New(nodes.Catalogue())
	g := domain.Graph{
		Nodes: []domain.NodeInstance{
			inst("init", "on_init", nil),
			inst("tbl", "new_table", nil),
		},
		Connections: []domain.Connection{next("init", "tbl")},
	}
	want, err := c.Compile(g)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Compile(g)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestIndentLines(t *testing.T) {
	assert.Equal(t, []string{"    a", "", "    b"}, indentLines([]string{"a", "", "b"}, "  ", 2))
	assert.Equal(t, []string{"a"}, indentLines([]string{"a"}, "  ", 0))
}
