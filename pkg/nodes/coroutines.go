package nodes

import (
	"fmt"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/lua"
	"github.com/aretw0/picograph/pkg/node"
)

// cocreateNode wraps its body chain in a function and stores the coroutine in a local.
func cocreateNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "cocreate",
			Title:    "Create Coroutine",
			Category: "Coroutines",
			Inputs:   []domain.PinConfig{execIn()},
			Outputs: []domain.PinConfig{
				execOut("body", "Coroutine body"),
				execOut(domain.PinExecOut, ""),
				valueOut("coroutine", domain.KindTable),
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			co := ctx.Temp("co")
			body, err := ctx.EmitBranch("body", node.BranchOptions{Indent: 1})
			if err != nil {
				return nil, err
			}
			ctx.Bind("coroutine", co)
			lines := append([]string{"local " + co + " = cocreate(function()"}, body...)
			return chain(ctx, append(lines, "end)")...)
		},
	}
}

// coresumeNode is the two-phase example: one statement binds both results,
// later readers get the locals back by name.
func coresumeNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "coresume",
			Title:    "Resume Coroutine",
			Category: "Coroutines",
			Inputs:   []domain.PinConfig{execIn(), requiredIn("coroutine", domain.KindTable)},
			Outputs: []domain.PinConfig{
				execOut(domain.PinExecOut, ""),
				valueOut("ok", domain.KindBoolean),
				valueOut("value", domain.KindAny),
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			co, err := ctx.ResolveValueInput("coroutine", lua.Omitted())
			if err != nil {
				return nil, err
			}
			ok := ctx.Temp("ok")
			value := ctx.Temp("value")
			ctx.Bind("ok", ok)
			ctx.Bind("value", value)
			return chain(ctx, fmt.Sprintf("local %s, %s = coresume(%s)", ok, value, co.Expr()))
		},
	}
}

func coroutineModules() []node.Module {
	return []node.Module{
		cocreateNode(),
		coresumeNode(),
		function("costatus", "Coroutine Status", "Coroutines", "costatus", domain.KindString, req("coroutine", domain.KindTable)),
		statement("yield", "Yield", "Coroutines", "yield", s("value", domain.KindAny, "nil")),
	}
}
