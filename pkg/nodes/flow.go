package nodes

import (
	"fmt"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/lua"
	"github.com/aretw0/picograph/pkg/node"
)

func flowModules() []node.Module {
	return []node.Module{
		ifNode(),
		forNode(),
		foreachNode(),
		whileNode(),
		sequenceNode(),
	}
}

// block wraps a branch in opener/closer lines and continues with the given exec pin.
func block(ctx node.Context, opener string, body []string, closer, next string) ([]string, error) {
	lines := append([]string{opener}, body...)
	lines = append(lines, closer)
	rest, err := ctx.EmitNextExec(next)
	if err != nil {
		return nil, err
	}
	return append(lines, rest...), nil
}

func ifNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "if",
			Title:    "If",
			Category: "Flow",
			Inputs:   []domain.PinConfig{execIn(), requiredIn("condition", domain.KindBoolean)},
			Outputs: []domain.PinConfig{
				execOut("true", "Runs when the condition holds"),
				execOut("false", "Runs otherwise"),
				execOut(domain.PinExecOut, "Runs after either branch"),
			},
			SearchTags: []string{"branch", "else"},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			cond, err := ctx.ResolveValueInput("condition", lua.Omitted())
			if err != nil {
				return nil, err
			}
			yes, err := ctx.EmitBranch("true", node.BranchOptions{Indent: 1})
			if err != nil {
				return nil, err
			}
			no, err := ctx.EmitBranch("false", node.BranchOptions{Indent: 1})
			if err != nil {
				return nil, err
			}
			body := yes
			if len(no) > 0 {
				body = append(append(append([]string{}, yes...), "else"), no...)
			}
			return block(ctx, "if "+cond.Expr()+" then", body, "end", domain.PinExecOut)
		},
	}
}

func forNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "for",
			Title:    "For Range",
			Category: "Flow",
			Inputs: []domain.PinConfig{
				execIn(),
				valueIn("from", domain.KindNumber, 1),
				valueIn("to", domain.KindNumber, 10),
				valueIn("step", domain.KindNumber, nil),
			},
			Outputs: []domain.PinConfig{
				execOut("loop", "Loop body"),
				valueOut("index", domain.KindNumber),
				execOut("completed", "Runs after the loop"),
			},
			Properties: []domain.PropertyConfig{
				{ID: "from", Kind: domain.KindNumber},
				{ID: "to", Kind: domain.KindNumber},
				{ID: "step", Kind: domain.KindNumber},
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			args, err := resolveAll(ctx, []slot{num("from", ""), num("to", ""), num("step", "")})
			if err != nil {
				return nil, err
			}
			index := ctx.Temp("i")
			header := fmt.Sprintf("for %s = %s, %s", index, args[0].Expr(), args[1].Expr())
			if !args[2].IsOmitted() {
				header += ", " + args[2].Expr()
			}
			body, err := ctx.EmitBranch("loop", node.BranchOptions{
				Indent:   1,
				Bindings: map[string]string{"index": index},
			})
			if err != nil {
				return nil, err
			}
			return block(ctx, header+" do", body, "end", "completed")
		},
	}
}

func foreachNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "foreach",
			Title:    "For Each",
			Category: "Flow",
			Inputs:   []domain.PinConfig{execIn(), requiredIn("table", domain.KindTable)},
			Outputs: []domain.PinConfig{
				execOut("loop", "Loop body"),
				valueOut("item", domain.KindAny),
				execOut("completed", "Runs after the loop"),
			},
			SearchTags: []string{"all", "iterate"},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			tbl, err := ctx.ResolveValueInput("table", lua.Omitted())
			if err != nil {
				return nil, err
			}
			item := ctx.Temp("item")
			body, err := ctx.EmitBranch("loop", node.BranchOptions{
				Indent:   1,
				Bindings: map[string]string{"item": item},
			})
			if err != nil {
				return nil, err
			}
			header := fmt.Sprintf("for %s in all(%s) do", item, tbl.Expr())
			return block(ctx, header, body, "end", "completed")
		},
	}
}

func whileNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "while",
			Title:    "While",
			Category: "Flow",
			Inputs:   []domain.PinConfig{execIn(), requiredIn("condition", domain.KindBoolean)},
			Outputs: []domain.PinConfig{
				execOut("loop", "Loop body"),
				execOut("completed", "Runs after the loop"),
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			cond, err := ctx.ResolveValueInput("condition", lua.Omitted())
			if err != nil {
				return nil, err
			}
			body, err := ctx.EmitBranch("loop", node.BranchOptions{Indent: 1})
			if err != nil {
				return nil, err
			}
			return block(ctx, "while "+cond.Expr()+" do", body, "end", "completed")
		},
	}
}

// sequenceNode runs two chains one after the other at the same level.
func sequenceNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "sequence",
			Title:    "Sequence",
			Category: "Flow",
			Inputs:   []domain.PinConfig{execIn()},
			Outputs: []domain.PinConfig{
				execOut("first", "Runs first"),
				execOut(domain.PinExecOut, "Runs second"),
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			first, err := ctx.EmitBranch("first", node.BranchOptions{})
			if err != nil {
				return nil, err
			}
			return chain(ctx, first...)
		},
	}
}
