package nodes

import (
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/lua"
	"github.com/aretw0/picograph/pkg/node"
)

// newTableNode materializes a table into a local so every reader shares one instance.
func newTableNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "new_table",
			Title:    "New Table",
			Category: "Tables",
			Inputs:   []domain.PinConfig{execIn()},
			Outputs: []domain.PinConfig{
				execOut(domain.PinExecOut, ""),
				valueOut("table", domain.KindTable),
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			t := ctx.Temp("t")
			ctx.Bind("table", t)
			return chain(ctx, "local "+t+" = {}")
		},
	}
}

func getIndexNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "get_index",
			Title:    "Get Field",
			Category: "Tables",
			Inputs: []domain.PinConfig{
				requiredIn("table", domain.KindTable),
				requiredIn("key", domain.KindAny),
			},
			Outputs:    []domain.PinConfig{valueOut("value", domain.KindAny)},
			Properties: []domain.PropertyConfig{{ID: "key", Kind: domain.KindAny}},
		},
		Value: func(ctx node.Context, _ string) (string, error) {
			t, err := ctx.ResolveValueInput("table", lua.Omitted())
			if err != nil {
				return "", err
			}
			k, err := resolve(ctx, "key")
			if err != nil {
				return "", err
			}
			return t.Expr() + "[" + k.Expr() + "]", nil
		},
	}
}

func setIndexNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "set_index",
			Title:    "Set Field",
			Category: "Tables",
			Inputs: []domain.PinConfig{
				execIn(),
				requiredIn("table", domain.KindTable),
				requiredIn("key", domain.KindAny),
				valueIn("value", domain.KindAny, nil),
			},
			Outputs: []domain.PinConfig{execOut(domain.PinExecOut, "")},
			Properties: []domain.PropertyConfig{
				{ID: "key", Kind: domain.KindAny},
				{ID: "value", Kind: domain.KindAny},
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			t, err := ctx.ResolveValueInput("table", lua.Omitted())
			if err != nil {
				return nil, err
			}
			k, err := resolve(ctx, "key")
			if err != nil {
				return nil, err
			}
			v, err := resolve(ctx, "value")
			if err != nil {
				return nil, err
			}
			return chain(ctx, t.Expr()+"["+k.Expr()+"] = "+v.Expr())
		},
	}
}

func tableModules() []node.Module {
	return []node.Module{
		newTableNode(),
		getIndexNode(),
		setIndexNode(),
		statement("table_add", "Add To Table", "Tables", "add", req("table", domain.KindTable), req("value", domain.KindAny), s("index", domain.KindNumber, "nil")),
		statement("table_del", "Delete From Table", "Tables", "del", req("table", domain.KindTable), req("value", domain.KindAny)),
		statement("table_deli", "Delete Index", "Tables", "deli", req("table", domain.KindTable), s("index", domain.KindNumber, "nil")),
		function("count", "Count", "Tables", "count", domain.KindNumber, req("table", domain.KindTable)),
	}
}
