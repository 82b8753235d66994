package nodes

import (
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/node"
)

func nameProperty() domain.PropertyConfig {
	return domain.PropertyConfig{ID: "name", Kind: domain.KindString, Default: "x", Description: "Variable name"}
}

func getVariableNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:         "get_variable",
			Title:      "Get Variable",
			Category:   "Variables",
			Outputs:    []domain.PinConfig{valueOut("value", domain.KindAny)},
			Properties: []domain.PropertyConfig{nameProperty()},
		},
		Value: func(ctx node.Context, _ string) (string, error) {
			return ctx.Identifier("name")
		},
	}
}

func setVariableNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "set_variable",
			Title:    "Set Variable",
			Category: "Variables",
			Inputs:   []domain.PinConfig{execIn(), valueIn("value", domain.KindAny, nil)},
			Outputs:  []domain.PinConfig{execOut(domain.PinExecOut, "")},
			Properties: []domain.PropertyConfig{
				nameProperty(),
				{ID: "local", Kind: domain.KindBoolean, Default: false, Description: "Declare with local"},
				{ID: "value", Kind: domain.KindAny},
			},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			name, err := ctx.Identifier("name")
			if err != nil {
				return nil, err
			}
			value, err := resolve(ctx, "value")
			if err != nil {
				return nil, err
			}
			isLocal, err := ctx.Literal("local")
			if err != nil {
				return nil, err
			}
			line := name + " = " + value.Expr()
			if isLocal == "true" {
				line = "local " + line
			}
			return chain(ctx, line)
		},
	}
}

// incrementNode is the common "x += n" shorthand, emitted in plain Lua.
func incrementNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:         "increment",
			Title:      "Increment Variable",
			Category:   "Variables",
			Inputs:     []domain.PinConfig{execIn(), valueIn("by", domain.KindNumber, 1)},
			Outputs:    []domain.PinConfig{execOut(domain.PinExecOut, "")},
			Properties: []domain.PropertyConfig{nameProperty(), {ID: "by", Kind: domain.KindNumber}},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			name, err := ctx.Identifier("name")
			if err != nil {
				return nil, err
			}
			by, err := resolve(ctx, "by")
			if err != nil {
				return nil, err
			}
			return chain(ctx, name+" = "+name+" + "+by.Or("1").Expr())
		},
	}
}

func variableModules() []node.Module {
	return []node.Module{
		getVariableNode(),
		setVariableNode(),
		incrementNode(),
	}
}
