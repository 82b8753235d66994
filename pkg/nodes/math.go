package nodes

import (
	"fmt"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/node"
)

// binary builds a pure infix operator node. Operands default to their pin default.
func binary(id, title, category, op string, operand, result domain.PinKind, def any) node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       id,
			Title:    title,
			Category: category,
			Inputs:   []domain.PinConfig{valueIn("a", operand, def), valueIn("b", operand, def)},
			Outputs:  []domain.PinConfig{valueOut("value", result)},
			Properties: []domain.PropertyConfig{
				{ID: "a", Kind: operand},
				{ID: "b", Kind: operand},
			},
			SearchTags: []string{op},
		},
		Value: func(ctx node.Context, _ string) (string, error) {
			a, err := resolve(ctx, "a")
			if err != nil {
				return "", err
			}
			b, err := resolve(ctx, "b")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("(%s %s %s)", a.Expr(), op, b.Expr()), nil
		},
	}
}

func unary(id, title, category, op string, kind domain.PinKind, def any) node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:         id,
			Title:      title,
			Category:   category,
			Inputs:     []domain.PinConfig{valueIn("a", kind, def)},
			Outputs:    []domain.PinConfig{valueOut("value", kind)},
			Properties: []domain.PropertyConfig{{ID: "a", Kind: kind}},
		},
		Value: func(ctx node.Context, _ string) (string, error) {
			a, err := resolve(ctx, "a")
			if err != nil {
				return "", err
			}
			// The operand is parenthesised so "-" never meets a leading "-" and opens a comment.
			return fmt.Sprintf("(%s(%s))", op, a.Expr()), nil
		},
	}
}

var comparisons = []string{"==", "~=", "<", "<=", ">", ">="}

func compareNode() node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       "compare",
			Title:    "Compare",
			Category: "Logic",
			Inputs:   []domain.PinConfig{valueIn("a", domain.KindAny, 0), valueIn("b", domain.KindAny, 0)},
			Outputs:  []domain.PinConfig{valueOut("value", domain.KindBoolean)},
			Properties: []domain.PropertyConfig{
				{ID: "op", Kind: domain.KindEnum, Default: "==", Options: comparisons},
				{ID: "a", Kind: domain.KindAny},
				{ID: "b", Kind: domain.KindAny},
			},
			SearchTags: comparisons,
		},
		Value: func(ctx node.Context, _ string) (string, error) {
			// Literal validates the enum; the operator itself is emitted bare.
			if _, err := ctx.Literal("op"); err != nil {
				return "", err
			}
			op, _ := ctx.Property("op")
			a, err := resolve(ctx, "a")
			if err != nil {
				return "", err
			}
			b, err := resolve(ctx, "b")
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("(%s %v %s)", a.Expr(), op, b.Expr()), nil
		},
	}
}

func mathModules() []node.Module {
	n := domain.KindNumber
	return []node.Module{
		binary("add", "Add", "Math", "+", n, n, 0),
		binary("subtract", "Subtract", "Math", "-", n, n, 0),
		binary("multiply", "Multiply", "Math", "*", n, n, 1),
		binary("divide", "Divide", "Math", "/", n, n, 1),
		binary("modulo", "Modulo", "Math", "%", n, n, 1),
		binary("power", "Power", "Math", "^", n, n, 1),
		unary("negate", "Negate", "Math", "-", n, 0),
		function("flr", "Floor", "Math", "flr", n, num("x", "0")),
		function("ceil", "Ceiling", "Math", "ceil", n, num("x", "0")),
		function("abs", "Absolute", "Math", "abs", n, num("x", "0")),
		function("sgn", "Sign", "Math", "sgn", n, num("x", "0")),
		function("sqrt", "Square Root", "Math", "sqrt", n, num("x", "0")),
		function("sin", "Sine", "Math", "sin", n, num("x", "0")),
		function("cos", "Cosine", "Math", "cos", n, num("x", "0")),
		function("atan2", "Angle", "Math", "atan2", n, num("dx", "0"), num("dy", "0")),
		function("min", "Minimum", "Math", "min", n, num("a", "0"), num("b", "0")),
		function("max", "Maximum", "Math", "max", n, num("a", "0"), num("b", "0")),
		function("mid", "Middle", "Math", "mid", n, num("a", "0"), num("b", "0"), num("c", "0")),
		function("rnd", "Random", "Math", "rnd", domain.KindAny, s("x", domain.KindAny, "1")),
		function("time", "Time", "Math", "time", n),
		statement("srand", "Seed Random", "Math", "srand", num("x", "0")),
	}
}

func logicModules() []node.Module {
	b := domain.KindBoolean
	return []node.Module{
		compareNode(),
		binary("and", "And", "Logic", "and", b, b, false),
		binary("or", "Or", "Logic", "or", b, b, false),
		unary("not", "Not", "Logic", "not ", b, false),
	}
}
