package nodes

import (
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/node"
)

// literal builds a pure node rendering its "value" property.
func literal(id, title string, kind domain.PinKind, def any) node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:         id,
			Title:      title,
			Category:   "Values",
			Outputs:    []domain.PinConfig{valueOut("value", kind)},
			Properties: []domain.PropertyConfig{{ID: "value", Kind: kind, Default: def}},
		},
		Value: func(ctx node.Context, _ string) (string, error) {
			return ctx.Literal("value")
		},
	}
}

func valueModules() []node.Module {
	return []node.Module{
		literal("number", "Number", domain.KindNumber, 0),
		literal("string", "String", domain.KindString, ""),
		literal("boolean", "Boolean", domain.KindBoolean, false),
		literal("nil", "Nil", domain.KindAny, nil),
		literal("table_literal", "Table Literal", domain.KindTable, []any{}),
	}
}

func stringModules() []node.Module {
	s := domain.KindString
	return []node.Module{
		binary("concat", "Concatenate", "Strings", "..", domain.KindAny, s, ""),
		function("tostr", "To String", "Strings", "tostr", s, req("v", domain.KindAny), slot{pin: "hex", kind: domain.KindBoolean, placeholder: "false"}),
		function("tonum", "To Number", "Strings", "tonum", domain.KindNumber, req("s", domain.KindAny)),
		function("sub", "Substring", "Strings", "sub", s, req("s", s), num("i", "1"), num("j", "-1")),
		function("chr", "Character", "Strings", "chr", s, num("n", "0")),
		function("split", "Split", "Strings", "split", domain.KindTable, req("s", s), slot{pin: "sep", kind: s, placeholder: `","`}),
	}
}

func debugModules() []node.Module {
	return []node.Module{
		statement("printh", "Print To Host", "Debug", "printh", req("text", domain.KindAny)),
		statement("stop", "Stop", "Debug", "stop", s("message", domain.KindString, `""`)),
	}
}
