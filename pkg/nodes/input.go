package nodes

import (
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/node"
)

func inputModules() []node.Module {
	return []node.Module{
		function("btn", "Button Held", "Input", "btn", domain.KindBoolean, num("i", "0"), num("p", "0")),
		function("btnp", "Button Pressed", "Input", "btnp", domain.KindBoolean, num("i", "0"), num("p", "0")),
		function("stat", "System Status", "Input", "stat", domain.KindAny, req("n", domain.KindNumber)),
	}
}
