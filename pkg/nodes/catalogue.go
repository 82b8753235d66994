package nodes

import (
	"github.com/aretw0/picograph/pkg/node"
	"github.com/aretw0/picograph/pkg/registry"
)

// Modules returns every built-in module.
func Modules() []node.Module {
	groups := [][]node.Module{
		eventModules(),
		flowModules(),
		graphicsModules(),
		audioModules(),
		inputModules(),
		mathModules(),
		logicModules(),
		valueModules(),
		stringModules(),
		variableModules(),
		tableModules(),
		coroutineModules(),
		debugModules(),
	}
	var out []node.Module
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Catalogue builds a new registry holding the built-in modules.
func Catalogue() *registry.Registry {
	return registry.MustNew(Modules()...)
}
