package nodes

import (
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/node"
)

func eventNode(id, title, event string) node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:       id,
			Title:    title,
			Category: "Events",
			Outputs:  []domain.PinConfig{execOut(domain.PinExecOut, "Body of the callback")},
			Event:    event,
		},
		Exec: func(ctx node.Context) ([]string, error) {
			return ctx.EmitNextExec(domain.PinExecOut)
		},
	}
}

func eventModules() []node.Module {
	return []node.Module{
		eventNode("on_init", "On Init", domain.EventInit),
		eventNode("on_update", "On Update (30fps)", domain.EventUpdate),
		eventNode("on_update60", "On Update (60fps)", domain.EventUpdate60),
		eventNode("on_draw", "On Draw", domain.EventDraw),
		// A custom function root. Instances pick the name via isEntryPoint/eventName.
		eventNode("function", "Function", ""),
	}
}
