package nodes

import (
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/lua"
	"github.com/aretw0/picograph/pkg/node"
)

func execIn() domain.PinConfig {
	return domain.PinConfig{ID: domain.PinExecIn, Direction: domain.DirectionInput, Kind: domain.KindExec}
}

func execOut(id, description string) domain.PinConfig {
	return domain.PinConfig{ID: id, Direction: domain.DirectionOutput, Kind: domain.KindExec, Description: description}
}

func valueIn(id string, kind domain.PinKind, def any) domain.PinConfig {
	return domain.PinConfig{ID: id, Direction: domain.DirectionInput, Kind: kind, Default: def}
}

func requiredIn(id string, kind domain.PinKind) domain.PinConfig {
	return domain.PinConfig{ID: id, Direction: domain.DirectionInput, Kind: kind, Required: true}
}

func valueOut(id string, kind domain.PinKind) domain.PinConfig {
	return domain.PinConfig{ID: id, Direction: domain.DirectionOutput, Kind: kind}
}

// slot is one positional argument of a PICO-8 call.
type slot struct {
	pin  string
	kind domain.PinKind
	// placeholder stands in for the slot when it is omitted but a later one is given.
	placeholder string
	required    bool
}

func s(pin string, kind domain.PinKind, placeholder string) slot {
	return slot{pin: pin, kind: kind, placeholder: placeholder}
}

func req(pin string, kind domain.PinKind) slot {
	return slot{pin: pin, kind: kind, required: true}
}

func num(pin, placeholder string) slot {
	return s(pin, domain.KindNumber, placeholder)
}

func slotPins(slots []slot) []domain.PinConfig {
	pins := make([]domain.PinConfig, 0, len(slots))
	for _, sl := range slots {
		pins = append(pins, domain.PinConfig{
			ID: sl.pin, Direction: domain.DirectionInput, Kind: sl.kind, Required: sl.required,
		})
	}
	return pins
}

func slotProps(slots []slot) []domain.PropertyConfig {
	props := make([]domain.PropertyConfig, 0, len(slots))
	for _, sl := range slots {
		props = append(props, domain.PropertyConfig{ID: sl.pin, Kind: sl.kind})
	}
	return props
}

func placeholders(slots []slot) []string {
	out := make([]string, len(slots))
	for i, sl := range slots {
		out[i] = sl.placeholder
	}
	return out
}

// propertyArg turns an inspector property into a fallback argument.
func propertyArg(ctx node.Context, key string) (lua.Arg, error) {
	if v, ok := ctx.Property(key); !ok || v == nil {
		return lua.Omitted(), nil
	}
	lit, err := ctx.Literal(key)
	if err != nil {
		return lua.Arg{}, err
	}
	return lua.Value(lit), nil
}

// resolve reads a value pin, using the property of the same id as fallback.
func resolve(ctx node.Context, pin string) (lua.Arg, error) {
	fallback, err := propertyArg(ctx, pin)
	if err != nil {
		return lua.Arg{}, err
	}
	return ctx.ResolveValueInput(pin, fallback)
}

func resolveAll(ctx node.Context, slots []slot) ([]lua.Arg, error) {
	args := make([]lua.Arg, 0, len(slots))
	for _, sl := range slots {
		a, err := resolve(ctx, sl.pin)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

// statement builds a node emitting a single PICO-8 call and continuing the chain.
func statement(id, title, category, fn string, slots ...slot) node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:         id,
			Title:      title,
			Category:   category,
			Inputs:     append([]domain.PinConfig{execIn()}, slotPins(slots)...),
			Outputs:    []domain.PinConfig{execOut(domain.PinExecOut, "")},
			Properties: slotProps(slots),
			SearchTags: []string{fn},
		},
		Exec: func(ctx node.Context) ([]string, error) {
			args, err := resolveAll(ctx, slots)
			if err != nil {
				return nil, err
			}
			return chain(ctx, lua.Call(fn, args, placeholders(slots)))
		},
	}
}

// function builds a pure node evaluating a single PICO-8 call.
func function(id, title, category, fn string, result domain.PinKind, slots ...slot) node.Module {
	return node.Module{
		Definition: domain.NodeDefinition{
			ID:         id,
			Title:      title,
			Category:   category,
			Inputs:     slotPins(slots),
			Outputs:    []domain.PinConfig{valueOut("value", result)},
			Properties: slotProps(slots),
			SearchTags: []string{fn},
		},
		Value: func(ctx node.Context, _ string) (string, error) {
			args, err := resolveAll(ctx, slots)
			if err != nil {
				return "", err
			}
			return lua.Call(fn, args, placeholders(slots)), nil
		},
	}
}

// chain prepends lines to the statements emitted after this node.
func chain(ctx node.Context, lines ...string) ([]string, error) {
	next, err := ctx.EmitNextExec(domain.PinExecOut)
	if err != nil {
		return nil, err
	}
	return append(lines, next...), nil
}
