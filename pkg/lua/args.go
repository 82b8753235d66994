package lua

import "strings"

// Arg is a resolved argument slot: either a Lua expression or nothing at all.
// The zero value is an omitted slot.
type Arg struct {
	expr    string
	present bool
}

// Value wraps a Lua expression.
func Value(expr string) Arg {
	return Arg{expr: expr, present: true}
}

// Omitted marks a slot the user did not provide.
func Omitted() Arg {
	return Arg{}
}

// IsOmitted reports whether the slot carries no expression.
func (a Arg) IsOmitted() bool {
	return !a.present
}

// Expr returns the expression, or "nil" for an omitted slot.
func (a Arg) Expr() string {
	if !a.present {
		return "nil"
	}
	return a.expr
}

// Or returns a when present, otherwise Value(fallback).
func (a Arg) Or(fallback string) Arg {
	if a.present {
		return a
	}
	return Value(fallback)
}

func (a Arg) String() string {
	if !a.present {
		return "<omitted>"
	}
	return a.expr
}

// TrimArgs reconstructs the argument list of a call with trailing optional arguments.
// Slots after the last provided one are dropped. Omitted slots before it are filled
// with the matching entry of defaults, or nil when no default is declared.
func TrimArgs(args []Arg, defaults []string) []string {
	last := -1
	for i := len(args) - 1; i >= 0; i-- {
		if !args[i].IsOmitted() {
			last = i
			break
		}
	}

	out := make([]string, 0, last+1)
	for i := 0; i <= last; i++ {
		switch {
		case !args[i].IsOmitted():
			out = append(out, args[i].expr)
		case i < len(defaults) && defaults[i] != "":
			out = append(out, defaults[i])
		default:
			out = append(out, "nil")
		}
	}
	return out
}

// Call renders fn(args...) after omission reconstruction.
func Call(fn string, args []Arg, defaults []string) string {
	return fn + "(" + strings.Join(TrimArgs(args, defaults), ", ") + ")"
}
