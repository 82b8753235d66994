package domain

// Lifecycle callback names recognised by PICO-8.
const (
	EventInit     = "_init"
	EventUpdate   = "_update"
	EventUpdate60 = "_update60"
	EventDraw     = "_draw"
)

// Conventional pin ids shared by the built-in catalogue.
const (
	// PinExecIn is the exec input every statement node exposes.
	PinExecIn = "exec"
	// PinExecOut continues the chain after a statement node.
	PinExecOut = "then"
)

// EventPriority returns the assembly order of a lifecycle event.
// Unknown (custom) events sort after the built-in ones.
func EventPriority(event string) int {
	switch event {
	case EventInit:
		return 0
	case EventUpdate:
		return 1
	case EventUpdate60:
		return 2
	case EventDraw:
		return 3
	default:
		return 4
	}
}
