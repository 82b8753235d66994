package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors of the compile taxonomy. Every typed error below unwraps to one of them.
var (
	ErrUnknownNodeDefinition  = errors.New("unknown node definition")
	ErrMissingRequiredInput   = errors.New("missing required input")
	ErrGraphCycleDetected     = errors.New("graph cycle detected")
	ErrDanglingValueReference = errors.New("dangling value reference")
	ErrInvalidPropertyValue   = errors.New("invalid property value")
	ErrDuplicateEntryPoint    = errors.New("duplicate entry point")
	ErrGraphTooComplex        = errors.New("graph too complex")
	ErrInvalidConnection      = errors.New("invalid connection")
	ErrInvalidGraph           = errors.New("invalid graph")
)

// UnknownNodeDefinitionError is returned when an instance references an id absent from the catalogue.
type UnknownNodeDefinitionError struct {
	NodeID       string
	DefinitionID string
}

func (e *UnknownNodeDefinitionError) Error() string {
	return fmt.Sprintf("node '%s': unknown definition '%s'", e.NodeID, e.DefinitionID)
}

func (e *UnknownNodeDefinitionError) Unwrap() error { return ErrUnknownNodeDefinition }

// MissingRequiredInputError is returned when a required pin has neither a connection nor a fallback.
type MissingRequiredInputError struct {
	NodeID string
	PinID  string
}

func (e *MissingRequiredInputError) Error() string {
	return fmt.Sprintf("node '%s': required input '%s' is not connected", e.NodeID, e.PinID)
}

func (e *MissingRequiredInputError) Unwrap() error { return ErrMissingRequiredInput }

// CycleKind distinguishes control-flow cycles from data-dependency cycles.
type CycleKind string

const (
	CycleExec  CycleKind = "exec"
	CycleValue CycleKind = "value"
)

// GraphCycleError names the node that re-entered the active traversal path.
type GraphCycleError struct {
	NodeID string
	Kind   CycleKind
	// Path is the active traversal path at the moment the cycle closed.
	Path []string
}

func (e *GraphCycleError) Error() string {
	return fmt.Sprintf("%s cycle detected involving node '%s' (path: %s)",
		e.Kind, e.NodeID, strings.Join(append(append([]string{}, e.Path...), e.NodeID), " -> "))
}

func (e *GraphCycleError) Unwrap() error { return ErrGraphCycleDetected }

// DanglingValueReferenceError is returned when a stateful producer is read before it was emitted.
type DanglingValueReferenceError struct {
	NodeID      string
	PinID       string
	ProducerID  string
	ProducerPin string
}

func (e *DanglingValueReferenceError) Error() string {
	return fmt.Sprintf("node '%s': input '%s' reads '%s.%s' before it is emitted on the active exec path",
		e.NodeID, e.PinID, e.ProducerID, e.ProducerPin)
}

func (e *DanglingValueReferenceError) Unwrap() error { return ErrDanglingValueReference }

// InvalidPropertyValueError wraps a literal formatting failure.
type InvalidPropertyValueError struct {
	NodeID   string
	Property string
	Value    any
	Err      error
}

func (e *InvalidPropertyValueError) Error() string {
	return fmt.Sprintf("node '%s': property '%s' has invalid value %v: %v", e.NodeID, e.Property, e.Value, e.Err)
}

func (e *InvalidPropertyValueError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidPropertyValue}
	}
	return []error{ErrInvalidPropertyValue, e.Err}
}

// DuplicateEntryPointError lists every node claiming the same lifecycle event.
type DuplicateEntryPointError struct {
	EventName string
	NodeIDs   []string
}

func (e *DuplicateEntryPointError) Error() string {
	return fmt.Sprintf("event '%s' has %d entry points: %s", e.EventName, len(e.NodeIDs), strings.Join(e.NodeIDs, ", "))
}

func (e *DuplicateEntryPointError) Unwrap() error { return ErrDuplicateEntryPoint }

// GraphTooComplexError is returned when traversal exceeds the configured depth ceiling.
type GraphTooComplexError struct {
	NodeID string
	Limit  int
}

func (e *GraphTooComplexError) Error() string {
	return fmt.Sprintf("graph too complex: depth limit %d exceeded at node '%s'", e.Limit, e.NodeID)
}

func (e *GraphTooComplexError) Unwrap() error { return ErrGraphTooComplex }

// InvalidConnectionError reports a connection violating the graph invariants.
type InvalidConnectionError struct {
	Connection Connection
	Reason     string
}

func (e *InvalidConnectionError) Error() string {
	c := e.Connection
	return fmt.Sprintf("connection %s.%s -> %s.%s: %s", c.FromNode, c.FromPin, c.ToNode, c.ToPin, e.Reason)
}

func (e *InvalidConnectionError) Unwrap() error { return ErrInvalidConnection }

// ErrorKind returns a stable short name for the taxonomy entry of err.
// It returns "internal" for errors outside the taxonomy.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownNodeDefinition):
		return "unknown_node_definition"
	case errors.Is(err, ErrMissingRequiredInput):
		return "missing_required_input"
	case errors.Is(err, ErrGraphCycleDetected):
		return "graph_cycle_detected"
	case errors.Is(err, ErrDanglingValueReference):
		return "dangling_value_reference"
	case errors.Is(err, ErrInvalidPropertyValue):
		return "invalid_property_value"
	case errors.Is(err, ErrDuplicateEntryPoint):
		return "duplicate_entry_point"
	case errors.Is(err, ErrGraphTooComplex):
		return "graph_too_complex"
	case errors.Is(err, ErrInvalidConnection):
		return "invalid_connection"
	case errors.Is(err, ErrInvalidGraph):
		return "invalid_graph"
	default:
		return "internal"
	}
}
