package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/picograph/pkg/domain"
)

// Definitions resolves definition ids for labels and shapes.
type Definitions interface {
	Definition(id string) (domain.NodeDefinition, bool)
}

// Overlay contains compile results to visualize on the graph.
type Overlay struct {
	// Emitted lists nodes the compiler visited.
	Emitted []string
	// Failed is the node an error was reported on.
	Failed string
}

// GenerateMermaid produces a Mermaid flowchart from a graph.
// It applies semantic styling:
// - Entry: ((Circle))
// - Statement (exec): [Rectangle]
// - Pure value: ([Stadium])
// - Unknown definition: [/Parallelogram/]
// Exec connections are solid arrows, value connections dotted.
func GenerateMermaid(g domain.Graph, defs Definitions, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, node := range g.Nodes {
		safeID := sanitizeMermaidID(node.ID)
		def, known := defs.Definition(node.DefinitionID)

		opener, closer := "[", "]"
		switch {
		case !known:
			opener, closer = "[/", "/]"
		case node.IsEntryPoint || def.Event != "":
			opener, closer = "((", "))"
		case !def.HasExec():
			opener, closer = "([", "])"
		}

		label := node.ID
		if known && def.Title != "" {
			label = fmt.Sprintf("%s <br/> %s", node.ID, def.Title)
		}
		if event := eventName(node, def); event != "" {
			label = fmt.Sprintf("%s <br/> %s()", node.ID, event)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer)
	}

	for _, c := range g.Connections {
		from, to := sanitizeMermaidID(c.FromNode), sanitizeMermaidID(c.ToNode)
		if isExec(g, defs, c) {
			if c.FromPin == domain.PinExecOut {
				fmt.Fprintf(&sb, "    %s --> %s\n", from, to)
			} else {
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, escapeLabel(c.FromPin), to)
			}
			continue
		}
		fmt.Fprintf(&sb, "    %s -. \"%s → %s\" .-> %s\n", from, escapeLabel(c.FromPin), escapeLabel(c.ToPin), to)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef emitted fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Emitted {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s emitted;\n", safeID)
			}
		}
		if overlay.Failed != "" {
			fmt.Fprintf(&sb, "    class %s failed;\n", sanitizeMermaidID(overlay.Failed))
		}
	}

	return sb.String()
}

// FailedNode extracts the node a compile error points at, if any.
func FailedNode(err error) string {
	var (
		unknown   *domain.UnknownNodeDefinitionError
		missing   *domain.MissingRequiredInputError
		cycle     *domain.GraphCycleError
		dangling  *domain.DanglingValueReferenceError
		invalid   *domain.InvalidPropertyValueError
		tooDeep   *domain.GraphTooComplexError
		badWire   *domain.InvalidConnectionError
		duplicate *domain.DuplicateEntryPointError
	)
	switch {
	case errors.As(err, &unknown):
		return unknown.NodeID
	case errors.As(err, &missing):
		return missing.NodeID
	case errors.As(err, &cycle):
		return cycle.NodeID
	case errors.As(err, &dangling):
		return dangling.NodeID
	case errors.As(err, &invalid):
		return invalid.NodeID
	case errors.As(err, &tooDeep):
		return tooDeep.NodeID
	case errors.As(err, &badWire):
		return badWire.Connection.ToNode
	case errors.As(err, &duplicate) && len(duplicate.NodeIDs) > 0:
		return duplicate.NodeIDs[len(duplicate.NodeIDs)-1]
	}
	return ""
}

func eventName(node domain.NodeInstance, def domain.NodeDefinition) string {
	if node.IsEntryPoint && node.EventName != "" {
		return node.EventName
	}
	return def.Event
}

func isExec(g domain.Graph, defs Definitions, c domain.Connection) bool {
	for _, n := range g.Nodes {
		if n.ID != c.FromNode {
			continue
		}
		def, ok := defs.Definition(n.DefinitionID)
		if !ok {
			return c.FromPin == domain.PinExecOut
		}
		pin, ok := def.Output(c.FromPin)
		return ok && pin.IsExec()
	}
	return false
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
