package domain

// PinKind is the type carried by a pin.
// Exec pins form the control-flow graph, every other kind forms the value graph.
type PinKind string

const (
	KindExec    PinKind = "exec"
	KindNumber  PinKind = "number"
	KindBoolean PinKind = "boolean"
	KindString  PinKind = "string"
	KindTable   PinKind = "table"
	KindAny     PinKind = "any"
	// KindEnum is only valid for properties.
	KindEnum PinKind = "enum"
)

// Direction tells whether a pin consumes or produces.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// PinConfig describes a single connection point of a node definition.
type PinConfig struct {
	ID          string    `json:"id" yaml:"id"`
	Direction   Direction `json:"direction" yaml:"direction"`
	Kind        PinKind   `json:"kind" yaml:"kind"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	// Required pins fail compilation when left unconnected without a usable fallback.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`
}

// IsExec reports whether the pin belongs to the control-flow graph.
func (p PinConfig) IsExec() bool {
	return p.Kind == KindExec
}

// PropertyConfig describes a value editable in the inspector.
type PropertyConfig struct {
	ID          string   `json:"id" yaml:"id"`
	Kind        PinKind  `json:"kind" yaml:"kind"`
	Default     any      `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// NodeDefinition is the immutable catalogue schema of a node.
// One definition is shared by every instance referencing its ID.
type NodeDefinition struct {
	ID         string           `json:"id" yaml:"id"`
	Title      string           `json:"title" yaml:"title"`
	Category   string           `json:"category" yaml:"category"`
	Inputs     []PinConfig      `json:"inputs" yaml:"inputs"`
	Outputs    []PinConfig      `json:"outputs" yaml:"outputs"`
	Properties []PropertyConfig `json:"properties,omitempty" yaml:"properties,omitempty"`
	SearchTags []string         `json:"search_tags,omitempty" yaml:"search_tags,omitempty"`

	// Event marks every instance of this definition as the root of the named
	// lifecycle callback (e.g. "_draw").
	Event string `json:"event,omitempty" yaml:"event,omitempty"`
}

// Input returns the input pin with the given id.
func (d NodeDefinition) Input(id string) (PinConfig, bool) {
	for _, p := range d.Inputs {
		if p.ID == id {
			return p, true
		}
	}
	return PinConfig{}, false
}

// Output returns the output pin with the given id.
func (d NodeDefinition) Output(id string) (PinConfig, bool) {
	for _, p := range d.Outputs {
		if p.ID == id {
			return p, true
		}
	}
	return PinConfig{}, false
}

// Property returns the property schema with the given id.
func (d NodeDefinition) Property(id string) (PropertyConfig, bool) {
	for _, p := range d.Properties {
		if p.ID == id {
			return p, true
		}
	}
	return PropertyConfig{}, false
}

// HasExec reports whether the definition takes part in the control-flow graph.
func (d NodeDefinition) HasExec() bool {
	for _, p := range d.Inputs {
		if p.IsExec() {
			return true
		}
	}
	for _, p := range d.Outputs {
		if p.IsExec() {
			return true
		}
	}
	return false
}

// Position is editor metadata. The compiler ignores it.
type Position struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// NodeInstance is a node placed in a user graph.
type NodeInstance struct {
	ID           string         `json:"id" yaml:"id" mapstructure:"id"`
	DefinitionID string         `json:"definitionId" yaml:"definitionId" mapstructure:"definitionId"`
	Properties   map[string]any `json:"properties,omitempty" yaml:"properties,omitempty" mapstructure:"properties"`
	Position     *Position      `json:"position,omitempty" yaml:"position,omitempty" mapstructure:"position"`
	IsEntryPoint bool           `json:"isEntryPoint,omitempty" yaml:"isEntryPoint,omitempty" mapstructure:"isEntryPoint"`
	EventName    string         `json:"eventName,omitempty" yaml:"eventName,omitempty" mapstructure:"eventName"`
}
