package graph

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/picograph/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Decode parses a serialized graph document. JSON is accepted as a subset of YAML.
func Decode(data []byte) (domain.Graph, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.Graph{}, fmt.Errorf("failed to parse graph document: %w", err)
	}

	var g domain.Graph
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &g,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	})
	if err != nil {
		return domain.Graph{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return domain.Graph{}, fmt.Errorf("failed to decode graph document: %w", err)
	}
	return g, nil
}

// Encode serializes a graph as indented JSON.
func Encode(g domain.Graph) ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return data, nil
}
