package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// DefaultLocation names the built-in framework schema.
const DefaultLocation = "framework.schema.json"

// Framework is the shape of a reasoning framework template. The built-in
// schema is reflected from it, so the Go type is the single source of truth.
type Framework struct {
	Name          string        `json:"name" jsonschema:"required,minLength=1,description=Display name of the framework"`
	Category      string        `json:"category" jsonschema:"required,minLength=1,description=Category directory the framework belongs to"`
	Version       string        `json:"version,omitempty" jsonschema:"description=Framework version. Must be a quoted string"`
	Documentation Documentation `json:"documentation" jsonschema:"required"`
	Framework     Body          `json:"framework" jsonschema:"required"`
	LegacyContent string        `json:"legacy_content,omitempty"`
}

// Documentation holds the human-facing metadata of a framework.
type Documentation struct {
	Purpose string `json:"purpose,omitempty"`
	UseCase string `json:"use_case,omitempty"`
}

// Body is the prompt payload of a framework.
type Body struct {
	Content string `json:"content,omitempty"`
}

func reflectFramework() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	s := r.Reflect(&Framework{})
	s.ID = ""
	s.Title = "Reasoning framework"
	return s
}

// DefaultDocument returns the built-in framework schema as a JSON value.
func DefaultDocument() (map[string]any, error) {
	data, err := json.Marshal(reflectFramework())
	if err != nil {
		return nil, fmt.Errorf("marshaling framework schema: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling framework schema: %w", err)
	}
	return doc, nil
}

// Default compiles the built-in framework schema.
func Default() (*Schema, error) {
	doc, err := DefaultDocument()
	if err != nil {
		return nil, err
	}
	return Compile(DefaultLocation, doc)
}

// DefaultJSON renders the built-in schema as indented JSON.
func DefaultJSON() ([]byte, error) {
	return json.MarshalIndent(reflectFramework(), "", "  ")
}

// DefaultYAML renders the built-in schema as block-style YAML, keeping the
// key order of the JSON rendering.
func DefaultYAML() ([]byte, error) {
	data, err := json.Marshal(reflectFramework())
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
