package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/fwlint/pkg/core"
)

// DefaultDecoders returns the standard set of decoders keyed by file extension.
func DefaultDecoders() map[string]core.Decoder {
	return map[string]core.Decoder{
		".yaml": NewYAMLDecoder(),
		".yml":  NewYAMLDecoder(),
		".json": NewJSONDecoder(),
	}
}

// --- YAML Decoder ---

// YAMLDecoder decodes a YAML stream. Multi-document streams are allowed and
// every document becomes its own tree.
type YAMLDecoder struct{}

// NewYAMLDecoder creates a new YAML decoder.
func NewYAMLDecoder() *YAMLDecoder {
	return &YAMLDecoder{}
}

func (d *YAMLDecoder) Decode(raw []byte) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))

	var trees []any
	for {
		var payload any
		err := dec.Decode(&payload)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		trees = append(trees, core.Normalize(payload))
	}

	// An empty stream is still one (null) document.
	if len(trees) == 0 {
		trees = []any{nil}
	}
	return trees, nil
}

// --- JSON Decoder ---

// JSONDecoder decodes a single JSON value.
type JSONDecoder struct{}

// NewJSONDecoder creates a new JSON decoder.
func NewJSONDecoder() *JSONDecoder {
	return &JSONDecoder{}
}

func (d *JSONDecoder) Decode(raw []byte) ([]any, error) {
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return []any{nil}, nil
		}
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if decoder.More() {
		return nil, errors.New("invalid json: trailing data after top-level value")
	}
	return []any{payload}, nil
}
