// Package schema validates decoded documents against a JSON Schema.
//
// Schemas may be written in JSON or YAML. Every violation found in a
// document is reported, not only the first one.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/fwlint/pkg/core"
)

// Schema is a compiled JSON Schema. It is read-only after construction and
// safe for concurrent use.
type Schema struct {
	// Location identifies where the schema came from (file path or built-in name).
	Location string
	compiled *jsonschema.Schema
}

// Compile compiles a schema document that is already decoded into the JSON
// data model.
func Compile(location string, doc any) (*Schema, error) {
	value, err := toJSONValue(doc)
	if err != nil {
		return nil, fmt.Errorf("converting schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(location, value); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	compiled, err := compiler.Compile(location)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	return &Schema{Location: location, compiled: compiled}, nil
}

// Load reads and compiles a schema file. Files ending in .yml or .yaml are
// decoded as YAML, everything else as JSON.
func Load(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrSchemaNotFound, path)
		}
		return nil, fmt.Errorf("reading schema: %w", err)
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing schema %s: %w", path, err)
		}
		doc = core.Normalize(doc)
	default:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing schema %s: %w", path, err)
		}
	}

	location, err := filepath.Abs(path)
	if err != nil {
		location = path
	}
	return Compile(location, doc)
}

// Check validates every tree of the document and implements core.Checker.
func (s *Schema) Check(doc *core.Document) []core.Violation {
	var out []core.Violation
	for i, tree := range doc.Trees {
		for _, v := range s.Validate(tree) {
			v.Document = i
			out = append(out, v)
		}
	}
	core.SortViolations(out)
	return out
}

// Validate validates a single decoded value and returns every violation.
func (s *Schema) Validate(value any) []core.Violation {
	err := s.compiled.Validate(toNumbers(value))
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []core.Violation{{Kind: core.KindSchema, Message: err.Error()}}
	}

	var out []core.Violation
	seen := make(map[string]bool)
	collectViolations(validationErr, func(v core.Violation) {
		key := v.Pointer + "\x00" + v.Message
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, v)
	})
	core.SortViolations(out)
	return out
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// collectViolations walks the error tree and emits leaf errors (those without causes).
// A single "required" error naming several properties yields one violation per property.
func collectViolations(err *jsonschema.ValidationError, emit func(core.Violation)) {
	pointer := instancePointer(err.InstanceLocation)

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		switch k := err.ErrorKind.(type) {
		case *kind.Required:
			for _, name := range k.Missing {
				emit(core.Violation{
					Kind:       core.KindSchema,
					Pointer:    pointer + "/" + escapeToken(name),
					Constraint: "required",
					Message:    fmt.Sprintf("missing required property %q", name),
				})
			}
		default:
			msg := k.LocalizedString(printer)
			// $ref and "doesn't validate with" wrappers carry no information of their own
			if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
				emit(core.Violation{
					Kind:       core.KindSchema,
					Pointer:    pointer,
					Constraint: keyword(k.KeywordPath()),
					Message:    msg,
				})
			}
		}
	}

	for _, cause := range err.Causes {
		collectViolations(cause, emit)
	}
}

func keyword(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1]
}

func instancePointer(location []string) string {
	if len(location) == 0 {
		return ""
	}
	var b strings.Builder
	for _, token := range location {
		b.WriteByte('/')
		b.WriteString(escapeToken(token))
	}
	return b.String()
}

func escapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// toJSONValue round-trips a value through encoding/json so the compiler sees
// exactly what jsonschema.UnmarshalJSON would produce.
func toJSONValue(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// toNumbers converts Go numbers to json.Number, the representation the
// validator uses for numeric instances.
func toNumbers(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = toNumbers(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = toNumbers(val)
		}
		return l
	case int:
		return json.Number(strconv.Itoa(v))
	case float64:
		return json.Number(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		return v
	}
}
