package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/fwlint/pkg/core"
)

func decode(t *testing.T, src string) any {
	t.Helper()
	var v any
	require.NoError(t, yaml.Unmarshal([]byte(src), &v))
	return core.Normalize(v)
}

func pointers(vs []core.Violation) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.Pointer)
	}
	return out
}

const validFramework = `
name: Scratchpad 2.7
category: core
version: "2.7"
documentation:
  purpose: Structured reasoning
  use_case: Complex tasks
framework:
  content: |
    [attention]
`

func TestDefaultSchemaAcceptsValidFramework(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	assert.Empty(t, s.Validate(decode(t, validFramework)))
}

func TestDefaultSchemaReportsEveryMissingField(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	vs := s.Validate(decode(t, "name: Lonely\ncategory: core\n"))
	require.Len(t, vs, 2)
	assert.Equal(t, []string{"/documentation", "/framework"}, pointers(vs))
	for _, v := range vs {
		assert.Equal(t, core.KindSchema, v.Kind)
		assert.Equal(t, "required", v.Constraint)
	}
	assert.Contains(t, vs[0].Message, `"documentation"`)
	assert.Contains(t, vs[1].Message, `"framework"`)
}

func TestDefaultSchemaMixedViolations(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	vs := s.Validate(decode(t, `
name: ""
category: core
version: 1.0
documentation: {}
`))
	got := pointers(vs)
	assert.Contains(t, got, "/name")
	assert.Contains(t, got, "/version")
	assert.Contains(t, got, "/framework")
	assert.Len(t, vs, 3)
}

func TestDefaultSchemaRejectsNonMapping(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	vs := s.Validate(nil)
	require.NotEmpty(t, vs)
	assert.Equal(t, "", vs[0].Pointer)

	vs = s.Validate([]any{"a", "b"})
	require.NotEmpty(t, vs)
}

func TestCheckMultiDocument(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	doc := &core.Document{
		Path:  "multi.yml",
		Trees: []any{decode(t, validFramework), decode(t, "name: second\n")},
	}
	vs := s.Check(doc)
	require.Len(t, vs, 3)
	for _, v := range vs {
		assert.Equal(t, 1, v.Document)
	}
}

func TestLoadYAMLSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
type: object
required: [name, category]
properties:
  name:
    type: string
  category:
    enum: [core, purpose-built, personas]
  weight:
    type: integer
    minimum: 1
`), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Empty(t, s.Validate(decode(t, "name: a\ncategory: core\nweight: 2\n")))

	vs := s.Validate(decode(t, "name: 3\ncategory: other\nweight: 0\n"))
	assert.ElementsMatch(t, []string{"/category", "/name", "/weight"}, pointers(vs))
}

func TestLoadJSONSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "type": "object",
  "required": ["a/b", "c~d"],
  "properties": {"flag": {"type": "boolean"}}
}`), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	vs := s.Validate(map[string]any{"flag": "yes"})
	assert.Equal(t, []string{"/a~1b", "/c~0d", "/flag"}, pointers(vs))
}

func TestLoadMissingSchema(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSchemaNotFound))
}

func TestLoadInvalidSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type": 12}`), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("type: [object\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestDefaultRenderings(t *testing.T) {
	js, err := DefaultJSON()
	require.NoError(t, err)
	assert.Contains(t, string(js), `"required"`)

	ys, err := DefaultYAML()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(ys, &doc))
	assert.ElementsMatch(t, []any{"name", "category", "documentation", "framework"}, doc["required"])
}
