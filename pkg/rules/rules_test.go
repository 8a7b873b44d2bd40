package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fwlint/pkg/core"
)

func rawDoc(src string) *core.Document {
	return &core.Document{Path: "x.yml", Raw: []byte(src)}
}

func TestDocumentStart(t *testing.T) {
	r, err := Builtin(DocumentStart)
	require.NoError(t, err)

	assert.Empty(t, Set(r).Check(rawDoc("---\nname: a\n")))
	assert.Empty(t, Set(r).Check(rawDoc("\n\n---\nname: a\n")))

	vs := Set(r).Check(rawDoc("name: a\n"))
	require.Len(t, vs, 1)
	assert.Equal(t, core.KindRule, vs[0].Kind)
	assert.Equal(t, DocumentStart, vs[0].Constraint)
}

func TestNoEscapes(t *testing.T) {
	r, err := Builtin(NoEscapes)
	require.NoError(t, err)

	clean := "---\nframework:\n  content: |\n    line one\n    line two\n"
	assert.Empty(t, Set(r).Check(rawDoc(clean)))

	dirty := "---\nname: a\nframework:\n  content: \"one\\ntwo\\tthree\"\n"
	vs := Set(r).Check(rawDoc(dirty))
	require.Len(t, vs, 2)
	assert.Contains(t, vs[0].Message, "line 4")

	legacy := "---\nname: a\nlegacy_content: \"old\\nstuff\"\n"
	assert.Empty(t, Set(r).Check(rawDoc(legacy)))
}

func TestNoNBSP(t *testing.T) {
	r, err := Builtin(NoNBSP)
	require.NoError(t, err)

	assert.Empty(t, Set(r).Check(rawDoc("---\nname: a\n")))

	vs := Set(r).Check(rawDoc("---\nname:\u00a0a\n"))
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Message, "line 2")
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("no-such-rule")
	assert.Error(t, err)
	assert.Equal(t, []string{DocumentStart, NoEscapes, NoNBSP}, BuiltinNames())
}

func TestSetReportsAllRules(t *testing.T) {
	rs, err := Builtin(BuiltinNames()...)
	require.NoError(t, err)

	vs := Set(rs).Check(rawDoc("name:\u00a0\"a\\nb\"\n"))
	var names []string
	for _, v := range vs {
		names = append(names, v.Constraint)
	}
	assert.ElementsMatch(t, []string{DocumentStart, NoEscapes, NoNBSP}, names)
}

func TestJQRule(t *testing.T) {
	r, err := NewJQ("version-is-string", `(has("version") | not) or (.version | type == "string")`, "")
	require.NoError(t, err)
	assert.Equal(t, "version-is-string", r.Name())

	ok := &core.Document{Trees: []any{map[string]any{"version": "1.0"}}}
	assert.Empty(t, r.Check(ok))

	missing := &core.Document{Trees: []any{map[string]any{"name": "x"}}}
	assert.Empty(t, r.Check(missing))

	bad := &core.Document{Trees: []any{
		map[string]any{"version": "1.0"},
		map[string]any{"version": 1.0},
	}}
	vs := r.Check(bad)
	require.Len(t, vs, 1)
	assert.Equal(t, 1, vs[0].Document)
	assert.Equal(t, "version-is-string", vs[0].Constraint)
	assert.Contains(t, vs[0].Message, "want true")
}

func TestJQRuleCustomMessageAndErrors(t *testing.T) {
	r, err := NewJQ("has-content", `.framework.content | length > 0`, "framework content must not be empty")
	require.NoError(t, err)

	vs := r.Check(&core.Document{Trees: []any{map[string]any{"framework": map[string]any{"content": ""}}}})
	require.Len(t, vs, 1)
	assert.Equal(t, "framework content must not be empty", vs[0].Message)

	vs = r.Check(&core.Document{Trees: []any{[]any{1, 2}}})
	require.Len(t, vs, 1)
	assert.Contains(t, vs[0].Message, "jq error")
}

func TestJQRuleCompileErrors(t *testing.T) {
	_, err := NewJQ("broken", `.name |`, "")
	assert.Error(t, err)

	_, err = NewJQ("", `.`, "")
	assert.Error(t, err)

	_, err = NewJQ("undefined", `nosuchfunc(1)`, "")
	assert.Error(t, err)
}
