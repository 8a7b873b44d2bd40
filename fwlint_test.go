package fwlint

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fwlint/pkg/config"
	"github.com/aretw0/fwlint/pkg/core"
	"github.com/aretw0/fwlint/pkg/rules"
)

const framework = `---
name: Chain of Thought
category: core
documentation:
  purpose: Reason step by step
framework:
  content: Work through the problem one step at a time before answering.
`

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(root string) config.Config {
	cfg := config.Default()
	cfg.Root = root
	cfg.Workers = 2
	return cfg
}

func TestNewConfigErrors(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Schema = filepath.Join(t.TempDir(), "missing.json")
	_, err := New(cfg, quiet())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, core.ErrSchemaNotFound)

	cfg = testConfig(t.TempDir())
	cfg.Rules.JQ = []config.JQRule{{Name: "broken", Expr: ".name |"}}
	_, err = New(cfg, quiet())
	assert.ErrorIs(t, err, ErrConfig)

	cfg = testConfig(t.TempDir())
	cfg.MinSize = -5
	_, err = New(cfg, quiet())
	assert.ErrorIs(t, err, ErrConfig)
}

func TestBuildRules(t *testing.T) {
	set, err := BuildRules(config.Rules{})
	require.NoError(t, err)
	assert.Empty(t, set)

	set, err = BuildRules(config.Rules{
		Enabled: []string{rules.NoNBSP, rules.DocumentStart},
		JQ:      []config.JQRule{{Name: "has-version", Expr: `has("version")`}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{rules.NoNBSP, rules.DocumentStart, "has-version"}, set.Names())

	_, err = BuildRules(config.Rules{Enabled: []string{"no-such-rule"}})
	assert.Error(t, err)
}

// A plain YAML document without a "---" marker passes the default
// configuration: only parse, schema and size failures fail a file.
func TestCheckDefaultsAcceptDocumentsWithoutMarker(t *testing.T) {
	root := t.TempDir()
	body := strings.TrimPrefix(framework, "---\n")
	a := body + "notes: |\n  " + strings.Repeat("x", 500-len(body)-12) + "\n"
	require.Len(t, a, 500)
	writeTree(t, root, map[string]string{
		"a.yml": a,
		"b.yml": "name: Bb\ncategory: core\ndocumentation: {}\nframework: {}\n",
	})

	cfg := config.Default()
	cfg.Root = root
	linter, err := New(cfg, quiet())
	require.NoError(t, err)
	assert.Empty(t, linter.Rules)

	report, err := linter.Check(context.Background(), CheckOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)

	assert.Equal(t, "a.yml", report.Results[0].Path)
	assert.True(t, report.Results[0].Passed(), "violations: %v", report.Results[0].Violations)

	b := report.Results[1]
	assert.Equal(t, "b.yml", b.Path)
	require.Len(t, b.Violations, 1)
	assert.Equal(t, core.KindSize, b.Violations[0].Kind)
	assert.Equal(t, int64(56), b.Violations[0].Actual)
}

func TestCheckWithSchemaFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"schema.yml": "type: object\nrequired: [title]\nproperties:\n  title:\n    type: string\n",
		"docs/a.yml": "---\ntitle: hello\n",
		"docs/b.yml": "---\nname: no title\n",
	})

	cfg := testConfig(root)
	cfg.Schema = filepath.Join(root, "schema.yml")
	cfg.Pattern = "docs/*.yml"
	cfg.MinSize = 0

	linter, err := New(cfg, quiet())
	require.NoError(t, err)

	report, err := linter.Check(context.Background(), CheckOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, report.Total)
	assert.True(t, report.Results[0].Passed())
	require.Len(t, report.Results[1].Violations, 1)
	assert.Equal(t, "/title", report.Results[1].Violations[0].Pointer)
}

func TestCheckOnlyAndLayout(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"core/a.yml":     framework,
		"core/b.yml":     framework,
		"personas/c.yml": "name: [",
	})

	cfg := testConfig(root)
	cfg.Layout.MinTotal = 3

	linter, err := New(cfg, quiet())
	require.NoError(t, err)

	report, err := linter.Check(context.Background(), CheckOptions{
		Only:   map[string]bool{"core/a.yml": true},
		Layout: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 0, report.Failed)
	require.NotEmpty(t, report.Layout)
	assert.False(t, report.OK(), "purpose-built is missing and core holds fewer than 5 documents")

	var failed []string
	for _, f := range report.Layout {
		if !f.Passed {
			failed = append(failed, f.Check)
		}
	}
	assert.Equal(t, []string{"dir purpose-built", "count core", "count personas"}, failed)
}

func TestCheckRules(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.yml": strings.TrimPrefix(framework, "---\n") + "notes: \"one\\ntwo\"\n",
	})

	cfg := testConfig(root)
	cfg.Rules.Enabled = rules.BuiltinNames()
	linter, err := New(cfg, quiet())
	require.NoError(t, err)

	report, err := linter.Check(context.Background(), CheckOptions{})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	var constraints []string
	for _, v := range report.Results[0].Violations {
		constraints = append(constraints, v.Constraint)
	}
	assert.ElementsMatch(t, []string{rules.DocumentStart, rules.NoEscapes}, constraints)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.Equal(t, strings.TrimSpace(Version), Version)
}
