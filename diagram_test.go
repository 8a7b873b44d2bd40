package fwlint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fwlint/pkg/rules"
	"github.com/aretw0/fwlint/pkg/schema"
)

func TestDiagram(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"core/a.yml": framework})

	cfg := testConfig(root)
	cfg.Rules.Enabled = []string{rules.NoNBSP}
	linter, err := New(cfg, quiet())
	require.NoError(t, err)

	before := linter.Diagram()
	assert.Contains(t, before, "graph TD")
	assert.Contains(t, before, "fwlint "+root)
	assert.Contains(t, before, "validator **/*.{yml,yaml}, 2 workers")
	assert.Contains(t, before, "Schema: "+schema.DefaultLocation)
	assert.Contains(t, before, "Rules: no-nbsp")
	assert.Contains(t, before, "Last run: none")

	_, err = linter.Check(context.Background(), CheckOptions{})
	require.NoError(t, err)

	after := linter.Diagram()
	assert.Contains(t, after, "Last run: 1 documents, 0 failed")
	assert.Contains(t, after, "Cache: 1 entries")
	assert.Contains(t, after, "class fwlint_1 finished")
}
