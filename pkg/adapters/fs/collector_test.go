package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fwlint/pkg/core"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

func TestCollectorCollect(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"personas/z.yml":             "name: z",
		"core/b.yaml":                "name: b",
		"core/a.yml":                 "name: a",
		"core/notes.md":              "# notes",
		"top.yml":                    "name: top",
		".git/config.yml":            "x: y",
		"node_modules/pkg/x.yml":     "x: y",
		"purpose-built/drafts/d.yml": "name: d",
	})

	c, err := NewCollector("", nil, nil)
	require.NoError(t, err)

	paths, err := c.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"core/a.yml",
		"core/b.yaml",
		"personas/z.yml",
		"purpose-built/drafts/d.yml",
		"top.yml",
	}, paths)

	// Deterministic across runs.
	again, err := c.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, paths, again)
}

func TestCollectorPatternAndIgnore(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"core/a.yml":          "name: a",
		"core/legacy/old.yml": "name: old",
		"personas/p.yml":      "name: p",
		"personas/p.json":     "{}",
	})

	c, err := NewCollector("{core,personas}/**/*.yml", []string{"**/legacy/**"}, nil)
	require.NoError(t, err)

	paths, err := c.Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"core/a.yml", "personas/p.yml"}, paths)
}

func TestCollectorInvalidPattern(t *testing.T) {
	_, err := NewCollector("[", nil, nil)
	assert.Error(t, err)

	_, err = NewCollector("**/*.yml", []string{"{"}, nil)
	assert.Error(t, err)
}

func TestCollectorMissingRoot(t *testing.T) {
	c, err := NewCollector("", nil, nil)
	require.NoError(t, err)

	_, err = c.Collect(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRootNotFound))

	file := filepath.Join(t.TempDir(), "file.yml")
	require.NoError(t, os.WriteFile(file, []byte("a: b"), 0644))
	_, err = c.Collect(context.Background(), file)
	assert.True(t, errors.Is(err, core.ErrRootNotFound))
}

func TestCollectorCancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.yml": "a: b"})

	c, err := NewCollector("", nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Collect(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b.yml")
	require.NoError(t, os.WriteFile(path, make([]byte, 60), 0644))

	size, err := FileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(60), size)

	_, err = FileSize(dir)
	assert.Error(t, err)

	_, err = FileSize(filepath.Join(dir, "nope.yml"))
	assert.Error(t, err)
}
