package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/fwlint/pkg/core"
)

// DefaultPattern matches every YAML file below the root.
const DefaultPattern = "**/*.{yml,yaml}"

// DefaultSkipDirs lists directory names never descended into.
var DefaultSkipDirs = []string{".git", ".venv", "node_modules", "__pycache__"}

// Collector enumerates the documents of a collection.
type Collector struct {
	Pattern  string   // doublestar pattern matched against the slash-separated relative path
	Ignore   []string // doublestar patterns excluded from the result
	SkipDirs []string // directory names pruned from the walk
	Logger   *slog.Logger
}

// NewCollector creates a collector with the default skip list.
func NewCollector(pattern string, ignore []string, logger *slog.Logger) (*Collector, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	for _, p := range ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		Pattern:  pattern,
		Ignore:   ignore,
		SkipDirs: DefaultSkipDirs,
		Logger:   logger,
	}, nil
}

// Collect walks root and returns the relative, slash-separated paths of every
// matching file in lexicographic order.
//
// Only a root that cannot be enumerated is an error. Unreadable
// subdirectories are logged and skipped.
func (c *Collector) Collect(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", core.ErrRootNotFound, root)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			c.Logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && c.skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if c.Match(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Match reports whether a slash-separated relative path belongs to the collection.
func (c *Collector) Match(rel string) bool {
	ok, err := doublestar.Match(c.Pattern, rel)
	if err != nil || !ok {
		return false
	}
	for _, ignore := range c.Ignore {
		if skip, _ := doublestar.Match(ignore, rel); skip {
			return false
		}
	}
	return true
}

func (c *Collector) skipDir(name string) bool {
	for _, skip := range c.SkipDirs {
		if name == skip {
			return true
		}
	}
	return false
}

// FileSize returns the byte length of the file at path.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	return info.Size(), nil
}
