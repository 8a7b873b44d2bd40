// Package layout checks the structure of a framework collection: the
// category directories it must have, how many documents each holds and the
// files that must sit next to them.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/fwlint/pkg/core"
)

// Config describes the expected shape of a collection.
//
// Counts only include documents sitting directly inside a directory. MinTotal
// applies to the documents of the Dirs categories, or to every document when
// Dirs is empty.
type Config struct {
	Dirs      []string       `yaml:"dirs"`
	MinCounts map[string]int `yaml:"min_counts"`
	MinTotal  int            `yaml:"min_total"`
	Files     []string       `yaml:"files"`
}

// Default returns the layout of a standard framework collection.
func Default() Config {
	return Config{
		Dirs:      []string{"core", "purpose-built", "personas"},
		MinCounts: map[string]int{"core": 5, "personas": 2},
		MinTotal:  20,
	}
}

// Check evaluates cfg against the collection at root. docs are the
// collected document paths, relative to root and slash-separated.
//
// Findings are ordered: directories, per-directory counts, total, files.
func Check(root string, docs []string, cfg Config) []core.Finding {
	var out []core.Finding

	for _, dir := range cfg.Dirs {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir)))
		switch {
		case err != nil:
			out = append(out, fail("dir "+dir, "missing"))
		case !info.IsDir():
			out = append(out, fail("dir "+dir, "not a directory"))
		default:
			out = append(out, pass("dir "+dir, "present"))
		}
	}

	counts := countByDir(docs)
	dirs := make([]string, 0, len(cfg.MinCounts))
	for dir := range cfg.MinCounts {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		out = append(out, atLeast("count "+dir, counts[clean(dir)], cfg.MinCounts[dir]))
	}

	if cfg.MinTotal > 0 {
		total := len(docs)
		if len(cfg.Dirs) > 0 {
			total = 0
			for _, dir := range uniq(cfg.Dirs) {
				total += counts[dir]
			}
		}
		out = append(out, atLeast("total", total, cfg.MinTotal))
	}

	for _, file := range cfg.Files {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(file)))
		switch {
		case err != nil:
			out = append(out, fail("file "+file, "missing"))
		case info.IsDir():
			out = append(out, fail("file "+file, "is a directory"))
		default:
			out = append(out, pass("file "+file, "present"))
		}
	}
	return out
}

// countByDir counts documents per parent directory. "core/a.yml" counts for
// "core" and "core/extra/b.yml" only for "core/extra".
func countByDir(docs []string) map[string]int {
	counts := make(map[string]int)
	for _, doc := range docs {
		dir := "."
		if i := strings.LastIndexByte(doc, '/'); i >= 0 {
			dir = doc[:i]
		}
		counts[dir]++
	}
	return counts
}

func clean(dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return "."
	}
	return dir
}

func uniq(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	var out []string
	for _, d := range dirs {
		d = clean(d)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

func atLeast(check string, got, want int) core.Finding {
	msg := fmt.Sprintf("%d documents, want at least %d", got, want)
	if got < want {
		return fail(check, msg)
	}
	return pass(check, msg)
}

func pass(check, msg string) core.Finding {
	return core.Finding{Check: check, Passed: true, Message: msg}
}

func fail(check, msg string) core.Finding {
	return core.Finding{Check: check, Passed: false, Message: msg}
}
