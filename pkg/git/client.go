// Package git runs the git binary to find out which documents changed.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotInstalled is returned when no git binary is on PATH.
var ErrNotInstalled = errors.New("git is not installed")

// Client wraps git command execution in a working directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		WorkDir: workDir,
		Logger:  logger,
	}
}

// IsInstalled reports whether a git binary is available.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Run executes a raw git command in the working directory and returns its
// trimmed output.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	out, err := c.output(ctx, args...)
	return strings.TrimSpace(string(out)), err
}

// output returns stdout untouched. Porcelain formats give meaning to
// leading spaces, so they must not be trimmed.
func (c *Client) output(ctx context.Context, args ...string) ([]byte, error) {
	if !IsInstalled() {
		return nil, ErrNotInstalled
	}
	c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Init initializes a new git repository if one doesn't exist.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// Commit records staged changes under a fixed identity.
func (c *Client) Commit(ctx context.Context, msg string) error {
	_, err := c.Run(ctx, "-c", "user.name=fwlint", "-c", "user.email=fwlint@localhost", "commit", "-m", msg)
	return err
}

// TopLevel returns the absolute path of the repository containing WorkDir.
func (c *Client) TopLevel(ctx context.Context) (string, error) {
	return c.Run(ctx, "rev-parse", "--show-toplevel")
}

// Changed returns the files below WorkDir that are modified, added, renamed
// or untracked, as slash-separated paths relative to WorkDir.
func (c *Client) Changed(ctx context.Context) (map[string]bool, error) {
	top, err := c.TopLevel(ctx)
	if err != nil {
		return nil, err
	}
	out, err := c.output(ctx, "status", "--porcelain", "-z", "--untracked-files=all", "--", ".")
	if err != nil {
		return nil, err
	}

	base, err := filepath.Abs(c.WorkDir)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(base); err == nil {
		base = resolved
	}

	changed := make(map[string]bool)
	for _, p := range parsePorcelainZ(out) {
		rel, err := filepath.Rel(base, filepath.Join(top, filepath.FromSlash(p)))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		changed[filepath.ToSlash(rel)] = true
	}
	return changed, nil
}

// parsePorcelainZ extracts the current path of every entry of
// `git status --porcelain -z`. Deleted entries are dropped; renames and
// copies keep their new path.
func parsePorcelainZ(out []byte) []string {
	var paths []string
	fields := strings.Split(string(out), "\x00")
	for i := 0; i < len(fields); i++ {
		entry := fields[i]
		if len(entry) < 4 {
			continue
		}
		x, y, path := entry[0], entry[1], entry[3:]
		if x == 'R' || x == 'C' {
			// The source path follows as its own field.
			i++
		}
		if x == 'D' || y == 'D' {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
