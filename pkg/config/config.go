// Package config loads fwlint settings from defaults, an optional YAML file
// and environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/fwlint/internal/logging"
	"github.com/aretw0/fwlint/pkg/layout"
)

// FileName is the config file looked up in the collection root when none is given.
const FileName = ".fwlint.yml"

// Defaults.
const (
	DefaultRoot      = "frameworks"
	DefaultPattern   = "**/*.{yml,yaml}"
	DefaultMinSize   = 100
	DefaultCacheSize = 1024
	DefaultDebounce  = 200 * time.Millisecond
)

// Config holds every fwlint setting.
type Config struct {
	Root      string   `yaml:"root"`
	Schema    string   `yaml:"schema"` // empty selects the built-in framework schema
	Pattern   string   `yaml:"pattern"`
	Ignore    []string `yaml:"ignore"`
	MinSize   int64    `yaml:"min_size"`
	Workers   int      `yaml:"workers"` // 0 selects the number of CPUs
	CacheSize int      `yaml:"cache_size"`

	Rules  Rules          `yaml:"rules"`
	Layout layout.Config  `yaml:"layout"`
	Watch  Watch          `yaml:"watch"`
	Log    Log            `yaml:"log"`
}

// Rules configures content checks.
type Rules struct {
	// Enabled lists the builtin rules to run. None run by default.
	Enabled []string `yaml:"enabled"`
	JQ      []JQRule `yaml:"jq"`
}

// JQRule declares a jq assertion every document must satisfy.
type JQRule struct {
	Name    string `yaml:"name"`
	Expr    string `yaml:"expr"`
	Message string `yaml:"message"`
}

// Log configures logging. It converts to logging.Config.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Watch configures watch mode.
type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Root:      DefaultRoot,
		Pattern:   DefaultPattern,
		MinSize:   DefaultMinSize,
		CacheSize: DefaultCacheSize,
		Layout:    layout.Default(),
		Watch:     Watch{Debounce: DefaultDebounce},
		Log:       Log(logging.DefaultConfig()),
	}
}

// Load returns the defaults overlaid with the config file and the
// environment.
//
// An explicit path must exist. Without one, FileName is looked up in root
// and skipped when absent. lookup defaults to os.LookupEnv.
func Load(path, root string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	}
	if err := cfg.MergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MergeFile overlays the settings present in the YAML file at path.
// A relative schema path is resolved against the directory of the file.
func (c *Config) MergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	before := c.Schema
	if err := c.merge(bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	if c.Schema != before && c.Schema != "" && !filepath.IsAbs(c.Schema) {
		c.Schema = filepath.Join(filepath.Dir(path), c.Schema)
	}
	return nil
}

func (c *Config) merge(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// RootFromEnv returns the collection root named by the environment.
// FWLINT_ROOT wins over the legacy SCRATCHPAD_DIR, whose frameworks
// subdirectory is the root.
func RootFromEnv(lookup func(string) (string, bool)) (string, bool) {
	if v, ok := lookup("FWLINT_ROOT"); ok && v != "" {
		return v, true
	}
	if v, ok := lookup("SCRATCHPAD_DIR"); ok && v != "" {
		return filepath.Join(v, "frameworks"), true
	}
	return "", false
}

// ApplyEnv overlays FWLINT_* environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if root, ok := RootFromEnv(lookup); ok {
		c.Root = root
	}
	if v, ok := lookup("FWLINT_SCHEMA"); ok && v != "" {
		c.Schema = v
	}
	if v, ok := lookup("FWLINT_PATTERN"); ok && v != "" {
		c.Pattern = v
	}
	if v, ok := lookup("FWLINT_MIN_SIZE"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("FWLINT_MIN_SIZE: %w", err)
		}
		c.MinSize = n
	}
	if v, ok := lookup("FWLINT_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FWLINT_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v, ok := lookup("FWLINT_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("FWLINT_LOG_FILE"); ok && v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.New("root must not be empty")
	}
	if !doublestar.ValidatePattern(c.Pattern) {
		return fmt.Errorf("invalid pattern %q", c.Pattern)
	}
	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	if c.MinSize < 0 {
		return fmt.Errorf("min_size must not be negative, got %d", c.MinSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	seen := make(map[string]bool)
	for i, r := range c.Rules.JQ {
		if r.Name == "" || r.Expr == "" {
			return fmt.Errorf("rules.jq[%d]: name and expr are required", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("rules.jq[%d]: duplicate rule %q", i, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}
